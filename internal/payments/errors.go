package payments

import "errors"

var (
	// ErrVerificationFailed means the callback signature did not match the
	// HMAC recomputed from the shared secret. Terminal for the attempt.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrDuplicateCallback means a payment record already exists for this
	// (gateway order id, gateway payment id) pair. Gateways may redeliver
	// callbacks; the first commit wins.
	ErrDuplicateCallback = errors.New("duplicate payment callback")

	// ErrStaleOrder means no live checkout session references the callback's
	// order id - either the order handle expired or it was never opened here.
	ErrStaleOrder = errors.New("stale or unknown gateway order")
)
