package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier validates gateway callback authenticity. It is pure and
// stateless: the same inputs always yield the same verdict.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Signature computes the expected hex HMAC-SHA256 over "orderID|paymentID".
func (v *Verifier) Signature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the supplied signature against the recomputed one.
// hmac.Equal compares in constant time, so a forged signature cannot be
// probed byte by byte.
func (v *Verifier) Verify(orderID, paymentID, signature string) error {
	expected := v.Signature(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrVerificationFailed
	}
	return nil
}
