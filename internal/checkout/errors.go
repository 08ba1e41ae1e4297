package checkout

import "errors"

// Client-correctable cart validation failures. These are surfaced directly
// to the buyer and leave no side effects behind.
var (
	ErrTierNotFound          = errors.New("ticket tier not found for event")
	ErrTierInactive          = errors.New("ticket tier is not on sale")
	ErrQuantityExceedsCap    = errors.New("requested quantity exceeds per-user cap")
	ErrInsufficientInventory = errors.New("insufficient ticket inventory")
	ErrEventNotBookable      = errors.New("event is not open for booking")
	ErrCurrencyMismatch      = errors.New("cart mixes ticket tiers with different currencies")
	ErrEmptyCart             = errors.New("cart is empty")
)
