package usecases

import "errors"

// Validation and lookup failures surfaced to callers. Handlers map these to
// HTTP statuses; nothing is retried server-side.
var (
	ErrInvalidAddress  = errors.New("invalid address: expected 0x-prefixed 40 hex digits")
	ErrInvalidAmount   = errors.New("invalid amount: expected positive decimal with up to 18 fractional digits")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrDepositNotFound = errors.New("deposit not found")
	ErrQuoteNotFound   = errors.New("swap quote not found or expired")
)
