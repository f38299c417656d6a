package services

import "errors"

// Checkout error taxonomy. Endpoints map these to HTTP codes with errors.Is;
// wrap with fmt.Errorf("%w: ...") to attach detail.
var (
	// ErrValidation covers malformed input the caller can fix.
	ErrValidation = errors.New("invalid request")

	// ErrEmptyCart means no valid lines survived resolution.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrStockExhausted means a requested quantity exceeds available stock.
	ErrStockExhausted = errors.New("insufficient stock")

	// ErrPaymentInit means the payment gateway rejected or was unreachable.
	// Retryable; no local state was written.
	ErrPaymentInit = errors.New("payment initialization failed")

	// ErrOrphanProviderOrder means a gateway order exists with no local
	// counterpart. Operational inconsistency, never swallowed.
	ErrOrphanProviderOrder = errors.New("gateway order has no local order")

	// ErrSignatureMismatch means a payment-completion claim failed
	// verification. Callers get a generic body; detail stays in the log.
	ErrSignatureMismatch = errors.New("invalid signature")

	// ErrOrderNotFound means a verified payment references an order this
	// system never created. Should not happen if initiation held.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPayable means the order left PENDING without being paid
	// (e.g. cancelled by the stale sweep) before verification arrived.
	ErrOrderNotPayable = errors.New("order cannot be paid")

	// ErrInvalidTransition means an operator requested an illegal status move.
	ErrInvalidTransition = errors.New("illegal order status transition")
)
