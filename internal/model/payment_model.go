package model

// GatewayOrder is what the payment provider returns when an order is opened
// on its side. Amount is in minor currency units (paise).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CheckoutResult is returned to the client so it can hand the gateway order
// to the provider's browser SDK.
type CheckoutResult struct {
	RazorpayOrderID string           `json:"id"`
	Amount          int64            `json:"amount"`
	Currency        string           `json:"currency"`
	OrderID         int64            `json:"db_order_id"`
	Adjustments     []CartAdjustment `json:"adjustments,omitempty"`
}
