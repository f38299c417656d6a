package model

// CartLine is a cart entry as the client sent it. Everything in here is
// untrusted: price, name and image are display-only claims and are re-derived
// from the catalog before any money is involved.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// ResolvedLine is a cart line after server-side re-pricing against the
// catalog. UnitPrice always comes from the products table, never the client.
type ResolvedLine struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Size         string  `json:"size"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"line_total"`
}

// CartAdjustment records a line the resolver dropped or clamped, so the
// caller can tell the customer what changed.
type CartAdjustment struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Requested int    `json:"requested"`
	Granted   int    `json:"granted"`
	Reason    string `json:"reason"`
}

// ResolvedOrder bundles the surviving lines with their authoritative subtotal.
type ResolvedOrder struct {
	Lines       []ResolvedLine   `json:"lines"`
	Subtotal    float64          `json:"subtotal"`
	Adjustments []CartAdjustment `json:"adjustments,omitempty"`
}
