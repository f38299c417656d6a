package model

import "time"

type Product struct {
	ProductID string     `json:"productid"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Price     float64    `json:"price"`
	Category  string     `json:"category"`
	Image     string     `json:"image"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// SizeStock is the per-(product, size) inventory row
type SizeStock struct {
	ProductID string `json:"productid"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}
