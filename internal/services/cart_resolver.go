package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/repository"
)

// Adjustment reasons reported by Resolve.
const (
	AdjustProductUnavailable = "product unavailable"
	AdjustOutOfStock         = "out of stock"
	AdjustQuantityClamped    = "quantity reduced to available stock"
)

// CartResolver turns an untrusted client cart into authoritative resolved
// lines. Prices always come from the catalog; client-claimed prices are
// ignored entirely.
type CartResolver struct {
	Catalog CatalogStore
}

func NewCartResolver(c CatalogStore) *CartResolver {
	return &CartResolver{Catalog: c}
}

func (s *CartResolver) Resolve(ctx context.Context, lines []model.CartLine) (*model.ResolvedOrder, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	out := &model.ResolvedOrder{}

	for i, line := range lines {
		if line.ProductID == "" {
			return nil, fmt.Errorf("%w: line %d has no product id", ErrValidation, i)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrValidation, i, line.Quantity)
		}

		p, err := s.Catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				// Stale client state; drop the line, keep the checkout alive.
				log.Printf("resolve: dropping line for unknown product %s", line.ProductID)
				out.Adjustments = append(out.Adjustments, model.CartAdjustment{
					ProductID: line.ProductID,
					Size:      line.Size,
					Requested: line.Quantity,
					Granted:   0,
					Reason:    AdjustProductUnavailable,
				})
				continue
			}
			return nil, err
		}

		stock, err := s.Catalog.GetSizeStock(ctx, line.ProductID, line.Size)
		if err != nil {
			return nil, err
		}

		qty := line.Quantity
		switch {
		case stock == 0:
			out.Adjustments = append(out.Adjustments, model.CartAdjustment{
				ProductID: line.ProductID,
				Size:      line.Size,
				Requested: line.Quantity,
				Granted:   0,
				Reason:    AdjustOutOfStock,
			})
			continue
		case stock < qty:
			qty = stock
			out.Adjustments = append(out.Adjustments, model.CartAdjustment{
				ProductID: line.ProductID,
				Size:      line.Size,
				Requested: line.Quantity,
				Granted:   qty,
				Reason:    AdjustQuantityClamped,
			})
		}

		resolved := model.ResolvedLine{
			ProductID:    p.ProductID,
			ProductName:  p.Name,
			ProductImage: p.Image,
			Size:         line.Size,
			UnitPrice:    p.Price,
			Quantity:     qty,
			LineTotal:    p.Price * float64(qty),
		}
		out.Lines = append(out.Lines, resolved)
		out.Subtotal += resolved.LineTotal
	}

	if len(out.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	return out, nil
}
