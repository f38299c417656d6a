package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/repository"

	"github.com/google/uuid"
)

const Currency = "INR"

// CheckoutService is the payment-order initiator: given a client cart, it
// resolves an authoritative total, opens exactly one gateway order and writes
// exactly one local PENDING order as a pair.
type CheckoutService struct {
	Resolver *CartResolver
	Orders   OrderStore
	Users    UserStore
	Gateway  PaymentGateway

	// Flat shipping fee, waived at or above FreeShippingOver. Both zero in
	// the default deployment (shipping is free store-wide).
	ShippingFee      float64
	FreeShippingOver float64
}

func NewCheckoutService(
	resolver *CartResolver,
	orders OrderStore,
	users UserStore,
	gateway PaymentGateway,
	shippingFee, freeShippingOver float64,
) *CheckoutService {
	return &CheckoutService{
		Resolver:         resolver,
		Orders:           orders,
		Users:            users,
		Gateway:          gateway,
		ShippingFee:      shippingFee,
		FreeShippingOver: freeShippingOver,
	}
}

// MinorUnits converts a rupee amount to integer paise. Rounded, not
// truncated, so fractional paise never systematically undercharge.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *CheckoutService) shippingCost(subtotal float64) float64 {
	if s.ShippingFee == 0 {
		return 0
	}
	if s.FreeShippingOver > 0 && subtotal >= s.FreeShippingOver {
		return 0
	}
	return s.ShippingFee
}

// Initiate opens a Razorpay order for the resolved cart total and persists
// the local PENDING order with frozen item snapshots. userID is nil for
// guest checkout. A repeated idempotencyKey returns the already-created
// PENDING order instead of opening a second gateway order.
func (s *CheckoutService) Initiate(
	ctx context.Context,
	lines []model.CartLine,
	addr model.ShippingAddress,
	userID *int64,
	idempotencyKey string,
) (*model.CheckoutResult, error) {

	if idempotencyKey != "" {
		existing, err := s.Orders.GetByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			if existing.Status != model.OrderStatusPending {
				return nil, fmt.Errorf("%w: order %d already %s", ErrValidation, existing.OrderID, existing.Status)
			}
			return &model.CheckoutResult{
				RazorpayOrderID: existing.RazorpayOrderID,
				Amount:          MinorUnits(existing.Total),
				Currency:        Currency,
				OrderID:         existing.OrderID,
			}, nil
		}
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
	}

	email := strings.TrimSpace(strings.ToLower(addr.Email))
	if userID != nil {
		u, err := s.Users.GetByID(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown user", ErrValidation)
		}
		if email == "" {
			email = u.Email
		}
	}
	if err := validateAddress(addr, email); err != nil {
		return nil, err
	}

	resolved, err := s.Resolver.Resolve(ctx, lines)
	if err != nil {
		return nil, err
	}

	// Any stock-driven adjustment fails initiation before money moves; the
	// client corrects the cart and retries. Dropped unknown products alone
	// do not block.
	for _, a := range resolved.Adjustments {
		if a.Reason == AdjustProductUnavailable {
			continue
		}
		return nil, fmt.Errorf("%w: %s size %s: requested %d, available %d",
			ErrStockExhausted, a.ProductID, a.Size, a.Requested, a.Granted)
	}

	if resolved.Subtotal <= 0 {
		return nil, ErrEmptyCart
	}

	shipping := s.shippingCost(resolved.Subtotal)
	total := resolved.Subtotal + shipping

	receipt := "order_" + uuid.NewString()
	gw, err := s.Gateway.CreateOrder(ctx, MinorUnits(total), Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInit, err)
	}

	order := &model.Order{
		OrderNumber:     gw.ID,
		UserID:          userID,
		Email:           email,
		ShippingName:    addr.FullName,
		ShippingPhone:   addr.Phone,
		ShippingAddress: addr.Address,
		ShippingCity:    addr.City,
		ShippingState:   addr.State,
		ShippingZip:     addr.Zip,
		Subtotal:        resolved.Subtotal,
		ShippingCost:    shipping,
		Total:           total,
		Status:          model.OrderStatusPending,
		PaymentMethod:   "RAZORPAY",
		PaymentStatus:   model.PaymentStatusPending,
		RazorpayOrderID: gw.ID,
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	items := make([]model.OrderItem, 0, len(resolved.Lines))
	for _, l := range resolved.Lines {
		items = append(items, model.OrderItem{
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			ProductImage: l.ProductImage,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			Size:         l.Size,
		})
	}

	orderID, err := s.Orders.CreateWithItems(ctx, order, items)
	if err != nil {
		// The gateway order exists with no local counterpart. Surface it
		// loudly; an operator has to reconcile.
		log.Printf("checkout: razorpay order %s created but local persist failed: %v", gw.ID, err)
		return nil, fmt.Errorf("%w: razorpay order %s: %v", ErrOrphanProviderOrder, gw.ID, err)
	}

	return &model.CheckoutResult{
		RazorpayOrderID: gw.ID,
		Amount:          gw.Amount,
		Currency:        gw.Currency,
		OrderID:         orderID,
		Adjustments:     resolved.Adjustments,
	}, nil
}

func validateAddress(addr model.ShippingAddress, email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a contact email is required", ErrValidation)
	}
	if strings.TrimSpace(addr.FullName) == "" {
		return fmt.Errorf("%w: recipient name is required", ErrValidation)
	}
	if strings.TrimSpace(addr.Address) == "" {
		return fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	return nil
}
