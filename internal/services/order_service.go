package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/repository"
)

type OrderService struct {
	Orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{Orders: orders}
}

// ListByUser returns the caller's order history, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// GetGuestOrder looks up a guest order by contact email + order number.
// Both are required; the pair is what stands in for account ownership.
func (s *OrderService) GetGuestOrder(ctx context.Context, email, orderNumber string) (*model.Order, []model.OrderItem, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	orderNumber = strings.TrimSpace(orderNumber)
	if email == "" || orderNumber == "" {
		return nil, nil, fmt.Errorf("%w: email and order number are required", ErrValidation)
	}

	order, err := s.Orders.GetGuestOrder(ctx, email, orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	items, err := s.Orders.GetItems(ctx, order.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// GetItems exposes an order's frozen item snapshots.
func (s *OrderService) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return s.Orders.GetItems(ctx, orderID)
}

// AdvanceStatus applies an operator-triggered transition. PENDING ->
// CONFIRMED is deliberately not reachable here; that move belongs to
// payment verification alone.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID int64, next model.OrderStatus) error {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if !legalOperatorMove(order.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	moved, err := s.Orders.UpdateStatusIf(ctx, orderID, order.Status, next)
	if err != nil {
		return err
	}
	if !moved {
		// The order moved underneath us; the caller should re-read.
		return fmt.Errorf("%w: order %d is no longer %s", ErrInvalidTransition, orderID, order.Status)
	}
	return nil
}

func legalOperatorMove(from, to model.OrderStatus) bool {
	if to == model.OrderStatusCancelled {
		return !from.IsTerminal()
	}
	switch from {
	case model.OrderStatusConfirmed:
		return to == model.OrderStatusShipped
	case model.OrderStatusShipped:
		return to == model.OrderStatusDelivered
	}
	return false
}

// CancelStale sweeps PENDING orders older than ttl. Called from the
// background sweeper; a ttl of zero disables the sweep.
func (s *OrderService) CancelStale(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	return s.Orders.CancelStalePending(ctx, ttl)
}
