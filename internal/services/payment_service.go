package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	rz "AleesaStoreAPI/external/razorpay"
	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/repository"
)

// PaymentService authenticates payment-completion claims and settles the
// corresponding order. This is the only path that may set paymentstatus to
// PAID.
type PaymentService struct {
	Orders   OrderStore
	Notifier Notifier
	secret   string
}

func NewPaymentService(orders OrderStore, notifier Notifier, secret string) *PaymentService {
	return &PaymentService{Orders: orders, Notifier: notifier, secret: secret}
}

// Verify recomputes the HMAC signature over the provider identifiers and,
// only on a constant-time match, transitions the order PENDING -> CONFIRMED.
// Safe under duplicate and concurrent calls: the conditional update inside
// SettlePaid picks one winner, and only the winner decrements stock and
// dispatches the confirmation.
func (s *PaymentService) Verify(ctx context.Context, razorpayOrderID, razorpayPaymentID, signature string) (int64, error) {
	if razorpayOrderID == "" || razorpayPaymentID == "" || signature == "" {
		return 0, fmt.Errorf("%w: missing payment identifiers", ErrValidation)
	}

	if !rz.VerifySignature(razorpayOrderID, razorpayPaymentID, signature, s.secret) {
		// Full detail stays server-side; the caller gets a generic failure.
		log.Printf("payment: signature mismatch for razorpay order %s payment %s", razorpayOrderID, razorpayPaymentID)
		return 0, ErrSignatureMismatch
	}

	order, settled, err := s.Orders.SettlePaid(ctx, razorpayOrderID, razorpayPaymentID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			log.Printf("payment: verified payment for unknown razorpay order %s", razorpayOrderID)
			return 0, ErrOrderNotFound
		}
		return 0, err
	}

	if !settled {
		// Someone already settled it, or it left PENDING another way.
		if order.PaymentStatus != model.PaymentStatusPaid {
			return 0, fmt.Errorf("%w: order %d is %s", ErrOrderNotPayable, order.OrderID, order.Status)
		}
		return order.OrderID, nil
	}

	s.notify(ctx, order)
	return order.OrderID, nil
}

// notify dispatches the order confirmation. Best-effort: payment state is
// already committed, so a failure here is logged and nothing else.
func (s *PaymentService) notify(ctx context.Context, order *model.Order) {
	if s.Notifier == nil {
		return
	}
	items, err := s.Orders.GetItems(ctx, order.OrderID)
	if err != nil {
		log.Printf("payment: could not load items for confirmation of order %d: %v", order.OrderID, err)
		items = nil
	}
	if err := s.Notifier.SendOrderConfirmation(ctx, order, items); err != nil {
		log.Printf("payment: confirmation notification for order %d failed: %v", order.OrderID, err)
	}
}
