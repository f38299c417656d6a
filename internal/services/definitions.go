package services

import (
	"context"
	"time"

	"AleesaStoreAPI/internal/model"
)

// CatalogStore is the authoritative price and inventory source.
type CatalogStore interface {
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	GetSizeStock(ctx context.Context, productID, size string) (int, error)
}

// OrderStore persists orders and their item snapshots. All status mutations
// behind it are conditional updates; see the repository implementation.
type OrderStore interface {
	CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*model.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	SettlePaid(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (*model.Order, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	GetGuestOrder(ctx context.Context, email, orderNumber string) (*model.Order, error)
	UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)
	CancelStalePending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// UserStore resolves registered accounts for logged-in checkouts.
type UserStore interface {
	GetByID(ctx context.Context, userID int64) (*model.User, error)
}

// PaymentGateway opens provider-side orders. Injected so tests can
// substitute a fake instead of talking to Razorpay.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*model.GatewayOrder, error)
}

// Notifier dispatches order confirmations. Best-effort: failures are logged
// and never affect payment state.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, o *model.Order, items []model.OrderItem) error
}
