package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/repository"
)

// MockCatalog implements CatalogStore over in-memory maps.
type MockCatalog struct {
	mu       sync.Mutex
	products map[string]model.Product
	stock    map[string]int // productID|size
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		products: make(map[string]model.Product),
		stock:    make(map[string]int),
	}
}

func stockKey(productID, size string) string { return productID + "|" + size }

func (m *MockCatalog) AddProduct(p model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ProductID] = p
}

func (m *MockCatalog) SetStock(productID, size string, stock int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[stockKey(productID, size)] = stock
}

func (m *MockCatalog) StockOf(productID, size string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[stockKey(productID, size)]
}

func (m *MockCatalog) GetProduct(_ context.Context, productID string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockCatalog) GetSizeStock(_ context.Context, productID, size string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[stockKey(productID, size)], nil
}

// decrement mirrors the repository's settle-time behavior: floor at zero.
func (m *MockCatalog) decrement(productID, size string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := stockKey(productID, size)
	left := m.stock[k] - qty
	if left < 0 {
		left = 0
	}
	m.stock[k] = left
}

// MockOrderStore implements OrderStore in memory. SettlePaid holds the lock
// across the check-and-set, which is the in-memory rendition of the
// repository's conditional UPDATE.
type MockOrderStore struct {
	mu      sync.Mutex
	orders  map[int64]*model.Order
	items   map[int64][]model.OrderItem
	nextID  int64
	catalog *MockCatalog

	createErr    error
	sweepReturns int64
	sweepCalls   int
}

func NewMockOrderStore(catalog *MockCatalog) *MockOrderStore {
	return &MockOrderStore{
		orders:  make(map[int64]*model.Order),
		items:   make(map[int64][]model.OrderItem),
		catalog: catalog,
	}
}

func (m *MockOrderStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *MockOrderStore) CreateWithItems(_ context.Context, o *model.Order, items []model.OrderItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	cp := *o
	cp.OrderID = m.nextID
	cp.CreatedAt = time.Now()
	m.orders[cp.OrderID] = &cp

	snap := make([]model.OrderItem, len(items))
	copy(snap, items)
	for i := range snap {
		snap[i].OrderID = cp.OrderID
		snap[i].OrderItemID = int64(i + 1)
	}
	m.items[cp.OrderID] = snap
	return cp.OrderID, nil
}

func (m *MockOrderStore) GetByID(_ context.Context, orderID int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderStore) GetByRazorpayOrderID(_ context.Context, razorpayOrderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.RazorpayOrderID == razorpayOrderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *MockOrderStore) GetByIdempotencyKey(_ context.Context, key string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *MockOrderStore) GetItems(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.OrderItem, len(m.items[orderID]))
	copy(out, m.items[orderID])
	return out, nil
}

func (m *MockOrderStore) SettlePaid(_ context.Context, razorpayOrderID, razorpayPaymentID string) (*model.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target *model.Order
	for _, o := range m.orders {
		if o.RazorpayOrderID == razorpayOrderID {
			target = o
			break
		}
	}
	if target == nil {
		return nil, false, repository.ErrOrderNotFound
	}

	if target.Status != model.OrderStatusPending {
		cp := *target
		return &cp, false, nil
	}

	target.Status = model.OrderStatusConfirmed
	target.PaymentStatus = model.PaymentStatusPaid
	pid := razorpayPaymentID
	target.RazorpayPaymentID = &pid

	if m.catalog != nil {
		for _, it := range m.items[target.OrderID] {
			m.catalog.decrement(it.ProductID, it.Size, it.Quantity)
		}
	}

	cp := *target
	return &cp, true, nil
}

func (m *MockOrderStore) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockOrderStore) GetGuestOrder(_ context.Context, email, orderNumber string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Email == email && o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *MockOrderStore) UpdateStatusIf(_ context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (m *MockOrderStore) CancelStalePending(_ context.Context, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepCalls++
	return m.sweepReturns, nil
}

// MockUserStore implements UserStore.
type MockUserStore struct {
	users map[int64]model.User
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[int64]model.User)}
}

func (m *MockUserStore) Add(u model.User) { m.users[u.UserID] = u }

func (m *MockUserStore) GetByID(_ context.Context, userID int64) (*model.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// MockGateway implements PaymentGateway and records every order it opened.
type MockGateway struct {
	mu     sync.Mutex
	orders []model.GatewayOrder
	err    error
}

func (m *MockGateway) CreateOrder(_ context.Context, amountMinorUnits int64, currency, receipt string) (*model.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	gw := model.GatewayOrder{
		ID:       fmt.Sprintf("order_rzp_%d", len(m.orders)+1),
		Amount:   amountMinorUnits,
		Currency: currency,
	}
	m.orders = append(m.orders, gw)
	return &gw, nil
}

func (m *MockGateway) Calls() []model.GatewayOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.GatewayOrder, len(m.orders))
	copy(out, m.orders)
	return out
}

// MockNotifier implements Notifier and counts dispatches.
type MockNotifier struct {
	mu    sync.Mutex
	sent  []int64
	err   error
	items [][]model.OrderItem
}

func (m *MockNotifier) SendOrderConfirmation(_ context.Context, o *model.Order, items []model.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, o.OrderID)
	m.items = append(m.items, items)
	return nil
}

func (m *MockNotifier) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
