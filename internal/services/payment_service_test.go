package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"AleesaStoreAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_key_secret"

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// flipHexChar corrupts one character of a hex signature.
func flipHexChar(sig string) string {
	b := []byte(sig)
	if b[0] == '0' {
		b[0] = '1'
	} else {
		b[0] = '0'
	}
	return string(b)
}

type paymentFixture struct {
	catalog  *MockCatalog
	orders   *MockOrderStore
	notifier *MockNotifier
	payments *PaymentService
}

// newPaymentFixture seeds one PENDING order for razorpay order "order_rzp_1"
// holding 1 x P1 size M.
func newPaymentFixture(t *testing.T, stock int) *paymentFixture {
	t.Helper()

	catalog := newTestCatalog()
	catalog.SetStock("P1", "M", stock)
	orders := NewMockOrderStore(catalog)
	notifier := &MockNotifier{}

	_, err := orders.CreateWithItems(context.Background(), &model.Order{
		OrderNumber:     "order_rzp_1",
		Email:           "kaushik@example.com",
		ShippingName:    "Kaushik Reddy",
		ShippingAddress: "12 MG Road",
		Subtotal:        500,
		Total:           500,
		Status:          model.OrderStatusPending,
		PaymentMethod:   "RAZORPAY",
		PaymentStatus:   model.PaymentStatusPending,
		RazorpayOrderID: "order_rzp_1",
	}, []model.OrderItem{
		{ProductID: "P1", ProductName: "Golden Banarasi Silk Saree", UnitPrice: 500, Quantity: 1, Size: "M"},
	})
	require.NoError(t, err)

	return &paymentFixture{
		catalog:  catalog,
		orders:   orders,
		notifier: notifier,
		payments: NewPaymentService(orders, notifier, testSecret),
	}
}

func TestVerify_ValidSignatureConfirmsOrder(t *testing.T) {
	f := newPaymentFixture(t, 5)
	sig := signPayment("order_rzp_1", "pay_123")

	orderID, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	require.NoError(t, err)

	order, err := f.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	require.NotNil(t, order.RazorpayPaymentID)
	assert.Equal(t, "pay_123", *order.RazorpayPaymentID)

	assert.Equal(t, 4, f.catalog.StockOf("P1", "M"), "stock decremented once")
	assert.Equal(t, 1, f.notifier.SentCount())
}

func TestVerify_CorruptedSignatureRejected(t *testing.T) {
	f := newPaymentFixture(t, 5)
	sig := flipHexChar(signPayment("order_rzp_1", "pay_123"))

	_, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	order, err := f.orders.GetByRazorpayOrderID(context.Background(), "order_rzp_1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status, "order untouched on mismatch")
	assert.Equal(t, 5, f.catalog.StockOf("P1", "M"))
	assert.Zero(t, f.notifier.SentCount())
}

func TestVerify_SignatureForDifferentPaymentRejected(t *testing.T) {
	f := newPaymentFixture(t, 5)
	sig := signPayment("order_rzp_1", "pay_other")

	_, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerify_IsIdempotent(t *testing.T) {
	f := newPaymentFixture(t, 5)
	sig := signPayment("order_rzp_1", "pay_123")

	first, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	require.NoError(t, err)

	second, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	require.NoError(t, err, "repeat verification must not error")

	assert.Equal(t, first, second)
	assert.Equal(t, 4, f.catalog.StockOf("P1", "M"), "stock decremented exactly once")
	assert.Equal(t, 1, f.notifier.SentCount(), "exactly one confirmation dispatched")
}

func TestVerify_ConcurrentDuplicatesSettleOnce(t *testing.T) {
	f := newPaymentFixture(t, 1)
	sig := signPayment("order_rzp_1", "pay_123")

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, f.catalog.StockOf("P1", "M"), "stock is zero, never negative")
	assert.Equal(t, 1, f.notifier.SentCount())
}

func TestVerify_UnknownOrder(t *testing.T) {
	f := newPaymentFixture(t, 5)
	sig := signPayment("order_rzp_nope", "pay_123")

	_, err := f.payments.Verify(context.Background(), "order_rzp_nope", "pay_123", sig)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerify_CancelledOrderNotPayable(t *testing.T) {
	f := newPaymentFixture(t, 5)
	moved, err := f.orders.UpdateStatusIf(context.Background(), 1, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	require.True(t, moved)

	sig := signPayment("order_rzp_1", "pay_123")
	_, err = f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	assert.ErrorIs(t, err, ErrOrderNotPayable)
	assert.Zero(t, f.notifier.SentCount())
}

func TestVerify_MissingIdentifiers(t *testing.T) {
	f := newPaymentFixture(t, 5)

	_, err := f.payments.Verify(context.Background(), "", "pay_123", "sig")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerify_NotificationFailureDoesNotFailPayment(t *testing.T) {
	f := newPaymentFixture(t, 5)
	f.notifier.err = assert.AnError

	sig := signPayment("order_rzp_1", "pay_123")
	orderID, err := f.payments.Verify(context.Background(), "order_rzp_1", "pay_123", sig)
	require.NoError(t, err, "payment state is authoritative; notification is best-effort")

	order, err := f.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
}
