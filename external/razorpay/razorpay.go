package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"AleesaStoreAPI/internal/model"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client wraps the Razorpay SDK behind the services.PaymentGateway shape.
type Client struct {
	sdk *razorpay.Client
}

func NewClient() (*Client, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || secret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET not set")
	}
	return &Client{sdk: razorpay.NewClient(keyID, secret)}, nil
}

// CreateOrder opens a provider-side order for the given amount in minor
// currency units (paise).
func (c *Client) CreateOrder(_ context.Context, amountMinorUnits int64, currency, receipt string) (*model.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		return nil, err
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("gateway response missing order id")
	}
	return &model.GatewayOrder{
		ID:       id,
		Amount:   amountMinorUnits,
		Currency: currency,
	}, nil
}

// VerifySignature recomputes the HMAC-SHA256 Razorpay sends after a
// successful payment and compares it in constant time. The secret never
// leaves the server.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
