package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"AleesaStoreAPI/internal/model"
)

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(from string) (*ResendMailer, error) {
	key := os.Getenv("RESEND_API_KEY")
	if key == "" {
		return nil, errors.New("RESEND_API_KEY not set")
	}

	return &ResendMailer{
		apiKey: key,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOrderConfirmation emails the customer after payment is confirmed.
func (m *ResendMailer) SendOrderConfirmation(
	ctx context.Context,
	order *model.Order,
	items []model.OrderItem,
) error {
	var lines strings.Builder
	for _, it := range items {
		fmt.Fprintf(&lines, "<li>%s (size %s) × %d — ₹%.2f</li>",
			it.ProductName, it.Size, it.Quantity, it.UnitPrice*float64(it.Quantity))
	}

	body := sendRequest{
		From:    m.from,
		To:      []string{order.Email},
		Subject: "Your order " + order.OrderNumber + " is confirmed",
		HTML: `
			<p>Hi ` + order.ShippingName + `,</p>
			<p>Thank you for your purchase! Your payment was received and your order is confirmed.</p>
			<ul>` + lines.String() + `</ul>
			<p>Order total: ₹` + fmt.Sprintf("%.2f", order.Total) + `</p>
			<p>We will let you know when it ships.</p>
		`,
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New(
			"failed to send order confirmation: " + buf.String(),
		)
	}

	return nil
}
