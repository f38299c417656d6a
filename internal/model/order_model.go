package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Order represents a row in the orders table. The shipping fields are a
// snapshot captured at initiation; later address edits never touch them.
// OrderNumber doubles as the gateway-facing receipt/lookup key and equals
// the Razorpay order id.
type Order struct {
	OrderID           int64         `json:"orderid"`
	OrderNumber       string        `json:"ordernumber"`
	UserID            *int64        `json:"userid,omitempty"`
	Email             string        `json:"email"`
	ShippingName      string        `json:"shippingname"`
	ShippingPhone     string        `json:"shippingphone"`
	ShippingAddress   string        `json:"shippingaddress"`
	ShippingCity      string        `json:"shippingcity"`
	ShippingState     string        `json:"shippingstate"`
	ShippingZip       string        `json:"shippingzip"`
	Subtotal          float64       `json:"subtotal"`
	ShippingCost      float64       `json:"shippingcost"`
	Total             float64       `json:"total"`
	Status            OrderStatus   `json:"status"`
	PaymentMethod     string        `json:"paymentmethod"`
	PaymentStatus     PaymentStatus `json:"paymentstatus"`
	RazorpayOrderID   string        `json:"razorpayorderid"`
	RazorpayPaymentID *string       `json:"razorpaypaymentid,omitempty"`
	IdempotencyKey    *string       `json:"-"`
	CreatedAt         time.Time     `json:"created_at"`
}

// OrderItem is a frozen snapshot of a resolved line, decoupled from the live
// product so catalog edits never corrupt order history.
type OrderItem struct {
	OrderItemID  int64   `json:"orderitemid"`
	OrderID      int64   `json:"orderid"`
	ProductID    string  `json:"productid"`
	ProductName  string  `json:"productname"`
	ProductImage string  `json:"productimage"`
	UnitPrice    float64 `json:"unitprice"`
	Quantity     int     `json:"quantity"`
	Size         string  `json:"size"`
}

// ShippingAddress is the checkout contact block as submitted by the client.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}
