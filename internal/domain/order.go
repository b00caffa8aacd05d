package domain

import (
	"context"
	"time"
)

// Order statuses follow the storefront lifecycle. Transitions are not
// restricted beyond membership in this set; admins may move orders
// backwards (e.g. confirmed -> pending) while sorting out payments.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Payment methods accepted by the storefront checkout.
const (
	PaymentMethodTransfer      = "transfer"
	PaymentMethodMobilePayment = "mobile_payment"
	PaymentMethodCash          = "cash"
)

type Order struct {
	ID               string      `json:"id"`
	TrackingCode     string      `json:"trackingCode"`
	CustomerName     string      `json:"customerName"`
	CustomerEmail    string      `json:"customerEmail"`
	CustomerPhone    *string     `json:"customerPhone"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentProofPath *string     `json:"paymentProofPath"` // object key, never a public URL
	TotalAmount      float64     `json:"totalAmount"`
	Status           string      `json:"status"`
	Notes            *string     `json:"notes"`
	Items            []OrderItem `json:"items,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	ProductName  string  `json:"productName"`
	ProductSKU   string  `json:"productSku"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type OrderRepository interface {
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]OrderItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetPaymentProofPath(ctx context.Context, id, path string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
