package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of a ticket order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
	OrderStatusExpired  OrderStatus = "EXPIRED"
)

// Order is the ticketing-platform order a payment belongs to. The order itself
// is owned by the platform; this service only reads it to authorize callback
// URLs and to decide the post-payment redirect.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	MerchantID string          `json:"merchant_id"` // tenant whose gateway credentials apply
	Secret     string          `json:"-"`           // capability secret, never exposed
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Locale     string          `json:"locale"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SecretHash returns the hex SHA-1 of the lower-cased order secret. It is the
// capability token embedded in return/notify callback URLs.
func (o *Order) SecretHash() string {
	sum := sha1.Sum([]byte(strings.ToLower(o.Secret)))
	return hex.EncodeToString(sum[:])
}

// IsPaid reports whether the order has reached paid status.
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}
