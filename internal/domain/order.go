package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer order. While InCart is true the order is the
// user's single open cart; once completed it is terminal.
type Order struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	InCart      bool         `json:"in_cart" db:"in_cart"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Items       []*OrderItem `json:"items"`
}

// OrderItem is a line item: a quantity of one product with the price
// snapshotted at the time the item was added to the cart.
type OrderItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderID         uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID       uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" db:"price_at_purchase"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Subtotal returns quantity times the snapshotted price.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsOpen reports whether the order is still an editable cart.
func (o *Order) IsOpen() bool {
	return o.InCart && o.CompletedAt == nil
}

// TotalItems sums the quantities of all line items.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums quantity times snapshotted price over all line items.
// Later product price changes do not affect the result.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
