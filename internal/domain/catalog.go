package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the largest stock level still reported as "Low Stock".
const LowStockThreshold = 5

// Brand represents a product brand
type Brand struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (b *Brand) String() string {
	return b.Name
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c *Category) String() string {
	return c.Name
}

// Product represents a sellable item in the catalog. Price is a fixed-point
// decimal; AvailableStock never goes negative.
type Product struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	BrandID        uuid.UUID       `json:"brand_id" db:"brand_id"`
	CategoryID     uuid.UUID       `json:"category_id" db:"category_id"`
	Details        string          `json:"details" db:"details"`
	Price          decimal.Decimal `json:"price" db:"price"`
	AvailableStock int             `json:"available_stock" db:"available_stock"`
	Featured       bool            `json:"featured" db:"featured"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// InStock reports whether the product can currently be sold.
func (p *Product) InStock() bool {
	return p.AvailableStock > 0
}

// StockStatus returns the storefront stock label for the product.
func (p *Product) StockStatus() string {
	switch {
	case p.AvailableStock <= 0:
		return "Out of Stock"
	case p.AvailableStock <= LowStockThreshold:
		return fmt.Sprintf("Low Stock (%d left)", p.AvailableStock)
	default:
		return "In Stock"
	}
}

func (p *Product) String() string {
	return p.Name
}
