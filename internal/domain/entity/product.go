package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda (scoped a Company).
// SKU es único por empresa.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	TaxRate     decimal.Decimal // IVA: 0, 0.05, 0.19
	Published   bool            // visible en el storefront
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
