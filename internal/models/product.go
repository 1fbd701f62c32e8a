package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the persisted product record
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
}

// ProductFilter holds filtering options for listing products
type ProductFilter struct {
	PriceGTE *decimal.Decimal
	PriceLTE *decimal.Decimal
	Stock    *int
	Page     int
	PageSize int
}
