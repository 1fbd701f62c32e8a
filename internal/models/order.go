package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the persisted order record. Customer and Products are populated
// when the order is loaded with its associations.
type Order struct {
	ID          int64
	CustomerID  int64
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	Customer    *Customer
	Products    []*Product
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	CustomerName   string
	ProductName    string
	TotalAmountGTE *decimal.Decimal
	OrderDateGTE   *time.Time
	Page           int
	PageSize       int
}

// ProductIDs returns the ids of the associated products in association order
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// SumPrices adds up the current prices of the given products.
func SumPrices(products []*Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}
