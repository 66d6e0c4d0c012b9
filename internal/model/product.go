package model

import (
	"github.com/shopspring/decimal"
)

// ProductColumns is the header of the products table, in storage order.
var ProductColumns = []string{"ProductID", "ProductName", "Quantity", "PerUnitPrice", "FullPrice"}

type Product struct {
	ID           int64           `json:"product_id"`
	Name         string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
	FullPrice    decimal.Decimal `json:"full_price"`
}

// FullPriceOf returns quantity * perUnitPrice.
func FullPriceOf(quantity int, perUnitPrice decimal.Decimal) decimal.Decimal {
	return perUnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// NewProduct builds a product with its full price computed.
func NewProduct(id int64, name string, quantity int, perUnitPrice decimal.Decimal) Product {
	return Product{
		ID:           id,
		Name:         name,
		Quantity:     quantity,
		PerUnitPrice: perUnitPrice,
		FullPrice:    FullPriceOf(quantity, perUnitPrice),
	}
}
