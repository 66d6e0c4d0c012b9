package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
)

// ProductRepository loads and saves the whole products table.
type ProductRepository interface {
	LoadProducts(ctx context.Context) ([]model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error
}

// moneyPlaces is the number of fraction digits money columns are written with.
const moneyPlaces = 2

func productToRecord(p model.Product) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		strconv.Itoa(p.Quantity),
		p.PerUnitPrice.StringFixed(moneyPlaces),
		p.FullPrice.StringFixed(moneyPlaces),
	}
}

func productFromRecord(record []string) (model.Product, error) {
	if len(record) != len(model.ProductColumns) {
		return model.Product{}, fmt.Errorf("expected %d columns, got %d", len(model.ProductColumns), len(record))
	}

	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("parse ProductID: %w", err)
	}

	quantity, err := strconv.Atoi(record[2])
	if err != nil {
		return model.Product{}, fmt.Errorf("parse Quantity: %w", err)
	}

	perUnitPrice, err := decimal.NewFromString(record[3])
	if err != nil {
		return model.Product{}, fmt.Errorf("parse PerUnitPrice: %w", err)
	}

	fullPrice, err := decimal.NewFromString(record[4])
	if err != nil {
		return model.Product{}, fmt.Errorf("parse FullPrice: %w", err)
	}

	return model.Product{
		ID:           id,
		Name:         record[1],
		Quantity:     quantity,
		PerUnitPrice: perUnitPrice,
		FullPrice:    fullPrice,
	}, nil
}
