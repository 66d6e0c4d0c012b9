package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
)

// SaleRepository loads and saves the whole sales table.
type SaleRepository interface {
	LoadSales(ctx context.Context) ([]model.Sale, error)
	SaveSales(ctx context.Context, sales []model.Sale) error
}

func saleToRecord(s model.Sale) []string {
	return []string{
		strconv.FormatInt(s.ID, 10),
		strconv.FormatInt(s.ProductID, 10),
		strconv.Itoa(s.QuantitySold),
		strconv.Itoa(s.ProductLeft),
		s.SaleDate.Format(model.DateLayout),
	}
}

func saleFromRecord(record []string) (model.Sale, error) {
	if len(record) != len(model.SaleColumns) {
		return model.Sale{}, fmt.Errorf("expected %d columns, got %d", len(model.SaleColumns), len(record))
	}

	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return model.Sale{}, fmt.Errorf("parse SaleID: %w", err)
	}

	productID, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return model.Sale{}, fmt.Errorf("parse ProductID: %w", err)
	}

	quantitySold, err := strconv.Atoi(record[2])
	if err != nil {
		return model.Sale{}, fmt.Errorf("parse QuantitySold: %w", err)
	}

	productLeft, err := strconv.Atoi(record[3])
	if err != nil {
		return model.Sale{}, fmt.Errorf("parse ProductLeft: %w", err)
	}

	saleDate, err := time.Parse(model.DateLayout, record[4])
	if err != nil {
		return model.Sale{}, fmt.Errorf("parse SaleDate: %w", err)
	}

	return model.Sale{
		ID:           id,
		ProductID:    productID,
		QuantitySold: quantitySold,
		ProductLeft:  productLeft,
		SaleDate:     saleDate,
	}, nil
}
