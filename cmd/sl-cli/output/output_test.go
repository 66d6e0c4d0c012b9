package output_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/output"
	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

func TestProductsTable(t *testing.T) {
	t.Run("Should report an empty table", func(t *testing.T) {
		assert.Equal(t, output.NoProductsMessage, output.ProductsTable(nil))
	})

	t.Run("Should render every column with fixed money", func(t *testing.T) {
		got := output.ProductsTable([]model.Product{
			model.NewProduct(1, "Widget", 10, decimal.RequireFromString("2.5")),
		})

		for _, want := range []string{"ProductID", "FullPrice", "Widget", "10", "2.50", "25.00"} {
			assert.Contains(t, got, want)
		}
	})
}

func TestSalesTable(t *testing.T) {
	t.Run("Should report an empty table", func(t *testing.T) {
		assert.Equal(t, output.NoSalesMessage, output.SalesTable([]model.Sale{}))
	})

	t.Run("Should render the sale date", func(t *testing.T) {
		got := output.SalesTable([]model.Sale{{
			ID: 1, ProductID: 1, QuantitySold: 3, ProductLeft: 7,
			SaleDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		}})

		assert.Contains(t, got, "SaleDate")
		assert.Contains(t, got, "2026-10-19")
	})
}

func TestProductsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := output.ProductsJSON(&buf, []model.Product{
		model.NewProduct(1, "Widget", 10, decimal.RequireFromString("2.5")),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[{"product_id":1,"product_name":"Widget","quantity":10,"per_unit_price":"2.50","full_price":"25.00"}]`, buf.String())
}

func TestSalesJSON(t *testing.T) {
	t.Run("Should write an empty array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.SalesJSON(&buf, nil))
		assert.JSONEq(t, `[]`, buf.String())
	})
}

func TestErrorMessage(t *testing.T) {
	t.Run("Should keep ledger messages", func(t *testing.T) {
		assert.Equal(t, "Error: Insufficient stock.", output.ErrorMessage(apperr.InsufficientStockErr))
		assert.Equal(t, "Error: Product ID not found.", output.ErrorMessage(apperr.ProductNotFoundErr))
	})

	t.Run("Should list invalid fields", func(t *testing.T) {
		type params struct {
			Quantity int `validate:"gte=1"`
		}
		vErr := validator.MustNewDefaultValidator().Validate(params{})
		require.Error(t, vErr)

		got := output.ErrorMessage(apperr.ValidationErr.WrapParent(vErr))
		assert.Equal(t, "Error: invalid input: Quantity must be greater than or equal to 1", got)
	})

	t.Run("Should fall back to the error text", func(t *testing.T) {
		assert.Equal(t, "boom", output.ErrorMessage(errors.New("boom")))
	})
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Product 'Widget' added successfully!",
		output.ProductAddedMessage(model.Product{Name: "Widget"}))
	assert.Equal(t, "Sale recorded successfully! ProductID: 1, Quantity Sold: 3",
		output.SaleRecordedMessage(model.Sale{ProductID: 1, QuantitySold: 3}))
}
