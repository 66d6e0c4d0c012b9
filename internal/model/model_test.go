package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
)

func TestNewProduct(t *testing.T) {
	p := model.NewProduct(1, "Widget", 10, decimal.RequireFromString("2.50"))

	assert.True(t, p.FullPrice.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, "25.00", p.FullPrice.StringFixed(2))
}

func TestFullPriceOfIsExact(t *testing.T) {
	got := model.FullPriceOf(3, decimal.RequireFromString("0.10"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.30")))
}

func TestNextSaleID(t *testing.T) {
	assert.EqualValues(t, 1, model.NextSaleID(nil))
	assert.EqualValues(t, 8, model.NextSaleID([]model.Sale{{ID: 3}, {ID: 7}, {ID: 5}}))
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	t.Run("Should keep the date of the given location", func(t *testing.T) {
		got := model.Day(time.Date(2026, 10, 19, 23, 30, 0, 0, loc))

		assert.Equal(t, "2026-10-19", got.Format(model.DateLayout))
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("Should not shift to the UTC date", func(t *testing.T) {
		at := time.Date(2026, 10, 20, 1, 30, 0, 0, loc)
		got := model.Day(at)

		assert.Equal(t, "2026-10-19", at.UTC().Format(model.DateLayout))
		assert.Equal(t, "2026-10-20", got.Format(model.DateLayout))
	})
}
