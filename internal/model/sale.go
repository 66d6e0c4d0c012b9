package model

import "time"

// SaleColumns is the header of the sales table, in storage order.
var SaleColumns = []string{"SaleID", "ProductID", "QuantitySold", "ProductLeft", "SaleDate"}

// DateLayout is the text form of SaleDate.
const DateLayout = time.DateOnly

type Sale struct {
	ID           int64     `json:"sale_id"`
	ProductID    int64     `json:"product_id"`
	QuantitySold int       `json:"quantity_sold"`
	ProductLeft  int       `json:"product_left"`
	SaleDate     time.Time `json:"sale_date"`
}

// Day returns the calendar date of t in t's own location, as midnight UTC so
// dates compare and store the same way in every backend.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextSaleID returns max(SaleID)+1, or 1 when sales is empty.
func NextSaleID(sales []Sale) int64 {
	var maxID int64
	for _, s := range sales {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID + 1
}
