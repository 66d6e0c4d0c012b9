package event

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

const TopicProductAdded = "product.added"

type ProductAddedEvent struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
	FullPrice    decimal.Decimal `json:"full_price"`
}

func (s *Service) handleProductAddedEvent(ctx context.Context, ev ProductAddedEvent) error {
	s.logger.InfoContext(ctx, "product added",
		slog.Int64("product_id", ev.ProductID),
		slog.String("product_name", ev.Name),
		slog.Int("quantity", ev.Quantity),
		slog.String("full_price", ev.FullPrice.StringFixed(2)),
	)
	return nil
}
