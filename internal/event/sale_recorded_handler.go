package event

import (
	"context"
	"log/slog"
)

const TopicSaleRecorded = "sale.recorded"

type SaleRecordedEvent struct {
	SaleID       int64  `json:"sale_id"`
	ProductID    int64  `json:"product_id"`
	QuantitySold int    `json:"quantity_sold"`
	ProductLeft  int    `json:"product_left"`
	SaleDate     string `json:"sale_date"`
}

func (s *Service) handleSaleRecordedEvent(ctx context.Context, ev SaleRecordedEvent) error {
	logger := s.logger.With(
		slog.Int64("sale_id", ev.SaleID),
		slog.Int64("product_id", ev.ProductID),
		slog.Int("product_left", ev.ProductLeft),
	)

	logger.InfoContext(ctx, "sale recorded", slog.Int("quantity_sold", ev.QuantitySold))

	switch {
	case ev.ProductLeft == 0:
		logger.WarnContext(ctx, "product sold out")
	case ev.ProductLeft <= s.cfg.LowStockThreshold:
		logger.WarnContext(ctx, "product stock low", slog.Int("threshold", s.cfg.LowStockThreshold))
	}

	return nil
}
