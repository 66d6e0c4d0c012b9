package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/store-ledger/internal/event"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

type RecordSaleParams struct {
	ProductID    int64 `validate:"gte=1"`
	QuantitySold int   `validate:"gte=1"`
}

type SaleService interface {
	RecordSale(ctx context.Context, params RecordSaleParams) (model.Sale, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
}

type SaleServiceOption func(*saleService)

// WithClock sets the clock sale dates are taken from.
func WithClock(now func() time.Time) SaleServiceOption {
	return func(s *saleService) {
		s.now = now
	}
}

type saleService struct {
	store     repository.Store
	products  ProductService
	validator validator.Validator
	metrics   *metric.Metrics
	now       func() time.Time
}

func NewSaleService(
	store repository.Store,
	products ProductService,
	validator validator.Validator,
	metrics *metric.Metrics,
	opts ...SaleServiceOption,
) SaleService {
	s := &saleService{
		store:     store,
		products:  products,
		validator: validator,
		metrics:   metrics,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *saleService) RecordSale(ctx context.Context, params RecordSaleParams) (model.Sale, error) {
	if err := s.validator.Validate(params); err != nil {
		s.metrics.SalesRejected.WithLabelValues(metric.ReasonValidation).Inc()
		return model.Sale{}, apperr.ValidationErr.WrapParent(err)
	}

	var sale model.Sale
	if err := s.store.WithTx(ctx, func(tx repository.Store) error {
		productLeft, err := s.products.WithStore(tx).DecrementStock(ctx, DecrementStockParams{
			ProductID: params.ProductID,
			Amount:    params.QuantitySold,
		})
		if err != nil {
			return err
		}

		sales, err := tx.Sales().LoadSales(ctx)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}

		sale = model.Sale{
			ID:           model.NextSaleID(sales),
			ProductID:    params.ProductID,
			QuantitySold: params.QuantitySold,
			ProductLeft:  productLeft,
			SaleDate:     model.Day(s.now()),
		}

		if err := tx.Sales().SaveSales(ctx, append(sales, sale)); err != nil {
			return fmt.Errorf("save sales: %w", err)
		}

		if err := emit(ctx, tx, event.TopicSaleRecorded, sale.ProductID, event.SaleRecordedEvent{
			SaleID:       sale.ID,
			ProductID:    sale.ProductID,
			QuantitySold: sale.QuantitySold,
			ProductLeft:  sale.ProductLeft,
			SaleDate:     sale.SaleDate.Format(model.DateLayout),
		}); err != nil {
			return fmt.Errorf("emit sale recorded event: %w", err)
		}

		return nil
	}); err != nil {
		err = storageErr(err)
		s.metrics.SalesRejected.WithLabelValues(rejectReason(err)).Inc()
		return model.Sale{}, err
	}

	s.metrics.SalesRecorded.Inc()
	s.metrics.UnitsSold.Add(float64(sale.QuantitySold))

	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := s.store.Sales().LoadSales(ctx)
	if err != nil {
		return nil, storageErr(fmt.Errorf("load sales: %w", err))
	}

	return sales, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperr.ProductNotFoundErr):
		return metric.ReasonNotFound
	case errors.Is(err, apperr.InsufficientStockErr):
		return metric.ReasonInsufficientStock
	case errors.Is(err, apperr.ValidationErr):
		return metric.ReasonValidation
	default:
		return metric.ReasonStorage
	}
}
