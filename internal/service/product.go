package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/event"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
	"github.com/tuanvumaihuynh/store-ledger/pkg/zerror"
)

type AddProductParams struct {
	ID           int64           `validate:"gte=1"`
	Name         string          `validate:"required"`
	Quantity     int             `validate:"gte=1"`
	PerUnitPrice decimal.Decimal `validate:"decimalgte=0"`
}

type DecrementStockParams struct {
	ProductID int64 `validate:"gte=1"`
	Amount    int   `validate:"gte=1"`
}

type ProductService interface {
	AddProduct(ctx context.Context, params AddProductParams) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// DecrementStock subtracts from the first product with the id and returns
	// its new quantity.
	DecrementStock(ctx context.Context, params DecrementStockParams) (int, error)

	// WithStore returns a service working against store, typically a
	// transaction of the store it was created with.
	WithStore(store repository.Store) ProductService
}

type productService struct {
	cfg       config.Ledger
	store     repository.Store
	validator validator.Validator
	metrics   *metric.Metrics
}

func NewProductService(
	cfg config.Ledger,
	store repository.Store,
	validator validator.Validator,
	metrics *metric.Metrics,
) ProductService {
	return &productService{
		cfg:       cfg,
		store:     store,
		validator: validator,
		metrics:   metrics,
	}
}

func (s *productService) WithStore(store repository.Store) ProductService {
	c := *s
	c.store = store
	return &c
}

func (s *productService) AddProduct(ctx context.Context, params AddProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	product := model.NewProduct(params.ID, params.Name, params.Quantity, params.PerUnitPrice)

	if err := s.store.WithTx(ctx, func(tx repository.Store) error {
		products, err := tx.Products().LoadProducts(ctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		idx := slices.IndexFunc(products, func(p model.Product) bool { return p.ID == product.ID })
		switch {
		case idx < 0, s.cfg.DuplicatePolicy == config.DuplicatePolicyAllow:
			products = append(products, product)
		case s.cfg.DuplicatePolicy == config.DuplicatePolicyReject:
			return apperr.DuplicateProductErr
		default:
			products[idx] = product
		}

		if err := tx.Products().SaveProducts(ctx, products); err != nil {
			return fmt.Errorf("save products: %w", err)
		}

		if err := emit(ctx, tx, event.TopicProductAdded, product.ID, event.ProductAddedEvent{
			ProductID:    product.ID,
			Name:         product.Name,
			Quantity:     product.Quantity,
			PerUnitPrice: product.PerUnitPrice,
			FullPrice:    product.FullPrice,
		}); err != nil {
			return fmt.Errorf("emit product added event: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, storageErr(err)
	}

	s.metrics.ProductsAdded.Inc()

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products().LoadProducts(ctx)
	if err != nil {
		return nil, storageErr(fmt.Errorf("load products: %w", err))
	}

	return products, nil
}

func (s *productService) DecrementStock(ctx context.Context, params DecrementStockParams) (int, error) {
	if err := s.validator.Validate(params); err != nil {
		return 0, apperr.ValidationErr.WrapParent(err)
	}

	var newQuantity int
	if err := s.store.WithTx(ctx, func(tx repository.Store) error {
		products, err := tx.Products().LoadProducts(ctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		idx := slices.IndexFunc(products, func(p model.Product) bool { return p.ID == params.ProductID })
		if idx < 0 {
			return apperr.ProductNotFoundErr
		}

		product := &products[idx]
		if params.Amount > product.Quantity {
			return apperr.InsufficientStockErr
		}

		product.Quantity -= params.Amount
		if s.cfg.RecomputeFullPrice {
			product.FullPrice = model.FullPriceOf(product.Quantity, product.PerUnitPrice)
		}

		if err := tx.Products().SaveProducts(ctx, products); err != nil {
			return fmt.Errorf("save products: %w", err)
		}

		newQuantity = product.Quantity
		return nil
	}); err != nil {
		return 0, storageErr(err)
	}

	return newQuantity, nil
}

// storageErr passes ledger errors through and reports anything else as a
// storage failure.
func storageErr(err error) error {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return err
	}
	return apperr.StorageFailureErr.WrapParent(err)
}
