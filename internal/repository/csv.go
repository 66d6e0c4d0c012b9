package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/csvfile"
)

var _ Store = (*csvStore)(nil)

type csvStore struct {
	products *csvfile.File
	sales    *csvfile.File

	// batch is non-nil inside WithTx and holds the pending saves.
	batch *csvfile.Batch
}

// NewCSVStore returns a store keeping the products and sales tables as csv
// files in dir.
func NewCSVStore(dir, productsFile, salesFile string) Store {
	return &csvStore{
		products: csvfile.New(filepath.Join(dir, productsFile), model.ProductColumns),
		sales:    csvfile.New(filepath.Join(dir, salesFile), model.SaleColumns),
	}
}

func (s *csvStore) Products() ProductRepository {
	return csvProductRepository{store: s}
}

func (s *csvStore) Sales() SaleRepository {
	return csvSaleRepository{store: s}
}

func (s *csvStore) OutboxMsgs() OutboxMsgRepository {
	return nil
}

func (s *csvStore) Ping(_ context.Context) error {
	for _, f := range []*csvfile.File{s.products, s.sales} {
		if _, err := os.Stat(f.Path()); err != nil {
			return fmt.Errorf("stat %s: %w", f.Path(), err)
		}
	}

	return nil
}

func (s *csvStore) EnsureInitialized(_ context.Context) error {
	for _, f := range []*csvfile.File{s.products, s.sales} {
		if _, err := f.EnsureInitialized(); err != nil {
			return fmt.Errorf("ensure %s initialized: %w", f.Path(), err)
		}
	}

	return nil
}

func (s *csvStore) WithTx(_ context.Context, txFunc func(Store) error) error {
	if s.batch != nil {
		return txFunc(s)
	}

	tx := &csvStore{
		products: s.products,
		sales:    s.sales,
		batch:    csvfile.NewBatch(),
	}
	if err := txFunc(tx); err != nil {
		return err
	}

	if err := tx.batch.Commit(); err != nil {
		return fmt.Errorf("commit csv batch: %w", err)
	}

	return nil
}

func (s *csvStore) readAll(f *csvfile.File) ([][]string, error) {
	if s.batch != nil {
		if rows, ok := s.batch.Get(f); ok {
			return rows, nil
		}
	}

	return f.ReadAll()
}

func (s *csvStore) writeAll(f *csvfile.File, rows [][]string) error {
	if s.batch != nil {
		s.batch.Put(f, rows)
		return nil
	}

	return f.WriteAll(rows)
}

type csvProductRepository struct {
	store *csvStore
}

func (r csvProductRepository) LoadProducts(_ context.Context) ([]model.Product, error) {
	rows, err := r.store.readAll(r.store.products)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	products := make([]model.Product, 0, len(rows))
	for i, row := range rows {
		p, err := productFromRecord(row)
		if err != nil {
			return nil, fmt.Errorf("decode product row %d: %w", i+1, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (r csvProductRepository) SaveProducts(_ context.Context, products []model.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, productToRecord(p))
	}

	if err := r.store.writeAll(r.store.products, rows); err != nil {
		return fmt.Errorf("write products: %w", err)
	}

	return nil
}

type csvSaleRepository struct {
	store *csvStore
}

func (r csvSaleRepository) LoadSales(_ context.Context) ([]model.Sale, error) {
	rows, err := r.store.readAll(r.store.sales)
	if err != nil {
		return nil, fmt.Errorf("read sales: %w", err)
	}

	sales := make([]model.Sale, 0, len(rows))
	for i, row := range rows {
		s, err := saleFromRecord(row)
		if err != nil {
			return nil, fmt.Errorf("decode sale row %d: %w", i+1, err)
		}
		sales = append(sales, s)
	}

	return sales, nil
}

func (r csvSaleRepository) SaveSales(_ context.Context, sales []model.Sale) error {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, saleToRecord(s))
	}

	if err := r.store.writeAll(r.store.sales, rows); err != nil {
		return fmt.Errorf("write sales: %w", err)
	}

	return nil
}
