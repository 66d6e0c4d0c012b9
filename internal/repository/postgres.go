package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/db"
)

var _ Store = (*pgStore)(nil)

// ledgerLockKey serializes units of work touching the ledger tables. Saves
// replace whole tables, so two interleaved read-modify-write cycles would
// otherwise both insert their copy of the rows.
const ledgerLockKey int64 = 0x5354_4c47

type pgStore struct {
	db db.DB
}

// NewPostgresStore returns a store keeping the ledger tables in postgres.
func NewPostgresStore(db db.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Products() ProductRepository {
	return pgProductRepository{db: s.db}
}

func (s *pgStore) Sales() SaleRepository {
	return pgSaleRepository{db: s.db}
}

func (s *pgStore) OutboxMsgs() OutboxMsgRepository {
	return NewOutboxMsgRepository(s.db)
}

func (s *pgStore) Ping(ctx context.Context) error {
	if hc, ok := s.db.(db.HealthChecker); ok {
		if _, err := hc.IsHealthy(ctx); err != nil {
			return err
		}
		return nil
	}

	if _, err := s.db.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("select 1: %w", err)
	}

	return nil
}

const ensureTablesSQL = `
	CREATE TABLE IF NOT EXISTS products (
		position       INTEGER PRIMARY KEY,
		product_id     BIGINT  NOT NULL,
		product_name   TEXT    NOT NULL,
		quantity       INTEGER NOT NULL CHECK (quantity >= 0),
		per_unit_price NUMERIC NOT NULL CHECK (per_unit_price >= 0),
		full_price     NUMERIC NOT NULL
	);
	CREATE TABLE IF NOT EXISTS sales (
		position      INTEGER PRIMARY KEY,
		sale_id       BIGINT  NOT NULL,
		product_id    BIGINT  NOT NULL,
		quantity_sold INTEGER NOT NULL,
		product_left  INTEGER NOT NULL,
		sale_date     DATE    NOT NULL
	);
	CREATE TABLE IF NOT EXISTS outbox_messages (
		id            UUID PRIMARY KEY,
		topic         TEXT        NOT NULL,
		headers       JSONB,
		payload       JSONB       NOT NULL,
		partition_key TEXT,
		created_at    TIMESTAMPTZ NOT NULL,
		processed_at  TIMESTAMPTZ,
		error         TEXT
	);
	CREATE INDEX IF NOT EXISTS outbox_messages_unprocessed_idx
		ON outbox_messages (created_at)
		WHERE processed_at IS NULL;
`

func (s *pgStore) EnsureInitialized(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, ensureTablesSQL); err != nil {
		return fmt.Errorf("create ledger and outbox tables: %w", err)
	}

	return nil
}

func (s *pgStore) WithTx(ctx context.Context, txFunc func(Store) error) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		return txFunc(&pgStore{db: tx})
	})
}

type pgProductRepository struct {
	db db.DB
}

func (r pgProductRepository) LoadProducts(ctx context.Context) ([]model.Product, error) {
	if err := db.LockXact(ctx, r.db, ledgerLockKey); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_id, product_name, quantity, per_unit_price::text, full_price::text
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Product, error) {
		var (
			p                       model.Product
			perUnitPrice, fullPrice string
		)
		if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &perUnitPrice, &fullPrice); err != nil {
			return model.Product{}, err
		}

		if p.PerUnitPrice, err = decimal.NewFromString(perUnitPrice); err != nil {
			return model.Product{}, fmt.Errorf("parse per_unit_price: %w", err)
		}
		if p.FullPrice, err = decimal.NewFromString(fullPrice); err != nil {
			return model.Product{}, fmt.Errorf("parse full_price: %w", err)
		}

		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r pgProductRepository) SaveProducts(ctx context.Context, products []model.Product) error {
	batch := &pgx.Batch{}
	for i, p := range products {
		batch.Queue(`
			INSERT INTO products (position, product_id, product_name, quantity, per_unit_price, full_price)
			VALUES ($1, $2, $3, $4, $5::text::numeric, $6::text::numeric)
		`, i, p.ID, p.Name, p.Quantity, p.PerUnitPrice.String(), p.FullPrice.String())
	}

	return r.db.WithTx(ctx, func(tx db.DB) error {
		if err := db.LockXact(ctx, tx, ledgerLockKey); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
			return fmt.Errorf("delete products: %w", err)
		}

		if err := execBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}

		return nil
	})
}

type pgSaleRepository struct {
	db db.DB
}

func (r pgSaleRepository) LoadSales(ctx context.Context) ([]model.Sale, error) {
	if err := db.LockXact(ctx, r.db, ledgerLockKey); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT sale_id, product_id, quantity_sold, product_left, sale_date
		FROM sales
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}

	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Sale, error) {
		var s model.Sale
		if err := row.Scan(&s.ID, &s.ProductID, &s.QuantitySold, &s.ProductLeft, &s.SaleDate); err != nil {
			return model.Sale{}, err
		}
		s.SaleDate = model.Day(s.SaleDate)
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect sales: %w", err)
	}

	return sales, nil
}

func (r pgSaleRepository) SaveSales(ctx context.Context, sales []model.Sale) error {
	batch := &pgx.Batch{}
	for i, s := range sales {
		batch.Queue(`
			INSERT INTO sales (position, sale_id, product_id, quantity_sold, product_left, sale_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, i, s.ID, s.ProductID, s.QuantitySold, s.ProductLeft, s.SaleDate)
	}

	return r.db.WithTx(ctx, func(tx db.DB) error {
		if err := db.LockXact(ctx, tx, ledgerLockKey); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM sales`); err != nil {
			return fmt.Errorf("delete sales: %w", err)
		}

		if err := execBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("insert sales: %w", err)
		}

		return nil
	})
}

func execBatch(ctx context.Context, tx db.DB, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}

	return results.Close()
}
