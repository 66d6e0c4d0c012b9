package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
)

var _ Store = (*memoryStore)(nil)

type memoryTables struct {
	products []model.Product
	sales    []model.Sale
	outbox   []memoryOutboxMsg
}

func (t *memoryTables) clone() *memoryTables {
	return &memoryTables{
		products: slices.Clone(t.products),
		sales:    slices.Clone(t.sales),
		outbox:   slices.Clone(t.outbox),
	}
}

type memoryOutboxMsg struct {
	ListUnprocessedOutboxMsgsResult
	CreatedAt   time.Time
	ProcessedAt *time.Time
	Error       *string
}

// memoryStore keeps the tables in process memory. Transactions hold the store
// lock and work on a copy that replaces the committed tables on success.
type memoryStore struct {
	mu        *sync.Mutex
	committed **memoryTables
	tx        *memoryTables
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store {
	tables := &memoryTables{}
	return &memoryStore{
		mu:        &sync.Mutex{},
		committed: &tables,
	}
}

func (s *memoryStore) Products() ProductRepository {
	return memoryProductRepository{store: s}
}

func (s *memoryStore) Sales() SaleRepository {
	return memorySaleRepository{store: s}
}

func (s *memoryStore) OutboxMsgs() OutboxMsgRepository {
	return memoryOutboxMsgRepository{store: s}
}

func (s *memoryStore) Ping(_ context.Context) error {
	return nil
}

// EnsureInitialized is a no-op: memory tables exist from construction.
func (s *memoryStore) EnsureInitialized(_ context.Context) error {
	return nil
}

func (s *memoryStore) WithTx(_ context.Context, txFunc func(Store) error) error {
	if s.tx != nil {
		return txFunc(s)
	}

	// The lock is held until the swap so transactions run one after another.
	s.mu.Lock()
	defer s.mu.Unlock()

	working := (*s.committed).clone()
	tx := &memoryStore{mu: s.mu, committed: s.committed, tx: working}
	if err := txFunc(tx); err != nil {
		return err
	}

	*s.committed = working
	return nil
}

func (s *memoryStore) with(fn func(t *memoryTables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(*s.committed)
}

type memoryProductRepository struct {
	store *memoryStore
}

func (r memoryProductRepository) LoadProducts(_ context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.store.with(func(t *memoryTables) error {
		products = slices.Clone(t.products)
		return nil
	})
	return products, err
}

func (r memoryProductRepository) SaveProducts(_ context.Context, products []model.Product) error {
	return r.store.with(func(t *memoryTables) error {
		t.products = slices.Clone(products)
		return nil
	})
}

type memorySaleRepository struct {
	store *memoryStore
}

func (r memorySaleRepository) LoadSales(_ context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.store.with(func(t *memoryTables) error {
		sales = slices.Clone(t.sales)
		return nil
	})
	return sales, err
}

func (r memorySaleRepository) SaveSales(_ context.Context, sales []model.Sale) error {
	return r.store.with(func(t *memoryTables) error {
		t.sales = slices.Clone(sales)
		return nil
	})
}

type memoryOutboxMsgRepository struct {
	store *memoryStore
}

func (r memoryOutboxMsgRepository) CreateOutboxMsg(_ context.Context, params CreateOutboxMsgParams) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate uuid v7: %w", err)
	}

	return r.store.with(func(t *memoryTables) error {
		t.outbox = append(t.outbox, memoryOutboxMsg{
			ListUnprocessedOutboxMsgsResult: ListUnprocessedOutboxMsgsResult{
				ID:           id,
				Topic:        params.Topic,
				Headers:      params.Headers,
				Payload:      params.Payload,
				PartitionKey: params.PartitionKey,
			},
			CreatedAt: time.Now(),
		})
		return nil
	})
}

func (r memoryOutboxMsgRepository) ListUnprocessedOutboxMsgs(_ context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error) {
	var results []ListUnprocessedOutboxMsgsResult
	err := r.store.with(func(t *memoryTables) error {
		for _, msg := range t.outbox {
			if msg.ProcessedAt != nil {
				continue
			}
			if params.BatchSize > 0 && len(results) >= int(params.BatchSize) {
				break
			}
			results = append(results, msg.ListUnprocessedOutboxMsgsResult)
		}
		return nil
	})
	return results, err
}

func (r memoryOutboxMsgRepository) BulkUpdateOutboxMsgs(_ context.Context, params BulkUpdateOutboxMsgsParams) error {
	now := time.Now()
	return r.store.with(func(t *memoryTables) error {
		for _, item := range params.Items {
			for i := range t.outbox {
				if t.outbox[i].ID != item.ID {
					continue
				}
				t.outbox[i].ProcessedAt = &now
				t.outbox[i].Error = item.Error
			}
		}
		return nil
	})
}
