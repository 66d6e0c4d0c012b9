package repository_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	widget := model.NewProduct(1, "Widget", 10, decimal.RequireFromString("2.50"))

	t.Run("Should discard writes of a failed transaction", func(t *testing.T) {
		store := repository.NewMemoryStore()
		require.NoError(t, store.Products().SaveProducts(ctx, []model.Product{widget}))

		err := store.WithTx(ctx, func(tx repository.Store) error {
			if err := tx.Products().SaveProducts(ctx, nil); err != nil {
				return err
			}
			if err := tx.OutboxMsgs().CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{Topic: "t"}); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		products, err := store.Products().LoadProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 1)

		msgs, err := store.OutboxMsgs().ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("Should not share slices with callers", func(t *testing.T) {
		store := repository.NewMemoryStore()
		products := []model.Product{widget}
		require.NoError(t, store.Products().SaveProducts(ctx, products))

		products[0].Quantity = 0

		loaded, err := store.Products().LoadProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, loaded[0].Quantity)
	})

	t.Run("Should list unprocessed outbox msgs in batches", func(t *testing.T) {
		store := repository.NewMemoryStore()
		outbox := store.OutboxMsgs()

		for range 3 {
			require.NoError(t, outbox.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:   "product.added",
				Payload: json.RawMessage(`{}`),
			}))
		}

		msgs, err := outbox.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 2})
		require.NoError(t, err)
		require.Len(t, msgs, 2)

		brokerDown := "broker down"
		require.NoError(t, outbox.BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
			Items: []repository.BulkUpdateOutboxMsgsItem{
				{ID: msgs[0].ID},
				{ID: msgs[1].ID, Error: &brokerDown},
			},
		}))

		rest, err := outbox.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 2})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.NotEqual(t, msgs[0].ID, rest[0].ID)
		assert.NotEqual(t, msgs[1].ID, rest[0].ID)
	})
}
