package event

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
	cleaned  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(_ context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.cleaned = true }, nil
}

func newTestService(t *testing.T, threshold int) (*Service, *fakeConsumer, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	consumer := &fakeConsumer{}

	return New(config.Event{LowStockThreshold: threshold}, logger, consumer), consumer, buf
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should register both ledger topics", func(t *testing.T) {
		svc, consumer, _ := newTestService(t, 0)

		cleanup, err := svc.Run(ctx)
		require.NoError(t, err)

		assert.Contains(t, consumer.handlers, TopicProductAdded)
		assert.Contains(t, consumer.handlers, TopicSaleRecorded)
		assert.True(t, consumer.running)

		cleanup()
		assert.True(t, consumer.cleaned)
	})

	t.Run("Should warn when a sale sells out the product", func(t *testing.T) {
		svc, consumer, buf := newTestService(t, 0)
		_, err := svc.Run(ctx)
		require.NoError(t, err)

		payload, err := json.Marshal(SaleRecordedEvent{SaleID: 1, ProductID: 1, QuantitySold: 7, ProductLeft: 0, SaleDate: "2026-10-19"})
		require.NoError(t, err)

		require.NoError(t, consumer.handlers[TopicSaleRecorded](ctx, TopicSaleRecorded, payload))
		assert.Contains(t, buf.String(), "product sold out")
	})

	t.Run("Should warn when stock drops to the threshold", func(t *testing.T) {
		svc, consumer, buf := newTestService(t, 5)
		_, err := svc.Run(ctx)
		require.NoError(t, err)

		payload, err := json.Marshal(SaleRecordedEvent{SaleID: 2, ProductID: 1, QuantitySold: 2, ProductLeft: 5, SaleDate: "2026-10-19"})
		require.NoError(t, err)

		require.NoError(t, consumer.handlers[TopicSaleRecorded](ctx, TopicSaleRecorded, payload))
		assert.Contains(t, buf.String(), "product stock low")
	})

	t.Run("Should not warn above the threshold", func(t *testing.T) {
		svc, consumer, buf := newTestService(t, 5)
		_, err := svc.Run(ctx)
		require.NoError(t, err)

		payload, err := json.Marshal(SaleRecordedEvent{SaleID: 3, ProductID: 1, QuantitySold: 1, ProductLeft: 6, SaleDate: "2026-10-19"})
		require.NoError(t, err)

		require.NoError(t, consumer.handlers[TopicSaleRecorded](ctx, TopicSaleRecorded, payload))
		assert.NotContains(t, buf.String(), "WARN")
	})

	t.Run("Should fail on malformed payload", func(t *testing.T) {
		svc, consumer, _ := newTestService(t, 0)
		_, err := svc.Run(ctx)
		require.NoError(t, err)

		err = consumer.handlers[TopicProductAdded](ctx, TopicProductAdded, []byte("{"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal product.added event")
	})
}
