package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/relay"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msgs ...mq.ProduceMsg) []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		if msg.Topic == p.failOn {
			errs[i] = errors.New("broker unavailable")
			continue
		}
		p.produced = append(p.produced, msg)
	}
	return errs
}

func (p *fakeProducer) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	topics := make([]string, 0, len(p.produced))
	for _, msg := range p.produced {
		topics = append(topics, msg.Topic)
	}
	return topics
}

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.produced)
}

// blockingProducer holds every Produce call until release is closed.
type blockingProducer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *blockingProducer) Produce(_ context.Context, msgs ...mq.ProduceMsg) []error {
	p.once.Do(func() { close(p.started) })
	<-p.release
	return make([]error, len(msgs))
}

func seed(t *testing.T, store repository.Store, topics ...string) {
	t.Helper()

	for _, topic := range topics {
		require.NoError(t, store.OutboxMsgs().CreateOutboxMsg(context.Background(), repository.CreateOutboxMsgParams{
			Topic:   topic,
			Headers: map[string]string{},
			Payload: json.RawMessage(`{}`),
		}))
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Relay{BatchSize: 10, Interval: 10 * time.Millisecond}

	t.Run("Should reject stores without outbox", func(t *testing.T) {
		_, err := relay.NewService(cfg, logger, repository.NewCSVStore(t.TempDir(), "record.csv", "Sales.csv"), &fakeProducer{})
		assert.ErrorIs(t, err, relay.ErrNoOutbox)
	})

	t.Run("Should publish and mark msgs processed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seed(t, store, "product.added", "sale.recorded")
		producer := &fakeProducer{}

		svc, err := relay.NewService(cfg, logger, store, producer)
		require.NoError(t, err)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"product.added", "sale.recorded"}, producer.topics())

		n, err = svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Should mark failed msgs processed with their error", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seed(t, store, "product.added", "sale.recorded")
		producer := &fakeProducer{failOn: "sale.recorded"}

		svc, err := relay.NewService(cfg, logger, store, producer)
		require.NoError(t, err)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 1, producer.count())

		msgs, err := store.OutboxMsgs().ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("Should relay in the background until cleanup", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seed(t, store, "product.added")
		producer := &fakeProducer{}

		svc, err := relay.NewService(cfg, logger, store, producer)
		require.NoError(t, err)

		cleanup := svc.Run(ctx)
		assert.Eventually(t, func() bool { return producer.count() == 1 }, time.Second, 5*time.Millisecond)
		cleanup()
	})
	t.Run("Should keep sales recorded while a batch is being relayed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		v := validator.MustNewDefaultValidator()
		m := metric.NewNop()
		products := service.NewProductService(config.Ledger{
			DuplicatePolicy:    config.DuplicatePolicyAllow,
			RecomputeFullPrice: true,
		}, store, v, m)
		sales := service.NewSaleService(store, products, v, m)

		_, err := products.AddProduct(ctx, service.AddProductParams{
			ID:           1,
			Name:         "Widget",
			Quantity:     10,
			PerUnitPrice: decimal.RequireFromString("2.50"),
		})
		require.NoError(t, err)

		producer := &blockingProducer{started: make(chan struct{}), release: make(chan struct{})}
		svc, err := relay.NewService(cfg, logger, store, producer)
		require.NoError(t, err)

		relayErr := make(chan error, 1)
		go func() {
			_, err := svc.RelayBatch(ctx)
			relayErr <- err
		}()
		<-producer.started

		saleErr := make(chan error, 1)
		go func() {
			_, err := sales.RecordSale(ctx, service.RecordSaleParams{ProductID: 1, QuantitySold: 3})
			saleErr <- err
		}()

		close(producer.release)
		require.NoError(t, <-relayErr)
		require.NoError(t, <-saleErr)

		listed, err := products.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, 7, listed[0].Quantity)

		recorded, err := sales.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, recorded, 1)
		assert.Equal(t, 7, recorded[0].ProductLeft)
	})
}
