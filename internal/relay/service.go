package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/mq"
)

// ErrNoOutbox is returned by NewService for stores that keep no outbox.
var ErrNoOutbox = errors.New("store has no outbox")

// Service publishes the ledger events written to the outbox.
type Service struct {
	cfg        config.Relay
	logger     *slog.Logger
	store      repository.Store
	mqProducer mq.Producer

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	store repository.Store,
	mqProducer mq.Producer,
) (*Service, error) {
	if store.OutboxMsgs() == nil {
		return nil, ErrNoOutbox
	}

	return &Service{
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "relay")),
		store:      store,
		mqProducer: mqProducer,
		stopChan:   make(chan struct{}),
	}, nil
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
		}
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-time.After(s.cfg.Interval):
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// RelayBatch publishes one batch of unprocessed outbox msgs and marks them
// processed, recording the produce error of each failed msg. It returns the
// number of msgs handled.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var count int
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		outboxMsgs, err := tx.OutboxMsgs().ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
			//nolint:gosec
			BatchSize: int32(s.cfg.BatchSize),
		})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		msgs := make([]mq.ProduceMsg, 0, len(outboxMsgs))
		for _, msg := range outboxMsgs {
			msgs = append(msgs, mq.ProduceMsg{
				Topic:        msg.Topic,
				Headers:      msg.Headers,
				Payload:      msg.Payload,
				PartitionKey: msg.PartitionKey,
			})
		}

		// One ordered produce call keeps the events of a product in outbox order.
		errs := s.mqProducer.Produce(ctx, msgs...)

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
		for i, msg := range outboxMsgs {
			item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

			if i < len(errs) && errs[i] != nil {
				s.logger.ErrorContext(ctx,
					"error producing message",
					slog.String("outbox_msg_id", msg.ID.String()),
					slog.String("topic", msg.Topic),
					slog.Any("error", errs[i]),
				)
				errMsg := errs[i].Error()
				item.Error = &errMsg
			}

			items = append(items, item)
		}

		if err := tx.OutboxMsgs().BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
			Items: items,
		}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		count = len(items)
		return nil
	})

	return count, err
}
