package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/pkg/outbox"
)

// ErrNoHandlers is returned by Run when no topic has a handler.
var ErrNoHandlers = errors.New("no handlers registered")

type HandlerFunc func(ctx context.Context, topic string, payload []byte) error

type CleanupFunc func()

type Consumer interface {
	RegisterHandler(topic string, handler HandlerFunc) error
	Run(ctx context.Context) (CleanupFunc, error)
}

var _ Consumer = (*KafkaConsumer)(nil)

// KafkaConsumer dispatches records of a consumer group to one handler per
// topic. Offsets are committed after every poll whatever the handler
// returned, so a failing event is logged and skipped.
type KafkaConsumer struct {
	cl       *kgo.Client
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

func NewKafkaConsumer(ctx context.Context, cfg config.Kafka, logger *slog.Logger) (*KafkaConsumer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
		kgo.AllowAutoTopicCreation(),
		kgo.WithContext(ctx),
		kgo.WithHooks(newKotel().Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return &KafkaConsumer{
		cl:       cl,
		handlers: make(map[string]HandlerFunc),
		logger:   logger.With(slog.String("component", "mq_consumer"), slog.String("group", cfg.Group)),
	}, nil
}

func (c *KafkaConsumer) RegisterHandler(topic string, handler HandlerFunc) error {
	if _, exists := c.handlers[topic]; exists {
		return fmt.Errorf("handler for topic %s already registered", topic)
	}

	c.cl.AddConsumeTopics(topic)
	c.handlers[topic] = handler
	return nil
}

func (c *KafkaConsumer) Run(ctx context.Context) (CleanupFunc, error) {
	if len(c.handlers) == 0 {
		return nil, ErrNoHandlers
	}

	ctx, cancel := context.WithCancel(ctx)
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		for ctx.Err() == nil {
			c.poll(ctx)
		}
	}()

	return func() {
		cancel()
		c.cl.Close()
		<-doneChan
	}, nil
}

func (c *KafkaConsumer) poll(ctx context.Context) {
	fetches := c.cl.PollFetches(ctx)
	if fetches.IsClientClosed() {
		return
	}

	fetches.EachError(func(topic string, partition int32, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.ErrorContext(ctx, "error fetching messages",
			slog.String("topic", topic),
			slog.Int("partition", int(partition)),
			slog.Any("error", err),
		)
	})

	fetches.EachRecord(func(rec *kgo.Record) {
		c.handle(ctx, rec)
	})

	if err := c.cl.CommitUncommittedOffsets(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.ErrorContext(ctx, "error committing offsets", slog.Any("error", err))
	}
}

func (c *KafkaConsumer) handle(ctx context.Context, rec *kgo.Record) {
	ctx = outbox.ExtractContextFromHeaders(ctx, outbox.HeadersFromRecord(rec))
	logger := c.logger.With(
		slog.String("topic", rec.Topic),
		slog.String("key", string(rec.Key)),
		slog.Int64("offset", rec.Offset),
	)

	defer func() {
		if rvr := recover(); rvr != nil {
			span := trace.SpanFromContext(ctx)
			span.RecordError(fmt.Errorf("panic: %v", rvr))
			span.SetStatus(codes.Error, "panic in handler")

			logger.ErrorContext(ctx, "panic in message handler",
				slog.Any("recover", rvr),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn, exists := c.handlers[rec.Topic]
	if !exists {
		logger.WarnContext(ctx, "no handler registered for topic")
		return
	}

	if err := fn(ctx, rec.Topic, rec.Value); err != nil {
		logger.ErrorContext(ctx, "error handling message", slog.Any("error", err))
	}
}

func (c *KafkaConsumer) Close() {
	c.cl.Close()
}
