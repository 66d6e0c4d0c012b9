package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
)

// ProduceMsg is a message to publish. Messages sharing a partition key land
// on the same partition, in the order they were given.
type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

type Producer interface {
	// Produce publishes msgs in order and waits for every acknowledgement.
	// The returned slice holds one entry per msg, nil when it was written.
	Produce(ctx context.Context, msgs ...ProduceMsg) []error
}

var (
	_ Producer = (*KafkaProducer)(nil)
)

type KafkaProducer struct {
	cl *kgo.Client
}

func NewKafkaProducer(ctx context.Context, cfg config.Kafka) (*KafkaProducer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.AllowAutoTopicCreation(),
		// Keys are product ids, so events of one product stay ordered.
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
		kgo.RequiredAcks(kgo.AllISRAcks()),
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

	return &KafkaProducer{cl: cl}, nil
}

func (p *KafkaProducer) Produce(ctx context.Context, msgs ...ProduceMsg) []error {
	ctx, span := tracer.Start(ctx, "KafkaProducer.Produce",
		trace.WithAttributes(attribute.Int("messaging.batch.message_count", len(msgs))),
	)
	defer span.End()

	records := make([]*kgo.Record, 0, len(msgs))
	for _, msg := range msgs {
		records = append(records, buildProduceRecord(msg))
	}

	results := p.cl.ProduceSync(ctx, records...)

	errs := make([]error, len(msgs))
	var failed int
	for i, res := range results {
		if res.Err != nil {
			errs[i] = fmt.Errorf("produce to %s: %w", res.Record.Topic, res.Err)
			failed++
		}
	}

	if failed > 0 {
		span.RecordError(results.FirstErr())
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d messages failed", failed, len(msgs)))
		return errs
	}

	span.SetStatus(codes.Ok, "")
	return errs
}

func (p *KafkaProducer) Close() {
	p.cl.Close()
}

func buildProduceRecord(msg ProduceMsg) *kgo.Record {
	r := &kgo.Record{
		Topic: msg.Topic,
		Value: msg.Payload,
	}

	for k, v := range msg.Headers {
		r.Headers = append(r.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	if msg.PartitionKey != nil {
		r.Key = []byte(*msg.PartitionKey)
	}

	return r
}
