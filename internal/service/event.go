package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/pkg/outbox"
)

// emit writes ev to the outbox of store, keyed by product id. Stores without
// an outbox drop the event.
func emit(ctx context.Context, store repository.Store, topic string, productID int64, ev any) error {
	outboxMsgs := store.OutboxMsgs()
	if outboxMsgs == nil {
		return nil
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partitionKey := strconv.FormatInt(productID, 10)
	if err := outboxMsgs.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: &partitionKey,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
