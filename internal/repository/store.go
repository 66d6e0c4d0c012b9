package repository

import "context"

// Store bundles the ledger tables of one storage backend.
type Store interface {
	Products() ProductRepository
	Sales() SaleRepository
	// OutboxMsgs returns nil when the backend does not keep an outbox.
	OutboxMsgs() OutboxMsgRepository

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// EnsureInitialized creates missing tables empty and leaves existing ones untouched.
	EnsureInitialized(ctx context.Context) error

	// WithTx runs txFunc against a store whose saves become visible together
	// when txFunc returns nil, and not at all otherwise. Inside a transaction
	// it runs txFunc against the same transaction.
	WithTx(ctx context.Context, txFunc func(Store) error) error
}
