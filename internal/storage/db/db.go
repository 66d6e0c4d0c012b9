package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults

	// WithTx executes a function in a new transaction. Inside a transaction it
	// runs the function against the same transaction.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ HealthChecker = (*Client)(nil)
)

type Client struct {
	*pgxpool.Pool
}

// NewClient creates a new db client.
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{Pool: pool}
}

// WithTx commits when txFunc returns nil and rolls back otherwise.
func (c *Client) WithTx(ctx context.Context, txFunc func(DB) error) error {
	err := pgx.BeginFunc(ctx, c.Pool, func(tx pgx.Tx) error {
		return txFunc(&txWrapper{Tx: tx})
	})
	if err != nil {
		return fmt.Errorf("run transaction: %w", err)
	}
	return nil
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type txWrapper struct {
	pgx.Tx
}

func (t *txWrapper) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}

// LockXact takes the transaction level advisory lock key, waiting for the
// transaction holding it to finish. Outside a transaction the lock is
// released as soon as the statement completes.
func LockXact(ctx context.Context, db DB, key int64) error {
	if _, err := db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return fmt.Errorf("advisory xact lock %d: %w", key, err)
	}
	return nil
}
