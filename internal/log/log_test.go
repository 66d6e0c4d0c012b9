package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/log"
	"github.com/tuanvumaihuynh/store-ledger/pkg/correlationid"
)

func TestNewHandler(t *testing.T) {
	t.Run("Should enrich JSON records with correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(log.NewHandler(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}))

		ctx := correlationid.NewContext(context.Background(), "abc-123")
		logger.InfoContext(ctx, "sale recorded", slog.Int("sale_id", 1))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "sale recorded", record["msg"])
		assert.Equal(t, "abc-123", record["correlation_id"])
		assert.EqualValues(t, 1, record["sale_id"])
	})

	t.Run("Should respect level in text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(log.NewHandler(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn}))

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}
