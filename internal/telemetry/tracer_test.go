package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
)

func TestInitTracer(t *testing.T) {
	t.Run("Should install propagator without collector", func(t *testing.T) {
		cleanup, err := InitTracer(context.Background(), config.Otel{ServiceName: "store-ledger"})
		require.NoError(t, err)
		require.NotNil(t, cleanup)

		fields := otel.GetTextMapPropagator().Fields()
		assert.Contains(t, fields, "traceparent")
		assert.Contains(t, fields, "baggage")

		assert.NoError(t, cleanup(context.Background()))
	})
}
