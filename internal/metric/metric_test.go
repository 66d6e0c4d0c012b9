package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegisterer(t *testing.T) {
	t.Run("Should register every collector", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewWithRegisterer(reg)

		m.ProductsAdded.Inc()
		m.SalesRecorded.Inc()
		m.UnitsSold.Add(3)
		m.SalesRejected.WithLabelValues(ReasonNotFound).Inc()
		m.RequestsTotal.WithLabelValues("GET", "/products", "200").Inc()

		families, err := reg.Gather()
		require.NoError(t, err)
		assert.Len(t, families, 6)

		assert.InDelta(t, 3, testutil.ToFloat64(m.UnitsSold), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SalesRejected.WithLabelValues(ReasonNotFound)), 0)
	})

	t.Run("Should reuse collectors registered twice", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		first := NewWithRegisterer(reg)
		second := NewWithRegisterer(reg)

		first.ProductsAdded.Inc()
		second.ProductsAdded.Inc()

		assert.InDelta(t, 2, testutil.ToFloat64(first.ProductsAdded), 0)
	})
}
