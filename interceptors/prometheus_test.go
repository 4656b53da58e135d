package interceptors

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCollector(t *testing.T) {
	t.Run("counts send outcomes by label", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector, err := NewPrometheusCollector(reg)
		assert.NoError(t, err)

		collector.RecordSend("orders", "OrderPlaced", true, nil)
		collector.RecordSend("orders", "OrderPlaced", true, nil)
		collector.RecordSend("orders", "OrderPlaced", false, nil)
		collector.RecordSend("orders", "OrderPlaced", false, errors.New("boom"))

		assert.Equal(t, float64(2), testutil.ToFloat64(
			collector.sends.WithLabelValues("orders", "OrderPlaced", "sent")))
		assert.Equal(t, float64(1), testutil.ToFloat64(
			collector.sends.WithLabelValues("orders", "OrderPlaced", "declined")))
		assert.Equal(t, float64(1), testutil.ToFloat64(
			collector.sends.WithLabelValues("orders", "OrderPlaced", "error")))
	})

	t.Run("counts receive outcomes by label", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector, err := NewPrometheusCollector(reg)
		assert.NoError(t, err)

		collector.RecordReceive("orders", "OrderPlaced", nil)
		collector.RecordReceive("orders", "", nil)
		collector.RecordReceive("orders", "OrderPlaced", errors.New("boom"))

		assert.Equal(t, float64(1), testutil.ToFloat64(
			collector.receives.WithLabelValues("orders", "OrderPlaced", "received")))
		assert.Equal(t, float64(1), testutil.ToFloat64(
			collector.receives.WithLabelValues("orders", "", "empty")))
		assert.Equal(t, float64(1), testutil.ToFloat64(
			collector.receives.WithLabelValues("orders", "OrderPlaced", "error")))
	})

	t.Run("registration conflicts surface as errors", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_, err := NewPrometheusCollector(reg)
		assert.NoError(t, err)

		_, err = NewPrometheusCollector(reg)
		assert.Error(t, err)
	})
}
