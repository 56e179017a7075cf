package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveAction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "")

	m.ObserveAction("add", "ok")
	m.ObserveAction("add", "ok")
	m.ObserveAction("add", "rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("add", "rejected")))
}

func TestMetrics_ObserveTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "shop")

	m.ObserveTable(3, 42, 99.5)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.products))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.stockItems))
	assert.Equal(t, 99.5, testutil.ToFloat64(m.stockValue))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "shop_products")
}

func TestMetrics_ObservePersistFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "")

	m.ObservePersistFailure("save")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures.WithLabelValues("save")))
}
