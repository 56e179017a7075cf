// Package metrics exposes Prometheus collectors for inventory actions and the
// backing file.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "inventory"

// Metrics implements core.Recorder.
type Metrics struct {
	actions         *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	products        prometheus.Gauge
	stockItems      prometheus.Gauge
	stockValue      prometheus.Gauge
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Form actions by action and result",
			},
			[]string{"action", "result"},
		),
		persistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_failures_total",
				Help:      "Failed reads or writes of the backing spreadsheet",
			},
			[]string{"op"},
		),
		products: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products",
			Help:      "Number of product rows in memory",
		}),
		stockItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_items",
			Help:      "Sum of product quantities",
		}),
		stockValue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_value",
			Help:      "Sum of product total values",
		}),
	}
}

// ObserveAction counts a finished action. result is "ok", "rejected",
// "unsaved" or "busy".
func (m *Metrics) ObserveAction(action, result string) {
	m.actions.WithLabelValues(action, result).Inc()
}

// ObservePersistFailure counts a failed load or save.
func (m *Metrics) ObservePersistFailure(op string) {
	m.persistFailures.WithLabelValues(op).Inc()
}

// ObserveTable records the current table aggregates.
func (m *Metrics) ObserveTable(count int, items int64, value float64) {
	m.products.Set(float64(count))
	m.stockItems.Set(float64(items))
	m.stockValue.Set(value)
}
