package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
)

const (
	EntityBill = "bill"
	EntityItem = "item"

	StockDecrement = "decrement"
	StockRestore   = "restore"

	outcomeOK = "ok"
)

// StoreMetrics records catalog and bill write activity.
type StoreMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	stock    *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storebilling",
		Name:      "operation_duration_seconds",
		Help:      "Duration of catalog and bill operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity", "op"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storebilling",
		Name:      "operations_total",
		Help:      "Catalog and bill operations by outcome.",
	}, []string{"entity", "op", "outcome"})
	stock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storebilling",
		Name:      "stock_units_total",
		Help:      "Units of stock moved by bill writes.",
	}, []string{"direction"})
	reg.MustRegister(duration, outcomes, stock)
	return &StoreMetrics{
		duration: duration,
		outcomes: outcomes,
		stock:    stock,
	}
}

// Observe records the duration and outcome of one operation.
func (m *StoreMetrics) Observe(entity, op string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	entity, op = normalizeLabel(entity), normalizeLabel(op)
	m.duration.WithLabelValues(entity, op).Observe(time.Since(started).Seconds())
	m.outcomes.WithLabelValues(entity, op, outcome(err)).Inc()
}

// AddStock counts units moved in the given direction.
func (m *StoreMetrics) AddStock(direction string, units int) {
	if m == nil || m.stock == nil || units <= 0 {
		return
	}
	m.stock.WithLabelValues(normalizeLabel(direction)).Add(float64(units))
}

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return strings.ToLower(string(pkgerrors.CodeInternal))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
