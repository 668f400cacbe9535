package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BacklogSource is read on every scrape.
type BacklogSource interface {
	Backlog() orders.Backlog
}

type Metrics struct {
	reg         *prometheus.Registry
	namespace   string
	transitions *prometheus.CounterVec
	admissions  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg:       reg,
		namespace: namespace,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by status entered.",
		}, []string{"status"}),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_admissions_total",
			Help:      "Admitted orders by lane.",
		}, []string{"lane"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_rejections_total",
			Help:      "Failed admissions and transitions by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		m.transitions, m.admissions, m.rejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// WatchBacklog exports the lane sizes of src as gauges. Call it once.
func (m *Metrics) WatchBacklog(src BacklogSource) {
	m.reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "backlog_regular",
			Help:      "Orders waiting in the regular lane.",
		}, func() float64 { return float64(src.Backlog().Regular) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "backlog_priority",
			Help:      "Orders waiting in the priority lane.",
		}, func() float64 { return float64(src.Backlog().Priority) }),
	)
}

func (m *Metrics) Notify(_ context.Context, t orders.Transition) {
	m.transitions.WithLabelValues(string(t.To)).Inc()
	if t.To == orders.StatusPending {
		m.admissions.WithLabelValues(string(t.Order.Lane)).Inc()
	}
}

// ObserveRejection counts a failed operation by error kind.
func (m *Metrics) ObserveRejection(err error) {
	m.rejections.WithLabelValues(Reason(err)).Inc()
}

func Reason(err error) string {
	switch {
	case errors.Is(err, orders.ErrUnknownCustomer):
		return "unknown_customer"
	case errors.Is(err, orders.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, orders.ErrUnknownOrder):
		return "unknown_order"
	case errors.Is(err, orders.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, orders.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, orders.ErrInvalidItems):
		return "invalid_items"
	}
	return "other"
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
