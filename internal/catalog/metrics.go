package catalog

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Created     prometheus.Counter
	StockUpdate prometheus.Counter
	UploadBytes prometheus.Counter
	Estimates   *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_products_created_total",
			Help: "Products added to the catalog",
		}),
		StockUpdate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_stock_updates_total",
			Help: "Successful stock overwrites",
		}),
		UploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_upload_bytes_total",
			Help: "Bytes of product images written to disk",
		}),
		Estimates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_revenue_estimates_total",
				Help: "Revenue analytics computations",
			},
			[]string{"filtered"},
		),
	}

	reg.MustRegister(m.Created, m.StockUpdate, m.UploadBytes, m.Estimates)
	return m
}

// The methods below accept a nil receiver so handlers work without a registry.

func (m *Metrics) productCreated() {
	if m != nil {
		m.Created.Inc()
	}
}

func (m *Metrics) stockUpdated() {
	if m != nil {
		m.StockUpdate.Inc()
	}
}

func (m *Metrics) uploaded(n int64) {
	if m != nil {
		m.UploadBytes.Add(float64(n))
	}
}

func (m *Metrics) estimated(filtered bool) {
	if m != nil {
		m.Estimates.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	}
}
