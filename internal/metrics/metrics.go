// Package metrics exposes import/export counters on a dedicated
// prometheus registry, served at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RowsDecoded    prometheus.Counter
	OrdersInserted prometheus.Counter
	OrdersSkipped  prometheus.Counter
	OrdersRejected prometheus.Counter
	ImportFailures prometheus.Counter
	ExportFailures prometheus.Counter
	ImportSeconds  prometheus.Histogram
	ExportSeconds  prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	rowsDecoded := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_rows_decoded_total"})
	inserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_orders_inserted_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_orders_skipped_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_orders_rejected_total"})
	importFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_import_failures_total"})
	exportFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesorders_export_failures_total"})
	importSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesorders_import_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	exportSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesorders_export_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(rowsDecoded, inserted, skipped, rejected,
		importFailures, exportFailures, importSeconds, exportSeconds)

	return &Registry{
		reg:            r,
		RowsDecoded:    rowsDecoded,
		OrdersInserted: inserted,
		OrdersSkipped:  skipped,
		OrdersRejected: rejected,
		ImportFailures: importFailures,
		ExportFailures: exportFailures,
		ImportSeconds:  importSeconds,
		ExportSeconds:  exportSeconds,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
