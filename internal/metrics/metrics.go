// Package metrics exposes Prometheus counters for store mutations and
// import outcomes, served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MutationsTotal counts store mutations by entity and operation.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redfp_store_mutations_total",
		Help: "Entity store mutations by entity and operation.",
	}, []string{"entity", "op"})

	// ImportsTotal counts import attempts by entity.
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redfp_imports_total",
		Help: "Spreadsheet import attempts by entity.",
	}, []string{"entity"})

	// ImportRowsTotal counts processed import rows by entity and outcome
	// (imported or rejected).
	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redfp_import_rows_total",
		Help: "Import rows by entity and outcome.",
	}, []string{"entity", "outcome"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
