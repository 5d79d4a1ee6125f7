package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careimport_rows_created_total",
		Help: "Entities created by import executions, by import kind.",
	}, []string{"kind"})

	rowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careimport_rows_skipped_total",
		Help: "Rows skipped as duplicates, by import kind.",
	}, []string{"kind"})

	rowsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careimport_rows_failed_total",
		Help: "Rows rejected with a row-scoped error, by import kind.",
	}, []string{"kind"})

	batchesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careimport_batches_total",
		Help: "Execute calls completed, by import kind.",
	}, []string{"kind"})
)

func observeSummary(kind string, created, skipped, failed int) {
	batchesExecuted.WithLabelValues(kind).Inc()
	rowsCreated.WithLabelValues(kind).Add(float64(created))
	rowsSkipped.WithLabelValues(kind).Add(float64(skipped))
	rowsFailed.WithLabelValues(kind).Add(float64(failed))
}
