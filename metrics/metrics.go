// Package metrics exposes Prometheus instrumentation for the metadata
// layer. Collectors register on the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatabasesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsmeta_databases_created_total",
		Help: "Total number of databases created through the metadata facade.",
	})

	DatabasesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsmeta_databases_dropped_total",
		Help: "Total number of databases dropped through the metadata facade.",
	})

	TablesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsmeta_tables_created_total",
		Help: "Total number of tables registered through the metadata facade.",
	})

	TablesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsmeta_tables_dropped_total",
		Help: "Total number of tables dropped through the metadata facade.",
	})

	ColumnAlterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsmeta_column_alterations_total",
		Help: "Total number of column-level alterations, by operation.",
	}, []string{"op"})

	DatabasesRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tsmeta_databases_registered",
		Help: "Number of databases currently registered in the catalog.",
	})
)
