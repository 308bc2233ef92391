package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store metrics. Registered on the default registry; cmd/lifebench exposes
// them over promhttp.
var (
	nodeCountGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hashlife_store_nodes",
		Help: "Current number of interned quadtree nodes",
	})

	gcRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hashlife_store_gc_runs_total",
		Help: "Completed mark-sweep collections",
	})

	gcReclaimedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hashlife_store_gc_reclaimed_total",
		Help: "Nodes reclaimed across all collections",
	})

	gcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hashlife_store_gc_duration_seconds",
		Help:    "Wall time per mark-sweep collection",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hashlife_store_next_state_cache_hits_total",
		Help: "Next-state results served from the per-node cache",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hashlife_store_next_state_cache_misses_total",
		Help: "Next-state results recomputed",
	})
)
