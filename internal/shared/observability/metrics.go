package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtsgen_files_processed_total",
		Help: "Total number of source files a declaration was generated for.",
	})

	FilesFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtsgen_files_failed_total",
		Help: "Total number of source files whose scan failed.",
	})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dtsgen_generation_seconds",
		Help:    "Time spent generating one declaration file.",
		Buckets: prometheus.DefBuckets,
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtsgen_cache_hits_total",
		Help: "Total number of generations served from the content cache.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtsgen_cache_misses_total",
		Help: "Total number of generations that had to run the pipeline.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtsgen_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
