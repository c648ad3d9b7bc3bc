package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Proxy objects created, by native kind.",
		},
		[]string{"kind"},
	)
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "resolver",
			Name:      "identity_cache_hits_total",
			Help:      "Resolutions answered from the identity cache.",
		},
	)
	negativeCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "resolver",
			Name:      "negative_cache_hits_total",
			Help:      "Child lookups answered from the negative cache.",
		},
	)
	discoverySkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "resolver",
			Name:      "discovery_skips_total",
			Help:      "Children skipped during discovery, by reason.",
		},
		[]string{"reason"},
	)
	deferredWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "sched",
			Name:      "deferred_writes_total",
			Help:      "Writes handed to the scheduler.",
		},
	)
	flushes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simgraph",
			Subsystem: "sched",
			Name:      "flushes_total",
			Help:      "End-of-step flushes.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(resolutions, cacheHits, negativeCacheHits,
			discoverySkips, deferredWrites, flushes)
	})
}

func RecordResolution(kind string) {
	RegisterMetrics()
	resolutions.WithLabelValues(kind).Inc()
}

func RecordCacheHit() {
	RegisterMetrics()
	cacheHits.Inc()
}

func RecordNegativeCacheHit() {
	RegisterMetrics()
	negativeCacheHits.Inc()
}

func RecordDiscoverySkip(reason string) {
	RegisterMetrics()
	discoverySkips.WithLabelValues(reason).Inc()
}

func RecordDeferredWrite() {
	RegisterMetrics()
	deferredWrites.Inc()
}

func RecordFlush() {
	RegisterMetrics()
	flushes.Inc()
}
