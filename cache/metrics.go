package cache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	writes        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repometa_cache_hits_total",
			Help: "Total number of metadata cache hits",
		}, []string{"kind"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repometa_cache_misses_total",
			Help: "Total number of metadata cache misses",
		}, []string{"kind"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repometa_cache_writes_total",
			Help: "Total number of metadata cache entries written",
		}, []string{"kind"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repometa_cache_invalidations_total",
			Help: "Total number of metadata cache entries deleted by invalidation",
		}, []string{"kind"}),
	}

	if reg == nil {
		return m
	}

	m.hits = register(reg, m.hits)
	m.misses = register(reg, m.misses)
	m.writes = register(reg, m.writes)
	m.invalidations = register(reg, m.invalidations)

	return m
}

// register registers c on reg, returning the existing collector when an
// identical one is already registered.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}

	return c
}
