package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheetshop_cache_hits_total",
		Help: "Cache lookups answered from a valid entry.",
	}, []string{"family"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheetshop_cache_misses_total",
		Help: "Cache lookups that required a load.",
	}, []string{"family"})
	cacheLoadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheetshop_cache_load_errors_total",
		Help: "Loads that failed and were not cached.",
	}, []string{"family"})
)
