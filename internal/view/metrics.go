package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "backlog",
		Subsystem: "view",
		Name:      "cache_lookups_total",
		Help:      "View cache lookups by cache and result.",
	},
	[]string{"cache", "result"},
)

const (
	cacheVisible   = "visible"
	cacheCompleted = "completed"
)

func recordLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
