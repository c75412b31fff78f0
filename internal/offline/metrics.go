package offline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var replaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "backlog",
		Subsystem: "sync",
		Name:      "replays_total",
		Help:      "Pending payload replays by result.",
	},
	[]string{"result"},
)
