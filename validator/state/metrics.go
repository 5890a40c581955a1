package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DataAPICallCount counts platform data-API requests. Diagnostic only.
	DataAPICallCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bitcast",
		Name:      "data_api_calls_total",
		Help:      "Number of platform data API calls issued by evaluators.",
	})
	// AnalyticsAPICallCount counts platform analytics requests. Diagnostic only.
	AnalyticsAPICallCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bitcast",
		Name:      "analytics_api_calls_total",
		Help:      "Number of platform analytics API calls issued by evaluators.",
	})
	// CycleCount counts completed reward cycles by outcome.
	CycleCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcast",
		Name:      "reward_cycles_total",
		Help:      "Number of reward cycles run, labeled by outcome.",
	}, []string{"outcome"})
)
