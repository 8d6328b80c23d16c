package routingalgorithm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics . search counters, labelled by algorithm name. a nil *Metrics records nothing.
type Metrics struct {
	visitedNodes  *prometheus.HistogramVec
	queryDuration *prometheus.HistogramVec
	notFound      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		visitedNodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadgraph",
			Name:      "search_visited_nodes",
			Help:      "Nodes settled per route query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"algorithm"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadgraph",
			Name:      "search_duration_seconds",
			Help:      "Route query duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"algorithm"}),
		notFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadgraph",
			Name:      "search_not_found_total",
			Help:      "Route queries without a path",
		}, []string{"algorithm"}),
	}
	reg.MustRegister(m.visitedNodes, m.queryDuration, m.notFound)
	return m
}

func (m *Metrics) observe(algorithm string, visited int, took time.Duration, found bool) {
	if m == nil {
		return
	}
	m.visitedNodes.WithLabelValues(algorithm).Observe(float64(visited))
	m.queryDuration.WithLabelValues(algorithm).Observe(took.Seconds())
	if !found {
		m.notFound.WithLabelValues(algorithm).Inc()
	}
}
