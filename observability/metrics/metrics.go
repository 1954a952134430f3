package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"commercechain/core/events"
)

// Collector exposes the node's prometheus series and doubles as an event
// emitter so every module event increments its counter on the way out.
type Collector struct {
	eventsTotal   *prometheus.CounterVec
	rpcRequests   *prometheus.CounterVec
	rpcDurations  prometheus.Histogram
	rpcRateLimits prometheus.Counter
}

// NewCollector registers the node's metric series on the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "commerce_events_total",
			Help: "Module events emitted, labelled by event type.",
		}, []string{"type"}),
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "commerce_rpc_requests_total",
			Help: "RPC requests handled, labelled by method and outcome.",
		}, []string{"method", "outcome"}),
		rpcDurations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "commerce_rpc_duration_seconds",
			Help:    "RPC handler latency.",
			Buckets: prometheus.DefBuckets,
		}),
		rpcRateLimits: factory.NewCounter(prometheus.CounterOpts{
			Name: "commerce_rpc_rate_limited_total",
			Help: "RPC requests rejected by the rate limiter.",
		}),
	}
}

// Emit satisfies events.Emitter; each emitted event bumps its type counter.
func (c *Collector) Emit(evt events.Event) {
	if c == nil || evt == nil {
		return
	}
	c.eventsTotal.WithLabelValues(evt.EventType()).Inc()
}

// ObserveRPC records one handled RPC call.
func (c *Collector) ObserveRPC(method, outcome string, seconds float64) {
	if c == nil {
		return
	}
	c.rpcRequests.WithLabelValues(method, outcome).Inc()
	c.rpcDurations.Observe(seconds)
}

// ObserveRateLimited records one rate-limited request.
func (c *Collector) ObserveRateLimited() {
	if c == nil {
		return
	}
	c.rpcRateLimits.Inc()
}
