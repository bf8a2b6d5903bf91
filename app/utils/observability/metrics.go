package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chat_relay"

const (
	OutcomeCompleted     = "completed"
	OutcomeUpstreamError = "upstream_error"
	OutcomeTruncated     = "truncated"
	OutcomeEmpty         = "empty"
	OutcomeDisconnected  = "disconnected"
	OutcomeRejected      = "rejected"

	UpstreamErrorStatus     = "status"
	UpstreamErrorConnection = "connection"
	UpstreamErrorTransport  = "transport"

	TitleSynthesized = "synthesized"
	TitlePlaceholder = "placeholder"
	TitleWriteFailed = "write_failed"
)

var (
	Exchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exchanges_total",
		Help:      "Relay exchanges by outcome.",
	}, []string{"outcome"})
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Upstream completion failures by kind.",
	}, []string{"kind"})
	Fragments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fragments_total",
		Help:      "Reply fragments decoded from upstream streams.",
	})
	TitleSynthesis = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "title_synthesis_total",
		Help:      "Title synthesis attempts by result.",
	}, []string{"result"})
	FirstFragmentLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "first_fragment_latency_ms",
		Help:      "Latency from upstream request to first decoded fragment in milliseconds.",
		Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000},
	})
)

func ObserveFirstFragmentLatency(d time.Duration) {
	FirstFragmentLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
