// Package metrics exposes a Prometheus /metrics endpoint on a separate port.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghgate_decisions_total",
		Help: "Total number of gate verdicts, by action, repo, and outcome.",
	}, []string{"action", "repo", "kind"})

	ForwardedRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghgate_forwarded_request_duration_seconds",
		Help:    "Duration of requests forwarded upstream to the forge.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	ForwardedRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghgate_forwarded_request_total",
		Help: "Total number of requests forwarded upstream to the forge.",
	}, []string{"method", "status"})

	CredentialCheckTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghgate_credential_check_total",
		Help: "Total number of credential health checks, by result.",
	}, []string{"result"})

	CLIRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghgate_cli_request_total",
		Help: "Total number of CLI-helper side-channel requests, by command and outcome.",
	}, []string{"command", "kind"})
)

// Serve starts the Prometheus metrics server on the given address.
func Serve(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics server starting", "listen", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server failed", "error", err)
	}
}
