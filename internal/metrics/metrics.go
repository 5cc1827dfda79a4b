package metrics

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "evaluation_passes_total", Help: "Completed evaluation passes"},
	)
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "evaluations_total", Help: "Symbol evaluations performed"},
		[]string{"symbol"},
	)
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "decisions_total", Help: "Strategy decisions by action"},
		[]string{"symbol", "action"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted"},
		[]string{"symbol", "side"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "errors_total", Help: "Evaluation errors by stage"},
		[]string{"symbol", "stage"},
	)
)

func init() {
	prometheus.MustRegister(PassesTotal, EvaluationsTotal, DecisionsTotal, OrdersTotal, ErrorsTotal)
}

// Serve exposes /metrics on addr in the background. The caller owns the
// returned server and closes it on shutdown.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "error", err)
		}
	}()
	return srv
}
