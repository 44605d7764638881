// Package metrics defines the Prometheus metrics for feedpager and an
// optional listener that exposes them.
//
// Fetch metrics:
//   - feedpager_fetch_total{outcome} (Counter): fetch attempts by outcome (ok, failed)
//   - feedpager_fetch_duration_seconds (Histogram): fetch round-trip time
//   - feedpager_fetch_records (Gauge): records returned by the last successful fetch
//   - feedpager_fetch_response_bytes (Gauge): body size of the last successful fetch
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedpager_fetch_total",
		Help: "Total fetch attempts by outcome",
	}, []string{"outcome"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedpager_fetch_duration_seconds",
		Help:    "Fetch duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	FetchRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedpager_fetch_records",
		Help: "Records returned by the last successful fetch",
	})

	FetchResponseBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedpager_fetch_response_bytes",
		Help: "Body size in bytes of the last successful fetch",
	})
)

// Serve exposes /metrics on addr until ctx is done. It returns once the
// listener is bound so that a bad address is reported to the caller.
func Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return nil
}
