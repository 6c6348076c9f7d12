// Package httptransport assembles the public HTTP surface: the verification
// endpoint plus health and metrics.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	platformredis "fnsgate/internal/platform/redis"
	verifyhandler "fnsgate/internal/verification/handler"
	"fnsgate/pkg/platform/httputil"
	"fnsgate/pkg/platform/middleware/metadata"
	"fnsgate/pkg/platform/middleware/requestid"
	"fnsgate/pkg/platform/middleware/requestlog"
	"fnsgate/pkg/platform/middleware/tracing"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
// redisClient may be nil when redis is not configured.
func NewRouter(log *slog.Logger, verify *verifyhandler.Handler, redisClient *platformredis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.RequestID)
	r.Use(tracing.Trace)
	r.Use(metadata.ClientMetadata)
	r.Use(requestlog.RequestLog(log))

	verify.Register(r)

	r.Get("/healthz", handleHealth(redisClient))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"redis":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
