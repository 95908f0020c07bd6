package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/pkg/config"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
)

const (
	serviceName  = "moonPOS API"
	envHeader    = "X-MoonPOS-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Root reports the service identity. The body is not wrapped in the data
// envelope so load balancers can match it directly.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"service":     serviceName,
			"status":      "ok",
			"cloud_ready": true,
		})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each named dependency. Nil pingers are skipped, so an
// unconfigured redis does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready").WithDetails(map[string]string{"dependency": name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
