package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/moonpos/moonpos-backend/pkg/config"
)

// CORS returns middleware that applies the configured origin policy.
// Credentials are only allowed with an explicit origin list.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", idempotentReplayHeader},
		AllowCredentials: cfg.AllowCredentials(),
		MaxAge:           300,
	}).Handler
}
