package controllers

import (
	"context"
	"net/http"

	"github.com/haletrung/vietmarket-backend/api/responses"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func HealthReady(database, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}
		healthy := true

		if database == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if err := database.Ping(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}

		if cache == nil {
			checks["cache"] = "not configured"
			healthy = false
		} else if err := cache.Ping(r.Context()); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		}

		if !healthy {
			if logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{"checks": checks})
				logg.Warn(ctx, "readiness check failed")
			}
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ok", "checks": checks})
	}
}
