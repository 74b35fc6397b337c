package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

const readyCheckTimeout = 2 * time.Second

// HealthHandler godoc
//
//	@Summary	Liveness
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	adminsdk.HealthResponse
//	@Router		/health [get].
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, adminsdk.HealthResponse{Status: "ok"})
}

// ReadyHandler godoc
//
//	@Summary		Readiness
//	@Description	Checks that Qdrant, and the operation archive when configured, answer within a short timeout.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse
//	@Failure		503	{object}	adminsdk.HealthResponse	"degraded"
//	@Router			/health/ready [get].
func ReadyHandler(hc HealthChecker, archive Pinger, startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"qdrant":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": version,
		}
		status, code := "ok", http.StatusOK
		degrade := func(name string, err error) {
			checks[name] = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		if hc == nil {
			degrade("qdrant", errors.New("not configured"))
		} else if err := hc.Health(ctx); err != nil {
			degrade("qdrant", err)
		}

		if archive != nil {
			checks["archive"] = "ok"
			if err := archive.Ping(ctx); err != nil {
				degrade("archive", err)
			}
		}

		httpx.WriteJSON(w, code, adminsdk.HealthResponse{Status: status, Checks: checks})
	}
}
