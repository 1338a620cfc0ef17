package controllers

import (
	"context"
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/pkg/config"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"go.uber.org/multierr"
)

const envHeader = "X-Bootcampx-Env"

// ReadinessCheck is one named dependency probed by HealthReady.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every configured dependency. An unconfigured database is
// reported but does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		status := map[string]string{"status": "ready"}
		if !cfg.DB.Configured() {
			status["database"] = "not_configured"
		}

		var errs error
		for _, c := range checks {
			if err := c.Check(r.Context()); err != nil {
				status[c.Name] = err.Error()
				errs = multierr.Append(errs, err)
				continue
			}
			status[c.Name] = "ok"
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependency unavailable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
