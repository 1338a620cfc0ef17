package controllers

import (
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/internal/dashboard"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
)

// Status reports the configured flag and a live probe. It always answers 200
// so the landing page can show the failure text.
func Status(client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := dashboard.CheckStatus(r.Context(), client)
		if status.Configured && !status.Connected && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "probe", status.Message), "status.probe_failed")
		}
		responses.WriteSuccess(w, status)
	}
}
