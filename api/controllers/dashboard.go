package controllers

import (
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/api/validators"
	"github.com/AIforimpact22/bootcampx/internal/dashboard"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/shopspring/decimal"
)

// Dashboard handles GET /api/v1/dashboard?low_stock_threshold=.
func Dashboard(svc dashboard.Service, defaultThreshold decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold, err := validators.ParseQueryDecimal(r, "low_stock_threshold", defaultThreshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summary(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
