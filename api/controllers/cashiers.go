package controllers

import (
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/api/validators"
	"github.com/AIforimpact22/bootcampx/internal/cashiers"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ListCashiers handles GET /api/v1/cashiers?q=&active_only=.
func ListCashiers(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Browse(r.Context(), cashiers.BrowseFilter{
			Query:      r.URL.Query().Get("q"),
			ActiveOnly: activeOnly,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetCashier(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "cashierId"), "cashier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashier, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cashier)
	}
}

func CreateCashier(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input cashiers.CashierInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashier, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cashier)
	}
}

func UpdateCashier(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "cashierId"), "cashier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input cashiers.CashierInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashier, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cashier)
	}
}
