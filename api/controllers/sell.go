package controllers

import (
	"context"
	"net/http"

	"github.com/AIforimpact22/bootcampx/api/middleware"
	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/api/validators"
	"github.com/AIforimpact22/bootcampx/internal/cashiers"
	"github.com/AIforimpact22/bootcampx/internal/items"
	"github.com/AIforimpact22/bootcampx/internal/possession"
	"github.com/AIforimpact22/bootcampx/internal/sales"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
)

// SessionStore loads and persists POS sessions.
type SessionStore interface {
	Load(ctx context.Context, id string) (*possession.Session, error)
	Save(ctx context.Context, sess *possession.Session) error
}

// SellDeps groups what the sell screen handlers need.
type SellDeps struct {
	Sales    sales.Service
	Cashiers cashiers.Service
	Items    items.Service
	Sessions SessionStore
	Logger   *logger.Logger
}

type sellContextResponse struct {
	Cashiers []cashiers.CashierDTO `json:"cashiers"`
	Items    []items.ItemDTO       `json:"items"`
	Session  *possession.Session   `json:"session"`
}

type lookupRequest struct {
	Code string `json:"code" validate:"required"`
}

type lookupResponse struct {
	Item    items.ItemDTO       `json:"item"`
	Session *possession.Session `json:"session"`
}

type sessionRequest struct {
	CashierID *int64 `json:"cashier_id" validate:"omitempty,gt=0"`
	ItemID    *int64 `json:"item_id" validate:"omitempty,gt=0"`
}

type sellResponse struct {
	Receipt sales.Receipt       `json:"receipt"`
	Session *possession.Session `json:"session"`
}

func loadSession(r *http.Request, store SessionStore) (*possession.Session, error) {
	sess, err := store.Load(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	return sess, nil
}

func saveSession(r *http.Request, store SessionStore, logg *logger.Logger, sess *possession.Session) {
	if err := store.Save(r.Context(), sess); err != nil && logg != nil {
		logg.WarnErr(r.Context(), "save pos session", err)
	}
}

// SellScreen handles GET /api/v1/sell: the active lists plus the caller's session.
func SellScreen(deps SellDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		activeCashiers, err := deps.Cashiers.Active(ctx)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		activeItems, err := deps.Items.Active(ctx)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		sess, err := loadSession(r, deps.Sessions)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, sellContextResponse{Cashiers: activeCashiers, Items: activeItems, Session: sess})
	}
}

// SellLookup handles POST /api/v1/sell/lookup and selects the matched item.
func SellLookup(deps SellDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload lookupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		item, err := deps.Items.Lookup(ctx, payload.Code)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		sess, err := loadSession(r, deps.Sessions)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		if err := sess.SelectItem(item.ItemID); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		saveSession(r, deps.Sessions, deps.Logger, sess)
		responses.WriteSuccess(w, lookupResponse{Item: item, Session: sess})
	}
}

// SellSession handles PUT /api/v1/sell/session for manual selection.
func SellSession(deps SellDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload sessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		sess, err := loadSession(r, deps.Sessions)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		if payload.CashierID != nil {
			if _, err := deps.Cashiers.RequireActive(ctx, *payload.CashierID); err != nil {
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}
			if err := sess.SelectCashier(*payload.CashierID); err != nil {
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}
		}
		if payload.ItemID != nil {
			if _, err := deps.Items.RequireActive(ctx, *payload.ItemID); err != nil {
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}
			if err := sess.SelectItem(*payload.ItemID); err != nil {
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}
		}
		saveSession(r, deps.Sessions, deps.Logger, sess)
		responses.WriteSuccess(w, sess)
	}
}

// SellSubmit handles POST /api/v1/sell. The session is saved whatever the outcome
// so a rejected sale is visible on the next screen load.
func SellSubmit(deps SellDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload sales.SellInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		sess, err := loadSession(r, deps.Sessions)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}

		receipt, err := deps.Sales.Sell(ctx, sess, payload)
		saveSession(r, deps.Sessions, deps.Logger, sess)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sellResponse{Receipt: receipt, Session: sess})
	}
}
