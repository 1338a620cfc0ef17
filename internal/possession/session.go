// Package possession holds the per-client sell context: the selected cashier,
// the selected item and the quantity being rung up.
package possession

import (
	"time"

	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateIdle            State = "idle"
	StateItemSelected    State = "item_selected"
	StateQuantityEntered State = "quantity_entered"
	StateSubmitted       State = "submitted"
	StateCommitted       State = "committed"
	StateRejected        State = "rejected"
)

// Session is the sell context of one POS client.
type Session struct {
	ID         string           `json:"id"`
	State      State            `json:"state"`
	CashierID  *int64           `json:"cashier_id,omitempty"`
	ItemID     *int64           `json:"item_id,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	LastSaleID *int64           `json:"last_sale_id,omitempty"`
	LastError  string           `json:"last_error,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewSession returns an idle session.
func NewSession(id string) *Session {
	return &Session{ID: id, State: StateIdle}
}

// SelectCashier records who is ringing up the sale.
func (s *Session) SelectCashier(cashierID int64) error {
	if s.State == StateSubmitted {
		return stateConflict("cannot change cashier while a sale is being submitted")
	}
	if cashierID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cashier_id must be positive")
	}
	s.CashierID = &cashierID
	return nil
}

// SelectItem picks the item to sell and discards any pending quantity.
func (s *Session) SelectItem(itemID int64) error {
	if s.State == StateSubmitted {
		return stateConflict("cannot change item while a sale is being submitted")
	}
	if itemID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item_id must be positive")
	}
	s.ItemID = &itemID
	s.Quantity = nil
	s.LastError = ""
	s.State = StateItemSelected
	return nil
}

// EnterQuantity sets a strictly positive quantity for the selected item. After a
// committed or rejected sale the remembered item may be sold again directly.
func (s *Session) EnterQuantity(qty decimal.Decimal) error {
	switch s.State {
	case StateItemSelected, StateQuantityEntered:
	case StateCommitted, StateRejected:
		if s.ItemID == nil {
			return stateConflict("select an item first")
		}
	default:
		return stateConflict("select an item before entering a quantity")
	}
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be greater than 0.").
			WithDetails(map[string]any{"field": "qty"})
	}
	s.Quantity = &qty
	s.State = StateQuantityEntered
	return nil
}

// Submit freezes the selection for the sell transaction.
func (s *Session) Submit() error {
	if s.State != StateQuantityEntered {
		return stateConflict("enter a quantity before submitting")
	}
	if s.CashierID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "Select a cashier.").
			WithDetails(map[string]any{"field": "cashier_id"})
	}
	if s.ItemID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "Select an item.").
			WithDetails(map[string]any{"field": "item_id"})
	}
	s.State = StateSubmitted
	return nil
}

// Commit records the sale id. The item stays selected for the next sale.
func (s *Session) Commit(saleID int64) error {
	if s.State != StateSubmitted {
		return stateConflict("no sale is being submitted")
	}
	s.LastSaleID = &saleID
	s.Quantity = nil
	s.LastError = ""
	s.State = StateCommitted
	return nil
}

// Reject records why the store refused the sale.
func (s *Session) Reject(reason string) error {
	if s.State != StateSubmitted {
		return stateConflict("no sale is being submitted")
	}
	s.Quantity = nil
	s.LastError = reason
	s.State = StateRejected
	return nil
}

func stateConflict(msg string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg)
}
