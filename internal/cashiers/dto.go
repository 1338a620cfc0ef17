package cashiers

import (
	"strings"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/db/models"
)

// CashierDTO is the API shape of a cashier.
type CashierDTO struct {
	CashierID int64     `json:"cashier_id"`
	FullName  string    `json:"full_name"`
	Username  *string   `json:"username"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CashierInput is the add/edit form. Active defaults to true on create.
type CashierInput struct {
	FullName string  `json:"full_name" validate:"max=200"`
	Username *string `json:"username" validate:"omitempty,max=64"`
	Active   *bool   `json:"active"`
}

// BrowseFilter narrows the cashier list.
type BrowseFilter struct {
	Query      string
	ActiveOnly bool
}

func fromModel(m models.Cashier) CashierDTO {
	return CashierDTO{
		CashierID: m.CashierID,
		FullName:  m.FullName,
		Username:  m.Username,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func fromModels(rows []models.Cashier) []CashierDTO {
	out := make([]CashierDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out
}

func (f BrowseFilter) matches(c CashierDTO) bool {
	if f.ActiveOnly && !c.Active {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.FullName), q) {
		return true
	}
	return c.Username != nil && strings.Contains(strings.ToLower(*c.Username), q)
}

func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
