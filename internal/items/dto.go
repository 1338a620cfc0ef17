package items

import (
	"strings"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	"github.com/AIforimpact22/bootcampx/pkg/types"
	"github.com/shopspring/decimal"
)

const defaultUnit = "pcs"

// ItemDTO is the API shape of an item.
type ItemDTO struct {
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name"`
	SKU       *string         `json:"sku"`
	Barcode   *string         `json:"barcode"`
	Unit      string          `json:"unit"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// ItemInput is the add/edit form. Numeric fields accept numbers or strings.
type ItemInput struct {
	ItemName  string            `json:"item_name" validate:"max=200"`
	SKU       *string           `json:"sku" validate:"omitempty,max=64"`
	Barcode   *string           `json:"barcode" validate:"omitempty,max=64"`
	Unit      string            `json:"unit" validate:"max=32"`
	QtyOnHand types.NumericText `json:"qty_on_hand"`
	SellPrice types.NumericText `json:"sell_price"`
	Active    *bool             `json:"active"`
}

// BrowseFilter narrows the item list.
type BrowseFilter struct {
	Query      string
	ActiveOnly bool
}

func fromModel(m models.Item) ItemDTO {
	return ItemDTO{
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		SKU:       m.SKU,
		Barcode:   m.Barcode,
		Unit:      m.Unit,
		QtyOnHand: m.QtyOnHand,
		SellPrice: m.SellPrice,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func fromModels(rows []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out
}

func (f BrowseFilter) matches(it ItemDTO) bool {
	if f.ActiveOnly && !it.Active {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.ItemName), q) {
		return true
	}
	if it.SKU != nil && strings.Contains(strings.ToLower(*it.SKU), q) {
		return true
	}
	return it.Barcode != nil && strings.Contains(strings.ToLower(*it.Barcode), q)
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
