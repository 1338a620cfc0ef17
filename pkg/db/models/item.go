package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a sellable stock line.
type Item struct {
	ItemID    int64           `gorm:"column:item_id;primaryKey;autoIncrement"`
	ItemName  string          `gorm:"column:item_name;not null"`
	SKU       *string         `gorm:"column:sku;uniqueIndex:items_sku_key"`
	Barcode   *string         `gorm:"column:barcode;uniqueIndex:items_barcode_key"`
	Unit      string          `gorm:"column:unit;not null"`
	QtyOnHand decimal.Decimal `gorm:"column:qty_on_hand;type:numeric(14,3);not null"`
	SellPrice decimal.Decimal `gorm:"column:sell_price;type:numeric(12,2);not null"`
	Active    bool            `gorm:"column:active;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Item) TableName() string { return "items" }
