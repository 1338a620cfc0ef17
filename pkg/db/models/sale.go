package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable sale line. LineTotal is generated by the store.
type Sale struct {
	SaleID    int64           `gorm:"column:sale_id;primaryKey;autoIncrement"`
	SoldAt    time.Time       `gorm:"column:sold_at"`
	CashierID int64           `gorm:"column:cashier_id;not null"`
	ItemID    int64           `gorm:"column:item_id;not null"`
	Qty       decimal.Decimal `gorm:"column:qty;type:numeric(14,3);not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;->"`
}

func (Sale) TableName() string { return "sales" }
