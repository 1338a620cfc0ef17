package sales

import (
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/types"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// SellInput is a sale submission. Cashier and item fall back to the session selection.
type SellInput struct {
	CashierID *int64            `json:"cashier_id" validate:"omitempty,gt=0"`
	ItemID    *int64            `json:"item_id" validate:"omitempty,gt=0"`
	Qty       types.NumericText `json:"qty"`
}

// Receipt is the committed sale joined with cashier and item names.
type Receipt struct {
	SaleID      int64           `json:"sale_id" gorm:"column:sale_id"`
	SoldAt      time.Time       `json:"sold_at" gorm:"column:sold_at"`
	CashierID   int64           `json:"cashier_id" gorm:"column:cashier_id"`
	CashierName string          `json:"cashier_name" gorm:"column:cashier_name"`
	ItemID      int64           `json:"item_id" gorm:"column:item_id"`
	ItemName    string          `json:"item_name" gorm:"column:item_name"`
	Unit        string          `json:"unit" gorm:"column:unit"`
	Qty         decimal.Decimal `json:"qty" gorm:"column:qty"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"column:unit_price"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"column:line_total"`
}

// ReportFilter selects sales in [Start, End] by calendar day.
type ReportFilter struct {
	Start     string
	End       string
	CashierID *int64
	Item      string
}

// ReportRow is one denormalized sale line.
type ReportRow struct {
	SaleID    int64           `json:"sale_id" gorm:"column:sale_id"`
	SoldAt    time.Time       `json:"sold_at" gorm:"column:sold_at"`
	Cashier   string          `json:"cashier" gorm:"column:cashier"`
	ItemName  string          `json:"item_name" gorm:"column:item_name"`
	SKU       *string         `json:"sku" gorm:"column:sku"`
	Barcode   *string         `json:"barcode" gorm:"column:barcode"`
	Qty       decimal.Decimal `json:"qty" gorm:"column:qty"`
	Unit      string          `json:"unit" gorm:"column:unit"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"column:unit_price"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"column:line_total"`
}

// Report carries the rows plus totals computed over them.
type Report struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	CashierID    *int64          `json:"cashier_id,omitempty"`
	Item         string          `json:"item,omitempty"`
	Rows         []ReportRow     `json:"rows"`
	Count        int             `json:"count"`
	TotalQty     decimal.Decimal `json:"total_qty"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Filename is the CSV download name for the report's date range.
func (r Report) Filename() string {
	return "sales_" + r.Start + "_to_" + r.End + ".csv"
}
