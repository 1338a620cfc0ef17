package dashboard

import (
	"github.com/AIforimpact22/bootcampx/internal/items"
	"github.com/shopspring/decimal"
)

// KPIs are the headline figures.
type KPIs struct {
	SalesToday        decimal.Decimal `json:"sales_today"`
	SalesMonth        decimal.Decimal `json:"sales_month"`
	TransactionsToday int             `json:"transactions_today"`
}

type ItemRevenue struct {
	ItemName string          `json:"item_name" gorm:"column:item_name"`
	Revenue  decimal.Decimal `json:"revenue" gorm:"column:revenue"`
}

type DayRevenue struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the full dashboard payload.
type Summary struct {
	KPIs              KPIs            `json:"kpis"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          []items.ItemDTO `json:"low_stock"`
	TopItems          []ItemRevenue   `json:"top_items"`
	Trend             []DayRevenue    `json:"trend"`
}

// Status mirrors the landing page connection check.
type Status struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Message    string `json:"message"`
}
