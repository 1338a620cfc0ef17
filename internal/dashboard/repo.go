package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KPIRow holds the headline sums for today and the current month.
type KPIRow struct {
	SalesToday        decimal.Decimal `gorm:"column:sales_today"`
	SalesMonth        decimal.Decimal `gorm:"column:sales_month"`
	TransactionsToday int64           `gorm:"column:transactions_today"`
}

// DayBucket is the revenue of the day at index Bucket of the requested bounds.
type DayBucket struct {
	Bucket  int             `gorm:"column:bucket"`
	Revenue decimal.Decimal `gorm:"column:revenue"`
}

// Repository runs the dashboard aggregates in the store.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// KPIs sums sales in [today, tomorrow) and since monthStart, and counts today's sales.
func (r *Repository) KPIs(ctx context.Context, today, tomorrow, monthStart time.Time) (KPIRow, error) {
	var row KPIRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
  COALESCE(SUM(CASE WHEN sold_at >= ? AND sold_at < ? THEN line_total END), 0) AS sales_today,
  COALESCE(SUM(line_total), 0) AS sales_month,
  COUNT(CASE WHEN sold_at >= ? AND sold_at < ? THEN 1 END) AS transactions_today
FROM sales
WHERE sold_at >= ?`,
		today, tomorrow, today, tomorrow, monthStart).
		Scan(&row).Error
	return row, err
}

// TopItems returns the highest grossing item names since from.
func (r *Repository) TopItems(ctx context.Context, from time.Time, limit int) ([]ItemRevenue, error) {
	rows := make([]ItemRevenue, 0, limit)
	err := r.db.WithContext(ctx).
		Table("sales s").
		Select("i.item_name AS item_name, SUM(s.line_total) AS revenue").
		Joins("JOIN items i ON i.item_id = s.item_id").
		Where("s.sold_at >= ?", from).
		Group("i.item_name").
		Order("SUM(s.line_total) DESC, i.item_name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RevenueByDay sums line totals per day. bounds holds consecutive day starts;
// bucket i covers [bounds[i], bounds[i+1]). Only days with sales are returned.
func (r *Repository) RevenueByDay(ctx context.Context, bounds []time.Time) ([]DayBucket, error) {
	rows := make([]DayBucket, 0)
	if len(bounds) < 2 {
		return rows, nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(bounds)+1)
	sb.WriteString("SELECT CASE")
	for i := 1; i < len(bounds); i++ {
		fmt.Fprintf(&sb, " WHEN sold_at < ? THEN %d", i-1)
		args = append(args, bounds[i])
	}
	sb.WriteString(" END AS bucket, SUM(line_total) AS revenue FROM sales WHERE sold_at >= ? AND sold_at < ? GROUP BY 1 ORDER BY 1")
	args = append(args, bounds[0], bounds[len(bounds)-1])

	err := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&rows).Error
	return rows, err
}
