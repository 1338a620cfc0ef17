package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrItemUnavailable means the item is missing or inactive at sell time.
var ErrItemUnavailable = errors.New("item not active or missing")

const receiptQuery = `
SELECT s.sale_id, s.sold_at, s.cashier_id, c.full_name AS cashier_name,
       s.item_id, i.item_name, i.unit, s.qty, s.unit_price, s.line_total
FROM sales s
JOIN cashiers c ON c.cashier_id = s.cashier_id
JOIN items i ON i.item_id = s.item_id
WHERE s.sale_id = ?`

// Repository encapsulates sale persistence and reporting queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ActivePrice reads the current sell price of an active item.
func (r *Repository) ActivePrice(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	var rows []struct {
		SellPrice decimal.Decimal `gorm:"column:sell_price"`
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT sell_price FROM items WHERE item_id = ? AND active = ?`, itemID, true).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, ErrItemUnavailable
	}
	return rows[0].SellPrice, nil
}

// InsertSale records a sale line; the store derives line_total and sold_at.
func (r *Repository) InsertSale(ctx context.Context, cashierID, itemID int64, qty, unitPrice decimal.Decimal) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Raw(`INSERT INTO sales (cashier_id, item_id, qty, unit_price) VALUES (?, ?, ?, ?) RETURNING sale_id`,
			cashierID, itemID, qty, unitPrice).
		Scan(&ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, errors.New("insert sale returned no id")
	}
	return ids[0], nil
}

// Receipt loads a sale joined with cashier and item display fields.
func (r *Repository) Receipt(ctx context.Context, saleID int64) (Receipt, error) {
	var rows []Receipt
	if err := r.db.WithContext(ctx).Raw(receiptQuery, saleID).Scan(&rows).Error; err != nil {
		return Receipt{}, err
	}
	if len(rows) == 0 {
		return Receipt{}, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

// ListReport returns sales with from <= sold_at < to, newest first.
func (r *Repository) ListReport(ctx context.Context, from, to time.Time, cashierID *int64, item string) ([]ReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("sales s").
		Select(`s.sale_id, s.sold_at, c.full_name AS cashier, i.item_name, i.sku, i.barcode,
       s.qty, i.unit, s.unit_price, s.line_total`).
		Joins("JOIN cashiers c ON c.cashier_id = s.cashier_id").
		Joins("JOIN items i ON i.item_id = s.item_id").
		Where("s.sold_at >= ? AND s.sold_at < ?", from, to)

	if cashierID != nil {
		query = query.Where("s.cashier_id = ?", *cashierID)
	}
	if needle := strings.ToLower(strings.TrimSpace(item)); needle != "" {
		pattern := "%" + needle + "%"
		query = query.Where(
			"(LOWER(i.item_name) LIKE ? OR LOWER(COALESCE(i.sku, '')) LIKE ? OR LOWER(COALESCE(i.barcode, '')) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	rows := make([]ReportRow, 0)
	err := query.Order("s.sold_at DESC").Order("s.sale_id DESC").Scan(&rows).Error
	return rows, err
}
