package items

import (
	"context"

	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsulates item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an item repository bound to the provided gorm DB.
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

// ListActive returns active items ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("item_name").
		Find(&rows).Error
	return rows, err
}

// ListAll returns every item ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Order("item_name").
		Order("item_id").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var row models.Item
	if err := r.db.WithContext(ctx).Where("item_id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindActiveByCode matches an exact barcode or SKU among active items.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.Item, error) {
	var row models.Item
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("(barcode = ? OR sku = ?)", code, code).
		Order("item_id").
		Limit(1).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListLowStock returns active items at or below threshold, lowest first.
func (r *Repository) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]models.Item, error) {
	var rows []models.Item
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("qty_on_hand <= ?", threshold).
		Order("qty_on_hand").
		Order("item_name").
		Find(&rows).Error
	return rows, err
}

// Create inserts an item and fills its generated id.
func (r *Repository) Create(ctx context.Context, it *models.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

// Update rewrites the editable columns of an item.
func (r *Repository) Update(ctx context.Context, it models.Item) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("item_id = ?", it.ItemID).
		Updates(map[string]any{
			"item_name":   it.ItemName,
			"sku":         it.SKU,
			"barcode":     it.Barcode,
			"unit":        it.Unit,
			"qty_on_hand": it.QtyOnHand,
			"sell_price":  it.SellPrice,
			"active":      it.Active,
		})
	return res.RowsAffected, res.Error
}
