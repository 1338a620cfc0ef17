package cashiers

import (
	"context"

	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates cashier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cashier repository bound to the provided gorm DB.
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

// ListActive returns active cashiers ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Cashier, error) {
	var rows []models.Cashier
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

// ListAll returns every cashier ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Cashier, error) {
	var rows []models.Cashier
	err := r.db.WithContext(ctx).
		Order("full_name").
		Order("cashier_id").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a single cashier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Cashier, error) {
	var row models.Cashier
	if err := r.db.WithContext(ctx).Where("cashier_id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a cashier and fills its generated id.
func (r *Repository) Create(ctx context.Context, c *models.Cashier) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update rewrites the editable columns and reports how many rows matched.
func (r *Repository) Update(ctx context.Context, id int64, fullName string, username *string, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cashier{}).
		Where("cashier_id = ?", id).
		Updates(map[string]any{
			"full_name": fullName,
			"username":  username,
			"active":    active,
		})
	return res.RowsAffected, res.Error
}
