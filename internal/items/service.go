package items

import (
	"context"
	"errors"
	"strings"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgItemNameRequired = "Item name is required."
	msgQtyNotNumeric    = "Quantity on hand must be a number."
	msgPriceNotNumeric  = "Sell price must be a number."
	msgSKUTaken         = "SKU already exists."
	msgBarcodeTaken     = "Barcode already exists."
	msgNotUnique        = "SKU or barcode must be unique."
	msgNoActiveMatch    = "No active item matched that barcode or SKU."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the item service.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Cache  *cache.Cache
	Logger *logger.Logger
}

// Service exposes item browse/add/edit, lookups and the cached accessors.
type Service interface {
	Active(ctx context.Context) ([]ItemDTO, error)
	All(ctx context.Context) ([]ItemDTO, error)
	Browse(ctx context.Context, filter BrowseFilter) ([]ItemDTO, error)
	Get(ctx context.Context, id int64) (ItemDTO, error)
	Create(ctx context.Context, input ItemInput) (ItemDTO, error)
	Update(ctx context.Context, id int64, input ItemInput) (ItemDTO, error)
	Lookup(ctx context.Context, code string) (ItemDTO, error)
	LowStock(ctx context.Context, threshold decimal.Decimal) ([]ItemDTO, error)
	RequireActive(ctx context.Context, id int64) (ItemDTO, error)
}

type service struct {
	repo  *Repository
	tx    txRunner
	cache *cache.Cache
	logg  *logger.Logger
}

// NewService builds an item service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cache is required")
	}
	return &service{
		repo:  params.Repo,
		tx:    params.Tx,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// Active returns the cached list of active items.
func (s *service) Active(ctx context.Context) ([]ItemDTO, error) {
	var out []ItemDTO
	err := s.cache.GetOrCompute(ctx, cache.KeyItemsActive, 0, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.ListActive(ctx)
		if err != nil {
			return nil, pkgerrors.FromStore(err, "load active items")
		}
		return fromModels(rows), nil
	})
	return out, err
}

// All returns the cached list of every item.
func (s *service) All(ctx context.Context) ([]ItemDTO, error) {
	var out []ItemDTO
	err := s.cache.GetOrCompute(ctx, cache.KeyItemsIndex, 0, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.FromStore(err, "load items")
		}
		return fromModels(rows), nil
	})
	return out, err
}

// Browse filters the cached item list by name/SKU/barcode substring.
func (s *service) Browse(ctx context.Context, filter BrowseFilter) ([]ItemDTO, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemDTO, 0, len(all))
	for _, it := range all {
		if filter.matches(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Get loads one item for the edit form.
func (s *service) Get(ctx context.Context, id int64) (ItemDTO, error) {
	if id <= 0 {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return ItemDTO{}, pkgerrors.FromStore(err, "load item")
	}
	return fromModel(*row), nil
}

// Lookup finds an active item by exact barcode or SKU.
func (s *service) Lookup(ctx context.Context, code string) (ItemDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Enter a barcode or SKU.").
			WithDetails(map[string]any{"field": "code"})
	}
	row, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNoActiveMatch)
		}
		return ItemDTO{}, pkgerrors.FromStore(err, "lookup item")
	}
	return fromModel(*row), nil
}

// LowStock lists active items whose quantity is at or below threshold.
func (s *service) LowStock(ctx context.Context, threshold decimal.Decimal) ([]ItemDTO, error) {
	rows, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "load low stock items")
	}
	return fromModels(rows), nil
}

// RequireActive returns the item when it is in the cached active list.
func (s *service) RequireActive(ctx context.Context, id int64) (ItemDTO, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return ItemDTO{}, err
	}
	for _, it := range active {
		if it.ItemID == id {
			return it, nil
		}
	}
	return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Select an active item.").
		WithDetails(map[string]any{"field": "item_id"})
}

// Create validates and inserts an item, then clears the item caches.
func (s *service) Create(ctx context.Context, input ItemInput) (ItemDTO, error) {
	row, err := normalize(input, models.Item{Active: true})
	if err != nil {
		return ItemDTO{}, err
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return ItemDTO{}, mapWriteError(err, "create item")
	}
	s.invalidate(ctx)
	return fromModel(row), nil
}

// Update validates and rewrites an item, then clears the item caches. Omitted
// fields keep their current values; an explicit blank sku or barcode clears it.
func (s *service) Update(ctx context.Context, id int64, input ItemInput) (ItemDTO, error) {
	if id <= 0 {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	if _, err := normalize(input, models.Item{}); err != nil {
		return ItemDTO{}, err
	}

	var updated models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		row, err := normalize(input, *current)
		if err != nil {
			return err
		}
		row.ItemID = id
		if _, err := repo.Update(ctx, row); err != nil {
			return err
		}
		reloaded, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return ItemDTO{}, typed
		}
		return ItemDTO{}, mapWriteError(err, "update item")
	}
	s.invalidate(ctx)
	return fromModel(updated), nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.ItemKeys...); err != nil && s.logg != nil {
		s.logg.WarnErr(ctx, "item cache invalidation failed", err)
	}
}

// normalize validates input on top of base, which supplies defaults for
// every omitted field.
func normalize(input ItemInput, base models.Item) (models.Item, error) {
	name := strings.TrimSpace(input.ItemName)
	if name == "" {
		return models.Item{}, fieldError(msgItemNameRequired, "item_name")
	}
	qty, err := input.QtyOnHand.Decimal(base.QtyOnHand)
	if err != nil {
		return models.Item{}, fieldError(msgQtyNotNumeric, "qty_on_hand")
	}
	price, err := input.SellPrice.Decimal(base.SellPrice)
	if err != nil {
		return models.Item{}, fieldError(msgPriceNotNumeric, "sell_price")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = base.Unit
	}
	if unit == "" {
		unit = defaultUnit
	}
	sku, barcode := base.SKU, base.Barcode
	if input.SKU != nil {
		sku = nullIfBlank(input.SKU)
	}
	if input.Barcode != nil {
		barcode = nullIfBlank(input.Barcode)
	}
	active := base.Active
	if input.Active != nil {
		active = *input.Active
	}
	return models.Item{
		ItemID:    base.ItemID,
		ItemName:  name,
		SKU:       sku,
		Barcode:   barcode,
		Unit:      unit,
		QtyOnHand: qty,
		SellPrice: price,
		Active:    active,
		CreatedAt: base.CreatedAt,
	}, nil
}

func fieldError(msg, field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{"field": field})
}

func mapWriteError(err error, action string) error {
	if !db.IsUniqueViolation(err, "") {
		return pkgerrors.FromStore(err, action)
	}
	constraint := strings.ToLower(db.UniqueConstraint(err))
	switch {
	case strings.Contains(constraint, "sku"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgSKUTaken).WithDetails(map[string]any{"field": "sku"})
	case strings.Contains(constraint, "barcode"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgBarcodeTaken).WithDetails(map[string]any{"field": "barcode"})
	default:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgNotUnique)
	}
}
