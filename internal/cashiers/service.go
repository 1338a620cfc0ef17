package cashiers

import (
	"context"
	"errors"
	"strings"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"gorm.io/gorm"
)

const (
	msgFullNameRequired = "Full name is required."
	msgUsernameTaken    = "Username already exists."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the cashier service.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Cache  *cache.Cache
	Logger *logger.Logger
}

// Service exposes cashier browse/add/edit and the cached accessors.
type Service interface {
	Active(ctx context.Context) ([]CashierDTO, error)
	All(ctx context.Context) ([]CashierDTO, error)
	Browse(ctx context.Context, filter BrowseFilter) ([]CashierDTO, error)
	Get(ctx context.Context, id int64) (CashierDTO, error)
	Create(ctx context.Context, input CashierInput) (CashierDTO, error)
	Update(ctx context.Context, id int64, input CashierInput) (CashierDTO, error)
	RequireActive(ctx context.Context, id int64) (CashierDTO, error)
}

type service struct {
	repo  *Repository
	tx    txRunner
	cache *cache.Cache
	logg  *logger.Logger
}

// NewService builds a cashier service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier repo is required")
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

// Active returns the cached list of active cashiers.
func (s *service) Active(ctx context.Context) ([]CashierDTO, error) {
	var out []CashierDTO
	err := s.cache.GetOrCompute(ctx, cache.KeyCashiersActive, 0, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.ListActive(ctx)
		if err != nil {
			return nil, pkgerrors.FromStore(err, "load active cashiers")
		}
		return fromModels(rows), nil
	})
	return out, err
}

// All returns the cached list of every cashier.
func (s *service) All(ctx context.Context) ([]CashierDTO, error) {
	var out []CashierDTO
	err := s.cache.GetOrCompute(ctx, cache.KeyCashiersIndex, 0, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.FromStore(err, "load cashiers")
		}
		return fromModels(rows), nil
	})
	return out, err
}

// Browse filters the cached cashier list by name/username substring.
func (s *service) Browse(ctx context.Context, filter BrowseFilter) ([]CashierDTO, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CashierDTO, 0, len(all))
	for _, c := range all {
		if filter.matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get loads one cashier for the edit form.
func (s *service) Get(ctx context.Context, id int64) (CashierDTO, error) {
	if id <= 0 {
		return CashierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cashier id must be positive")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CashierDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cashier not found")
		}
		return CashierDTO{}, pkgerrors.FromStore(err, "load cashier")
	}
	return fromModel(*row), nil
}

// RequireActive returns the cashier when it is one of the active cashiers.
func (s *service) RequireActive(ctx context.Context, id int64) (CashierDTO, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return CashierDTO{}, err
	}
	for _, c := range active {
		if c.CashierID == id {
			return c, nil
		}
	}
	return CashierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Select an active cashier.").
		WithDetails(map[string]any{"field": "cashier_id"})
}

// Create validates and inserts a cashier, then clears the cashier caches.
func (s *service) Create(ctx context.Context, input CashierInput) (CashierDTO, error) {
	fullName, username, err := normalize(input)
	if err != nil {
		return CashierDTO{}, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	row := models.Cashier{FullName: fullName, Username: username, Active: active}
	if err := s.repo.Create(ctx, &row); err != nil {
		return CashierDTO{}, mapWriteError(err, "create cashier")
	}
	s.invalidate(ctx)
	return fromModel(row), nil
}

// Update validates and rewrites a cashier, then clears the cashier caches.
func (s *service) Update(ctx context.Context, id int64, input CashierInput) (CashierDTO, error) {
	if id <= 0 {
		return CashierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cashier id must be positive")
	}
	fullName, username, err := normalize(input)
	if err != nil {
		return CashierDTO{}, err
	}

	var updated models.Cashier
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		active := current.Active
		if input.Active != nil {
			active = *input.Active
		}
		if _, err := repo.Update(ctx, id, fullName, username, active); err != nil {
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
			return CashierDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cashier not found")
		}
		return CashierDTO{}, mapWriteError(err, "update cashier")
	}
	s.invalidate(ctx)
	return fromModel(updated), nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.CashierKeys...); err != nil && s.logg != nil {
		s.logg.WarnErr(ctx, "cashier cache invalidation failed", err)
	}
}

func normalize(input CashierInput) (string, *string, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, msgFullNameRequired).
			WithDetails(map[string]any{"field": "full_name"})
	}
	return fullName, nullIfBlank(input.Username), nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgUsernameTaken).
			WithDetails(map[string]any{"field": "username"})
	}
	return pkgerrors.FromStore(err, action)
}
