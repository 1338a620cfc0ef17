package dashboard

import (
	"context"
	"time"

	"github.com/AIforimpact22/bootcampx/internal/items"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	TrendDays    = 30
	TopItemLimit = 10

	dayLayout = "2006-01-02"

	msgNotConfigured = "DATABASE_URL is not set."
	msgConnected     = "Connected to the database."
)

// DefaultLowStockThreshold applies when the caller passes none.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

type lowStockLister interface {
	LowStock(ctx context.Context, threshold decimal.Decimal) ([]items.ItemDTO, error)
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Repo     *Repository
	Items    lowStockLister
	Logger   *logger.Logger
	Location *time.Location
	Now      func() time.Time
}

// Service builds the dashboard summary.
type Service interface {
	Summary(ctx context.Context, threshold decimal.Decimal) (Summary, error)
}

type service struct {
	repo  *Repository
	items lowStockLister
	logg  *logger.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dashboard repo is required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item service is required")
	}
	svc := &service{
		repo:  params.Repo,
		items: params.Items,
		logg:  params.Logger,
		loc:   params.Location,
		now:   params.Now,
	}
	if svc.loc == nil {
		svc.loc = time.Local
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Summary(ctx context.Context, threshold decimal.Decimal) (Summary, error) {
	if threshold.IsNegative() {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold must be zero or greater").
			WithDetails(map[string]any{"field": "low_stock_threshold"})
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	kpis, err := s.repo.KPIs(ctx, today, tomorrow, monthStart)
	if err != nil {
		return Summary{}, pkgerrors.FromStore(err, "load dashboard kpis")
	}
	top, err := s.repo.TopItems(ctx, monthStart, TopItemLimit)
	if err != nil {
		return Summary{}, pkgerrors.FromStore(err, "load top items")
	}
	if top == nil {
		top = []ItemRevenue{}
	}

	// Day starts are built in the report zone so DST days keep their length.
	bounds := make([]time.Time, 0, TrendDays+1)
	for i := TrendDays - 1; i >= -1; i-- {
		bounds = append(bounds, time.Date(today.Year(), today.Month(), today.Day()-i, 0, 0, 0, 0, s.loc))
	}
	buckets, err := s.repo.RevenueByDay(ctx, bounds)
	if err != nil {
		return Summary{}, pkgerrors.FromStore(err, "load sales trend")
	}

	lowStock, err := s.items.LowStock(ctx, threshold)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		KPIs: KPIs{
			SalesToday:        kpis.SalesToday,
			SalesMonth:        kpis.SalesMonth,
			TransactionsToday: int(kpis.TransactionsToday),
		},
		LowStockThreshold: threshold,
		LowStock:          lowStock,
		TopItems:          top,
		Trend:             make([]DayRevenue, 0, len(buckets)),
	}
	for _, b := range buckets {
		if b.Bucket < 0 || b.Bucket >= TrendDays {
			continue
		}
		summary.Trend = append(summary.Trend, DayRevenue{Day: bounds[b.Bucket].Format(dayLayout), Revenue: b.Revenue})
	}
	return summary, nil
}

// CheckStatus reports whether a store is configured and answers a trivial query.
// A nil client means no connection string was found.
func CheckStatus(ctx context.Context, client *db.Client) Status {
	if client == nil {
		return Status{Message: msgNotConfigured}
	}
	status := Status{Configured: true}
	rows, err := client.Query(ctx, "SELECT 1 AS ok")
	if err != nil {
		status.Message = err.Error()
		return status
	}
	if len(rows) == 0 {
		status.Message = "connectivity probe returned no rows"
		return status
	}
	status.Connected = true
	status.Message = msgConnected
	return status
}
