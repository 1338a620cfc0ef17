package sales

import (
	"context"
	"errors"
	"time"

	"github.com/AIforimpact22/bootcampx/internal/cashiers"
	"github.com/AIforimpact22/bootcampx/internal/possession"
	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/AIforimpact22/bootcampx/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgQtyInvalid      = "Quantity must be a positive number."
	msgSelectCashier   = "Select a cashier."
	msgSelectItem      = "Select an item."
	msgItemUnavailable = "Selected item is not active or no longer exists."
	msgRejectedPrefix  = "Sale rejected: "
	msgRangeInverted   = "Start date must be on or before end date."

	defaultReportDays = 7
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type activeCashiers interface {
	RequireActive(ctx context.Context, id int64) (cashiers.CashierDTO, error)
}

// ServiceParams groups dependencies for the sales service.
type ServiceParams struct {
	Repo       *Repository
	Tx         txRunner
	Cashiers   activeCashiers
	Cache      *cache.Cache
	Metrics    *metrics.POSMetrics
	Logger     *logger.Logger
	Location   *time.Location
	ReportDays int
	Now        func() time.Time
}

// Service runs the sell transaction and the sales report.
type Service interface {
	Sell(ctx context.Context, sess *possession.Session, input SellInput) (Receipt, error)
	Report(ctx context.Context, filter ReportFilter) (Report, error)
}

type service struct {
	repo       *Repository
	tx         txRunner
	cashiers   activeCashiers
	cache      *cache.Cache
	metrics    *metrics.POSMetrics
	logg       *logger.Logger
	loc        *time.Location
	reportDays int
	now        func() time.Time
}

// NewService builds a sales service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Cashiers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier service is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cache is required")
	}
	svc := &service{
		repo:       params.Repo,
		tx:         params.Tx,
		cashiers:   params.Cashiers,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logg:       params.Logger,
		loc:        params.Location,
		reportDays: params.ReportDays,
		now:        params.Now,
	}
	if svc.loc == nil {
		svc.loc = time.Local
	}
	if svc.reportDays <= 0 {
		svc.reportDays = defaultReportDays
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Sell validates the quantity and selection, then inserts the sale in one
// transaction using the item's price as read inside that transaction.
func (s *service) Sell(ctx context.Context, sess *possession.Session, input SellInput) (Receipt, error) {
	if sess == nil {
		sess = possession.NewSession("")
	}

	qty, err := input.Qty.Decimal(decimal.Zero)
	if err != nil || !qty.IsPositive() {
		s.metrics.IncRejected("invalid_qty")
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, msgQtyInvalid).
			WithDetails(map[string]any{"field": "qty"})
	}

	if input.CashierID != nil {
		if err := sess.SelectCashier(*input.CashierID); err != nil {
			return Receipt{}, err
		}
	}
	if input.ItemID != nil {
		if err := sess.SelectItem(*input.ItemID); err != nil {
			return Receipt{}, err
		}
	}
	if sess.CashierID == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, msgSelectCashier).
			WithDetails(map[string]any{"field": "cashier_id"})
	}
	if sess.ItemID == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, msgSelectItem).
			WithDetails(map[string]any{"field": "item_id"})
	}
	if _, err := s.cashiers.RequireActive(ctx, *sess.CashierID); err != nil {
		return Receipt{}, err
	}
	if err := sess.EnterQuantity(qty); err != nil {
		return Receipt{}, err
	}
	if err := sess.Submit(); err != nil {
		return Receipt{}, err
	}

	cashierID, itemID := *sess.CashierID, *sess.ItemID
	if s.logg != nil {
		ctx = s.logg.WithCashierID(ctx, cashierID)
	}

	start := time.Now()
	var receipt Receipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		price, err := repo.ActivePrice(ctx, itemID)
		if err != nil {
			return err
		}
		saleID, err := repo.InsertSale(ctx, cashierID, itemID, qty, price)
		if err != nil {
			return err
		}
		receipt, err = repo.Receipt(ctx, saleID)
		return err
	})
	if err != nil {
		typed, reason := classifySellError(err)
		s.metrics.ObserveSale("rejected", time.Since(start))
		s.metrics.IncRejected(reason)
		_ = sess.Reject(typed.Message())
		return Receipt{}, typed
	}
	s.metrics.ObserveSale("committed", time.Since(start))
	s.metrics.IncSale()

	if err := s.cache.Invalidate(ctx, cache.ItemKeys...); err != nil && s.logg != nil {
		s.logg.WarnErr(ctx, "item cache invalidation after sale failed", err)
	}
	if err := sess.Commit(receipt.SaleID); err != nil {
		return Receipt{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "sale_id", receipt.SaleID), "sale committed")
	}
	return receipt, nil
}

func classifySellError(err error) (*pkgerrors.Error, string) {
	switch {
	case errors.Is(err, ErrItemUnavailable):
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, msgItemUnavailable), "inactive_item"
	case db.IsRaiseException(err), db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeRejected, err, msgRejectedPrefix+db.StoreMessage(err)).
			WithDetails(pkgerrors.Dump(err)), "store_rule"
	default:
		return pkgerrors.FromStore(err, "sell transaction failed"), "error"
	}
}

// Report resolves the date range, loads the rows and totals them.
func (s *service) Report(ctx context.Context, filter ReportFilter) (Report, error) {
	startDay, endDay, err := s.resolveRange(filter.Start, filter.End)
	if err != nil {
		return Report{}, err
	}

	rows, err := s.repo.ListReport(ctx, startDay, endDay.AddDate(0, 0, 1), filter.CashierID, filter.Item)
	if err != nil {
		return Report{}, pkgerrors.FromStore(err, "load sales report")
	}

	report := Report{
		Start:        startDay.Format(dateLayout),
		End:          endDay.Format(dateLayout),
		CashierID:    filter.CashierID,
		Item:         filter.Item,
		Rows:         rows,
		Count:        len(rows),
		TotalQty:     decimal.Zero,
		TotalRevenue: decimal.Zero,
	}
	for _, row := range rows {
		report.TotalQty = report.TotalQty.Add(row.Qty)
		report.TotalRevenue = report.TotalRevenue.Add(row.LineTotal)
	}
	return report, nil
}

func (s *service) resolveRange(start, end string) (time.Time, time.Time, error) {
	now := s.now().In(s.loc)
	endDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if end != "" {
		parsed, err := time.ParseInLocation(dateLayout, end, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, dateError("end")
		}
		endDay = parsed
	}
	startDay := endDay.AddDate(0, 0, -(s.reportDays - 1))
	if start != "" {
		parsed, err := time.ParseInLocation(dateLayout, start, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, dateError("start")
		}
		startDay = parsed
	}
	if startDay.After(endDay) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, msgRangeInverted).
			WithDetails(map[string]any{"field": "start"})
	}
	return startDay, endDay, nil
}

func dateError(field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, field+" must be a date in YYYY-MM-DD format").
		WithDetails(map[string]any{"field": field})
}
