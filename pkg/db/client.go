package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/AIforimpact22/bootcampx/pkg/config"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Row is a single result row keyed by column name.
type Row = map[string]any

// FetchMode controls what Execute hands back after the statement runs.
type FetchMode int

const (
	FetchNone FetchMode = iota
	FetchOne
	FetchAll
)

// Result carries the outcome of Execute. Row is nil unless FetchOne matched.
type Result struct {
	RowsAffected int64
	Row          Row
	Rows         []Row
}

// Client wraps the shared GORM connection.
type Client struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a GORM client using the provided configuration. Connections are
// opened lazily by the pool; New does not dial.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("database DSN is required")
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	})

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	gormCfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}

	applyPoolSettings(sqlDB, cfg)

	if logg != nil {
		logg.Info(ctx, "database pool initialised")
	}

	return &Client{conn: conn}, nil
}

// NewFromGorm wraps an existing gorm handle, typically an in-memory store in tests.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Query runs a read statement and returns every row. The pooled connection is
// released regardless of outcome.
func (c *Client) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows := make([]Row, 0)
	if err := c.conn.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return derefRows(rows), nil
}

// derefRows unwraps the *any holders GORM leaves for untyped columns so callers
// always see plain values.
func derefRows(rows []Row) []Row {
	for _, row := range rows {
		for k, v := range row {
			if p, ok := v.(*any); ok {
				if p == nil {
					row[k] = nil
					continue
				}
				row[k] = *p
			}
		}
	}
	return rows
}

// Execute runs one statement inside its own transaction. The statement error is
// returned unchanged after rollback.
func (c *Client) Execute(ctx context.Context, query string, args []any, mode FetchMode) (Result, error) {
	var result Result
	err := c.WithTx(ctx, func(tx *gorm.DB) error {
		if mode == FetchNone {
			res := tx.Exec(query, args...)
			if res.Error != nil {
				return res.Error
			}
			result.RowsAffected = res.RowsAffected
			return nil
		}

		rows := make([]Row, 0)
		res := tx.Raw(query, args...).Scan(&rows)
		if res.Error != nil {
			return res.Error
		}
		result.RowsAffected = res.RowsAffected
		rows = derefRows(rows)
		switch mode {
		case FetchOne:
			if len(rows) > 0 {
				result.Row = rows[0]
			}
		case FetchAll:
			result.Rows = rows
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Exec wraps GORM's Exec with context propagation.
func (c *Client) Exec(ctx context.Context, query string, args ...any) *gorm.DB {
	return c.conn.WithContext(ctx).Exec(query, args...)
}

// Raw wraps GORM's Raw with context propagation.
func (c *Client) Raw(ctx context.Context, query string, args ...any) *gorm.DB {
	return c.conn.WithContext(ctx).Raw(query, args...)
}

// WithTx executes fn inside a transaction, rolling back on error/panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
