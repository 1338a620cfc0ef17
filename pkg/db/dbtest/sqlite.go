// Package dbtest opens throwaway in-memory stores that mirror the production
// schema closely enough for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE cashiers (
  cashier_id INTEGER PRIMARY KEY AUTOINCREMENT,
  full_name TEXT NOT NULL,
  username TEXT NULL CONSTRAINT cashiers_username_key UNIQUE,
  active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE items (
  item_id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_name TEXT NOT NULL,
  sku TEXT NULL CONSTRAINT items_sku_key UNIQUE,
  barcode TEXT NULL CONSTRAINT items_barcode_key UNIQUE,
  unit TEXT NOT NULL DEFAULT 'pcs',
  qty_on_hand NUMERIC NOT NULL DEFAULT 0,
  sell_price NUMERIC NOT NULL DEFAULT 0,
  active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE sales (
  sale_id INTEGER PRIMARY KEY AUTOINCREMENT,
  sold_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  cashier_id INTEGER NOT NULL REFERENCES cashiers(cashier_id),
  item_id INTEGER NOT NULL REFERENCES items(item_id),
  qty NUMERIC NOT NULL CONSTRAINT sales_qty_check CHECK (qty > 0),
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC GENERATED ALWAYS AS (qty * unit_price) STORED
)`

var seq atomic.Int64

// Open returns a client over a fresh in-memory database with the POS schema applied.
func Open(t testing.TB) *db.Client {
	t.Helper()
	name := fmt.Sprintf("bx_%d_%d", time.Now().UnixNano(), seq.Add(1))
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db.NewFromGorm(conn)
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Dec parses a decimal literal or fails the test.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// SeedCashier inserts a cashier row.
func SeedCashier(t testing.TB, client *db.Client, fullName string, username *string, active bool) models.Cashier {
	t.Helper()
	c := models.Cashier{FullName: fullName, Username: username, Active: active}
	if err := client.DB().Create(&c).Error; err != nil {
		t.Fatalf("seed cashier: %v", err)
	}
	return c
}

// SeedItem inserts an item row.
func SeedItem(t testing.TB, client *db.Client, item models.Item) models.Item {
	t.Helper()
	if item.Unit == "" {
		item.Unit = "pcs"
	}
	if err := client.DB().Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

// SeedSale inserts a sale with an explicit timestamp.
func SeedSale(t testing.TB, client *db.Client, cashierID, itemID int64, qty, unitPrice decimal.Decimal, soldAt time.Time) int64 {
	t.Helper()
	sale := models.Sale{SoldAt: soldAt.UTC(), CashierID: cashierID, ItemID: itemID, Qty: qty, UnitPrice: unitPrice}
	if err := client.DB().Omit("line_total").Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return sale.SaleID
}
