package items

import (
	"context"
	"testing"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/db/dbtest"
	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client, *cache.Cache) {
	t.Helper()
	client := dbtest.Open(t)
	c := cache.New(cache.Options{})
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(client.DB()),
		Tx:    client,
		Cache: c,
	})
	require.NoError(t, err)
	return svc, client, c
}

func countItems(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, client.DB().Model(&models.Item{}).Count(&n).Error)
	return n
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), typed.Error())
	return typed
}

func milk() ItemInput {
	return ItemInput{
		ItemName:  "Milk 1L",
		SKU:       dbtest.Str("SKU1"),
		Barcode:   dbtest.Str("000111"),
		Unit:      "pcs",
		QtyOnHand: types.Text("10"),
		SellPrice: types.Text("2.50"),
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), ItemInput{
		ItemName: "  Bread ",
		SKU:      dbtest.Str(" "),
		Barcode:  dbtest.Str(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bread", created.ItemName)
	assert.Equal(t, "pcs", created.Unit)
	assert.Nil(t, created.SKU)
	assert.Nil(t, created.Barcode)
	assert.True(t, created.QtyOnHand.IsZero())
	assert.True(t, created.SellPrice.IsZero())
	assert.True(t, created.Active)
}

func TestCreateValidationNeverReachesStore(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ItemInput
		msg   string
		field string
	}{
		{name: "blank name", input: ItemInput{ItemName: "   "}, msg: msgItemNameRequired, field: "item_name"},
		{name: "bad qty", input: ItemInput{ItemName: "Tea", QtyOnHand: types.Text("ten")}, msg: msgQtyNotNumeric, field: "qty_on_hand"},
		{name: "bad price", input: ItemInput{ItemName: "Tea", SellPrice: types.Text("1,50")}, msg: msgPriceNotNumeric, field: "sell_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			typed := requireCode(t, err, pkgerrors.CodeValidation)
			assert.Equal(t, tc.msg, typed.Message())
			assert.Equal(t, map[string]any{"field": tc.field}, typed.Details())
		})
	}
	assert.Zero(t, countItems(t, client))
}

func TestDuplicateSKUAndBarcodeAreFieldSpecificConflicts(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, milk())
	require.NoError(t, err)

	dupSKU := milk()
	dupSKU.Barcode = dbtest.Str("999")
	_, err = svc.Create(ctx, dupSKU)
	typed := requireCode(t, err, pkgerrors.CodeConflict)
	assert.Equal(t, msgSKUTaken, typed.Message())

	dupBarcode := milk()
	dupBarcode.SKU = dbtest.Str("SKU2")
	_, err = svc.Create(ctx, dupBarcode)
	typed = requireCode(t, err, pkgerrors.CodeConflict)
	assert.Equal(t, msgBarcodeTaken, typed.Message())

	assert.EqualValues(t, 1, countItems(t, client))
}

func TestUpdateConflictLeavesRowUnchanged(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, milk())
	require.NoError(t, err)
	bread, err := svc.Create(ctx, ItemInput{ItemName: "Bread", SKU: dbtest.Str("SKU9")})
	require.NoError(t, err)

	edit := ItemInput{ItemName: "Bread", SKU: dbtest.Str("SKU1")}
	_, err = svc.Update(ctx, bread.ItemID, edit)
	requireCode(t, err, pkgerrors.CodeConflict)

	reloaded, err := svc.Get(ctx, bread.ItemID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.SKU)
	assert.Equal(t, "SKU9", *reloaded.SKU)
}

func TestUpdateKeepsOmittedNumbersAndInvalidatesCache(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, milk())
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	inactive := false
	updated, err := svc.Update(ctx, created.ItemID, ItemInput{
		ItemName:  "Milk 1L",
		SKU:       dbtest.Str("SKU1"),
		Barcode:   dbtest.Str("000111"),
		SellPrice: types.Text("3.00"),
		Active:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "3.00", updated.SellPrice.StringFixed(2))
	assert.True(t, updated.QtyOnHand.Equal(decimal.NewFromInt(10)))
	assert.False(t, updated.Active)

	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdateKeepsOmittedCodesAndUnit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := milk()
	input.Unit = "bottle"
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, created.ItemID, ItemInput{ItemName: "Whole Milk 1L"})
	require.NoError(t, err)
	assert.Equal(t, "Whole Milk 1L", renamed.ItemName)
	require.NotNil(t, renamed.SKU)
	assert.Equal(t, "SKU1", *renamed.SKU)
	require.NotNil(t, renamed.Barcode)
	assert.Equal(t, "000111", *renamed.Barcode)
	assert.Equal(t, "bottle", renamed.Unit)
	assert.Equal(t, "2.50", renamed.SellPrice.StringFixed(2))
	assert.True(t, renamed.Active)

	cleared, err := svc.Update(ctx, created.ItemID, ItemInput{ItemName: "Whole Milk 1L", SKU: dbtest.Str("  ")})
	require.NoError(t, err)
	assert.Nil(t, cleared.SKU, "an explicit blank sku clears it")
	require.NotNil(t, cleared.Barcode)
	assert.Equal(t, "000111", *cleared.Barcode)
}

func TestUpdateMissingItemIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Update(context.Background(), 404, ItemInput{ItemName: "Ghost"})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestLookupMatchesExactCodeAmongActiveItems(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	dbtest.SeedItem(t, client, models.Item{ItemName: "Milk 1L", SKU: dbtest.Str("SKU1"), Barcode: dbtest.Str("000111"), Active: true})
	dbtest.SeedItem(t, client, models.Item{ItemName: "Old Tea", SKU: dbtest.Str("TEA"), Active: false})

	byBarcode, err := svc.Lookup(ctx, " 000111 ")
	require.NoError(t, err)
	assert.Equal(t, "Milk 1L", byBarcode.ItemName)

	bySKU, err := svc.Lookup(ctx, "SKU1")
	require.NoError(t, err)
	assert.Equal(t, byBarcode.ItemID, bySKU.ItemID)

	_, err = svc.Lookup(ctx, "TEA")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Lookup(ctx, "00011")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Lookup(ctx, "")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestLowStockOrdersByQuantity(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	dbtest.SeedItem(t, client, models.Item{ItemName: "Eggs", QtyOnHand: decimal.NewFromInt(4), Active: true})
	dbtest.SeedItem(t, client, models.Item{ItemName: "Butter", QtyOnHand: decimal.NewFromInt(-2), Active: true})
	dbtest.SeedItem(t, client, models.Item{ItemName: "Rice", QtyOnHand: decimal.NewFromInt(50), Active: true})
	dbtest.SeedItem(t, client, models.Item{ItemName: "Jam", QtyOnHand: decimal.NewFromInt(1), Active: false})
	dbtest.SeedItem(t, client, models.Item{ItemName: "Apples", QtyOnHand: decimal.NewFromInt(5), Active: true})

	low, err := svc.LowStock(ctx, decimal.NewFromInt(5))
	require.NoError(t, err)
	names := make([]string, 0, len(low))
	for _, it := range low {
		names = append(names, it.ItemName)
	}
	assert.Equal(t, []string{"Butter", "Eggs", "Apples"}, names)
}

func TestBrowseAndRequireActive(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	milkRow := dbtest.SeedItem(t, client, models.Item{ItemName: "Milk 1L", SKU: dbtest.Str("SKU1"), Barcode: dbtest.Str("000111"), Active: true})
	teaRow := dbtest.SeedItem(t, client, models.Item{ItemName: "Green Tea", SKU: dbtest.Str("TEA-1"), Active: false})

	got, err := svc.Browse(ctx, BrowseFilter{Query: "tea"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, teaRow.ItemID, got[0].ItemID)

	got, err = svc.Browse(ctx, BrowseFilter{Query: "0001", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, milkRow.ItemID, got[0].ItemID)

	_, err = svc.RequireActive(ctx, milkRow.ItemID)
	require.NoError(t, err)
	_, err = svc.RequireActive(ctx, teaRow.ItemID)
	requireCode(t, err, pkgerrors.CodeValidation)
}
