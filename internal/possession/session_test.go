package possession

import (
	"context"
	"testing"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyPathTransitions(t *testing.T) {
	s := NewSession("abc")
	require.Equal(t, StateIdle, s.State)

	require.NoError(t, s.SelectCashier(1))
	require.NoError(t, s.SelectItem(7))
	assert.Equal(t, StateItemSelected, s.State)

	require.NoError(t, s.EnterQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, StateQuantityEntered, s.State)

	require.NoError(t, s.Submit())
	assert.Equal(t, StateSubmitted, s.State)

	require.NoError(t, s.Commit(42))
	assert.Equal(t, StateCommitted, s.State)
	require.NotNil(t, s.LastSaleID)
	assert.EqualValues(t, 42, *s.LastSaleID)
	assert.Nil(t, s.Quantity)
	require.NotNil(t, s.ItemID)
	assert.EqualValues(t, 7, *s.ItemID, "item is remembered for the next sale")

	require.NoError(t, s.EnterQuantity(decimal.RequireFromString("0.5")))
	assert.Equal(t, StateQuantityEntered, s.State)
}

func TestInvalidTransitionsReturnStateConflict(t *testing.T) {
	s := NewSession("abc")

	assertCode(t, s.EnterQuantity(decimal.NewFromInt(1)), pkgerrors.CodeStateConflict)
	assertCode(t, s.Submit(), pkgerrors.CodeStateConflict)
	assertCode(t, s.Commit(1), pkgerrors.CodeStateConflict)
	assertCode(t, s.Reject("nope"), pkgerrors.CodeStateConflict)

	require.NoError(t, s.SelectCashier(1))
	require.NoError(t, s.SelectItem(2))
	require.NoError(t, s.EnterQuantity(decimal.NewFromInt(1)))
	require.NoError(t, s.Submit())

	assertCode(t, s.SelectItem(3), pkgerrors.CodeStateConflict)
	assertCode(t, s.SelectCashier(2), pkgerrors.CodeStateConflict)

	require.NoError(t, s.Reject("stock guard"))
	assert.Equal(t, StateRejected, s.State)
	assert.Equal(t, "stock guard", s.LastError)
}

func TestEnterQuantityRejectsNonPositive(t *testing.T) {
	s := NewSession("abc")
	require.NoError(t, s.SelectItem(2))

	for _, q := range []string{"0", "-1", "-0.001"} {
		err := s.EnterQuantity(decimal.RequireFromString(q))
		assertCode(t, err, pkgerrors.CodeValidation)
	}
	assert.Equal(t, StateItemSelected, s.State)
	assert.Nil(t, s.Quantity)
}

func TestSubmitRequiresCashier(t *testing.T) {
	s := NewSession("abc")
	require.NoError(t, s.SelectItem(2))
	require.NoError(t, s.EnterQuantity(decimal.NewFromInt(1)))

	assertCode(t, s.Submit(), pkgerrors.CodeValidation)
	assert.Equal(t, StateQuantityEntered, s.State)
}

func TestStoreRoundTripAndSlidingTTL(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryStore()
	store := NewStore(backend, time.Hour)
	id := NewID()
	require.True(t, ValidID(id))
	require.False(t, ValidID("not-a-session"))

	sess, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)

	require.NoError(t, sess.SelectCashier(5))
	require.NoError(t, sess.SelectItem(9))
	require.NoError(t, sess.EnterQuantity(decimal.RequireFromString("2.5")))
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateQuantityEntered, loaded.State)
	require.NotNil(t, loaded.Quantity)
	assert.True(t, loaded.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.EqualValues(t, 5, *loaded.CashierID)
	assert.False(t, loaded.UpdatedAt.IsZero())

	raw, err := backend.Get(ctx, "possession:"+id)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"state":"quantity_entered"`)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
