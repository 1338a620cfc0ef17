package cashiers

import (
	"context"
	"testing"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/db/dbtest"
	"github.com/AIforimpact22/bootcampx/pkg/db/models"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(client.DB()),
		Tx:    client,
		Cache: cache.New(cache.Options{}),
	})
	require.NoError(t, err)
	return svc, client
}

func countCashiers(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, client.DB().Model(&models.Cashier{}).Count(&n).Error)
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

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := dbtest.Open(t)
	_, err := NewService(ServiceParams{Tx: client, Cache: cache.New(cache.Options{})})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(client.DB()), Cache: cache.New(cache.Options{})})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(client.DB()), Tx: client})
	require.Error(t, err)
}

func TestCreateNormalizesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CashierInput{FullName: "  Alex  ", Username: dbtest.Str(" alex01 ")})
	require.NoError(t, err)
	assert.NotZero(t, created.CashierID)
	assert.Equal(t, "Alex", created.FullName)
	require.NotNil(t, created.Username)
	assert.Equal(t, "alex01", *created.Username)
	assert.True(t, created.Active)

	blank, err := svc.Create(ctx, CashierInput{FullName: "Sam", Username: dbtest.Str("   ")})
	require.NoError(t, err)
	assert.Nil(t, blank.Username)
}

func TestCreateRejectsBlankNameWithoutTouchingStore(t *testing.T) {
	svc, client := newTestService(t)

	typed := requireCode(t, mustErr(svc.Create(context.Background(), CashierInput{FullName: "   "})), pkgerrors.CodeValidation)
	assert.Equal(t, msgFullNameRequired, typed.Message())
	assert.Zero(t, countCashiers(t, client))
}

func TestDuplicateUsernameIsConflictAndLeavesExistingRow(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CashierInput{FullName: "Alex", Username: dbtest.Str("alex01")})
	require.NoError(t, err)

	typed := requireCode(t, mustErr(svc.Create(ctx, CashierInput{FullName: "Alexa", Username: dbtest.Str("alex01")})), pkgerrors.CodeConflict)
	assert.Equal(t, msgUsernameTaken, typed.Message())
	assert.Equal(t, map[string]any{"field": "username"}, typed.Details())
	assert.EqualValues(t, 1, countCashiers(t, client))

	existing, err := svc.Get(ctx, first.CashierID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", existing.FullName)
}

func TestUpdateInvalidatesCachedAccessors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alex, err := svc.Create(ctx, CashierInput{FullName: "Alex", Username: dbtest.Str("alex01")})
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	inactive := false
	updated, err := svc.Update(ctx, alex.CashierID, CashierInput{FullName: "Alex B", Username: dbtest.Str("alex01"), Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Alex B", updated.FullName)
	assert.False(t, updated.Active)

	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alex B", all[0].FullName)

	requireCode(t, mustErr(svc.RequireActive(ctx, alex.CashierID)), pkgerrors.CodeValidation)
}

func TestUpdateKeepsActiveFlagWhenOmitted(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	c := dbtest.SeedCashier(t, client, "Jo", nil, false)

	updated, err := svc.Update(ctx, c.CashierID, CashierInput{FullName: "Jo K"})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestUpdateMissingCashierIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	requireCode(t, mustErr(svc.Update(context.Background(), 999, CashierInput{FullName: "Nobody"})), pkgerrors.CodeNotFound)
	requireCode(t, mustErr(svc.Get(context.Background(), 999)), pkgerrors.CodeNotFound)
}

func TestBrowseFiltersByNameOrUsername(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	dbtest.SeedCashier(t, client, "Alex Smith", dbtest.Str("alex01"), true)
	dbtest.SeedCashier(t, client, "Bea Jones", dbtest.Str("bjones"), false)
	dbtest.SeedCashier(t, client, "Carl", nil, true)

	got, err := svc.Browse(ctx, BrowseFilter{Query: "JONES"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bea Jones", got[0].FullName)

	got, err = svc.Browse(ctx, BrowseFilter{Query: "alex0"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.Browse(ctx, BrowseFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alex Smith", got[0].FullName)
	assert.Equal(t, "Carl", got[1].FullName)
}

func mustErr[T any](_ T, err error) error {
	return err
}
