package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDirAcceptsRepositoryMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestCreateSQLMigrationProducesValidFile(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Item Category!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_item_category.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "add item--category")
	require.Error(t, err, "same slug is refused")

	_, err = CreateSQLMigration(dir, "  !!  ")
	require.Error(t, err)
}

func TestSlugTrimsAndCaps(t *testing.T) {
	assert.Equal(t, "sales_by_cashier_idx", slug("  Sales by cashier (idx) "))
	assert.Len(t, slug(strings.Repeat("a", 100)), maxNameLen)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad filename", file: "create_items.sql", content: "-- +goose Up\n-- +goose Down\n"},
		{name: "missing down", file: "20260101000000_items.sql", content: "-- +goose Up\n"},
		{name: "down before up", file: "20260101000000_items.sql", content: "-- +goose Down\n-- +goose Up\n"},
		{name: "unbalanced block", file: "20260101000000_items.sql", content: "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o644))
			require.Error(t, ValidateDir(dir))
		})
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	ok := "-- +goose Up\n-- +goose Down\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_items.sql"), []byte(ok), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_sales.sql"), []byte(ok), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260102000000_items.sql"), []byte("-- +goose Up\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "version 20260101000000 already used")
	assert.Contains(t, msg, `name "items" already used`)
	assert.Contains(t, msg, "missing \"-- +goose Down\"")
}
