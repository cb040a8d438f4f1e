package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Customer Balance Index")
	require.NoError(t, err)

	assert.Equal(t, "add_customer_balance_index", mf.Name)
	assert.Len(t, mf.Version, 14)

	for _, path := range []string{mf.UpPath, mf.DownPath} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "-- add_customer_balance_index"))
	}

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))
}

func TestCreateMigrationCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "init")
	require.NoError(t, err)

	_, err = os.Stat(mf.UpPath)
	assert.NoError(t, err)
}

func TestCreateMigrationRejectsUnusableName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_users_table", sanitizeName("Add Users-Table"))
	assert.Equal(t, "v2_schema", sanitizeName("  v2 schema!  "))
	assert.Equal(t, "", sanitizeName("???"))
}
