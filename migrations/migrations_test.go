package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(files, "sql/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(files, down)
		assert.NoError(t, err, "missing rollback for %s", up)
	}
}

func TestInitialMigrationCreatesEveryTable(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000001_create_tables.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"team_members", "projects", "roles", "allocations", "admin_users"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, string(body), "idx_admin_users_username")
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	err := Down("postgres://unused", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}
