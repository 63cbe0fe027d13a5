package migrate

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verrloren/hackathon-evrz/internal/db"
)

func TestRun_RejectsBadArguments(t *testing.T) {
	assert.EqualError(t, Run("", Up), "DATABASE_URL is not set")
	assert.EqualError(t, Run("postgres://localhost/x", "sideways"), `direction must be up or down, got "sideways"`)
}

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	source, err := iofs.New(db.MigrationFS, "migrations")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := source.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}
