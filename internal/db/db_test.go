package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SQLiteMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.db")

	for i := 0; i < 2; i++ {
		database, err := New(Config{Driver: DriverSQLite, Path: path})
		require.NoError(t, err)
		require.NoError(t, database.Migrate(ctx))
		require.NoError(t, database.Migrate(ctx))
		require.NoError(t, database.Close())
	}

	database, err := New(Config{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"customers", "products", "orders", "order_products"} {
		var name string
		err := database.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}

	assert.NoError(t, database.Health(ctx))
	assert.Equal(t, DriverSQLite, database.Driver())
	assert.Nil(t, database.TxOptions())
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	pg := Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=crm sslmode=disable", pg.DSN())

	lite := Config{Driver: DriverSQLite, Path: "/tmp/crm.db"}
	assert.Equal(t, "/tmp/crm.db", lite.DSN())
}
