package database

import (
	"classroom_portal/internal/config"
	"classroom_portal/internal/model"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBSqlite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:          "sqlite",
		DBName:          filepath.Join(t.TempDir(), "portal.db"),
		MaxOpenConns:    3,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	db, err := InitDB(cfg, "release")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db))
	require.NoError(t, db.Create(&model.User{Name: "Amara", Email: "amara@example.com", Role: model.Student}).Error)
	err = db.Create(&model.User{Name: "Copy", Email: "amara@example.com", Role: model.Student}).Error
	assert.Error(t, err, "email is unique")
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "mysql", "postgres", "sqlite"} {
		d, err := dialector(&config.DatabaseConfig{Driver: driver, DBName: "portal"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}
