package config

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 480, cfg.JWT.AccessTokenMins)
	assert.Equal(t, "5 0 * * *", cfg.Sweep.Cron)
	assert.Equal(t, "admin", cfg.Seed.AdminLogin)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Equal(t, os.Stderr, cfg.LoggerOptions().Output)
}

func TestNewGormLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{AppMode: "dev", Log: LogConfig{Output: &buf}}

	db, err := OpenSQLite(":memory:", NewGormLogger(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })
	require.NoError(t, Migrate(db))

	var employee models.Employee
	err = db.First(&employee, 42).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown mode", map[string]string{"APP_MODE": "staging"}},
		{"unknown driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "oracle"}},
		{"unknown zone", map[string]string{"APP_MODE": "dev", "BUSINESS_TZ": "Mars/Olympus"}},
		{"default secret in prod", map[string]string{"APP_MODE": "prod", "PROD_JWT_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Prod(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_JWT_SECRET", "a-real-secret")
	t.Setenv("PROD_DB_NAME", "ledger")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "a-real-secret", cfg.JWT.Secret)
	assert.Equal(t, "ledger", cfg.Database.DBName)
	assert.Equal(t, "http://localhost:3000", cfg.GetAllowedOrigins())
}
