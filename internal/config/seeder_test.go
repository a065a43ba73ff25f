package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/password"
)

func TestSeeder_Run(t *testing.T) {
	password.SetCost(bcrypt.MinCost)
	defer password.SetCost(password.DefaultCost)

	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	defer CloseDatabase(db)
	require.NoError(t, Migrate(db))

	reg, err := services.NewRegistry(db, services.AuthConfig{Secret: "test", ExpiryMinutes: 5}, services.FixedClock(time.Now()))
	require.NoError(t, err)

	seeder := NewSeeder(reg.Rates, reg.Employees, reg.EmployeeRepo, SeedConfig{
		AdminName:     "System Administrator",
		AdminPhone:    "79999999999",
		AdminLogin:    "admin",
		AdminPassword: "admin123",
	})
	ctx := context.Background()

	result, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, result.RatesCreated)
	assert.True(t, result.AdminCreated)

	_, err = reg.Auth.Login(ctx, &services.LoginInput{Login: "admin", Password: "admin123"})
	assert.NoError(t, err)

	// a second run creates nothing
	result, err = seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RatesCreated)
	assert.False(t, result.AdminCreated)
}
