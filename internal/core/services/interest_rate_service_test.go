package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawnledger/internal/adapters/persistence/models"
)

func TestInterestRateService_ResolveOrCreate(t *testing.T) {
	reg, _ := setupRegistry(t, "2023-01-15")
	ctx := context.Background()

	condition := decimal.RequireFromString("7.50")
	term := decimal.RequireFromString("3.25")

	first, err := reg.Rates.ResolveOrCreate(ctx, condition, term)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Index)
	assert.True(t, first.Percentage.Equal(decimal.RequireFromString("10.75")))

	again, err := reg.Rates.ResolveOrCreate(ctx, condition, term)
	require.NoError(t, err)
	assert.Equal(t, first.Index, again.Index)

	other, err := reg.Rates.ResolveOrCreate(ctx, term, condition)
	require.NoError(t, err)
	assert.Equal(t, uint(2), other.Index)

	rates, err := reg.Rates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestInterestRateService_StoredPercentageWins(t *testing.T) {
	reg, _ := setupRegistry(t, "2023-01-15")
	ctx := context.Background()

	// a hand-edited row keeps its percentage
	err := reg.Rates.rateRepo.Create(ctx, &models.InterestRate{
		Index:          1,
		ConditionScore: decimal.NewFromInt(10),
		TermMonths:     decimal.NewFromInt(6),
		Percentage:     decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	rate, err := reg.Rates.ResolveOrCreate(ctx, decimal.RequireFromString("10.00"), decimal.RequireFromString("6.00"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), rate.Index)
	assert.True(t, rate.Percentage.Equal(decimal.NewFromInt(20)))
}
