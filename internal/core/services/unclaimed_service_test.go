package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
)

func TestUnclaimedService_ConvertToUnclaimed(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")

	overdue := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")
	active := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")
	clock.Set("2023-03-01")

	t.Run("first conversion succeeds", func(t *testing.T) {
		item, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: overdue.Code, EstimatedValue: "80000"})
		require.NoError(t, err)
		assert.Equal(t, overdue.Code, item.Article)
		assert.Equal(t, overdue.Code, item.LoanCode)
		assert.True(t, item.EstimatedValue.Equal(decimal.NewFromInt(80000)))

		// the loan keeps its status
		assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, overdue.Code))
	})

	t.Run("second conversion is rejected", func(t *testing.T) {
		_, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: overdue.Code, EstimatedValue: "90000"})
		assert.True(t, errors.Is(err, domain.ErrAlreadyConverted))

		count, err := reg.Unclaimed.unclaimedRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("active loan is rejected", func(t *testing.T) {
		_, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: active.Code, EstimatedValue: "100"})
		assert.True(t, errors.Is(err, domain.ErrOnlyOverdueConverts))
	})

	t.Run("paid loan is rejected", func(t *testing.T) {
		_, err := reg.Loans.PayLoan(ctx, active.Code)
		require.NoError(t, err)
		_, err = reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: active.Code, EstimatedValue: "100"})
		assert.True(t, errors.Is(err, domain.ErrOnlyOverdueConverts))
	})

	t.Run("unknown loan is not found", func(t *testing.T) {
		_, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: 404, EstimatedValue: "100"})
		assert.True(t, errors.Is(err, domain.ErrLoanNotFound))
	})

	t.Run("bad estimated value", func(t *testing.T) {
		_, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: overdue.Code, EstimatedValue: "abc"})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestUnclaimedService_ConvertSweepsFirst(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
	loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")

	// no explicit sweep: the conversion itself must see the loan as overdue
	clock.Set("2023-02-16")
	item, err := reg.Unclaimed.ConvertToUnclaimed(context.Background(), &ConvertInput{LoanCode: loan.Code, EstimatedValue: "500"})
	require.NoError(t, err)
	assert.Equal(t, loan.Code, item.Article)
}

func TestUnclaimedService_ListConvertible(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")

	first := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")
	second := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")
	createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")
	clock.Set("2023-03-01")

	loans, err := reg.Unclaimed.ListConvertible(ctx)
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	_, err = reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: first.Code, EstimatedValue: "100"})
	require.NoError(t, err)

	loans, err = reg.Unclaimed.ListConvertible(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, second.Code, loans[0].Code)
}

func TestUnclaimedService_ListAndGet(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	appraiser := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
	seller := createEmployee(t, reg, domain.RoleSalesManager, "79990000002", "")

	cheap := createLoan(t, reg, client.ID, appraiser.ID, "10.00", "1.00", "2023-01-15")
	dear := createLoan(t, reg, client.ID, appraiser.ID, "10.00", "1.00", "2023-01-15")
	clock.Set("2023-03-01")

	_, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: cheap.Code, EstimatedValue: "100"})
	require.NoError(t, err)
	_, err = reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: dear.Code, EstimatedValue: "5000"})
	require.NoError(t, err)
	_, err = reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: dear.Code, SellerID: seller.ID})
	require.NoError(t, err)

	t.Run("sold flag is derived from sales", func(t *testing.T) {
		item, err := reg.Unclaimed.Get(ctx, dear.Code)
		require.NoError(t, err)
		assert.True(t, item.Sold)

		item, err = reg.Unclaimed.Get(ctx, cheap.Code)
		require.NoError(t, err)
		assert.False(t, item.Sold)
		assert.Equal(t, "Ivan Petrov", item.ClientName)
	})

	t.Run("price range", func(t *testing.T) {
		min := decimal.NewFromInt(1000)
		result, err := reg.Unclaimed.List(ctx, repositories.UnclaimedFilter{MinPrice: &min})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, dear.Code, result.Items[0].Article)
		assert.True(t, result.Items[0].Sold)
	})

	t.Run("unsold only", func(t *testing.T) {
		result, err := reg.Unclaimed.List(ctx, repositories.UnclaimedFilter{UnsoldOnly: true})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, cheap.Code, result.Items[0].Article)
	})

	t.Run("missing article", func(t *testing.T) {
		_, err := reg.Unclaimed.Get(ctx, 404)
		assert.True(t, errors.Is(err, domain.ErrUnclaimedNotFound))
	})
}
