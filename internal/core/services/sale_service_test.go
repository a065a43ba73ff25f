package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
)

// converted returns a registry holding one unclaimed item (article 1) and the
// IDs of an appraiser and an active sales manager
func converted(t *testing.T) (*Registry, *testClock, uint, uint) {
	reg, clock := setupRegistry(t, "2023-01-15")
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	appraiser := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
	seller := createEmployee(t, reg, domain.RoleSalesManager, "79990000002", "")

	loan := createLoan(t, reg, client.ID, appraiser.ID, "10.00", "1.00", "2023-01-15")
	clock.Set("2023-03-01")
	_, err := reg.Unclaimed.ConvertToUnclaimed(context.Background(), &ConvertInput{LoanCode: loan.Code, EstimatedValue: "700"})
	require.NoError(t, err)

	return reg, clock, appraiser.ID, seller.ID
}

func TestSaleService_RecordSale(t *testing.T) {
	t.Run("second sale of an article is rejected", func(t *testing.T) {
		reg, _, _, seller := converted(t)
		ctx := context.Background()

		sale, err := reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: 1, SellerID: seller})
		require.NoError(t, err)
		assert.Equal(t, uint(1), sale.Code)
		assert.Equal(t, uint(1), sale.ArticleNumber)
		assert.Equal(t, "2023-03-01", time.Time(sale.SaleDate).Format(DateLayout))

		_, err = reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: 1, SellerID: seller})
		assert.True(t, errors.Is(err, domain.ErrItemAlreadySold))

		count, err := reg.Sales.saleRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("article must be an unclaimed item", func(t *testing.T) {
		reg, _, _, seller := converted(t)
		_, err := reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 99, SellerID: seller})
		assert.True(t, errors.Is(err, domain.ErrUnclaimedNotFound))
	})

	t.Run("seller must exist", func(t *testing.T) {
		reg, _, _, _ := converted(t)
		_, err := reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 1, SellerID: 99})
		assert.True(t, errors.Is(err, domain.ErrEmployeeNotFound))
	})

	t.Run("seller must be a sales manager", func(t *testing.T) {
		reg, _, appraiser, _ := converted(t)
		_, err := reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 1, SellerID: appraiser})
		assert.True(t, errors.Is(err, domain.ErrSellerNotSalesperson))
	})

	t.Run("dismissed seller is refused", func(t *testing.T) {
		reg, _, _, seller := converted(t)
		_, err := reg.Employees.Dismiss(context.Background(), seller)
		require.NoError(t, err)

		_, err = reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 1, SellerID: seller})
		assert.True(t, errors.Is(err, domain.ErrSellerNotSalesperson))
	})

	t.Run("explicit sale date", func(t *testing.T) {
		reg, _, _, seller := converted(t)
		sale, err := reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 1, SellerID: seller, SaleDate: "2023-02-20"})
		require.NoError(t, err)
		assert.Equal(t, "2023-02-20", time.Time(sale.SaleDate).Format(DateLayout))

		_, err = reg.Sales.RecordSale(context.Background(), &RecordSaleInput{Article: 1, SellerID: seller, SaleDate: "20.02.2023"})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestSaleService_Listings(t *testing.T) {
	reg, _, _, seller := converted(t)
	ctx := context.Background()

	unsold, err := reg.Sales.ListUnsold(ctx)
	require.NoError(t, err)
	assert.Len(t, unsold, 1)

	sellers, err := reg.Sales.ListSellers(ctx)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, seller, sellers[0].ID)

	sale, err := reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: 1, SellerID: seller})
	require.NoError(t, err)

	unsold, err = reg.Sales.ListUnsold(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsold)

	from := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err := reg.Sales.List(ctx, repositories.SaleFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, list.Sales, 1)
	assert.Equal(t, "Gold ring", list.Sales[0].ItemName)

	before := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)
	list, err = reg.Sales.List(ctx, repositories.SaleFilter{DateTo: &before})
	require.NoError(t, err)
	assert.Empty(t, list.Sales)

	got, err := reg.Sales.Get(ctx, sale.Code)
	require.NoError(t, err)
	assert.Equal(t, sale.Code, got.Code)
	require.NotNil(t, got.EstimatedValue)
	assert.True(t, got.EstimatedValue.Equal(decimal.NewFromInt(700)))

	_, err = reg.Sales.Get(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
}

func TestEndToEnd_LoanToSale(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()

	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	require.Equal(t, uint(1), client.ID)
	seller := createEmployee(t, reg, domain.RoleSalesManager, "79990000001", "")
	require.Equal(t, uint(1), seller.ID)

	loan, err := reg.Loans.CreateLoan(ctx, &CreateLoanInput{
		ClientID:          1,
		EmployeeID:        1,
		ConditionScore:    "10.00",
		TermMonths:        "6.00",
		Principal:         "50000",
		ItemName:          "Laptop",
		ItemCategory:      "Electronics",
		PhysicalCondition: "Used",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), loan.Code)
	assert.Equal(t, uint(1), loan.ArticleNumber)
	assert.Equal(t, domain.LoanStatusActive.String(), loan.Status)

	rate, err := reg.Rates.rateRepo.GetByIndex(ctx, loan.InterestRateIndex)
	require.NoError(t, err)
	assert.True(t, rate.ConditionScore.Equal(decimal.NewFromInt(10)))
	assert.True(t, rate.TermMonths.Equal(decimal.NewFromInt(6)))
	assert.True(t, rate.Percentage.Equal(decimal.NewFromInt(16)))

	clock.Set("2023-08-01")
	count, err := reg.Loans.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, 1))

	item, err := reg.Unclaimed.ConvertToUnclaimed(ctx, &ConvertInput{LoanCode: 1, EstimatedValue: "80000"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.Article)
	assert.Equal(t, uint(1), item.LoanCode)

	sale, err := reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: 1, SellerID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint(1), sale.Code)
	assert.Equal(t, uint(1), sale.ArticleNumber)

	_, err = reg.Sales.RecordSale(ctx, &RecordSaleInput{Article: 1, SellerID: 1})
	assert.True(t, domain.IsKind(err, domain.KindRejected))
}
