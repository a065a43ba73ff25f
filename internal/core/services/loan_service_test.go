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

func TestLoanService_CreateLoan(t *testing.T) {
	reg, _ := setupRegistry(t, "2023-01-15")
	ctx := context.Background()

	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")

	t.Run("article number equals code", func(t *testing.T) {
		first := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "")
		second := createLoan(t, reg, client.ID, employee.ID, "7.50", "5.00", "")

		assert.Equal(t, uint(1), first.Code)
		assert.Equal(t, first.Code, first.ArticleNumber)
		assert.Equal(t, uint(2), second.Code)
		assert.Equal(t, second.Code, second.ArticleNumber)
		assert.Equal(t, domain.LoanStatusActive.String(), first.Status)

		stored, err := reg.Loans.GetLoan(ctx, second.Code)
		require.NoError(t, err)
		assert.Equal(t, stored.Code, stored.ArticleNumber)
	})

	t.Run("rate is created with percentage condition plus term", func(t *testing.T) {
		loan := createLoan(t, reg, client.ID, employee.ID, "12.50", "8.75", "")
		require.NotNil(t, loan.InterestRate)
		assert.True(t, loan.InterestRate.Percentage.Equal(decimal.RequireFromString("21.25")))
		assert.True(t, loan.ConditionScore.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("origination defaults to today", func(t *testing.T) {
		loan := createLoan(t, reg, client.ID, employee.ID, "5.00", "5.00", "")
		assert.Equal(t, "2023-01-15", time.Time(loan.OriginationDate).Format(DateLayout))
	})

	t.Run("unknown client is a validation error", func(t *testing.T) {
		_, err := reg.Loans.CreateLoan(ctx, &CreateLoanInput{
			ClientID: 999, EmployeeID: employee.ID,
			ConditionScore: "10", TermMonths: "6", Principal: "100",
			ItemName: "Watch", ItemCategory: "Watches", PhysicalCondition: "Worn",
		})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("unknown employee is a validation error", func(t *testing.T) {
		_, err := reg.Loans.CreateLoan(ctx, &CreateLoanInput{
			ClientID: client.ID, EmployeeID: 999,
			ConditionScore: "10", TermMonths: "6", Principal: "100",
			ItemName: "Watch", ItemCategory: "Watches", PhysicalCondition: "Worn",
		})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("bad decimals are validation errors", func(t *testing.T) {
		cases := []struct {
			name      string
			condition string
			term      string
			principal string
		}{
			{"not a number", "ten", "6", "100"},
			{"negative principal", "10", "6", "-1"},
			{"zero term", "10", "0", "100"},
			{"too many decimals", "10.125", "6", "100"},
			{"condition too large", "100", "6", "100"},
			{"percentage overflows", "60", "50", "100"},
			{"principal too large", "10", "6", "1000000"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := reg.Loans.CreateLoan(ctx, &CreateLoanInput{
					ClientID: client.ID, EmployeeID: employee.ID,
					ConditionScore: tc.condition, TermMonths: tc.term, Principal: tc.principal,
					ItemName: "Watch", ItemCategory: "Watches", PhysicalCondition: "Worn",
				})
				assert.True(t, domain.IsKind(err, domain.KindValidation), "got %v", err)
			})
		}
	})

	t.Run("comma decimal separator is accepted", func(t *testing.T) {
		loan, err := reg.Loans.CreateLoan(ctx, &CreateLoanInput{
			ClientID: client.ID, EmployeeID: employee.ID,
			ConditionScore: "7,50", TermMonths: "6,25", Principal: "1500,5",
			ItemName: "Watch", ItemCategory: "Watches", PhysicalCondition: "Worn",
		})
		require.NoError(t, err)
		assert.True(t, loan.Principal.Equal(decimal.RequireFromString("1500.5")))
	})
}

func TestLoanService_SweepOverdue(t *testing.T) {
	t.Run("past maturity becomes overdue", func(t *testing.T) {
		reg, clock := setupRegistry(t, "2023-01-15")
		client := createClient(t, reg, "Ivan Petrov", "79990000000")
		employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
		loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")

		clock.Set("2023-08-01")
		count, err := reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, 1)
		assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, loan.Code))
	})

	t.Run("before maturity stays active", func(t *testing.T) {
		reg, clock := setupRegistry(t, "2023-01-15")
		client := createClient(t, reg, "Ivan Petrov", "79990000000")
		employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
		loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")

		clock.Set("2023-07-01")
		count, err := reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, domain.LoanStatusActive.String(), loanStatus(t, reg, loan.Code))
	})

	t.Run("maturity day itself is not overdue", func(t *testing.T) {
		reg, clock := setupRegistry(t, "2023-01-15")
		client := createClient(t, reg, "Ivan Petrov", "79990000000")
		employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
		loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")

		clock.Set("2023-07-15")
		_, err := reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusActive.String(), loanStatus(t, reg, loan.Code))

		clock.Set("2023-07-16")
		_, err = reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, loan.Code))
	})

	t.Run("fractional term is truncated", func(t *testing.T) {
		reg, clock := setupRegistry(t, "2023-01-15")
		client := createClient(t, reg, "Ivan Petrov", "79990000000")
		employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
		loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.75", "2023-01-15")

		clock.Set("2023-07-16")
		_, err := reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, loan.Code))
	})

	t.Run("paid loans are never swept", func(t *testing.T) {
		reg, clock := setupRegistry(t, "2023-01-15")
		client := createClient(t, reg, "Ivan Petrov", "79990000000")
		employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
		loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")

		_, err := reg.Loans.PayLoan(context.Background(), loan.Code)
		require.NoError(t, err)

		clock.Set("2024-01-01")
		count, err := reg.Loans.SweepOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, domain.LoanStatusPaid.String(), loanStatus(t, reg, loan.Code))
	})
}

func TestLoanService_PayLoan(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")

	active := createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "2023-01-15")
	matured := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")

	clock.Set("2023-03-01")

	t.Run("active becomes paid", func(t *testing.T) {
		loan, err := reg.Loans.PayLoan(ctx, active.Code)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusPaid.String(), loan.Status)
		assert.Equal(t, domain.LoanStatusPaid.String(), loanStatus(t, reg, active.Code))
	})

	t.Run("paid is rejected", func(t *testing.T) {
		_, err := reg.Loans.PayLoan(ctx, active.Code)
		assert.True(t, errors.Is(err, domain.ErrLoanAlreadyPaid))
		assert.True(t, domain.IsKind(err, domain.KindRejected))
	})

	t.Run("overdue is informational and unchanged", func(t *testing.T) {
		loan, err := reg.Loans.PayLoan(ctx, matured.Code)
		assert.True(t, errors.Is(err, domain.ErrLoanMovedToUnclaimed))
		assert.True(t, domain.IsKind(err, domain.KindInformational))
		require.NotNil(t, loan)
		assert.Equal(t, domain.LoanStatusOverdue.String(), loan.Status)

		// the sweep that found it overdue is kept
		assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, matured.Code))
	})

	t.Run("unknown loan", func(t *testing.T) {
		_, err := reg.Loans.PayLoan(ctx, 404)
		assert.True(t, errors.Is(err, domain.ErrLoanNotFound))
	})
}

func TestLoanService_ListLoans(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	ctx := context.Background()
	ivan := createClient(t, reg, "Ivan Petrov", "79990000000")
	anna := createClient(t, reg, "Anna Smirnova", "79990000002")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")

	createLoan(t, reg, ivan.ID, employee.ID, "10.00", "6.00", "2023-01-15")
	createLoan(t, reg, anna.ID, employee.ID, "10.00", "1.00", "2023-01-15")
	clock.Set("2023-03-01")

	t.Run("sweeps before listing", func(t *testing.T) {
		result, err := reg.Loans.ListLoans(ctx, repositories.LoanFilter{Status: domain.LoanStatusOverdue.String()})
		require.NoError(t, err)
		require.Len(t, result.Loans, 1)
		assert.Equal(t, uint(2), result.Loans[0].Code)
		assert.Nil(t, result.Loans[0].DaysLeft)
		assert.ElementsMatch(t, []string{"Active", "Overdue"}, result.Statuses)
	})

	t.Run("active rows carry days left", func(t *testing.T) {
		result, err := reg.Loans.ListLoans(ctx, repositories.LoanFilter{Status: domain.LoanStatusActive.String()})
		require.NoError(t, err)
		require.Len(t, result.Loans, 1)
		require.NotNil(t, result.Loans[0].DaysLeft)
		assert.Equal(t, 136, *result.Loans[0].DaysLeft) // 2023-03-01 to 2023-07-15
	})

	t.Run("search by client name", func(t *testing.T) {
		result, err := reg.Loans.ListLoans(ctx, repositories.LoanFilter{
			ListParams: repositories.ListParams{Search: "anna"},
		})
		require.NoError(t, err)
		require.Len(t, result.Loans, 1)
		assert.Equal(t, anna.ID, result.Loans[0].ClientID)
		assert.Equal(t, "Anna Smirnova", result.Loans[0].ClientName)
	})

	t.Run("default order is newest first", func(t *testing.T) {
		result, err := reg.Loans.ListLoans(ctx, repositories.LoanFilter{})
		require.NoError(t, err)
		require.Len(t, result.Loans, 2)
		assert.Equal(t, uint(2), result.Loans[0].Code)
		assert.Equal(t, int64(2), result.Total)
	})
}

func TestLoanService_Autocomplete(t *testing.T) {
	reg, _ := setupRegistry(t, "2023-01-15")
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
	for i := 0; i < 11; i++ {
		createLoan(t, reg, client.ID, employee.ID, "10.00", "6.00", "")
	}

	result, err := reg.Loans.Autocomplete(context.Background(), "1", 20)
	require.NoError(t, err)

	// 1, 10 and 11
	assert.Len(t, result.LoanCodes, 3)
	assert.Equal(t, "Gold ring", result.LoanCodes["10"].Name)
	assert.Equal(t, []string{"Gold ring"}, result.Names)
	assert.Equal(t, []string{"Jewelry"}, result.Categories)
}
