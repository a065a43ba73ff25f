package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawnledger/internal/core/domain"
)

func TestNewCronService(t *testing.T) {
	reg, _ := setupRegistry(t, "2023-01-15")

	_, err := NewCronService(reg.Loans, "not a schedule", time.UTC)
	assert.Error(t, err)

	s, err := NewCronService(reg.Loans, "5 0 * * *", nil)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}

func TestCronService_RunSweep(t *testing.T) {
	reg, clock := setupRegistry(t, "2023-01-15")
	client := createClient(t, reg, "Ivan Petrov", "79990000000")
	employee := createEmployee(t, reg, domain.RoleAppraiserMerchandiser, "79990000001", "")
	loan := createLoan(t, reg, client.ID, employee.ID, "10.00", "1.00", "2023-01-15")

	s, err := NewCronService(reg.Loans, "@daily", time.UTC)
	require.NoError(t, err)

	clock.Set("2023-02-16")
	s.runSweep()
	assert.Equal(t, domain.LoanStatusOverdue.String(), loanStatus(t, reg, loan.Code))
}
