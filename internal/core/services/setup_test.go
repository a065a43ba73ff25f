package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/password"
)

func TestMain(m *testing.M) {
	password.SetCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

// testClock is a settable clock
type testClock struct {
	now time.Time
}

func (c *testClock) Clock() Clock {
	return func() time.Time { return c.now }
}

func (c *testClock) Set(date string) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	c.now = t
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// setupRegistry returns services over a fresh store with today pinned to date
func setupRegistry(t *testing.T, date string) (*Registry, *testClock) {
	clock := &testClock{}
	clock.Set(date)

	reg, err := NewRegistry(setupTestDB(t), AuthConfig{Secret: "test-secret", ExpiryMinutes: 60}, clock.Clock())
	require.NoError(t, err)
	return reg, clock
}

func createClient(t *testing.T, reg *Registry, name, phone string) *models.Client {
	client, err := reg.Clients.Create(context.Background(), &ClientInput{FullName: name, Phone: phone})
	require.NoError(t, err)
	return client
}

func createEmployee(t *testing.T, reg *Registry, role domain.Role, phone, login string) *models.Employee {
	input := &EmployeeInput{
		FullName: string(role) + " " + phone,
		Role:     role.String(),
		HireDate: "2020-01-01",
		Phone:    phone,
		Login:    login,
	}
	if login != "" {
		input.Password = "secret123"
	}
	employee, err := reg.Employees.Create(context.Background(), input)
	require.NoError(t, err)
	return employee
}

func createLoan(t *testing.T, reg *Registry, clientID, employeeID uint, condition, term, date string) *models.Loan {
	loan, err := reg.Loans.CreateLoan(context.Background(), &CreateLoanInput{
		ClientID:          clientID,
		EmployeeID:        employeeID,
		ConditionScore:    condition,
		TermMonths:        term,
		Principal:         "50000",
		ItemName:          "Gold ring",
		ItemCategory:      "Jewelry",
		PhysicalCondition: "Good",
		OriginationDate:   date,
	})
	require.NoError(t, err)
	return loan
}

func loanStatus(t *testing.T, reg *Registry, code uint) string {
	loan, err := reg.Loans.loanRepo.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return loan.Status
}
