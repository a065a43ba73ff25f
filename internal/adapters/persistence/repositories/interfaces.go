package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pawnledger/internal/adapters/persistence/models"
)

// ListParams carries free-text search, sorting and paging for list queries.
// A zero Limit returns every row.
type ListParams struct {
	Search string
	Sort   string
	Order  string // asc or desc
	Offset int
	Limit  int
}

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	ListParams
	Role   string
	Status string // active, dismissed or empty
}

// LoanFilter narrows loan listings
type LoanFilter struct {
	ListParams
	Status string
}

// UnclaimedFilter narrows unclaimed item listings
type UnclaimedFilter struct {
	ListParams
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	UnsoldOnly bool
}

// SaleFilter narrows sale listings
type SaleFilter struct {
	ListParams
	DateFrom *time.Time
	DateTo   *time.Time
}

// StatusCount is one row of the loan status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// UnclaimedRow is an unclaimed item with its derived sold flag
type UnclaimedRow struct {
	Item *models.UnclaimedItem
	Sold bool
}

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*models.Client, int64, error)
	NextID(ctx context.Context) (uint, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByLogin(ctx context.Context, login string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	List(ctx context.Context, filter EmployeeFilter) ([]*models.Employee, int64, error)
	ListActiveByRole(ctx context.Context, role string) ([]*models.Employee, error)
	DistinctRoles(ctx context.Context) ([]string, error)
	NextID(ctx context.Context) (uint, error)
	ExistsByLogin(ctx context.Context, login string, excludeID uint) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error)
	CountByRole(ctx context.Context, role string, excludeID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// InterestRateRepository defines interest rate repository interface
type InterestRateRepository interface {
	Create(ctx context.Context, rate *models.InterestRate) error
	GetByIndex(ctx context.Context, index uint) (*models.InterestRate, error)
	FindByConditionTerm(ctx context.Context, condition, term decimal.Decimal) (*models.InterestRate, error)
	List(ctx context.Context) ([]*models.InterestRate, error)
	NextIndex(ctx context.Context) (uint, error)
	Count(ctx context.Context) (int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByCode(ctx context.Context, code uint) (*models.Loan, error)
	UpdateStatus(ctx context.Context, codes []uint, status string) (int64, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Loan, error)
	List(ctx context.Context, filter LoanFilter) ([]*models.Loan, int64, error)
	ListConvertible(ctx context.Context) ([]*models.Loan, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Loan, error)
	SearchByCodePrefix(ctx context.Context, prefix string, limit int) ([]*models.Loan, error)
	StatusBreakdown(ctx context.Context) ([]StatusCount, error)
	DistinctStatuses(ctx context.Context) ([]string, error)
	DistinctYears(ctx context.Context) ([]int, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountNotStatus(ctx context.Context, status string) (int64, error)
	NextCode(ctx context.Context) (uint, error)
}

// UnclaimedRepository defines unclaimed item repository interface
type UnclaimedRepository interface {
	Create(ctx context.Context, item *models.UnclaimedItem) error
	GetByArticle(ctx context.Context, article uint) (*models.UnclaimedItem, error)
	ExistsByLoan(ctx context.Context, loanCode uint) (bool, error)
	List(ctx context.Context, filter UnclaimedFilter) ([]UnclaimedRow, int64, error)
	Count(ctx context.Context) (int64, error)
}

// SaleRepository defines sale repository interface
type SaleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
	GetByCode(ctx context.Context, code uint) (*models.Sale, error)
	ExistsByArticle(ctx context.Context, article uint) (bool, error)
	List(ctx context.Context, filter SaleFilter) ([]*models.Sale, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error)
	DistinctYears(ctx context.Context) ([]int, error)
	NextCode(ctx context.Context) (uint, error)
	Count(ctx context.Context) (int64, error)
}
