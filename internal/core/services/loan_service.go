package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/dberr"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/transaction"
)

// LoanService runs the loan lifecycle: creation, overdue sweep and payment
type LoanService struct {
	txManager    *transaction.Manager
	loanRepo     repositories.LoanRepository
	clientRepo   repositories.ClientRepository
	employeeRepo repositories.EmployeeRepository
	rateService  *InterestRateService
	clock        Clock
	log          *slog.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	txManager *transaction.Manager,
	loanRepo repositories.LoanRepository,
	clientRepo repositories.ClientRepository,
	employeeRepo repositories.EmployeeRepository,
	rateService *InterestRateService,
	clock Clock,
) *LoanService {
	return &LoanService{
		txManager:    txManager,
		loanRepo:     loanRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		rateService:  rateService,
		clock:        clock,
		log:          logger.WithComponent("loans"),
	}
}

// CreateLoanInput represents create loan input. Decimal fields arrive as
// text and are parsed here so malformed numbers fail before the store.
type CreateLoanInput struct {
	ClientID          uint   `json:"client_id" validate:"required"`
	EmployeeID        uint   `json:"employee_id" validate:"required"`
	ConditionScore    string `json:"condition_score" validate:"required"`
	TermMonths        string `json:"term_months" validate:"required"`
	Principal         string `json:"principal" validate:"required"`
	ItemName          string `json:"item_name" validate:"required,max=200"`
	ItemCategory      string `json:"item_category" validate:"required,max=100"`
	PhysicalCondition string `json:"physical_condition" validate:"required,max=50"`
	OriginationDate   string `json:"origination_date,omitempty"` // YYYY-MM-DD, defaults to today
}

type loanTerms struct {
	condition   decimal.Decimal
	term        decimal.Decimal
	principal   decimal.Decimal
	origination time.Time
}

func (s *LoanService) parseTerms(input *CreateLoanInput) (*loanTerms, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	condition, err := ParseDecimal("condition_score", input.ConditionScore)
	if err != nil {
		return nil, err
	}
	if err := checkPrecision("condition_score", condition, 4, 2); err != nil {
		return nil, err
	}

	term, err := ParseDecimal("term_months", input.TermMonths)
	if err != nil {
		return nil, err
	}
	if err := checkPrecision("term_months", term, 4, 2); err != nil {
		return nil, err
	}
	if !term.IsPositive() {
		return nil, domain.NewValidationError("term_months must be greater than zero")
	}
	if err := checkPrecision("condition_score + term_months", condition.Add(term), 4, 2); err != nil {
		return nil, err
	}

	principal, err := ParseDecimal("principal", input.Principal)
	if err != nil {
		return nil, err
	}
	if !principal.IsPositive() {
		return nil, domain.NewValidationError("principal must be greater than zero")
	}
	if err := checkPrecision("principal", principal, 10, 4); err != nil {
		return nil, err
	}

	origination := s.clock.today()
	if input.OriginationDate != "" {
		origination, err = ParseDate("origination_date", input.OriginationDate)
		if err != nil {
			return nil, err
		}
	}

	return &loanTerms{
		condition:   condition,
		term:        term,
		principal:   principal,
		origination: origination,
	}, nil
}

// CreateLoan resolves the interest rate, allocates the next loan code and
// stores an Active loan whose article number equals its code.
func (s *LoanService) CreateLoan(ctx context.Context, input *CreateLoanInput) (*models.Loan, error) {
	terms, err := s.parseTerms(input)
	if err != nil {
		return nil, err
	}

	var loan *models.Loan
	err = s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
			return notFound(err, domain.NewValidationError("client does not exist"))
		}
		if _, err := s.employeeRepo.GetByID(ctx, input.EmployeeID); err != nil {
			return notFound(err, domain.NewValidationError("employee does not exist"))
		}

		rate, err := s.rateService.resolveOrCreate(ctx, terms.condition, terms.term)
		if err != nil {
			return err
		}

		code, err := s.loanRepo.NextCode(ctx)
		if err != nil {
			return err
		}

		loan = &models.Loan{
			Code:              code,
			OriginationDate:   models.Date(terms.origination),
			ClientID:          input.ClientID,
			Principal:         terms.principal,
			InterestRateIndex: rate.Index,
			TermMonths:        terms.term,
			Status:            domain.LoanStatusActive.String(),
			ConditionScore:    rate.ConditionScore,
			ArticleNumber:     code,
			ItemName:          input.ItemName,
			ItemCategory:      input.ItemCategory,
			PhysicalCondition: input.PhysicalCondition,
			EmployeeID:        input.EmployeeID,
			InterestRate:      rate,
		}
		return s.loanRepo.Create(ctx, loan)
	})
	if err != nil {
		if dberr.IsForeignKey(err) {
			return nil, domain.NewValidationError(dberr.MsgMissingRelation)
		}
		return nil, storeError(err)
	}

	s.log.Info("loan created", "code", loan.Code, "client_id", loan.ClientID, "rate_index", loan.InterestRateIndex)
	return loan, nil
}

// SweepOverdue moves every Active loan past its maturity date to Overdue
// and returns how many loans changed.
func (s *LoanService) SweepOverdue(ctx context.Context) (int, error) {
	var count int
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.sweep(ctx)
		return err
	})
	if err != nil {
		return 0, storeError(err)
	}
	if count > 0 {
		s.log.Info("overdue sweep", "transitioned", count)
	}
	return count, nil
}

// sweep must run inside a transaction
func (s *LoanService) sweep(ctx context.Context) (int, error) {
	active, err := s.loanRepo.ListByStatus(ctx, domain.LoanStatusActive.String())
	if err != nil {
		return 0, err
	}

	today := s.clock.today()
	var due []uint
	for _, loan := range active {
		if domain.IsPastMaturity(time.Time(loan.OriginationDate), loan.WholeTermMonths(), today) {
			due = append(due, loan.Code)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	updated, err := s.loanRepo.UpdateStatus(ctx, due, domain.LoanStatusOverdue.String())
	if err != nil {
		return 0, err
	}
	return int(updated), nil
}

// PayLoan marks an Active loan as Paid. An Overdue loan is left untouched
// and reported as moved to unclaimed inventory; a Paid loan is rejected.
// The returned loan reflects the stored state in every case.
func (s *LoanService) PayLoan(ctx context.Context, code uint) (*models.Loan, error) {
	var loan *models.Loan
	var outcome error

	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.sweep(ctx); err != nil {
			return err
		}

		var err error
		loan, err = s.loanRepo.GetByCode(ctx, code)
		if err != nil {
			return notFound(err, domain.ErrLoanNotFound)
		}

		switch domain.LoanStatus(loan.Status) {
		case domain.LoanStatusActive:
			if _, err := s.loanRepo.UpdateStatus(ctx, []uint{code}, domain.LoanStatusPaid.String()); err != nil {
				return err
			}
			loan.Status = domain.LoanStatusPaid.String()
		case domain.LoanStatusOverdue:
			outcome = domain.ErrLoanMovedToUnclaimed
		case domain.LoanStatusPaid:
			outcome = domain.ErrLoanAlreadyPaid
		default:
			return domain.NewIntegrityError("loan has an unknown status", nil)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	if outcome != nil {
		return loan, outcome
	}

	s.log.Info("loan paid", "code", code)
	return loan, nil
}

// GetLoan returns one loan after bringing statuses up to date
func (s *LoanService) GetLoan(ctx context.Context, code uint) (*models.LoanResponse, error) {
	var loan *models.Loan
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.sweep(ctx); err != nil {
			return err
		}
		var err error
		loan, err = s.loanRepo.GetByCode(ctx, code)
		return notFound(err, domain.ErrLoanNotFound)
	})
	if err != nil {
		return nil, storeError(err)
	}
	return loan.ToResponse(s.clock.today()), nil
}

// LoanList is one page of loans plus the statuses available for filtering
type LoanList struct {
	Loans    []*models.LoanResponse `json:"loans"`
	Total    int64                  `json:"total"`
	Statuses []string               `json:"statuses"`
}

// ListLoans sweeps, then lists loans with maturity and days-left figures
func (s *LoanService) ListLoans(ctx context.Context, filter repositories.LoanFilter) (*LoanList, error) {
	if filter.Order == "" {
		filter.Order = "desc"
	}

	result := &LoanList{}
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.sweep(ctx); err != nil {
			return err
		}

		loans, total, err := s.loanRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		statuses, err := s.loanRepo.DistinctStatuses(ctx)
		if err != nil {
			return err
		}

		today := s.clock.today()
		result.Loans = make([]*models.LoanResponse, len(loans))
		for i, loan := range loans {
			result.Loans[i] = loan.ToResponse(today)
		}
		result.Total = total
		result.Statuses = statuses
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// ItemHint carries the item fields of an existing loan for form prefill
type ItemHint struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
}

// LoanAutocomplete is the prefill data for the new-loan form
type LoanAutocomplete struct {
	LoanCodes  map[string]ItemHint `json:"loan_codes"`
	Names      []string            `json:"names"`
	Categories []string            `json:"categories"`
}

// Autocomplete returns item hints keyed by loan code, filtered by code prefix
func (s *LoanService) Autocomplete(ctx context.Context, prefix string, limit int) (*LoanAutocomplete, error) {
	loans, err := s.loanRepo.SearchByCodePrefix(ctx, prefix, limit)
	if err != nil {
		return nil, storeError(err)
	}

	result := &LoanAutocomplete{LoanCodes: make(map[string]ItemHint, len(loans))}
	names := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, loan := range loans {
		result.LoanCodes[strconv.FormatUint(uint64(loan.Code), 10)] = ItemHint{
			Name:      loan.ItemName,
			Category:  loan.ItemCategory,
			Condition: loan.PhysicalCondition,
		}
		names[loan.ItemName] = struct{}{}
		categories[loan.ItemCategory] = struct{}{}
	}
	result.Names = sortedKeys(names)
	result.Categories = sortedKeys(categories)
	return result, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
