package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/transaction"
)

// UnclaimedService converts overdue loans into sellable unclaimed items
type UnclaimedService struct {
	txManager     *transaction.Manager
	loanRepo      repositories.LoanRepository
	unclaimedRepo repositories.UnclaimedRepository
	saleRepo      repositories.SaleRepository
	loans         *LoanService
	clock         Clock
	log           *slog.Logger
}

// NewUnclaimedService creates a new unclaimed item service
func NewUnclaimedService(
	txManager *transaction.Manager,
	loanRepo repositories.LoanRepository,
	unclaimedRepo repositories.UnclaimedRepository,
	saleRepo repositories.SaleRepository,
	loans *LoanService,
	clock Clock,
) *UnclaimedService {
	return &UnclaimedService{
		txManager:     txManager,
		loanRepo:      loanRepo,
		unclaimedRepo: unclaimedRepo,
		saleRepo:      saleRepo,
		loans:         loans,
		clock:         clock,
		log:           logger.WithComponent("unclaimed"),
	}
}

// ConvertInput represents convert-to-unclaimed input
type ConvertInput struct {
	LoanCode       uint   `json:"loan_code" validate:"required"`
	EstimatedValue string `json:"estimated_value" validate:"required"`
}

// ConvertToUnclaimed creates the unclaimed item for an overdue loan. The
// item's article is the loan code and the loan status is left as is.
func (s *UnclaimedService) ConvertToUnclaimed(ctx context.Context, input *ConvertInput) (*models.UnclaimedItem, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	value, err := ParseDecimal("estimated_value", input.EstimatedValue)
	if err != nil {
		return nil, err
	}
	if err := checkPrecision("estimated_value", value, 10, 4); err != nil {
		return nil, err
	}

	var item *models.UnclaimedItem
	var outcome error

	err = s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.loans.sweep(ctx); err != nil {
			return err
		}

		loan, err := s.loanRepo.GetByCode(ctx, input.LoanCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = domain.ErrLoanNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusOverdue.String() {
			outcome = domain.ErrOnlyOverdueConverts
			return nil
		}

		converted, err := s.unclaimedRepo.ExistsByLoan(ctx, loan.Code)
		if err != nil {
			return err
		}
		if converted {
			outcome = domain.ErrAlreadyConverted
			return nil
		}

		item = &models.UnclaimedItem{
			Article:        loan.Code,
			LoanCode:       loan.Code,
			EstimatedValue: value,
			Loan:           loan,
		}
		return s.unclaimedRepo.Create(ctx, item)
	})
	if err != nil {
		return nil, storeError(err)
	}
	if outcome != nil {
		return nil, outcome
	}

	s.log.Info("loan converted to unclaimed item", "loan_code", item.LoanCode, "article", item.Article)
	return item, nil
}

// ListConvertible returns overdue loans that have not been converted yet
func (s *UnclaimedService) ListConvertible(ctx context.Context) ([]*models.LoanResponse, error) {
	var loans []*models.Loan
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.loans.sweep(ctx); err != nil {
			return err
		}
		var err error
		loans, err = s.loanRepo.ListConvertible(ctx)
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}

	today := s.clock.today()
	result := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		result[i] = loan.ToResponse(today)
	}
	return result, nil
}

// UnclaimedList is one page of unclaimed items
type UnclaimedList struct {
	Items []*models.UnclaimedItemResponse `json:"items"`
	Total int64                           `json:"total"`
}

// List lists unclaimed items with their derived sold flag
func (s *UnclaimedService) List(ctx context.Context, filter repositories.UnclaimedFilter) (*UnclaimedList, error) {
	if filter.Order == "" {
		filter.Order = "desc"
	}

	rows, total, err := s.unclaimedRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}

	result := &UnclaimedList{
		Items: make([]*models.UnclaimedItemResponse, len(rows)),
		Total: total,
	}
	for i, row := range rows {
		result.Items[i] = row.Item.ToResponse(row.Sold)
	}
	return result, nil
}

// Get returns one unclaimed item with its sold flag
func (s *UnclaimedService) Get(ctx context.Context, article uint) (*models.UnclaimedItemResponse, error) {
	item, err := s.unclaimedRepo.GetByArticle(ctx, article)
	if err != nil {
		return nil, storeError(notFound(err, domain.ErrUnclaimedNotFound))
	}
	sold, err := s.saleRepo.ExistsByArticle(ctx, article)
	if err != nil {
		return nil, storeError(err)
	}
	return item.ToResponse(sold), nil
}
