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

// SaleService records one-time sales of unclaimed items
type SaleService struct {
	txManager     *transaction.Manager
	saleRepo      repositories.SaleRepository
	unclaimedRepo repositories.UnclaimedRepository
	employeeRepo  repositories.EmployeeRepository
	clock         Clock
	log           *slog.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	txManager *transaction.Manager,
	saleRepo repositories.SaleRepository,
	unclaimedRepo repositories.UnclaimedRepository,
	employeeRepo repositories.EmployeeRepository,
	clock Clock,
) *SaleService {
	return &SaleService{
		txManager:     txManager,
		saleRepo:      saleRepo,
		unclaimedRepo: unclaimedRepo,
		employeeRepo:  employeeRepo,
		clock:         clock,
		log:           logger.WithComponent("sales"),
	}
}

// RecordSaleInput represents record sale input
type RecordSaleInput struct {
	Article  uint   `json:"article" validate:"required"`
	SellerID uint   `json:"seller_id" validate:"required"`
	SaleDate string `json:"sale_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// RecordSale stores the sale of an unclaimed item. An article sells at most
// once; the seller must be an active Sales Manager.
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*models.Sale, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	saleDate := s.clock.today()
	if input.SaleDate != "" {
		var err error
		saleDate, err = ParseDate("sale_date", input.SaleDate)
		if err != nil {
			return nil, err
		}
	}

	var sale *models.Sale
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		sold, err := s.saleRepo.ExistsByArticle(ctx, input.Article)
		if err != nil {
			return err
		}
		if sold {
			return domain.ErrItemAlreadySold
		}

		item, err := s.unclaimedRepo.GetByArticle(ctx, input.Article)
		if err != nil {
			return notFound(err, domain.ErrUnclaimedNotFound)
		}

		seller, err := s.employeeRepo.GetByID(ctx, input.SellerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		if !seller.IsActive() || seller.Role != domain.RoleSalesManager.String() {
			return domain.ErrSellerNotSalesperson
		}

		code, err := s.saleRepo.NextCode(ctx)
		if err != nil {
			return err
		}

		sale = &models.Sale{
			Code:          code,
			SaleDate:      models.Date(saleDate),
			ArticleNumber: input.Article,
			SellerID:      seller.ID,
			Item:          item,
			Seller:        seller,
		}
		return s.saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info("sale recorded", "code", sale.Code, "article", sale.ArticleNumber, "seller_id", sale.SellerID)
	return sale, nil
}

// ListUnsold returns unclaimed items without a sale
func (s *SaleService) ListUnsold(ctx context.Context) ([]*models.UnclaimedItemResponse, error) {
	rows, _, err := s.unclaimedRepo.List(ctx, repositories.UnclaimedFilter{UnsoldOnly: true})
	if err != nil {
		return nil, storeError(err)
	}
	result := make([]*models.UnclaimedItemResponse, len(rows))
	for i, row := range rows {
		result[i] = row.Item.ToResponse(row.Sold)
	}
	return result, nil
}

// ListSellers returns the employees allowed to appear as seller
func (s *SaleService) ListSellers(ctx context.Context) ([]*models.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActiveByRole(ctx, domain.RoleSalesManager.String())
	if err != nil {
		return nil, storeError(err)
	}
	result := make([]*models.EmployeeResponse, len(employees))
	for i, e := range employees {
		result[i] = e.ToResponse()
	}
	return result, nil
}

// SaleList is one page of sales
type SaleList struct {
	Sales []*models.SaleResponse `json:"sales"`
	Total int64                  `json:"total"`
}

// List lists sales within an optional date range
func (s *SaleService) List(ctx context.Context, filter repositories.SaleFilter) (*SaleList, error) {
	if filter.Order == "" {
		filter.Order = "desc"
	}
	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	result := &SaleList{
		Sales: make([]*models.SaleResponse, len(sales)),
		Total: total,
	}
	for i, sale := range sales {
		result.Sales[i] = sale.ToResponse()
	}
	return result, nil
}

// Get returns one sale
func (s *SaleService) Get(ctx context.Context, code uint) (*models.SaleResponse, error) {
	sale, err := s.saleRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, storeError(notFound(err, domain.ErrSaleNotFound))
	}
	return sale.ToResponse(), nil
}
