package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pawnledger/internal/core/domain"
)

// ============================================================
// Parties
// ============================================================

// Client represents clients table
type Client struct {
	ID       uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Phone    string `gorm:"size:16;not null;uniqueIndex:idx_clients_phone" json:"phone"`
}

func (Client) TableName() string {
	return "clients"
}

// Employee represents employees table. Employees are never hard-deleted;
// dismissal sets TerminationDate.
type Employee struct {
	ID              uint            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FullName        string          `gorm:"size:100;not null" json:"full_name"`
	Role            string          `gorm:"size:50;not null;index" json:"role"`
	HireDate        datatypes.Date  `gorm:"not null" json:"hire_date"`
	TerminationDate *datatypes.Date `json:"termination_date"`
	Phone           string          `gorm:"size:16;not null;uniqueIndex:idx_employees_phone" json:"phone"`
	Login           *string         `gorm:"size:50;uniqueIndex:idx_employees_login" json:"login"`
	PasswordHash    *string         `gorm:"size:255" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// IsActive reports whether the employee has not been dismissed
func (e *Employee) IsActive() bool {
	return e.TerminationDate == nil
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	ID              uint       `json:"id"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	HireDate        time.Time  `json:"hire_date"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`
	Phone           string     `json:"phone"`
	Login           string     `json:"login,omitempty"`
	IsActive        bool       `json:"is_active"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	resp := &EmployeeResponse{
		ID:       e.ID,
		FullName: e.FullName,
		Role:     e.Role,
		HireDate: time.Time(e.HireDate),
		Phone:    e.Phone,
		IsActive: e.IsActive(),
	}
	if e.TerminationDate != nil {
		t := time.Time(*e.TerminationDate)
		resp.TerminationDate = &t
	}
	if e.Login != nil {
		resp.Login = *e.Login
	}
	return resp
}

// ============================================================
// Lending
// ============================================================

// InterestRate is the (condition, term) to percentage lookup.
// Rows are immutable once written.
type InterestRate struct {
	Index          uint            `gorm:"column:rate_index;primaryKey;autoIncrement:false" json:"index"`
	ConditionScore decimal.Decimal `gorm:"type:decimal(4,2);not null;uniqueIndex:idx_rate_condition_term,priority:1" json:"condition_score"`
	TermMonths     decimal.Decimal `gorm:"type:decimal(4,2);not null;uniqueIndex:idx_rate_condition_term,priority:2" json:"term_months"`
	Percentage     decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"percentage"`
}

func (InterestRate) TableName() string {
	return "interest_rates"
}

// Loan represents loans table. ArticleNumber always equals Code.
type Loan struct {
	Code              uint            `gorm:"primaryKey;autoIncrement:false" json:"code"`
	OriginationDate   datatypes.Date  `gorm:"not null;index" json:"origination_date"`
	ClientID          uint            `gorm:"not null;index" json:"client_id"`
	Principal         decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"principal"`
	InterestRateIndex uint            `gorm:"not null" json:"interest_rate_index"`
	TermMonths        decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"term_months"`
	Status            string          `gorm:"size:20;not null;index" json:"status"`
	ConditionScore    decimal.Decimal `gorm:"type:decimal(4,2);not null" json:"condition_score"`
	ArticleNumber     uint            `gorm:"not null;uniqueIndex:idx_loans_article" json:"article_number"`
	ItemName          string          `gorm:"size:200;not null" json:"item_name"`
	ItemCategory      string          `gorm:"size:100;not null" json:"item_category"`
	PhysicalCondition string          `gorm:"size:50;not null" json:"physical_condition"`
	EmployeeID        uint            `gorm:"not null;index" json:"employee_id"`

	// Relations
	Client       *Client       `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Employee     *Employee     `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"employee,omitempty"`
	InterestRate *InterestRate `gorm:"foreignKey:InterestRateIndex;references:Index;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"interest_rate,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// WholeTermMonths returns the integer part of the term
func (l *Loan) WholeTermMonths() int {
	return int(l.TermMonths.IntPart())
}

// MaturityDate returns origination plus the whole months of the term
func (l *Loan) MaturityDate() time.Time {
	return domain.MaturityDate(time.Time(l.OriginationDate), l.WholeTermMonths())
}

// LoanResponse DTO
type LoanResponse struct {
	Code              uint            `json:"code"`
	ArticleNumber     uint            `json:"article_number"`
	OriginationDate   time.Time       `json:"origination_date"`
	MaturityDate      time.Time       `json:"maturity_date"`
	DaysLeft          *int            `json:"days_left,omitempty"`
	ClientID          uint            `json:"client_id"`
	ClientName        string          `json:"client_name,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	InterestRateIndex uint            `json:"interest_rate_index"`
	Percentage        decimal.Decimal `json:"percentage"`
	TermMonths        decimal.Decimal `json:"term_months"`
	Status            string          `json:"status"`
	ConditionScore    decimal.Decimal `json:"condition_score"`
	ItemName          string          `json:"item_name"`
	ItemCategory      string          `json:"item_category"`
	PhysicalCondition string          `json:"physical_condition"`
	EmployeeID        uint            `json:"employee_id"`
	EmployeeName      string          `json:"employee_name,omitempty"`
}

// ToResponse builds the DTO. today is used for DaysLeft on active loans.
func (l *Loan) ToResponse(today time.Time) *LoanResponse {
	resp := &LoanResponse{
		Code:              l.Code,
		ArticleNumber:     l.ArticleNumber,
		OriginationDate:   time.Time(l.OriginationDate),
		MaturityDate:      l.MaturityDate(),
		ClientID:          l.ClientID,
		Principal:         l.Principal,
		InterestRateIndex: l.InterestRateIndex,
		TermMonths:        l.TermMonths,
		Status:            l.Status,
		ConditionScore:    l.ConditionScore,
		ItemName:          l.ItemName,
		ItemCategory:      l.ItemCategory,
		PhysicalCondition: l.PhysicalCondition,
		EmployeeID:        l.EmployeeID,
	}

	if l.Status == domain.LoanStatusActive.String() {
		days := domain.DaysLeft(time.Time(l.OriginationDate), l.WholeTermMonths(), today)
		resp.DaysLeft = &days
	}
	if l.Client != nil {
		resp.ClientName = l.Client.FullName
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.InterestRate != nil {
		resp.Percentage = l.InterestRate.Percentage
	}

	return resp
}

// ============================================================
// Unredeemed collateral and resale
// ============================================================

// UnclaimedItem is the collateral of an overdue loan. Article equals the
// originating loan code; each loan converts at most once.
type UnclaimedItem struct {
	Article        uint            `gorm:"primaryKey;autoIncrement:false" json:"article"`
	LoanCode       uint            `gorm:"not null;uniqueIndex:idx_unclaimed_loan" json:"loan_code"`
	EstimatedValue decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"estimated_value"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"loan,omitempty"`
}

func (UnclaimedItem) TableName() string {
	return "unclaimed_items"
}

// UnclaimedItemResponse DTO. Sold is derived from the sales ledger.
type UnclaimedItemResponse struct {
	Article        uint            `json:"article"`
	LoanCode       uint            `json:"loan_code"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	ItemName       string          `json:"item_name,omitempty"`
	ItemCategory   string          `json:"item_category,omitempty"`
	ClientName     string          `json:"client_name,omitempty"`
	Sold           bool            `json:"sold"`
}

func (u *UnclaimedItem) ToResponse(sold bool) *UnclaimedItemResponse {
	resp := &UnclaimedItemResponse{
		Article:        u.Article,
		LoanCode:       u.LoanCode,
		EstimatedValue: u.EstimatedValue,
		Sold:           sold,
	}
	if u.Loan != nil {
		resp.ItemName = u.Loan.ItemName
		resp.ItemCategory = u.Loan.ItemCategory
		if u.Loan.Client != nil {
			resp.ClientName = u.Loan.Client.FullName
		}
	}
	return resp
}

// Sale represents sales table. An article appears in at most one sale.
type Sale struct {
	Code          uint           `gorm:"primaryKey;autoIncrement:false" json:"code"`
	SaleDate      datatypes.Date `gorm:"not null;index" json:"sale_date"`
	ArticleNumber uint           `gorm:"column:article;not null;uniqueIndex:idx_sales_article" json:"article"`
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`

	// Relations
	Item   *UnclaimedItem `gorm:"foreignKey:ArticleNumber;references:Article;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"item,omitempty"`
	Seller *Employee      `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"seller,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleResponse DTO
type SaleResponse struct {
	Code           uint             `json:"code"`
	SaleDate       time.Time        `json:"sale_date"`
	Article        uint             `json:"article"`
	SellerID       uint             `json:"seller_id"`
	SellerName     string           `json:"seller_name,omitempty"`
	ItemName       string           `json:"item_name,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
}

func (s *Sale) ToResponse() *SaleResponse {
	resp := &SaleResponse{
		Code:     s.Code,
		SaleDate: time.Time(s.SaleDate),
		Article:  s.ArticleNumber,
		SellerID: s.SellerID,
	}
	if s.Seller != nil {
		resp.SellerName = s.Seller.FullName
	}
	if s.Item != nil {
		resp.EstimatedValue = &s.Item.EstimatedValue
		if s.Item.Loan != nil {
			resp.ItemName = s.Item.Loan.ItemName
		}
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates the six entity tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Employee{},
		&InterestRate{},
		&Loan{},
		&UnclaimedItem{},
		&Sale{},
	)
}

// Date converts a calendar date into the column type
func Date(t time.Time) datatypes.Date {
	return datatypes.Date(domain.CalendarDate(t))
}
