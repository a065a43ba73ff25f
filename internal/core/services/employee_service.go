package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/access"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/password"
	"pawnledger/internal/pkg/transaction"
)

// EmployeeService handles staff records. Employees are dismissed, never deleted.
type EmployeeService struct {
	txManager    *transaction.Manager
	employeeRepo repositories.EmployeeRepository
	clock        Clock
	log          *slog.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(txManager *transaction.Manager, employeeRepo repositories.EmployeeRepository, clock Clock) *EmployeeService {
	return &EmployeeService{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		clock:        clock,
		log:          logger.WithComponent("employees"),
	}
}

// EmployeeInput represents create/update employee input.
// On update an empty Password keeps the stored one.
type EmployeeInput struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required"`
	HireDate string `json:"hire_date" validate:"required"`
	Phone    string `json:"phone" validate:"required,max=16"`
	Login    string `json:"login" validate:"omitempty,max=50"`
	Password string `json:"password,omitempty"`
}

func (in *EmployeeInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Role = strings.TrimSpace(in.Role)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Login = strings.TrimSpace(in.Login)
}

func (s *EmployeeService) checkInput(input *EmployeeInput) error {
	input.normalize()
	if err := validateInput(input); err != nil {
		return err
	}
	if !domain.Role(input.Role).IsValid() {
		return domain.NewValidationError("role must be one of: Administrator, Merchandise Manager, Appraiser-Merchandiser, Sales Manager")
	}
	if _, err := ParseDate("hire_date", input.HireDate); err != nil {
		return err
	}
	if input.Password != "" {
		if err := password.Validate(input.Password); err != nil {
			return domain.NewValidationError(err.Error())
		}
	}
	return nil
}

// checkUnique enforces the single Administrator and login/phone uniqueness.
// excludeID is the employee being edited, zero on create.
func (s *EmployeeService) checkUnique(ctx context.Context, input *EmployeeInput, excludeID uint) error {
	if domain.Role(input.Role) == domain.RoleAdministrator {
		admins, err := s.employeeRepo.CountByRole(ctx, domain.RoleAdministrator.String(), excludeID)
		if err != nil {
			return err
		}
		if admins > 0 {
			return domain.ErrAdministratorExists
		}
	}

	if input.Login != "" {
		taken, err := s.employeeRepo.ExistsByLogin(ctx, input.Login, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateLogin
		}
	}

	taken, err := s.employeeRepo.ExistsByPhone(ctx, input.Phone, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDuplicatePhone
	}
	return nil
}

func (s *EmployeeService) apply(employee *models.Employee, input *EmployeeInput) error {
	hireDate, _ := ParseDate("hire_date", input.HireDate)

	employee.FullName = input.FullName
	employee.Role = input.Role
	employee.HireDate = models.Date(hireDate)
	employee.Phone = input.Phone
	employee.Login = nil
	if input.Login != "" {
		login := input.Login
		employee.Login = &login
	}

	if input.Password != "" {
		hash, err := password.Hash(input.Password)
		if err != nil {
			return err
		}
		employee.PasswordHash = &hash
	}
	return nil
}

// Create adds an employee under the next sequential ID
func (s *EmployeeService) Create(ctx context.Context, input *EmployeeInput) (*models.Employee, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	var employee *models.Employee
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, input, 0); err != nil {
			return err
		}

		id, err := s.employeeRepo.NextID(ctx)
		if err != nil {
			return err
		}

		employee = &models.Employee{ID: id}
		if err := s.apply(employee, input); err != nil {
			return err
		}
		return s.employeeRepo.Create(ctx, employee)
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info("employee created", "id", employee.ID, "role", employee.Role)
	return employee, nil
}

// Update edits an employee. The sole Administrator keeps the role.
func (s *EmployeeService) Update(ctx context.Context, id uint, input *EmployeeInput) (*models.Employee, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	var employee *models.Employee
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		var err error
		employee, err = s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrEmployeeNotFound)
		}

		if employee.Role == domain.RoleAdministrator.String() && input.Role != employee.Role {
			return domain.ErrAdminRoleLocked
		}
		if err := s.checkUnique(ctx, input, id); err != nil {
			return err
		}

		if err := s.apply(employee, input); err != nil {
			return err
		}
		return s.employeeRepo.Update(ctx, employee)
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info("employee updated", "id", employee.ID)
	return employee, nil
}

// Dismiss sets the termination date to today. The Administrator cannot be dismissed.
func (s *EmployeeService) Dismiss(ctx context.Context, id uint) (*models.Employee, error) {
	var employee *models.Employee
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		var err error
		employee, err = s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrEmployeeNotFound)
		}
		if employee.Role == domain.RoleAdministrator.String() {
			return domain.ErrCannotDismissAdmin
		}
		if !employee.IsActive() {
			return domain.ErrEmployeeAlreadyDismissed
		}

		today := models.Date(s.clock.today())
		employee.TerminationDate = &today
		return s.employeeRepo.Update(ctx, employee)
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info("employee dismissed", "id", employee.ID)
	return employee, nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(notFound(err, domain.ErrEmployeeNotFound))
	}
	return employee, nil
}

// EmployeeList is one page of employees plus the roles available for filtering
type EmployeeList struct {
	Employees []*models.EmployeeResponse `json:"employees"`
	Total     int64                      `json:"total"`
	Roles     []string                   `json:"roles"`
}

// List lists employees with role/status filters, search and sorting
func (s *EmployeeService) List(ctx context.Context, filter repositories.EmployeeFilter) (*EmployeeList, error) {
	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	roles, err := s.employeeRepo.DistinctRoles(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	result := &EmployeeList{
		Employees: make([]*models.EmployeeResponse, len(employees)),
		Total:     total,
		Roles:     roles,
	}
	for i, e := range employees {
		result.Employees[i] = e.ToResponse()
	}
	return result, nil
}

// ResolveActive returns the identity of a current, non-dismissed employee.
// It backs the access gate, so it always reads the live row.
func (s *EmployeeService) ResolveActive(ctx context.Context, employeeID uint) (*access.Identity, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}
	if !employee.IsActive() {
		return nil, domain.ErrInactiveAccount
	}
	return &access.Identity{
		EmployeeID: employee.ID,
		FullName:   employee.FullName,
		Role:       domain.Role(employee.Role),
	}, nil
}
