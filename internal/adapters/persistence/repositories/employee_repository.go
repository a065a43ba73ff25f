package repositories

import (
	"context"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

var employeeSortColumns = map[string]string{
	"id":        "id",
	"full_name": "full_name",
	"role":      "role",
	"hire_date": "hire_date",
}

// Create creates a new employee
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return conn(ctx, r.db).Create(employee).Error
}

// GetByID gets an employee by ID
func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := conn(ctx, r.db).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByLogin gets an employee by login
func (r *employeeRepository) GetByLogin(ctx context.Context, login string) (*models.Employee, error) {
	var employee models.Employee
	err := conn(ctx, r.db).Where("login = ?", login).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Update updates an employee
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return conn(ctx, r.db).Save(employee).Error
}

// List lists employees with role/status filters and search
func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	q := conn(ctx, r.db).Model(&models.Employee{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	switch filter.Status {
	case "active":
		q = q.Where("termination_date IS NULL")
	case "dismissed":
		q = q.Where("termination_date IS NOT NULL")
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		cond := r.db.Where("LOWER(full_name) LIKE ?", pattern).
			Or("phone LIKE ?", pattern).
			Or("LOWER(login) LIKE ?", pattern)
		if n, ok := searchInt(filter.Search); ok {
			cond = cond.Or("id = ?", n)
		}
		q = q.Where(cond)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyOrder(q, employeeSortColumns, filter.Sort, filter.Order, "id")
	if err := applyPage(q, filter.ListParams).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListActiveByRole lists active employees holding role
func (r *employeeRepository) ListActiveByRole(ctx context.Context, role string) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := conn(ctx, r.db).
		Where("role = ? AND termination_date IS NULL", role).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

// DistinctRoles returns the roles currently held by any employee
func (r *employeeRepository) DistinctRoles(ctx context.Context) ([]string, error) {
	var roles []string
	err := conn(ctx, r.db).Model(&models.Employee{}).
		Distinct("role").
		Order("role ASC").
		Pluck("role", &roles).Error
	return roles, err
}

// NextID returns the next sequential employee ID
func (r *employeeRepository) NextID(ctx context.Context) (uint, error) {
	return nextKey(ctx, r.db, &models.Employee{}, "id")
}

// ExistsByLogin checks if another employee uses login
func (r *employeeRepository) ExistsByLogin(ctx context.Context, login string, excludeID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Employee{}).
		Where("login = ? AND id <> ?", login, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if another employee uses phone
func (r *employeeRepository) ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Employee{}).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountByRole counts employees holding role, ignoring excludeID
func (r *employeeRepository) CountByRole(ctx context.Context, role string, excludeID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Employee{}).
		Where("role = ? AND id <> ?", role, excludeID).
		Count(&count).Error
	return count, err
}

// Count counts all employees
func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Employee{}).Count(&count).Error
	return count, err
}
