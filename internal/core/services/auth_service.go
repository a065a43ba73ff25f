package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/jwt"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/password"
)

// AuthConfig holds session token settings
type AuthConfig struct {
	Secret        string
	ExpiryMinutes int
}

// AuthService handles employee login
type AuthService struct {
	employeeRepo repositories.EmployeeRepository
	cfg          AuthConfig
	log          *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(employeeRepo repositories.EmployeeRepository, cfg AuthConfig) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		cfg:          cfg,
		log:          logger.WithComponent("auth"),
	}
}

// LoginInput represents login input
type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Employee    *models.EmployeeResponse `json:"employee"`
	AccessToken string                   `json:"access_token"`
	ExpiresAt   time.Time                `json:"expires_at"`
}

// Login checks credentials and issues a session token.
// Dismissed employees and employees without credentials are refused.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	input.Login = strings.TrimSpace(input.Login)
	if err := validateInput(input); err != nil {
		return nil, domain.NewValidationError("please enter login and password")
	}

	employee, err := s.employeeRepo.GetByLogin(ctx, input.Login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError(err)
	}

	if employee.PasswordHash == nil || *employee.PasswordHash == "" {
		return nil, domain.ErrCredentialsNotSet
	}
	if !password.Verify(input.Password, *employee.PasswordHash) {
		s.log.Warn("login failed", "login", input.Login)
		return nil, domain.ErrInvalidCredentials
	}
	if !employee.IsActive() {
		return nil, domain.ErrInactiveAccount
	}

	token, expiresAt, err := jwt.GenerateAccessToken(employee.ID, input.Login, employee.Role, s.cfg.Secret, s.cfg.ExpiryMinutes)
	if err != nil {
		return nil, domain.NewInternalError("failed to issue session token", err)
	}

	s.log.Info("employee logged in", "employee_id", employee.ID)
	return &AuthResponse{
		Employee:    employee.ToResponse(),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ParseToken returns the employee ID carried by a session token
func (s *AuthService) ParseToken(token string) (uint, error) {
	claims, err := jwt.ValidateAccessToken(token, s.cfg.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, &domain.AppError{Kind: domain.KindUnauthorized, Message: "session expired"}
		}
		return 0, &domain.AppError{Kind: domain.KindUnauthorized, Message: "invalid session token"}
	}
	return claims.EmployeeID, nil
}
