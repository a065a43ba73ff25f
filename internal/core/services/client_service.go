package services

import (
	"context"
	"log/slog"
	"strings"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/logger"
	"pawnledger/internal/pkg/transaction"
)

// ClientService handles client records
type ClientService struct {
	txManager  *transaction.Manager
	clientRepo repositories.ClientRepository
	log        *slog.Logger
}

// NewClientService creates a new client service
func NewClientService(txManager *transaction.Manager, clientRepo repositories.ClientRepository) *ClientService {
	return &ClientService{
		txManager:  txManager,
		clientRepo: clientRepo,
		log:        logger.WithComponent("clients"),
	}
}

// ClientInput represents create/update client input
type ClientInput struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=16"`
}

func (in *ClientInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
}

// Create adds a client under the next sequential ID
func (s *ClientService) Create(ctx context.Context, input *ClientInput) (*models.Client, error) {
	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var client *models.Client
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		taken, err := s.clientRepo.ExistsByPhone(ctx, input.Phone, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicatePhone
		}

		id, err := s.clientRepo.NextID(ctx)
		if err != nil {
			return err
		}

		client = &models.Client{
			ID:       id,
			FullName: input.FullName,
			Phone:    input.Phone,
		}
		return s.clientRepo.Create(ctx, client)
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info("client created", "id", client.ID)
	return client, nil
}

// Update changes a client's name and phone
func (s *ClientService) Update(ctx context.Context, id uint, input *ClientInput) (*models.Client, error) {
	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var client *models.Client
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		var err error
		client, err = s.clientRepo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrClientNotFound)
		}

		taken, err := s.clientRepo.ExistsByPhone(ctx, input.Phone, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicatePhone
		}

		client.FullName = input.FullName
		client.Phone = input.Phone
		return s.clientRepo.Update(ctx, client)
	})
	if err != nil {
		return nil, storeError(err)
	}
	return client, nil
}

// Delete removes a client. The store refuses when loans still reference it.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	err := s.txManager.Run(ctx, func(ctx context.Context) error {
		if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
			return notFound(err, domain.ErrClientNotFound)
		}
		return s.clientRepo.Delete(ctx, id)
	})
	if err != nil {
		return storeError(err)
	}

	s.log.Info("client deleted", "id", id)
	return nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(notFound(err, domain.ErrClientNotFound))
	}
	return client, nil
}

// List lists clients with search and sorting
func (s *ClientService) List(ctx context.Context, params repositories.ListParams) ([]*models.Client, int64, error) {
	clients, total, err := s.clientRepo.List(ctx, params)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return clients, total, nil
}
