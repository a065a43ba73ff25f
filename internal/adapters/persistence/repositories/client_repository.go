package repositories

import (
	"context"

	"gorm.io/gorm"

	"pawnledger/internal/adapters/persistence/models"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

var clientSortColumns = map[string]string{
	"id":        "id",
	"full_name": "full_name",
	"phone":     "phone",
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return conn(ctx, r.db).Create(client).Error
}

// GetByID gets a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := conn(ctx, r.db).Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Update updates a client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return conn(ctx, r.db).Save(client).Error
}

// Delete deletes a client; loans referencing it make the store refuse
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Client{}, id).Error
}

// List lists clients matching the search term
func (r *clientRepository) List(ctx context.Context, params ListParams) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	q := conn(ctx, r.db).Model(&models.Client{})
	if params.Search != "" {
		pattern := likePattern(params.Search)
		cond := r.db.Where("LOWER(full_name) LIKE ?", pattern).
			Or("phone LIKE ?", pattern).
			Or("CAST(id AS CHAR) LIKE ?", pattern)
		if n, ok := searchInt(params.Search); ok {
			cond = cond.Or("id = ?", n)
		}
		q = q.Where(cond)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = applyOrder(q, clientSortColumns, params.Sort, params.Order, "id")
	if err := applyPage(q, params).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// NextID returns the next sequential client ID
func (r *clientRepository) NextID(ctx context.Context) (uint, error) {
	return nextKey(ctx, r.db, &models.Client{}, "id")
}

// ExistsByPhone checks if another client uses phone
func (r *clientRepository) ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Client{}).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Count counts all clients
func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Client{}).Count(&count).Error
	return count, err
}
