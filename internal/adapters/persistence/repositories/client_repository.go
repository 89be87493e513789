package repositories

import (
	"context"

	"prestanet/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ClientRepository handles client data access
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID gets a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	return &client, err
}

// List lists clients with pagination
func (r *ClientRepository) List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	r.db.WithContext(ctx).Model(&models.Client{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error

	return clients, total, err
}

// Update updates a client
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete soft deletes a client
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}
