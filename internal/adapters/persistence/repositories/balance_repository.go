package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
)

// BalanceRepository handles balance entry data access
type BalanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Create creates a new balance entry
func (r *BalanceRepository) Create(ctx context.Context, entry *models.BalanceEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets a balance entry by ID
func (r *BalanceRepository) GetByID(ctx context.Context, id string) (*models.BalanceEntry, error) {
	var entry models.BalanceEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return &entry, err
}

// List lists balance entries with pagination, optionally by type
func (r *BalanceRepository) List(ctx context.Context, entryType string, offset, limit int) ([]*models.BalanceEntry, int64, error) {
	var entries []*models.BalanceEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BalanceEntry{})
	if entryType != "" {
		query = query.Where("type = ?", entryType)
	}
	query.Count(&total)

	err := query.
		Order("entry_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// SumByType returns the total amount for one entry type
func (r *BalanceRepository) SumByType(ctx context.Context, entryType string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.BalanceEntry{}).
		Where("type = ?", entryType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

// Update updates a balance entry
func (r *BalanceRepository) Update(ctx context.Context, entry *models.BalanceEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete deletes a balance entry
func (r *BalanceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.BalanceEntry{}, "id = ?", id).Error
}
