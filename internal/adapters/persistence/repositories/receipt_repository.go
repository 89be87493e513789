package repositories

import (
	"context"

	"prestanet/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ReceiptRepository handles receipt data access
type ReceiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create creates a new receipt record
func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// GetByID gets a receipt by ID
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error
	return &receipt, err
}

// ListByLoan lists receipts issued for a loan, newest first
func (r *ReceiptRepository) ListByLoan(ctx context.Context, loanID string) ([]*models.Receipt, error) {
	var receipts []*models.Receipt
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("issued_at DESC").
		Find(&receipts).Error
	return receipts, err
}

// CountForDay counts receipts issued on a given day, used for sequential
// receipt numbers
func (r *ReceiptRepository) CountForDay(ctx context.Context, dayPrefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("receipt_number LIKE ?", dayPrefix+"%").
		Count(&count).Error
	return count, err
}
