package repositories

import (
	"context"

	"prestanet/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PaymentRepository handles payment data access
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	return &payment, err
}

// ListByLoan lists all payments of a loan in stored order
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sequence_number ASC").
		Find(&payments).Error
	return payments, err
}

// SaveCanonical persists a freshly generated schedule together with the
// loan's status rollup in one transaction (first-write-wins).
func (r *PaymentRepository) SaveCanonical(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(payments) > 0 {
			if err := tx.Create(payments).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Loan{}).
			Where("id = ?", loanID).
			Updates(map[string]interface{}{
				"schedule_generated": true,
				"status":             loanStatus,
			}).Error
	})
}

// ApplyArrears writes the refreshed arrears fields of existing payments
// and the loan rollup in one transaction. Dates and amounts are never
// rewritten here.
func (r *PaymentRepository) ApplyArrears(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range payments {
			err := tx.Model(&models.Payment{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"status":          p.Status,
					"days_late":       p.DaysLate,
					"late_fee_amount": p.LateFeeAmount,
				}).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&models.Loan{}).
			Where("id = ?", loanID).
			Update("status", loanStatus).Error
	})
}

// Insert inserts a single payment row (the synthetic late-fee line)
func (r *PaymentRepository) Insert(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// UpdateStatus writes a user-triggered status transition
func (r *PaymentRepository) UpdateStatus(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":    payment.Status,
			"paid_date": payment.PaidDate,
		}).Error
}
