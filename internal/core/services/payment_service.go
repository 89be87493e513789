package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

// Payment service errors
var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentNotInLoan  = errors.New("payment does not belong to this loan")
	ErrLateFeeLineLocked = errors.New("late fee line status cannot be changed directly")
)

// MutationState tracks the lifecycle of a status change. The in-memory
// record flips first; the persisted row follows, and on write failure
// the record is restored so callers never see a half-applied change.
type MutationState string

const (
	MutationApplying   MutationState = "applying"
	MutationCommitted  MutationState = "committed"
	MutationRolledBack MutationState = "rolled_back"
)

// StatusChange reports the outcome of a payment status mutation
type StatusChange struct {
	Payment    *models.PaymentResponse `json:"payment"`
	LoanStatus string                  `json:"loan_status"`
	State      MutationState           `json:"state"`
}

// PaymentService handles payment status mutations
type PaymentService struct {
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	projections *ProjectionService
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(loanRepo LoanRepository, paymentRepo PaymentRepository, projections *ProjectionService) *PaymentService {
	return &PaymentService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		projections: projections,
		now:         time.Now,
	}
}

// SetStatus changes one payment's status. Marking paid stamps the paid
// date with today; any other target clears it. The change is applied
// optimistically and rolled back if the write fails.
func (s *PaymentService) SetStatus(ctx context.Context, loanID, paymentID string, newStatus domain.Status) (*StatusChange, error) {
	row, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if row.LoanID != loanID {
		return nil, ErrPaymentNotInLoan
	}
	if row.IsLateFeeLine {
		return nil, ErrLateFeeLineLocked
	}

	before := row.ToDomain()
	after, err := domain.SetPaymentStatus(before, newStatus, s.now())
	if err != nil {
		return nil, err
	}

	change := &StatusChange{State: MutationApplying}

	updated := models.PaymentFromDomain(after)
	if err := s.paymentRepo.UpdateStatus(ctx, updated); err != nil {
		// Restore the pre-mutation record for the caller.
		change.Payment = models.PaymentFromDomain(before).ToResponse()
		change.State = MutationRolledBack
		return change, err
	}

	loanStatus, err := s.rollup(ctx, loanID)
	if err != nil {
		// The payment row is committed; only the rollup is stale. The
		// next projection pass recomputes it.
		loanStatus = ""
	}

	s.projections.InvalidateCache(ctx, loanID)

	change.Payment = updated.ToResponse()
	change.LoanStatus = loanStatus
	change.State = MutationCommitted
	return change, nil
}

// rollup recomputes and stores the loan status from all of its payments
func (s *PaymentService) rollup(ctx context.Context, loanID string) (string, error) {
	rows, err := s.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return "", err
	}
	payments := make([]domain.Payment, len(rows))
	for i, row := range rows {
		payments[i] = row.ToDomain()
	}
	status := string(domain.RollupStatus(payments))
	if err := s.loanRepo.UpdateStatus(ctx, loanID, status); err != nil {
		return "", err
	}
	return status, nil
}
