package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

// Loan service errors
var (
	ErrLoanNotFound   = errors.New("loan not found")
	ErrScheduleLocked = errors.New("loan terms are locked once the schedule is persisted")
	ErrInvalidDate    = errors.New("invalid date format, use YYYY-MM-DD")
)

// LoanService handles loan business logic
type LoanService struct {
	loanRepo   LoanRepository
	clientRepo ClientRepository
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo LoanRepository, clientRepo ClientRepository) *LoanService {
	return &LoanService{
		loanRepo:   loanRepo,
		clientRepo: clientRepo,
	}
}

// CreateLoanInput represents create loan input
type CreateLoanInput struct {
	ClientID      string
	Principal     decimal.Decimal
	InterestRate  decimal.Decimal
	InterestBasis string
	TermMonths    int
	Frequency     string
	StartDate     string
	LateFeeRate   decimal.Decimal
	LateFeeBasis  string
}

// Create creates a new loan after validating the terms through the
// schedule engine, so a loan that cannot produce a schedule is rejected
// up front
func (s *LoanService) Create(ctx context.Context, input *CreateLoanInput) (*models.Loan, error) {
	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil || client == nil {
		return nil, ErrClientNotFound
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	terms := domain.Loan{
		ID:            uuid.NewString(),
		ClientID:      input.ClientID,
		Principal:     input.Principal,
		InterestRate:  input.InterestRate,
		InterestBasis: domain.InterestBasis(input.InterestBasis),
		TermMonths:    input.TermMonths,
		Frequency:     domain.PaymentFrequency(input.Frequency),
		StartDate:     startDate,
		LateFeeRate:   input.LateFeeRate,
		LateFeeBasis:  domain.LateFeeBasis(input.LateFeeBasis),
	}
	if err := domain.ValidateTerms(terms); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ID:            terms.ID,
		ClientID:      terms.ClientID,
		Principal:     terms.Principal,
		InterestRate:  terms.InterestRate,
		InterestBasis: string(terms.InterestBasis),
		TermMonths:    terms.TermMonths,
		Frequency:     string(terms.Frequency),
		StartDate:     domain.DateOnly(startDate),
		LateFeeRate:   terms.LateFeeRate,
		LateFeeBasis:  string(terms.LateFeeBasis),
		LateFeeAmount: decimal.Zero,
		Status:        string(domain.StatusPending),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// List lists loans with pagination and an optional status filter
func (s *LoanService) List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error) {
	if status != "" && !domain.Status(status).Valid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.loanRepo.List(ctx, status, offset, limit)
}

// ListByClient lists loans belonging to a client
func (s *LoanService) ListByClient(ctx context.Context, clientID string) ([]*models.Loan, error) {
	return s.loanRepo.ListByClient(ctx, clientID)
}

// UpdateLoanInput represents update loan input. Terms can only change
// while no schedule has been persisted.
type UpdateLoanInput struct {
	Principal    *decimal.Decimal
	InterestRate *decimal.Decimal
	TermMonths   *int
	Frequency    *string
	StartDate    *string
	LateFeeRate  *decimal.Decimal
	LateFeeBasis *string
}

// Update updates loan terms before schedule generation
func (s *LoanService) Update(ctx context.Context, id string, input *UpdateLoanInput) (*models.Loan, error) {
	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.ScheduleGenerated {
		return nil, ErrScheduleLocked
	}

	if input.Principal != nil {
		loan.Principal = *input.Principal
	}
	if input.InterestRate != nil {
		loan.InterestRate = *input.InterestRate
	}
	if input.TermMonths != nil {
		loan.TermMonths = *input.TermMonths
	}
	if input.Frequency != nil {
		loan.Frequency = *input.Frequency
	}
	if input.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *input.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		loan.StartDate = domain.DateOnly(startDate)
	}
	if input.LateFeeRate != nil {
		loan.LateFeeRate = *input.LateFeeRate
	}
	if input.LateFeeBasis != nil {
		loan.LateFeeBasis = *input.LateFeeBasis
	}

	if err := domain.ValidateTerms(loan.ToDomain()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete deletes a loan together with its payments
func (s *LoanService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.loanRepo.Delete(ctx, id)
}
