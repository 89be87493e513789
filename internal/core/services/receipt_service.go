package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

// Receipt service errors
var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrPaymentNotPaid  = errors.New("receipts can only be issued for paid payments")
)

// ReceiptService issues numbered receipts for paid installments
type ReceiptService struct {
	receiptRepo ReceiptRepository
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	now         func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(receiptRepo ReceiptRepository, loanRepo LoanRepository, paymentRepo PaymentRepository) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// nextReceiptNumber builds a day-scoped sequential number, e.g.
// REC-20260901-0003.
func (s *ReceiptService) nextReceiptNumber(ctx context.Context) (string, error) {
	day := s.now().Format("20060102")
	prefix := "REC-" + day + "-"
	count, err := s.receiptRepo.CountForDay(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Issue creates a receipt for a paid payment, recording the loan
// balance before and after that installment.
func (s *ReceiptService) Issue(ctx context.Context, loanID, paymentID string) (*models.Receipt, error) {
	loanRow, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.LoanID != loanID {
		return nil, ErrPaymentNotInLoan
	}
	if payment.Status != string(domain.StatusPaid) {
		return nil, ErrPaymentNotPaid
	}

	rows, err := s.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	previous := s.balanceBefore(loanRow, rows, payment.SequenceNumber)
	remaining := previous.Sub(payment.Amount).Round(2)

	number, err := s.nextReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &models.Receipt{
		ID:               uuid.NewString(),
		ReceiptNumber:    number,
		LoanID:           loanID,
		PaymentID:        paymentID,
		Amount:           payment.Amount,
		PreviousBalance:  previous,
		RemainingBalance: remaining,
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// balanceBefore is the total payable minus every scheduled installment
// before seq. Late fee lines are outside the amortized total.
func (s *ReceiptService) balanceBefore(loanRow *models.Loan, rows []*models.Payment, seq int) decimal.Decimal {
	balance := loanRow.ToDomain().TotalPayable()
	for _, row := range rows {
		if row.IsLateFeeLine || row.SequenceNumber >= seq {
			continue
		}
		balance = balance.Sub(row.Amount)
	}
	return balance.Round(2)
}

// GetByID returns one receipt
func (s *ReceiptService) GetByID(ctx context.Context, id string) (*models.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return receipt, nil
}

// ListByLoan returns all receipts issued against a loan
func (s *ReceiptService) ListByLoan(ctx context.Context, loanID string) ([]*models.Receipt, error) {
	return s.receiptRepo.ListByLoan(ctx, loanID)
}
