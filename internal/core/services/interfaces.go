package services

import (
	"context"

	"github.com/shopspring/decimal"

	"prestanet/internal/adapters/persistence/models"
)

// Repository interfaces live here so services can be exercised against
// in-memory implementations in tests.

// ClientRepository defines client data access
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

// LoanRepository defines loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Loan, error)
	ListWithSchedule(ctx context.Context) ([]*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines payment data access
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error)
	SaveCanonical(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error
	ApplyArrears(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error
	Insert(ctx context.Context, payment *models.Payment) error
	UpdateStatus(ctx context.Context, payment *models.Payment) error
}

// BalanceRepository defines balance entry data access
type BalanceRepository interface {
	Create(ctx context.Context, entry *models.BalanceEntry) error
	GetByID(ctx context.Context, id string) (*models.BalanceEntry, error)
	List(ctx context.Context, entryType string, offset, limit int) ([]*models.BalanceEntry, int64, error)
	SumByType(ctx context.Context, entryType string) (decimal.Decimal, error)
	Update(ctx context.Context, entry *models.BalanceEntry) error
	Delete(ctx context.Context, id string) error
}

// ReceiptRepository defines receipt data access
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	GetByID(ctx context.Context, id string) (*models.Receipt, error)
	ListByLoan(ctx context.Context, loanID string) ([]*models.Receipt, error)
	CountForDay(ctx context.Context, dayPrefix string) (int64, error)
}
