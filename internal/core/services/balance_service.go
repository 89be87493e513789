package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
)

// Balance service errors
var (
	ErrBalanceEntryNotFound = errors.New("balance entry not found")
	ErrInvalidEntryType     = errors.New("entry type must be asset or liability")
	ErrInvalidEntryAmount   = errors.New("entry amount must be positive")
)

// BalanceService manages the asset/liability ledger
type BalanceService struct {
	balanceRepo BalanceRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(balanceRepo BalanceRepository) *BalanceService {
	return &BalanceService{balanceRepo: balanceRepo}
}

// CreateEntryInput holds the fields to record a balance entry
type CreateEntryInput struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   string          `json:"entry_date"`
}

func validEntryType(t string) bool {
	return t == models.BalanceAsset || t == models.BalanceLiability
}

// Create records a new asset or liability entry
func (s *BalanceService) Create(ctx context.Context, input CreateEntryInput) (*models.BalanceEntry, error) {
	if !validEntryType(input.Type) {
		return nil, ErrInvalidEntryType
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidEntryAmount
	}
	entryDate, err := time.Parse("2006-01-02", input.EntryDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	entry := &models.BalanceEntry{
		ID:          uuid.NewString(),
		Type:        input.Type,
		Description: input.Description,
		Amount:      input.Amount.Round(2),
		EntryDate:   entryDate,
	}
	if err := s.balanceRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByID returns one balance entry
func (s *BalanceService) GetByID(ctx context.Context, id string) (*models.BalanceEntry, error) {
	entry, err := s.balanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// List returns balance entries, optionally filtered by type
func (s *BalanceService) List(ctx context.Context, entryType string, offset, limit int) ([]*models.BalanceEntry, int64, error) {
	if entryType != "" && !validEntryType(entryType) {
		return nil, 0, ErrInvalidEntryType
	}
	return s.balanceRepo.List(ctx, entryType, offset, limit)
}

// Delete removes a balance entry
func (s *BalanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.balanceRepo.Delete(ctx, id)
}

// Summary totals the ledger by type
type BalanceSummary struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Net         decimal.Decimal `json:"net"`
}

// Summary returns total assets, liabilities and their difference
func (s *BalanceService) Summary(ctx context.Context) (*BalanceSummary, error) {
	assets, err := s.balanceRepo.SumByType(ctx, models.BalanceAsset)
	if err != nil {
		return nil, err
	}
	liabilities, err := s.balanceRepo.SumByType(ctx, models.BalanceLiability)
	if err != nil {
		return nil, err
	}
	return &BalanceSummary{
		Assets:      assets,
		Liabilities: liabilities,
		Net:         assets.Sub(liabilities),
	}, nil
}
