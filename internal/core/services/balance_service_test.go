package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestanet/internal/adapters/persistence/models"
)

func newBalanceService() (*BalanceService, *mockBalanceRepo) {
	repo := newMockBalanceRepo()
	return NewBalanceService(repo), repo
}

func TestCreateBalanceEntry(t *testing.T) {
	svc, repo := newBalanceService()

	entry, err := svc.Create(context.Background(), CreateEntryInput{
		Type:        models.BalanceAsset,
		Description: "Caja chica",
		Amount:      decimal.RequireFromString("1500.559"),
		EntryDate:   "2024-03-01",
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1500.56").Equal(entry.Amount))
	assert.Contains(t, repo.entries, entry.ID)
}

func TestCreateBalanceEntryValidation(t *testing.T) {
	svc, _ := newBalanceService()

	_, err := svc.Create(context.Background(), CreateEntryInput{
		Type: "equity", Amount: decimal.NewFromInt(100), EntryDate: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidEntryType)

	_, err = svc.Create(context.Background(), CreateEntryInput{
		Type: models.BalanceAsset, Amount: decimal.NewFromInt(-5), EntryDate: "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidEntryAmount)

	_, err = svc.Create(context.Background(), CreateEntryInput{
		Type: models.BalanceAsset, Amount: decimal.NewFromInt(100), EntryDate: "03/01/2024",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBalanceSummary(t *testing.T) {
	svc, _ := newBalanceService()

	seed := []CreateEntryInput{
		{Type: models.BalanceAsset, Description: "Caja", Amount: decimal.NewFromInt(5000), EntryDate: "2024-03-01"},
		{Type: models.BalanceAsset, Description: "Banco", Amount: decimal.NewFromInt(2500), EntryDate: "2024-03-01"},
		{Type: models.BalanceLiability, Description: "Prestamo bancario", Amount: decimal.NewFromInt(3000), EntryDate: "2024-03-01"},
	}
	for _, in := range seed {
		_, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(7500).Equal(summary.Assets), "got %s", summary.Assets)
	assert.True(t, decimal.NewFromInt(3000).Equal(summary.Liabilities), "got %s", summary.Liabilities)
	assert.True(t, decimal.NewFromInt(4500).Equal(summary.Net), "got %s", summary.Net)
}

func TestDeleteBalanceEntryNotFound(t *testing.T) {
	svc, _ := newBalanceService()

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBalanceEntryNotFound)
}
