package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

func newLoanService() (*LoanService, *mockLoanRepo, *mockClientRepo) {
	loanRepo := newMockLoanRepo()
	clientRepo := newMockClientRepo()
	clientRepo.clients["client-1"] = &models.Client{ID: "client-1", Name: "Maria Lopez"}
	return NewLoanService(loanRepo, clientRepo), loanRepo, clientRepo
}

func validLoanInput() *CreateLoanInput {
	return &CreateLoanInput{
		ClientID:      "client-1",
		Principal:     decimal.NewFromInt(1000),
		InterestRate:  decimal.NewFromInt(10),
		InterestBasis: "flat",
		TermMonths:    12,
		Frequency:     "monthly",
		StartDate:     "2024-01-01",
		LateFeeRate:   decimal.NewFromInt(10),
		LateFeeBasis:  "monthly",
	}
}

func TestCreateLoan(t *testing.T) {
	svc, repo, _ := newLoanService()

	loan, err := svc.Create(context.Background(), validLoanInput())
	require.NoError(t, err)

	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, string(domain.StatusPending), loan.Status)
	assert.False(t, loan.ScheduleGenerated)
	assert.Contains(t, repo.loans, loan.ID)
}

func TestCreateLoanUnknownClient(t *testing.T) {
	svc, _, _ := newLoanService()

	input := validLoanInput()
	input.ClientID = "missing"
	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreateLoanInvalidTerms(t *testing.T) {
	svc, _, _ := newLoanService()

	cases := []struct {
		name    string
		mutate  func(*CreateLoanInput)
		wantErr error
	}{
		{"zero principal", func(in *CreateLoanInput) { in.Principal = decimal.Zero }, domain.ErrInvalidPrincipal},
		{"negative rate", func(in *CreateLoanInput) { in.InterestRate = decimal.NewFromInt(-1) }, domain.ErrInvalidInterestRate},
		{"zero term", func(in *CreateLoanInput) { in.TermMonths = 0 }, domain.ErrInvalidTerm},
		{"bad frequency", func(in *CreateLoanInput) { in.Frequency = "hourly" }, domain.ErrInvalidFrequency},
		{"bad basis", func(in *CreateLoanInput) { in.InterestBasis = "compound" }, domain.ErrInvalidInterestBasis},
		{"bad date", func(in *CreateLoanInput) { in.StartDate = "01/01/2024" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validLoanInput()
			tc.mutate(input)
			_, err := svc.Create(context.Background(), input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateLoanBeforeSchedule(t *testing.T) {
	svc, _, _ := newLoanService()

	loan, err := svc.Create(context.Background(), validLoanInput())
	require.NoError(t, err)

	principal := decimal.NewFromInt(2000)
	updated, err := svc.Update(context.Background(), loan.ID, &UpdateLoanInput{Principal: &principal})
	require.NoError(t, err)

	assert.True(t, principal.Equal(updated.Principal))
}

func TestUpdateLoanLockedAfterSchedule(t *testing.T) {
	svc, repo, _ := newLoanService()

	loan, err := svc.Create(context.Background(), validLoanInput())
	require.NoError(t, err)
	repo.loans[loan.ID].ScheduleGenerated = true

	principal := decimal.NewFromInt(2000)
	_, err = svc.Update(context.Background(), loan.ID, &UpdateLoanInput{Principal: &principal})
	assert.ErrorIs(t, err, ErrScheduleLocked)
}

func TestUpdateLoanRevalidatesTerms(t *testing.T) {
	svc, _, _ := newLoanService()

	loan, err := svc.Create(context.Background(), validLoanInput())
	require.NoError(t, err)

	bad := decimal.NewFromInt(150)
	_, err = svc.Update(context.Background(), loan.ID, &UpdateLoanInput{InterestRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInterestRate)
}

func TestListLoansInvalidStatusFilter(t *testing.T) {
	svc, _, _ := newLoanService()

	_, _, err := svc.List(context.Background(), "bogus", 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteLoan(t *testing.T) {
	svc, repo, _ := newLoanService()

	loan, err := svc.Create(context.Background(), validLoanInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), loan.ID))
	assert.NotContains(t, repo.loans, loan.ID)

	err = svc.Delete(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ErrLoanNotFound)
}
