package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestanet/internal/core/domain"
)

func TestRunArrearsPassRefreshesScheduledLoans(t *testing.T) {
	f := newProjectionFixture(t, "2024-01-15")
	loanID := seedLoan(f)

	_, err := f.svc.GetProjection(context.Background(), loanID)
	require.NoError(t, err)

	// A loan without a stored schedule must be skipped.
	untouched := testLoanRow()
	untouched.ID = "loan-2"
	f.loanRepo.loans[untouched.ID] = untouched

	f.svc.now = fixedClock(t, "2024-03-10")

	cron := NewCronService(f.loanRepo, f.svc, "")
	require.NoError(t, cron.RunArrearsPass(context.Background()))

	assert.Equal(t, string(domain.StatusDelinquent), f.loanRepo.loans[loanID].Status)
	assert.False(t, f.loanRepo.loans["loan-2"].ScheduleGenerated)
	assert.Equal(t, 1, f.paymentRepo.saveCalls)
}

func TestRunArrearsPassSkipsSettledLoans(t *testing.T) {
	f := newProjectionFixture(t, "2024-01-15")
	loanID := seedLoan(f)

	_, err := f.svc.GetProjection(context.Background(), loanID)
	require.NoError(t, err)
	f.loanRepo.loans[loanID].Status = "paid"

	f.svc.now = fixedClock(t, "2024-03-10")

	cron := NewCronService(f.loanRepo, f.svc, "")
	require.NoError(t, cron.RunArrearsPass(context.Background()))

	assert.Equal(t, 0, f.paymentRepo.arrearsCalls)
}
