package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoan() Loan {
	return Loan{
		ID:            "loan-1",
		Principal:     decimal.NewFromInt(1000),
		InterestRate:  decimal.NewFromInt(10),
		InterestBasis: InterestFlat,
		TermMonths:    12,
		Frequency:     FrequencyMonthly,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LateFeeRate:   decimal.NewFromInt(10),
		LateFeeBasis:  LateFeeMonthly,
	}
}

func TestGenerateScheduleFlatMonthly(t *testing.T) {
	loan := testLoan()
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	payments, err := GenerateSchedule(loan, today)
	require.NoError(t, err)
	require.Len(t, payments, 12)

	// First due one month after start, never on the start date itself
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), payments[0].DueDate)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), payments[11].DueDate)

	for i, p := range payments {
		assert.Equal(t, i+1, p.SequenceNumber)
		assert.True(t, p.Amount.Equal(decimal.RequireFromString("91.67")), "installment %d amount %s", i+1, p.Amount)
		assert.Equal(t, StatusPending, p.Status)
		assert.Nil(t, p.PaidDate)
		assert.NotEmpty(t, p.ID)
		// Portions reassemble the amount within one minor unit
		diff := p.PrincipalPortion.Add(p.InterestPortion).Sub(p.Amount).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")))
	}
}

func TestGenerateScheduleSumMatchesTotalPayable(t *testing.T) {
	cases := []struct {
		name      string
		frequency PaymentFrequency
		term      int
		count     int
	}{
		{"monthly", FrequencyMonthly, 12, 12},
		{"biweekly", FrequencyBiweekly, 6, 12},
		{"weekly", FrequencyWeekly, 3, 12},
		{"daily", FrequencyDaily, 1, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loan := testLoan()
			loan.Frequency = tc.frequency
			loan.TermMonths = tc.term

			payments, err := GenerateSchedule(loan, loan.StartDate)
			require.NoError(t, err)
			require.Len(t, payments, tc.count)

			sum := decimal.Zero
			for _, p := range payments {
				sum = sum.Add(p.Amount)
			}
			slack := decimal.NewFromInt(int64(tc.count)).Mul(decimal.RequireFromString("0.01"))
			assert.True(t, sum.Sub(loan.TotalPayable()).Abs().LessThanOrEqual(slack),
				"sum %s vs total %s", sum, loan.TotalPayable())
		})
	}
}

func TestGenerateScheduleDecliningBalance(t *testing.T) {
	loan := testLoan()
	loan.InterestBasis = InterestDecliningBalance
	loan.TermMonths = 4

	payments, err := GenerateSchedule(loan, loan.StartDate)
	require.NoError(t, err)
	require.Len(t, payments, 4)

	// Even principal, interest recomputed on the remaining balance:
	// 1000, 750, 500, 250 at 10% per period.
	wantInterest := []string{"100", "75", "50", "25"}
	for i, p := range payments {
		assert.True(t, p.PrincipalPortion.Equal(decimal.NewFromInt(250)), "installment %d", i+1)
		assert.True(t, p.InterestPortion.Equal(decimal.RequireFromString(wantInterest[i])),
			"installment %d interest %s", i+1, p.InterestPortion)
		assert.True(t, p.Amount.Equal(p.PrincipalPortion.Add(p.InterestPortion)))
	}
}

func TestGenerateScheduleDecliningBalancePeriodDivisor(t *testing.T) {
	loan := testLoan()
	loan.InterestBasis = InterestDecliningBalance
	loan.Frequency = FrequencyBiweekly
	loan.TermMonths = 1

	payments, err := GenerateSchedule(loan, loan.StartDate)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	// First period: 1000 * 10% / 2 = 50
	assert.True(t, payments[0].InterestPortion.Equal(decimal.NewFromInt(50)))
	// Second period: 500 * 10% / 2 = 25
	assert.True(t, payments[1].InterestPortion.Equal(decimal.NewFromInt(25)))
}

func TestGenerateScheduleDueDateIncrements(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency PaymentFrequency
		firstDue  time.Time
	}{
		{FrequencyDaily, start.AddDate(0, 0, 1)},
		{FrequencyWeekly, start.AddDate(0, 0, 7)},
		{FrequencyBiweekly, start.AddDate(0, 0, 15)},
		{FrequencyMonthly, start.AddDate(0, 1, 0)},
	}

	for _, tc := range cases {
		loan := testLoan()
		loan.StartDate = start
		loan.Frequency = tc.frequency
		loan.TermMonths = 1

		payments, err := GenerateSchedule(loan, start)
		require.NoError(t, err)
		assert.Equal(t, tc.firstDue, payments[0].DueDate, string(tc.frequency))
	}
}

func TestGenerateScheduleInitialOverdueClassification(t *testing.T) {
	loan := testLoan()
	loan.TermMonths = 3
	// Viewed mid-schedule: the first two installments are already past due.
	today := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)

	payments, err := GenerateSchedule(loan, today)
	require.NoError(t, err)

	assert.Equal(t, StatusOverdue, payments[0].Status)
	assert.Equal(t, StatusOverdue, payments[1].Status)
	assert.Equal(t, StatusPending, payments[2].Status)
}

func TestGenerateScheduleDeterministic(t *testing.T) {
	loan := testLoan()
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a, err := GenerateSchedule(loan, today)
	require.NoError(t, err)
	b, err := GenerateSchedule(loan, today)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].SequenceNumber, b[i].SequenceNumber)
		assert.Equal(t, a[i].DueDate, b[i].DueDate)
		assert.True(t, a[i].Amount.Equal(b[i].Amount))
		assert.True(t, a[i].PrincipalPortion.Equal(b[i].PrincipalPortion))
		assert.True(t, a[i].InterestPortion.Equal(b[i].InterestPortion))
		assert.Equal(t, a[i].Status, b[i].Status)
	}
}

func TestValidateTerms(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Loan)
		want   error
	}{
		{"zero principal", func(l *Loan) { l.Principal = decimal.Zero }, ErrInvalidPrincipal},
		{"negative principal", func(l *Loan) { l.Principal = decimal.NewFromInt(-5) }, ErrInvalidPrincipal},
		{"rate above 100", func(l *Loan) { l.InterestRate = decimal.NewFromInt(150) }, ErrInvalidInterestRate},
		{"negative rate", func(l *Loan) { l.InterestRate = decimal.NewFromInt(-1) }, ErrInvalidInterestRate},
		{"zero term", func(l *Loan) { l.TermMonths = 0 }, ErrInvalidTerm},
		{"unknown frequency", func(l *Loan) { l.Frequency = "fortnightly" }, ErrInvalidFrequency},
		{"unknown interest basis", func(l *Loan) { l.InterestBasis = "compound" }, ErrInvalidInterestBasis},
		{"negative late fee", func(l *Loan) { l.LateFeeRate = decimal.NewFromInt(-2) }, ErrInvalidLateFeeRate},
		{"unknown late fee basis", func(l *Loan) { l.LateFeeBasis = "weekly" }, ErrInvalidLateFeeBasis},
		{"zero start date", func(l *Loan) { l.StartDate = time.Time{} }, ErrInvalidStartDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loan := testLoan()
			tc.mutate(&loan)
			_, err := GenerateSchedule(loan, time.Now())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
