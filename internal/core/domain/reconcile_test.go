package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileGeneratesWhenEmpty(t *testing.T) {
	loan := testLoan()
	today := loan.StartDate

	res, err := Reconcile(nil, loan, today)
	require.NoError(t, err)

	assert.True(t, res.Generated)
	assert.Len(t, res.Payments, 12)
	assert.Equal(t, StatusPending, res.LoanStatus)
}

func TestReconcileRejectsInvalidTermsWhenGenerating(t *testing.T) {
	loan := testLoan()
	loan.TermMonths = 0

	_, err := Reconcile(nil, loan, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTerm)
}

func TestReconcileDeduplicatesAndSorts(t *testing.T) {
	loan := testLoan()
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	persisted := []Payment{
		{ID: "b", SequenceNumber: 2, DueDate: due, Amount: decimal.NewFromInt(100), Status: StatusPending},
		{ID: "a", SequenceNumber: 1, DueDate: due, Amount: decimal.NewFromInt(100), Status: StatusPending},
		{ID: "a-dup", SequenceNumber: 1, DueDate: due, Amount: decimal.NewFromInt(999), Status: StatusPending},
	}

	res, err := Reconcile(persisted, loan, due)
	require.NoError(t, err)

	require.Len(t, res.Payments, 2)
	assert.False(t, res.Generated)
	assert.Equal(t, 1, res.Payments[0].SequenceNumber)
	assert.Equal(t, 2, res.Payments[1].SequenceNumber)
	// First occurrence in input order wins: "b" came before "a" but
	// sequence 1 keeps the first seq-1 entry seen, which is "a".
	assert.Equal(t, "a", res.Payments[0].ID)
	assert.Equal(t, "b", res.Payments[1].ID)
}

func TestReconcileKeepsExistingDatesAndAmounts(t *testing.T) {
	loan := testLoan()
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	persisted := []Payment{
		{ID: "a", SequenceNumber: 1, DueDate: due, Amount: decimal.NewFromInt(123), Status: StatusPending},
	}

	res, err := Reconcile(persisted, loan, due.AddDate(0, 0, 10))
	require.NoError(t, err)

	require.Len(t, res.Payments, 1)
	assert.Equal(t, due, res.Payments[0].DueDate)
	assert.True(t, res.Payments[0].Amount.Equal(decimal.NewFromInt(123)))
	// But the arrears pass ran.
	assert.Equal(t, StatusOverdue, res.Payments[0].Status)
	assert.Equal(t, 10, res.Payments[0].DaysLate)
}

func TestReconcileIdempotent(t *testing.T) {
	loan := testLoan()
	today := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	first, err := Reconcile(nil, loan, today)
	require.NoError(t, err)

	second, err := Reconcile(first.Payments, loan, today)
	require.NoError(t, err)

	require.Equal(t, len(first.Payments), len(second.Payments))
	for i := range first.Payments {
		assert.Equal(t, first.Payments[i].ID, second.Payments[i].ID)
		assert.Equal(t, first.Payments[i].Status, second.Payments[i].Status)
		assert.Equal(t, first.Payments[i].DaysLate, second.Payments[i].DaysLate)
		assert.True(t, first.Payments[i].LateFeeAmount.Equal(second.Payments[i].LateFeeAmount))
	}
	assert.Equal(t, first.LoanStatus, second.LoanStatus)
}

func TestReconcileAppendsLateFeeLineOnce(t *testing.T) {
	loan := testLoan()
	loan.LateFeeApplied = true
	loan.LateFeeAmount = decimal.NewFromInt(75)
	today := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	first, err := Reconcile(nil, loan, today)
	require.NoError(t, err)

	last := first.Payments[len(first.Payments)-1]
	assert.True(t, last.IsLateFeeLine)
	assert.Equal(t, 13, last.SequenceNumber)
	assert.True(t, last.Amount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, StatusDelinquent, last.Status)

	// Reconciling again must not append a second line.
	second, err := Reconcile(first.Payments, loan, today)
	require.NoError(t, err)
	assert.Equal(t, len(first.Payments), len(second.Payments))
}

func TestRollupStatus(t *testing.T) {
	paid := Payment{Status: StatusPaid}
	pending := Payment{Status: StatusPending}
	overdue := Payment{Status: StatusOverdue}
	delinquent := Payment{Status: StatusDelinquent}
	feeCarrier := Payment{Status: StatusOverdue, LateFeeAmount: decimal.NewFromInt(5)}

	cases := []struct {
		name     string
		payments []Payment
		want     Status
	}{
		{"empty", nil, StatusPending},
		{"all paid", []Payment{paid, paid}, StatusPaid},
		{"delinquent wins", []Payment{paid, overdue, delinquent}, StatusDelinquent},
		{"nonzero fee counts as delinquent", []Payment{pending, feeCarrier}, StatusDelinquent},
		{"overdue", []Payment{paid, overdue, pending}, StatusOverdue},
		{"pending", []Payment{paid, pending}, StatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RollupStatus(tc.payments))
		})
	}
}

func TestSetPaymentStatus(t *testing.T) {
	today := time.Date(2024, 5, 20, 15, 4, 5, 0, time.UTC)
	p := Payment{Status: StatusPending}

	paid, err := SetPaymentStatus(p, StatusPaid, today)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), *paid.PaidDate)

	// Any non-paid target clears the paid date.
	reverted, err := SetPaymentStatus(paid, StatusPending, today)
	require.NoError(t, err)
	assert.Nil(t, reverted.PaidDate)
	assert.Equal(t, StatusPending, reverted.Status)

	_, err = SetPaymentStatus(p, "cancelled", today)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
