package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ReconcileResult is the canonical schedule for a loan after merging
// persisted payments with a fresh arrears pass
type ReconcileResult struct {
	Payments []Payment
	// Generated is true when no persisted schedule existed and the
	// payments were produced from the loan terms (first-write-wins).
	Generated bool
	// LoanStatus is the aggregate rollup derived from Payments.
	LoanStatus Status
}

// Reconcile merges previously persisted payments into a canonical,
// numbered sequence. With no persisted payments the schedule is generated
// from the loan terms; otherwise duplicates sharing a sequence number are
// dropped (first occurrence wins) and the remainder sorted. Dates and
// amounts of existing entries are never regenerated, only status and
// late-fee fields are refreshed.
func Reconcile(persisted []Payment, loan Loan, today time.Time) (ReconcileResult, error) {
	var (
		payments  []Payment
		generated bool
		err       error
	)

	if len(persisted) == 0 {
		payments, err = GenerateSchedule(loan, today)
		if err != nil {
			return ReconcileResult{}, err
		}
		generated = true
	} else {
		payments = dedupeBySequence(persisted)
		sort.SliceStable(payments, func(i, j int) bool {
			return payments[i].SequenceNumber < payments[j].SequenceNumber
		})
	}

	payments = AnnotateArrears(payments, loan, today)
	payments = appendLateFeeLine(payments, loan)

	return ReconcileResult{
		Payments:   payments,
		Generated:  generated,
		LoanStatus: RollupStatus(payments),
	}, nil
}

func dedupeBySequence(payments []Payment) []Payment {
	seen := make(map[int]bool, len(payments))
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if seen[p.SequenceNumber] {
			continue
		}
		seen[p.SequenceNumber] = true
		out = append(out, p)
	}
	return out
}

// appendLateFeeLine adds the synthetic trailing mora entry when the loan
// carries accrued mora and the schedule does not already have one
func appendLateFeeLine(payments []Payment, loan Loan) []Payment {
	if !loan.LateFeeApplied || !loan.LateFeeAmount.IsPositive() || len(payments) == 0 {
		return payments
	}
	for _, p := range payments {
		if p.IsLateFeeLine {
			return payments
		}
	}

	last := payments[len(payments)-1]
	return append(payments, Payment{
		ID:             uuid.NewString(),
		LoanID:         loan.ID,
		SequenceNumber: last.SequenceNumber + 1,
		DueDate:        last.DueDate,
		Amount:         loan.LateFeeAmount,
		Status:         StatusDelinquent,
		IsLateFeeLine:  true,
		LateFeeAmount:  loan.LateFeeAmount,
	})
}

// RollupStatus derives the loan-level status from its payments: paid only
// when every payment is paid, delinquent before overdue, pending last
func RollupStatus(payments []Payment) Status {
	if len(payments) == 0 {
		return StatusPending
	}

	allPaid := true
	anyDelinquent := false
	anyOverdue := false
	for _, p := range payments {
		if p.Status != StatusPaid {
			allPaid = false
		}
		if p.Status == StatusDelinquent || p.LateFeeAmount.IsPositive() {
			anyDelinquent = true
		}
		if p.Status == StatusOverdue {
			anyOverdue = true
		}
	}

	switch {
	case allPaid:
		return StatusPaid
	case anyDelinquent:
		return StatusDelinquent
	case anyOverdue:
		return StatusOverdue
	default:
		return StatusPending
	}
}

// SetPaymentStatus applies a user-triggered status transition. Marking
// paid stamps the paid date with today; any other target clears it. This
// is the only mutation path besides the arrears annotator.
func SetPaymentStatus(p Payment, newStatus Status, today time.Time) (Payment, error) {
	if !newStatus.Valid() {
		return p, ErrInvalidStatus
	}

	if newStatus == StatusPaid {
		paid := DateOnly(today)
		p.PaidDate = &paid
	} else {
		p.PaidDate = nil
	}
	p.Status = newStatus
	return p, nil
}
