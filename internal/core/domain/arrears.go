package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// latePeriods converts days late into late-fee periods for the loan's
// accrual basis, rounding partial periods up
func latePeriods(daysLate int, basis LateFeeBasis) int {
	switch basis {
	case LateFeeMonthly:
		return ceilDiv(daysLate, 30)
	case LateFeeYearly:
		return ceilDiv(daysLate, 365)
	default:
		return daysLate
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func intToDecimal(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(i))
}

// AnnotateArrears refreshes status, days late and accrued late fee on
// every unpaid payment against today's date. Paid payments are never
// touched, and a previously accrued fee is never decreased. The pass is
// idempotent for a fixed today.
func AnnotateArrears(payments []Payment, loan Loan, today time.Time) []Payment {
	today = DateOnly(today)
	rate := loan.LateFeeRate.Div(hundred)

	out := make([]Payment, len(payments))
	for i, p := range payments {
		if p.Status == StatusPaid || p.PaidDate != nil || p.IsLateFeeLine {
			out[i] = p
			continue
		}

		due := DateOnly(p.DueDate)
		if !due.Before(today) {
			p.Status = StatusPending
			out[i] = p
			continue
		}

		daysLate := int(today.Sub(due).Hours() / 24)
		fee := p.Amount.Mul(rate).Mul(intToDecimal(latePeriods(daysLate, loan.LateFeeBasis))).Round(2)
		if fee.LessThan(p.LateFeeAmount) {
			fee = p.LateFeeAmount
		}

		p.DaysLate = daysLate
		p.LateFeeAmount = fee
		if loan.LateFeeApplied {
			p.Status = StatusDelinquent
		} else {
			p.Status = StatusOverdue
		}
		out[i] = p
	}

	return out
}
