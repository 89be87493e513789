package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// installmentsPerMonth converts one month of loan term into an installment
// count. Daily uses a 30-day month, not calendar-exact.
func installmentsPerMonth(f PaymentFrequency) int {
	switch f {
	case FrequencyDaily:
		return 30
	case FrequencyWeekly:
		return 4
	case FrequencyBiweekly:
		return 2
	case FrequencyMonthly:
		return 1
	}
	return 0
}

// periodRateDivisor converts the per-month interest rate into the rate of
// one payment period under the declining-balance basis
func periodRateDivisor(f PaymentFrequency) int64 {
	switch f {
	case FrequencyDaily:
		return 30
	case FrequencyWeekly:
		return 4
	case FrequencyBiweekly:
		return 2
	default:
		return 1
	}
}

// nextDueDate advances a due date by one payment period
func nextDueDate(d time.Time, f PaymentFrequency) time.Time {
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return d.AddDate(0, 0, 15)
	default:
		return d.AddDate(0, 1, 0)
	}
}

// ValidateTerms rejects loans whose terms cannot produce a schedule. An
// unrecognized frequency is an error, never a silent monthly fallback.
func ValidateTerms(loan Loan) error {
	if !loan.Principal.IsPositive() {
		return ErrInvalidPrincipal
	}
	if loan.InterestRate.IsNegative() || loan.InterestRate.GreaterThan(hundred) {
		return ErrInvalidInterestRate
	}
	if loan.TermMonths < 1 {
		return ErrInvalidTerm
	}
	if installmentsPerMonth(loan.Frequency) == 0 {
		return ErrInvalidFrequency
	}
	switch loan.InterestBasis {
	case InterestFlat, InterestDecliningBalance:
	default:
		return ErrInvalidInterestBasis
	}
	if loan.LateFeeRate.IsNegative() {
		return ErrInvalidLateFeeRate
	}
	switch loan.LateFeeBasis {
	case LateFeeDaily, LateFeeMonthly, LateFeeYearly:
	default:
		return ErrInvalidLateFeeBasis
	}
	if loan.StartDate.IsZero() {
		return ErrInvalidStartDate
	}
	return nil
}

// GenerateSchedule produces the full payment schedule for a loan. The
// first installment falls one period after the start date, never on the
// start date itself. Deterministic for a given (loan, today) pair apart
// from freshly assigned ids.
func GenerateSchedule(loan Loan, today time.Time) ([]Payment, error) {
	if err := ValidateTerms(loan); err != nil {
		return nil, err
	}

	count := loan.TermMonths * installmentsPerMonth(loan.Frequency)
	countDec := decimal.NewFromInt(int64(count))
	today = DateOnly(today)

	rate := loan.InterestRate.Div(hundred)
	evenPrincipal := loan.Principal.Div(countDec).Round(2)
	flatInterest := loan.Principal.Mul(rate).Div(countDec).Round(2)
	// Under the flat basis the installment amount divides the total
	// payable directly, so it can differ from the sum of the rounded
	// portions by one minor unit.
	flatAmount := loan.TotalPayable().Div(countDec).Round(2)
	periodDivisor := decimal.NewFromInt(periodRateDivisor(loan.Frequency))

	remaining := loan.Principal
	dueDate := DateOnly(loan.StartDate)

	payments := make([]Payment, 0, count)
	for i := 1; i <= count; i++ {
		dueDate = nextDueDate(dueDate, loan.Frequency)

		var interest, amount decimal.Decimal
		switch loan.InterestBasis {
		case InterestDecliningBalance:
			// Principal amortizes evenly here as well; only the interest
			// portion tracks the remaining balance.
			interest = remaining.Mul(rate).Div(periodDivisor).Round(2)
			remaining = remaining.Sub(evenPrincipal)
			amount = evenPrincipal.Add(interest)
		default:
			interest = flatInterest
			amount = flatAmount
		}

		status := StatusPending
		if dueDate.Before(today) {
			status = StatusOverdue
		}

		payments = append(payments, Payment{
			ID:               uuid.NewString(),
			LoanID:           loan.ID,
			SequenceNumber:   i,
			DueDate:          dueDate,
			Amount:           amount,
			PrincipalPortion: evenPrincipal,
			InterestPortion:  interest,
			Status:           status,
			LateFeeAmount:    decimal.Zero,
		})
	}

	return payments, nil
}
