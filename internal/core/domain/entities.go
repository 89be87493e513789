package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the collection state of a loan or a single installment
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusOverdue    Status = "overdue"
	StatusDelinquent Status = "delinquent"
)

// Valid reports whether s is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusDelinquent:
		return true
	}
	return false
}

// PaymentFrequency determines both the due-date increment and the number
// of installments per month of loan term
type PaymentFrequency string

const (
	FrequencyDaily    PaymentFrequency = "daily"
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// InterestBasis selects how the interest portion of each installment is computed
type InterestBasis string

const (
	// InterestFlat computes interest once on the original principal and
	// spreads it evenly across installments
	InterestFlat InterestBasis = "flat"
	// InterestDecliningBalance recomputes interest each period on the
	// remaining principal
	InterestDecliningBalance InterestBasis = "declining_balance"
)

// LateFeeBasis is the unit of the late-fee accrual period
type LateFeeBasis string

const (
	LateFeeDaily   LateFeeBasis = "daily"
	LateFeeMonthly LateFeeBasis = "monthly"
	LateFeeYearly  LateFeeBasis = "yearly"
)

// Loan represents loan terms in the domain layer. Terms are fixed at
// creation; Status and the late-fee fields are derived.
type Loan struct {
	ID             string
	ClientID       string
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal // percentage, 0-100
	InterestBasis  InterestBasis
	TermMonths     int
	Frequency      PaymentFrequency
	StartDate      time.Time
	LateFeeRate    decimal.Decimal // percentage per late-fee period
	LateFeeBasis   LateFeeBasis
	LateFeeApplied bool
	LateFeeAmount  decimal.Decimal // accrued loan-level mora
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalPayable returns principal plus flat interest, the aggregate the
// regular installments amortize
func (l Loan) TotalPayable() decimal.Decimal {
	rate := l.InterestRate.Div(decimal.NewFromInt(100))
	return l.Principal.Add(l.Principal.Mul(rate)).Round(2)
}

// Payment is one scheduled installment of a loan. A payment with
// IsLateFeeLine set is the synthetic trailing entry that carries accrued
// mora as a separate payable item.
type Payment struct {
	ID               string
	LoanID           string
	SequenceNumber   int
	DueDate          time.Time
	Amount           decimal.Decimal
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	Status           Status
	PaidDate         *time.Time
	IsLateFeeLine    bool
	DaysLate         int
	LateFeeAmount    decimal.Decimal
}

// DateOnly drops the time-of-day so today-relative classification is
// stable within a calendar day regardless of call time
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
