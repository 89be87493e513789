package domain

import "errors"

// Loan term validation errors
var (
	ErrInvalidPrincipal    = errors.New("principal must be greater than zero")
	ErrInvalidInterestRate = errors.New("interest rate must be between 0 and 100")
	ErrInvalidTerm         = errors.New("term must be at least one month")
	ErrInvalidFrequency    = errors.New("unrecognized payment frequency")
	ErrInvalidInterestBasis = errors.New("unrecognized interest basis")
	ErrInvalidLateFeeRate  = errors.New("late fee rate must not be negative")
	ErrInvalidLateFeeBasis = errors.New("unrecognized late fee basis")
	ErrInvalidStartDate    = errors.New("start date is required")
)

// Schedule errors
var (
	ErrInvalidStatus = errors.New("invalid payment status")
	ErrPaymentPaid   = errors.New("payment is already paid")
)
