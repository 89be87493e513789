package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/core/domain"
)

// ============================================================
// Clients
// ============================================================

// Client represents the clientes table
type Client struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Name       string         `gorm:"size:150;not null" json:"name"`
	DPI        string         `gorm:"size:20;index" json:"dpi"`
	ClientCode *string        `gorm:"size:30;uniqueIndex" json:"client_code"`
	Phone      string         `gorm:"size:20" json:"phone"`
	Address    string         `gorm:"size:255" json:"address"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Client) TableName() string {
	return "clientes"
}

// ============================================================
// Loans
// ============================================================

// Loan represents the prestamos table
type Loan struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	ClientID       string          `gorm:"size:36;not null;index" json:"client_id"`
	Principal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	InterestBasis  string          `gorm:"size:20;not null;default:'flat'" json:"interest_basis"`
	TermMonths     int             `gorm:"not null" json:"term_months"`
	Frequency      string          `gorm:"size:10;not null" json:"frequency"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	LateFeeRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"late_fee_rate"`
	LateFeeBasis   string          `gorm:"size:10;not null;default:'monthly'" json:"late_fee_basis"`
	LateFeeApplied bool            `gorm:"default:false" json:"late_fee_applied"`
	LateFeeAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"late_fee_amount"`
	Status         string          `gorm:"size:15;not null;default:'pending';index" json:"status"`
	// ScheduleGenerated marks that the canonical schedule has been
	// persisted; later views must load it instead of regenerating.
	ScheduleGenerated bool           `gorm:"default:false" json:"schedule_generated"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Client   *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

func (Loan) TableName() string {
	return "prestamos"
}

// ToDomain maps the persisted row onto the engine's loan terms
func (l *Loan) ToDomain() domain.Loan {
	return domain.Loan{
		ID:             l.ID,
		ClientID:       l.ClientID,
		Principal:      l.Principal,
		InterestRate:   l.InterestRate,
		InterestBasis:  domain.InterestBasis(l.InterestBasis),
		TermMonths:     l.TermMonths,
		Frequency:      domain.PaymentFrequency(l.Frequency),
		StartDate:      l.StartDate,
		LateFeeRate:    l.LateFeeRate,
		LateFeeBasis:   domain.LateFeeBasis(l.LateFeeBasis),
		LateFeeApplied: l.LateFeeApplied,
		LateFeeAmount:  l.LateFeeAmount,
		Status:         domain.Status(l.Status),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// LoanResponse DTO
type LoanResponse struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	ClientName     string          `json:"client_name,omitempty"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	InterestBasis  string          `json:"interest_basis"`
	TermMonths     int             `json:"term_months"`
	Frequency      string          `json:"frequency"`
	StartDate      string          `json:"start_date"`
	LateFeeRate    decimal.Decimal `json:"late_fee_rate"`
	LateFeeBasis   string          `json:"late_fee_basis"`
	LateFeeApplied bool            `json:"late_fee_applied"`
	LateFeeAmount  decimal.Decimal `json:"late_fee_amount"`
	Status         string          `json:"status"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:             l.ID,
		ClientID:       l.ClientID,
		Principal:      l.Principal,
		InterestRate:   l.InterestRate,
		InterestBasis:  l.InterestBasis,
		TermMonths:     l.TermMonths,
		Frequency:      l.Frequency,
		StartDate:      l.StartDate.Format("2006-01-02"),
		LateFeeRate:    l.LateFeeRate,
		LateFeeBasis:   l.LateFeeBasis,
		LateFeeApplied: l.LateFeeApplied,
		LateFeeAmount:  l.LateFeeAmount,
		Status:         l.Status,
		TotalPayable:   l.ToDomain().TotalPayable(),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
	if l.Client != nil {
		resp.ClientName = l.Client.Name
	}
	return resp
}

// ============================================================
// Payments
// ============================================================

// Payment represents the pagos table
type Payment struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	LoanID           string          `gorm:"size:36;not null;index:idx_pagos_loan_seq" json:"loan_id"`
	SequenceNumber   int             `gorm:"not null;index:idx_pagos_loan_seq" json:"sequence_number"`
	DueDate          time.Time       `gorm:"type:date;not null" json:"due_date"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PrincipalPortion decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"principal_portion"`
	InterestPortion  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"interest_portion"`
	Status           string          `gorm:"size:15;not null;default:'pending'" json:"status"`
	PaidDate         *time.Time      `gorm:"type:date" json:"paid_date"`
	IsLateFeeLine    bool            `gorm:"default:false" json:"is_late_fee_line"`
	DaysLate         int             `gorm:"default:0" json:"days_late"`
	LateFeeAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"late_fee_amount"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "pagos"
}

// ToDomain maps the persisted row onto the engine's payment record
func (p *Payment) ToDomain() domain.Payment {
	return domain.Payment{
		ID:               p.ID,
		LoanID:           p.LoanID,
		SequenceNumber:   p.SequenceNumber,
		DueDate:          p.DueDate,
		Amount:           p.Amount,
		PrincipalPortion: p.PrincipalPortion,
		InterestPortion:  p.InterestPortion,
		Status:           domain.Status(p.Status),
		PaidDate:         p.PaidDate,
		IsLateFeeLine:    p.IsLateFeeLine,
		DaysLate:         p.DaysLate,
		LateFeeAmount:    p.LateFeeAmount,
	}
}

// PaymentFromDomain maps an engine payment back to its row form
func PaymentFromDomain(p domain.Payment) *Payment {
	return &Payment{
		ID:               p.ID,
		LoanID:           p.LoanID,
		SequenceNumber:   p.SequenceNumber,
		DueDate:          p.DueDate,
		Amount:           p.Amount,
		PrincipalPortion: p.PrincipalPortion,
		InterestPortion:  p.InterestPortion,
		Status:           string(p.Status),
		PaidDate:         p.PaidDate,
		IsLateFeeLine:    p.IsLateFeeLine,
		DaysLate:         p.DaysLate,
		LateFeeAmount:    p.LateFeeAmount,
	}
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID               string          `json:"id"`
	SequenceNumber   int             `json:"sequence_number"`
	DueDate          string          `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	Status           string          `json:"status"`
	PaidDate         *string         `json:"paid_date"`
	IsLateFeeLine    bool            `json:"is_late_fee_line"`
	DaysLate         int             `json:"days_late,omitempty"`
	LateFeeAmount    decimal.Decimal `json:"late_fee_amount"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:               p.ID,
		SequenceNumber:   p.SequenceNumber,
		DueDate:          p.DueDate.Format("2006-01-02"),
		Amount:           p.Amount,
		PrincipalPortion: p.PrincipalPortion,
		InterestPortion:  p.InterestPortion,
		Status:           p.Status,
		IsLateFeeLine:    p.IsLateFeeLine,
		DaysLate:         p.DaysLate,
		LateFeeAmount:    p.LateFeeAmount,
	}
	if p.PaidDate != nil {
		d := p.PaidDate.Format("2006-01-02")
		resp.PaidDate = &d
	}
	return resp
}

// ============================================================
// Balance entries
// ============================================================

// Balance entry types
const (
	BalanceAsset     = "asset"
	BalanceLiability = "liability"
)

// BalanceEntry represents the balance table (assets and liabilities)
type BalanceEntry struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Type        string          `gorm:"size:10;not null;index" json:"type"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	EntryDate   time.Time       `gorm:"type:date;not null" json:"entry_date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BalanceEntry) TableName() string {
	return "balance"
}

// ============================================================
// Receipts
// ============================================================

// Receipt represents the recibos table. Rendering is outside this
// service; only the record is kept.
type Receipt struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	ReceiptNumber    string          `gorm:"size:30;uniqueIndex;not null" json:"receipt_number"`
	LoanID           string          `gorm:"size:36;not null;index" json:"loan_id"`
	PaymentID        string          `gorm:"size:36;not null" json:"payment_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PreviousBalance  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"previous_balance"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_balance"`
	IssuedAt         time.Time       `gorm:"autoCreateTime" json:"issued_at"`

	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Receipt) TableName() string {
	return "recibos"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Loan{},
		&Payment{},
		&BalanceEntry{},
		&Receipt{},
	)
}
