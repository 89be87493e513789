package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

// DashboardService aggregates portfolio-level figures
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardStats is the portfolio overview
type DashboardStats struct {
	TotalClients       int64           `json:"total_clients"`
	TotalLoans         int64           `json:"total_loans"`
	ActiveLoans        int64           `json:"active_loans"`
	OverdueLoans       int64           `json:"overdue_loans"`
	DelinquentLoans    int64           `json:"delinquent_loans"`
	PrincipalLent      decimal.Decimal `json:"principal_lent"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	PendingCollection  decimal.Decimal `json:"pending_collection"`
	LateFeesAccrued    decimal.Decimal `json:"late_fees_accrued"`
}

type sumRow struct {
	Total decimal.Decimal
}

// GetStats returns the portfolio overview
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).Count(&stats.TotalLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status <> ?", domain.StatusPaid).
		Count(&stats.ActiveLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ?", domain.StatusOverdue).
		Count(&stats.OverdueLoans).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ?", domain.StatusDelinquent).
		Count(&stats.DelinquentLoans).Error; err != nil {
		return nil, err
	}

	var row sumRow
	if err := db.Model(&models.Loan{}).
		Select("COALESCE(SUM(principal), 0) as total").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.PrincipalLent = row.Total

	monthStart := time.Now().UTC()
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND paid_date >= ?", domain.StatusPaid, monthStart).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.CollectedThisMonth = row.Total

	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status <> ? AND is_late_fee_line = ?", domain.StatusPaid, false).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.PendingCollection = row.Total

	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(late_fee_amount), 0) as total").
		Where("status <> ?", domain.StatusPaid).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	stats.LateFeesAccrued = row.Total

	return stats, nil
}

// UpcomingPayment is one row of the collection agenda
type UpcomingPayment struct {
	LoanID         string          `json:"loan_id"`
	ClientName     string          `json:"client_name"`
	SequenceNumber int             `json:"sequence_number"`
	DueDate        string          `json:"due_date"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
}

// GetUpcomingPayments lists unpaid installments due within the next
// `days` days, soonest first.
func (s *DashboardService) GetUpcomingPayments(ctx context.Context, days int) ([]UpcomingPayment, error) {
	if days <= 0 {
		days = 7
	}
	today := domain.DateOnly(time.Now())
	until := today.AddDate(0, 0, days)

	type rowT struct {
		LoanID         string
		ClientName     string
		SequenceNumber int
		DueDate        time.Time
		Amount         decimal.Decimal
		Status         string
	}
	var rows []rowT
	err := s.db.WithContext(ctx).
		Table("pagos").
		Select("pagos.loan_id, clientes.name as client_name, pagos.sequence_number, pagos.due_date, pagos.amount, pagos.status").
		Joins("JOIN prestamos ON prestamos.id = pagos.loan_id").
		Joins("JOIN clientes ON clientes.id = prestamos.client_id").
		Where("pagos.status <> ? AND pagos.is_late_fee_line = ? AND pagos.due_date BETWEEN ? AND ?",
			domain.StatusPaid, false, today, until).
		Order("pagos.due_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]UpcomingPayment, len(rows))
	for i, r := range rows {
		out[i] = UpcomingPayment{
			LoanID:         r.LoanID,
			ClientName:     r.ClientName,
			SequenceNumber: r.SequenceNumber,
			DueDate:        r.DueDate.Format("2006-01-02"),
			Amount:         r.Amount,
			Status:         r.Status,
		}
	}
	return out, nil
}
