package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
)

// testLoanRow is the shared fixture: Q1000 at 10% flat over 12 monthly
// installments starting 2024-01-01, with 10% monthly mora.
func testLoanRow() *models.Loan {
	return &models.Loan{
		ID:            "loan-1",
		ClientID:      "client-1",
		Principal:     decimal.NewFromInt(1000),
		InterestRate:  decimal.NewFromInt(10),
		InterestBasis: "flat",
		TermMonths:    12,
		Frequency:     "monthly",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LateFeeRate:   decimal.NewFromInt(10),
		LateFeeBasis:  "monthly",
		Status:        "pending",
	}
}

// In-memory repository implementations for exercising the services
// without a database.

type mockClientRepo struct {
	clients map[string]*models.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*models.Client)}
}

func (m *mockClientRepo) Create(ctx context.Context, client *models.Client) error {
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

func (m *mockClientRepo) List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error) {
	out := []*models.Client{}
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *mockClientRepo) Update(ctx context.Context, client *models.Client) error {
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	delete(m.clients, id)
	return nil
}

type mockLoanRepo struct {
	loans map[string]*models.Loan
}

func newMockLoanRepo() *mockLoanRepo {
	return &mockLoanRepo{loans: make(map[string]*models.Loan)}
}

func (m *mockLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	m.loans[loan.ID] = loan
	return nil
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, ok := m.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return loan, nil
}

func (m *mockLoanRepo) List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error) {
	out := []*models.Loan{}
	for _, l := range m.loans {
		if status == "" || l.Status == status {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockLoanRepo) ListByClient(ctx context.Context, clientID string) ([]*models.Loan, error) {
	out := []*models.Loan{}
	for _, l := range m.loans {
		if l.ClientID == clientID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLoanRepo) ListWithSchedule(ctx context.Context) ([]*models.Loan, error) {
	out := []*models.Loan{}
	for _, l := range m.loans {
		if l.ScheduleGenerated && l.Status != "paid" {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	m.loans[loan.ID] = loan
	return nil
}

func (m *mockLoanRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	loan, ok := m.loans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	loan.Status = status
	return nil
}

func (m *mockLoanRepo) Delete(ctx context.Context, id string) error {
	delete(m.loans, id)
	return nil
}

type mockPaymentRepo struct {
	loanRepo *mockLoanRepo
	payments map[string]*models.Payment

	failSaveCanonical bool
	failUpdateStatus  bool
	saveCalls         int
	arrearsCalls      int
}

func newMockPaymentRepo(loanRepo *mockLoanRepo) *mockPaymentRepo {
	return &mockPaymentRepo{
		loanRepo: loanRepo,
		payments: make(map[string]*models.Payment),
	}
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) ListByLoan(ctx context.Context, loanID string) ([]*models.Payment, error) {
	out := []*models.Payment{}
	for _, p := range m.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SequenceNumber < out[j].SequenceNumber
	})
	return out, nil
}

func (m *mockPaymentRepo) SaveCanonical(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error {
	m.saveCalls++
	if m.failSaveCanonical {
		return gorm.ErrInvalidTransaction
	}
	for _, p := range payments {
		m.payments[p.ID] = p
	}
	if loan, ok := m.loanRepo.loans[loanID]; ok {
		loan.ScheduleGenerated = true
		loan.Status = loanStatus
	}
	return nil
}

func (m *mockPaymentRepo) ApplyArrears(ctx context.Context, loanID string, payments []*models.Payment, loanStatus string) error {
	m.arrearsCalls++
	for _, p := range payments {
		row, ok := m.payments[p.ID]
		if !ok {
			continue
		}
		row.Status = p.Status
		row.DaysLate = p.DaysLate
		row.LateFeeAmount = p.LateFeeAmount
	}
	if loan, ok := m.loanRepo.loans[loanID]; ok {
		loan.Status = loanStatus
	}
	return nil
}

func (m *mockPaymentRepo) Insert(ctx context.Context, payment *models.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, payment *models.Payment) error {
	if m.failUpdateStatus {
		return gorm.ErrInvalidTransaction
	}
	row, ok := m.payments[payment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Status = payment.Status
	row.PaidDate = payment.PaidDate
	return nil
}

type mockBalanceRepo struct {
	entries map[string]*models.BalanceEntry
}

func newMockBalanceRepo() *mockBalanceRepo {
	return &mockBalanceRepo{entries: make(map[string]*models.BalanceEntry)}
}

func (m *mockBalanceRepo) Create(ctx context.Context, entry *models.BalanceEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockBalanceRepo) GetByID(ctx context.Context, id string) (*models.BalanceEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (m *mockBalanceRepo) List(ctx context.Context, entryType string, offset, limit int) ([]*models.BalanceEntry, int64, error) {
	out := []*models.BalanceEntry{}
	for _, e := range m.entries {
		if entryType == "" || e.Type == entryType {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockBalanceRepo) SumByType(ctx context.Context, entryType string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.Type == entryType {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (m *mockBalanceRepo) Update(ctx context.Context, entry *models.BalanceEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockBalanceRepo) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type mockReceiptRepo struct {
	receipts map[string]*models.Receipt
}

func newMockReceiptRepo() *mockReceiptRepo {
	return &mockReceiptRepo{receipts: make(map[string]*models.Receipt)}
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *models.Receipt) error {
	m.receipts[receipt.ID] = receipt
	return nil
}

func (m *mockReceiptRepo) GetByID(ctx context.Context, id string) (*models.Receipt, error) {
	r, ok := m.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockReceiptRepo) ListByLoan(ctx context.Context, loanID string) ([]*models.Receipt, error) {
	out := []*models.Receipt{}
	for _, r := range m.receipts {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReceiptRepo) CountForDay(ctx context.Context, dayPrefix string) (int64, error) {
	var count int64
	for _, r := range m.receipts {
		if len(r.ReceiptNumber) >= len(dayPrefix) && r.ReceiptNumber[:len(dayPrefix)] == dayPrefix {
			count++
		}
	}
	return count, nil
}
