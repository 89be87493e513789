package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"prestanet/internal/adapters/cache"
	"prestanet/internal/adapters/persistence/models"
	"prestanet/internal/core/domain"
)

// Projection service errors
var (
	// ErrScheduleNotPersisted signals that the reconciled schedule could
	// not be written back; the returned projection is still valid for
	// display but the caller must warn that it is unsaved.
	ErrScheduleNotPersisted = errors.New("schedule could not be persisted")
)

const scheduleCacheTTL = 5 * time.Minute

func scheduleCacheKey(loanID string) string {
	return "schedule:" + loanID
}

// ProjectionService reconciles a loan's persisted payments against a
// fresh arrears pass and keeps the canonical schedule stored
type ProjectionService struct {
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	cache       cache.ScheduleCache
	now         func() time.Time
}

// NewProjectionService creates a new projection service
func NewProjectionService(loanRepo LoanRepository, paymentRepo PaymentRepository, scheduleCache cache.ScheduleCache) *ProjectionService {
	if scheduleCache == nil {
		scheduleCache = cache.NoopCache{}
	}
	return &ProjectionService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		cache:       scheduleCache,
		now:         time.Now,
	}
}

// Projection is the canonical schedule view of one loan
type Projection struct {
	Loan     *models.LoanResponse      `json:"loan"`
	Payments []*models.PaymentResponse `json:"payments"`
}

// GetProjection returns the canonical payment schedule for a loan. The
// schedule is generated exactly once, on first access; later views load
// the persisted payments and only refresh their arrears fields.
func (s *ProjectionService) GetProjection(ctx context.Context, loanID string) (*Projection, error) {
	if cached, ok := s.cache.Get(ctx, scheduleCacheKey(loanID)); ok {
		var p Projection
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
		// Corrupt entry, fall through to a full reconcile.
		_ = s.cache.Delete(ctx, scheduleCacheKey(loanID))
	}

	projection, err := s.reconcile(ctx, loanID)
	if err != nil {
		return projection, err
	}

	if body, err := json.Marshal(projection); err == nil {
		if err := s.cache.Set(ctx, scheduleCacheKey(loanID), string(body), scheduleCacheTTL); err != nil {
			log.Printf("⚠️ Schedule cache write failed for loan %s: %v", loanID, err)
		}
	}
	return projection, nil
}

// Refresh re-runs the arrears pass against the stored schedule,
// bypassing and invalidating the cache. Used by the nightly job.
func (s *ProjectionService) Refresh(ctx context.Context, loanID string) (*Projection, error) {
	_ = s.cache.Delete(ctx, scheduleCacheKey(loanID))
	return s.reconcile(ctx, loanID)
}

// InvalidateCache drops the cached schedule after any payment mutation
func (s *ProjectionService) InvalidateCache(ctx context.Context, loanID string) {
	_ = s.cache.Delete(ctx, scheduleCacheKey(loanID))
}

func (s *ProjectionService) reconcile(ctx context.Context, loanID string) (*Projection, error) {
	loanRow, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	rows, err := s.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	persisted := make([]domain.Payment, len(rows))
	for i, row := range rows {
		persisted[i] = row.ToDomain()
	}

	loan := loanRow.ToDomain()
	result, err := domain.Reconcile(persisted, loan, s.now())
	if err != nil {
		return nil, err
	}

	projection := buildProjection(loanRow, result)

	if err := s.persist(ctx, loanRow, rows, result); err != nil {
		return projection, fmt.Errorf("%w: %v", ErrScheduleNotPersisted, err)
	}
	return projection, nil
}

// persist writes the reconciled schedule back. Freshly generated
// schedules are inserted whole; existing ones only get their arrears
// fields and any new late-fee line written, never new dates or amounts.
func (s *ProjectionService) persist(ctx context.Context, loanRow *models.Loan, rows []*models.Payment, result domain.ReconcileResult) error {
	newStatus := string(result.LoanStatus)

	if result.Generated {
		payments := make([]*models.Payment, len(result.Payments))
		for i, p := range result.Payments {
			payments[i] = models.PaymentFromDomain(p)
		}
		return s.paymentRepo.SaveCanonical(ctx, loanRow.ID, payments, newStatus)
	}

	known := make(map[string]*models.Payment, len(rows))
	for _, row := range rows {
		known[row.ID] = row
	}

	var changed []*models.Payment
	for _, p := range result.Payments {
		row, ok := known[p.ID]
		if !ok {
			// Appended late-fee line.
			if err := s.paymentRepo.Insert(ctx, models.PaymentFromDomain(p)); err != nil {
				return err
			}
			continue
		}
		if row.Status != string(p.Status) || row.DaysLate != p.DaysLate || !row.LateFeeAmount.Equal(p.LateFeeAmount) {
			changed = append(changed, models.PaymentFromDomain(p))
		}
	}

	if len(changed) == 0 && loanRow.Status == newStatus {
		return nil
	}
	return s.paymentRepo.ApplyArrears(ctx, loanRow.ID, changed, newStatus)
}

func buildProjection(loanRow *models.Loan, result domain.ReconcileResult) *Projection {
	payments := make([]*models.PaymentResponse, len(result.Payments))
	for i, p := range result.Payments {
		payments[i] = models.PaymentFromDomain(p).ToResponse()
	}

	loanResp := loanRow.ToResponse()
	loanResp.Status = string(result.LoanStatus)

	return &Projection{
		Loan:     loanResp,
		Payments: payments,
	}
}
