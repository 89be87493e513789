package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the nightly arrears pass so overdue detection and
// mora accrual do not depend on someone opening the schedule view.
type CronService struct {
	loanRepo    LoanRepository
	projections *ProjectionService
	scheduler   *cron.Cron
	spec        string
}

// NewCronService creates the scheduler. spec is a standard cron
// expression; empty selects the default nightly run.
func NewCronService(loanRepo LoanRepository, projections *ProjectionService, spec string) *CronService {
	if spec == "" {
		spec = "30 1 * * *"
	}
	return &CronService{
		loanRepo:    loanRepo,
		projections: projections,
		scheduler:   cron.New(),
		spec:        spec,
	}
}

// Start registers and launches the nightly job
func (s *CronService) Start() error {
	if _, err := s.scheduler.AddFunc(s.spec, s.runArrearsPass); err != nil {
		return err
	}
	s.scheduler.Start()
	log.Printf("⏰ Arrears cron started (spec %q)", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
}

func (s *CronService) runArrearsPass() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.RunArrearsPass(ctx); err != nil {
		log.Printf("❌ Arrears pass failed: %v", err)
	}
}

// RunArrearsPass refreshes every loan that has a stored schedule and is
// not yet settled. Failures on one loan do not stop the others.
func (s *CronService) RunArrearsPass(ctx context.Context) error {
	loans, err := s.loanRepo.ListWithSchedule(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, loan := range loans {
		if _, err := s.projections.Refresh(ctx, loan.ID); err != nil {
			failed++
			log.Printf("⚠️ Arrears refresh failed for loan %s: %v", loan.ID, err)
		}
	}
	log.Printf("✅ Arrears pass done: %d loans, %d failures", len(loans), failed)
	return nil
}
