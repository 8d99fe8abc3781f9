package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/otaniyici/crud-library/internal/entities"
)

// LoanCounter provides the copy counts the report needs.
type LoanCounter interface {
	CountByStatus(status entities.InstanceStatus) (int64, error)
	CountOverdue(now time.Time) (int64, error)
}

// OverdueReportScheduler periodically logs how many loaned copies are
// past their due date so librarians can chase returns.
type OverdueReportScheduler struct {
	copies   LoanCounter
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	cancel    context.CancelFunc
}

func NewOverdueReportScheduler(copies LoanCounter, schedule string) *OverdueReportScheduler {
	return &OverdueReportScheduler{
		copies:   copies,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the periodic report. Starting an already running
// scheduler is a no-op.
func (s *OverdueReportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runReport)
	if err != nil {
		return fmt.Errorf("failed to schedule overdue report: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancel = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Overdue report scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running report to
// complete.
func (s *OverdueReportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	log.Printf("Overdue report scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *OverdueReportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow produces a report immediately, outside the schedule.
func (s *OverdueReportScheduler) RunNow() {
	s.runReport()
}

func (s *OverdueReportScheduler) runReport() {
	loaned, err := s.copies.CountByStatus(entities.StatusLoaned)
	if err != nil {
		log.Printf("Overdue report: failed to count loaned copies: %v", err)
		return
	}

	overdue, err := s.copies.CountOverdue(time.Now())
	if err != nil {
		log.Printf("Overdue report: failed to count overdue copies: %v", err)
		return
	}

	log.Printf("Overdue report: %d copies on loan, %d overdue", loaned, overdue)
}
