package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"pawnledger/internal/pkg/logger"
)

// sweepTimeout bounds one scheduled sweep
const sweepTimeout = time.Minute

// CronService runs the overdue sweep on a schedule, on top of the sweeps
// triggered by requests.
type CronService struct {
	cron  *cron.Cron
	loans *LoanService
	log   *slog.Logger
}

// NewCronService schedules the sweep with a standard five-field cron spec
// evaluated in loc
func NewCronService(loans *LoanService, spec string, loc *time.Location) (*CronService, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &CronService{
		cron:  cron.New(cron.WithLocation(loc)),
		loans: loans,
		log:   logger.WithComponent("cron"),
	}
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CronService) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.loans.SweepOverdue(ctx)
	if err != nil {
		s.log.Error("scheduled overdue sweep failed", "error", err)
		return
	}
	s.log.Debug("scheduled overdue sweep", "transitioned", count)
}

// Start starts the scheduler in the background
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("cron service started")
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron service stopped")
}
