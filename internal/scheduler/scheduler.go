package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/probe"
	"github.com/pelangilabs/rainbowd/internal/services"
)

// Default cadences. The report runs at 9 AM local time, matching the
// hostel's morning shift handover.
const (
	DefaultProbeCron  = "*/15 * * * *"
	DefaultReportCron = "0 9 * * *"
)

// Scheduler runs the recurring jobs: provider latency probes and the daily
// review report.
type Scheduler struct {
	probes  *probe.Runner
	reports *services.ReportService
	cron    *cron.Cron
	running bool
	mu      sync.RWMutex

	probeCron  string
	reportCron string
}

// New creates a new scheduler
func New(probes *probe.Runner, reports *services.ReportService, probeCron, reportCron string) *Scheduler {
	if probeCron == "" {
		probeCron = DefaultProbeCron
	}
	if reportCron == "" {
		reportCron = DefaultReportCron
	}

	return &Scheduler{
		probes:     probes,
		reports:    reports,
		cron:       cron.New(),
		probeCron:  probeCron,
		reportCron: reportCron,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.probeCron, func() {
		s.probes.RunAll(ctx)
	}); err != nil {
		return fmt.Errorf("failed to register probe job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.reportCron, func() {
		s.runReport(ctx)
	}); err != nil {
		return fmt.Errorf("failed to register report job: %w", err)
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started (probes: %s, report: %s)", s.probeCron, s.reportCron)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) runReport(ctx context.Context) {
	report, err := s.reports.BuildDailyReport(ctx)
	if err != nil {
		logger.Error("Failed to build daily report: %v", err)
		return
	}
	logger.Info("%s", services.FormatReport(report))
}
