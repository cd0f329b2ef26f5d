package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ekazakov/pulsecal/config"
	"github.com/ekazakov/pulsecal/internal/service"
)

// ReportSink receives the formatted report of each completed run. The CLI
// plugs in its printer here; tests can capture output.
type ReportSink interface {
	Publish(report string) error
}

// Scheduler re-runs the analysis on a cron schedule. Each tick is a full
// recompute; a tick that overlaps a slow previous run is simply skipped by
// cron's default single-flight behavior per entry.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	analysis *service.AnalysisService
	sink     ReportSink
}

func New(cfg *config.Config, analysis *service.AnalysisService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		analysis: analysis,
	}
}

func (s *Scheduler) SetSink(sink ReportSink) {
	s.sink = sink
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, s.runAnalysis); err != nil {
		return fmt.Errorf("add analysis refresh: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, refresh: %s)", s.cfg.Timezone, s.cfg.RefreshCron)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) runAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.analysis.RunToday(ctx, s.cfg.Timezone)
	if err != nil {
		log.Printf("Scheduled analysis failed: %v", err)
		return
	}

	log.Printf("Analysis done: health %d, %d conflicts, %d issues",
		result.Health.Overall, len(result.Conflicts), len(result.Issues))

	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(service.FormatReport(result)); err != nil {
		log.Printf("Error publishing report: %v", err)
	}
}
