package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"
	"github.com/ekazakov/pulsecal/internal/engine"
	"github.com/ekazakov/pulsecal/internal/storage"
)

// AnalysisService orchestrates a full analysis run: it gathers events from
// all configured sources, loads preferences, runs the engine and persists
// a history snapshot. Every run recomputes from scratch.
type AnalysisService struct {
	storage     *storage.Storage
	engine      *engine.Engine
	sources     []CalendarSource
	historyDays int
}

// NewAnalysisService creates a new analysis service. historyDays controls
// how far back the pattern-detection window reaches.
func NewAnalysisService(s *storage.Storage, eng *engine.Engine, sources []CalendarSource, historyDays int) *AnalysisService {
	if historyDays <= 0 {
		historyDays = 14
	}
	return &AnalysisService{
		storage:     s,
		engine:      eng,
		sources:     sources,
		historyDays: historyDays,
	}
}

// RunAnalysis analyzes the given window. A source that fails to fetch is
// logged and skipped; the run proceeds with the remaining sources.
func (s *AnalysisService) RunAnalysis(ctx context.Context, windowStart, windowEnd time.Time) (*domain.AnalysisResult, error) {
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("analysis window end must be after start")
	}

	historyStart := windowStart.AddDate(0, 0, -s.historyDays)

	var windowEvents, historyEvents []domain.Event
	for _, src := range s.sources {
		events, err := src.Fetch(ctx, historyStart, windowEnd)
		if err != nil {
			log.Printf("Source %s failed, skipping: %v", src.Name(), err)
			continue
		}
		for _, e := range events {
			historyEvents = append(historyEvents, e)
			if e.EndTime.After(windowStart) && e.StartTime.Before(windowEnd) {
				windowEvents = append(windowEvents, e)
			}
		}
	}

	prefs, err := s.storage.GetPreferences()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	result := s.engine.Analyze(ctx, windowEvents, historyEvents, prefs, windowStart, windowEnd)

	if err := s.storage.SaveRun(&result); err != nil {
		// History is best-effort; the analysis itself is still valid.
		log.Printf("Failed to save run snapshot: %v", err)
	}

	return &result, nil
}

// RunToday analyzes the current day in the given timezone.
func (s *AnalysisService) RunToday(ctx context.Context, tz *time.Location) (*domain.AnalysisResult, error) {
	if tz == nil {
		tz = time.UTC
	}
	now := time.Now().In(tz)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz)
	return s.RunAnalysis(ctx, start, start.AddDate(0, 0, 1))
}

// ScoreTrend returns the overall scores of the latest runs, oldest first.
func (s *AnalysisService) ScoreTrend(limit int) ([]int, error) {
	runs, err := s.storage.ListRecentRuns(limit)
	if err != nil {
		return nil, err
	}
	scores := make([]int, len(runs))
	for i, r := range runs {
		scores[len(runs)-1-i] = r.OverallScore
	}
	return scores, nil
}
