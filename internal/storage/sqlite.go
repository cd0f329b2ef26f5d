package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ekazakov/pulsecal/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			buffer_minutes INTEGER NOT NULL,
			travel_enabled INTEGER NOT NULL,
			min_travel_minutes INTEGER NOT NULL,
			workday_start_hour INTEGER NOT NULL,
			workday_end_hour INTEGER NOT NULL,
			ideal_daily_hours_min INTEGER NOT NULL,
			ideal_daily_hours_max INTEGER NOT NULL,
			min_shorten_minutes INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generated_at DATETIME NOT NULL,
			window_start DATETIME NOT NULL,
			window_end DATETIME NOT NULL,
			overall_score INTEGER NOT NULL,
			conflict_count INTEGER NOT NULL,
			issue_count INTEGER NOT NULL,
			result TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_generated_at ON analysis_runs(generated_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}

	return nil
}

// GetPreferences returns the saved preferences, or the defaults if the
// user has never saved any.
func (s *Storage) GetPreferences() (domain.Preferences, error) {
	p := domain.DefaultPreferences()
	var travelEnabled int

	row := s.db.QueryRow(`SELECT buffer_minutes, travel_enabled, min_travel_minutes,
		workday_start_hour, workday_end_hour, ideal_daily_hours_min,
		ideal_daily_hours_max, min_shorten_minutes
		FROM preferences WHERE id = 1`)
	err := row.Scan(&p.BufferMinutes, &travelEnabled, &p.MinTravelMinutes,
		&p.WorkdayStartHour, &p.WorkdayEndHour, &p.IdealDailyHoursMin,
		&p.IdealDailyHoursMax, &p.MinShortenMinutes)
	if err == sql.ErrNoRows {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return p, fmt.Errorf("get preferences: %w", err)
	}

	p.TravelEnabled = travelEnabled != 0
	return p, nil
}

// SavePreferences stores the preference row, replacing any previous one.
func (s *Storage) SavePreferences(p domain.Preferences) error {
	travelEnabled := 0
	if p.TravelEnabled {
		travelEnabled = 1
	}

	_, err := s.db.Exec(`INSERT INTO preferences
		(id, buffer_minutes, travel_enabled, min_travel_minutes,
		 workday_start_hour, workday_end_hour, ideal_daily_hours_min,
		 ideal_daily_hours_max, min_shorten_minutes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			buffer_minutes = excluded.buffer_minutes,
			travel_enabled = excluded.travel_enabled,
			min_travel_minutes = excluded.min_travel_minutes,
			workday_start_hour = excluded.workday_start_hour,
			workday_end_hour = excluded.workday_end_hour,
			ideal_daily_hours_min = excluded.ideal_daily_hours_min,
			ideal_daily_hours_max = excluded.ideal_daily_hours_max,
			min_shorten_minutes = excluded.min_shorten_minutes,
			updated_at = CURRENT_TIMESTAMP`,
		p.BufferMinutes, travelEnabled, p.MinTravelMinutes,
		p.WorkdayStartHour, p.WorkdayEndHour, p.IdealDailyHoursMin,
		p.IdealDailyHoursMax, p.MinShortenMinutes)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// RunSummary is one historical analysis run's headline numbers.
type RunSummary struct {
	ID            int64
	GeneratedAt   time.Time
	WindowStart   time.Time
	WindowEnd     time.Time
	OverallScore  int
	ConflictCount int
	IssueCount    int
}

// SaveRun persists a full analysis result as a history snapshot.
func (s *Storage) SaveRun(result *domain.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO analysis_runs
		(generated_at, window_start, window_end, overall_score, conflict_count, issue_count, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.GeneratedAt, result.WindowStart, result.WindowEnd,
		result.Health.Overall, len(result.Conflicts), len(result.Issues), string(payload))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// ListRecentRuns returns the newest run summaries, most recent first.
func (s *Storage) ListRecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`SELECT id, generated_at, window_start, window_end,
		overall_score, conflict_count, issue_count
		FROM analysis_runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.GeneratedAt, &r.WindowStart, &r.WindowEnd,
			&r.OverallScore, &r.ConflictCount, &r.IssueCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one stored analysis result by id.
func (s *Storage) GetRun(id int64) (*domain.AnalysisResult, error) {
	var payload string
	err := s.db.QueryRow(`SELECT result FROM analysis_runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}
