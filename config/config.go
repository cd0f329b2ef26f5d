package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one calendar source in the sources YAML file.
// A repeated list of accounts does not fit env vars, so sources get their
// own file while credentials and paths stay in the environment.
type SourceConfig struct {
	// Name is a human-friendly label used in logs and reports.
	Name string `yaml:"name"`
	// Kind selects the client: "caldav" or "ics".
	Kind string `yaml:"kind"`
	// Tag is the engine source tag: "device", "google" or "outlook".
	Tag string `yaml:"tag"`
	// URL is the CalDAV base URL or the ICS feed endpoint.
	URL string `yaml:"url"`
	// Username/Password apply to CalDAV sources only.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	// CalendarPath selects a specific CalDAV calendar.
	CalendarPath string `yaml:"calendar_path,omitempty"`
}

type Config struct {
	DatabasePath   string
	Timezone       *time.Location
	RefreshCron    string
	HistoryDays    int
	TravelAPIURL   string
	TravelAPIToken string
	SourcesPath    string
	Sources        []SourceConfig
}

func Load() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/pulsecal.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	refreshCron := os.Getenv("REFRESH_CRON")
	if refreshCron == "" {
		refreshCron = "*/30 * * * *"
	}

	historyDays := 14
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		historyDays, err = strconv.Atoi(v)
		if err != nil || historyDays <= 0 {
			return nil, fmt.Errorf("HISTORY_DAYS must be a positive number")
		}
	}

	sourcesPath := os.Getenv("SOURCES_PATH")
	if sourcesPath == "" {
		sourcesPath = "./sources.yaml"
	}

	cfg := &Config{
		DatabasePath:   dbPath,
		Timezone:       tz,
		RefreshCron:    refreshCron,
		HistoryDays:    historyDays,
		TravelAPIURL:   os.Getenv("TRAVEL_API_URL"),
		TravelAPIToken: os.Getenv("TRAVEL_API_TOKEN"),
		SourcesPath:    sourcesPath,
	}

	if err := cfg.loadSources(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSources reads the YAML source list. A missing file is not an error;
// it just means there is nothing to analyze yet.
func (c *Config) loadSources() error {
	data, err := os.ReadFile(c.SourcesPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}

	var doc struct {
		Sources []SourceConfig `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse sources file: %w", err)
	}

	for i, s := range doc.Sources {
		if s.Kind != "caldav" && s.Kind != "ics" {
			return fmt.Errorf("source %d (%s): unknown kind %q", i, s.Name, s.Kind)
		}
		if s.URL == "" {
			return fmt.Errorf("source %d (%s): url is required", i, s.Name)
		}
		switch s.Tag {
		case "device", "google", "outlook":
		default:
			return fmt.Errorf("source %d (%s): unknown tag %q", i, s.Name, s.Tag)
		}
	}

	c.Sources = doc.Sources
	return nil
}
