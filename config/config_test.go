package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOURCES_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TIMEZONE", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("REFRESH_CRON", "")
	t.Setenv("HISTORY_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./data/pulsecal.db", cfg.DatabasePath)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.Equal(t, "*/30 * * * *", cfg.RefreshCron)
	assert.Equal(t, 14, cfg.HistoryDays)
	assert.Empty(t, cfg.Sources, "missing sources file is not an error")
}

func TestLoad_SourcesFile(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: personal
    kind: caldav
    tag: device
    url: https://caldav.example.com
    username: alice
    password: secret
    calendar_path: /calendars/alice/home/
  - name: team
    kind: ics
    tag: google
    url: https://calendar.example.com/team.ics
`)
	t.Setenv("SOURCES_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "caldav", cfg.Sources[0].Kind)
	assert.Equal(t, "device", cfg.Sources[0].Tag)
	assert.Equal(t, "ics", cfg.Sources[1].Kind)
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: broken
    kind: exchange
    tag: outlook
    url: https://example.com
`)
	t.Setenv("SOURCES_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestLoad_RejectsUnknownTag(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: broken
    kind: ics
    tag: yahoo
    url: https://example.com/feed.ics
`)
	t.Setenv("SOURCES_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag")
}

func TestLoad_InvalidHistoryDays(t *testing.T) {
	t.Setenv("SOURCES_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HISTORY_DAYS", "zero")

	_, err := Load()
	require.Error(t, err)
}
