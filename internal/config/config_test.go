package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.SheetCSVURL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, "DayLeft", cfg.Columns.DayLeft)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SHEET_CSV_URL", "https://example.test/sheet.csv")
	t.Setenv("SHEET_EDIT_URL", "https://example.test/edit")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "https://example.test/sheet.csv", cfg.SheetCSVURL)
	assert.Equal(t, "https://example.test/edit", cfg.SheetEditURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadNegativeDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "-1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drugbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7000"
sheet:
  csv_url: https://example.test/from-file.csv
  edit_url: https://example.test/edit
cache_ttl: 2m
columns:
  name: Box
  location: Where
`), 0600))
	t.Setenv("DRUGBOX_CONFIG", path)
	t.Setenv("LISTEN_ADDR", ":7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	// Environment wins over the file.
	assert.Equal(t, ":7100", cfg.ListenAddr)
	assert.Equal(t, "https://example.test/from-file.csv", cfg.SheetCSVURL)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "Box", cfg.Columns.Name)
	assert.Equal(t, "Where", cfg.Columns.Location)
	// Columns the file leaves out keep their defaults.
	assert.Equal(t, "DayLeft", cfg.Columns.DayLeft)
}

func TestLoadFileErrors(t *testing.T) {
	t.Setenv("DRUGBOX_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_ttl: [oops"), 0600))
	t.Setenv("DRUGBOX_CONFIG", path)
	_, err = Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cache_ttl: forever\n"), 0600))
	_, err = Load()
	assert.Error(t, err)
}
