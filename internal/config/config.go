package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/drugbox/internal/sheet"
)

// DefaultSheetURL is the published CSV export of the hospital tracking sheet.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQA2BrARJBp5oYf1cjTBdaU1Bi82FhtqO6TjDkVXoGQVNLSGQHGlhrIG15tV9FlhOw30meuha29Hq5Z/pub?output=csv"

type Config struct {
	ListenAddr   string
	SheetCSVURL  string
	SheetEditURL string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	LogLevel     string
	LogFile      string
	LogFormat    string
	Columns      sheet.Columns
	// ConfigFile is the YAML file the values were read from, if any.
	ConfigFile string
}

// fileConfig mirrors the YAML layout. Empty values leave defaults alone.
type fileConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Sheet      struct {
		CSVURL  string `yaml:"csv_url"`
		EditURL string `yaml:"edit_url"`
	} `yaml:"sheet"`
	CacheTTL     string        `yaml:"cache_ttl"`
	FetchTimeout string        `yaml:"fetch_timeout"`
	LogLevel     string        `yaml:"log_level"`
	LogFile      string        `yaml:"log_file"`
	LogFormat    string        `yaml:"log_format"`
	Columns      sheet.Columns `yaml:"columns"`
}

// Load builds the configuration from defaults, then the YAML file named by
// DRUGBOX_CONFIG, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   ":8080",
		SheetCSVURL:  DefaultSheetURL,
		CacheTTL:     60 * time.Second,
		FetchTimeout: 30 * time.Second,
		LogLevel:     "info",
		LogFormat:    "json",
		Columns:      sheet.DefaultColumns(),
	}

	if path := getEnv("DRUGBOX_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.SheetCSVURL = getEnv("SHEET_CSV_URL", cfg.SheetCSVURL)
	cfg.SheetEditURL = getEnv("SHEET_EDIT_URL", cfg.SheetEditURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.ConfigFile = path
	setIfNotEmpty(&c.ListenAddr, fc.ListenAddr)
	setIfNotEmpty(&c.SheetCSVURL, fc.Sheet.CSVURL)
	setIfNotEmpty(&c.SheetEditURL, fc.Sheet.EditURL)
	setIfNotEmpty(&c.LogLevel, fc.LogLevel)
	setIfNotEmpty(&c.LogFile, fc.LogFile)
	setIfNotEmpty(&c.LogFormat, fc.LogFormat)
	setIfNotEmpty(&c.Columns.Name, fc.Columns.Name)
	setIfNotEmpty(&c.Columns.Category, fc.Columns.Category)
	setIfNotEmpty(&c.Columns.Location, fc.Columns.Location)
	setIfNotEmpty(&c.Columns.Drug, fc.Columns.Drug)
	setIfNotEmpty(&c.Columns.DayLeft, fc.Columns.DayLeft)

	if fc.CacheTTL != "" {
		if c.CacheTTL, err = parseDuration("cache_ttl", fc.CacheTTL); err != nil {
			return err
		}
	}
	if fc.FetchTimeout != "" {
		if c.FetchTimeout, err = parseDuration("fetch_timeout", fc.FetchTimeout); err != nil {
			return err
		}
	}
	return nil
}

func setIfNotEmpty(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	return parseDuration(key, val)
}

func parseDuration(key, val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, val)
	}
	return d, nil
}
