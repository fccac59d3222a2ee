// Command drugbox serves the drug box tracking dashboard.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/drugbox/internal/config"
	"github.com/vbonduro/drugbox/internal/logging"
	"github.com/vbonduro/drugbox/internal/service"
	"github.com/vbonduro/drugbox/internal/source"
	"github.com/vbonduro/drugbox/internal/source/httpsource"
	"github.com/vbonduro/drugbox/internal/source/local"
	"github.com/vbonduro/drugbox/internal/web"
	"github.com/vbonduro/drugbox/internal/web/templates"
)

var (
	verbose bool
	quiet   bool

	checkFormat string

	// Set via ldflags.
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drugbox",
	Short: "Drug box expiry tracking dashboard",
	Long: `drugbox reads the published drug box tracking sheet, classifies every box
by days left before its first drug expires, and serves a filterable dashboard.

Configuration comes from environment variables (LISTEN_ADDR, SHEET_CSV_URL,
SHEET_EDIT_URL, CACHE_TTL, FETCH_TIMEOUT, LOG_LEVEL, LOG_FILE, LOG_FORMAT) and an
optional YAML file named by DRUGBOX_CONFIG.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the sheet once and print the box summary",
	Long: `Load the sheet once and print KPI counters with the status and location
breakdowns. Exits non-zero if the sheet could not be loaded.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "drugbox %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Log errors only")

	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Output format: text or json")

	rootCmd.AddCommand(serveCmd, checkCmd, versionCmd)
}

// setup loads configuration and builds the logger and box service shared by
// every command.
func setup() (*config.Config, *slog.Logger, *service.BoxService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}

	logger, cleanup, err := logging.New(logging.Options{Level: level, File: cfg.LogFile, Format: cfg.LogFormat})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	src, err := newSource(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}

	svc := service.NewBoxService(src, cfg.Columns, cfg.CacheTTL, logger)
	return cfg, logger, svc, cleanup, nil
}

// newSource picks the sheet reader for the configured location: http(s) URLs
// are downloaded, file:// URLs and bare paths are read from disk.
func newSource(cfg *config.Config, logger *slog.Logger) (source.Source, error) {
	u, err := url.Parse(cfg.SheetCSVURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet location %q: %w", cfg.SheetCSVURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		logger.Info("using http sheet source", "url", cfg.SheetCSVURL)
		return httpsource.NewHTTPSource(cfg.SheetCSVURL, cfg.FetchTimeout, source.DefaultMaxBytes, logger), nil
	case "file":
		logger.Info("using file sheet source", "path", u.Path)
		return local.NewFileSource(u.Path, source.DefaultMaxBytes), nil
	case "":
		logger.Info("using file sheet source", "path", cfg.SheetCSVURL)
		return local.NewFileSource(cfg.SheetCSVURL, source.DefaultMaxBytes), nil
	default:
		return nil, fmt.Errorf("unsupported sheet location scheme %q", u.Scheme)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, svc, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(svc, templates.FS, cfg.SheetEditURL, logger)
	if err := server.Run(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	_, _, svc, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	snap := svc.Snapshot(cmd.Context())
	if err := writeCheck(cmd.OutOrStdout(), checkFormat, snap); err != nil {
		return err
	}
	if snap.Warning != "" {
		return fmt.Errorf("sheet load failed")
	}
	return nil
}
