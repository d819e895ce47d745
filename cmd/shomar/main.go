// Package main provides the CLI entrypoint for shomar.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/shomar/internal/catalog"
	"github.com/verte-zerg/shomar/internal/config"
	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/display"
	"github.com/verte-zerg/shomar/internal/logging"
	"github.com/verte-zerg/shomar/internal/model"
	"github.com/verte-zerg/shomar/internal/schedule"
	"github.com/verte-zerg/shomar/internal/source"
	"github.com/verte-zerg/shomar/internal/store"
	"github.com/verte-zerg/shomar/internal/tui"
)

const (
	defaultPeriod       = "daily"
	defaultLang         = "fa"
	defaultLogLevel     = "warn"
	defaultHistoryLimit = 30
)

var (
	flagPeriod   string
	flagSource   string
	flagLang     string
	flagLogLevel string
	flagDB       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shomar",
		Short:         "Live counters of published Iranian statistics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagPeriod, "period", defaultPeriod, "counting period (real-time, daily, monthly, yearly)")
	flags.StringVar(&flagSource, "source", "", "statistics document path or http(s) URL")
	flags.StringVar(&flagLang, "lang", defaultLang, "display language (fa, en)")
	flags.StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&flagDB, "db", config.DefaultDBPath(), "snapshot database path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newDetailCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// settings is the merged result of the config file, environment and flags.
type settings struct {
	period       counter.Period
	source       string
	printer      *display.Printer
	log          logging.Config
	hidden       []string
	fetchTimeout time.Duration
	rates        map[string]config.RateConfig
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	if err := config.LoadDotEnv(config.DefaultEnvPath(), ".env"); err != nil {
		return settings{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	applyStringConfig(cmd, "period", &flagPeriod, fileCfg.Dashboard.Period)
	applyStringConfig(cmd, "source", &flagSource, fileCfg.Dashboard.Source)
	applyStringConfig(cmd, "lang", &flagLang, fileCfg.Dashboard.Lang)
	applyStringConfig(cmd, "log-level", &flagLogLevel, fileCfg.Log.Level)

	period, err := counter.ParsePeriod(flagPeriod)
	if err != nil {
		return settings{}, fmt.Errorf("invalid --period value: %w", err)
	}
	lang, err := display.ParseLang(flagLang)
	if err != nil {
		return settings{}, fmt.Errorf("invalid --lang value: %w", err)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = flagLogLevel
	if fileCfg.Log.Format != nil {
		logCfg.Format = *fileCfg.Log.Format
	}
	if err := logCfg.Validate(); err != nil {
		return settings{}, err
	}
	timeout := source.DefaultTimeout
	if fileCfg.Dashboard.FetchTimeout != nil {
		if *fileCfg.Dashboard.FetchTimeout <= 0 {
			return settings{}, fmt.Errorf("fetch-timeout must be > 0")
		}
		timeout = time.Duration(*fileCfg.Dashboard.FetchTimeout) * time.Second
	}
	for _, id := range fileCfg.Dashboard.Hidden {
		if _, ok := catalog.Lookup(id); !ok {
			return settings{}, fmt.Errorf("unknown statistic %q in hidden list", id)
		}
	}

	return settings{
		period:       period,
		source:       strings.TrimSpace(flagSource),
		printer:      display.NewPrinter(lang),
		log:          logCfg,
		hidden:       fileCfg.Dashboard.Hidden,
		fetchTimeout: timeout,
		rates:        fileCfg.Rates,
	}, nil
}

// newRegistry returns the built-in statistics with configured averages
// applied on top.
func newRegistry(s settings, logger *slog.Logger) *counter.Registry {
	reg := counter.NewRegistry(catalog.DefaultStatistics())
	for id, rc := range s.rates {
		stat, ok := reg.Get(id)
		if !ok {
			logger.Warn("ignoring rates for unknown statistic", "id", id)
			continue
		}
		reg.Override(id, rc.Apply(stat.Rates()))
	}
	return reg
}

// newLoader fetches the statistics document and records its averages. It
// returns nil when no source is configured. A failed load returns its error
// so the registry keeps the catalog defaults and config rates.
func newLoader(s settings, st *store.Store, logger *slog.Logger) tui.Loader {
	if s.source == "" {
		return nil
	}
	return func(ctx context.Context) (tui.Refresh, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		doc, err := source.Load(fetchCtx, s.source)
		if err != nil {
			logger.Warn("failed to load statistics, keeping defaults", "source", s.source, "err", err)
			return tui.Refresh{}, err
		}
		snaps := doc.Snapshots(s.source, time.Now())
		if st != nil {
			if _, err := st.InsertSnapshots(ctx, snaps); err != nil {
				logger.Warn("failed to record snapshots", "err", err)
			}
		}
		return tui.Refresh{
			Source:      s.source,
			Snapshots:   snaps,
			Details:     doc.Details(),
			LastUpdated: doc.LastUpdated,
		}, nil
	}
}

func applySnapshots(reg *counter.Registry, snaps []model.Snapshot) {
	for _, snap := range snaps {
		reg.Override(snap.StatID, snap.Rates)
	}
}

// openStore opens the snapshot database. The dashboard and one-shot
// commands run without it when it cannot be opened.
func openStore(logger *slog.Logger) *store.Store {
	st, err := store.Open(flagDB)
	if err != nil {
		logger.Warn("failed to open db, snapshots disabled", "path", flagDB, "err", err)
		return nil
	}
	return st
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger.Warn("failed to close db", "err", err)
	}
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.OpenFile(config.DefaultLogPath(), s.log)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	st := openStore(logger)
	defer closeStore(st, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	clock := counter.SystemClock{}
	engine := counter.NewEngine(newRegistry(s, logger), clock, clock.Now(), logger)
	if _, err := engine.SetPeriod(s.period); err != nil {
		return err
	}
	dashboard := tui.NewModel(tui.Options{
		Engine:  engine,
		Driver:  schedule.NewDriver(clock),
		Printer: s.printer,
		Hidden:  s.hidden,
		Loader:  newLoader(s, st, logger),
		Logger:  logger,
		Context: ctx,
	})
	defer dashboard.Stop()

	logger.Info("starting dashboard", "period", s.period.String(), "source", s.source)
	program := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# shomar configuration
# Uncomment a value to enable it. Environment variables (%s, %s,
# %s, %s) override this file and CLI flags override both.

[dashboard]
# period = %q            # real-time, daily, monthly or yearly
# source = ""               # statistics document path or http(s) URL
# lang = %q                 # fa or en
# hidden = []               # statistic ids without a card
# fetch-timeout = %d        # seconds

[log]
# level = %q              # debug, info, warn or error
# format = "text"           # text or json

# Override the built-in averages of a statistic:
# [rates.traffic-deaths]
# daily = 55
# monthly = 1650
# yearly = 20075
`,
		config.EnvSource,
		config.EnvPeriod,
		config.EnvLang,
		config.EnvLogLevel,
		defaultPeriod,
		defaultLang,
		int(source.DefaultTimeout/time.Second),
		defaultLogLevel,
	)
}
