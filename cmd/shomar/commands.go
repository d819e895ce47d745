package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/shomar/internal/catalog"
	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/display"
	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/logging"
	"github.com/verte-zerg/shomar/internal/schedule"
	"github.com/verte-zerg/shomar/internal/stats"
	"github.com/verte-zerg/shomar/internal/store"
	"github.com/verte-zerg/shomar/internal/tui"
)

var (
	showAt    string
	showSince string
	showTop   int

	calendarAt string

	historyLimit int
	historySince string
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the counters once",
		Args:  cobra.NoArgs,
		RunE:  runShowCmd,
	}
	cmd.Flags().StringVar(&showAt, "at", "", "instant to evaluate (RFC3339, default: now)")
	cmd.Flags().StringVar(&showSince, "since", "", "real-time start instant (RFC3339, default: --at)")
	cmd.Flags().IntVar(&showTop, "top", 0, "only print the N largest counters")
	return cmd
}

func runShowCmd(cmd *cobra.Command, _ []string) error {
	s, logger, err := cliSetup(cmd)
	if err != nil {
		return err
	}
	at, err := parseInstant("--at", showAt, time.Now())
	if err != nil {
		return err
	}
	since, err := parseInstant("--since", showSince, at)
	if err != nil {
		return err
	}
	if since.After(at) {
		return fmt.Errorf("--since must not be after --at")
	}
	if showTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	reg, _ := loadRegistry(cmd.Context(), s, logger)
	engine := counter.NewEngine(reg, counter.ClockFunc(func() time.Time { return at }), since, logger)
	readings, err := engine.SetPeriod(s.period)
	if err != nil {
		return err
	}
	readings = visibleReadings(readings, s.hidden)
	if showTop > 0 {
		readings = stats.TopReadings(readings, showTop)
	}
	return stats.RenderCounts(cmd.OutOrStdout(), s.printer, reg.Snapshot(), readings, s.period, at)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream the counters to stdout",
		Args:  cobra.NoArgs,
		RunE:  runWatchCmd,
	}
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	s, logger, err := cliSetup(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, _ := loadRegistry(ctx, s, logger)
	clock := counter.SystemClock{}
	engine := counter.NewEngine(reg, clock, clock.Now(), logger)
	if _, err := engine.SetPeriod(s.period); err != nil {
		return err
	}
	r := newTableRenderer(cmd.OutOrStdout(), s.printer, engine, s.hidden)
	if err := schedule.Run(ctx, schedule.NewDriver(clock), engine, r); err != nil {
		return err
	}
	return r.err
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the civil date",
		Args:  cobra.NoArgs,
		RunE:  runCalendarCmd,
	}
	cmd.Flags().StringVar(&calendarAt, "at", "", "instant to convert (RFC3339, default: now)")
	return cmd
}

func runCalendarCmd(cmd *cobra.Command, _ []string) error {
	s, _, err := cliSetup(cmd)
	if err != nil {
		return err
	}
	at, err := parseInstant("--at", calendarAt, time.Now())
	if err != nil {
		return err
	}
	return stats.RenderCalendar(cmd.OutOrStdout(), s.printer, at)
}

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "detail <id>",
		Short:     "Print the sources and history of a statistic",
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalog.IDs(),
		RunE:      runDetailCmd,
	}
}

func runDetailCmd(cmd *cobra.Command, args []string) error {
	s, logger, err := cliSetup(cmd)
	if err != nil {
		return err
	}
	id := args[0]
	if _, ok := catalog.Lookup(id); !ok {
		return fmt.Errorf("unknown statistic %q", id)
	}
	reg, refresh := loadRegistry(cmd.Context(), s, logger)
	stat, _ := reg.Get(id)
	return stats.RenderDetail(cmd.OutOrStdout(), s.printer, id, refresh.Details[id], stat, stats.PlotOptions{})
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "history [id]",
		Short:     "Show recorded averages of a statistic, or the latest of all",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: catalog.IDs(),
		RunE:      runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of most recent snapshots")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	s, logger, err := cliSetup(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return runLatestHistory(cmd, s, logger)
	}
	id := args[0]
	if _, ok := catalog.Lookup(id); !ok {
		return fmt.Errorf("unknown statistic %q", id)
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	sinceTime, err := parseSinceDate(historySince)
	if err != nil {
		return err
	}

	st, err := store.Open(flagDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	snaps, err := st.ListSnapshots(cmd.Context(), store.SnapshotQuery{StatID: id, Since: sinceTime, Limit: historyLimit})
	if err != nil {
		return err
	}
	return stats.RenderSnapshots(cmd.OutOrStdout(), s.printer, id, snaps, stats.PlotOptions{})
}

func runLatestHistory(cmd *cobra.Command, s settings, logger *slog.Logger) error {
	st, err := store.Open(flagDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	snaps, err := st.LatestSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	return stats.RenderLatestSnapshots(cmd.OutOrStdout(), s.printer, snaps)
}

// cliSetup loads settings for a one-shot command, which logs to stderr.
func cliSetup(cmd *cobra.Command) (settings, *slog.Logger, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return settings{}, nil, err
	}
	return s, logging.New(cmd.ErrOrStderr(), s.log), nil
}

// loadRegistry builds the registry for a one-shot command and refreshes it
// from the configured source. A failed fetch leaves the defaults and config
// rates in place.
func loadRegistry(ctx context.Context, s settings, logger *slog.Logger) (*counter.Registry, tui.Refresh) {
	reg := newRegistry(s, logger)
	if s.source == "" {
		return reg, tui.Refresh{}
	}
	st := openStore(logger)
	defer closeStore(st, logger)
	refresh, err := newLoader(s, st, logger)(ctx)
	if err != nil {
		return reg, tui.Refresh{}
	}
	applySnapshots(reg, refresh.Snapshots)
	return reg, refresh
}

func parseInstant(flag, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s value: %w", flag, err)
	}
	return t, nil
}

// parseSinceDate reads a YYYY-MM-DD date as midnight in Iran time, the zone
// every period boundary uses.
func parseSinceDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, jalali.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &t, nil
}

func visibleReadings(readings []counter.Reading, hidden []string) []counter.Reading {
	if len(hidden) == 0 {
		return readings
	}
	skip := make(map[string]bool, len(hidden))
	for _, id := range hidden {
		skip[id] = true
	}
	out := readings[:0:0]
	for _, r := range readings {
		if !skip[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// tableRenderer collects one evaluation and prints it as a table once the
// period is rendered.
type tableRenderer struct {
	w       io.Writer
	printer *display.Printer
	engine  *counter.Engine
	hidden  map[string]bool
	batch   []counter.Reading
	err     error
}

func newTableRenderer(w io.Writer, p *display.Printer, e *counter.Engine, hidden []string) *tableRenderer {
	r := &tableRenderer{w: w, printer: p, engine: e, hidden: map[string]bool{}}
	for _, id := range hidden {
		r.hidden[id] = true
	}
	return r
}

func (r *tableRenderer) RenderCount(id string, count int64, p counter.Period) error {
	if r.hidden[id] {
		return fmt.Errorf("%w: %s", counter.ErrNoTarget, id)
	}
	r.batch = append(r.batch, counter.Reading{ID: id, Count: count, Period: p})
	return nil
}

func (r *tableRenderer) RenderPeriod(p counter.Period) error {
	readings := r.batch
	r.batch = nil
	if err := stats.RenderCounts(r.w, r.printer, r.engine.Registry().Snapshot(), readings, p, r.engine.EvaluatedAt()); err != nil {
		r.err = err
		return err
	}
	_, err := fmt.Fprintln(r.w)
	return err
}
