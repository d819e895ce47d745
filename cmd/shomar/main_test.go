package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/shomar/internal/config"
	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/display"
	"github.com/verte-zerg/shomar/internal/model"
	"github.com/verte-zerg/shomar/internal/store"
)

var discard = slog.New(slog.DiscardHandler)

func TestNewRegistryAppliesConfiguredRates(t *testing.T) {
	daily := 100.0
	s := settings{rates: map[string]config.RateConfig{
		"traffic-deaths": {Daily: &daily},
		"unknown":        {Daily: &daily},
	}}
	reg := newRegistry(s, discard)
	stat, ok := reg.Get("traffic-deaths")
	if !ok {
		t.Fatalf("expected traffic-deaths in registry")
	}
	if stat.Daily != 100 || stat.Monthly != 1800 {
		t.Fatalf("unexpected rates: %+v", stat.Rates())
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Fatalf("unknown statistic should not be added")
	}
}

func TestFailedLoadKeepsConfiguredRates(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shomar.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	old := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if _, err := st.InsertSnapshots(context.Background(), []model.Snapshot{
		{FetchedAt: old, Source: "other.json", StatID: "traffic-deaths", Rates: model.Rates{Daily: 7}},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	prevDB := flagDB
	flagDB = dbPath
	t.Cleanup(func() { flagDB = prevDB })

	daily := 55.0
	s := settings{
		source:       filepath.Join(dir, "missing.json"),
		fetchTimeout: time.Second,
		rates:        map[string]config.RateConfig{"traffic-deaths": {Daily: &daily}},
	}
	reg, refresh := loadRegistry(context.Background(), s, discard)
	stat, ok := reg.Get("traffic-deaths")
	if !ok {
		t.Fatalf("expected traffic-deaths in registry")
	}
	if stat.Daily != 55 || stat.Monthly != 1800 {
		t.Fatalf("expected configured rates to survive, got %+v", stat.Rates())
	}
	if refresh.Source != "" || len(refresh.Snapshots) != 0 {
		t.Fatalf("expected empty refresh, got %+v", refresh)
	}
}

func TestLoaderWithoutSourceIsNil(t *testing.T) {
	if loader := newLoader(settings{}, nil, discard); loader != nil {
		t.Fatalf("expected no loader without a source")
	}
}

func TestLoaderReturnsLoadError(t *testing.T) {
	s := settings{source: filepath.Join(t.TempDir(), "missing.json"), fetchTimeout: time.Second}
	if _, err := newLoader(s, nil, discard)(context.Background()); err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestLoaderReadsDocumentAndRecordsSnapshots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statistics.json")
	doc := `{"iran_statistics": {
		"metadata": {"last_updated": "2025-06-01T08:30:00Z"},
		"statistics": {"death_penalty": {"daily_average": 4, "monthly_average": 120, "yearly_average": 1460}},
		"details": {}
	}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	st, err := store.Open(filepath.Join(dir, "shomar.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	s := settings{source: path, fetchTimeout: time.Second}
	refresh, err := newLoader(s, st, discard)(context.Background())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	if len(refresh.Snapshots) != 1 || refresh.Snapshots[0].StatID != "death-penalty" {
		t.Fatalf("unexpected snapshots: %+v", refresh.Snapshots)
	}
	stored, err := st.LatestSnapshots(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(stored) != 1 || stored[0].Rates.Monthly != 120 {
		t.Fatalf("expected recorded snapshot, got %+v", stored)
	}
}

func TestParseInstant(t *testing.T) {
	fallback := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := parseInstant("--at", "", fallback)
	if err != nil || !got.Equal(fallback) {
		t.Fatalf("expected fallback, got %v (%v)", got, err)
	}
	got, err = parseInstant("--at", "2025-10-19T12:00:00+03:30", fallback)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(time.Date(2025, 10, 19, 8, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant %v", got)
	}
	if _, err := parseInstant("--at", "yesterday", fallback); err == nil {
		t.Fatalf("expected error for invalid instant")
	}
}

func TestVisibleReadings(t *testing.T) {
	readings := []counter.Reading{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := visibleReadings(readings, []string{"b"})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected readings: %+v", got)
	}
	if len(readings) != 3 || readings[1].ID != "b" {
		t.Fatalf("input was modified: %+v", readings)
	}
}

func TestTableRendererSkipsHiddenStatistics(t *testing.T) {
	now := time.Date(2025, 10, 19, 8, 30, 0, 0, time.UTC)
	reg := counter.NewRegistry([]model.Statistic{
		{ID: "traffic-deaths", Daily: 60},
		{ID: "death-penalty", Daily: 2},
	})
	later := now.Add(time.Hour)
	engine := counter.NewEngine(reg, counter.ClockFunc(func() time.Time { return later }), now, nil)
	var buf bytes.Buffer
	r := newTableRenderer(&buf, display.NewPrinter(display.English), engine, []string{"death-penalty"})

	if rendered := engine.Publish(r, engine.Evaluate(now)); rendered != 1 {
		t.Fatalf("expected 1 rendered statistic, got %d", rendered)
	}
	out := buf.String()
	if !strings.Contains(out, "Traffic accident deaths") || !strings.Contains(out, "30") {
		t.Fatalf("expected traffic counter in output:\n%s", out)
	}
	if strings.Contains(out, "Executions") {
		t.Fatalf("hidden statistic was printed:\n%s", out)
	}
	if !strings.Contains(out, "Today so far, until 12:00:00") {
		t.Fatalf("expected period label:\n%s", out)
	}
}

func TestParseSinceDateUsesIranTime(t *testing.T) {
	got, err := parseSinceDate("2025-10-19")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2025, 10, 18, 20, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got.UTC())
	}
	if got, err := parseSinceDate(""); err != nil || got != nil {
		t.Fatalf("expected no bound, got %v (%v)", got, err)
	}
	if _, err := parseSinceDate("19/10/2025"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}
