package source

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/shomar/internal/catalog"
	"github.com/verte-zerg/shomar/internal/counter"
)

const sampleDocument = `{
  "iran_statistics": {
    "statistics": {
      "traffic_accidents_deaths": {
        "deaths": {"daily_average": 55, "monthly_average": 1650, "yearly_average": 20075}
      },
      "death_penalty": {"daily_average": 2, "yearly_average": 975},
      "education": {"dropouts": {"note": "pending"}}
    },
    "details": {
      "traffic_accidents_deaths": {
        "title": "Road deaths",
        "description": "Deaths in road accidents.",
        "sources": ["Forensic Medicine", " ", "WHO"],
        "sources_links": ["https://example.org/lmo", "", "https://example.org/who"],
        "chartYears": [1399, 1400, 1401],
        "chartData": [16000, null, 20000],
        "world": {
          "chartYears": [2019, 2020],
          "Turkey": {"chartData": [5473, null], "source": "TUIK", "sources_link": ["https://example.org/tuik"]},
          "Germany": {"chartData": [3046, 2719], "source": "Destatis", "sources_link": "https://example.org/a;https://example.org/b"},
          "Mars": {"chartData": [1, 2], "source": "nobody"}
        }
      },
      "education_dropouts": {
        "title": "Dropouts",
        "chartYears": [1400],
        "chartData": [100],
        "world": {"chartYears": [2020], "US": {"chartData": [1]}}
      }
    },
    "metadata": {"last_updated": "2025-06-01T08:30:00Z"}
  }
}`

func TestParseAndApply(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), doc.LastUpdated)

	reg := counter.NewRegistry(catalog.DefaultStatistics())
	applied := doc.Apply(reg)
	assert.Equal(t, []string{"traffic-deaths", "death-penalty"}, applied)

	traffic, ok := reg.Get("traffic-deaths")
	require.True(t, ok)
	assert.Equal(t, 55.0, traffic.Daily)
	assert.Equal(t, 20075.0, traffic.Yearly)

	penalty, ok := reg.Get("death-penalty")
	require.True(t, ok)
	assert.Equal(t, 2.0, penalty.Daily)
	assert.Equal(t, 0.0, penalty.Monthly, "absent average is missing")

	dropouts, ok := reg.Get("education-dropouts")
	require.True(t, ok)
	assert.Equal(t, 450.0, dropouts.Daily, "category without averages keeps defaults")
}

func TestDetails(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	details := doc.Details()
	require.Len(t, details, 2)

	traffic := details["traffic-deaths"]
	assert.Equal(t, "Road deaths", traffic.Title)
	require.Len(t, traffic.Sources, 2)
	assert.Equal(t, "Forensic Medicine", traffic.Sources[0].Name)
	assert.Equal(t, "https://example.org/lmo", traffic.Sources[0].Link)
	assert.Equal(t, "WHO", traffic.Sources[1].Name)
	assert.Equal(t, "", traffic.Sources[1].Link)
	assert.Equal(t, []int{1399, 1400, 1401}, traffic.Years)
	require.Len(t, traffic.Values, 3)
	assert.Nil(t, traffic.Values[1])
	assert.Equal(t, 20000.0, *traffic.Values[2])

	require.NotNil(t, traffic.World)
	assert.Equal(t, []int{2019, 2020}, traffic.World.Years)
	require.Len(t, traffic.World.Series, 2)
	assert.Equal(t, "Turkey", traffic.World.Series[0].Jurisdiction)
	assert.Equal(t, []string{"https://example.org/tuik"}, traffic.World.Series[0].Links)
	assert.Equal(t, "Germany", traffic.World.Series[1].Jurisdiction)
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, traffic.World.Series[1].Links)

	dropouts := details["education-dropouts"]
	assert.Nil(t, dropouts.World, "world data only for comparable categories")
}

func TestParseRejectsForeignDocument(t *testing.T) {
	_, err := Parse([]byte(`{"other": {}}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))
	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	_, ok := doc.Rates(mustCategory(t, "traffic-deaths"))
	assert.True(t, ok)

	_, err = Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyLocation)
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statistics.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/statistics.json")
	require.NoError(t, err)
	assert.Len(t, doc.Details(), 2)

	_, err = Load(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestFetchKeepsDefaultsOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := counter.NewRegistry(catalog.DefaultStatistics())
	before := reg.Snapshot()

	_, applied, err := Fetch(context.Background(), srv.URL, reg, logger)
	assert.Error(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, before, reg.Snapshot())
	assert.Contains(t, buf.String(), "keeping defaults")
}

func mustCategory(t *testing.T, id string) catalog.Category {
	t.Helper()
	c, ok := catalog.Lookup(id)
	require.True(t, ok)
	return c
}

func TestSnapshots(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	at := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	snaps := doc.Snapshots("statistics.json", at)
	require.Len(t, snaps, 2)
	assert.Equal(t, "traffic-deaths", snaps[0].StatID)
	assert.Equal(t, 1650.0, snaps[0].Rates.Monthly)
	assert.Equal(t, "statistics.json", snaps[1].Source)
	assert.True(t, snaps[1].FetchedAt.Equal(at))
}
