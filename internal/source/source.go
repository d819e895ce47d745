// Package source loads the published statistics document and maps it onto
// the counter registry and detail records.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/shomar/internal/catalog"
	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/model"
)

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 15 * time.Second

const maxDocumentSize = 16 << 20

// ErrEmptyLocation is returned when no source is configured.
var ErrEmptyLocation = errors.New("source location is empty")

// Document is a decoded statistics document.
type Document struct {
	LastUpdated time.Time

	stats   map[string]json.RawMessage
	details map[string]json.RawMessage
}

type rawDocument struct {
	Root struct {
		Statistics map[string]json.RawMessage `json:"statistics"`
		Details    map[string]json.RawMessage `json:"details"`
		Metadata   struct {
			LastUpdated string `json:"last_updated"`
		} `json:"metadata"`
	} `json:"iran_statistics"`
}

type rawRates struct {
	Daily   *float64 `json:"daily_average"`
	Monthly *float64 `json:"monthly_average"`
	Yearly  *float64 `json:"yearly_average"`
}

type rawDetail struct {
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Sources      []string                   `json:"sources"`
	SourcesLinks []string                   `json:"sources_links"`
	ChartYears   []int                      `json:"chartYears"`
	ChartData    []*float64                 `json:"chartData"`
	World        map[string]json.RawMessage `json:"world"`
}

type rawSeries struct {
	ChartData   []*float64      `json:"chartData"`
	Source      string          `json:"source"`
	SourcesLink json.RawMessage `json:"sources_link"`
}

// Load reads a document from a file path or an http(s) URL.
func Load(ctx context.Context, location string) (Document, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Document{}, ErrEmptyLocation
	}
	var (
		data []byte
		err  error
	)
	if isRemote(location) {
		data, err = fetch(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if err != nil {
			err = fmt.Errorf("failed to read %s: %w", location, err)
		}
	}
	if err != nil {
		return Document{}, err
	}
	return Parse(data)
}

// Parse decodes a statistics document.
func Parse(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("failed to decode statistics document: %w", err)
	}
	if raw.Root.Statistics == nil && raw.Root.Details == nil {
		return Document{}, errors.New("statistics document has no iran_statistics section")
	}
	doc := Document{
		stats:   raw.Root.Statistics,
		details: raw.Root.Details,
	}
	if ts := strings.TrimSpace(raw.Root.Metadata.LastUpdated); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			doc.LastUpdated = parsed
		}
	}
	return doc, nil
}

// Rates returns the published averages of a category. Averages that are
// absent from the document are zero, which the engine treats as missing.
func (d Document) Rates(c catalog.Category) (model.Rates, bool) {
	raw, ok := walk(d.stats, c.StatPath)
	if !ok {
		return model.Rates{}, false
	}
	var rr rawRates
	if err := json.Unmarshal(raw, &rr); err != nil {
		return model.Rates{}, false
	}
	if rr.Daily == nil && rr.Monthly == nil && rr.Yearly == nil {
		return model.Rates{}, false
	}
	return model.Rates{
		Daily:   deref(rr.Daily),
		Monthly: deref(rr.Monthly),
		Yearly:  deref(rr.Yearly),
	}, true
}

// Apply overrides registry averages for every category present in the
// document and returns the ids that were updated.
func (d Document) Apply(reg *counter.Registry) []string {
	var applied []string
	for _, c := range catalog.All() {
		rates, ok := d.Rates(c)
		if !ok {
			continue
		}
		reg.Override(c.ID, rates)
		applied = append(applied, c.ID)
	}
	return applied
}

// Snapshots lists the averages the document publishes, stamped with the
// fetch time and location.
func (d Document) Snapshots(location string, fetchedAt time.Time) []model.Snapshot {
	var out []model.Snapshot
	for _, c := range catalog.All() {
		rates, ok := d.Rates(c)
		if !ok {
			continue
		}
		out = append(out, model.Snapshot{FetchedAt: fetchedAt, Source: location, StatID: c.ID, Rates: rates})
	}
	return out
}

// Details returns detail records keyed by category id.
func (d Document) Details() map[string]model.Detail {
	out := make(map[string]model.Detail)
	for _, c := range catalog.All() {
		detail, ok := d.Detail(c)
		if ok {
			out[c.ID] = detail
		}
	}
	return out
}

// Detail returns the detail record of one category.
func (d Document) Detail(c catalog.Category) (model.Detail, bool) {
	raw, ok := d.details[c.DetailKey]
	if !ok {
		return model.Detail{}, false
	}
	var rd rawDetail
	if err := json.Unmarshal(raw, &rd); err != nil {
		return model.Detail{}, false
	}
	detail := model.Detail{
		Title:       rd.Title,
		Description: rd.Description,
		Years:       rd.ChartYears,
		Values:      rd.ChartData,
	}
	for i, name := range rd.Sources {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		src := model.Source{Name: name}
		if i < len(rd.SourcesLinks) {
			src.Link = strings.TrimSpace(rd.SourcesLinks[i])
		}
		detail.Sources = append(detail.Sources, src)
	}
	if c.Comparable && len(rd.World) > 0 {
		detail.World = parseWorld(rd.World)
	}
	return detail, true
}

// Fetch loads the document at location and applies it to reg. On failure
// the registry is left untouched and the error is logged.
func Fetch(ctx context.Context, location string, reg *counter.Registry, logger *slog.Logger) (Document, []string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	doc, err := Load(ctx, location)
	if err != nil {
		logger.Warn("failed to load statistics, keeping defaults", "source", location, "err", err)
		return Document{}, nil, err
	}
	applied := doc.Apply(reg)
	logger.Info("loaded statistics", "source", location, "applied", len(applied))
	return doc, applied, nil
}

func parseWorld(world map[string]json.RawMessage) *model.WorldComparison {
	cmp := &model.WorldComparison{}
	if raw, ok := world["chartYears"]; ok {
		_ = json.Unmarshal(raw, &cmp.Years)
	}
	for _, name := range catalog.Jurisdictions {
		raw, ok := world[name]
		if !ok {
			continue
		}
		var rs rawSeries
		if err := json.Unmarshal(raw, &rs); err != nil {
			continue
		}
		cmp.Series = append(cmp.Series, model.WorldSeries{
			Jurisdiction: name,
			Values:       rs.ChartData,
			Source:       rs.Source,
			Links:        decodeLinks(rs.SourcesLink),
		})
	}
	if len(cmp.Series) == 0 {
		return nil
	}
	return cmp
}

// decodeLinks accepts either a single link or a list of links.
func decodeLinks(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return compact(list)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return compact(strings.Split(single, ";"))
	}
	return nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func walk(root map[string]json.RawMessage, path []string) (json.RawMessage, bool) {
	if len(path) == 0 || root == nil {
		return nil, false
	}
	raw, ok := root[path[0]]
	if !ok {
		return nil, false
	}
	for _, key := range path[1:] {
		var next map[string]json.RawMessage
		if err := json.Unmarshal(raw, &next); err != nil {
			return nil, false
		}
		raw, ok = next[key]
		if !ok {
			return nil, false
		}
	}
	return raw, true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := httpRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("statistics request failed: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read statistics response: %w", err)
	}
	return data, nil
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := &http.Client{Timeout: DefaultTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
