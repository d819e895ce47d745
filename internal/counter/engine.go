package counter

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/shomar/internal/model"
)

// ErrNoTarget is returned by a Renderer that has no display slot for a
// statistic.
var ErrNoTarget = errors.New("no display target")

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Renderer is the presentation side of the engine.
type Renderer interface {
	RenderCount(id string, count int64, p Period) error
	RenderPeriod(p Period) error
}

// Reading is one evaluated counter.
type Reading struct {
	ID     string
	Count  int64
	Period Period
}

// Engine evaluates every statistic in a registry for the current period.
// It owns no timers; a driver calls Evaluate on each tick.
type Engine struct {
	registry *Registry
	clock    Clock
	loadedAt time.Time
	period   Period
	logger   *slog.Logger

	evaluatedAt time.Time
}

// NewEngine constructs an engine starting in the Daily period. loadedAt is
// the origin for RealTime counting.
func NewEngine(registry *Registry, clock Clock, loadedAt time.Time, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		registry: registry,
		clock:    clock,
		loadedAt: loadedAt,
		period:   Daily,
		logger:   logger,
	}
}

// Registry returns the table the engine evaluates.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Period returns the active period.
func (e *Engine) Period() Period {
	return e.period
}

// LoadedAt returns the RealTime origin.
func (e *Engine) LoadedAt() time.Time {
	return e.loadedAt
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// EvaluatedAt returns the instant of the most recent Evaluate call, or the
// zero time before the first one.
func (e *Engine) EvaluatedAt() time.Time {
	return e.evaluatedAt
}

// SetPeriod switches the active period and recomputes every counter from
// scratch at the clock's current instant.
func (e *Engine) SetPeriod(p Period) ([]Reading, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, int(p))
	}
	e.period = p
	return e.Evaluate(e.clock.Now()), nil
}

// Evaluate recomputes the current count of every statistic at now. Calling
// it twice with the same instant yields the same readings.
func (e *Engine) Evaluate(now time.Time) []Reading {
	e.evaluatedAt = now
	readings := make([]Reading, 0, e.registry.Len())
	e.registry.Each(func(s *model.Statistic) {
		s.Current = Count(*s, e.period, now, e.loadedAt)
		readings = append(readings, Reading{ID: s.ID, Count: s.Current, Period: e.period})
	})
	return readings
}

// Publish hands readings to r. A failure for one statistic is logged and
// the rest of the batch still renders. It returns the number rendered.
func (e *Engine) Publish(r Renderer, readings []Reading) int {
	rendered := 0
	for _, reading := range readings {
		if err := renderCount(r, reading); err != nil {
			e.logRenderError(reading.ID, err)
			continue
		}
		rendered++
	}
	if err := renderPeriod(r, e.period); err != nil {
		e.logger.Warn("failed to render period labels", "period", e.period.String(), "err", err)
	}
	return rendered
}

func (e *Engine) logRenderError(id string, err error) {
	if errors.Is(err, ErrNoTarget) {
		e.logger.Debug("skipping statistic without display target", "id", id)
		return
	}
	e.logger.Warn("failed to render statistic", "id", id, "err", err)
}

func renderCount(r Renderer, reading Reading) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panicked: %v", rec)
		}
	}()
	return r.RenderCount(reading.ID, reading.Count, reading.Period)
}

func renderPeriod(r Renderer, p Period) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panicked: %v", rec)
		}
	}()
	return r.RenderPeriod(p)
}
