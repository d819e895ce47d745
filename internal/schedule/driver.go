// Package schedule drives periodic counter re-evaluation.
package schedule

import (
	"context"
	"time"

	"github.com/verte-zerg/shomar/internal/counter"
)

// Tick asks the owner to re-evaluate counters for Period at Now. Seq
// identifies the Start call that produced it.
type Tick struct {
	Seq    uint64
	Period counter.Period
	Now    time.Time
}

// Driver owns a single repeating timer. Start and Stop must be called from
// the goroutine that owns the engine.
type Driver struct {
	clock    counter.Clock
	interval func(counter.Period) time.Duration
	ticks    chan Tick

	seq    uint64
	period counter.Period
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver returns a driver using the standard per-period intervals.
func NewDriver(clock counter.Clock) *Driver {
	return NewDriverWithInterval(clock, counter.Interval)
}

// NewDriverWithInterval returns a driver with a custom interval policy.
func NewDriverWithInterval(clock counter.Clock, interval func(counter.Period) time.Duration) *Driver {
	if clock == nil {
		clock = counter.SystemClock{}
	}
	return &Driver{
		clock:    clock,
		interval: interval,
		ticks:    make(chan Tick),
	}
}

// C delivers ticks. The channel is shared across Start calls.
func (d *Driver) C() <-chan Tick {
	return d.ticks
}

// Seq returns the sequence number of the most recent Start.
func (d *Driver) Seq() uint64 {
	return d.seq
}

// Period returns the period of the most recent Start.
func (d *Driver) Period() counter.Period {
	return d.period
}

// Running reports whether a timer is active.
func (d *Driver) Running() bool {
	return d.cancel != nil
}

// Current reports whether tick came from the active timer.
func (d *Driver) Current(tick Tick) bool {
	return d.Running() && tick.Seq == d.seq
}

// Start cancels any active timer, waits for it to exit and starts a new one
// for p. It returns the new sequence number.
func (d *Driver) Start(ctx context.Context, p counter.Period) uint64 {
	d.Stop()
	d.seq++
	d.period = p
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	go d.run(runCtx, done, d.seq, p, d.interval(p))
	return d.seq
}

// Stop cancels the active timer and waits for it to exit. It is safe to
// call when nothing is running.
func (d *Driver) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

func (d *Driver) run(ctx context.Context, done chan struct{}, seq uint64, p counter.Period, every time.Duration) {
	defer close(done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick := Tick{Seq: seq, Period: p, Now: d.clock.Now()}
			select {
			case d.ticks <- tick:
			case <-ctx.Done():
				return
			}
		}
	}
}
