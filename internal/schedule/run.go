package schedule

import (
	"context"

	"github.com/verte-zerg/shomar/internal/counter"
)

// Run publishes the engine's counters immediately and then on every tick of
// d until ctx is cancelled. The timer is stopped before Run returns.
func Run(ctx context.Context, d *Driver, e *counter.Engine, r counter.Renderer) error {
	e.Publish(r, e.Evaluate(e.Now()))
	d.Start(ctx, e.Period())
	defer d.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case tick := <-d.C():
			if !d.Current(tick) {
				continue
			}
			e.Publish(r, e.Evaluate(tick.Now))
		}
	}
}
