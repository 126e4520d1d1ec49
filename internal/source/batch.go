package source

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// runUnits ingests the given units with at most MaxInFlight in flight.
// Admission is FIFO: units are submitted in slice order and Go blocks
// once the limit is reached, so queued units start in submission order
// as slots free up.
//
// Failures are logged and recorded per unit; the batch itself always
// completes.
func (l *Loader) runUnits(ctx context.Context, units []Unit) Result {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(MaxInFlight)

	result := Result{}
	for _, unit := range units {
		g.Go(func() error {
			_, err := l.store.CreateResource(ctx, toInput(unit))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Error("ingestion unit failed", "unit", unit.ID, "error", err)
				result.Failed++
				result.FailedUnits = append(result.FailedUnits, unit.ID)
				return nil // isolate the failure; siblings continue
			}
			result.Succeeded++
			return nil
		})
	}

	// Unit errors are captured in result, never returned.
	_ = g.Wait()

	l.logger.Info("batch complete",
		"units", len(units), "succeeded", result.Succeeded, "failed", result.Failed)
	return result
}
