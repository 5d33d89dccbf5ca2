package sequencer

import (
	"context"
	"time"
)

// RunCadence drives CreateBatch(false) on a timer until ctx is cancelled,
// invoking onBatch for every non-nil result. It is a convenience for callers
// (e.g. a future HTTP adapter) that want automatic periodic flushing instead
// of polling CreateBatch themselves. It never changes CreateBatch's own
// documented semantics — a force=true caller can still flush out of band at
// any time.
func (s *Sequencer) RunCadence(ctx context.Context, onBatch func(*Batch)) {
	ticker := time.NewTicker(s.cfg.BatchInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			batch, err := s.CreateBatch(false)
			if err != nil {
				s.logger.Printf("cadence create_batch: %v", err)
				continue
			}
			if batch != nil && onBatch != nil {
				onBatch(batch)
			}
		}
	}
}
