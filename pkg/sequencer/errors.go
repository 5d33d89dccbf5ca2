package sequencer

import "errors"

// ErrQueueFull is returned by SubmitTransaction/SubmitProgram when the
// relevant pending queue is already at capacity.
var ErrQueueFull = errors.New("queue full")
