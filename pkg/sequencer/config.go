package sequencer

import "time"

// Config holds the sequencer's admission caps and batching cadence.
type Config struct {
	MaxPendingTransactions int `json:"max_pending_transactions"`
	MaxPendingPrograms     int `json:"max_pending_programs"`
	BatchIntervalSeconds   int `json:"batch_interval_seconds"`
	MaxBatchSize           int `json:"max_batch_size"`
	MaxProgramsPerBatch    int `json:"max_programs_per_batch"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxPendingTransactions: 1000,
		MaxPendingPrograms:     1000,
		BatchIntervalSeconds:   60,
		MaxBatchSize:           100,
		MaxProgramsPerBatch:    100,
	}
}

// BatchInterval returns the configured cadence as a time.Duration.
func (c Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchIntervalSeconds) * time.Second
}
