// Package config loads the rollup engine's single configuration record from
// config.json, falling back to documented defaults on any load failure with
// a diagnostic on stderr.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zkrollup/core/pkg/sequencer"
)

// ProverConfig holds the prover's persistence path and batch-size bound.
type ProverConfig struct {
	ProvingKeyPath string `json:"proving_key_path"`
	MaxBatchSize   int    `json:"max_batch_size"`
}

// VerifierConfig holds the verifier's persistence path.
type VerifierConfig struct {
	VerificationKeyPath string `json:"verification_key_path"`
}

// Config is the single configuration record the engine loads at startup.
type Config struct {
	ZKParamsPath    string           `json:"zk_params_path"`
	StateDBPath     string           `json:"state_db_path"`
	ProverConfig    ProverConfig     `json:"prover_config"`
	VerifierConfig  VerifierConfig   `json:"verifier_config"`
	SequencerConfig sequencer.Config `json:"sequencer_config"`
}

// Default returns the documented defaults: zk_params_path and state_db_path
// unset (regenerated/unpersisted each run), and the sequencer's default
// caps and cadence.
func Default() *Config {
	return &Config{
		SequencerConfig: sequencer.DefaultConfig(),
	}
}

const defaultPath = "config.json"

// Load reads config.json from the working directory. Any failure — file
// absent, unreadable, or malformed — falls back to Default() with a
// diagnostic line on stderr; this is the one recoverable error the error
// handling design names as handled locally rather than surfaced.
func Load() *Config {
	data, err := os.ReadFile(defaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %s not found or unreadable, falling back to defaults: %v\n", defaultPath, err)
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %s malformed, falling back to defaults: %v\n", defaultPath, err)
		return Default()
	}
	return cfg
}
