// Package program implements the content-addressed, in-memory program
// store: the Sequencer's submission path and the Prover's execution path
// share it under a reader-writer discipline (writers exclusive, readers
// concurrent).
package program

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/zkrollup/core/internal/rollerr"
)

// Metadata is caller-declared descriptive information; it plays no role in
// the program's identity.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Author      string
}

// Program is deployable bytecode. ID is a pure function of Bytecode: two
// programs with identical bytecode collide on the same ID regardless of
// Metadata or ExecutionCost.
type Program struct {
	ID            string
	Bytecode      []byte
	Metadata      Metadata
	ExecutionCost uint64
}

// ComputeID returns the lower-case hex SHA-256 digest of bytecode.
func ComputeID(bytecode []byte) string {
	sum := sha256.Sum256(bytecode)
	return hex.EncodeToString(sum[:])
}

// New builds a Program with its ID derived from bytecode.
func New(bytecode []byte, meta Metadata, executionCost uint64) *Program {
	return &Program{
		ID:            ComputeID(bytecode),
		Bytecode:      bytecode,
		Metadata:      meta,
		ExecutionCost: executionCost,
	}
}

// PublicInputs is the per-program scalar sequence the circuit synthesizer
// flattens into the batch's public inputs (spec's get_public_inputs()).
// v1 exposes a single scalar, the program's declared execution cost: it is
// a pure function of the Program itself, so the prover and the verifier
// derive it identically from the Batch without re-executing anything.
func (p *Program) PublicInputs() []*big.Int {
	return []*big.Int{new(big.Int).SetUint64(p.ExecutionCost)}
}

// Store is the shared content-addressed map from program id to program.
type Store struct {
	mu       sync.RWMutex
	programs map[string]*Program
	batches  map[uint64][]string
	logger   *log.Logger
}

// Config configures a Store's logging.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Store's default logging configuration.
func DefaultConfig() Config {
	return Config{Logger: log.New(log.Writer(), "[ProgramStore] ", log.LstdFlags)}
}

// NewStore constructs an empty Store.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[ProgramStore] ", log.LstdFlags)
	}
	return &Store{
		programs: make(map[string]*Program),
		logger:   logger,
	}
}

// Store inserts or overwrites p under its own ID. Storing a program with
// bytecode identical to an existing entry overwrites that entry's metadata
// — the most recently stored metadata wins under a colliding ID.
func (s *Store) Store(p *Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[p.ID] = p
}

// StoreBatch stores every program newly deployed in a batch, recording
// which batch introduced them.
func (s *Store) StoreBatch(batchID uint64, programs []*Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range programs {
		s.programs[p.ID] = p
	}
	if s.batches == nil {
		s.batches = make(map[uint64][]string)
	}
	ids := make([]string, len(programs))
	for i, p := range programs {
		ids[i] = p.ID
	}
	s.batches[batchID] = ids
}

// Load returns the program stored under id, or a ProgramNotFound error.
func (s *Store) Load(id string) (*Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[id]
	if !ok {
		return nil, rollerr.Wrap(rollerr.ProgramNotFound, fmt.Errorf("program %s not found", id))
	}
	return p, nil
}

// Count returns the number of distinct programs currently stored.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.programs)
}
