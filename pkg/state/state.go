// Package state holds the globally replicated account view, mutated
// exclusively by apply_proof. v1 keeps it deliberately minimal per
// zk_rollup/state.rs in the Rust engine this core was ported from: balance
// accumulates the byte length of every applied proof payload, nonce counts
// applied proofs. Real account semantics are future work — see DESIGN.md.
package state

import (
	"fmt"
	"sync"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/proof"
)

// State is the replicated view. Balance and Nonce are deterministic
// functions of the sequence of proofs applied so far.
type State struct {
	mu      sync.Mutex
	balance uint64
	nonce   uint64
}

// New returns a zeroed State.
func New() *State {
	return &State{}
}

// ApplyProof credits Balance by len(p.Data) and increments Nonce. Fails only
// on a nil proof, surfacing a ZkRollup-category error without mutating
// either field.
func (s *State) ApplyProof(p *proof.Proof) error {
	if p == nil {
		return rollerr.Wrap(rollerr.ZkRollup, fmt.Errorf("apply_proof: nil proof"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += uint64(len(p.Data))
	s.nonce++
	return nil
}

// Balance returns the current accumulated balance.
func (s *State) Balance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Nonce returns the number of proofs applied so far.
func (s *State) Nonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}
