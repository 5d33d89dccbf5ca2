package state

import (
	"testing"

	"github.com/zkrollup/core/pkg/proof"
)

// TestStateBalanceAccumulator matches scenario S2: three applied proofs of
// 256 bytes each yield balance = 768 and nonce = 3.
func TestStateBalanceAccumulator(t *testing.T) {
	s := New()
	payload := make([]byte, 256)
	for i := 0; i < 3; i++ {
		if err := s.ApplyProof(proof.New(payload)); err != nil {
			t.Fatalf("unexpected error on apply %d: %v", i, err)
		}
	}
	if s.Balance() != 768 {
		t.Fatalf("expected balance 768, got %d", s.Balance())
	}
	if s.Nonce() != 3 {
		t.Fatalf("expected nonce 3, got %d", s.Nonce())
	}
}

func TestApplyProofNilLeavesStateUnchanged(t *testing.T) {
	s := New()
	if err := s.ApplyProof(proof.New([]byte{1, 2, 3})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Balance()
	beforeNonce := s.Nonce()

	if err := s.ApplyProof(nil); err == nil {
		t.Fatal("expected error applying a nil proof")
	}
	if s.Balance() != before || s.Nonce() != beforeNonce {
		t.Fatal("expected state to be unchanged after a failed apply_proof")
	}
}
