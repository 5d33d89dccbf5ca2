package engine

import (
	"testing"

	"github.com/zkrollup/core/pkg/circuit"
	"github.com/zkrollup/core/pkg/sequencer"
)

func testCapacity() circuit.Capacity {
	return circuit.Capacity{
		MaxTransactions:           4,
		MaxTraceLen:               1,
		MaxPrograms:               2,
		MaxPublicInputsPerProgram: 1,
	}
}

func testSequencerConfig() sequencer.Config {
	return sequencer.Config{
		MaxPendingTransactions: 100,
		MaxPendingPrograms:     50,
		BatchIntervalSeconds:   10,
		MaxBatchSize:           4,
		MaxProgramsPerBatch:    2,
	}
}

// TestEndToEndThreeTransfers runs scenario S1's three pure transfers end to
// end through the Engine: a forced batch, proof generation and
// verification, and application to state. One proof is applied, so it
// checks nonce 1 and a balance equal to that proof's byte length.
func TestEndToEndThreeTransfers(t *testing.T) {
	e, err := New(testSequencerConfig(), testCapacity(), nil)
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}

	for _, tx := range []sequencer.Transaction{
		sequencer.NewTransaction("Alice", "Bob", 100, 1),
		sequencer.NewTransaction("Bob", "Charlie", 50, 1),
		sequencer.NewTransaction("Charlie", "Alice", 25, 1),
	} {
		if err := e.SubmitTransaction(tx); err != nil {
			t.Fatalf("unexpected error submitting transaction: %v", err)
		}
	}

	p, err := e.CreateAndApplyBatch(true)
	if err != nil {
		t.Fatalf("unexpected error processing batch: %v", err)
	}
	if p == nil {
		t.Fatal("expected a proof")
	}

	balance, nonce := e.StateSnapshot()
	if nonce != 1 {
		t.Fatalf("expected nonce 1 after a single applied batch, got %d", nonce)
	}
	if balance != uint64(len(p.Data)) {
		t.Fatalf("expected balance to equal the applied proof's byte length %d, got %d", len(p.Data), balance)
	}
}

func TestNoBatchWhenQueueEmpty(t *testing.T) {
	e, err := New(testSequencerConfig(), testCapacity(), nil)
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}
	p, err := e.CreateAndApplyBatch(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatal("expected no proof when no transactions are pending")
	}
}
