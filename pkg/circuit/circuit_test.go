package circuit

import (
	"math/big"
	"testing"
)

func testCapacity() Capacity {
	return Capacity{
		MaxTransactions:           4,
		MaxTraceLen:               3,
		MaxPrograms:               2,
		MaxPublicInputsPerProgram: 1,
	}
}

func TestDerivePublicInputsIsDeterministic(t *testing.T) {
	cap := testCapacity()
	perProgram := [][]*big.Int{{big.NewInt(5)}, {big.NewInt(9)}}

	a, err := DerivePublicInputs(cap, perProgram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := DerivePublicInputs(cap, perProgram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			t.Fatalf("derivation %d differs between calls: %s vs %s", i, a[i], b[i])
		}
	}
	if a[0].Cmp(big.NewInt(5)) != 0 || a[1].Cmp(big.NewInt(9)) != 0 {
		t.Fatalf("unexpected derived public inputs: %v", a)
	}
}

func TestDerivePublicInputsRejectsOverCapacity(t *testing.T) {
	cap := testCapacity()
	perProgram := [][]*big.Int{{big.NewInt(1)}, {big.NewInt(2)}, {big.NewInt(3)}}
	if _, err := DerivePublicInputs(cap, perProgram); err == nil {
		t.Fatal("expected error exceeding program capacity")
	}
}

func TestAssignmentPadsToCapacity(t *testing.T) {
	cap := testCapacity()
	amounts := []uint64{100, 50}
	nonces := []uint64{1, 1}
	traces := [][]*big.Int{{big.NewInt(7), big.NewInt(7)}}
	publicInputs := []*big.Int{big.NewInt(1)}

	w, err := Assignment(cap, amounts, nonces, traces, publicInputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Amounts) != cap.MaxTransactions {
		t.Fatalf("expected %d amount slots, got %d", cap.MaxTransactions, len(w.Amounts))
	}
	if len(w.Traces) != cap.MaxTransactions || len(w.Traces[0]) != cap.MaxTraceLen {
		t.Fatalf("unexpected trace shape: %d x %d", len(w.Traces), len(w.Traces[0]))
	}
	if len(w.PublicInputs) != cap.PublicInputCount() {
		t.Fatalf("expected %d public inputs, got %d", cap.PublicInputCount(), len(w.PublicInputs))
	}
	// padded trace slot (index 2) must repeat the last real value, 7.
	if w.Traces[0][2].(*big.Int).Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("expected padded trace slot to repeat 7, got %v", w.Traces[0][2])
	}
	// unused transaction slots are zero.
	if w.Amounts[2] != 0 || w.Amounts[3] != 0 {
		t.Fatalf("expected unused transaction slots to be zero")
	}
}

func TestAssignmentRejectsOverCapacity(t *testing.T) {
	cap := testCapacity()
	amounts := make([]uint64, cap.MaxTransactions+1)
	nonces := make([]uint64, cap.MaxTransactions+1)
	if _, err := Assignment(cap, amounts, nonces, nil, nil); err == nil {
		t.Fatal("expected error exceeding transaction capacity")
	}
}
