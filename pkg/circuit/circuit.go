// Package circuit lowers a sequencer Batch into an R1CS over the BN254
// scalar field, following the frontend.Variable / Define(api) idiom. The
// adjacent-pair trace-identity constraint is a placeholder for future
// per-opcode constraints. Circuit shape is a pure function of Capacity,
// never of actual batch occupancy, so one setup's keys stay valid across
// every batch the sequencer produces.
package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// Capacity fixes the circuit's geometry. MaxTransactions bounds the
// transaction template and sizes one trace slot per transaction;
// MaxTraceLen bounds each trace's length; MaxPrograms and
// MaxPublicInputsPerProgram bound the flattened public-input vector
// derived from a batch's newly-deployed programs.
type Capacity struct {
	MaxTransactions           int
	MaxTraceLen               int
	MaxPrograms               int
	MaxPublicInputsPerProgram int
}

// PublicInputCount is the total number of public witness scalars this
// Capacity's circuit exposes.
func (c Capacity) PublicInputCount() int {
	return c.MaxPrograms * c.MaxPublicInputsPerProgram
}

// RollupCircuit is the gnark circuit definition shared by setup, proving,
// and verification. Its field lengths are fixed once by New and never vary
// with the batch actually being proven.
type RollupCircuit struct {
	Amounts  []frontend.Variable
	Nonces   []frontend.Variable
	Products []frontend.Variable

	Traces [][]frontend.Variable

	PublicInputs []frontend.Variable `gnark:",public"`
}

// New allocates a zero-valued circuit shaped at cap. The same Capacity must
// be used for setup, proving, and verification — it determines key
// geometry.
func New(cap Capacity) *RollupCircuit {
	traces := make([][]frontend.Variable, cap.MaxTransactions)
	for i := range traces {
		traces[i] = make([]frontend.Variable, cap.MaxTraceLen)
	}
	return &RollupCircuit{
		Amounts:      make([]frontend.Variable, cap.MaxTransactions),
		Nonces:       make([]frontend.Variable, cap.MaxTransactions),
		Products:     make([]frontend.Variable, cap.MaxTransactions),
		Traces:       traces,
		PublicInputs: make([]frontend.Variable, cap.PublicInputCount()),
	}
}

// Define enforces the two fixed constraint templates:
//
//   - transaction template: amount * nonce = product, for every transaction
//     slot (padded slots are all-zero, trivially satisfying the constraint);
//   - program-trace template: for every adjacent pair within a trace,
//     prev * 1 = cur. This pins the trace into the witness; it is a
//     placeholder for future per-opcode constraints and MUST NOT be
//     silently relaxed.
//
// Public inputs carry no additional constraint beyond self-equality, which
// exists only so gnark does not reject them as unconstrained: their values
// are independently derived by the prover and the verifier from the same
// Batch, never from the proof itself.
func (c *RollupCircuit) Define(api frontend.API) error {
	for i := range c.Amounts {
		product := api.Mul(c.Amounts[i], c.Nonces[i])
		api.AssertIsEqual(product, c.Products[i])
	}
	for _, trace := range c.Traces {
		for i := 1; i < len(trace); i++ {
			api.AssertIsEqual(api.Mul(trace[i-1], 1), trace[i])
		}
	}
	for i := range c.PublicInputs {
		api.AssertIsEqual(c.PublicInputs[i], c.PublicInputs[i])
	}
	return nil
}

// Assignment builds a concrete witness shaped at cap from a batch's
// transaction amounts/nonces, per-transaction execution traces, and the
// already-derived public-input sequence (see DerivePublicInputs). Every
// slice is zero-padded up to capacity; trace padding repeats the last real
// trace value (or zero, if the trace is empty) so padded slots keep
// satisfying the identity template by construction.
func Assignment(cap Capacity, amounts, nonces []uint64, traces [][]*big.Int, publicInputs []*big.Int) (*RollupCircuit, error) {
	if len(amounts) != len(nonces) {
		return nil, fmt.Errorf("circuit: amounts/nonces length mismatch (%d vs %d)", len(amounts), len(nonces))
	}
	if len(amounts) > cap.MaxTransactions {
		return nil, fmt.Errorf("circuit: %d transactions exceeds capacity %d", len(amounts), cap.MaxTransactions)
	}
	if len(traces) > cap.MaxTransactions {
		return nil, fmt.Errorf("circuit: %d traces exceeds capacity %d", len(traces), cap.MaxTransactions)
	}
	if len(publicInputs) > cap.PublicInputCount() {
		return nil, fmt.Errorf("circuit: %d public inputs exceeds capacity %d", len(publicInputs), cap.PublicInputCount())
	}

	w := New(cap)

	for i := range w.Amounts {
		if i < len(amounts) {
			w.Amounts[i] = amounts[i]
			w.Nonces[i] = nonces[i]
			w.Products[i] = new(big.Int).Mul(new(big.Int).SetUint64(amounts[i]), new(big.Int).SetUint64(nonces[i]))
		} else {
			w.Amounts[i] = 0
			w.Nonces[i] = 0
			w.Products[i] = 0
		}
	}

	for t := range w.Traces {
		var trace []*big.Int
		if t < len(traces) {
			trace = traces[t]
		}
		if len(trace) > cap.MaxTraceLen {
			return nil, fmt.Errorf("circuit: transaction %d trace length %d exceeds capacity %d", t, len(trace), cap.MaxTraceLen)
		}
		fill := big.NewInt(0)
		for i := 0; i < cap.MaxTraceLen; i++ {
			if i < len(trace) && trace[i] != nil {
				fill = trace[i]
			}
			w.Traces[t][i] = fill
		}
	}

	for i := range w.PublicInputs {
		if i < len(publicInputs) && publicInputs[i] != nil {
			w.PublicInputs[i] = publicInputs[i]
		} else {
			w.PublicInputs[i] = big.NewInt(0)
		}
	}

	return w, nil
}

// DerivePublicInputs flattens each newly-deployed program's PublicInputs()
// in batch order, zero-padded to cap's capacity. Both the prover and the
// verifier call this with the same Capacity and the same ordered list of
// program public-input vectors, so they always derive a bit-identical
// sequence from the same Batch.
func DerivePublicInputs(cap Capacity, perProgram [][]*big.Int) ([]*big.Int, error) {
	if len(perProgram) > cap.MaxPrograms {
		return nil, fmt.Errorf("circuit: %d programs exceeds capacity %d", len(perProgram), cap.MaxPrograms)
	}
	out := make([]*big.Int, cap.PublicInputCount())
	for i := range out {
		out[i] = big.NewInt(0)
	}
	for p, inputs := range perProgram {
		if len(inputs) > cap.MaxPublicInputsPerProgram {
			return nil, fmt.Errorf("circuit: program %d has %d public inputs, exceeds capacity %d", p, len(inputs), cap.MaxPublicInputsPerProgram)
		}
		for i, v := range inputs {
			out[p*cap.MaxPublicInputsPerProgram+i] = v
		}
	}
	return out, nil
}
