// Package prover builds the witness for a sealed batch and runs Groth16
// prove over it: resolve each transaction's program, execute it under the
// sandbox, fold the resulting trace into the circuit, construct the
// witness, and serialize the proof uncompressed.
package prover

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/circuit"
	"github.com/zkrollup/core/pkg/program"
	"github.com/zkrollup/core/pkg/proof"
	"github.com/zkrollup/core/pkg/runtime"
	"github.com/zkrollup/core/pkg/sequencer"
)

// Prover owns the proving key. It keeps no program cache of its own:
// programs are resolved by id from the program store, which is shared with
// the sequencer's submission path under its own reader-writer lock; the
// Prover only ever reads from it.
type Prover struct {
	mu sync.RWMutex

	cap circuit.Capacity
	cs  constraint.ConstraintSystem
	pk  groth16.ProvingKey

	programs *program.Store
	runtime  *runtime.Runtime

	logger *log.Logger
}

// New constructs a Prover bound to a compiled constraint system and proving
// key produced by the setup ceremony.
func New(cap circuit.Capacity, cs constraint.ConstraintSystem, pk groth16.ProvingKey, programs *program.Store, rt *runtime.Runtime, logger *log.Logger) *Prover {
	if logger == nil {
		logger = log.New(log.Writer(), "[Prover] ", log.LstdFlags)
	}
	return &Prover{cap: cap, cs: cs, pk: pk, programs: programs, runtime: rt, logger: logger}
}

// GenerateProof builds a proof for a sealed batch: for every transaction
// other than a pure transfer (NullProgramID, which gets an empty trace),
// resolve its program (ProgramNotFound on a miss),
// execute it under the sandbox with the transaction's payload, fold the
// resulting traces and the batch's newly-deployed programs' public inputs
// into the witness, and run Groth16 prove. Returns the serialized Proof
// alongside the public-input sequence the caller must hand to the verifier
// unchanged.
func (p *Prover) GenerateProof(batch *sequencer.Batch) (*proof.Proof, []*big.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	amounts := make([]uint64, len(batch.Transactions))
	nonces := make([]uint64, len(batch.Transactions))
	traces := make([][]*big.Int, len(batch.Transactions))

	for i, tx := range batch.Transactions {
		amounts[i] = tx.Amount
		nonces[i] = tx.Nonce

		if tx.ProgramID == sequencer.NullProgramID {
			continue
		}
		prog, err := p.programs.Load(tx.ProgramID)
		if err != nil {
			return nil, nil, err
		}
		out, _, err := p.runtime.Execute(prog.Bytecode, encodeTxPayload(tx))
		if err != nil {
			return nil, nil, err
		}
		traces[i] = runtime.Scalars(out)
	}

	perProgramPublicInputs := make([][]*big.Int, len(batch.Programs))
	for i, prog := range batch.Programs {
		perProgramPublicInputs[i] = prog.PublicInputs()
	}
	publicInputs, err := circuit.DerivePublicInputs(p.cap, perProgramPublicInputs)
	if err != nil {
		return nil, nil, rollerr.Wrap(rollerr.Prover, err)
	}

	assignment, err := circuit.Assignment(p.cap, amounts, nonces, traces, publicInputs)
	if err != nil {
		return nil, nil, rollerr.Wrap(rollerr.Prover, err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, rollerr.Wrap(rollerr.Prover, fmt.Errorf("build witness: %w", err))
	}

	grothProof, err := groth16.Prove(p.cs, p.pk, witness)
	if err != nil {
		return nil, nil, rollerr.Wrap(rollerr.Prover, fmt.Errorf("groth16 prove: %w", err))
	}

	var buf bytes.Buffer
	if _, err := grothProof.WriteRawTo(&buf); err != nil {
		return nil, nil, rollerr.Wrap(rollerr.Serialization, fmt.Errorf("serialize proof: %w", err))
	}

	return proof.New(buf.Bytes()), publicInputs, nil
}

// EstimateResourceUsage re-exposes the sandbox's resource estimation for the
// billing path's pre-charge step.
func (p *Prover) EstimateResourceUsage(prog *program.Program, inputs []byte) (runtime.ResourceUsage, error) {
	_, usage, err := p.runtime.Execute(prog.Bytecode, inputs)
	if err != nil {
		return runtime.ResourceUsage{}, rollerr.Wrap(rollerr.Estimation, err)
	}
	return usage, nil
}

// encodeTxPayload is the deterministic wire encoding of a transaction's
// amount/nonce passed to its program as sandboxed input: 8 big-endian bytes
// of amount followed by 8 big-endian bytes of nonce.
func encodeTxPayload(tx sequencer.Transaction) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], tx.Amount)
	binary.BigEndian.PutUint64(buf[8:16], tx.Nonce)
	return buf
}
