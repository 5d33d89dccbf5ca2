// Package engine wires the sequencer, prover, verifier, program store,
// billing ledger, and state into a single owner. It is the object an
// eventual HTTP/CLI adapter (out of scope here) would call into for every
// externally visible operation.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/billing"
	"github.com/zkrollup/core/pkg/circuit"
	"github.com/zkrollup/core/pkg/program"
	"github.com/zkrollup/core/pkg/proof"
	"github.com/zkrollup/core/pkg/prover"
	"github.com/zkrollup/core/pkg/runtime"
	"github.com/zkrollup/core/pkg/sequencer"
	"github.com/zkrollup/core/pkg/setup"
	"github.com/zkrollup/core/pkg/state"
	"github.com/zkrollup/core/pkg/verifier"
)

// Engine composes every component behind the calls an HTTP or CLI adapter
// would invoke: ProcessTransaction mirrors /submit_tx and /sequencer,
// Keys mirrors /get_keys.
type Engine struct {
	cap circuit.Capacity

	programs *program.Store
	runtime  *runtime.Runtime
	state    *state.State
	billing  *billing.Ledger

	sequencer *sequencer.Sequencer
	prover    *prover.Prover
	verifier  *verifier.Verifier

	logger *log.Logger
}

// New runs the trusted-setup ceremony at the given batch capacity and wires
// every component together. Setup failure is fatal — the process cannot
// serve until it succeeds.
func New(seqCfg sequencer.Config, cap circuit.Capacity, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[Engine] ", log.LstdFlags)
	}

	keys, err := setup.Run(cap)
	if err != nil {
		return nil, err
	}

	programs := program.NewStore(program.DefaultConfig())
	rt := runtime.New()
	st := state.New()
	led := billing.New(billing.DefaultConfig())

	seq := sequencer.New(seqCfg, programs, rt, st, logger)
	prv := prover.New(cap, keys.CS, keys.PK, programs, rt, logger)
	ver := verifier.New(cap, keys.VK)

	return &Engine{
		cap:       cap,
		programs:  programs,
		runtime:   rt,
		state:     st,
		billing:   led,
		sequencer: seq,
		prover:    prv,
		verifier:  ver,
		logger:    logger,
	}, nil
}

// SubmitTransaction admits tx into the sequencer's pending queue.
func (e *Engine) SubmitTransaction(tx sequencer.Transaction) error {
	return e.sequencer.SubmitTransaction(tx)
}

// SubmitProgram admits p into the sequencer's pending-program queue.
func (e *Engine) SubmitProgram(p *program.Program) error {
	return e.sequencer.SubmitProgram(p)
}

// DeployProgram stores p directly, bypassing the pending-program queue.
func (e *Engine) DeployProgram(p *program.Program) error {
	return e.sequencer.DeployProgram(p)
}

// ProcessTransaction mirrors the call shape a combined submit-and-sequence
// HTTP handler would expose: admit tx, force a batch, generate and verify a
// proof, and apply it on success.
// Returns the proof only when verification succeeds; a false verification
// result is reported through the error alongside a nil proof, since the
// caller has nothing further to do with an unverified batch.
func (e *Engine) ProcessTransaction(tx sequencer.Transaction) (*proof.Proof, error) {
	if err := e.sequencer.SubmitTransaction(tx); err != nil {
		return nil, err
	}
	return e.CreateAndApplyBatch(true)
}

// CreateAndApplyBatch drains the pending queues into a batch (forced or
// cadence-gated), generates and verifies a proof for it, and applies the
// proof to state on success. Returns (nil, nil) when no batch was due.
func (e *Engine) CreateAndApplyBatch(force bool) (*proof.Proof, error) {
	batch, err := e.sequencer.CreateBatch(force)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, nil
	}
	return e.proveVerifyApply(batch)
}

// proveVerifyApply runs the shared generate-verify-apply pipeline for an
// already-sealed batch.
func (e *Engine) proveVerifyApply(batch *sequencer.Batch) (*proof.Proof, error) {
	p, publicInputs, err := e.prover.GenerateProof(batch)
	if err != nil {
		return nil, err
	}

	ok, err := e.verifier.VerifyProof(p, publicInputs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rollerr.Wrap(rollerr.Verifier, fmt.Errorf("batch %d: proof did not verify", batch.BatchID))
	}

	if err := e.sequencer.ApplyProof(p, batch); err != nil {
		return nil, err
	}
	return p, nil
}

// ExecuteProgram runs the billing discipline around a direct program
// execution: estimate cost, pre-charge, run, refund the excess. The
// estimate and the real run each cost a sandbox execution — v1 does not
// cache the estimate's trace for reuse, since the estimate and the actual
// run may be billed at different moments by the caller's workflow.
func (e *Engine) ExecuteProgram(user, programID string, inputs []byte) ([]byte, error) {
	prog, err := e.programs.Load(programID)
	if err != nil {
		return nil, err
	}

	estimated, err := e.prover.EstimateResourceUsage(prog, inputs)
	if err != nil {
		return nil, err
	}
	estimate := estimated.CPUCycles + estimated.MemoryUsage
	if err := e.billing.CheckAndDeduct(user, estimate); err != nil {
		return nil, err
	}

	out, actualUsage, err := e.runtime.Execute(prog.Bytecode, inputs)
	if err != nil {
		e.billing.Refund(user, estimate, 0)
		return nil, err
	}
	actual := actualUsage.CPUCycles + actualUsage.MemoryUsage
	e.billing.Refund(user, estimate, actual)

	return out, nil
}

// Deposit credits user's pre-paid compute balance.
func (e *Engine) Deposit(user string, amount uint64) {
	e.billing.Deposit(user, amount)
}

// Balance returns user's current pre-paid compute balance.
func (e *Engine) Balance(user string) uint64 {
	return e.billing.Balance(user)
}

// StateSnapshot returns the replicated state's current balance and nonce.
func (e *Engine) StateSnapshot() (balance, nonce uint64) {
	return e.state.Balance(), e.state.Nonce()
}

// RunCadence drives the sequencer's timer-based batch cadence and, for
// every batch it seals, runs the full generate-verify-apply pipeline,
// logging failures rather than stopping the loop: a single batch's proving
// or verification error must not take down the cadence driver for every
// batch after it.
func (e *Engine) RunCadence(ctx context.Context) {
	e.sequencer.RunCadence(ctx, func(batch *sequencer.Batch) {
		p, publicInputs, err := e.prover.GenerateProof(batch)
		if err != nil {
			e.logger.Printf("batch %d: generate proof: %v", batch.BatchID, err)
			return
		}
		ok, err := e.verifier.VerifyProof(p, publicInputs)
		if err != nil {
			e.logger.Printf("batch %d: verify proof: %v", batch.BatchID, err)
			return
		}
		if !ok {
			e.logger.Printf("batch %d: proof did not verify", batch.BatchID)
			return
		}
		if err := e.sequencer.ApplyProof(p, batch); err != nil {
			e.logger.Printf("batch %d: apply proof: %v", batch.BatchID, err)
		}
	})
}

// Keys returns the public-input count the current circuit shape exposes —
// a narrow diagnostic in place of /get_keys; it hands out no key material.
func (e *Engine) Keys() (publicInputCount int) {
	return e.cap.PublicInputCount()
}
