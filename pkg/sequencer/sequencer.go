// Package sequencer implements the batching state machine: FIFO admission
// queues, cadence/size-gated batch creation, and proof application, built
// around a mutex-guarded struct, a *log.Logger, and a Config with
// DefaultConfig.
package sequencer

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/program"
	"github.com/zkrollup/core/pkg/proof"
	"github.com/zkrollup/core/pkg/runtime"
	"github.com/zkrollup/core/pkg/state"
)

// nextBatchID is a process-wide monotonically increasing counter: an atomic
// integer with sequentially consistent increment, shared by every Sequencer
// in the process rather than reset per instance.
var nextBatchID uint64

// Sequencer owns the pending queues, the processed log, and the state. It
// additionally holds the program store and a runtime so it can serve
// direct program execution.
type Sequencer struct {
	mu  sync.Mutex
	cfg Config

	pendingTx       []Transaction
	pendingPrograms []*program.Program
	processed       []Transaction

	lastBatchTime time.Time

	programs *program.Store
	runtime  *runtime.Runtime
	state    *state.State

	logger *log.Logger
}

// New constructs a Sequencer. A nil logger falls back to a sane default,
// matching scheduler.go's convention.
func New(cfg Config, programs *program.Store, rt *runtime.Runtime, st *state.State, logger *log.Logger) *Sequencer {
	if logger == nil {
		logger = log.New(log.Writer(), "[Sequencer] ", log.LstdFlags)
	}
	return &Sequencer{
		cfg:           cfg,
		programs:      programs,
		runtime:       rt,
		state:         st,
		logger:        logger,
		lastBatchTime: time.Now(),
	}
}

// SubmitTransaction appends tx to the tail of the pending queue, or fails
// with QueueFull once |pending| reaches MaxPendingTransactions. No semantic
// validation happens here — the sequencer is not a gatekeeper for
// correctness; the proof carries that obligation.
func (s *Sequencer) SubmitTransaction(tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pendingTx) >= s.cfg.MaxPendingTransactions {
		return rollerr.Wrap(rollerr.Sequencer, ErrQueueFull)
	}
	s.pendingTx = append(s.pendingTx, tx)
	return nil
}

// SubmitProgram appends p to the pending-program queue, symmetrically
// gated against MaxPendingPrograms. It does not make p resolvable by the
// prover until it is swept into a batch by CreateBatch.
func (s *Sequencer) SubmitProgram(p *program.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pendingPrograms) >= s.cfg.MaxPendingPrograms {
		return rollerr.Wrap(rollerr.Sequencer, ErrQueueFull)
	}
	s.pendingPrograms = append(s.pendingPrograms, p)
	return nil
}

// DeployProgram stores p directly in the shared program store, bypassing
// the pending-program queue and any batch. v1 treats this as the canonical
// deployment path for programs a caller wants resolvable immediately,
// without waiting on the next batch — see DESIGN.md for the Open Question
// this settles.
func (s *Sequencer) DeployProgram(p *program.Program) error {
	s.programs.Store(p)
	return nil
}

// CreateBatch seals a batch if and only if there is at least one pending
// transaction AND (force is true OR at least BatchInterval has elapsed
// since the last emission, or since New before the first). Transactions and programs are popped from the
// head, preserving submission order, up to MaxBatchSize/MaxProgramsPerBatch
// respectively. Returns (nil, nil) when no batch is produced — this is not
// an error. Newly-deployed programs are stored so the prover can resolve
// them by id.
func (s *Sequencer) CreateBatch(force bool) (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pendingTx) == 0 {
		return nil, nil
	}
	if !force && time.Since(s.lastBatchTime) < s.cfg.BatchInterval() {
		return nil, nil
	}

	txCount := min(len(s.pendingTx), s.cfg.MaxBatchSize)
	progCount := min(len(s.pendingPrograms), s.cfg.MaxProgramsPerBatch)

	txs := make([]Transaction, txCount)
	copy(txs, s.pendingTx[:txCount])
	s.pendingTx = s.pendingTx[txCount:]

	progs := make([]*program.Program, progCount)
	copy(progs, s.pendingPrograms[:progCount])
	s.pendingPrograms = s.pendingPrograms[progCount:]

	batchID := atomic.AddUint64(&nextBatchID, 1)
	s.programs.StoreBatch(batchID, progs)

	s.lastBatchTime = time.Now()

	return &Batch{
		BatchID:      batchID,
		Timestamp:    time.Now().Unix(),
		Transactions: txs,
		Programs:     progs,
	}, nil
}

// ApplyProof delegates to State.ApplyProof and, only on success, moves
// every transaction in batch into the processed log. On state failure the
// pending queue — already drained when the batch was sealed — is left
// exactly as it is: "pending state unchanged" refers to this processed-log
// step, not to restoring the sealed batch's transactions. Retrying a failed
// batch is unsafe because batch ids are monotonic; the caller re-submits
// instead.
func (s *Sequencer) ApplyProof(p *proof.Proof, batch *Batch) error {
	if err := s.state.ApplyProof(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = append(s.processed, batch.Transactions...)
	return nil
}

// ExecuteProgram resolves id in the shared program store and runs it under
// the sandbox with inputs, returning its raw output bytes.
func (s *Sequencer) ExecuteProgram(id string, inputs []byte) ([]byte, error) {
	prog, err := s.programs.Load(id)
	if err != nil {
		return nil, err
	}
	out, _, err := s.runtime.Execute(prog.Bytecode, inputs)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PendingTransactionCount returns the number of transactions currently
// awaiting a batch.
func (s *Sequencer) PendingTransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingTx)
}

// PendingProgramCount returns the number of programs currently awaiting a
// batch.
func (s *Sequencer) PendingProgramCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingPrograms)
}

// ProcessedCount returns the number of transactions moved to the processed
// log so far.
func (s *Sequencer) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processed)
}
