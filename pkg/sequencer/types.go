package sequencer

import "github.com/zkrollup/core/pkg/program"

// NullProgramID designates a pure transfer with no program to execute: the
// designated null identifier for Transaction.ProgramID.
const NullProgramID = "0000000000000000000000000000000000000000000000000000000000000000"

// Transaction is an immutable intended transfer. Created by callers,
// consumed once by exactly one Batch, never mutated.
type Transaction struct {
	Sender    string
	Recipient string
	Amount    uint64
	Nonce     uint64
	ProgramID string
}

// NewTransaction builds a pure-transfer Transaction with no program
// execution attached.
func NewTransaction(sender, recipient string, amount, nonce uint64) Transaction {
	return Transaction{Sender: sender, Recipient: recipient, Amount: amount, Nonce: nonce, ProgramID: NullProgramID}
}

// Batch is an atomic, immutable-after-creation unit of proving.
type Batch struct {
	BatchID      uint64
	Timestamp    int64
	Transactions []Transaction
	Programs     []*program.Program
}
