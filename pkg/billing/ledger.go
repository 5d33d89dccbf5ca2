// Package billing implements the pre-paid compute-credit ledger: deposit,
// check-and-deduct, and refund-excess, behind a mutex-guarded struct with a
// constructor that falls back to a default logger.
package billing

import (
	"fmt"
	"log"
	"sync"

	"github.com/zkrollup/core/internal/rollerr"
)

// Ledger maps user identifiers to a non-negative balance of pre-paid
// compute credits. Balance can only transition through Deposit,
// CheckAndDeduct, and Refund — it must never go negative.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]uint64
	logger   *log.Logger
}

// Config configures a Ledger's logging.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Ledger's default logging configuration.
func DefaultConfig() Config {
	return Config{Logger: log.New(log.Writer(), "[Billing] ", log.LstdFlags)}
}

// New constructs an empty Ledger.
func New(cfg Config) *Ledger {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[Billing] ", log.LstdFlags)
	}
	return &Ledger{balances: make(map[string]uint64), logger: logger}
}

// Deposit increments user's balance by amount.
func (l *Ledger) Deposit(user string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[user] += amount
}

// Balance returns user's current balance.
func (l *Ledger) Balance(user string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[user]
}

// CheckAndDeduct decrements user's balance by amount, or fails with
// InsufficientBalance without charging anything — no partial charge.
func (l *Ledger) CheckAndDeduct(user string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[user] < amount {
		return rollerr.Wrap(rollerr.InsufficientBalance, fmt.Errorf("user %s has %d credits, needs %d", user, l.balances[user], amount))
	}
	l.balances[user] -= amount
	return nil
}

// Refund credits back max(0, deducted-actual), the excess of an earlier
// CheckAndDeduct over the work's real cost.
func (l *Ledger) Refund(user string, deducted, actual uint64) {
	if actual >= deducted {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[user] += deducted - actual
}
