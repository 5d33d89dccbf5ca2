// Package rollerr gives every error raised inside the rollup core a typed
// category, so callers can ask "what kind of failure was this" with
// errors.As instead of string-matching, mirroring the variant taxonomy of
// the Rust engine this core was ported from.
package rollerr

import (
	"errors"
	"fmt"
)

// Category names a failure kind. Names describe categories, not source
// identifiers.
type Category int

const (
	Io Category = iota
	Serialization
	Config
	Setup
	Prover
	Verifier
	Sequencer
	ProgramNotFound
	StorageLock
	Execution
	Estimation
	InsufficientBalance
	ZkRollup
)

func (c Category) String() string {
	switch c {
	case Io:
		return "io"
	case Serialization:
		return "serialization"
	case Config:
		return "config"
	case Setup:
		return "setup"
	case Prover:
		return "prover"
	case Verifier:
		return "verifier"
	case Sequencer:
		return "sequencer"
	case ProgramNotFound:
		return "program_not_found"
	case StorageLock:
		return "storage_lock"
	case Execution:
		return "execution"
	case Estimation:
		return "estimation"
	case InsufficientBalance:
		return "insufficient_balance"
	case ZkRollup:
		return "zk_rollup"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a Category, without discarding the
// original error from errors.Is/errors.As chains.
type Error struct {
	Category Category
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a categorized error from a message.
func New(cat Category, msg string) *Error {
	return &Error{Category: cat, Err: errors.New(msg)}
}

// Wrap attaches a category to an existing error. Returns nil if err is nil,
// so call sites can write `return rollerr.Wrap(Prover, err)` unconditionally.
func Wrap(cat Category, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: cat, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given Category.
func Is(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}
