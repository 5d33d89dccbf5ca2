// Package proof holds the opaque, serialized Groth16 proof that flows
// between the prover and verifier, plus the narrow Solidity-calldata
// encoding an external settlement relayer consumes. It carries no public
// inputs of its own: those are always recomputed from the Batch, so a
// tampered proof can never be rebound to different inputs.
package proof

import (
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/zkrollup/core/internal/rollerr"
)

// Proof is the uncompressed canonical serialization of a Groth16/BN254
// proof. Opaque to non-cryptographic code.
type Proof struct {
	Data []byte
}

// New wraps raw serialized proof bytes.
func New(data []byte) *Proof {
	return &Proof{Data: data}
}

// Hash returns a SHA-256 digest of the proof bytes, useful as a dedup key
// for adapters that see the same proof more than once.
func (p *Proof) Hash() [32]byte {
	return sha256.Sum256(p.Data)
}

var calldataABI = mustParseABI(`[{"type":"function","name":"submitProof","inputs":[{"name":"proof","type":"bytes"}]}]`)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic("proof: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

// ToSolidityCalldata ABI-encodes the proof bytes as the single argument of
// a `submitProof(bytes)` call, stripping the 4-byte method selector. This is
// the narrow contract for the external on-chain settlement relayer: this
// package only encodes, it never submits a transaction.
func (p *Proof) ToSolidityCalldata() ([]byte, error) {
	packed, err := calldataABI.Pack("submitProof", p.Data)
	if err != nil {
		return nil, rollerr.Wrap(rollerr.Serialization, err)
	}
	return packed[4:], nil
}
