// Package verifier deserializes and checks a Groth16 proof against a
// batch-derived public-input sequence: a cached verifying key stands in
// for a prepared form, and an explicit gamma_abc_g1 length check runs
// ahead of proof deserialization.
package verifier

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/circuit"
	"github.com/zkrollup/core/pkg/proof"
)

// Verifier owns the verifying key for the lifetime of the process. Caching
// it once in the struct is this package's "preprocessed form" — gnark's
// groth16.Verify does its own internal preparation from the plain vk, so
// there is no separate prepared-key type to hold onto beyond the vk itself.
type Verifier struct {
	mu  sync.RWMutex
	cap circuit.Capacity
	vk  groth16.VerifyingKey
}

// New constructs a Verifier bound to a verifying key produced by the setup
// ceremony.
func New(cap circuit.Capacity, vk groth16.VerifyingKey) *Verifier {
	return &Verifier{cap: cap, vk: vk}
}

// VerifyProof checks a proof against a public-input sequence: reject with a
// Verifier-category error unless len(publicInputs)+1 equals the verifying
// key's gamma_abc_g1 length, deserialize the proof bytes (decode errors
// surface as errors, never as a false result), then run Groth16 verify. A
// cryptographically negative result — proof does not verify — is returned
// as (false, nil), never as an error: failure is a result, not an
// exception.
func (v *Verifier) VerifyProof(p *proof.Proof, publicInputs []*big.Int) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	vkBN254, ok := v.vk.(*groth16bn254.VerifyingKey)
	if !ok {
		return false, rollerr.Wrap(rollerr.Verifier, fmt.Errorf("unexpected verifying key concrete type"))
	}
	if len(publicInputs)+1 != len(vkBN254.G1.K) {
		return false, rollerr.Wrap(rollerr.Verifier, fmt.Errorf("malformed verifying key: %d public inputs incompatible with gamma_abc_g1 length %d", len(publicInputs), len(vkBN254.G1.K)))
	}

	grothProof := groth16.NewProof(ecc.BN254)
	if _, err := grothProof.ReadFrom(bytes.NewReader(p.Data)); err != nil {
		return false, rollerr.Wrap(rollerr.Verifier, fmt.Errorf("malformed proof: %w", err))
	}

	assignment, err := circuit.Assignment(v.cap, nil, nil, nil, publicInputs)
	if err != nil {
		return false, rollerr.Wrap(rollerr.Verifier, err)
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, rollerr.Wrap(rollerr.Verifier, fmt.Errorf("build public witness: %w", err))
	}

	if err := groth16.Verify(grothProof, v.vk, witness); err != nil {
		return false, nil
	}
	return true, nil
}
