// Package setup runs the one-time Groth16 trusted-setup ceremony: compile
// the circuit at a fixed batch capacity, draw cryptographically strong
// randomness, and run groth16.Setup. Fail-fast on any error — the process
// cannot serve until this succeeds.
package setup

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkrollup/core/internal/rollerr"
	"github.com/zkrollup/core/pkg/circuit"
)

// Keys bundles everything the trusted setup produces. cs is retained
// alongside pk/vk because the prover needs the compiled constraint system,
// not just the proving key, to call groth16.Prove.
type Keys struct {
	Capacity circuit.Capacity
	CS       constraint.ConstraintSystem
	PK       groth16.ProvingKey
	VK       groth16.VerifyingKey
}

// Run compiles RollupCircuit at cap and executes Groth16's circuit-specific
// setup. The keys are bound to this exact circuit geometry — changing
// Capacity or the circuit's constraint templates invalidates every
// outstanding proof.
func Run(cap circuit.Capacity) (*Keys, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit.New(cap))
	if err != nil {
		return nil, rollerr.Wrap(rollerr.Setup, fmt.Errorf("compile circuit: %w", err))
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, rollerr.Wrap(rollerr.Setup, fmt.Errorf("groth16 setup: %w", err))
	}
	return &Keys{Capacity: cap, CS: ccs, PK: pk, VK: vk}, nil
}

// Save best-effort persists the constraint system, proving key, and
// verifying key to the given paths. A blank path skips that artifact —
// persistence is optional.
func (k *Keys) Save(csPath, pkPath, vkPath string) error {
	if csPath != "" {
		if err := writeTo(csPath, k.CS); err != nil {
			return rollerr.Wrap(rollerr.Io, fmt.Errorf("save constraint system: %w", err))
		}
	}
	if pkPath != "" {
		if err := writeTo(pkPath, k.PK); err != nil {
			return rollerr.Wrap(rollerr.Io, fmt.Errorf("save proving key: %w", err))
		}
	}
	if vkPath != "" {
		if err := writeTo(vkPath, k.VK); err != nil {
			return rollerr.Wrap(rollerr.Io, fmt.Errorf("save verifying key: %w", err))
		}
	}
	return nil
}

type writerTo interface {
	WriteTo(w io.Writer) (int64, error)
}

func writeTo(path string, w writerTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = w.WriteTo(f)
	return err
}

// Load reads a previously persisted ceremony back from disk. Callers should
// fall back to Run whenever the files are absent — persistence is optional,
// regenerated each run if absent.
func Load(cap circuit.Capacity, csPath, pkPath, vkPath string) (*Keys, error) {
	cs := groth16.NewCS(ecc.BN254)
	if err := readFrom(csPath, cs); err != nil {
		return nil, rollerr.Wrap(rollerr.Io, fmt.Errorf("load constraint system: %w", err))
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(pkPath, pk); err != nil {
		return nil, rollerr.Wrap(rollerr.Io, fmt.Errorf("load proving key: %w", err))
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(vkPath, vk); err != nil {
		return nil, rollerr.Wrap(rollerr.Io, fmt.Errorf("load verifying key: %w", err))
	}
	return &Keys{Capacity: cap, CS: cs, PK: pk, VK: vk}, nil
}

type readerFrom interface {
	ReadFrom(r io.Reader) (int64, error)
}

func readFrom(path string, r readerFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.ReadFrom(f)
	return err
}
