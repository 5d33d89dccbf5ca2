// Package runtime executes program bytecode as an isolated WebAssembly
// instance using wasmer-go's engine/store/instance lifecycle, narrowed to
// the single run()/memory export contract this rollup's programs must
// satisfy: no host imports, input written verbatim at offset 0, output
// read from an instance-returned (pointer, length) pair.
package runtime

import (
	"fmt"
	"math/big"
	"time"

	"github.com/wasmerio/wasmer-go/wasmer"
	"github.com/zkrollup/core/internal/rollerr"
)

const scalarWidth = 32

// ResourceUsage is the metered cost of one Execute call.
type ResourceUsage struct {
	CPUCycles   uint64 // wall-clock microseconds
	MemoryUsage uint64 // linear-memory growth, in bytes
}

// Runtime owns a single wasmer engine shared by every sandboxed execution.
type Runtime struct {
	engine *wasmer.Engine
}

// New constructs a Runtime with a fresh wasmer engine.
func New() *Runtime {
	return &Runtime{engine: wasmer.NewEngine()}
}

// Execute compiles and instantiates bytecode in a fresh sandbox, writes
// input at linear-memory offset 0, invokes the module's required run()
// export, and reads back the output bytes it points to. Compile errors,
// instantiation errors, missing exports, traps, and output-length
// misalignment all surface as distinct Execution-category errors.
func (r *Runtime) Execute(bytecode, input []byte) ([]byte, ResourceUsage, error) {
	store := wasmer.NewStore(r.engine)

	module, err := wasmer.NewModule(store, bytecode)
	if err != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("compile: %w", err))
	}

	instance, err := wasmer.NewInstance(module, wasmer.NewImportObject())
	if err != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("instantiate: %w", err))
	}
	defer instance.Close()

	mem, err := instance.Exports.GetMemory("memory")
	if err != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("missing memory export: %w", err))
	}

	run, err := instance.Exports.GetFunction("run")
	if err != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("missing run export: %w", err))
	}

	if len(input) > len(mem.Data()) {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("input of %d bytes exceeds initial memory size", len(input)))
	}
	copy(mem.Data(), input)

	before := mem.DataSize()
	start := time.Now()
	result, callErr := run()
	elapsed := time.Since(start)
	after := mem.DataSize()
	if callErr != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("trap: %w", callErr))
	}

	ptr, length, err := decodeRunResult(result)
	if err != nil {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, err)
	}

	data := mem.Data()
	if ptr < 0 || length < 0 || int64(ptr)+int64(length) > int64(len(data)) {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("output pointer/length out of bounds"))
	}
	out := make([]byte, length)
	copy(out, data[ptr:ptr+length])
	if len(out)%scalarWidth != 0 {
		return nil, ResourceUsage{}, rollerr.Wrap(rollerr.Execution, fmt.Errorf("output length %d is not a multiple of %d", len(out), scalarWidth))
	}

	usage := ResourceUsage{
		CPUCycles:   uint64(elapsed.Microseconds()),
		MemoryUsage: uint64(after) - uint64(before),
	}
	return out, usage, nil
}

// decodeRunResult unwraps the two i32 values run() must return. wasmer-go
// hands back multi-value results as []interface{}.
func decodeRunResult(result interface{}) (int32, int32, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("run() must return exactly two i32 values")
	}
	ptr, ok := values[0].(int32)
	if !ok {
		return 0, 0, fmt.Errorf("run() output pointer must be i32")
	}
	length, ok := values[1].(int32)
	if !ok {
		return 0, 0, fmt.Errorf("run() output length must be i32")
	}
	return ptr, length, nil
}

// Scalars decodes an Execute output buffer into the sequence of 32-byte
// little-endian scalar field elements the circuit synthesizer's
// program-trace template consumes as witness values.
func Scalars(out []byte) []*big.Int {
	n := len(out) / scalarWidth
	scalars := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		le := make([]byte, scalarWidth)
		copy(le, out[i*scalarWidth:(i+1)*scalarWidth])
		for l, h := 0, len(le)-1; l < h; l, h = l+1, h-1 {
			le[l], le[h] = le[h], le[l]
		}
		scalars[i] = new(big.Int).SetBytes(le)
	}
	return scalars
}
