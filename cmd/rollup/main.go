// Command rollup boots the rollup engine's core: loads configuration, runs
// the trusted-setup ceremony, and blocks until an interrupt signal, at which
// point it shuts down gracefully. The HTTP front door, CLI flags, and
// on-chain relayer are external collaborators this binary does not
// implement — it exists to prove the core wires together and to give an
// adapter a single Engine to call into.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zkrollup/core/pkg/circuit"
	"github.com/zkrollup/core/pkg/config"
	"github.com/zkrollup/core/pkg/engine"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.New(log.Writer(), "[rollup] ", log.LstdFlags)

	cfg := config.Load()
	cap := circuit.Capacity{
		MaxTransactions:           cfg.SequencerConfig.MaxBatchSize,
		MaxTraceLen:               1,
		MaxPrograms:               cfg.SequencerConfig.MaxProgramsPerBatch,
		MaxPublicInputsPerProgram: 1,
	}

	logger.Printf("running trusted setup at capacity %+v", cap)
	eng, err := engine.New(cfg.SequencerConfig, cap, logger)
	if err != nil {
		logger.Printf("fatal: setup failed: %v", err)
		return 1
	}
	logger.Printf("setup complete, engine ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go eng.RunCadence(ctx)

	<-ctx.Done()
	logger.Printf("shutting down")
	return 0
}
