package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"asl/internal/agent"
	"asl/internal/grammar"
	"asl/internal/logging"
	"asl/internal/runtime"
)

var (
	agentCount int
	maxSteps   int
	watchMode  bool
)

var runCmd = &cobra.Command{
	Use:   "run <file.asl>",
	Short: "Run the agents of a program until no work remains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("agents") {
			cfg.Agents = agentCount
		}
		if cmd.Flags().Changed("max-steps") {
			cfg.MaxSteps = maxSteps
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if watchMode {
			return runWatch(cmd.Context(), args[0])
		}
		return runProgram(cmd.Context(), args[0])
	},
}

func init() {
	runCmd.Flags().IntVarP(&agentCount, "agents", "n", 1, "number of copies of the program to run")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "bound on round-robin sweeps, 0 for unbounded")
	runCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run whenever the source file changes")
}

// loadAgents parses the program and replicates it into the configured
// number of agents named agent1..agentN.
func loadAgents(path string) ([]*agent.Agent, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	prog, err := grammar.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	agents := make([]*agent.Agent, cfg.Agents)
	for i := range agents {
		agents[i] = prog.Clone(fmt.Sprintf("agent%d", i+1))
	}
	return agents, nil
}

func runProgram(ctx context.Context, path string) error {
	agents, err := loadAgents(path)
	if err != nil {
		return err
	}

	env := runtime.NewEnvironment()
	r := runtime.NewRunner(env, agents)
	r.MaxSweeps = cfg.MaxSteps
	return r.Run(ctx)
}

// runWatch runs the program, then re-parses and re-runs it every time the
// source changes, until interrupted.
func runWatch(ctx context.Context, path string) error {
	log := logging.Get(logging.CategoryDriver)

	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed := make(chan struct{}, 1)
	w, err := runtime.NewWatcher(path, debounce, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	for {
		// A failing run must not end the watch; report it and wait for the
		// next save.
		if err := runProgram(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("run failed", zap.String("path", path), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			log.Info("source changed, re-running", zap.String("path", path))
		}
	}
}
