package runtime

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"asl/internal/agent"
	"asl/internal/logging"
)

// ErrStepLimit reports that the configured sweep bound was reached before
// the agents ran out of work.
var ErrStepLimit = errors.New("step limit reached")

// Runner owns a set of agents and drives them to completion: round-robin
// sweeps with message delivery strictly between sweeps.
type Runner struct {
	// MaxSweeps bounds the number of full sweeps; zero means unbounded.
	MaxSweeps int

	env    *Environment
	interp *Interpreter
	agents []*agent.Agent
	byName map[string]*agent.Agent
	log    *zap.Logger
}

// NewRunner returns a runner over the given agents.
func NewRunner(env *Environment, agents []*agent.Agent) *Runner {
	byName := make(map[string]*agent.Agent, len(agents))
	for _, ag := range agents {
		byName[ag.Name] = ag
	}
	return &Runner{
		env:    env,
		interp: NewInterpreter(),
		agents: agents,
		byName: byName,
		log:    logging.Get(logging.CategoryRunner),
	}
}

// Run sweeps until every agent reports no work in the same sweep and no
// messages remain undelivered, the context is cancelled, the sweep bound is
// hit, or a semantic error aborts the run.
func (r *Runner) Run(ctx context.Context) error {
	sweeps := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		more, err := r.interp.RunOnce(r.env, r.agents)
		if err != nil {
			return err
		}

		if r.deliver() {
			more = true
		}

		if !more {
			r.log.Debug("all agents idle", zap.Int("sweeps", sweeps))
			return nil
		}

		sweeps++
		if r.MaxSweeps > 0 && sweeps >= r.MaxSweeps {
			return fmt.Errorf("%w after %d sweeps", ErrStepLimit, sweeps)
		}
	}
}

// deliver applies queued messages as belief additions on their recipients.
// It reports whether anything was delivered.
func (r *Runner) deliver() bool {
	delivered := false
	for _, msg := range r.env.DrainOutbox() {
		to, ok := r.byName[msg.To]
		if !ok {
			r.log.Warn("dropping message for unknown agent",
				zap.String("id", msg.ID), zap.String("from", msg.From), zap.String("to", msg.To))
			continue
		}

		to.AddBelief(msg.Belief)
		delivered = true
		r.log.Debug("delivered message",
			zap.String("id", msg.ID),
			zap.String("from", msg.From),
			zap.String("to", msg.To),
			zap.String("belief", msg.Belief.String()))
	}
	return delivered
}
