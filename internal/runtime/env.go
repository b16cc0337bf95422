package runtime

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"asl/internal/agent"
	"asl/internal/logging"
	"asl/internal/term"
)

// ActionFactory builds a generator executing a built-in action for the
// given (already substituted) action atom under the incoming unifier.
type ActionFactory func(env *Environment, ag *agent.Agent, action term.Term, u term.Unifier) Generator

// Message is a belief in transit between agents. Delivery happens strictly
// between step sweeps.
type Message struct {
	ID     string
	From   string
	To     string
	Belief term.Term
}

// Environment is the action registry plus the shared facilities actions
// need: an output sink for .print and an outbox for .send. A nil map lookup
// means "not an action" and the goal falls through to belief matching.
type Environment struct {
	Out io.Writer

	actions map[string]ActionFactory
	outbox  []Message
	varSeq  uint64
	log     *zap.Logger
}

// NewEnvironment returns an environment with the standard library of
// actions registered and output going to stdout.
func NewEnvironment() *Environment {
	env := &Environment{
		Out:     os.Stdout,
		actions: make(map[string]ActionFactory),
		log:     logging.Get(logging.CategoryActions),
	}

	env.Register(".print", printAction)
	env.Register(".my_name", myNameAction)
	env.Register(".fail", failAction)
	env.Register(".send", sendAction)

	return env
}

// Register binds a functor to an action factory. Scenario-specific
// environments extend the standard set this way.
func (e *Environment) Register(functor string, factory ActionFactory) {
	e.actions[functor] = factory
}

// Action returns a generator for the action atom, or nil if the functor is
// not registered.
func (e *Environment) Action(ag *agent.Agent, action term.Term, u term.Unifier) Generator {
	factory, ok := e.actions[action.Functor()]
	if !ok {
		return nil
	}
	return factory(e, ag, action, u)
}

// DrainOutbox removes and returns all queued messages.
func (e *Environment) DrainOutbox() []Message {
	msgs := e.outbox
	e.outbox = nil
	return msgs
}

// freshName supplies variable names for rule renaming.
func (e *Environment) freshName() string {
	e.varSeq++
	return fmt.Sprintf("_R%d", e.varSeq)
}

// actionOnce adapts a run-once action body into a generator: the first Next
// executes it and reports the outcome, every later Next reports exhaustion.
type actionOnce struct {
	u    term.Unifier
	run  func() (term.Unifier, bool)
	done bool
}

func (g *actionOnce) Next() bool {
	if g.done {
		return false
	}
	g.done = true

	u, ok := g.run()
	if ok {
		g.u = u
	}
	return ok
}

func (g *actionOnce) Current() term.Unifier { return g.u }

// printAction renders each argument under the unifier, strings unquoted,
// and terminates with a newline. It always succeeds once.
func printAction(env *Environment, ag *agent.Agent, action term.Term, u term.Unifier) Generator {
	return &actionOnce{run: func() (term.Unifier, bool) {
		for _, arg := range action.Args() {
			fmt.Fprint(env.Out, u.Apply(arg).Display())
		}
		fmt.Fprintln(env.Out)
		return u, true
	}}
}

// myNameAction unifies its single argument with the agent's name.
func myNameAction(env *Environment, ag *agent.Agent, action term.Term, u term.Unifier) Generator {
	return &actionOnce{run: func() (term.Unifier, bool) {
		if action.Arity() != 1 {
			env.log.Warn(".my_name expects exactly one argument",
				zap.String("agent", ag.Name), zap.Int("arity", action.Arity()))
			return nil, false
		}
		out := u.Clone()
		if !term.Unify(term.Str(ag.Name), u.Apply(action.Args()[0]), out) {
			return nil, false
		}
		return out, true
	}}
}

// failAction never yields a unifier.
func failAction(*Environment, *agent.Agent, term.Term, term.Unifier) Generator {
	return exhausted{}
}

// sendAction queues a belief for another agent: .send(recipient, belief).
// The recipient must resolve to a string and the belief to a ground atom;
// anything else fails the action.
func sendAction(env *Environment, ag *agent.Agent, action term.Term, u term.Unifier) Generator {
	return &actionOnce{run: func() (term.Unifier, bool) {
		if action.Arity() != 2 {
			env.log.Warn(".send expects exactly two arguments",
				zap.String("agent", ag.Name), zap.Int("arity", action.Arity()))
			return nil, false
		}

		recipient := u.Apply(action.Args()[0])
		belief := u.Apply(action.Args()[1])

		if recipient.Kind() != term.KindStr {
			env.log.Warn(".send recipient is not a string",
				zap.String("agent", ag.Name), zap.String("recipient", recipient.String()))
			return nil, false
		}
		if belief.Kind() != term.KindAtom || !belief.Ground() {
			env.log.Warn(".send payload is not a ground belief atom",
				zap.String("agent", ag.Name), zap.String("belief", belief.String()))
			return nil, false
		}

		msg := Message{
			ID:     uuid.NewString(),
			From:   ag.Name,
			To:     recipient.StrVal(),
			Belief: belief,
		}
		env.outbox = append(env.outbox, msg)

		env.log.Debug("queued message",
			zap.String("id", msg.ID),
			zap.String("from", msg.From),
			zap.String("to", msg.To),
			zap.String("belief", belief.String()))
		return u, true
	}}
}
