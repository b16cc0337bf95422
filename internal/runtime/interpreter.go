package runtime

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"asl/internal/agent"
	"asl/internal/logging"
	"asl/internal/term"
)

// Semantic runtime errors. These abort the run: the program asked for
// something the semantics cannot provide.
var (
	ErrNoApplicablePlan = errors.New("no applicable plan for achievement goal")
	ErrAddNonAtom       = errors.New("only belief atoms can be added to the belief base")
	ErrAddNonGround     = errors.New("only ground belief atoms can be added to the belief base")
	ErrAchieveNonAtom   = errors.New("achievement goal is not a belief atom")
	ErrUnimplemented    = errors.New("body formula kind not implemented")
)

// Interpreter advances agents one atomic step at a time. It owns the
// counter backing variable anonymization, so runs are deterministic.
type Interpreter struct {
	varSeq uint64
	log    *zap.Logger
}

// NewInterpreter returns a fresh interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{log: logging.Get(logging.CategoryInterpreter)}
}

func (in *Interpreter) freshName() string {
	in.varSeq++
	return fmt.Sprintf("_G%d", in.varSeq)
}

// Step runs one execution step of the agent: one body formula of the front
// frame (preceded, for an external frame, by plan selection in the same
// call), or one pop. It reports whether more work remains. A non-nil error
// is fatal to the run.
func (in *Interpreter) Step(env *Environment, ag *agent.Agent) (bool, error) {
	if !ag.HasWork() {
		return false, nil
	}

	intent := ag.Intents[0]
	if intent.Empty() {
		ag.PopIntention()
		return true, nil
	}
	frame := intent.Front()

	if frame.External {
		in.selectPlan(env, ag, frame)
	}

	if frame.External {
		// Still no plan.
		if frame.GoalType == agent.GoalAchieve {
			ag.PopIntention()
			return false, fmt.Errorf("%w: %s", ErrNoApplicablePlan, frame.Trigger)
		}
		in.log.Debug("no plan for event, dropping",
			zap.String("agent", ag.Name), zap.String("trigger", frame.Trigger.String()))
		intent.PopFront()
		return true, nil
	}

	if frame.Done() {
		in.completeFrame(intent, frame)
		return true, nil
	}

	formula := frame.Current()
	switch formula.Kind {
	case agent.FormulaTerm:
		gen := Consequence(env, ag, formula.Formula, frame.Unifier)
		if !gen.Next() {
			in.log.Warn("goal failure, aborting intention",
				zap.String("agent", ag.Name),
				zap.String("formula", frame.Unifier.Apply(formula.Formula).String()))
			ag.PopIntention()
			return true, nil
		}
		frame.Unifier = gen.Current()

	case agent.FormulaReplace:
		ag.RemoveBeliefs(frame.Unifier.Apply(formula.Formula))
		if err := in.addBelief(ag, frame, formula); err != nil {
			return false, err
		}

	case agent.FormulaAdd:
		if err := in.addBelief(ag, frame, formula); err != nil {
			return false, err
		}

	case agent.FormulaRemove:
		ag.RemoveBeliefs(frame.Unifier.Apply(formula.Formula))

	case agent.FormulaAchieve:
		goal := term.NewAnonymizer(in.freshName).Apply(frame.Unifier.Apply(formula.Formula))
		if goal.Kind() != term.KindAtom {
			return false, fmt.Errorf("%w: %s", ErrAchieveNonAtom, goal)
		}
		intent.PushFront(agent.NewEvent(goal, agent.TriggerAdd, agent.GoalAchieve))

	case agent.FormulaAchieveLater:
		return false, fmt.Errorf("%w: !!%s", ErrUnimplemented, formula.Formula)

	case agent.FormulaTest:
		return false, fmt.Errorf("%w: ?%s", ErrUnimplemented, formula.Formula)
	}

	frame.PC++
	return true, nil
}

// selectPlan scans the plans in source order for the first one whose
// trigger and goal kind match the frame, whose head unifies with the
// trigger, and whose context has at least one solution.
func (in *Interpreter) selectPlan(env *Environment, ag *agent.Agent, frame *agent.Frame) {
	for i := range ag.Plans {
		plan := &ag.Plans[i]
		if plan.Trigger != frame.TriggerType || plan.Goal != frame.GoalType {
			continue
		}

		u := term.Unifier{}
		if !term.Unify(plan.Head, frame.Trigger, u) {
			continue
		}

		gen := Consequence(env, ag, plan.Context, u)
		if !gen.Next() {
			continue
		}

		frame.Unifier = gen.Current()
		frame.Plan = plan
		frame.PC = 0
		frame.External = false
		return
	}
}

// completeFrame pops a finished frame and, if a caller frame remains,
// unifies the completed trigger back into the caller's unifier against the
// formula that spawned the sub-goal. This is how values flow back out of
// achieved goals.
func (in *Interpreter) completeFrame(intent *agent.Intention, frame *agent.Frame) {
	completed := term.NewAnonymizer(in.freshName).Apply(frame.Unifier.Apply(frame.Trigger))

	intent.PopFront()
	if intent.Empty() {
		return
	}

	caller := intent.Front()
	spawning := caller.Unifier.Apply(caller.Plan.Body[caller.PC-1].Formula)
	term.Unify(spawning, completed, caller.Unifier)
}

func (in *Interpreter) addBelief(ag *agent.Agent, frame *agent.Frame, formula agent.BodyFormula) error {
	belief := frame.Unifier.Apply(formula.Formula)
	if belief.Kind() != term.KindAtom {
		return fmt.Errorf("%w: %s", ErrAddNonAtom, belief)
	}
	if !belief.Ground() {
		return fmt.Errorf("%w: %s", ErrAddNonGround, belief)
	}

	ag.Beliefs = append(ag.Beliefs, belief)
	ag.PushIntentionFront(agent.NewIntention(agent.NewEvent(belief, agent.TriggerAdd, agent.GoalBelief)))
	return nil
}

// RunOnce steps every agent once and reports whether any still has work.
func (in *Interpreter) RunOnce(env *Environment, agents []*agent.Agent) (bool, error) {
	more := false
	for _, ag := range agents {
		m, err := in.Step(env, ag)
		if err != nil {
			return false, err
		}
		more = more || m
	}
	return more, nil
}
