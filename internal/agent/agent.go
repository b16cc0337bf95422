// Package agent holds the static program of an agent (rules and plans) and
// its mutable runtime state (belief base and intention stacks). Plans and
// rules are fixed at load time; beliefs and intentions are mutated only by
// the step interpreter and by event delivery between steps.
package agent

import "asl/internal/term"

// TriggerType distinguishes belief/goal addition events from removal events.
type TriggerType uint8

const (
	TriggerAdd TriggerType = iota
	TriggerRemove
)

// GoalType distinguishes the three event flavours a plan can react to.
type GoalType uint8

const (
	GoalAchieve GoalType = iota
	GoalTest
	GoalBelief
)

// FormulaKind tags a plan-body formula.
type FormulaKind uint8

const (
	FormulaTerm FormulaKind = iota
	FormulaTest
	FormulaAchieve
	FormulaAchieveLater
	FormulaAdd
	FormulaRemove
	FormulaReplace
)

// BodyFormula is a single step of a plan body.
type BodyFormula struct {
	Kind    FormulaKind
	Formula term.Term
}

// NoOpFormula is the body of a plan written without one: the trivially true
// term formula.
func NoOpFormula() BodyFormula {
	return BodyFormula{Kind: FormulaTerm, Formula: term.True}
}

// Rule states that whenever the head unifies, the body term must also hold.
// Non-ground beliefs in the program source load as rules with body true.
type Rule struct {
	Head term.Term // always an atom
	Body term.Term
}

// Plan maps a triggering event and a context condition to a body.
type Plan struct {
	Trigger TriggerType
	Goal    GoalType
	Head    term.Term // the trigger atom
	Context term.Term
	Body    []BodyFormula
}

// Frame is one entry of an intention stack: a triggering event plus, once a
// plan has been selected, a cursor into that plan's body and the unifier
// accumulating bindings. External is true until plan selection happens.
type Frame struct {
	TriggerType TriggerType
	GoalType    GoalType
	Trigger     term.Term
	External    bool

	// Plan body cursor. Plans are immutable and outlive every frame, so the
	// pointer is a stable handle.
	Plan    *Plan
	PC      int
	Unifier term.Unifier
}

// NewEvent returns an unprocessed external frame for the given trigger.
func NewEvent(trigger term.Term, tt TriggerType, gt GoalType) *Frame {
	return &Frame{
		TriggerType: tt,
		GoalType:    gt,
		Trigger:     trigger,
		External:    true,
		Unifier:     term.Unifier{},
	}
}

// Done reports whether the selected plan body is exhausted.
func (f *Frame) Done() bool {
	return f.Plan == nil || f.PC >= len(f.Plan.Body)
}

// Current returns the body formula under the cursor.
func (f *Frame) Current() BodyFormula {
	return f.Plan.Body[f.PC]
}

// Intention is a stack of frames; the front frame is the deepest sub-goal
// currently being advanced.
type Intention struct {
	Frames []*Frame
}

// NewIntention returns an intention consisting of the single given frame.
func NewIntention(f *Frame) *Intention {
	return &Intention{Frames: []*Frame{f}}
}

// Empty reports whether no frames remain.
func (i *Intention) Empty() bool { return len(i.Frames) == 0 }

// Front returns the deepest frame.
func (i *Intention) Front() *Frame { return i.Frames[0] }

// PushFront deepens the intention with a new sub-goal frame.
func (i *Intention) PushFront(f *Frame) {
	i.Frames = append([]*Frame{f}, i.Frames...)
}

// PopFront removes the deepest frame.
func (i *Intention) PopFront() {
	i.Frames = i.Frames[1:]
}

// Agent is a named agent: its program plus its runtime state.
type Agent struct {
	Name    string
	Beliefs []term.Term // atoms, insertion order, duplicates allowed
	Rules   []Rule
	Plans   []Plan
	Intents []*Intention // front is scheduled next
}

// AddBelief appends a ground belief atom and queues the corresponding
// belief-addition event at the back of the intention queue. Used by the
// loader for initial beliefs and by the runner for delivered messages; the
// interpreter pushes its own events to the front instead.
func (a *Agent) AddBelief(belief term.Term) {
	a.Beliefs = append(a.Beliefs, belief)
	a.Intents = append(a.Intents, NewIntention(NewEvent(belief, TriggerAdd, GoalBelief)))
}

// AddGoal queues an achievement-goal event at the back of the intention
// queue. Used by the loader for initial goals.
func (a *Agent) AddGoal(trigger term.Term) {
	a.Intents = append(a.Intents, NewIntention(NewEvent(trigger, TriggerAdd, GoalAchieve)))
}

// RemoveBeliefs erases every belief that unifies with the pattern.
func (a *Agent) RemoveBeliefs(pattern term.Term) {
	kept := a.Beliefs[:0]
	for _, b := range a.Beliefs {
		if !term.Matches(pattern, b) {
			kept = append(kept, b)
		}
	}
	a.Beliefs = kept
}

// PushIntentionFront schedules an intention ahead of all others.
func (a *Agent) PushIntentionFront(i *Intention) {
	a.Intents = append([]*Intention{i}, a.Intents...)
}

// PopIntention drops the front intention.
func (a *Agent) PopIntention() {
	a.Intents = a.Intents[1:]
}

// HasWork reports whether any intention remains.
func (a *Agent) HasWork() bool { return len(a.Intents) > 0 }

// Clone returns an independent runtime copy of the agent under a new name.
// Plans and rules are immutable and shared; beliefs, intentions, and frame
// unifiers are copied. Used by the driver to replicate a parsed program
// into several agents.
func (a *Agent) Clone(name string) *Agent {
	c := &Agent{
		Name:    name,
		Beliefs: append([]term.Term(nil), a.Beliefs...),
		Rules:   a.Rules,
		Plans:   a.Plans,
	}
	for _, in := range a.Intents {
		frames := make([]*Frame, len(in.Frames))
		for i, f := range in.Frames {
			fc := *f
			fc.Unifier = f.Unifier.Clone()
			frames[i] = &fc
		}
		c.Intents = append(c.Intents, &Intention{Frames: frames})
	}
	return c
}
