// Package runtime executes agent programs: it provides the logical
// consequence generators, the built-in action environment, the single-step
// interpreter, and the multi-agent runner.
package runtime

import (
	"asl/internal/agent"
	"asl/internal/term"
)

// Generator lazily yields unifiers under which a goal holds. After Next
// reports true, Current returns the solution; after Next reports false the
// generator is exhausted.
type Generator interface {
	Next() bool
	Current() term.Unifier
}

// Consequence builds a generator enumerating the unifiers under which goal
// follows from the agent's beliefs, rules, and the environment's actions.
// The incoming unifier is applied to the goal first, which may already
// reduce it through the smart constructors.
func Consequence(env *Environment, ag *agent.Agent, goal term.Term, u term.Unifier) Generator {
	return dispatch(env, ag, u.Apply(goal), u)
}

// dispatch assumes goal has already been substituted.
func dispatch(env *Environment, ag *agent.Agent, goal term.Term, u term.Unifier) Generator {
	switch goal.Kind() {
	case term.KindBool:
		if goal.BoolVal() {
			return &onceGen{u: u}
		}
		return exhausted{}

	case term.KindVar:
		return &varGen{name: goal.Name(), ag: ag, base: u}

	case term.KindAtom:
		// Built-in actions take precedence over belief matching.
		if g := env.Action(ag, goal, u); g != nil {
			return g
		}
		return &atomGen{env: env, ag: ag, goal: goal, base: u}

	case term.KindNot:
		return &notGen{sub: dispatch(env, ag, goal.Operand(), u), u: u}

	case term.KindAnd:
		return &andGen{env: env, ag: ag, left: dispatch(env, ag, goal.Left(), u), right: goal.Right()}

	case term.KindOr:
		return &orGen{left: dispatch(env, ag, goal.Left(), u), right: dispatch(env, ag, goal.Right(), u)}

	case term.KindUnify:
		return &unifyGen{left: goal.Left(), right: goal.Right(), base: u}

	case term.KindDeconstruct:
		return &deconGen{left: goal.Left(), right: goal.Right(), base: u}

	default:
		// Arithmetic and unreduced comparisons are not goals.
		return exhausted{}
	}
}

// onceGen yields the incoming unifier exactly once.
type onceGen struct {
	u    term.Unifier
	done bool
}

func (g *onceGen) Next() bool {
	if g.done {
		return false
	}
	g.done = true
	return true
}

func (g *onceGen) Current() term.Unifier { return g.u }

// exhausted never yields.
type exhausted struct{}

func (exhausted) Next() bool            { return false }
func (exhausted) Current() term.Unifier { return nil }

// varGen interprets a bare variable goal as "either trivially true or any
// belief": it binds the variable to true first, then to each belief atom in
// insertion order.
type varGen struct {
	name      string
	ag        *agent.Agent
	base      term.Unifier
	current   term.Unifier
	triedTrue bool
	idx       int
}

func (g *varGen) Next() bool {
	if !g.triedTrue {
		g.triedTrue = true
		g.current = g.base.Clone()
		g.current[g.name] = term.True
		return true
	}
	if g.idx < len(g.ag.Beliefs) {
		g.current = g.base.Clone()
		g.current[g.name] = g.ag.Beliefs[g.idx]
		g.idx++
		return true
	}
	return false
}

func (g *varGen) Current() term.Unifier { return g.current }

// atomGen matches an atom goal against the belief base, then against the
// rules. Beliefs are tried in insertion order; only atoms with the goal's
// functor and arity are relevant.
type atomGen struct {
	env     *Environment
	ag      *agent.Agent
	goal    term.Term
	base    term.Unifier
	current term.Unifier

	idx     int
	ruleIdx int
	ruleGen Generator
}

func (g *atomGen) Next() bool {
	functor, arity := g.goal.Functor(), g.goal.Arity()

	for g.idx < len(g.ag.Beliefs) {
		belief := g.ag.Beliefs[g.idx]
		g.idx++
		if belief.Functor() != functor || belief.Arity() != arity {
			continue
		}
		u := g.base.Clone()
		if term.Unify(g.goal, belief, u) {
			g.current = u
			return true
		}
	}

	for {
		if g.ruleGen != nil {
			if g.ruleGen.Next() {
				g.current = g.ruleGen.Current()
				return true
			}
			g.ruleGen = nil
		}

		rule, ok := g.nextRule(functor, arity)
		if !ok {
			return false
		}

		// Rename the rule's variables so distinct uses never clash, then
		// resolve its body under the head unification.
		anon := term.NewAnonymizer(g.env.freshName)
		head := anon.Apply(rule.Head)
		body := anon.Apply(rule.Body)

		u := g.base.Clone()
		if term.Unify(g.goal, head, u) {
			g.ruleGen = dispatch(g.env, g.ag, u.Apply(body), u)
		}
	}
}

func (g *atomGen) nextRule(functor string, arity int) (agent.Rule, bool) {
	for g.ruleIdx < len(g.ag.Rules) {
		rule := g.ag.Rules[g.ruleIdx]
		g.ruleIdx++
		if rule.Head.Functor() == functor && rule.Head.Arity() == arity {
			return rule, true
		}
	}
	return agent.Rule{}, false
}

func (g *atomGen) Current() term.Unifier { return g.current }

// notGen implements negation as failure: it yields the incoming unifier
// exactly once iff the sub-goal has no solution.
type notGen struct {
	sub  Generator
	u    term.Unifier
	done bool
}

func (g *notGen) Next() bool {
	if g.done {
		return false
	}
	g.done = true
	return !g.sub.Next()
}

func (g *notGen) Current() term.Unifier { return g.u }

// andGen nests iteration: for each solution of the left conjunct it
// enumerates the right conjunct under that solution.
type andGen struct {
	env *Environment
	ag  *agent.Agent

	left         Generator
	right        term.Term
	rightGen     Generator
	rightHasMore bool
}

func (g *andGen) Next() bool {
	for g.rightHasMore || g.left.Next() {
		if !g.rightHasMore {
			u := g.left.Current()
			g.rightGen = dispatch(g.env, g.ag, u.Apply(g.right), u)
		}

		g.rightHasMore = g.rightGen.Next()
		if g.rightHasMore {
			return true
		}
	}
	return false
}

func (g *andGen) Current() term.Unifier { return g.rightGen.Current() }

// orGen exhausts the left disjunct, then the right.
type orGen struct {
	left     Generator
	leftDone bool
	right    Generator
}

func (g *orGen) Next() bool {
	if !g.leftDone {
		if g.left.Next() {
			return true
		}
		g.leftDone = true
	}
	return g.right.Next()
}

func (g *orGen) Current() term.Unifier {
	if !g.leftDone {
		return g.left.Current()
	}
	return g.right.Current()
}

// unifyGen attempts the unification exactly once.
type unifyGen struct {
	left, right term.Term
	base        term.Unifier
	current     term.Unifier
	done        bool
}

func (g *unifyGen) Next() bool {
	if g.done {
		return false
	}
	g.done = true

	u := g.base.Clone()
	if term.Unify(g.left, g.right, u) {
		g.current = u
		return true
	}
	return false
}

func (g *unifyGen) Current() term.Unifier { return g.current }

// deconGen handles the variable-LHS case of the =.. operator: a well-shaped
// [functor, args] list on the right binds the variable to the packed atom.
// Every other shape was already reduced by the smart constructor.
type deconGen struct {
	left, right term.Term
	base        term.Unifier
	current     term.Unifier
	done        bool
}

func (g *deconGen) Next() bool {
	if g.done {
		return false
	}
	g.done = true

	if g.left.Kind() != term.KindVar {
		return false
	}
	if g.right.Kind() != term.KindList || g.right.Arity() != 2 {
		return false
	}

	elems := g.right.Args()
	if elems[0].Kind() != term.KindAtom || elems[0].Arity() > 0 {
		return false
	}
	if elems[1].Kind() != term.KindList {
		return false
	}

	packed := term.Atom(elems[0].Functor(), elems[1].Args()...)
	g.current = g.base.Clone()
	g.current[g.left.Name()] = packed
	return true
}

func (g *deconGen) Current() term.Unifier { return g.current }
