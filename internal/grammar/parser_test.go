package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asl/internal/agent"
	"asl/internal/term"
)

func mustTerm(t *testing.T, src string) term.Term {
	t.Helper()
	tm, err := ParseTerm(src)
	require.NoError(t, err, "parsing %q", src)
	return tm
}

func TestParseTermLiterals(t *testing.T) {
	assert.True(t, mustTerm(t, "true").Equal(term.True))
	assert.True(t, mustTerm(t, "false").Equal(term.False))
	assert.True(t, mustTerm(t, "42").Equal(term.Num(42)))
	assert.True(t, mustTerm(t, "3.25").Equal(term.Num(3.25)))
	assert.True(t, mustTerm(t, "1e3").Equal(term.Num(1000)))
	assert.True(t, mustTerm(t, `"hi"`).Equal(term.Str("hi")))
	assert.True(t, mustTerm(t, `"a\n\"b\""`).Equal(term.Str("a\n\"b\"")))
	assert.True(t, mustTerm(t, `"\x41"`).Equal(term.Str("A")))
	assert.True(t, mustTerm(t, "X").Equal(term.Var("X")))
	assert.True(t, mustTerm(t, "_").Equal(term.Var("_")))
	assert.True(t, mustTerm(t, "_Tmp").Equal(term.Var("_Tmp")))
	assert.True(t, mustTerm(t, "[]").Equal(term.List()))
	assert.True(t, mustTerm(t, "[1, X]").Equal(term.List(term.Num(1), term.Var("X"))))
}

func TestParseTermAtoms(t *testing.T) {
	assert.True(t, mustTerm(t, "foo").Equal(term.Atom("foo")))
	assert.True(t, mustTerm(t, "foo(bar, 2)").Equal(
		term.Atom("foo", term.Atom("bar"), term.Num(2))))
	assert.True(t, mustTerm(t, ".print(X)").Equal(
		term.Atom(".print", term.Var("X"))))
	assert.True(t, mustTerm(t, "~blocked").Equal(term.Atom("~blocked")))
	assert.True(t, mustTerm(t, "ns.helper(1)").Equal(
		term.Atom("ns.helper", term.Num(1))))
}

func TestParseTermPrecedence(t *testing.T) {
	// Ground arithmetic reduces during construction.
	assert.True(t, mustTerm(t, "1 + 2 * 3").Equal(term.Num(7)))
	assert.True(t, mustTerm(t, "(1 + 2) * 3").Equal(term.Num(9)))
	assert.True(t, mustTerm(t, "2 ** 3 ** 2").Equal(term.Num(64)), "power folds left")
	assert.True(t, mustTerm(t, "7 div 2 + 7 mod 2").Equal(term.Num(4)))
	assert.True(t, mustTerm(t, "-2 ** 2").Equal(term.Num(-4)), "power binds tighter than unary minus")

	got := mustTerm(t, "X + 1 * 2")
	assert.Equal(t, term.KindAdd, got.Kind())
	assert.True(t, got.Right().Equal(term.Num(2)))

	// & binds tighter than |, not tighter than &.
	got = mustTerm(t, "p | q & not r")
	assert.Equal(t, term.KindOr, got.Kind())
	assert.Equal(t, term.KindAnd, got.Right().Kind())
	assert.Equal(t, term.KindNot, got.Right().Right().Kind())
}

func TestParseTermComparisons(t *testing.T) {
	assert.True(t, mustTerm(t, "1 < 2").Equal(term.True))
	assert.True(t, mustTerm(t, "2 <= 1").Equal(term.False))
	assert.True(t, mustTerm(t, "2 > 1").Equal(term.True))
	assert.True(t, mustTerm(t, "1 >= 2").Equal(term.False))
	assert.True(t, mustTerm(t, `1 == 1`).Equal(term.True))
	assert.True(t, mustTerm(t, `1 \== 1`).Equal(term.False))

	// Chained comparisons hold when every adjacent pair holds.
	assert.True(t, mustTerm(t, "1 < 2 < 3").Equal(term.True))
	assert.True(t, mustTerm(t, "1 < 2 < 2").Equal(term.False))

	got := mustTerm(t, "X = f(Y)")
	assert.Equal(t, term.KindUnify, got.Kind())

	got = mustTerm(t, "X =.. [f, [1]]")
	assert.Equal(t, term.KindDeconstruct, got.Kind())
}

func TestParseTermErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"(1",
		"[1, ",
		`"unterminated`,
		"1 +",
		"Foo(1)", // variables take no arguments
		"__",
		"@",
	} {
		_, err := ParseTerm(src)
		assert.Error(t, err, "source %q", src)
	}

	// Structurally malformed operator applications are load errors.
	_, err := ParseTerm(`"a" + 1`)
	require.Error(t, err)
	_, err = ParseTerm("not 3")
	require.Error(t, err)
}

func TestParseProgram(t *testing.T) {
	src := `
// initial state
start.
likes(uno, X).            // implicit rule
reachable(X) :- edge(X).

!boot.

+start : true <-
    .print("hi");
    +done.

+!boot : not done <- !work(1); -start; -+phase(2).
-stop <- .print("bye").
`
	ag, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, ag.Beliefs, 1)
	assert.True(t, ag.Beliefs[0].Equal(term.Atom("start")))

	require.Len(t, ag.Rules, 2)
	assert.True(t, ag.Rules[0].Head.Equal(term.Atom("likes", term.Atom("uno"), term.Var("X"))))
	assert.True(t, ag.Rules[0].Body.Equal(term.True))
	assert.True(t, ag.Rules[1].Head.Equal(term.Atom("reachable", term.Var("X"))))

	// One event for the initial belief, one for the initial goal.
	require.Len(t, ag.Intents, 2)
	assert.Equal(t, agent.GoalBelief, ag.Intents[0].Front().GoalType)
	goal := ag.Intents[1].Front()
	assert.Equal(t, agent.GoalAchieve, goal.GoalType)
	assert.True(t, goal.Trigger.Equal(term.Atom("boot")))

	require.Len(t, ag.Plans, 3)

	first := ag.Plans[0]
	assert.Equal(t, agent.TriggerAdd, first.Trigger)
	assert.Equal(t, agent.GoalBelief, first.Goal)
	require.Len(t, first.Body, 2)
	assert.Equal(t, agent.FormulaTerm, first.Body[0].Kind)
	assert.Equal(t, agent.FormulaAdd, first.Body[1].Kind)

	second := ag.Plans[1]
	assert.Equal(t, agent.GoalAchieve, second.Goal)
	assert.Equal(t, term.KindNot, second.Context.Kind())
	require.Len(t, second.Body, 3)
	assert.Equal(t, agent.FormulaAchieve, second.Body[0].Kind)
	assert.Equal(t, agent.FormulaRemove, second.Body[1].Kind)
	assert.Equal(t, agent.FormulaReplace, second.Body[2].Kind)

	third := ag.Plans[2]
	assert.Equal(t, agent.TriggerRemove, third.Trigger)
	assert.True(t, third.Context.Equal(term.True), "omitted context defaults to true")
}

func TestParsePlanDefaults(t *testing.T) {
	ag, err := Parse("+ping.")
	require.NoError(t, err)
	require.Len(t, ag.Plans, 1)

	plan := ag.Plans[0]
	assert.True(t, plan.Context.Equal(term.True))
	require.Len(t, plan.Body, 1, "empty body becomes the no-op formula")
	assert.Equal(t, agent.FormulaTerm, plan.Body[0].Kind)
	assert.True(t, plan.Body[0].Formula.Equal(term.True))
}

func TestParseProgramValidation(t *testing.T) {
	// A belief with an operator residual is neither ground nor unifiable.
	_, err := Parse("odd(X + 1).")
	assert.Error(t, err)

	// Plan contexts must be valid contexts.
	_, err = Parse("+go : 1 + 2 <- .print(1).")
	assert.Error(t, err)

	// Rule bodies too.
	_, err = Parse("p(X) :- 42.")
	assert.Error(t, err)

	// Missing statement terminator.
	_, err = Parse("start")
	assert.Error(t, err)
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("start.\n@bad.")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
}
