package agent

import "strings"

var formulaPrefix = map[FormulaKind]string{
	FormulaTerm:         "",
	FormulaTest:         "?",
	FormulaAchieve:      "!",
	FormulaAchieveLater: "!!",
	FormulaAdd:          "+",
	FormulaRemove:       "-",
	FormulaReplace:      "-+",
}

// String renders the formula in source form.
func (f BodyFormula) String() string {
	return formulaPrefix[f.Kind] + f.Formula.String()
}

// String renders the rule in source form, without the trailing dot.
func (r Rule) String() string {
	return r.Head.String() + " :- " + r.Body.String()
}

// String renders the plan in source form, without the trailing dot.
func (p Plan) String() string {
	var b strings.Builder

	if p.Trigger == TriggerAdd {
		b.WriteByte('+')
	} else {
		b.WriteByte('-')
	}
	switch p.Goal {
	case GoalAchieve:
		b.WriteByte('!')
	case GoalTest:
		b.WriteByte('?')
	}
	b.WriteString(p.Head.String())

	b.WriteString(" : ")
	b.WriteString(p.Context.String())

	b.WriteString(" <-\n")
	for i, f := range p.Body {
		b.WriteString("    ")
		b.WriteString(f.String())
		if i < len(p.Body)-1 {
			b.WriteString(";\n")
		}
	}

	return b.String()
}

// String renders the agent's whole program: beliefs, rules, and plans, each
// statement dot-terminated.
func (a *Agent) String() string {
	var b strings.Builder
	for _, belief := range a.Beliefs {
		b.WriteString(belief.String())
		b.WriteString(".\n")
	}
	for _, r := range a.Rules {
		b.WriteString(r.String())
		b.WriteString(".\n")
	}
	for _, p := range a.Plans {
		b.WriteString(p.String())
		b.WriteString(".\n")
	}
	return b.String()
}
