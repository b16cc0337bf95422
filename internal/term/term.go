// Package term implements the term algebra of the agent language: literal
// values, logic variables, belief atoms, and unevaluated operator residuals,
// together with the smart constructors that partially evaluate expressions on
// construction, first-order unification with an occurs check, and
// substitution.
package term

import "fmt"

// Kind tags the variant stored in a Term. The declaration order is load
// bearing: it defines the structural total order used by Lt.
type Kind uint8

const (
	KindBool Kind = iota
	KindNum
	KindStr
	KindList
	KindAtom
	KindVar

	// Unevaluated operator residuals.
	KindPos
	KindNeg
	KindNot
	KindAdd
	KindSub
	KindPow
	KindMul
	KindDiv
	KindIDiv
	KindMod
	KindAnd
	KindOr
	KindUnify
	KindDeconstruct
	KindEq
	KindNeq
	KindLt
	KindLte
)

var kindNames = [...]string{
	"bool", "num", "str", "list", "atom", "var",
	"pos", "neg", "not",
	"add", "sub", "pow", "mul", "div", "idiv", "mod",
	"and", "or", "unify", "deconstruct", "eq", "neq", "lt", "lte",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Wildcard is the name of the anonymous variable. It unifies with anything
// and is never recorded in a unifier.
const Wildcard = "_"

// Term is a tagged union over all variants. Terms are immutable values:
// constructors copy their slice arguments and no accessor exposes interior
// mutability. The zero value is Bool(false).
type Term struct {
	kind Kind
	b    bool
	num  float64
	str  string // string literal, variable name, or atom functor
	args []Term // list elements or atom arguments
	l, r *Term  // operator operands; unary residuals use l only
}

// Bool returns a boolean literal.
func Bool(b bool) Term { return Term{kind: KindBool, b: b} }

// True and False are the boolean literals.
var (
	True  = Bool(true)
	False = Bool(false)
)

// Num returns a numeric literal.
func Num(v float64) Term { return Term{kind: KindNum, num: v} }

// Str returns a string literal.
func Str(s string) Term { return Term{kind: KindStr, str: s} }

// List returns a list of the given elements.
func List(elems ...Term) Term {
	return Term{kind: KindList, args: append([]Term(nil), elems...)}
}

// Atom returns a belief atom with the given functor and arguments.
func Atom(functor string, args ...Term) Term {
	return Term{kind: KindAtom, str: functor, args: append([]Term(nil), args...)}
}

// Var returns a logic variable.
func Var(name string) Term { return Term{kind: KindVar, str: name} }

func unary(k Kind, operand Term) Term {
	return Term{kind: k, l: &operand}
}

func binary(k Kind, left, right Term) Term {
	return Term{kind: k, l: &left, r: &right}
}

// Kind reports which variant the term holds.
func (t Term) Kind() Kind { return t.kind }

// BoolVal returns the boolean payload. Only meaningful for KindBool.
func (t Term) BoolVal() bool { return t.b }

// NumVal returns the numeric payload. Only meaningful for KindNum.
func (t Term) NumVal() float64 { return t.num }

// StrVal returns the string payload. Only meaningful for KindStr.
func (t Term) StrVal() string { return t.str }

// Name returns the variable name. Only meaningful for KindVar.
func (t Term) Name() string { return t.str }

// Functor returns the atom functor. Only meaningful for KindAtom.
func (t Term) Functor() string { return t.str }

// Args returns the atom arguments or list elements. The returned slice must
// not be mutated.
func (t Term) Args() []Term { return t.args }

// Arity returns the number of atom arguments or list elements.
func (t Term) Arity() int { return len(t.args) }

// Operand returns the operand of a unary residual.
func (t Term) Operand() Term { return *t.l }

// Left returns the left operand of a binary residual.
func (t Term) Left() Term { return *t.l }

// Right returns the right operand of a binary residual.
func (t Term) Right() Term { return *t.r }

// IsWildcard reports whether the term is the anonymous variable.
func (t Term) IsWildcard() bool { return t.kind == KindVar && t.str == Wildcard }

// Equal reports structural equality. It also makes Term comparable for
// go-cmp without exposing the internals.
func (t Term) Equal(o Term) bool {
	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case KindBool:
		return t.b == o.b
	case KindNum:
		return t.num == o.num
	case KindStr, KindVar:
		return t.str == o.str
	case KindList, KindAtom:
		if t.str != o.str || len(t.args) != len(o.args) {
			return false
		}
		for i := range t.args {
			if !t.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	case KindPos, KindNeg, KindNot:
		return t.l.Equal(*o.l)
	default:
		return t.l.Equal(*o.l) && t.r.Equal(*o.r)
	}
}

// Ground reports whether the term contains no variables.
func (t Term) Ground() bool {
	switch t.kind {
	case KindBool, KindNum, KindStr:
		return true
	case KindList, KindAtom:
		for _, arg := range t.args {
			if !arg.Ground() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Unifiable reports whether the term may participate in unification: every
// leaf is either ground or a variable. Operator residuals are not unifiable
// until they have been evaluated away.
func (t Term) Unifiable() bool {
	switch t.kind {
	case KindVar:
		return true
	case KindList, KindAtom:
		for _, arg := range t.args {
			if !arg.Unifiable() {
				return false
			}
		}
		return true
	default:
		return t.Ground()
	}
}

// ValidContext reports whether the term may serve as a plan context or rule
// body. Arithmetic expressions and bare non-boolean literals are not
// contexts.
func (t Term) ValidContext() bool {
	switch t.kind {
	case KindBool, KindAtom, KindVar,
		KindNot, KindAnd, KindOr,
		KindUnify, KindDeconstruct,
		KindEq, KindNeq, KindLt, KindLte:
		return true
	default:
		return false
	}
}
