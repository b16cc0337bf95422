package term

// Unifier maps variable names to terms. Idempotence is not enforced in
// storage; Apply resolves chains recursively.
type Unifier map[string]Term

// Clone returns a shallow copy. Terms are immutable, so sharing the bound
// values is safe.
func (u Unifier) Clone() Unifier {
	c := make(Unifier, len(u))
	for name, t := range u {
		c[name] = t
	}
	return c
}

// rebuild maps f over the children of a composite term. Operator residuals
// are rebuilt through their smart constructors, which matters because the
// mapped children may expose further reductions.
func rebuild(t Term, f func(Term) Term) Term {
	switch t.kind {
	case KindList:
		elems := make([]Term, len(t.args))
		for i, e := range t.args {
			elems[i] = f(e)
		}
		return Term{kind: KindList, args: elems}
	case KindAtom:
		args := make([]Term, len(t.args))
		for i, a := range t.args {
			args[i] = f(a)
		}
		return Term{kind: KindAtom, str: t.str, args: args}
	case KindPos:
		return Pos(f(t.Operand()))
	case KindNeg:
		return Neg(f(t.Operand()))
	case KindNot:
		return Not(f(t.Operand()))
	case KindAdd:
		return Add(f(t.Left()), f(t.Right()))
	case KindSub:
		return Sub(f(t.Left()), f(t.Right()))
	case KindPow:
		return Pow(f(t.Left()), f(t.Right()))
	case KindMul:
		return Mul(f(t.Left()), f(t.Right()))
	case KindDiv:
		return Div(f(t.Left()), f(t.Right()))
	case KindIDiv:
		return IDiv(f(t.Left()), f(t.Right()))
	case KindMod:
		return Mod(f(t.Left()), f(t.Right()))
	case KindAnd:
		return And(f(t.Left()), f(t.Right()))
	case KindOr:
		return Or(f(t.Left()), f(t.Right()))
	case KindUnify:
		return Unifies(f(t.Left()), f(t.Right()))
	case KindDeconstruct:
		return Deconstruct(f(t.Left()), f(t.Right()))
	case KindEq:
		return Eq(f(t.Left()), f(t.Right()))
	case KindNeq:
		return Neq(f(t.Left()), f(t.Right()))
	case KindLt:
		return Lt(f(t.Left()), f(t.Right()))
	case KindLte:
		return Lte(f(t.Left()), f(t.Right()))
	default:
		return t
	}
}

// Apply substitutes bound variables throughout the term, resolving binding
// chains until a non-variable or an unbound variable is reached.
func (u Unifier) Apply(t Term) Term {
	if t.kind == KindVar {
		if bound, ok := u[t.str]; ok {
			return u.Apply(bound)
		}
		return t
	}
	return rebuild(t, u.Apply)
}

// prepare resolves a top-level variable one step through the unifier and
// rejects operator residuals, which may not take part in unification.
func prepare(u Unifier, t Term) (Term, bool) {
	switch t.kind {
	case KindBool, KindNum, KindStr, KindList, KindAtom:
		return t, true
	case KindVar:
		if bound, ok := u[t.str]; ok {
			return bound, true
		}
		return t, true
	default:
		return Term{}, false
	}
}

func containsVar(t Term, name string) bool {
	switch t.kind {
	case KindVar:
		return t.str == name
	case KindList, KindAtom:
		for _, arg := range t.args {
			if containsVar(arg, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func bindVar(name string, value Term, u Unifier) bool {
	// The wildcard matches anything and is never recorded, so it may bind
	// differently at each occurrence.
	if name == Wildcard {
		return true
	}
	if containsVar(value, name) {
		return false
	}
	u[name] = value
	return true
}

func unifyElements(left, right []Term, u Unifier) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		lhs, rhs := left[i], right[i]
		if i > 0 {
			// Propagate the bindings accumulated by earlier pairs; the
			// substitution may also reduce residuals into unifiable shape.
			lhs = u.Apply(lhs)
			rhs = u.Apply(rhs)
		}
		if !Unify(lhs, rhs, u) {
			return false
		}
	}
	return true
}

// Unify computes a most-general unifier of left and right, extending u in
// place. It reports false on failure; u may then hold partial bindings and
// should be discarded. Operator residuals on either side fail immediately.
func Unify(left, right Term, u Unifier) bool {
	lhs, ok := prepare(u, left)
	if !ok {
		return false
	}
	rhs, ok := prepare(u, right)
	if !ok {
		return false
	}

	if lhs.kind == KindVar && rhs.kind == KindVar {
		switch {
		case lhs.str == rhs.str, lhs.str == Wildcard, rhs.str == Wildcard:
			// The wildcard is never recorded, not even as an alias.
			return true
		case lhs.str < rhs.str:
			// Always alias the greater name to the lesser variable. The
			// canonical direction keeps binding chains acyclic.
			u[rhs.str] = lhs
		default:
			u[lhs.str] = rhs
		}
		return true
	}

	if rhs.kind == KindVar {
		return bindVar(rhs.str, lhs, u)
	}
	if lhs.kind == KindVar {
		return bindVar(lhs.str, rhs, u)
	}

	if lhs.kind != rhs.kind {
		return false
	}

	switch lhs.kind {
	case KindBool:
		return lhs.b == rhs.b
	case KindNum:
		return lhs.num == rhs.num
	case KindStr:
		return lhs.str == rhs.str
	case KindList:
		return unifyElements(lhs.args, rhs.args, u)
	default: // KindAtom
		if lhs.str != rhs.str {
			return false
		}
		return unifyElements(lhs.args, rhs.args, u)
	}
}

// Matches reports whether pattern and t unify under a throwaway unifier.
func Matches(pattern, t Term) bool {
	return Unify(pattern, t, Unifier{})
}
