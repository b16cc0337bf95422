package term

import (
	"strconv"
	"strings"
)

// String renders the term in canonical source form: operators fully
// parenthesised, strings quoted with escapes.
func (t Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

// Display renders the term the way the .print action does: string literals
// unquoted, everything else in canonical form.
func (t Term) Display() string {
	if t.kind == KindStr {
		return t.str
	}
	return t.String()
}

func (t Term) write(b *strings.Builder) {
	switch t.kind {
	case KindBool:
		if t.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case KindNum:
		b.WriteString(strconv.FormatFloat(t.num, 'g', -1, 64))

	case KindStr:
		b.WriteByte('"')
		for i := 0; i < len(t.str); i++ {
			switch c := t.str[i]; c {
			case '"', '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			default:
				b.WriteByte(c)
			}
		}
		b.WriteByte('"')

	case KindList:
		b.WriteByte('[')
		for i, e := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(']')

	case KindAtom:
		b.WriteString(t.str)
		if len(t.args) > 0 {
			b.WriteByte('(')
			for i, a := range t.args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte(')')
		}

	case KindVar:
		b.WriteString(t.str)

	case KindPos:
		b.WriteString("(+")
		t.l.write(b)
		b.WriteByte(')')

	case KindNeg:
		b.WriteString("(-")
		t.l.write(b)
		b.WriteByte(')')

	case KindNot:
		b.WriteString("not ")
		t.l.write(b)

	case KindPow:
		b.WriteByte('(')
		t.l.write(b)
		b.WriteString("**")
		t.r.write(b)
		b.WriteByte(')')

	default:
		b.WriteByte('(')
		t.l.write(b)
		b.WriteString(infix[t.kind])
		t.r.write(b)
		b.WriteByte(')')
	}
}

var infix = map[Kind]string{
	KindAdd:         " + ",
	KindSub:         " - ",
	KindMul:         " * ",
	KindDiv:         " / ",
	KindIDiv:        " div ",
	KindMod:         " mod ",
	KindAnd:         " & ",
	KindOr:          " | ",
	KindUnify:       " = ",
	KindDeconstruct: " =.. ",
	KindEq:          " == ",
	KindNeq:         " \\== ",
	KindLt:          " < ",
	KindLte:         " <= ",
}
