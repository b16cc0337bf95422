package runtime

import (
	"bytes"
	"testing"

	"asl/internal/agent"
	"asl/internal/term"
)

func TestPrintAction(t *testing.T) {
	env := NewEnvironment()
	var out bytes.Buffer
	env.Out = &out
	ag := &agent.Agent{Name: "uno"}

	action := term.Atom(".print", term.Str("x is "), term.Var("X"), term.Str("!"))
	u := term.Unifier{"X": term.Num(3)}

	gen := env.Action(ag, action, u)
	if gen == nil {
		t.Fatal(".print is not registered")
	}
	if !gen.Next() {
		t.Fatal(".print should succeed once")
	}
	if gen.Next() {
		t.Fatal(".print should succeed exactly once")
	}
	if out.String() != "x is 3!\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrintRendersTerms(t *testing.T) {
	env := NewEnvironment()
	var out bytes.Buffer
	env.Out = &out
	ag := &agent.Agent{Name: "uno"}

	action := term.Atom(".print", term.Atom("f", term.Str("s")))
	gen := env.Action(ag, action, term.Unifier{})
	gen.Next()

	// Top-level strings are unquoted, nested strings keep their quotes.
	if out.String() != "f(\"s\")\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestMyNameAction(t *testing.T) {
	env := NewEnvironment()
	ag := &agent.Agent{Name: "uno"}

	gen := env.Action(ag, term.Atom(".my_name", term.Var("N")), term.Unifier{})
	if !gen.Next() {
		t.Fatal(".my_name should bind its argument")
	}
	if got := gen.Current()["N"]; !got.Equal(term.Str("uno")) {
		t.Errorf("N = %s, want \"uno\"", got)
	}

	gen = env.Action(ag, term.Atom(".my_name", term.Str("dos")), term.Unifier{})
	if gen.Next() {
		t.Fatal(".my_name must fail on a different name")
	}

	gen = env.Action(ag, term.Atom(".my_name"), term.Unifier{})
	if gen.Next() {
		t.Fatal(".my_name must fail on wrong arity")
	}
}

func TestFailAction(t *testing.T) {
	env := NewEnvironment()
	ag := &agent.Agent{Name: "uno"}

	gen := env.Action(ag, term.Atom(".fail"), term.Unifier{})
	if gen == nil {
		t.Fatal(".fail is not registered")
	}
	if gen.Next() {
		t.Fatal(".fail must never yield")
	}
}

func TestSendAction(t *testing.T) {
	env := NewEnvironment()
	ag := &agent.Agent{Name: "uno"}

	action := term.Atom(".send", term.Str("dos"), term.Atom("ping", term.Var("X")))
	u := term.Unifier{"X": term.Num(1)}

	gen := env.Action(ag, action, u)
	if !gen.Next() {
		t.Fatal(".send should succeed")
	}

	msgs := env.DrainOutbox()
	if len(msgs) != 1 {
		t.Fatalf("outbox has %d messages", len(msgs))
	}
	msg := msgs[0]
	if msg.From != "uno" || msg.To != "dos" {
		t.Errorf("message routing %q -> %q", msg.From, msg.To)
	}
	if !msg.Belief.Equal(term.Atom("ping", term.Num(1))) {
		t.Errorf("message belief = %s", msg.Belief)
	}
	if msg.ID == "" {
		t.Error("message id missing")
	}

	if len(env.DrainOutbox()) != 0 {
		t.Error("outbox should be empty after draining")
	}
}

func TestSendRejectsBadArguments(t *testing.T) {
	env := NewEnvironment()
	ag := &agent.Agent{Name: "uno"}

	cases := []term.Term{
		term.Atom(".send", term.Str("dos")),                                      // wrong arity
		term.Atom(".send", term.Num(1), term.Atom("ping")),                       // recipient not a string
		term.Atom(".send", term.Str("dos"), term.Str("ping")),                    // payload not an atom
		term.Atom(".send", term.Str("dos"), term.Atom("ping", term.Var("Free"))), // payload not ground
	}

	for _, action := range cases {
		if gen := env.Action(ag, action, term.Unifier{}); gen.Next() {
			t.Errorf("%s should fail", action)
		}
	}
	if len(env.DrainOutbox()) != 0 {
		t.Error("failed sends must not queue messages")
	}
}

func TestUnknownFunctorFallsThrough(t *testing.T) {
	env := NewEnvironment()
	ag := &agent.Agent{Name: "uno"}

	if gen := env.Action(ag, term.Atom("just_a_belief"), term.Unifier{}); gen != nil {
		t.Fatal("unknown functors must not resolve to actions")
	}
}
