package runtime

import (
	"bytes"
	"context"
	"testing"

	"asl/internal/agent"
	"asl/internal/grammar"
	"asl/internal/term"
)

func parseAs(t *testing.T, name, src string) *agent.Agent {
	t.Helper()
	prog, err := grammar.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog.Clone(name)
}

func TestMessageDelivery(t *testing.T) {
	alice := parseAs(t, "alice", `
start.
+start : true <- .send("bob", ping(1)).
`)
	bob := parseAs(t, "bob", `
+ping(N) : true <- .print("pong ", N).
`)

	env := NewEnvironment()
	var out bytes.Buffer
	env.Out = &out

	r := NewRunner(env, []*agent.Agent{alice, bob})
	r.MaxSweeps = 100
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if out.String() != "pong 1\n" {
		t.Errorf("output = %q", out.String())
	}
	if !hasBelief(bob, term.Atom("ping", term.Num(1))) {
		t.Errorf("delivered belief missing: %v", bob.Beliefs)
	}
	if hasBelief(alice, term.Atom("ping", term.Num(1))) {
		t.Errorf("sender must not receive its own message: %v", alice.Beliefs)
	}
}

func TestUnknownRecipientIsDropped(t *testing.T) {
	alice := parseAs(t, "alice", `
start.
+start : true <- .send("nobody", ping); .print("sent").
`)

	env := NewEnvironment()
	var out bytes.Buffer
	env.Out = &out

	r := NewRunner(env, []*agent.Agent{alice})
	r.MaxSweeps = 100
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "sent\n" {
		t.Errorf("output = %q, the send itself should have succeeded", out.String())
	}
}

func TestMyNamePerAgent(t *testing.T) {
	src := `
start.
+start : true <- .my_name(Me); .print(Me).
`
	uno := parseAs(t, "uno", src)
	dos := parseAs(t, "dos", src)

	env := NewEnvironment()
	var out bytes.Buffer
	env.Out = &out

	r := NewRunner(env, []*agent.Agent{uno, dos})
	r.MaxSweeps = 100
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "uno\ndos\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunHonoursContext(t *testing.T) {
	ag := parseAs(t, "uno", `
!loop.
+!loop : true <- !loop.
`)

	env := NewEnvironment()
	r := NewRunner(env, []*agent.Agent{ag})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err == nil {
		t.Fatal("cancelled context should end the run with an error")
	}
}
