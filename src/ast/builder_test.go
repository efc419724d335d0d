package ast

import "testing"

type stubReporter struct{ errs int }

func (s *stubReporter) Errorf(pos Position, format string, args ...interface{}) { s.errs++ }

func TestBuildIntegerLiteralRadixes(t *testing.T) {
	cases := []struct {
		rule  Rule
		text  string
		want  int32
		radix int
	}{
		{RuleIntegerLiteralDec, "123", 123, 10},
		{RuleIntegerLiteralHex, "0xFF", 255, 16},
		{RuleIntegerLiteralOct, "0755", 493, 8},
	}
	for _, c := range cases {
		n := NewNode(c.rule, c.text, Position{})
		r := &stubReporter{}
		Build(n, r)
		if n.IntVal != c.want || n.IntRadix != c.radix {
			t.Fatalf("%s %q: got IntVal=%d IntRadix=%d, want %d/%d", c.rule, c.text, n.IntVal, n.IntRadix, c.want, c.radix)
		}
		if r.errs != 0 {
			t.Fatalf("%s %q: unexpected overflow diagnostic", c.rule, c.text)
		}
	}
}

func TestBuildDecimalOverflowClamps(t *testing.T) {
	n := NewNode(RuleIntegerLiteralDec, "4000000000", Position{})
	r := &stubReporter{}
	Build(n, r)
	if n.IntVal != 2147483647 {
		t.Fatalf("expected clamp to MaxInt32, got %d", n.IntVal)
	}
	if r.errs != 1 {
		t.Fatalf("expected one overflow diagnostic, got %d", r.errs)
	}
}

func TestBuildHexBitPatternDoesNotClamp(t *testing.T) {
	n := NewNode(RuleIntegerLiteralHex, "0xFFFFFFFF", Position{})
	r := &stubReporter{}
	Build(n, r)
	if n.IntVal != -1 {
		t.Fatalf("expected 0xFFFFFFFF to reinterpret as -1, got %d", n.IntVal)
	}
	if r.errs != 0 {
		t.Fatalf("unexpected overflow diagnostic for a full bit pattern")
	}
}

func TestBuildRealLiteral(t *testing.T) {
	n := NewNode(RuleRealLiteral, "1.5e2f", Position{})
	Build(n, &stubReporter{})
	if n.RealVal != 150.0 {
		t.Fatalf("expected 150.0, got %v", n.RealVal)
	}
}

func TestBuildSystemIdentifierStripsHash(t *testing.T) {
	n := NewNode(RuleSystemIdentifier, "#Position", Position{})
	Build(n, &stubReporter{})
	if !n.IsSystem || n.Text != "Position" {
		t.Fatalf("expected IsSystem=true Text=%q, got IsSystem=%v Text=%q", "Position", n.IsSystem, n.Text)
	}
}

func TestBuildOperatorLookup(t *testing.T) {
	n := NewNode(RuleAdditiveExpression, "+", Position{})
	n.AppendChild(NewNode(RuleIntegerLiteralDec, "1", Position{}))
	n.AppendChild(NewNode(RuleIntegerLiteralDec, "2", Position{}))
	Build(n, &stubReporter{})
	if n.Op != OpAdd {
		t.Fatalf("expected OpAdd, got %s", n.Op)
	}
}
