package frontend

import (
	"os"
	"testing"

	"cellc/src/ast"
	"cellc/src/util"
)

func parseExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	diag := util.NewDiagnostics("test.cell", os.Stdout)
	root, err := Parse(src, "test.cell", diag)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	if diag.HasSyntaxErrors() {
		t.Fatalf("unexpected syntax errors parsing %q", src)
	}
	// root -> TRANSLATION_UNIT -> the single expression statement.
	unit := root.FirstChild
	if unit.FirstChild == nil {
		t.Fatalf("expected one statement, got none")
	}
	return unit.FirstChild
}

// TestParserMultiplicationBindsTighterThanAddition verifies `a + b * c`
// parses as `a + (b * c)`: the root is the additive node, and its right
// child is the multiplicative node.
func TestParserMultiplicationBindsTighterThanAddition(t *testing.T) {
	n := parseExpr(t, "a + b * c;")
	if n.Rule != ast.RuleAdditiveExpression {
		t.Fatalf("expected root ADDITIVE_EXPRESSION, got %s", n.Rule)
	}
	right := n.FirstChild.NextSibling
	if right.Rule != ast.RuleMultiplicativeExpression {
		t.Fatalf("expected right child MULTIPLICATIVE_EXPRESSION, got %s", right.Rule)
	}
}

// TestParserAssignmentIsRightAssociative verifies `a = b = c` parses as
// `a = (b = c)`.
func TestParserAssignmentIsRightAssociative(t *testing.T) {
	n := parseExpr(t, "a = b = c;")
	if n.Rule != ast.RuleAssignment {
		t.Fatalf("expected root ASSIGNMENT, got %s", n.Rule)
	}
	left := n.FirstChild
	right := left.NextSibling
	if left.Rule != ast.RuleQualifiedIdentifier || left.Text != "a" {
		t.Fatalf("expected left child to be bare identifier \"a\", got %s %q", left.Rule, left.Text)
	}
	if right.Rule != ast.RuleAssignment {
		t.Fatalf("expected right child to be a nested ASSIGNMENT, got %s", right.Rule)
	}
}

func TestParserElementAccessAndMemberAccessChain(t *testing.T) {
	n := parseExpr(t, "a[0].x;")
	if n.Rule != ast.RuleMemberAccess || n.Text != "x" {
		t.Fatalf("expected root MEMBER_ACCESS \"x\", got %s %q", n.Rule, n.Text)
	}
	if n.FirstChild.Rule != ast.RuleElementAccess {
		t.Fatalf("expected member access base to be ELEMENT_ACCESS, got %s", n.FirstChild.Rule)
	}
}

func TestParserSyntaxErrorRecoversToNextStatement(t *testing.T) {
	diag := util.NewDiagnostics("test.cell", os.Stdout)
	root, err := Parse("int ; x = 1;", "test.cell", diag)
	if err != nil {
		t.Fatalf("unexpected hard parse error: %s", err)
	}
	if !diag.HasSyntaxErrors() {
		t.Fatalf("expected a reported syntax error for the malformed declaration")
	}
	stmt := root.FirstChild.FirstChild
	if stmt == nil || stmt.Rule != ast.RuleAssignment {
		t.Fatalf("expected parsing to resume at the assignment after the malformed declaration, got %v", stmt)
	}
}
