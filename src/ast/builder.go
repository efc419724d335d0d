package ast

import (
	"math"
	"strconv"
	"strings"
)

// errorReporter is the subset of util.Diagnostics the builder needs. ast
// cannot import util directly (util.Diagnostics already imports ast for
// Position), so this is a small duck-typed interface instead; *util.
// Diagnostics satisfies it without either package knowing about the other.
type errorReporter interface {
	Errorf(pos Position, format string, args ...interface{})
}

// Build walks the concrete parse tree rooted at root and performs the
// value-extraction pass: parsing literal text into typed values, resolving
// operator and type-specifier keywords against their closed tables, and
// stripping the leading '#' off system identifiers. The tree shape itself
// (rule tags, parent/child/sibling links, source text) was already built by
// the parser; Build only fills in the per-node payload fields.
//
// Every Rule the parser can produce is handled here, if only to fall
// through with no extraction needed. A Rule value with no entry in the
// rule-name table reaching this function is a parser bug, not a user
// error, and panics rather than being silently ignored.
func Build(root *Node, diag errorReporter) {
	if root.Rule < 0 || int(root.Rule) >= len(ruleNames) || ruleNames[root.Rule] == "" {
		panic("ast.Build: node carries an unrecognized rule")
	}

	switch root.Rule {
	case RuleIntegerLiteralHex:
		buildIntLiteral(root, diag, 16, strings.TrimPrefix(strings.TrimPrefix(root.Text, "0x"), "0X"))
	case RuleIntegerLiteralOct:
		buildIntLiteral(root, diag, 8, root.Text)
	case RuleIntegerLiteralDec:
		buildIntLiteral(root, diag, 10, root.Text)

	case RuleRealLiteral:
		buildRealLiteral(root, diag)

	case RuleBooleanLiteral:
		root.BoolVal = root.Text == "true"

	case RuleSystemIdentifier:
		root.IsSystem = true
		root.Text = strings.TrimPrefix(root.Text, "#")

	case RuleVariableDeclaration, RuleObjectCreationExpression, RuleArrayCreationExpression:
		root.Type = LookupTypeSpecifier(root.Text)

	case RuleMultiplicativeExpression, RuleAdditiveExpression, RuleShiftExpression,
		RuleRelationalExpression, RuleEqualityExpression, RuleAndExpression,
		RuleExclusiveOrExpression, RuleInclusiveOrExpression,
		RuleConditionalAndExpression, RuleConditionalOrExpression,
		RuleUnaryExpression, RulePostfixExpression, RuleAssignment:
		root.Op = LookupOperator(root.Text)
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Build(c, diag)
	}
}

// buildIntLiteral parses text in the given base into root.IntVal, clamping
// to math.MaxInt32 (integer literals are never negative lexemes; the minus
// sign is a separate unary operator) and reporting an overflow diagnostic
// if the literal does not fit in 32 bits.
func buildIntLiteral(root *Node, diag errorReporter, base int, text string) {
	root.IntRadix = base
	// Hex and octal literals name a bit pattern and may legitimately set
	// the sign bit (e.g. 0xFFFFFFFF == -1); decimal literals name a
	// magnitude and have no such reinterpretation, so only they are
	// bounded to the positive half of the 32-bit range.
	limit := uint64(math.MaxUint32)
	if base == 10 {
		limit = uint64(math.MaxInt32)
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil || v > limit {
		diag.Errorf(root.Pos, "integer literal %q out of range, clamped to INT32_MAX", root.Text)
		root.IntVal = math.MaxInt32
		return
	}
	root.IntVal = int32(uint32(v))
}

// buildRealLiteral parses root.Text into root.RealVal, following
// strconv.ParseFloat's overflow convention: a syntactically valid literal
// too large for float32 parses to +Inf rather than failing, matching a
// saturating cast rather than a hard error.
func buildRealLiteral(root *Node, diag errorReporter) {
	text := root.Text
	if n := len(text); n > 0 && (text[n-1] == 'f' || text[n-1] == 'F') {
		text = text[:n-1]
	}
	v, err := strconv.ParseFloat(text, 32)
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		diag.Errorf(root.Pos, "real literal %q out of range, clamped to +Inf", root.Text)
	}
	root.RealVal = float32(v)
}
