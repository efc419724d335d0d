package frontend

import "testing"

// TestLexer verifies that a short Cell source fragment exercising
// keywords, identifiers, system identifiers, every literal radix/form and
// the multi-character operators is tokenized in the expected order.
func TestLexer(t *testing.T) {
	src := `int x;
global vec v;
v = #Position;
x = 0xFF + 010 - 8;
real r = 1.5e2f;
if (x >= 1 && r != 0.0) {
	x <<= 2;
} else {
	quit;
}
// trailing comment
`
	exp := []struct {
		typ tokenType
		val string
	}{
		{INT, "int"}, {IDENTIFIER, "x"}, {SEMICOLON, ";"},
		{GLOBAL, "global"}, {VEC, "vec"}, {IDENTIFIER, "v"}, {SEMICOLON, ";"},
		{IDENTIFIER, "v"}, {EQ, "="}, {SYSTEM_IDENTIFIER, "#Position"}, {SEMICOLON, ";"},
		{IDENTIFIER, "x"}, {EQ, "="}, {INT_LIT_HEX, "0xFF"}, {PLUS, "+"}, {INT_LIT_OCT, "010"}, {MINUS, "-"}, {INT_LIT_DEC, "8"}, {SEMICOLON, ";"},
		{REAL, "real"}, {IDENTIFIER, "r"}, {EQ, "="}, {REAL_LIT, "1.5e2f"}, {SEMICOLON, ";"},
		{IF, "if"}, {LPAREN, "("}, {IDENTIFIER, "x"}, {GTEQ, ">="}, {INT_LIT_DEC, "1"}, {AMPAMP, "&&"}, {IDENTIFIER, "r"}, {NOTEQ, "!="}, {REAL_LIT, "0.0"}, {RPAREN, ")"}, {LBRACE, "{"},
		{IDENTIFIER, "x"}, {LTLTEQ, "<<="}, {INT_LIT_DEC, "2"}, {SEMICOLON, ";"},
		{RBRACE, "}"}, {ELSE, "else"}, {LBRACE, "{"},
		{QUIT, "quit"}, {SEMICOLON, ";"},
		{RBRACE, "}"},
	}

	l := newLexer(src, lexGlobal)
	l.run()

	for i1, e := range exp {
		tok := l.nextItem()
		if tok.typ != e.typ || tok.val != e.val {
			t.Fatalf("token %d: expected %s %q, got %s %q", i1, e.typ, e.val, tok.typ, tok.val)
		}
	}
	if tok := l.nextItem(); tok.typ != itemEOF {
		t.Fatalf("expected EOF after %d tokens, got %s %q", len(exp), tok.typ, tok.val)
	}
}

// TestLexerOctalFallsBackToDecimal verifies that a leading-zero literal
// containing an 8 or 9 digit lexes as decimal rather than failing to match
// the octal form, matching the original grammar's alternation fallback.
func TestLexerOctalFallsBackToDecimal(t *testing.T) {
	l := newLexer("089;", lexGlobal)
	l.run()
	tok := l.nextItem()
	if tok.typ != INT_LIT_DEC || tok.val != "089" {
		t.Fatalf("expected decimal literal \"089\", got %s %q", tok.typ, tok.val)
	}
}

// TestLexerBlockCommentNonNesting verifies that block comments stop at the
// first closing delimiter rather than tracking nesting depth.
func TestLexerBlockCommentNonNesting(t *testing.T) {
	l := newLexer("/* outer /* inner */ x */", lexGlobal)
	l.run()
	if tok := l.nextItem(); tok.typ != IDENTIFIER || tok.val != "x" {
		t.Fatalf("expected identifier \"x\" right after comment close, got %s %q", tok.typ, tok.val)
	}
	tok := l.nextItem()
	if tok.typ != STAR {
		t.Fatalf("expected '*' token remaining after comment close, got %s %q", tok.typ, tok.val)
	}
}
