// parser.go is a hand-written recursive-descent parser producing a
// concrete parse tree. Unlike the teacher compiler, which generates its
// parser with goyacc from a .y grammar file, the Cell grammar is walked by
// hand here, one function per production, the way k-okamo-hal's C-like
// parser in the retrieved example pack is structured. The production set,
// precedence chain and guard-protected recovery points are taken verbatim
// from the original Boost.Spirit grammar (cell_grammar.h).
package frontend

import (
	"fmt"

	"cellc/src/ast"
	"cellc/src/util"
)

// parseError unwinds a guarded production on a grammar mismatch. It is
// only ever recovered by guarded; any other panic value is a real
// programming error and propagates.
type parseError struct {
	pos ast.Position
	msg string
}

// parser walks the token stream a lexer buffers up front and builds a
// concrete parse tree tagged with ast.Rule values.
type parser struct {
	file string
	lex  *lexer
	tok  item
	diag *util.Diagnostics
}

// Parse lexes and parses src, returning the root START_SYMBOL node of the
// concrete parse tree. Mismatches inside a guard-protected production are
// reported through diag and recovered; a mismatch outside any guard aborts
// the whole translation unit and is returned as an error, per spec.md
// section 4.1's failure semantics.
func Parse(src, file string, diag *util.Diagnostics) (root *ast.Node, err error) {
	l := newLexer(src, lexGlobal)
	l.run()
	p := &parser{file: file, lex: l, diag: diag}
	p.next()

	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%s: %s", pe.pos, pe.msg)
		}
	}()

	start := ast.NewNode(ast.RuleStartSymbol, "", p.pos())
	unit := p.parseTranslationUnit()
	start.AppendChild(unit)
	if p.tok.typ != itemEOF {
		p.fail("expression expected")
	}
	return start, nil
}

// next advances the lookahead token.
func (p *parser) next() { p.tok = p.lex.nextItem() }

// pos returns the source position of the current lookahead token.
func (p *parser) pos() ast.Position {
	return ast.Position{File: p.file, Line: uint32(p.tok.line), Column: uint32(p.tok.pos)}
}

// fail aborts the current (possibly guarded) production with msg at the
// current token's position.
func (p *parser) fail(msg string) {
	panic(parseError{pos: p.pos(), msg: msg})
}

// expect consumes and returns the current token if it has type tt,
// otherwise fails the enclosing production with msg.
func (p *parser) expect(tt tokenType, msg string) item {
	if p.tok.typ != tt {
		p.fail(msg)
	}
	t := p.tok
	p.next()
	return t
}

// accept consumes and returns the current token if it has type tt.
func (p *parser) accept(tt tokenType) (item, bool) {
	if p.tok.typ == tt {
		t := p.tok
		p.next()
		return t, true
	}
	return item{}, false
}

// guarded runs fn, which must build one production's subtree. If fn panics
// with a parseError, the error is reported through diag, the token stream
// is resynchronized past the first token in resync (or EOF), and guarded
// returns nil instead of propagating — exactly the original grammar's
// guard(...)[eh] behavior at the productions cell_grammar.h protects.
func (p *parser) guarded(resync []tokenType, fn func() *ast.Node) (result *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			p.diag.SyntaxErrorf(pe.pos, pe.msg)
			p.resyncTo(resync)
			result = nil
		}
	}()
	return fn()
}

func (p *parser) resyncTo(stop []tokenType) {
	for {
		if p.tok.typ == itemEOF {
			return
		}
		for _, s := range stop {
			if p.tok.typ == s {
				p.next()
				return
			}
		}
		p.next()
	}
}

func in(tt tokenType, set ...tokenType) bool {
	for _, s := range set {
		if tt == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Translation unit / statements
// ---------------------------------------------------------------------

// parseTranslationUnit parses the top-level statement sequence. The
// original grammar requires translation_unit = +block (one or more
// brace-delimited blocks); the scenarios in the distilled specification
// are bare statement sequences with no enclosing braces, so this parses a
// flat statement list instead.
func (p *parser) parseTranslationUnit() *ast.Node {
	n := ast.NewNode(ast.RuleTranslationUnit, "", p.pos())
	for p.tok.typ != itemEOF {
		s := p.parseStatement()
		if s != nil {
			n.AppendChild(s)
		}
	}
	return n
}

func (p *parser) parseStatement() *ast.Node {
	switch p.tok.typ {
	case LBRACE:
		return p.parseBlock()
	case SEMICOLON:
		pos := p.pos()
		p.next()
		return ast.NewNode(ast.RuleEmptyStatement, ";", pos)
	case INT, REAL, VEC, GLOBAL:
		return p.parseDeclarationStatement()
	case IF:
		return p.parseIfStatement()
	case WHILE:
		return p.parseWhileStatement()
	case QUIT:
		return p.parseQuitStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseBlock() *ast.Node {
	return p.guarded([]tokenType{RBRACE}, func() *ast.Node {
		pos := p.pos()
		p.expect(LBRACE, "{ expected")
		n := ast.NewNode(ast.RuleBlock, "{", pos)
		for p.tok.typ != RBRACE && p.tok.typ != itemEOF {
			s := p.parseStatement()
			if s != nil {
				n.AppendChild(s)
			}
		}
		p.expect(RBRACE, "} expected")
		return n
	})
}

func (p *parser) parseDeclarationStatement() *ast.Node {
	return p.guarded([]tokenType{SEMICOLON}, func() *ast.Node {
		n := p.parseVariableDeclaration()
		p.expect(SEMICOLON, "; expected")
		return n
	})
}

func (p *parser) parseVariableDeclaration() *ast.Node {
	pos := p.pos()
	var modifier *ast.Node
	if tok, ok := p.accept(GLOBAL); ok {
		modifier = ast.NewNode(ast.RuleTypeModifier, tok.val, pos)
	}
	var typeTok item
	switch p.tok.typ {
	case INT, REAL, VEC:
		typeTok = p.tok
		p.next()
	default:
		p.fail("constant expected")
	}
	decl := ast.NewNode(ast.RuleVariableDeclaration, typeTok.val, pos)
	if modifier != nil {
		decl.AppendChild(modifier)
	}
	if p.tok.typ == LBRACKET {
		decl.AppendChild(p.parseArraySpecifier())
	}
	identPos := p.pos()
	identTok := p.expect(IDENTIFIER, "constant expected")
	decl.AppendChild(ast.NewNode(ast.RuleVariableDeclarator, identTok.val, identPos))
	return decl
}

func (p *parser) parseArraySpecifier() *ast.Node {
	return p.guarded([]tokenType{RBRACKET}, func() *ast.Node {
		pos := p.pos()
		p.expect(LBRACKET, "[ expected")
		litPos := p.pos()
		var lit item
		switch p.tok.typ {
		case INT_LIT_HEX, INT_LIT_OCT, INT_LIT_DEC:
			lit = p.tok
			p.next()
		default:
			p.fail("constant expected")
		}
		p.expect(RBRACKET, "] expected")
		n := ast.NewNode(ast.RuleArraySpecifier, lit.val, pos)
		n.AppendChild(ast.NewNode(intLiteralRule(lit.typ), lit.val, litPos))
		return n
	})
}

func (p *parser) parseExpressionStatement() *ast.Node {
	return p.guarded([]tokenType{SEMICOLON}, func() *ast.Node {
		e := p.parseExpression()
		p.expect(SEMICOLON, "; expected")
		return e
	})
}

func (p *parser) parseIfStatement() *ast.Node {
	return p.guarded([]tokenType{RBRACE, SEMICOLON}, func() *ast.Node {
		pos := p.pos()
		p.expect(IF, "( expected")
		p.expect(LPAREN, "( expected")
		cond := p.parseExpression()
		p.expect(RPAREN, ") expected")
		then := p.parseEmbeddedStatement()
		n := ast.NewNode(ast.RuleIfStatement, "if", pos)
		n.AppendChild(cond)
		n.AppendChild(then)
		if _, ok := p.accept(ELSE); ok {
			n.AppendChild(p.parseEmbeddedStatement())
		}
		return n
	})
}

func (p *parser) parseWhileStatement() *ast.Node {
	return p.guarded([]tokenType{RBRACE, SEMICOLON}, func() *ast.Node {
		pos := p.pos()
		p.expect(WHILE, "( expected")
		p.expect(LPAREN, "( expected")
		cond := p.parseExpression()
		p.expect(RPAREN, ") expected")
		body := p.parseEmbeddedStatement()
		n := ast.NewNode(ast.RuleWhileStatement, "while", pos)
		n.AppendChild(cond)
		n.AppendChild(body)
		return n
	})
}

func (p *parser) parseQuitStatement() *ast.Node {
	return p.guarded([]tokenType{SEMICOLON}, func() *ast.Node {
		pos := p.pos()
		p.expect(QUIT, "; expected")
		p.expect(SEMICOLON, "; expected")
		return ast.NewNode(ast.RuleQuitStatement, "quit", pos)
	})
}

// parseEmbeddedStatement parses the single statement that follows an if,
// else or while clause. A declaration is not a valid embedded_statement in
// the original grammar (declarations only occur directly in a block), so
// this dispatches to the embedded_statement alternatives only.
func (p *parser) parseEmbeddedStatement() *ast.Node {
	switch p.tok.typ {
	case LBRACE:
		return p.parseBlock()
	case SEMICOLON:
		pos := p.pos()
		p.next()
		return ast.NewNode(ast.RuleEmptyStatement, ";", pos)
	case IF:
		return p.parseIfStatement()
	case WHILE:
		return p.parseWhileStatement()
	case QUIT:
		return p.parseQuitStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// parseExpression parses `expression = conditional_expression | assignment`.
// Rather than backtracking between the two alternatives (which overlap,
// since assignment's left-hand side is itself a unary_expression reachable
// through conditional_expression), this always parses the lower-precedence
// conditional expression first and then checks for a following assignment
// operator, recursing right-associatively for the right-hand side — which
// reproduces the grammar's documented associativity (`a = b = c` parses as
// `a = (b = c)`) without backtracking.
func (p *parser) parseExpression() *ast.Node {
	left := p.parseConditionalExpression()
	if isAssignmentOp(p.tok.typ) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseExpression()
		n := ast.NewNode(ast.RuleAssignment, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		return n
	}
	return left
}

func isAssignmentOp(tt tokenType) bool {
	return in(tt, EQ, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, PERCENTEQ, CARETEQ, AMPEQ, PIPEEQ, LTLTEQ, GTGTEQ)
}

func (p *parser) parseConditionalExpression() *ast.Node {
	left := p.parseConditionalOrExpression()
	if p.tok.typ != QUESTION {
		return left
	}
	return p.guarded([]tokenType{SEMICOLON, RPAREN, RBRACE}, func() *ast.Node {
		pos := p.pos()
		p.expect(QUESTION, ": expected")
		thenE := p.parseExpression()
		p.expect(COLON, ": expected")
		elseE := p.parseExpression()
		n := ast.NewNode(ast.RuleConditionalExpression, "?:", pos)
		n.AppendChild(left)
		n.AppendChild(thenE)
		n.AppendChild(elseE)
		return n
	})
}

func (p *parser) parseConditionalOrExpression() *ast.Node {
	left := p.parseConditionalAndExpression()
	for p.tok.typ == PIPEPIPE {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseConditionalAndExpression()
		n := ast.NewNode(ast.RuleConditionalOrExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseConditionalAndExpression() *ast.Node {
	left := p.parseInclusiveOrExpression()
	for p.tok.typ == AMPAMP {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseInclusiveOrExpression()
		n := ast.NewNode(ast.RuleConditionalAndExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseInclusiveOrExpression() *ast.Node {
	left := p.parseExclusiveOrExpression()
	for p.tok.typ == PIPE {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseExclusiveOrExpression()
		n := ast.NewNode(ast.RuleInclusiveOrExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseExclusiveOrExpression() *ast.Node {
	left := p.parseAndExpression()
	for p.tok.typ == CARET {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseAndExpression()
		n := ast.NewNode(ast.RuleExclusiveOrExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseAndExpression() *ast.Node {
	left := p.parseEqualityExpression()
	for p.tok.typ == AMP {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseEqualityExpression()
		n := ast.NewNode(ast.RuleAndExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseEqualityExpression() *ast.Node {
	left := p.parseRelationalExpression()
	for in(p.tok.typ, EQEQ, NOTEQ) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseRelationalExpression()
		n := ast.NewNode(ast.RuleEqualityExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseRelationalExpression() *ast.Node {
	left := p.parseShiftExpression()
	for in(p.tok.typ, LTEQ, GTEQ, LT, GT) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseShiftExpression()
		n := ast.NewNode(ast.RuleRelationalExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseShiftExpression() *ast.Node {
	left := p.parseAdditiveExpression()
	for in(p.tok.typ, LTLT, GTGT) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseAdditiveExpression()
		n := ast.NewNode(ast.RuleShiftExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseAdditiveExpression() *ast.Node {
	left := p.parseMultiplicativeExpression()
	for in(p.tok.typ, PLUS, MINUS) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseMultiplicativeExpression()
		n := ast.NewNode(ast.RuleAdditiveExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseMultiplicativeExpression() *ast.Node {
	left := p.parseUnaryExpression()
	for in(p.tok.typ, STAR, SLASH, PERCENT) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		right := p.parseUnaryExpression()
		n := ast.NewNode(ast.RuleMultiplicativeExpression, opTok.val, pos)
		n.AppendChild(left)
		n.AppendChild(right)
		left = n
	}
	return left
}

func (p *parser) parseUnaryExpression() *ast.Node {
	switch p.tok.typ {
	case BANG, TILDE, PLUSPLUS, MINUSMINUS, PLUS, MINUS:
		opTok := p.tok
		pos := p.pos()
		p.next()
		operand := p.parseUnaryExpression()
		n := ast.NewNode(ast.RuleUnaryExpression, opTok.val, pos)
		n.AppendChild(operand)
		return n
	default:
		return p.parsePostfixExpression()
	}
}

func (p *parser) parsePostfixExpression() *ast.Node {
	result := p.parsePrimaryBase()
	for in(p.tok.typ, PLUSPLUS, MINUSMINUS) {
		opTok := p.tok
		pos := p.pos()
		p.next()
		n := ast.NewNode(ast.RulePostfixExpression, opTok.val, pos)
		n.AppendChild(result)
		result = n
	}
	return result
}

// parsePrimaryBase parses a primary expression together with any trailing
// chain of member and element accesses (primary_expression_helper in the
// original grammar).
func (p *parser) parsePrimaryBase() *ast.Node {
	result := p.parsePrimary()
	for {
		switch p.tok.typ {
		case DOT:
			dotPos := p.pos()
			p.next()
			identTok := p.expect(IDENTIFIER, "expression expected")
			n := ast.NewNode(ast.RuleMemberAccess, identTok.val, dotPos)
			n.AppendChild(result)
			result = n
		case LBRACKET:
			result = p.parseElementAccess(result)
		default:
			return result
		}
	}
}

func (p *parser) parseElementAccess(base *ast.Node) *ast.Node {
	return p.guarded([]tokenType{RBRACKET}, func() *ast.Node {
		pos := p.pos()
		p.expect(LBRACKET, "[ expected")
		idx := p.parseExpression()
		p.expect(RBRACKET, "] expected")
		n := ast.NewNode(ast.RuleElementAccess, "[", pos)
		n.AppendChild(base)
		n.AppendChild(idx)
		return n
	})
}

func (p *parser) parsePrimary() *ast.Node {
	pos := p.pos()
	switch p.tok.typ {
	case INT_LIT_HEX, INT_LIT_OCT, INT_LIT_DEC:
		lit := p.tok
		p.next()
		return ast.NewNode(intLiteralRule(lit.typ), lit.val, pos)
	case REAL_LIT:
		lit := p.tok
		p.next()
		return ast.NewNode(ast.RuleRealLiteral, lit.val, pos)
	case TRUE, FALSE:
		lit := p.tok
		p.next()
		return ast.NewNode(ast.RuleBooleanLiteral, lit.val, pos)
	case LPAREN:
		return p.parseParenthesizedExpression()
	case INT, REAL, VEC:
		return p.parseTypeLeadExpression()
	case SYSTEM_IDENTIFIER:
		tok := p.tok
		p.next()
		return ast.NewNode(ast.RuleSystemIdentifier, tok.val, pos)
	case IDENTIFIER:
		return p.parseIdentifierLeadExpression()
	default:
		p.fail("expression expected")
		return nil
	}
}

func (p *parser) parseParenthesizedExpression() *ast.Node {
	return p.guarded([]tokenType{RPAREN}, func() *ast.Node {
		pos := p.pos()
		p.expect(LPAREN, "( expected")
		inner := p.parseExpression()
		p.expect(RPAREN, ") expected")
		n := ast.NewNode(ast.RuleParenthesizedExpression, "(", pos)
		n.AppendChild(inner)
		return n
	})
}

// parseTypeLeadExpression parses array-creation (`<type>[n](args)`) and
// object-creation (`<type>(args)`) expressions, both of which start with a
// type keyword.
func (p *parser) parseTypeLeadExpression() *ast.Node {
	pos := p.pos()
	typeTok := p.tok
	p.next()
	if p.tok.typ == LBRACKET {
		return p.parseArrayCreation(typeTok, pos)
	}
	return p.guarded([]tokenType{RPAREN}, func() *ast.Node {
		p.expect(LPAREN, "( expected")
		n := ast.NewNode(ast.RuleObjectCreationExpression, typeTok.val, pos)
		p.parseArgumentList(n)
		p.expect(RPAREN, ") expected")
		return n
	})
}

func (p *parser) parseArrayCreation(typeTok item, pos ast.Position) *ast.Node {
	return p.guarded([]tokenType{RPAREN}, func() *ast.Node {
		n := ast.NewNode(ast.RuleArrayCreationExpression, typeTok.val, pos)
		n.AppendChild(p.parseArraySpecifier())
		p.expect(LPAREN, "( expected")
		p.parseArgumentList(n)
		p.expect(RPAREN, ") expected")
		return n
	})
}

// parseIdentifierLeadExpression parses an invocation (`ident(args)`) or a
// bare qualified identifier.
func (p *parser) parseIdentifierLeadExpression() *ast.Node {
	pos := p.pos()
	identTok := p.tok
	p.next()
	if p.tok.typ != LPAREN {
		return ast.NewNode(ast.RuleQualifiedIdentifier, identTok.val, pos)
	}
	return p.guarded([]tokenType{RPAREN}, func() *ast.Node {
		p.expect(LPAREN, "( expected")
		n := ast.NewNode(ast.RuleInvocation, identTok.val, pos)
		p.parseArgumentList(n)
		p.expect(RPAREN, ") expected")
		return n
	})
}

// parseArgumentList appends zero or more comma-separated argument
// expressions as direct children of n.
func (p *parser) parseArgumentList(n *ast.Node) {
	if p.tok.typ == RPAREN {
		return
	}
	n.AppendChild(p.parseExpression())
	for {
		if _, ok := p.accept(COMMA); !ok {
			return
		}
		n.AppendChild(p.parseExpression())
	}
}

func intLiteralRule(tt tokenType) ast.Rule {
	switch tt {
	case INT_LIT_HEX:
		return ast.RuleIntegerLiteralHex
	case INT_LIT_OCT:
		return ast.RuleIntegerLiteralOct
	default:
		return ast.RuleIntegerLiteralDec
	}
}
