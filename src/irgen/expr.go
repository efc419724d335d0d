package irgen

import (
	"cellc/src/ast"
	"cellc/src/irb"
)

// genExpr evaluates n as an r-value. Every int-valued result produced
// anywhere in this file is a full i32 (comparisons and logical operators
// zero-extend their i1 before returning), so callers never need to special
// case a narrower width.
func (g *generator) genExpr(n *ast.Node) irb.Value {
	switch n.Rule {
	case ast.RuleIntegerLiteralHex, ast.RuleIntegerLiteralOct, ast.RuleIntegerLiteralDec:
		return g.mod.ConstInt(n.IntVal)
	case ast.RuleRealLiteral:
		return g.mod.ConstFloat(n.RealVal)
	case ast.RuleBooleanLiteral:
		if n.BoolVal {
			return g.mod.ConstInt(1)
		}
		return g.mod.ConstInt(0)

	case ast.RuleParenthesizedExpression:
		return g.genExpr(n.FirstChild)

	case ast.RuleQualifiedIdentifier:
		sym := g.syms.Lookup(n.Text)
		if sym == nil {
			fail(n.Pos, "undeclared identifier %q", n.Text)
		}
		if sym.Length > 0 {
			fail(n.Pos, "array %q used without an index", n.Text)
		}
		return g.bld.CreateLoad(sym.Storage, n.Text)

	case ast.RuleSystemIdentifier:
		return g.genSystemIdentifier(n)

	case ast.RuleInvocation:
		return g.genInvocation(n)

	case ast.RuleMemberAccess:
		return g.genMemberAccess(n)

	case ast.RuleElementAccess:
		return g.genElementAccess(n)

	case ast.RuleObjectCreationExpression:
		return g.genObjectCreation(n)

	case ast.RuleArrayCreationExpression:
		fail(n.Pos, "array creation expressions are not supported")

	case ast.RuleMultiplicativeExpression, ast.RuleAdditiveExpression, ast.RuleShiftExpression,
		ast.RuleRelationalExpression, ast.RuleEqualityExpression, ast.RuleAndExpression,
		ast.RuleExclusiveOrExpression, ast.RuleInclusiveOrExpression,
		ast.RuleConditionalAndExpression, ast.RuleConditionalOrExpression:
		l := g.genExpr(n.FirstChild)
		r := g.genExpr(n.FirstChild.NextSibling)
		return g.genBinaryOp(n.Op, l, r, n.Pos)

	case ast.RuleUnaryExpression:
		return g.genUnary(n)

	case ast.RulePostfixExpression:
		// Postfix ++/-- evaluates to the operand's current value without
		// executing the increment/decrement; see DESIGN.md.
		return g.genExpr(n.FirstChild)

	case ast.RuleConditionalExpression:
		fail(n.Pos, "conditional (?:) expressions are not supported")

	case ast.RuleAssignment:
		return g.genAssignment(n)
	}

	fail(n.Pos, "unsupported expression %s", n.Rule)
	panic("unreachable")
}

func (g *generator) genSystemIdentifier(n *ast.Node) irb.Value {
	switch n.Text {
	case "CellCount":
		return g.cellCount
	case "ArenaRadius":
		return g.arenaRadius
	case "Force":
		fail(n.Pos, "#Force is write-only")
	case "Radius", "Position", "Velocity":
		fail(n.Pos, "#%s must be indexed, e.g. #%s[i]", n.Text, n.Text)
	}
	fail(n.Pos, "unknown system identifier #%s", n.Text)
	panic("unreachable")
}

func (g *generator) genInvocation(n *ast.Node) irb.Value {
	fnName := "cell_" + n.Text
	fn := g.mod.NamedFunction(fnName)
	if fn == nil {
		fail(n.Pos, "unknown function %q", n.Text)
	}
	args := make([]irb.Value, 0, n.ChildCount())
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		args = append(args, g.genExpr(c))
	}
	return g.bld.CreateCall(fn, args, "")
}

func (g *generator) genMemberAccess(n *ast.Node) irb.Value {
	base := g.genExpr(n.FirstChild)
	if base.Type().Kind() != irb.KindVector {
		fail(n.Pos, "member access requires a vec operand")
	}
	switch n.Text {
	case "x":
		return g.bld.CreateExtractElement(base, g.mod.ConstInt(0), "")
	case "y":
		return g.bld.CreateExtractElement(base, g.mod.ConstInt(1), "")
	case "length":
		fn := g.mod.NamedFunction("cell_length")
		if fn == nil {
			fail(n.Pos, "base module is missing cell_length")
		}
		return g.bld.CreateCall(fn, []irb.Value{base}, "")
	case "normalized":
		fn := g.mod.NamedFunction("cell_normalize")
		if fn == nil {
			fail(n.Pos, "base module is missing cell_normalize")
		}
		return g.bld.CreateCall(fn, []irb.Value{base}, "")
	}
	fail(n.Pos, "unknown member %q", n.Text)
	panic("unreachable")
}

func (g *generator) genElementAccess(n *ast.Node) irb.Value {
	base, idx := n.FirstChild, n.FirstChild.NextSibling

	if base.Rule == ast.RuleSystemIdentifier {
		switch {
		case isFieldAccessor(base.Text):
			fnName := readAccessorName(base.Text)
			fn := g.mod.NamedFunction(fnName)
			if fn == nil {
				fail(n.Pos, "base module is missing %s", fnName)
			}
			idxVal := g.genExpr(idx)
			if idxVal.Type().Kind() != irb.KindInt {
				fail(idx.Pos, "index must be an int")
			}
			return g.bld.CreateCall(fn, []irb.Value{g.pCells, idxVal}, "")
		case base.Text == "Force":
			fail(n.Pos, "#Force is write-only")
		case base.Text == "CellCount" || base.Text == "ArenaRadius":
			fail(n.Pos, "#%s cannot be indexed", base.Text)
		default:
			fail(n.Pos, "unknown system identifier #%s", base.Text)
		}
	}

	if base.Rule == ast.RuleQualifiedIdentifier {
		sym := g.syms.Lookup(base.Text)
		if sym == nil {
			fail(base.Pos, "undeclared identifier %q", base.Text)
		}
		if sym.Length > 0 {
			idxVal := g.genExpr(idx)
			if idxVal.Type().Kind() != irb.KindInt {
				fail(idx.Pos, "index must be an int")
			}
			elemPtr := g.bld.CreateGEP(sym.Storage, idxVal, "")
			return g.bld.CreateLoad(elemPtr, "")
		}
	}

	baseVal := g.genExpr(base)
	if baseVal.Type().Kind() != irb.KindVector {
		fail(n.Pos, "element access is not supported for this type")
	}
	if isIntLiteralRule(idx.Rule) {
		fail(idx.Pos, "vector element index must not be a compile-time constant")
	}
	idxVal := g.genExpr(idx)
	if idxVal.Type().Kind() != irb.KindInt {
		fail(idx.Pos, "index must be an int")
	}
	return g.bld.CreateExtractElement(baseVal, idxVal, "")
}

// genObjectCreation handles vec(a, b) construction via cell_makeVec, and
// int(x)/real(x) as an identity conversion: the builder interface exposes no
// int<->float conversion instructions, so a cast across families is rejected
// rather than silently truncating or widening.
func (g *generator) genObjectCreation(n *ast.Node) irb.Value {
	switch n.Type {
	case ast.TypeVec:
		if n.ChildCount() != 2 {
			fail(n.Pos, "vec(...) requires exactly two arguments")
		}
		a := g.genExpr(n.FirstChild)
		b := g.genExpr(n.FirstChild.NextSibling)
		if a.Type().Kind() != irb.KindFloat || b.Type().Kind() != irb.KindFloat {
			fail(n.Pos, "vec(...) arguments must be real")
		}
		fn := g.mod.NamedFunction("cell_makeVec")
		if fn == nil {
			fail(n.Pos, "base module is missing cell_makeVec")
		}
		return g.bld.CreateCall(fn, []irb.Value{a, b}, "")

	case ast.TypeInt, ast.TypeReal:
		if n.ChildCount() != 1 {
			fail(n.Pos, "%s(...) requires exactly one argument", n.Type)
		}
		v := g.genExpr(n.FirstChild)
		want := irb.KindInt
		if n.Type == ast.TypeReal {
			want = irb.KindFloat
		}
		if v.Type().Kind() != want {
			fail(n.Pos, "%s(...) does not support converting from this type", n.Type)
		}
		return v
	}
	fail(n.Pos, "invalid object creation type %q", n.Text)
	panic("unreachable")
}

func (g *generator) genUnary(n *ast.Node) irb.Value {
	child := n.FirstChild
	switch n.Op {
	case ast.OpAdd:
		return g.genExpr(child)
	case ast.OpSub:
		v := g.genExpr(child)
		switch v.Type().Kind() {
		case irb.KindInt:
			return g.bld.CreateNeg(v, "")
		case irb.KindFloat, irb.KindVector:
			return g.bld.CreateFNeg(v, "")
		}
		fail(n.Pos, "unary - does not support this operand type")
	case ast.OpNot:
		v := g.genExpr(child)
		if v.Type().Kind() != irb.KindInt {
			fail(n.Pos, "! requires an int operand")
		}
		cmp := g.bld.CreateICmp(irb.IntEQ, v, g.mod.ConstInt(0), "")
		return g.bld.CreateZExt(cmp, g.mod.IntType(), "")
	case ast.OpBitNot:
		v := g.genExpr(child)
		if v.Type().Kind() != irb.KindInt {
			fail(n.Pos, "~ requires an int operand")
		}
		return g.bld.CreateNot(v, "")
	case ast.OpInc, ast.OpDec:
		// Prefix ++/-- is given the same no-side-effect treatment as
		// postfix ++/--; see DESIGN.md.
		return g.genExpr(child)
	}
	fail(n.Pos, "unsupported unary operator %s", n.Op)
	panic("unreachable")
}
