package irgen

import (
	"cellc/src/ast"
	"cellc/src/irb"
)

// genBinaryOp dispatches a binary operator over two already-evaluated
// operands by their runtime kind, per spec.md section 4.4.4. It is shared
// between ordinary binary expressions and the load-apply-store sequence a
// compound assignment lowers to.
func (g *generator) genBinaryOp(op ast.Operator, l, r irb.Value, pos ast.Position) irb.Value {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return g.genArith(op, l, r, pos)

	case ast.OpShl, ast.OpShr, ast.OpBitAnd, ast.OpBitOr:
		if l.Type().Kind() != irb.KindInt || r.Type().Kind() != irb.KindInt {
			fail(pos, "%s requires int operands", op)
		}
		switch op {
		case ast.OpShl:
			return g.bld.CreateShl(l, r, "")
		case ast.OpShr:
			return g.bld.CreateAShr(l, r, "")
		case ast.OpBitAnd:
			return g.bld.CreateAnd(l, r, "")
		default:
			return g.bld.CreateOr(l, r, "")
		}

	case ast.OpBitXor:
		if l.Type().Kind() == irb.KindVector && r.Type().Kind() == irb.KindVector {
			fn := g.mod.NamedFunction("cell_dot")
			if fn == nil {
				fail(pos, "base module is missing cell_dot")
			}
			return g.bld.CreateCall(fn, []irb.Value{l, r}, "")
		}
		if l.Type().Kind() == irb.KindInt && r.Type().Kind() == irb.KindInt {
			return g.bld.CreateXor(l, r, "")
		}
		fail(pos, "^ requires two vec operands or two int operands")

	case ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE, ast.OpEQ, ast.OpNE:
		return g.genRelational(op, l, r, pos)

	case ast.OpLogAnd, ast.OpLogOr:
		if l.Type().Kind() != irb.KindInt || r.Type().Kind() != irb.KindInt {
			fail(pos, "%s requires int operands", op)
		}
		zero := g.mod.ConstInt(0)
		lb := g.bld.CreateICmp(irb.IntNE, l, zero, "")
		rb := g.bld.CreateICmp(irb.IntNE, r, zero, "")
		var combined irb.Value
		if op == ast.OpLogAnd {
			combined = g.bld.CreateAnd(lb, rb, "")
		} else {
			combined = g.bld.CreateOr(lb, rb, "")
		}
		return g.bld.CreateZExt(combined, g.mod.IntType(), "")
	}

	fail(pos, "unsupported binary operator %s", op)
	panic("unreachable")
}

// genArith implements the scalar<->vector broadcasting rule: a real operand
// paired with a vec operand is splat to both lanes before the elementwise
// float op runs. int only combines with int; mixing int with real or vec is
// a type mismatch, since the language has no implicit int<->float promotion.
func (g *generator) genArith(op ast.Operator, l, r irb.Value, pos ast.Position) irb.Value {
	lk, rk := l.Type().Kind(), r.Type().Kind()

	if lk == irb.KindInt && rk == irb.KindInt {
		switch op {
		case ast.OpAdd:
			return g.bld.CreateAdd(l, r, "")
		case ast.OpSub:
			return g.bld.CreateSub(l, r, "")
		case ast.OpMul:
			return g.bld.CreateMul(l, r, "")
		case ast.OpDiv:
			return g.bld.CreateSDiv(l, r, "")
		default:
			return g.bld.CreateSRem(l, r, "")
		}
	}

	if lk == irb.KindVector && rk == irb.KindFloat {
		return g.genArith(op, l, g.bld.CreateSplat(r, ""), pos)
	}
	if lk == irb.KindFloat && rk == irb.KindVector {
		return g.genArith(op, g.bld.CreateSplat(l, ""), r, pos)
	}

	if (lk == irb.KindFloat && rk == irb.KindFloat) || (lk == irb.KindVector && rk == irb.KindVector) {
		switch op {
		case ast.OpAdd:
			return g.bld.CreateFAdd(l, r, "")
		case ast.OpSub:
			return g.bld.CreateFSub(l, r, "")
		case ast.OpMul:
			return g.bld.CreateFMul(l, r, "")
		case ast.OpDiv:
			return g.bld.CreateFDiv(l, r, "")
		default:
			return g.bld.CreateFRem(l, r, "")
		}
	}

	fail(pos, "%s does not support operands of these types", op)
	panic("unreachable")
}

var intPredFor = map[ast.Operator]irb.IntPredicate{
	ast.OpLT: irb.IntSLT, ast.OpLE: irb.IntSLE,
	ast.OpGT: irb.IntSGT, ast.OpGE: irb.IntSGE,
	ast.OpEQ: irb.IntEQ, ast.OpNE: irb.IntNE,
}

var floatPredFor = map[ast.Operator]irb.FloatPredicate{
	ast.OpLT: irb.FloatOLT, ast.OpLE: irb.FloatOLE,
	ast.OpGT: irb.FloatOGT, ast.OpGE: irb.FloatOGE,
	ast.OpEQ: irb.FloatOEQ, ast.OpNE: irb.FloatONE,
}

// genRelational dispatches relational and equality operators by operand
// kind. vec operands compare lane by lane: an fcmp on each of x and y, the
// two i1 results combined with a bitwise AND, per spec.md section 4.4.4.
func (g *generator) genRelational(op ast.Operator, l, r irb.Value, pos ast.Position) irb.Value {
	lk, rk := l.Type().Kind(), r.Type().Kind()

	if lk == irb.KindInt && rk == irb.KindInt {
		cmp := g.bld.CreateICmp(intPredFor[op], l, r, "")
		return g.bld.CreateZExt(cmp, g.mod.IntType(), "")
	}
	if lk == irb.KindFloat && rk == irb.KindFloat {
		cmp := g.bld.CreateFCmp(floatPredFor[op], l, r, "")
		return g.bld.CreateZExt(cmp, g.mod.IntType(), "")
	}
	if lk == irb.KindVector && rk == irb.KindVector {
		zero, one := g.mod.ConstInt(0), g.mod.ConstInt(1)
		lx := g.bld.CreateExtractElement(l, zero, "")
		ly := g.bld.CreateExtractElement(l, one, "")
		rx := g.bld.CreateExtractElement(r, zero, "")
		ry := g.bld.CreateExtractElement(r, one, "")
		cx := g.bld.CreateFCmp(floatPredFor[op], lx, rx, "")
		cy := g.bld.CreateFCmp(floatPredFor[op], ly, ry, "")
		cmp := g.bld.CreateAnd(cx, cy, "")
		return g.bld.CreateZExt(cmp, g.mod.IntType(), "")
	}

	fail(pos, "%s does not support operands of these types", op)
	panic("unreachable")
}
