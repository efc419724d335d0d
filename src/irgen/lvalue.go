package irgen

import (
	"cellc/src/ast"
	"cellc/src/irb"
)

// lvalue names a storage location an assignment can target: either the
// whole slot at addr, or (when writeIndex is non-nil) one lane of the vector
// stored at addr. This is the concrete realization of spec.md's per-traversal
// wants_address/write_index context fields — scoped to the one place the
// grammar actually needs addressing: the left-hand side of an assignment.
type lvalue struct {
	addr       irb.Value
	writeIndex irb.Value
}

// genLValue resolves n as an assignment target. Every case that can't
// produce a real address is a fatal error, per spec.md's write-only/
// read-only identifier and non-lvalue diagnostics.
func (g *generator) genLValue(n *ast.Node) lvalue {
	switch n.Rule {
	case ast.RuleQualifiedIdentifier:
		sym := g.syms.Lookup(n.Text)
		if sym == nil {
			fail(n.Pos, "undeclared identifier %q", n.Text)
		}
		if sym.Length > 0 {
			fail(n.Pos, "array %q cannot be assigned directly, index it first", n.Text)
		}
		return lvalue{addr: sym.Storage}

	case ast.RuleSystemIdentifier:
		switch n.Text {
		case "Force":
			return lvalue{addr: g.force}
		case "CellCount", "ArenaRadius", "Radius", "Position", "Velocity":
			fail(n.Pos, "#%s is read-only", n.Text)
		}
		fail(n.Pos, "unknown system identifier #%s", n.Text)

	case ast.RuleMemberAccess:
		base := n.FirstChild
		baseLV := g.genLValue(base)
		if baseLV.writeIndex != nil {
			fail(n.Pos, "cannot take a member of a vector lane")
		}
		switch n.Text {
		case "x":
			return lvalue{addr: baseLV.addr, writeIndex: g.mod.ConstInt(0)}
		case "y":
			return lvalue{addr: baseLV.addr, writeIndex: g.mod.ConstInt(1)}
		}
		fail(n.Pos, "unknown member %q for assignment", n.Text)

	case ast.RuleElementAccess:
		base, idx := n.FirstChild, n.FirstChild.NextSibling
		if base.Rule == ast.RuleSystemIdentifier {
			fail(n.Pos, "#%s is read-only", base.Text)
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
				return lvalue{addr: elemPtr}
			}
		}
		baseLV := g.genLValue(base)
		if baseLV.writeIndex != nil {
			fail(n.Pos, "cannot index a vector lane")
		}
		if isIntLiteralRule(idx.Rule) {
			fail(idx.Pos, "vector element index must not be a compile-time constant")
		}
		idxVal := g.genExpr(idx)
		if idxVal.Type().Kind() != irb.KindInt {
			fail(idx.Pos, "index must be an int")
		}
		return lvalue{addr: baseLV.addr, writeIndex: idxVal}
	}

	fail(n.Pos, "expression is not assignable")
	panic("unreachable")
}

func (g *generator) loadLValue(lv lvalue) irb.Value {
	if lv.writeIndex != nil {
		whole := g.bld.CreateLoad(lv.addr, "")
		return g.bld.CreateExtractElement(whole, lv.writeIndex, "")
	}
	return g.bld.CreateLoad(lv.addr, "")
}

func (g *generator) storeLValue(lv lvalue, v irb.Value) {
	if lv.writeIndex != nil {
		whole := g.bld.CreateLoad(lv.addr, "")
		updated := g.bld.CreateInsertElement(whole, v, lv.writeIndex, "")
		g.bld.CreateStore(updated, lv.addr)
		return
	}
	g.bld.CreateStore(v, lv.addr)
}

// genAssignment lowers both plain assignment and the compound forms
// (+= -= *= /= %= ^= &= |= <<= >>=) to a store, the latter via an explicit
// load-apply-store through the same operator matrix genBinaryOp uses for
// ordinary binary expressions.
func (g *generator) genAssignment(n *ast.Node) irb.Value {
	lhs, rhs := n.FirstChild, n.FirstChild.NextSibling
	lv := g.genLValue(lhs)

	if n.Op == ast.OpAssign {
		v := g.genExpr(rhs)
		g.storeLValue(lv, v)
		return v
	}

	if !n.Op.IsCompoundAssignment() {
		fail(n.Pos, "unsupported assignment operator %s", n.Op)
	}
	cur := g.loadLValue(lv)
	rv := g.genExpr(rhs)
	res := g.genBinaryOp(n.Op.BaseOp(), cur, rv, n.Pos)
	g.storeLValue(lv, res)
	return res
}
