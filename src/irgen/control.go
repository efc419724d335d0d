package irgen

import (
	"cellc/src/ast"
	"cellc/src/irb"
)

// narrowCond coerces v to the i1-shaped comparison CreateCondBr needs. Every
// int-typed value the generator produces is already a full i32 (relational
// and logical operators zero-extend their i1 result per spec.md section
// 4.4.4), so narrowing is always an explicit `!= 0` comparison rather than a
// type-driven no-op.
func (g *generator) narrowCond(v irb.Value, pos ast.Position) irb.Value {
	if v.Type().Kind() != irb.KindInt {
		fail(pos, "condition must be an int expression")
	}
	return g.bld.CreateICmp(irb.IntNE, v, g.mod.ConstInt(0), "")
}

// genIf implements spec.md section 4.4.5: THEN and (if present) ELSE blocks
// are created first, MERGE last, then the branch and bodies are emitted.
func (g *generator) genIf(n *ast.Node) {
	cond := n.FirstChild
	thenNode := cond.NextSibling
	elseNode := thenNode.NextSibling

	condVal := g.narrowCond(g.genExpr(cond), cond.Pos)

	thenBlk := g.bld.NewBlock(g.fn, "if.then")
	var elseBlk irb.BasicBlock
	hasElse := elseNode != nil
	if hasElse {
		elseBlk = g.bld.NewBlock(g.fn, "if.else")
	}
	mergeBlk := g.bld.NewBlock(g.fn, "if.merge")

	if hasElse {
		g.bld.CreateCondBr(condVal, thenBlk, elseBlk)
	} else {
		g.bld.CreateCondBr(condVal, thenBlk, mergeBlk)
	}

	g.bld.SetInsertBlock(thenBlk)
	g.genStatement(thenNode)
	if g.bld.InsertBlock() != nil && !g.bld.InsertBlock().HasTerminator() {
		g.bld.CreateBr(mergeBlk)
	}

	if hasElse {
		g.bld.SetInsertBlock(elseBlk)
		g.genStatement(elseNode)
		if g.bld.InsertBlock() != nil && !g.bld.InsertBlock().HasTerminator() {
			g.bld.CreateBr(mergeBlk)
		}
	}

	g.bld.SetInsertBlock(mergeBlk)
}

// genWhile implements spec.md section 4.4.5: an unconditional branch into
// COND, a conditional branch out of COND into BODY or END, and a branch back
// to COND at the bottom of BODY if it falls through.
func (g *generator) genWhile(n *ast.Node) {
	cond := n.FirstChild
	body := cond.NextSibling

	condBlk := g.bld.NewBlock(g.fn, "while.cond")
	bodyBlk := g.bld.NewBlock(g.fn, "while.body")
	endBlk := g.bld.NewBlock(g.fn, "while.end")

	g.bld.CreateBr(condBlk)

	g.bld.SetInsertBlock(condBlk)
	condVal := g.narrowCond(g.genExpr(cond), cond.Pos)
	g.bld.CreateCondBr(condVal, bodyBlk, endBlk)

	g.bld.SetInsertBlock(bodyBlk)
	g.genStatement(body)
	if g.bld.InsertBlock() != nil && !g.bld.InsertBlock().HasTerminator() {
		g.bld.CreateBr(condBlk)
	}

	g.bld.SetInsertBlock(endBlk)
}
