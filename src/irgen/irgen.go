// Package irgen is the IR generator: a single-pass tree-walking traversal
// over an *ast.Node translation unit that emits LLVM IR through the irb
// adapter interfaces, the way the teacher compiler's src/ir/llvm/transform.go
// walks ir.Node and drives llvm.Builder directly. Unlike the teacher's
// generator, this one runs single-threaded front to back — the language has
// one translation unit, one emitted function, and no reason to shard work
// across goroutines.
//
// The generator keeps no IRContext struct threaded through every call the
// way the original C++ generator's ir_context_t does; the one place that
// actually needs l-value/addressing context (assignment's left-hand side,
// including a single vector lane) is modeled as dedicated helper functions
// instead; see lvalue.go.
package irgen

import (
	"fmt"
	"strings"

	"cellc/src/ast"
	"cellc/src/irb"
	"cellc/src/symtab"
	"cellc/src/util"
)

// irgenError unwinds generation of the current function on a fatal
// compile-time error (redefinition, unknown identifier, type mismatch, and
// the other kinds spec.md's error table marks fatal for the unit). Recovered
// once, at Generate's top level; nothing in between attempts to resynchronize
// the way the parser's guarded productions do.
type irgenError struct {
	pos ast.Position
	msg string
}

func fail(pos ast.Position, format string, args ...interface{}) {
	panic(irgenError{pos: pos, msg: fmt.Sprintf(format, args...)})
}

// generator holds everything a single function's IR generation needs: the
// builder positioned somewhere in the function being built, the flat symbol
// table for that function, and the four bound cell_main_template parameters.
type generator struct {
	mod  irb.Module
	bld  irb.Builder
	fn   irb.Function
	syms *symtab.Table
	diag *util.Diagnostics

	pCells      irb.Value
	cellCount   irb.Value
	arenaRadius irb.Value
	force       irb.Value
}

// Generate builds funcName by cloning cell_main_template out of bld's module
// and traversing root (the START_SYMBOL node produced by frontend.Parse and
// ast.Build) to fill its body, per spec.md section 4.4.1's setup steps. A
// fatal error during traversal is reported through diag and returned; the
// partially built function is discarded by the caller as spec.md section 7
// requires.
func Generate(root *ast.Node, funcName string, bld irb.Builder, diag *util.Diagnostics) (fn irb.Function, err error) {
	mod := bld.Module()
	template := mod.NamedFunction("cell_main_template")
	if template == nil {
		return nil, fmt.Errorf("base module has no cell_main_template function to clone")
	}
	newFn, cerr := mod.CloneFunction(funcName, template)
	if cerr != nil {
		return nil, cerr
	}
	bld.SetInsertBlock(newFn.EntryBlock())

	g := &generator{
		mod:         mod,
		bld:         bld,
		fn:          newFn,
		syms:        symtab.New(),
		diag:        diag,
		pCells:      newFn.Param(0),
		cellCount:   newFn.Param(1),
		arenaRadius: newFn.Param(2),
		force:       newFn.Param(3),
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(irgenError)
			if !ok {
				panic(r)
			}
			diag.Errorf(ie.pos, "%s", ie.msg)
			err = fmt.Errorf("%s", ie.msg)
			fn = nil
		}
	}()

	unit := root.FirstChild
	g.genStatementList(unit)

	if g.bld.InsertBlock() != nil && !g.bld.InsertBlock().HasTerminator() {
		g.bld.CreateRetVoid()
	}
	if verr := mod.VerifyFunction(g.fn); verr != nil {
		diag.Warnf(root.Pos, "function %q failed verification: %s", funcName, verr)
	}
	g.bld.ClearInsertBlock()
	return g.fn, nil
}

// genStatementList traverses n's children as statements. Once the builder's
// insertion point is cleared (a quit statement ran), remaining statements in
// the same list are dead code and are skipped rather than emitted into a
// block that no longer exists, per spec.md section 4.4.5's block-termination
// note.
func (g *generator) genStatementList(n *ast.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if g.bld.InsertBlock() == nil {
			continue
		}
		g.genStatement(c)
	}
}

func (g *generator) genStatement(n *ast.Node) {
	switch n.Rule {
	case ast.RuleBlock:
		g.genStatementList(n)
	case ast.RuleEmptyStatement:
		// nothing to emit
	case ast.RuleVariableDeclaration:
		g.genDeclaration(n)
	case ast.RuleIfStatement:
		g.genIf(n)
	case ast.RuleWhileStatement:
		g.genWhile(n)
	case ast.RuleQuitStatement:
		g.genQuit(n)
	default:
		// Every other statement the parser produces is a bare expression
		// (assignment, invocation, postfix increment, ...) evaluated for
		// its side effect; the resulting value is discarded.
		g.genExpr(n)
	}
}

func (g *generator) genQuit(n *ast.Node) {
	_ = n
	if g.bld.InsertBlock() == nil {
		return
	}
	g.bld.CreateRetVoid()
	g.bld.ClearInsertBlock()
}

// kindOfType maps a declared type specifier to the irb.TypeKind its storage
// slot carries. irb.Type exposes no pointee-type introspection, so a
// symbol's element kind is recorded at declaration time instead of derived
// later from its address.
func kindOfType(t ast.TypeSpecifier) irb.TypeKind {
	switch t {
	case ast.TypeInt:
		return irb.KindInt
	case ast.TypeReal:
		return irb.KindFloat
	case ast.TypeVec:
		return irb.KindVector
	}
	return irb.KindVoid
}

func (g *generator) genDeclaration(n *ast.Node) {
	var arraySpec, declarator *ast.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Rule {
		case ast.RuleArraySpecifier:
			arraySpec = c
		case ast.RuleVariableDeclarator:
			declarator = c
		}
		// RuleTypeModifier (global) carries no further behavior in the
		// present core: accepted grammatically, not acted on.
	}
	if declarator == nil {
		fail(n.Pos, "malformed variable declaration")
	}

	elemKind := kindOfType(n.Type)
	if elemKind == irb.KindVoid {
		fail(n.Pos, "invalid declaration type %q", n.Text)
	}

	var slotType irb.Type
	switch elemKind {
	case irb.KindInt:
		slotType = g.mod.IntType()
	case irb.KindFloat:
		slotType = g.mod.FloatType()
	case irb.KindVector:
		slotType = g.mod.VectorType()
	}

	length := 0
	if arraySpec != nil {
		if elemKind == irb.KindVector {
			fail(arraySpec.Pos, "arrays of vec are not supported")
		}
		length = int(arraySpec.FirstChild.IntVal)
		slotType = g.mod.ArrayType(slotType, length)
	}

	slot := g.bld.CreateAllocaAtEntry(g.fn, slotType, declarator.Text)
	if _, err := g.syms.Declare(declarator.Text, slot, elemKind, length); err != nil {
		fail(n.Pos, "%s", err)
	}
}

func isIntLiteralRule(r ast.Rule) bool {
	return r == ast.RuleIntegerLiteralHex || r == ast.RuleIntegerLiteralOct || r == ast.RuleIntegerLiteralDec
}

func isFieldAccessor(name string) bool {
	return name == "Radius" || name == "Position" || name == "Velocity"
}

func readAccessorName(name string) string {
	return "read_" + strings.ToLower(name)
}
