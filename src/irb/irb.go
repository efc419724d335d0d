// Package irb defines the narrow interface the Cell IR generator uses to emit code.
//
// The interface is the "IR builder adapter" of the compiler: the IR generator
// (package irgen) is coded against Builder, Module, Value, Type, BasicBlock and
// Function only. It never imports a concrete backend. This mirrors the way the
// original Cell compiler kept ir_generator.cpp talking to llvm::IRBuilder rather
// than hand-rolling its own instruction encoding, and the way the teacher
// compiler's IR generation (src/ir/llvm/transform.go) is kept separate from the
// syntax tree it walks.
package irb

// TypeKind classifies a Type without requiring the caller to know which
// concrete backend produced it.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindInt
	KindFloat
	KindVector
	KindPointer
	KindArray
	KindFunction
)

// Type is an opaque, backend-owned type handle.
type Type interface {
	Kind() TypeKind
	// Equal reports whether two types are the identical backend type.
	Equal(Type) bool
}

// Value is an opaque, backend-owned SSA value handle. The backend owns the
// memory behind a Value; the core never dereferences or frees one.
type Value interface {
	Type() Type
}

// BasicBlock is an opaque handle to a block of straight-line instructions
// ending in exactly one terminator.
type BasicBlock interface {
	HasTerminator() bool
}

// Function is an opaque handle to a backend function definition.
type Function interface {
	// Blocks returns every basic block currently attached to the function,
	// in the order they were attached.
	Blocks() []BasicBlock
	// Param returns the i'th formal parameter of the function as a Value.
	Param(i int) Value
	// EntryBlock returns the function's first basic block.
	EntryBlock() BasicBlock
}

// IntPredicate names an integer comparison family member.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
	IntNE
	IntSGT
	IntSGE
	IntSLT
	IntSLE
)

// FloatPredicate names an ordered floating point comparison family member.
type FloatPredicate int

const (
	FloatOEQ FloatPredicate = iota
	FloatONE
	FloatOGT
	FloatOGE
	FloatOLT
	FloatOLE
)

// Module is the container the IR generator populates. It must arrive
// pre-loaded with the base-module contract of spec.md section 6
// (cell_main_template and the read_/cell_ intrinsics) before a Builder
// is constructed against it.
type Module interface {
	// NamedFunction looks up a function by exact name, returning nil if absent.
	NamedFunction(name string) Function
	// CloneFunction creates a new function in the module with the given name
	// and the exact signature of template, with a single empty entry block
	// whose parameters carry the same names as the template's. The template
	// itself is left untouched.
	CloneFunction(newName string, template Function) (Function, error)
	// VerifyFunction runs the backend's structural verifier over fn. A
	// non-nil error does not necessarily mean the function cannot be handed
	// back to the caller; per spec.md section 7 this is reported, not fatal.
	VerifyFunction(fn Function) error

	// Type constructors.
	IntType() Type
	FloatType() Type
	VectorType() Type // 2-lane float vector, the language's sole vec representation.
	PointerType(elem Type) Type
	ArrayType(elem Type, count int) Type

	// Constant constructors.
	ConstInt(v int32) Value
	ConstFloat(v float32) Value
}

// Builder emits instructions at a single, explicit insertion point. Every
// Create* method appends an instruction at that point and advances it. No
// Builder method returns an error: the IR generator checks operand kinds
// itself before calling them and reports its own diagnostics.
type Builder interface {
	Module() Module

	// Positioning.
	SetInsertBlock(b BasicBlock)
	InsertBlock() BasicBlock // nil if no insertion point is set.
	ClearInsertBlock()
	NewBlock(fn Function, name string) BasicBlock
	AppendBlock(fn Function, b BasicBlock)

	// Memory.
	CreateAlloca(t Type, name string) Value
	CreateAllocaAtEntry(fn Function, t Type, name string) Value // prepended to the entry block, per spec.md 4.4.3.
	CreateLoad(ptr Value, name string) Value
	CreateStore(val, ptr Value)
	CreateGEP(ptr Value, index Value, name string) Value

	// Vector lanes.
	CreateExtractElement(vec, index Value, name string) Value
	CreateInsertElement(vec, elem, index Value, name string) Value
	CreateSplat(scalar Value, name string) Value // broadcast a float scalar to a 2-lane vector.

	// Integer arithmetic.
	CreateAdd(l, r Value, name string) Value
	CreateSub(l, r Value, name string) Value
	CreateMul(l, r Value, name string) Value
	CreateSDiv(l, r Value, name string) Value
	CreateSRem(l, r Value, name string) Value
	CreateNeg(v Value, name string) Value

	// Float/vector arithmetic.
	CreateFAdd(l, r Value, name string) Value
	CreateFSub(l, r Value, name string) Value
	CreateFMul(l, r Value, name string) Value
	CreateFDiv(l, r Value, name string) Value
	CreateFRem(l, r Value, name string) Value
	CreateFNeg(v Value, name string) Value

	// Bitwise/shift, int only.
	CreateShl(l, r Value, name string) Value
	CreateAShr(l, r Value, name string) Value
	CreateAnd(l, r Value, name string) Value
	CreateOr(l, r Value, name string) Value
	CreateXor(l, r Value, name string) Value
	CreateNot(v Value, name string) Value

	// Comparisons; result is always i1.
	CreateICmp(pred IntPredicate, l, r Value, name string) Value
	CreateFCmp(pred FloatPredicate, l, r Value, name string) Value

	// Conversion.
	CreateZExt(v Value, t Type, name string) Value

	// Control flow.
	CreateBr(dst BasicBlock)
	CreateCondBr(cond Value, then, els BasicBlock)
	CreateRetVoid()

	// Calls.
	CreateCall(fn Function, args []Value, name string) Value
}
