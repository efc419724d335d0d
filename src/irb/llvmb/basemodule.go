package llvmb

import "tinygo.org/x/go-llvm"

// New builds an in-memory llvm.Module pre-populated with the base-module
// contract of spec.md section 6: cell_main_template and the read_/cell_
// intrinsics, declared with their exact signatures. It stands in for the
// real simulator-supplied module (original_source/cell_game/cell_game,
// base.c), which this compiler never links against: the driver always
// compiles against this stub, so the IR generator can be exercised
// end-to-end by tests and by the CLI without the real simulator present.
//
// Cell is laid out exactly as base.c declares it: 32 bytes, { f32 radius;
// <2 x f32> position; <2 x f32> velocity; i8* padding }.
func New(name string) (llvm.Context, *Module) {
	ctx := llvm.NewContext()
	m := ctx.NewModule(name)

	i32 := ctx.Int32Type()
	f32 := ctx.FloatType()
	vec := llvm.VectorType(f32, 2)
	voidTy := ctx.VoidType()

	cellTy := ctx.StructCreateNamed("struct.Cell")
	cellTy.StructSetBody([]llvm.Type{
		f32,
		vec,
		vec,
		llvm.PointerType(ctx.Int8Type(), 0),
	}, false)
	cellPtr := llvm.PointerType(cellTy, 0)
	vecPtr := llvm.PointerType(vec, 0)

	declare := func(fname string, ret llvm.Type, params ...llvm.Type) llvm.Value {
		ft := llvm.FunctionType(ret, params, false)
		return llvm.AddFunction(m, fname, ft)
	}

	mainFn := declare("cell_main_template", voidTy, cellPtr, i32, f32, vecPtr)
	for i1, pname := range []string{"pCells", "cellCount", "arenaRadius", "force"} {
		mainFn.Param(i1).SetName(pname)
	}
	entry := llvm.AddBasicBlock(mainFn, "entry")
	b := ctx.NewBuilder()
	b.SetInsertPointAtEnd(entry)
	b.CreateRetVoid()
	b.Dispose()

	declare("read_radius", f32, cellPtr, i32)
	declare("read_position", vec, cellPtr, i32)
	declare("read_velocity", vec, cellPtr, i32)
	declare("cell_sqrt", f32, f32)
	declare("cell_length", f32, vec)
	declare("cell_normalize", vec, vec)
	declare("cell_dot", f32, vec, vec)
	declare("cell_makeVec", vec, f32, f32)

	return ctx, NewModule(ctx, m)
}
