package irgen

import (
	"os"
	"strings"
	"testing"

	"cellc/src/ast"
	"cellc/src/frontend"
	"cellc/src/irb/llvmb"
	"cellc/src/util"
)

// compile lexes, parses, builds and generates IR for src, failing the test
// on any syntax or generation error. It returns the rendered module text so
// callers can assert on the emitted instruction shapes.
func compile(t *testing.T, src string) string {
	t.Helper()
	diag := util.NewDiagnostics("test.cell", os.Stdout)
	root, err := frontend.Parse(src, "test.cell", diag)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	ast.Build(root, diag)
	if diag.HasSyntaxErrors() {
		t.Fatalf("unexpected syntax errors in %q", src)
	}

	_, mod := llvmb.New("test")
	bld := llvmb.NewBuilder(mod)
	defer bld.Dispose()

	fn, err := Generate(root, "cell_step", bld, diag)
	if err != nil {
		t.Fatalf("generate error: %s", err)
	}
	if fn == nil {
		t.Fatalf("generate returned a nil function with no error")
	}
	return mod.String()
}

func TestGenerateDeclarationAndAssignment(t *testing.T) {
	ir := compile(t, `int x; x = 5;`)
	if !strings.Contains(ir, "alloca i32") {
		t.Fatalf("expected an i32 alloca, got:\n%s", ir)
	}
	if !strings.Contains(ir, "store i32 5") {
		t.Fatalf("expected a store of the literal 5, got:\n%s", ir)
	}
}

func TestGenerateForceLaneAssignment(t *testing.T) {
	ir := compile(t, `#Force.x = 1.0;`)
	if !strings.Contains(ir, "insertelement") {
		t.Fatalf("expected an insertelement for the .x lane write, got:\n%s", ir)
	}
}

func TestGenerateVecScalarBroadcast(t *testing.T) {
	ir := compile(t, `vec v; v = v * 2.0;`)
	if !strings.Contains(ir, "shufflevector") {
		t.Fatalf("expected a splat (insertelement+shufflevector) for the scalar broadcast, got:\n%s", ir)
	}
	if !strings.Contains(ir, "fmul") {
		t.Fatalf("expected a vector fmul, got:\n%s", ir)
	}
}

func TestGenerateSystemIdentifierElementAccess(t *testing.T) {
	ir := compile(t, `real r; r = #Radius[0];`)
	if !strings.Contains(ir, "call float @read_radius") {
		t.Fatalf("expected a call to read_radius, got:\n%s", ir)
	}
}

func TestGenerateIfWhileControlFlow(t *testing.T) {
	ir := compile(t, `
int i;
i = 0;
while (i < #CellCount) {
	if (i == 0) {
		i = i + 1;
	} else {
		i = i + 2;
	}
}
`)
	for _, want := range []string{"while.cond", "while.body", "while.end", "if.then", "if.else", "if.merge"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("expected block %q in generated IR, got:\n%s", want, ir)
		}
	}
}

func TestGenerateQuitTerminatesBlock(t *testing.T) {
	diag := util.NewDiagnostics("test.cell", os.Stdout)
	root, err := frontend.Parse(`int x; quit; x = 1;`, "test.cell", diag)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	ast.Build(root, diag)

	_, mod := llvmb.New("test")
	bld := llvmb.NewBuilder(mod)
	defer bld.Dispose()

	fn, err := Generate(root, "cell_step", bld, diag)
	if err != nil {
		t.Fatalf("generate error: %s", err)
	}
	if fn == nil {
		t.Fatalf("generate returned a nil function with no error")
	}
	// The statement after quit must not have re-declared x into a second
	// unreachable alloca or emitted a second store; x is declared exactly
	// once and never stored to, since quit unconditionally terminates the
	// entry block before the assignment statement is reached.
	ir := mod.String()
	if strings.Count(ir, "alloca i32") != 1 {
		t.Fatalf("expected exactly one alloca, got:\n%s", ir)
	}
	if strings.Contains(ir, "store i32 1") {
		t.Fatalf("did not expect the dead store after quit, got:\n%s", ir)
	}
}

func TestGenerateUndeclaredIdentifierIsFatal(t *testing.T) {
	diag := util.NewDiagnostics("test.cell", os.Stdout)
	root, err := frontend.Parse(`x = 1;`, "test.cell", diag)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	ast.Build(root, diag)

	_, mod := llvmb.New("test")
	bld := llvmb.NewBuilder(mod)
	defer bld.Dispose()

	_, err = Generate(root, "cell_step", bld, diag)
	if err == nil {
		t.Fatalf("expected an error for an undeclared identifier")
	}
}
