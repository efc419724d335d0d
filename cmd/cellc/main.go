package main

import (
	"fmt"
	"os"

	"cellc/src/ast"
	"cellc/src/frontend"
	"cellc/src/irb/llvmb"
	"cellc/src/irgen"
	"cellc/src/util"
)

// run executes the compiler stages for a single translation unit, gating
// each stage on the previous one the way CellCompiler::run does in the
// original implementation: a failed read aborts immediately, -ts and -ast
// print and exit before any IR is generated, and syntax errors gate IR
// generation entirely.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	if opt.TokenStream {
		s, err := frontend.TokenStream(src)
		if err != nil {
			return fmt.Errorf("syntax error: %s", err)
		}
		return util.WriteOutput(opt, s)
	}

	diag := util.NewDiagnostics(opt.Src, os.Stdout)

	root, err := frontend.Parse(src, opt.Src, diag)
	if err != nil {
		return fmt.Errorf("parse error: %s", err)
	}
	ast.Build(root, diag)

	if opt.DumpAST {
		var b []byte
		root.Print(0, func(line string) { b = append(append(b, line...), '\n') })
		return util.WriteOutput(opt, string(b))
	}

	if diag.HasSyntaxErrors() {
		return fmt.Errorf("aborting: %d syntax error(s)", diag.SyntaxErrorCount())
	}

	_, mod := llvmb.New(moduleName(opt.Src))
	bld := llvmb.NewBuilder(mod)
	defer bld.Dispose()

	if _, err := irgen.Generate(root, "cell_step", bld, diag); err != nil {
		return fmt.Errorf("IR generation error: %s", err)
	}

	if err := util.WriteOutput(opt, mod.String()); err != nil {
		return fmt.Errorf("could not write output: %s", err)
	}

	if diag.HasErrors() {
		return fmt.Errorf("compilation finished with errors")
	}
	return nil
}

// moduleName derives an LLVM module identifier from the source path so two
// emitted modules from different source files don't collide if ever linked
// together.
func moduleName(src string) string {
	if src == "" {
		return "cell"
	}
	return src
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Src == "" {
		fmt.Println("Error: no source file given")
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
