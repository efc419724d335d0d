// diag.go implements the compiler's positioned diagnostics, the way the
// teacher's util.perror collects errors from concurrent stages and the
// original C++ compiler's SyntaxErrorHandler/CellError raise printf-style
// messages tied to a source position. Unlike the original, the syntax-error
// counter here is per-compilation state (spec.md section 9's "Global error
// counter" design note), carried on a Diagnostics value rather than a
// package-level global, so nothing prevents compiling two units
// concurrently from two separate Diagnostics.

package util

import (
	"fmt"
	"os"

	"cellc/src/ast"
)

// Diagnostics collects and prints positioned compiler errors for a single
// compilation and gates the pipeline between the parse and IR-generation
// stages on whether any syntax errors were seen.
type Diagnostics struct {
	file        string
	syntaxCount int
	errorCount  int
	out         *os.File
}

// NewDiagnostics returns a Diagnostics that reports positioned errors for
// file, writing to out (os.Stdout in the CLI driver, per spec.md section 6).
func NewDiagnostics(file string, out *os.File) *Diagnostics {
	return &Diagnostics{file: file, out: out}
}

// SyntaxErrorf reports a syntax error at pos and increments the
// syntax-error count. Called by the parser on a guard-protected production
// mismatch; per spec.md section 4.1 it does not abort parsing of the
// translation unit.
func (d *Diagnostics) SyntaxErrorf(pos ast.Position, format string, args ...interface{}) {
	d.syntaxCount++
	d.print(pos, format, args...)
}

// Errorf reports a non-syntax compile error (overflow, redefinition, type
// mismatch, and the other IR-generator fatal kinds from spec.md section 7).
func (d *Diagnostics) Errorf(pos ast.Position, format string, args ...interface{}) {
	d.errorCount++
	d.print(pos, format, args...)
}

// Warnf reports a non-fatal diagnostic, such as an IR verification failure
// (spec.md section 7: "print, continue; emitted function may still be
// handed to the caller").
func (d *Diagnostics) Warnf(pos ast.Position, format string, args ...interface{}) {
	d.print(pos, format, args...)
}

func (d *Diagnostics) print(pos ast.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(d.out, "%s:%d:%d: %s\n", d.file, pos.Line, pos.Column, msg)
}

// HasSyntaxErrors reports whether any syntax error was recorded. The driver
// consults this as the gate between the parse and IR stages: per spec.md
// section 2 the syntax-error count is "used as a gate between stages."
func (d *Diagnostics) HasSyntaxErrors() bool { return d.syntaxCount > 0 }

// HasErrors reports whether any diagnostic (syntax or semantic) was
// recorded, used by the driver to choose the process exit code.
func (d *Diagnostics) HasErrors() bool { return d.syntaxCount > 0 || d.errorCount > 0 }

// SyntaxErrorCount returns the number of syntax errors recorded so far.
func (d *Diagnostics) SyntaxErrorCount() int { return d.syntaxCount }
