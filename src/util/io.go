package util

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
)

// ReadSource reads the source file named by opt.Src. The Cell driver
// compiles exactly one translation unit per invocation (spec.md section 6),
// so unlike the teacher's ReadSource there is no stdin fallback: a missing
// source path is a usage error the driver reports itself.
func ReadSource(opt Options) (string, error) {
	b, err := ioutil.ReadFile(opt.Src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteOutput writes s (the emitted LLVM IR text) to opt.Out, or to stdout
// if no output path was given.
func WriteOutput(opt Options, s string) error {
	if opt.Out == "" {
		_, err := fmt.Fprint(os.Stdout, s)
		return err
	}
	f, err := os.Create(opt.Out)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.Flush()
}
