package frontend

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

// TokenStream lexes src and renders every scanned token as a table of
// value, type and source position, for the -ts developer flag. It runs the
// lexer standalone, without a parser consuming the buffered tokens, the
// way the teacher's -ts flag inspects the token stream independently of
// parsing.
func TokenStream(src string) (string, error) {
	l := newLexer(src, lexGlobal)
	l.run()

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 10, 2, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Value\tType\tPosition\n")
	for {
		t := l.nextItem()
		switch t.typ {
		case itemEOF:
			if err := tw.Flush(); err != nil {
				return sb.String(), err
			}
			return sb.String(), nil
		case itemError:
			_ = tw.Flush()
			return sb.String(), errors.New(t.val)
		default:
			if len(t.val) > 20 {
				_, _ = fmt.Fprintf(tw, "%.17q...\t%s\tline %d:%d\n", t.val, t.typ, t.line, t.pos)
			} else {
				_, _ = fmt.Fprintf(tw, "%q\t%s\tline %d:%d\n", t.val, t.typ, t.line, t.pos)
			}
		}
	}
}
