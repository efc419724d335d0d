// This lexer is based on, and copied from, Rob Pike's talk on Go scanners.
// Link to the talk on YouTube: https://www.youtube.com/watch?v=HxaD_trXwRE
// Link to presentation slides: https://talks.golang.org/2011/lex.slide#1
//
// The lexer uses state functions stateFunc to define the lexer state.
// States allow the lexer to treat same runes differently depending on
// context. State transitions happen in the current state on appearance of
// key runes. The lexer uses the Go 'character' type 'rune' for native
// UTF-8 support, though the Cell grammar (section 6 of the specification)
// restricts source files to ASCII.

package frontend

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// stateFunc defines the state of the lexer.
type stateFunc func(*lexer) stateFunc

// lexer is a lexical scanner that traverses a source stream character by
// character and emits items. Unlike the teacher's lexer, this one is never
// driven by a goyacc-generated parser: the hand-written recursive-descent
// parser in parser.go pulls items directly via nextItem.
type lexer struct {
	input       string    // The source stream of characters to scan for lexemes.
	start       int       // The starting position of the current token.
	pos         int       // The current position of the scanner in the source stream.
	width       int       // The width of the currently scanned rune in bytes.
	line        int       // The current line in the source stream. Not zero-indexed.
	startOnLine int       // The start column of the current token on the current line. Not zero-indexed.
	state       stateFunc // The current state function of the lexer.
	items       []item    // The buffered token stream, filled by run before parsing starts.
	cursor      int       // Index of the next item nextItem will return.
}

const eof = 0 // Same as '\0' for null-terminated C strings.

// newLexer creates and returns a pointer to a new lexer positioned at the
// start of src, ready to run from the given start state.
func newLexer(src string, start stateFunc) *lexer {
	return &lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		state:       start,
	}
}

// run drives the lexer's state machine to completion, buffering every
// token into l.items. Cell source files are lexed fully before parsing
// starts rather than handed to the parser goroutine-at-a-time the way the
// teacher's Pike-style lexer does: spec.md section 5 forbids any operation
// that suspends or blocks voluntarily, and a channel handoff between a
// producer goroutine and the parser is exactly that.
func (l *lexer) run() {
	for state := l.state; state != nil; {
		state = state(l)
	}
}

// emit appends an item of type typ to the buffered token stream.
func (l *lexer) emit(typ tokenType) {
	l.items = append(l.items, item{
		typ:  typ,
		val:  l.input[l.start:l.pos],
		line: l.line,
		pos:  l.startOnLine,
	})
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Should only be called once per call of next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// accept consumes the next rune if it's from the set of valid characters.
func (l *lexer) accept(valid string) bool {
	if strings.IndexRune(valid, l.next()) >= 0 {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the set of valid characters.
func (l *lexer) acceptRun(valid string) {
	for strings.IndexRune(valid, l.next()) >= 0 {
	}
	l.backup()
}

// nextItem returns the next buffered item, or a zero-value item (typ
// itemEOF) once every token run has produced has been consumed.
func (l *lexer) nextItem() item {
	if l.cursor >= len(l.items) {
		return item{}
	}
	it := l.items[l.cursor]
	l.cursor++
	return it
}

// errorf appends an error item and terminates the scan.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items = append(l.items, item{
		typ:  itemError,
		val:  fmt.Sprintf(format, args...),
		line: l.line,
		pos:  l.startOnLine,
	})
	return nil
}
