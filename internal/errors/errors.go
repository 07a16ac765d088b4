// Package errors defines the diagnostic type produced by the parser and
// the semantic analyzer. The lexer's LexerError and the evaluator's
// runtime errors use the same one-line format, so the CLI reports every
// stage uniformly.
package errors

import "fmt"

// CompilerError is a single diagnostic tied to a filename and source
// line, formatted to match the reference implementation's
// "[file, line N] Error: message" convention.
type CompilerError struct {
	Filename string
	Line     int
	Message  string
}

func New(filename string, line int, format string, args ...any) *CompilerError {
	return &CompilerError{Filename: filename, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("[%s, line %d] Error: %s", e.Filename, e.Line, e.Message)
}

// List accumulates diagnostics from a single pipeline stage. A stage
// keeps running after an error so it can surface every problem found in
// one pass, rather than stopping at the first.
type List struct {
	Errors []*CompilerError
}

func (l *List) Add(err *CompilerError) {
	l.Errors = append(l.Errors, err)
}

func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}
