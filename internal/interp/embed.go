package interp

import (
	"bytes"
	"fmt"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/coizioc/coiz/internal/ast"
	"github.com/coizioc/coiz/internal/runtime"
)

// hostEvaluator runs the raw text of a backtick-delimited embedded-code
// literal as a standalone Go program and captures whatever it writes to
// standard output, returning that capture as the literal's value. This
// is the Go-native replacement for the reference implementation, which
// exec's the literal as Python with sys.stdout redirected to a buffer.
//
// Each literal gets a fresh yaegi interpreter: embedded snippets are not
// expected to share state across invocations, and a fresh interpreter
// keeps one snippet's imports or panics from leaking into the next.
type hostEvaluator struct {
	// parentStdout is the writer the surrounding Evaluator prints to; eval
	// does not write to it. A host snippet's standard error goes to the
	// process's own standard error, so its diagnostics (as opposed to its
	// stdout capture) are still visible during a REPL or file run.
	parentStdout interface{ Write([]byte) (int, error) }
}

func newHostEvaluator(parentStdout interface{ Write([]byte) (int, error) }) *hostEvaluator {
	return &hostEvaluator{parentStdout: parentStdout}
}

// eval runs node.Value as a Go source file. The snippet is wrapped in a
// minimal package/import preamble so scripts can write plain statements
// (e.g. `fmt.Println("hi")`) without declaring package main themselves.
func (h *hostEvaluator) eval(node *ast.EmbeddedCode) (runtime.Value, error) {
	var out bytes.Buffer

	i := interp.New(interp.Options{Stdout: &out, Stderr: os.Stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("host evaluator setup failed: %w", err)
	}

	source := "package main\n\nimport \"fmt\"\n\nvar _ = fmt.Sprintf\n\nfunc main() {\n" + node.Value + "\n}\n"
	if _, err := i.Eval(source); err != nil {
		// The reference implementation prints whatever the snippet had
		// already written before re-raising the error; surface the
		// same partial capture here rather than discarding it.
		return runtime.String(out.String()), fmt.Errorf("embedded code failed: %w", err)
	}

	return runtime.String(out.String()), nil
}
