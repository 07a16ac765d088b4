package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	cerrors "github.com/coizioc/coiz/internal/errors"
	"github.com/coizioc/coiz/internal/lexer"
	"github.com/coizioc/coiz/internal/parser"
	"github.com/coizioc/coiz/internal/runtime"
	"github.com/coizioc/coiz/internal/semantic"
)

// Result is the outcome of running one module: every diagnostic from
// every stage of the pipeline, plus the finished top-level scope if
// evaluation completed without a runtime error.
type Result struct {
	LexErrors      []*cerrors.CompilerError
	ParseErrors    []*cerrors.CompilerError
	SemanticErrors []*cerrors.CompilerError
	RuntimeError   error
	Scope          *runtime.Scope
}

// HasErrors reports whether any stage produced a diagnostic.
func (r *Result) HasErrors() bool {
	return len(r.LexErrors) > 0 || len(r.ParseErrors) > 0 || len(r.SemanticErrors) > 0 || r.RuntimeError != nil
}

// Interpreter drives the full lex -> parse -> analyze -> evaluate
// pipeline for a module, and recursively for every module it imports.
// It implements semantic.ModuleLoader so the analyzer can resolve
// `import` statements without depending on this package.
type Interpreter struct {
	stdout  io.Writer
	baseDir string
	loading map[string]bool
}

// New creates an Interpreter that resolves imported `name.coiz` files
// relative to baseDir and writes print() output to stdout.
func New(stdout io.Writer, baseDir string) *Interpreter {
	return &Interpreter{stdout: stdout, baseDir: baseDir, loading: make(map[string]bool)}
}

// LoadModule implements semantic.ModuleLoader: it runs filename+".coiz"
// to completion and returns its finished top-level scope.
func (ip *Interpreter) LoadModule(filename string) (*runtime.Scope, error) {
	path := filepath.Join(ip.baseDir, filename+".coiz")
	if ip.loading[path] {
		return nil, fmt.Errorf("import cycle detected involving %q", filename)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot import %q: %w", filename, err)
	}

	ip.loading[path] = true
	defer delete(ip.loading, path)

	result := ip.Interpret(path, string(source))
	if result.HasErrors() {
		return nil, fmt.Errorf("module %q failed to run", filename)
	}
	return result.Scope, nil
}

// Interpret runs one module's full pipeline: scan, parse, analyze
// (resolving any imports through ip), then evaluate. Each stage only
// runs if the previous one produced no diagnostics, matching the
// reference driver's behavior of never evaluating a program it could
// not fully check first.
func (ip *Interpreter) Interpret(filename, source string) *Result {
	result := &Result{}

	lx := lexer.New(source, filename)
	tokens := lx.ScanTokens()
	if lx.HasErrors() {
		for _, e := range lx.Errors() {
			result.LexErrors = append(result.LexErrors, cerrors.New(e.Filename, e.Line, "%s", e.Message))
		}
		return result
	}

	ps := parser.New(tokens, filename)
	prog := ps.Parse()
	if ps.HasErrors() {
		result.ParseErrors = ps.Errors()
		return result
	}

	analyzer := semantic.New(filename, ip)
	analyzer.Analyze(prog)
	if analyzer.HasErrors() {
		result.SemanticErrors = analyzer.Errors()
		return result
	}

	scope := runtime.NewScope("global")
	for _, imported := range analyzer.Imports() {
		scope.ImportVars(imported)
	}

	evaluator := NewEvaluator(filename, ip.stdout)
	if err := evaluator.Run(prog, scope); err != nil {
		result.RuntimeError = err
		return result
	}

	result.Scope = scope
	return result
}
