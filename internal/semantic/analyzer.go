package semantic

import (
	"github.com/coizioc/coiz/internal/ast"
	cerrors "github.com/coizioc/coiz/internal/errors"
	"github.com/coizioc/coiz/internal/runtime"
)

// ModuleLoader runs an imported module to completion and hands back its
// finished top-level scope, so the analyzer can learn what names it
// exports without depending on the evaluator package directly. The
// interpreter package supplies the concrete implementation; semantic
// never imports interp, avoiding an import cycle.
type ModuleLoader interface {
	LoadModule(filename string) (*runtime.Scope, error)
}

// Analyzer walks a parsed Program once, checking that every variable and
// function reference resolves, that every call supplies the right
// number of arguments, that no scope declares the same name twice, and
// that an indexed variable or assignment target is array-tagged. It is
// intentionally NOT a complete recursive
// checker: a few spots in the reference analyzer never look inside an
// expression, which means certain errors only surface at evaluation
// time. This Analyzer preserves each of those gaps rather than
// "fixing" them, since the evaluator's own checks still catch the
// underlying mistake, just later:
//
//   - a function body is never checked until the function is called
//   - a var declaration's initializer expression is never checked
//   - a function call's argument expressions are never checked
//
// Only the call's callee-exists and arity checks run at analysis time.
type Analyzer struct {
	filename string
	root     *SymbolTable
	current  *SymbolTable
	loader   ModuleLoader
	errors   cerrors.List
	imports  []*runtime.Scope
}

// New creates an Analyzer for a module named filename, using loader to
// run any `import` statements it encounters.
func New(filename string, loader ModuleLoader) *Analyzer {
	return NewWithTable(filename, loader, NewSymbolTable("global"))
}

// NewWithTable creates an Analyzer that checks names against an
// existing root table instead of a fresh one. The REPL uses this to let
// each line see every name declared by a previous line.
func NewWithTable(filename string, loader ModuleLoader, root *SymbolTable) *Analyzer {
	return &Analyzer{filename: filename, root: root, current: root, loader: loader}
}

// Errors returns every diagnostic accumulated during Analyze.
func (a *Analyzer) Errors() []*cerrors.CompilerError {
	return a.errors.Errors
}

// HasErrors reports whether any diagnostic was recorded.
func (a *Analyzer) HasErrors() bool {
	return a.errors.HasErrors()
}

// Imports returns the completed scopes of every module pulled in via
// `import`, in the order they were imported, for the interpreter to
// merge into its own top-level scope before evaluation.
func (a *Analyzer) Imports() []*runtime.Scope {
	return a.imports
}

func (a *Analyzer) errorf(line int, format string, args ...any) {
	a.errors.Add(cerrors.New(a.filename, line, format, args...))
}

// Analyze runs the single semantic pass over prog.
func (a *Analyzer) Analyze(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		a.visitStatement(stmt)
	}
}

func (a *Analyzer) visitStatement(stmt ast.Statement) {
	switch node := stmt.(type) {
	case *ast.VarDecl:
		a.visitVarDecl(node)
	case *ast.Assign:
		a.visitAssign(node)
	case *ast.Block:
		a.visitBlock(node, "block")
	case *ast.If:
		a.visitIf(node)
	case *ast.While:
		a.visitWhile(node)
	case *ast.For:
		a.visitFor(node)
	case *ast.FuncDecl:
		a.visitFuncDecl(node)
	case *ast.Return:
		// A return outside any function body never reaches this
		// Analyzer's per-function pass, because function bodies are
		// never visited from here (see visitFuncDecl). Reaching this
		// case means the return is at top level, which the reference
		// implementation lets crash at run time; here it is reported
		// as a semantic error instead.
		a.errorf(node.Line(), "return statement outside of function")
	case *ast.Print:
		a.visitPrint(node)
	case *ast.Assert:
		a.visitAssert(node)
	case *ast.Import:
		a.visitImport(node)
	case *ast.Call:
		// Call arguments are not checked here; see the Analyzer doc
		// comment. Only the callee and arity are.
		a.visitCallSite(node)
	case *ast.NoOp:
		// nothing to check
	}
}

func (a *Analyzer) visitVarDecl(node *ast.VarDecl) {
	// node.Value is deliberately not visited: the initializer
	// expression is never semantically checked, only the binding
	// itself is registered.
	if _, ok := a.current.LookupLocal(node.Name.Name); ok {
		a.errorf(node.Line(), "duplicate identifier '%s'", node.Name.Name)
		return
	}
	a.current.Define(&VarSymbol{Name: node.Name.Name, Type: varType(node.Value)})
}

// varType tags a variable's symbol with "array" or "string" when its
// initializer is literally an array or string literal, so a later
// indexed use of the name can be checked ahead of evaluation. Anything
// else is left untagged, matching the reference analyzer exactly.
func varType(value ast.Expression) string {
	switch value.(type) {
	case *ast.Array:
		return "array"
	case *ast.String:
		return "string"
	default:
		return ""
	}
}

func (a *Analyzer) visitAssign(node *ast.Assign) {
	sym, ok := a.current.Lookup(node.Target.Name)
	if !ok {
		a.errorf(node.Line(), "undeclared variable '%s'", node.Target.Name)
	}
	if node.Index != nil {
		if ok {
			if v, ok := sym.(*VarSymbol); !ok || v.Type != "array" {
				a.errorf(node.Line(), "variable '%s' is not indexed", node.Target.Name)
			}
		}
		a.visitExpression(node.Index)
	}
	a.visitExpression(node.Value)
}

func (a *Analyzer) visitBlock(node *ast.Block, name string) {
	enclosed := NewEnclosedSymbolTable(name, a.current)
	prev := a.current
	a.current = enclosed
	for _, stmt := range node.Statements {
		a.visitStatement(stmt)
	}
	a.current = prev
}

func (a *Analyzer) visitIf(node *ast.If) {
	a.visitExpression(node.Condition)
	a.visitBlock(node.Then, "if")
	switch els := node.Else.(type) {
	case *ast.If:
		a.visitIf(els)
	case *ast.Block:
		a.visitBlock(els, "else")
	}
}

func (a *Analyzer) visitWhile(node *ast.While) {
	a.visitExpression(node.Condition)
	a.visitBlock(node.Body, "while")
}

func (a *Analyzer) visitFor(node *ast.For) {
	enclosed := NewEnclosedSymbolTable("for", a.current)
	prev := a.current
	a.current = enclosed
	if node.Init != nil {
		a.visitVarDecl(node.Init)
	}
	a.visitExpression(node.Condition)
	a.visitStatement(node.Step)
	for _, stmt := range node.Body.Statements {
		a.visitStatement(stmt)
	}
	a.current = prev
}

func (a *Analyzer) visitFuncDecl(node *ast.FuncDecl) {
	// node.Body is deliberately not visited: a function's contents are
	// only ever checked once that function is actually called and
	// evaluated, never at declaration time. This mirrors the reference
	// analyzer exactly, and means a function that is declared but
	// never called can contain undeclared-name errors the analyzer
	// will never catch.
	a.root.Define(&FuncSymbol{Name: node.Name, Params: node.Params, Decl: node})
}

func (a *Analyzer) visitCallSite(node *ast.Call) {
	sym, ok := a.root.Lookup(node.Callee)
	if !ok {
		a.errorf(node.Line(), "undeclared function '%s'", node.Callee)
		return
	}
	fn, ok := sym.(*FuncSymbol)
	if !ok {
		a.errorf(node.Line(), "'%s' is not a function", node.Callee)
		return
	}
	if len(fn.Params) != len(node.Args) {
		a.errorf(node.Line(), "function '%s' expects %d argument(s), got %d", node.Callee, len(fn.Params), len(node.Args))
	}
	// node.Args themselves are deliberately not visited.
}

func (a *Analyzer) visitPrint(node *ast.Print) {
	for _, arg := range node.Args {
		a.visitExpression(arg)
	}
}

func (a *Analyzer) visitAssert(node *ast.Assert) {
	a.visitExpression(node.Condition)
	a.visitPrint(node.Print)
}

func (a *Analyzer) visitImport(node *ast.Import) {
	if a.loader == nil {
		a.errorf(node.Line(), "imports are not supported in this context")
		return
	}
	scope, err := a.loader.LoadModule(node.Filename.Value)
	if err != nil {
		a.errorf(node.Line(), "%s", err)
		return
	}
	a.imports = append(a.imports, scope)
	for name, value := range scope.Exported() {
		if fn, ok := value.(*runtime.Function); ok {
			a.root.Define(&FuncSymbol{Name: name, Params: fn.Decl.Params, Decl: fn.Decl})
		} else {
			a.current.Define(&VarSymbol{Name: name})
		}
	}
}

func (a *Analyzer) visitExpression(expr ast.Expression) {
	switch node := expr.(type) {
	case *ast.Number, *ast.String, *ast.EmbeddedCode:
		// literals
	case *ast.Array:
		for _, e := range node.Elements {
			a.visitExpression(e)
		}
	case *ast.Variable:
		sym, ok := a.current.Lookup(node.Name)
		if !ok {
			a.errorf(node.Line(), "undeclared variable '%s'", node.Name)
		}
		if node.Index != nil {
			if ok {
				if v, ok := sym.(*VarSymbol); !ok || v.Type != "array" {
					a.errorf(node.Line(), "variable '%s' is not indexed", node.Name)
				}
			}
			a.visitExpression(node.Index)
		}
	case *ast.UnaryOp:
		a.visitExpression(node.Operand)
	case *ast.BinaryOp:
		a.visitExpression(node.Left)
		a.visitExpression(node.Right)
	case *ast.Logical:
		a.visitExpression(node.Left)
		a.visitExpression(node.Right)
	case *ast.Len:
		a.visitExpression(node.Argument)
	case *ast.Call:
		a.visitCallSite(node)
	}
}
