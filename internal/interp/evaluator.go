package interp

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/coizioc/coiz/internal/ast"
	"github.com/coizioc/coiz/internal/lexer"
	"github.com/coizioc/coiz/internal/runtime"
)

// Evaluator walks a syntax tree, mutating a chain of runtime.Scope
// values as it goes. Interpret creates one Evaluator per module, so each
// imported module runs under an Evaluator of its own.
type Evaluator struct {
	filename string
	stdout   io.Writer
	host     *hostEvaluator
}

// NewEvaluator creates an Evaluator that writes print() output to
// stdout and runs embedded-code literals through the host evaluator.
func NewEvaluator(filename string, stdout io.Writer) *Evaluator {
	return &Evaluator{filename: filename, stdout: stdout, host: newHostEvaluator(stdout)}
}

// Run executes every top-level statement of prog against scope in
// order. A bare top-level `return` is a programmer error the semantic
// analyzer already rejects, so any signal reaching here is a bug in
// the evaluator itself.
func (e *Evaluator) Run(prog *ast.Program, scope *runtime.Scope) error {
	for _, stmt := range prog.Statements {
		sig, err := e.execStatement(stmt, scope)
		if err != nil {
			return err
		}
		if sig != nil {
			return fmt.Errorf("return outside of function")
		}
	}
	return nil
}

func (e *Evaluator) runtimeError(node ast.Node, format string, args ...any) error {
	return fmt.Errorf("[%s, line %d] Error: %s", e.filename, node.Line(), fmt.Sprintf(format, args...))
}

// execStatement executes one statement, returning a non-nil signal if a
// return bubbled up through it.
func (e *Evaluator) execStatement(stmt ast.Statement, scope *runtime.Scope) (*signal, error) {
	switch node := stmt.(type) {
	case *ast.NoOp:
		return nil, nil
	case *ast.VarDecl:
		return nil, e.execVarDecl(node, scope)
	case *ast.Assign:
		return nil, e.execAssign(node, scope)
	case *ast.Block:
		return e.execBlock(node, runtime.NewEnclosedScope("block", scope))
	case *ast.If:
		return e.execIf(node, scope)
	case *ast.While:
		return e.execWhile(node, scope)
	case *ast.For:
		return e.execFor(node, scope)
	case *ast.FuncDecl:
		scope.Insert(node.Name, &runtime.Function{Decl: node})
		return nil, nil
	case *ast.Return:
		return &signal{expr: node.Value}, nil
	case *ast.Print:
		return nil, e.execPrint(node, scope)
	case *ast.Assert:
		return nil, e.execAssert(node, scope)
	case *ast.Import:
		// Imports are resolved ahead of evaluation, by the semantic
		// analyzer's ModuleLoader; by the time the evaluator walks the
		// tree, the imported scope has already been merged in. The
		// statement itself is a no-op here.
		return nil, nil
	case *ast.Call:
		_, err := e.evalCall(node, scope)
		return nil, err
	default:
		return nil, e.runtimeError(stmt, "cannot execute statement of type %T", stmt)
	}
}

func (e *Evaluator) execBlock(block *ast.Block, scope *runtime.Scope) (*signal, error) {
	for _, stmt := range block.Statements {
		sig, err := e.execStatement(stmt, scope)
		if err != nil || sig != nil {
			return sig, err
		}
	}
	return nil, nil
}

func (e *Evaluator) execVarDecl(node *ast.VarDecl, scope *runtime.Scope) error {
	value, err := e.eval(node.Value, scope)
	if err != nil {
		return err
	}
	scope.Insert(node.Name.Name, value)
	return nil
}

func (e *Evaluator) execAssign(node *ast.Assign, scope *runtime.Scope) error {
	value, err := e.eval(node.Value, scope)
	if err != nil {
		return err
	}

	if node.Operator != lexer.EQUAL {
		current, ok := scope.Lookup(node.Target.Name)
		if !ok {
			return e.runtimeError(node, "undefined variable %q", node.Target.Name)
		}
		if node.Index != nil {
			idx, err := e.eval(node.Index, scope)
			if err != nil {
				return err
			}
			arr, ok := current.(*runtime.Array)
			if !ok {
				return e.runtimeError(node, "cannot index a %s value", current.Type())
			}
			i, err := indexOf(idx)
			if err != nil || i < 0 || i >= len(arr.Elements) {
				return e.runtimeError(node, "array index out of range")
			}
			combined, err := compoundOp(node.Operator, arr.Elements[i], value)
			if err != nil {
				return e.runtimeError(node, "%s", err)
			}
			arr.Elements[i] = combined
			return scope.Update(node.Target.Name, arr)
		}
		combined, err := compoundOp(node.Operator, current, value)
		if err != nil {
			return e.runtimeError(node, "%s", err)
		}
		value = combined
	} else if node.Index != nil {
		current, ok := scope.Lookup(node.Target.Name)
		if !ok {
			return e.runtimeError(node, "undefined variable %q", node.Target.Name)
		}
		idx, err := e.eval(node.Index, scope)
		if err != nil {
			return err
		}
		arr, ok := current.(*runtime.Array)
		if !ok {
			return e.runtimeError(node, "cannot index a %s value", current.Type())
		}
		i, err := indexOf(idx)
		if err != nil || i < 0 || i >= len(arr.Elements) {
			return e.runtimeError(node, "array index out of range")
		}
		arr.Elements[i] = value
		return scope.Update(node.Target.Name, arr)
	}

	if err := scope.Update(node.Target.Name, value); err != nil {
		return e.runtimeError(node, "%s", err)
	}
	return nil
}

func compoundOp(op lexer.TokenType, current, value runtime.Value) (runtime.Value, error) {
	switch op {
	case lexer.PLUS_EQUAL:
		return runtime.Add(current, value)
	case lexer.MINUS_EQUAL:
		return runtime.Sub(current, value)
	case lexer.STAR_EQUAL:
		return runtime.Mul(current, value)
	case lexer.SLASH_EQUAL:
		return runtime.Div(current, value)
	default:
		return nil, fmt.Errorf("unknown compound operator %s", op)
	}
}

func indexOf(v runtime.Value) (int, error) {
	switch val := v.(type) {
	case runtime.Integer:
		return int(val), nil
	case runtime.Float:
		return int(val), nil
	default:
		return 0, fmt.Errorf("index must be numeric, got %s", v.Type())
	}
}

func (e *Evaluator) execIf(node *ast.If, scope *runtime.Scope) (*signal, error) {
	cond, err := e.eval(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return e.execBlock(node.Then, runtime.NewEnclosedScope("if", scope))
	}
	switch els := node.Else.(type) {
	case *ast.If:
		return e.execIf(els, scope)
	case *ast.Block:
		return e.execBlock(els, runtime.NewEnclosedScope("else", scope))
	}
	return nil, nil
}

func (e *Evaluator) execWhile(node *ast.While, scope *runtime.Scope) (*signal, error) {
	for {
		cond, err := e.eval(node.Condition, scope)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return nil, nil
		}
		sig, err := e.execBlock(node.Body, runtime.NewEnclosedScope("while", scope))
		if err != nil || sig != nil {
			return sig, err
		}
	}
}

func (e *Evaluator) execFor(node *ast.For, scope *runtime.Scope) (*signal, error) {
	loopScope := runtime.NewEnclosedScope("for", scope)
	if err := e.execVarDecl(node.Init, loopScope); err != nil {
		return nil, err
	}
	for {
		cond, err := e.eval(node.Condition, loopScope)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return nil, nil
		}
		sig, err := e.execBlock(node.Body, runtime.NewEnclosedScope("for-body", loopScope))
		if err != nil || sig != nil {
			return sig, err
		}
		if _, err := e.execStatement(node.Step, loopScope); err != nil {
			return nil, err
		}
	}
}

func (e *Evaluator) execPrint(node *ast.Print, scope *runtime.Scope) error {
	values := make([]runtime.Value, len(node.Args))
	for i, arg := range node.Args {
		v, err := e.eval(arg, scope)
		if err != nil {
			return err
		}
		values[i] = v
	}
	fmt.Fprintln(e.stdout, formatPrint(values))
	return nil
}

func (e *Evaluator) execAssert(node *ast.Assert, scope *runtime.Scope) error {
	cond, err := e.eval(node.Condition, scope)
	if err != nil {
		return err
	}
	if runtime.Truthy(cond) {
		return nil
	}
	return e.execPrint(node.Print, scope)
}

// formatPrint renders print()'s arguments. A single argument is printed
// plainly; two or more treat the first as a printf-style format string
// applied to the rest, matching the reference's use of Python's %
// operator. Any float value that is numerically a whole number, scalar
// or inside an array, prints without a fractional part.
func formatPrint(values []runtime.Value) string {
	display := make([]string, len(values))
	for i, v := range values {
		display[i] = displayValue(v)
	}
	if len(display) <= 1 {
		if len(display) == 0 {
			return ""
		}
		return display[0]
	}
	return printfFormat(display[0], display[1:])
}

func displayValue(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.Float:
		f := float64(val)
		if f == math.Trunc(f) {
			return fmt.Sprintf("%d", int64(f))
		}
		return val.String()
	case *runtime.Array:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = displayValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.String()
	}
}

// printfFormat fills a Python '%'-style format string: each %s, %d, %f,
// or %g is replaced by the next argument's display text as is (no
// width, precision, or numeric conversion), %% yields a literal '%',
// and any other verb passes through literally.
func printfFormat(format string, args []string) string {
	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i == len(format)-1 {
			b.WriteByte(ch)
			continue
		}
		verb := format[i+1]
		switch verb {
		case 's', 'd', 'f', 'g':
			if argi < len(args) {
				b.WriteString(args[argi])
				argi++
			}
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (e *Evaluator) eval(expr ast.Expression, scope *runtime.Scope) (runtime.Value, error) {
	switch node := expr.(type) {
	case *ast.Number:
		if node.IsInt {
			return runtime.Integer(int64(node.Value)), nil
		}
		return runtime.Float(node.Value), nil
	case *ast.String:
		return runtime.String(node.Value), nil
	case *ast.EmbeddedCode:
		v, err := e.host.eval(node)
		if err != nil {
			return v, e.runtimeError(node, "%s", err)
		}
		return v, nil
	case *ast.Array:
		elems := make([]runtime.Value, len(node.Elements))
		for i, el := range node.Elements {
			v, err := e.eval(el, scope)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return runtime.NewArray(elems), nil
	case *ast.Variable:
		v, ok := scope.Lookup(node.Name)
		if !ok {
			return nil, e.runtimeError(node, "undefined variable %q", node.Name)
		}
		if node.Index != nil {
			idx, err := e.eval(node.Index, scope)
			if err != nil {
				return nil, err
			}
			arr, ok := v.(*runtime.Array)
			if !ok {
				return nil, e.runtimeError(node, "cannot index a %s value", v.Type())
			}
			i, err := indexOf(idx)
			if err != nil || i < 0 || i >= len(arr.Elements) {
				return nil, e.runtimeError(node, "array index out of range")
			}
			return arr.Elements[i], nil
		}
		return v, nil
	case *ast.UnaryOp:
		operand, err := e.eval(node.Operand, scope)
		if err != nil {
			return nil, err
		}
		if node.Operator == lexer.PLUS {
			return operand, nil
		}
		result, err := runtime.Negate(operand)
		if err != nil {
			return nil, e.runtimeError(node, "%s", err)
		}
		return result, nil
	case *ast.BinaryOp:
		return e.evalBinaryOp(node, scope)
	case *ast.Logical:
		return e.evalLogical(node, scope)
	case *ast.Len:
		return e.evalLen(node, scope)
	case *ast.Call:
		return e.evalCall(node, scope)
	case *ast.NoOpExpr:
		return nil, e.runtimeError(node, "cannot evaluate an incomplete expression")
	default:
		return nil, e.runtimeError(expr, "cannot evaluate expression of type %T", expr)
	}
}

func (e *Evaluator) evalBinaryOp(node *ast.BinaryOp, scope *runtime.Scope) (runtime.Value, error) {
	left, err := e.eval(node.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(node.Right, scope)
	if err != nil {
		return nil, err
	}

	var result runtime.Value
	switch node.Operator {
	case lexer.PLUS:
		if ls, ok := left.(runtime.String); ok {
			if rs, ok := right.(runtime.String); ok {
				return ls + rs, nil
			}
		}
		result, err = runtime.Add(left, right)
	case lexer.MINUS:
		result, err = runtime.Sub(left, right)
	case lexer.STAR:
		result, err = runtime.Mul(left, right)
	case lexer.SLASH:
		result, err = runtime.Div(left, right)
	case lexer.PERCENT:
		result, err = runtime.Mod(left, right)
	default:
		return nil, e.runtimeError(node, "unknown operator %s", node.Operator)
	}
	if err != nil {
		return nil, e.runtimeError(node, "%s", err)
	}
	return result, nil
}

// evalLogical implements and/or (short-circuiting, returning whichever
// operand decided the result rather than a coerced Bool) and the single
// comparison operators (==, !=, <, <=, >, >=), which do produce a Bool.
func (e *Evaluator) evalLogical(node *ast.Logical, scope *runtime.Scope) (runtime.Value, error) {
	switch node.Operator {
	case lexer.AND:
		left, err := e.eval(node.Left, scope)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(left) {
			return left, nil
		}
		return e.eval(node.Right, scope)
	case lexer.OR:
		left, err := e.eval(node.Left, scope)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(left) {
			return left, nil
		}
		return e.eval(node.Right, scope)
	default:
		left, err := e.eval(node.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(node.Right, scope)
		if err != nil {
			return nil, err
		}
		return e.evalComparison(node, left, right)
	}
}

func (e *Evaluator) evalComparison(node *ast.Logical, left, right runtime.Value) (runtime.Value, error) {
	switch node.Operator {
	case lexer.EQUAL_EQUAL:
		return runtime.Bool(runtime.Equal(left, right)), nil
	case lexer.BANG_EQUAL:
		return runtime.Bool(!runtime.Equal(left, right)), nil
	case lexer.LESS, lexer.LESS_EQUAL, lexer.GREATER, lexer.GREATER_EQUAL:
		cmp, err := runtime.Compare(left, right)
		if err != nil {
			return nil, e.runtimeError(node, "%s", err)
		}
		switch node.Operator {
		case lexer.LESS:
			return runtime.Bool(cmp < 0), nil
		case lexer.LESS_EQUAL:
			return runtime.Bool(cmp <= 0), nil
		case lexer.GREATER:
			return runtime.Bool(cmp > 0), nil
		default:
			return runtime.Bool(cmp >= 0), nil
		}
	default:
		return nil, e.runtimeError(node, "unknown comparison operator %s", node.Operator)
	}
}

func (e *Evaluator) evalLen(node *ast.Len, scope *runtime.Scope) (runtime.Value, error) {
	v, err := e.eval(node.Argument, scope)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case runtime.String:
		return runtime.Integer(len([]rune(string(val)))), nil
	case *runtime.Array:
		return runtime.Integer(len(val.Elements)), nil
	default:
		return nil, e.runtimeError(node, "len() does not apply to %s", v.Type())
	}
}

// evalCall evaluates arguments in the calling scope, then runs the
// function body in a fresh scope parented off the CALLING scope's
// current state rather than the scope active at the function's
// declaration site. This is dynamic, not lexical, scoping for function
// bodies: a function can see and mutate whatever variables happen to be
// in scope at its call site, even ones that did not exist when the
// function was declared.
func (e *Evaluator) evalCall(node *ast.Call, scope *runtime.Scope) (runtime.Value, error) {
	callee, ok := scope.Lookup(node.Callee)
	if !ok {
		return nil, e.runtimeError(node, "undefined function %q", node.Callee)
	}
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return nil, e.runtimeError(node, "%q is not a function", node.Callee)
	}
	if len(fn.Decl.Params) != len(node.Args) {
		return nil, e.runtimeError(node, "function %q expects %d argument(s), got %d", node.Callee, len(fn.Decl.Params), len(node.Args))
	}

	args := make([]runtime.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := e.eval(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callScope := runtime.NewEnclosedScope(node.Callee, scope)
	for i, param := range fn.Decl.Params {
		callScope.Insert(param, args[i])
	}

	// The body is itself a Block, which gets its own enclosed scope on
	// top of callScope, the same as any other Block — one push for the
	// call frame (parameters), one for the block (locals declared in the
	// body), keeping scope-chain depth equal to lexical nesting depth.
	bodyScope := runtime.NewEnclosedScope(node.Callee+":body", callScope)
	sig, err := e.execBlock(fn.Decl.Body, bodyScope)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return nil, nil
	}
	// The returned expression is evaluated in bodyScope, exactly like any
	// other statement in the function body, so it can still see locals
	// declared earlier in the same body as well as the call's own
	// parameters. bodyScope chains up through callScope to the calling
	// scope for anything not bound locally, which is what makes this
	// dynamic rather than lexical scoping. Once evalCall returns, both
	// scopes are simply discarded — the caller's own scope object was
	// never touched, so execution resumes there unaffected.
	return e.eval(sig.expr, bodyScope)
}
