package interp

import "github.com/coizioc/coiz/internal/ast"

// signal is how a `return` inside a block, if, while, or for statement
// bubbles up to the nearest enclosing function call without unwinding
// through a panic. Every statement executor either runs to completion
// (signal == nil) or immediately returns the first signal it sees from
// a nested statement, without evaluating anything after it.
//
// The return expression is carried unevaluated rather than evaluated at
// the return statement itself: it is evaluated once, by the Call that
// catches the signal, in the function's own body scope — see
// evaluator.go's evalCall.
type signal struct {
	expr ast.Expression
}
