// Package runtime holds the tagged-union runtime value type and the
// lexical scope chain shared by the semantic analyzer and the evaluator.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coizioc/coiz/internal/ast"
)

// Value is any runtime value the evaluator can produce or bind: Integer,
// Float, String, Array, Bool, or a function-declaration reference.
type Value interface {
	Type() string
	String() string
}

// Integer is a whole-number runtime value.
type Integer int64

func (Integer) Type() string      { return "INTEGER" }
func (i Integer) String() string  { return strconv.FormatInt(int64(i), 10) }

// Float is a floating-point runtime value.
type Float float64

func (Float) Type() string { return "FLOAT" }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// String is a string runtime value.
type String string

func (String) Type() string     { return "STRING" }
func (s String) String() string { return string(s) }

// Bool is the explicit boolean value kind produced by comparison
// operators (==, !=, <, <=, >, >=). Logical and/or return whichever
// operand was selected, not a coerced Bool — see the evaluator.
type Bool bool

func (Bool) Type() string     { return "BOOL" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Array is an ordered, mutable sequence of runtime values. It has
// reference semantics: indexing into the same Array from two bindings
// observes the same backing storage, matching the reference Python
// implementation's list aliasing.
type Array struct {
	Elements []Value
}

func NewArray(elems []Value) *Array {
	return &Array{Elements: elems}
}

func (*Array) Type() string { return "ARRAY" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Function is a reference to a declared function. The evaluator binds it
// under the function's name exactly like any other variable, per the
// reference semantics ("FuncDecl: bind the node itself... in the current
// scope").
type Function struct {
	Decl *ast.FuncDecl
}

func (*Function) Type() string     { return "FUNC" }
func (f *Function) String() string { return fmt.Sprintf("<func %s>", f.Decl.Name) }

// Truthy reports whether v is truthy, following Python-style truthiness:
// a Bool is its own truth value; zero numbers, empty strings, empty
// arrays, and nil are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Integer:
		return val != 0
	case Float:
		return val != 0
	case String:
		return val != ""
	case *Array:
		return len(val.Elements) > 0
	case nil:
		return false
	default:
		return true
	}
}

func asFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Integer:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// Add implements the '+' operator over numeric operands.
func Add(left, right Value) (Value, error) {
	if li, lok := left.(Integer); lok {
		if ri, rok := right.(Integer); rok {
			return li + ri, nil
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		return Float(lf + rf), nil
	}
	return nil, fmt.Errorf("cannot add %s and %s", left.Type(), right.Type())
}

// Sub implements the '-' operator.
func Sub(left, right Value) (Value, error) {
	if li, lok := left.(Integer); lok {
		if ri, rok := right.(Integer); rok {
			return li - ri, nil
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		return Float(lf - rf), nil
	}
	return nil, fmt.Errorf("cannot subtract %s from %s", right.Type(), left.Type())
}

// Mul implements the '*' operator.
func Mul(left, right Value) (Value, error) {
	if li, lok := left.(Integer); lok {
		if ri, rok := right.(Integer); rok {
			return li * ri, nil
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		return Float(lf * rf), nil
	}
	return nil, fmt.Errorf("cannot multiply %s and %s", left.Type(), right.Type())
}

// Div implements the '/' operator. Division is always floating-point,
// matching the reference's use of Python 3's true division.
func Div(left, right Value) (Value, error) {
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("cannot divide %s by %s", left.Type(), right.Type())
	}
	if rf == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return Float(lf / rf), nil
}

// Mod implements the '%' operator (remainder).
func Mod(left, right Value) (Value, error) {
	if li, lok := left.(Integer); lok {
		if ri, rok := right.(Integer); rok {
			if ri == 0 {
				return nil, fmt.Errorf("modulo by zero")
			}
			m := li % ri
			if (m < 0) != (ri < 0) && m != 0 {
				m += ri
			}
			return m, nil
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("cannot compute %s mod %s", left.Type(), right.Type())
	}
	if rf == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	m := lf - rf*float64(int64(lf/rf))
	if (m < 0) != (rf < 0) && m != 0 {
		m += rf
	}
	return Float(m), nil
}

// Negate implements unary '-'.
func Negate(v Value) (Value, error) {
	switch val := v.(type) {
	case Integer:
		return -val, nil
	case Float:
		return -val, nil
	default:
		return nil, fmt.Errorf("cannot negate %s", v.Type())
	}
}

// Equal implements structural equality over scalars, used by == and !=.
func Equal(left, right Value) bool {
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return lf == rf
		}
	}
	if ls, lok := left.(String); lok {
		if rs, rok := right.(String); rok {
			return ls == rs
		}
	}
	if lb, lok := left.(Bool); lok {
		if rb, rok := right.(Bool); rok {
			return lb == rb
		}
	}
	return false
}

// Compare orders two numeric values for <, <=, >, >=, returning -1, 0, 1.
func Compare(left, right Value) (int, error) {
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return 0, fmt.Errorf("cannot order %s and %s", left.Type(), right.Type())
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	default:
		return 0, nil
	}
}
