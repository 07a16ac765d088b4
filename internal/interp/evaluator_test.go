package interp

import (
	"bytes"
	"strings"
	"testing"
)

func runSource(t *testing.T, source string) (string, *Result) {
	t.Helper()
	var out bytes.Buffer
	ip := New(&out, t.TempDir())
	result := ip.Interpret("test.coiz", source)
	return out.String(), result
}

func TestArithmeticPrintsIntegerWhenWhole(t *testing.T) {
	out, result := runSource(t, `
		var x = 4 / 2;
		print(x);
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("got %q, want %q", out, "2")
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	out, result := runSource(t, `
		var total = 0;
		var i = 0;
		while (i < 5) {
			total += i;
			i += 1;
		}
		print(total);
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "10" {
		t.Errorf("got %q, want %q", out, "10")
	}
}

func TestForLoopCountsUp(t *testing.T) {
	out, result := runSource(t, `
		for (var i = 0; i < 3; i += 1) {
			print(i);
		}
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "0\n1\n2" {
		t.Errorf("got %q", out)
	}
}

func TestFunctionCallReturnsValue(t *testing.T) {
	out, result := runSource(t, `
		func square(n) {
			return n * n;
		}
		print(square(6));
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "36" {
		t.Errorf("got %q, want %q", out, "36")
	}
}

// TestFunctionCallUsesDynamicScoping documents that a function body
// sees whatever variable happens to be in scope at its call site, not
// the scope active where it was declared — Coiz functions are
// dynamically, not lexically, scoped.
func TestFunctionCallUsesDynamicScoping(t *testing.T) {
	out, result := runSource(t, `
		var y = 1;
		func useY() {
			return y;
		}
		if (1 == 1) {
			var y = 99;
			print(useY());
		}
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "99" {
		t.Errorf("got %q, want %q (dynamic scoping should see the call-site y)", out, "99")
	}
}

func TestReturnExpressionSeesCalleeLocals(t *testing.T) {
	// The return expression is evaluated in the function's own call
	// scope, so it can reference a local declared earlier in the same
	// function body, even though that local does not exist in the
	// caller's scope at all.
	out, result := runSource(t, `
		func makeIt() {
			var shared = "callee-local";
			return shared;
		}
		print(makeIt());
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "callee-local" {
		t.Errorf("got %q, want %q", out, "callee-local")
	}
}

func TestArrayIndexAssignmentMutatesInPlace(t *testing.T) {
	out, result := runSource(t, `
		var xs = [1, 2, 3];
		xs[1] = 9;
		print(xs);
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "[1, 9, 3]" {
		t.Errorf("got %q", out)
	}
}

func TestLenOnStringAndArray(t *testing.T) {
	out, result := runSource(t, `
		print(len("hello"));
		print(len([1, 2, 3, 4]));
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "5\n4" {
		t.Errorf("got %q", out)
	}
}

func TestAssertFailurePrintsMessageButDoesNotAbort(t *testing.T) {
	out, result := runSource(t, `
		assert(1 == 2, "expected %s to equal %s", "1", "2");
		print("still running");
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[1] != "still running" {
		t.Errorf("got %q", out)
	}
}

func TestMultiArgPrintUsesPrintfStyleFormat(t *testing.T) {
	out, result := runSource(t, `
		print("%s is %d", "x", 5);
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "x is 5" {
		t.Errorf("got %q", out)
	}
}

func TestUndeclaredVariableIsRuntimeErrorWhenSemanticCheckMisses(t *testing.T) {
	// A var declaration's own initializer is never checked by the
	// analyzer, so this only fails once the evaluator actually runs it.
	_, result := runSource(t, `var x = neverDeclared;`)
	if result.HasErrors() != true || result.RuntimeError == nil {
		t.Fatalf("expected a runtime error, got %+v", result)
	}
}

func TestLexicalScopingForBlocksRestoresOuterBinding(t *testing.T) {
	out, result := runSource(t, `
		var x = 1;
		if (1 == 1) {
			var x = 2;
		}
		print(x);
	`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("got %q, want %q (block-scoped shadow should not leak out)", out, "1")
	}
}
