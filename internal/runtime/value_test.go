package runtime

import "testing"

func TestAddIntegerStaysInteger(t *testing.T) {
	v, err := Add(Integer(2), Integer(3))
	if err != nil {
		t.Fatal(err)
	}
	if v != Integer(5) {
		t.Errorf("got %v, want 5", v)
	}
}

func TestAddMixedWidensToFloat(t *testing.T) {
	v, err := Add(Integer(2), Float(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if v != Float(2.5) {
		t.Errorf("got %v, want 2.5", v)
	}
}

func TestDivAlwaysFloat(t *testing.T) {
	v, err := Div(Integer(4), Integer(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(Float); !ok {
		t.Errorf("expected Float result, got %T", v)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(Integer(1), Integer(0)); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestModNegativeMatchesFloorSemantics(t *testing.T) {
	v, err := Mod(Integer(-7), Integer(3))
	if err != nil {
		t.Fatal(err)
	}
	if v != Integer(2) {
		t.Errorf("got %v, want 2 (floor mod)", v)
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Integer(0), false},
		{Integer(1), true},
		{String(""), false},
		{String("x"), true},
		{NewArray(nil), false},
		{NewArray([]Value{Integer(1)}), true},
		{Bool(false), false},
		{Bool(true), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualCrossNumericKind(t *testing.T) {
	if !Equal(Integer(2), Float(2.0)) {
		t.Error("expected Integer(2) to equal Float(2.0)")
	}
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(Integer(1), Float(2.0))
	if err != nil {
		t.Fatal(err)
	}
	if cmp >= 0 {
		t.Errorf("expected 1 < 2.0, got cmp=%d", cmp)
	}
}

func TestArrayStringRendersElements(t *testing.T) {
	arr := NewArray([]Value{Integer(1), String("two")})
	got := arr.String()
	want := `[1, two]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
