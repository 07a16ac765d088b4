package runtime

import "testing"

func TestScopeLookupWalksOuter(t *testing.T) {
	root := NewScope("global")
	root.Insert("x", Integer(1))
	child := NewEnclosedScope("block", root)

	v, ok := child.Lookup("x")
	if !ok || v != Integer(1) {
		t.Fatalf("expected to find x=1 via outer scope, got %v, %v", v, ok)
	}
}

func TestScopeInsertShadowsOuter(t *testing.T) {
	root := NewScope("global")
	root.Insert("x", Integer(1))
	child := NewEnclosedScope("block", root)
	child.Insert("x", Integer(2))

	if v, _ := child.Lookup("x"); v != Integer(2) {
		t.Errorf("expected shadowed x=2, got %v", v)
	}
	if v, _ := root.Lookup("x"); v != Integer(1) {
		t.Errorf("outer x should be unaffected, got %v", v)
	}
}

func TestScopeUpdateWritesToOwningScope(t *testing.T) {
	root := NewScope("global")
	root.Insert("x", Integer(1))
	child := NewEnclosedScope("block", root)

	if err := child.Update("x", Integer(9)); err != nil {
		t.Fatal(err)
	}
	if v, _ := root.Lookup("x"); v != Integer(9) {
		t.Errorf("expected outer x updated to 9, got %v", v)
	}
	if _, ok := child.LookupLocal("x"); ok {
		t.Error("update should not create a local binding")
	}
}

func TestScopeUpdateUndeclaredIsError(t *testing.T) {
	root := NewScope("global")
	if err := root.Update("missing", Integer(1)); err == nil {
		t.Fatal("expected an error updating an undeclared variable")
	}
}

func TestScopeImportVarsBlindMerge(t *testing.T) {
	dest := NewScope("global")
	dest.Insert("a", Integer(1))

	src := NewScope("module")
	src.Insert("a", Integer(2))
	src.Insert("b", Integer(3))

	dest.ImportVars(src)

	if v, _ := dest.Lookup("a"); v != Integer(2) {
		t.Errorf("import should overwrite a, got %v", v)
	}
	if v, _ := dest.Lookup("b"); v != Integer(3) {
		t.Errorf("import should add b, got %v", v)
	}
}

func TestEnclosedScopeLevel(t *testing.T) {
	root := NewScope("global")
	child := NewEnclosedScope("block", root)
	grandchild := NewEnclosedScope("nested", child)

	if root.Level != 0 || child.Level != 1 || grandchild.Level != 2 {
		t.Errorf("unexpected levels: %d %d %d", root.Level, child.Level, grandchild.Level)
	}
}
