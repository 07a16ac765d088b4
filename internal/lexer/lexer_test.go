package lexer

import "testing"

func scanAll(t *testing.T, source string) []Token {
	t.Helper()
	l := New(source, "test")
	toks := l.ScanTokens()
	if l.HasErrors() {
		t.Fatalf("unexpected lexical errors: %v", l.Errors())
	}
	return toks
}

func TestScanSimpleOperators(t *testing.T) {
	toks := scanAll(t, "( ) [ ] { } , . % ;")
	want := []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACKET, RIGHT_BRACKET,
		LEFT_BRACE, RIGHT_BRACE, COMMA, DOT, PERCENT, SEMICOLON,
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestScanCompoundOperators(t *testing.T) {
	toks := scanAll(t, "! != = == < <= > >= + += - -= * *= / /=")
	want := []TokenType{
		BANG, BANG_EQUAL, EQUAL, EQUAL_EQUAL, LESS, LESS_EQUAL,
		GREATER, GREATER_EQUAL, PLUS, PLUS_EQUAL, MINUS, MINUS_EQUAL,
		STAR, STAR_EQUAL, SLASH, SLASH_EQUAL, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestScanComments(t *testing.T) {
	toks := scanAll(t, "1 // a line comment\n2 /* a block\ncomment */ 3")
	want := []TokenType{NUMBER, NUMBER, NUMBER, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	if toks[2].Line != 3 {
		t.Errorf("expected third number on line 3 (after the embedded newline), got line %d", toks[2].Line)
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	if toks[0].Type != STRING || toks[0].Literal != "hello world" {
		t.Errorf("got %#v", toks[0])
	}
}

func TestScanCodeLiteral(t *testing.T) {
	toks := scanAll(t, "`fmt.Println(1)`")
	if toks[0].Type != CODE || toks[0].Literal != "fmt.Println(1)" {
		t.Errorf("got %#v", toks[0])
	}
}

func TestScanNumberLiterals(t *testing.T) {
	toks := scanAll(t, "1 2.5 100")
	if toks[0].Literal != 1.0 || toks[1].Literal != 2.5 || toks[2].Literal != 100.0 {
		t.Errorf("got %#v", toks[:3])
	}
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks := scanAll(t, "var x func return foo")
	want := []TokenType{VAR, IDENTIFIER, FUNC, RETURN, IDENTIFIER, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestScanReservedUnusedKeywords(t *testing.T) {
	toks := scanAll(t, "class else false nil super this true")
	want := []TokenType{CLASS, ELSE, FALSE, NIL, SUPER, THIS, TRUE, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"unterminated`, "test")
	l.ScanTokens()
	if !l.HasErrors() {
		t.Fatal("expected a lexical error")
	}
	if l.Errors()[0].Message != "Unterminated string." {
		t.Errorf("got %q", l.Errors()[0].Message)
	}
}

func TestUnterminatedCodeReportsError(t *testing.T) {
	l := New("`unterminated", "test")
	l.ScanTokens()
	if !l.HasErrors() || l.Errors()[0].Message != "Unterminated code." {
		t.Fatalf("got %v", l.Errors())
	}
}

func TestUnterminatedBlockCommentReportsError(t *testing.T) {
	l := New("/* never closed", "test")
	l.ScanTokens()
	if !l.HasErrors() || l.Errors()[0].Message != "Unterminated comment block." {
		t.Fatalf("got %v", l.Errors())
	}
}

func TestUnexpectedCharacterContinuesScanning(t *testing.T) {
	l := New("1 @ 2", "test")
	toks := l.ScanTokens()
	if !l.HasErrors() {
		t.Fatal("expected an error for '@'")
	}
	// scanning must continue past the bad character
	want := []TokenType{NUMBER, NUMBER, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	l := New("@", "prog.coiz")
	l.ScanTokens()
	got := l.Errors()[0].Error()
	want := "[prog.coiz, line 1] Error: Unexpected character."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
