// Package parser builds a syntax tree from a Coiz token stream using
// recursive descent with a single token of lookahead.
package parser

import (
	"github.com/coizioc/coiz/internal/ast"
	cerrors "github.com/coizioc/coiz/internal/errors"
	"github.com/coizioc/coiz/internal/lexer"
)

// Parser consumes a flat token slice and produces a *ast.Program. It
// keeps a current and a peek token, advancing one at a time, the same
// shape as the reference grammar's single-token-lookahead parser.
type Parser struct {
	filename string
	tokens   []lexer.Token
	pos      int // index of curToken within tokens

	curToken  lexer.Token
	peekToken lexer.Token

	errors cerrors.List
}

// New creates a Parser over tokens, a token stream that must already end
// with a single EOF token (as produced by lexer.ScanTokens).
func New(tokens []lexer.Token, filename string) *Parser {
	p := &Parser{filename: filename, tokens: tokens}
	if len(p.tokens) == 0 {
		p.tokens = []lexer.Token{lexer.NewToken(lexer.EOF, "", 1)}
	}
	p.curToken = p.tokens[0]
	p.peekToken = p.tokenAt(1)
	return p
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// Errors returns every diagnostic accumulated while parsing.
func (p *Parser) Errors() []*cerrors.CompilerError {
	return p.errors.Errors
}

// HasErrors reports whether any diagnostic was recorded.
func (p *Parser) HasErrors() bool {
	return p.errors.HasErrors()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors.Add(cerrors.New(p.filename, p.curToken.Line, format, args...))
}

func (p *Parser) advance() {
	if p.curToken.Type == lexer.EOF {
		// Stay parked on EOF; every caller checks for it before
		// requiring more tokens, matching the reference parser's
		// "Run out of tokens" guard at the end of the stream.
		return
	}
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) curIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// eat confirms curToken has type t, reports an error otherwise, then
// advances past it either way — mirroring the reference parser's eat,
// which never halts on mismatch so the rest of the file still gets a
// best-effort parse.
func (p *Parser) eat(t lexer.TokenType) lexer.Token {
	tok := p.curToken
	if !p.curIs(t) {
		p.errorf("Expected token %s", t)
	}
	p.advance()
	return tok
}

// Parse runs the parser over the whole token stream and returns the
// resulting Program. Parsing does not stop at the first error: like the
// scanner and analyzer, it keeps going and accumulates diagnostics.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{Statements: p.statementList(lexer.EOF)}
	if !p.curIs(lexer.EOF) {
		p.errorf("Finished parsing before EOF.")
	}
	return prog
}

// statementList parses statements until it sees `end` (one of the two
// tokens types that close a statement sequence: EOF for a program,
// RIGHT_BRACE for a block).
func (p *Parser) statementList(end lexer.TokenType) []ast.Statement {
	var stmts []ast.Statement
	for !p.curIs(end) && !p.curIs(lexer.EOF) {
		before := p.pos
		stmts = append(stmts, p.statement())
		if p.pos == before {
			// guard against an unadvancing production looping forever
			p.advance()
		}
	}
	return stmts
}

func (p *Parser) block() *ast.Block {
	tok := p.eat(lexer.LEFT_BRACE)
	stmts := p.statementList(lexer.RIGHT_BRACE)
	p.eat(lexer.RIGHT_BRACE)
	return &ast.Block{Token: tok, Statements: stmts}
}

func (p *Parser) statement() ast.Statement {
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		tok := p.curToken
		p.advance()
		return &ast.NoOp{Token: tok}
	case lexer.LEFT_BRACE:
		return p.block()
	case lexer.VAR:
		return p.initializationStatement()
	case lexer.PRINT:
		return p.printStatement()
	case lexer.ASSERT:
		return p.assertStatement()
	case lexer.RETURN:
		return p.returnStatement()
	case lexer.IMPORT:
		return p.importStatement()
	case lexer.IF:
		return p.ifStatement()
	case lexer.WHILE:
		return p.whileStatement()
	case lexer.FOR:
		return p.forStatement()
	case lexer.FUNC:
		return p.funcDecl()
	case lexer.IDENTIFIER:
		return p.assignmentOrCallStatement()
	default:
		p.errorf("Unexpected token in statement position: %s", p.curToken.Type)
		tok := p.curToken
		p.advance()
		return &ast.NoOp{Token: tok}
	}
}

func (p *Parser) initializationStatement() ast.Statement {
	p.eat(lexer.VAR)
	nameTok := p.eat(lexer.IDENTIFIER)
	eqTok := p.eat(lexer.EQUAL)
	value := p.expr()
	p.eat(lexer.SEMICOLON)
	return &ast.VarDecl{
		Token: eqTok,
		Name:  &ast.Variable{Token: nameTok, Name: nameTok.Lexeme},
		Value: value,
	}
}

func (p *Parser) assignmentOrCallStatement() ast.Statement {
	if p.peekIs(lexer.LEFT_PAREN) {
		call := p.funcCall()
		p.eat(lexer.SEMICOLON)
		return call
	}
	return p.assignmentStatement()
}

func (p *Parser) assignmentStatement() ast.Statement {
	nameTok := p.eat(lexer.IDENTIFIER)
	target := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme}

	var index ast.Expression
	if p.curIs(lexer.LEFT_BRACKET) {
		p.advance()
		index = p.expr()
		p.eat(lexer.RIGHT_BRACKET)
	}

	var op lexer.Token
	switch p.curToken.Type {
	case lexer.EQUAL, lexer.PLUS_EQUAL, lexer.MINUS_EQUAL, lexer.STAR_EQUAL, lexer.SLASH_EQUAL:
		op = p.curToken
		p.advance()
	default:
		p.errorf("Expected an assignment operator")
		op = p.curToken
	}

	value := p.expr()
	p.eat(lexer.SEMICOLON)

	return &ast.Assign{Token: op, Target: target, Operator: op.Type, Index: index, Value: value}
}

func (p *Parser) printStatement() ast.Statement {
	tok := p.eat(lexer.PRINT)
	p.eat(lexer.LEFT_PAREN)
	args := p.argsList()
	p.eat(lexer.RIGHT_PAREN)
	p.eat(lexer.SEMICOLON)
	return &ast.Print{Token: tok, Args: args}
}

func (p *Parser) assertStatement() ast.Statement {
	tok := p.eat(lexer.ASSERT)
	p.eat(lexer.LEFT_PAREN)
	condition := p.condition()
	var printArgs []ast.Expression
	if p.curIs(lexer.COMMA) {
		p.advance()
		printArgs = p.argsList()
	}
	p.eat(lexer.RIGHT_PAREN)
	p.eat(lexer.SEMICOLON)
	return &ast.Assert{
		Token:     tok,
		Condition: condition,
		Print:     &ast.Print{Token: tok, Args: printArgs},
	}
}

func (p *Parser) returnStatement() ast.Statement {
	tok := p.eat(lexer.RETURN)
	value := p.expr()
	p.eat(lexer.SEMICOLON)
	return &ast.Return{Token: tok, Value: value}
}

func (p *Parser) importStatement() ast.Statement {
	tok := p.eat(lexer.IMPORT)
	p.eat(lexer.LEFT_PAREN)
	filename := p.stringLiteral()
	p.eat(lexer.RIGHT_PAREN)
	p.eat(lexer.SEMICOLON)
	return &ast.Import{Token: tok, Filename: filename}
}

func (p *Parser) ifStatement() ast.Statement {
	tok := p.eat(lexer.IF)
	p.eat(lexer.LEFT_PAREN)
	condition := p.condition()
	p.eat(lexer.RIGHT_PAREN)
	then := p.block()

	node := &ast.If{Token: tok, Condition: condition, Then: then}
	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			node.Else = p.ifStatement()
		} else {
			node.Else = p.block()
		}
	}
	return node
}

func (p *Parser) whileStatement() ast.Statement {
	tok := p.eat(lexer.WHILE)
	p.eat(lexer.LEFT_PAREN)
	condition := p.condition()
	p.eat(lexer.RIGHT_PAREN)
	body := p.block()
	return &ast.While{Token: tok, Condition: condition, Body: body}
}

func (p *Parser) forStatement() ast.Statement {
	tok := p.eat(lexer.FOR)
	p.eat(lexer.LEFT_PAREN)
	init := p.initializationStatement().(*ast.VarDecl)
	condition := p.condition()
	p.eat(lexer.SEMICOLON)
	step := p.assignmentOrCallStatementNoSemi()
	p.eat(lexer.RIGHT_PAREN)
	body := p.block()
	return &ast.For{Token: tok, Init: init, Condition: condition, Step: step, Body: body}
}

// assignmentOrCallStatementNoSemi parses the step clause of a for loop,
// which looks like an assignment or a call but is not itself terminated
// by a semicolon (the enclosing for(...) parens close the clause list).
func (p *Parser) assignmentOrCallStatementNoSemi() ast.Statement {
	if p.peekIs(lexer.LEFT_PAREN) {
		return p.funcCall()
	}
	nameTok := p.eat(lexer.IDENTIFIER)
	target := &ast.Variable{Token: nameTok, Name: nameTok.Lexeme}

	var index ast.Expression
	if p.curIs(lexer.LEFT_BRACKET) {
		p.advance()
		index = p.expr()
		p.eat(lexer.RIGHT_BRACKET)
	}

	op := p.curToken
	switch op.Type {
	case lexer.EQUAL, lexer.PLUS_EQUAL, lexer.MINUS_EQUAL, lexer.STAR_EQUAL, lexer.SLASH_EQUAL:
		p.advance()
	default:
		p.errorf("Expected an assignment operator")
	}
	value := p.expr()
	return &ast.Assign{Token: op, Target: target, Operator: op.Type, Index: index, Value: value}
}

func (p *Parser) funcDecl() ast.Statement {
	tok := p.eat(lexer.FUNC)
	nameTok := p.eat(lexer.IDENTIFIER)
	p.eat(lexer.LEFT_PAREN)
	params := p.paramsList()
	p.eat(lexer.RIGHT_PAREN)
	body := p.block()
	return &ast.FuncDecl{Token: tok, Name: nameTok.Lexeme, Params: params, Body: body}
}

func (p *Parser) paramsList() []string {
	var params []string
	if p.curIs(lexer.RIGHT_PAREN) {
		return params
	}
	params = append(params, p.eat(lexer.IDENTIFIER).Lexeme)
	for p.curIs(lexer.COMMA) {
		p.advance()
		params = append(params, p.eat(lexer.IDENTIFIER).Lexeme)
	}
	return params
}

func (p *Parser) argsList() []ast.Expression {
	var args []ast.Expression
	if p.curIs(lexer.RIGHT_PAREN) {
		return args
	}
	args = append(args, p.expr())
	for p.curIs(lexer.COMMA) {
		p.advance()
		args = append(args, p.expr())
	}
	return args
}

func (p *Parser) funcCall() *ast.Call {
	nameTok := p.eat(lexer.IDENTIFIER)
	p.eat(lexer.LEFT_PAREN)
	args := p.argsList()
	p.eat(lexer.RIGHT_PAREN)
	return &ast.Call{Token: nameTok, Callee: nameTok.Lexeme, Args: args}
}

// condition is the entry point for any parenthesized boolean context
// (if/while conditions): logical-or over logical-and over a single,
// non-associative comparison.
func (p *Parser) condition() ast.Expression {
	return p.logicOr()
}

func (p *Parser) logicOr() ast.Expression {
	left := p.logicAnd()
	for p.curIs(lexer.OR) {
		op := p.curToken
		p.advance()
		right := p.logicAnd()
		left = &ast.Logical{Token: op, Left: left, Operator: op.Type, Right: right}
	}
	return left
}

func (p *Parser) logicAnd() ast.Expression {
	left := p.logicEq()
	for p.curIs(lexer.AND) {
		op := p.curToken
		p.advance()
		right := p.logicEq()
		left = &ast.Logical{Token: op, Left: left, Operator: op.Type, Right: right}
	}
	return left
}

// logicEq applies at most one comparison operator: `a < b < c` is not a
// chained comparison in Coiz, matching the reference grammar exactly.
func (p *Parser) logicEq() ast.Expression {
	left := p.expr()
	switch p.curToken.Type {
	case lexer.EQUAL_EQUAL, lexer.BANG_EQUAL, lexer.LESS, lexer.LESS_EQUAL, lexer.GREATER, lexer.GREATER_EQUAL:
		op := p.curToken
		p.advance()
		right := p.expr()
		return &ast.Logical{Token: op, Left: left, Operator: op.Type, Right: right}
	default:
		return left
	}
}

func (p *Parser) expr() ast.Expression {
	left := p.term()
	for p.curIs(lexer.PLUS) || p.curIs(lexer.MINUS) {
		op := p.curToken
		p.advance()
		right := p.term()
		left = &ast.BinaryOp{Token: op, Left: left, Operator: op.Type, Right: right}
	}
	return left
}

func (p *Parser) term() ast.Expression {
	left := p.factor()
	for p.curIs(lexer.STAR) || p.curIs(lexer.SLASH) || p.curIs(lexer.PERCENT) {
		op := p.curToken
		p.advance()
		right := p.factor()
		left = &ast.BinaryOp{Token: op, Left: left, Operator: op.Type, Right: right}
	}
	return left
}

func (p *Parser) factor() ast.Expression {
	if p.curIs(lexer.PLUS) || p.curIs(lexer.MINUS) {
		op := p.curToken
		p.advance()
		operand := p.factor()
		return &ast.UnaryOp{Token: op, Operator: op.Type, Operand: operand}
	}
	return p.primary()
}

func (p *Parser) primary() ast.Expression {
	switch p.curToken.Type {
	case lexer.NUMBER:
		return p.numberLiteral()
	case lexer.STRING:
		return p.stringLiteral()
	case lexer.CODE:
		return p.codeLiteral()
	case lexer.LEFT_BRACKET:
		return p.arrayLiteral()
	case lexer.LEFT_PAREN:
		p.advance()
		inner := p.condition()
		p.eat(lexer.RIGHT_PAREN)
		return inner
	case lexer.LEN:
		return p.lenExpr()
	case lexer.IDENTIFIER:
		if p.peekIs(lexer.LEFT_PAREN) {
			return p.funcCall()
		}
		return p.variable()
	default:
		p.errorf("Run out of tokens for expr.")
		tok := p.curToken
		p.advance()
		return &ast.NoOpExpr{Token: tok}
	}
}

func (p *Parser) numberLiteral() ast.Expression {
	tok := p.eat(lexer.NUMBER)
	value, _ := tok.Literal.(float64)
	isInt := value == float64(int64(value)) && !containsDot(tok.Lexeme)
	return &ast.Number{Token: tok, Value: value, IsInt: isInt}
}

func containsDot(lexeme string) bool {
	for _, r := range lexeme {
		if r == '.' {
			return true
		}
	}
	return false
}

func (p *Parser) stringLiteral() *ast.String {
	tok := p.eat(lexer.STRING)
	value, _ := tok.Literal.(string)
	return &ast.String{Token: tok, Value: value}
}

func (p *Parser) codeLiteral() ast.Expression {
	tok := p.eat(lexer.CODE)
	value, _ := tok.Literal.(string)
	return &ast.EmbeddedCode{Token: tok, Value: value}
}

func (p *Parser) arrayLiteral() ast.Expression {
	tok := p.eat(lexer.LEFT_BRACKET)
	var elems []ast.Expression
	if !p.curIs(lexer.RIGHT_BRACKET) {
		elems = append(elems, p.expr())
		for p.curIs(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.expr())
		}
	}
	p.eat(lexer.RIGHT_BRACKET)
	return &ast.Array{Token: tok, Elements: elems}
}

func (p *Parser) lenExpr() ast.Expression {
	tok := p.eat(lexer.LEN)
	p.eat(lexer.LEFT_PAREN)
	arg := p.expr()
	p.eat(lexer.RIGHT_PAREN)
	return &ast.Len{Token: tok, Argument: arg}
}

func (p *Parser) variable() ast.Expression {
	tok := p.eat(lexer.IDENTIFIER)
	v := &ast.Variable{Token: tok, Name: tok.Lexeme}
	if p.curIs(lexer.LEFT_BRACKET) {
		p.advance()
		v.Index = p.expr()
		p.eat(lexer.RIGHT_BRACKET)
	}
	return v
}
