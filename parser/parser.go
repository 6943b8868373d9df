// Package parser implements a single left-to-right recursive-descent
// parser for Lox: recursive descent for declarations/statements,
// precedence climbing (Pratt-style) for expressions.
// https://en.wikipedia.org/wiki/Recursive_descent_parser
package parser

import (
	"fmt"

	"lox/ast"
	"lox/token"
)

const maxArgs = 255

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorTokenTypes = []token.TokenType{
	token.MULT,
	token.DIV,
}

// statementBoundaryTokens are the keywords synchronize() resumes at after
// a parse error.
var statementBoundaryTokens = map[token.TokenType]bool{
	token.CLASS:  true,
	token.FUNC:   true,
	token.VAR:    true,
	token.FOR:    true,
	token.IF:     true,
	token.WHILE:  true,
	token.PRINT:  true,
	token.RETURN: true,
}

// Parser holds the token stream and the parser's current position within
// it. The parser's position always points one token ahead of the last
// consumed token.
type Parser struct {
	tokens   []token.Token
	position int
	errors   []error
}

// Make constructs a Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().TokenType == token.EOF
}

func (p *Parser) checkType(tokenType token.TokenType) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().TokenType == tokenType
}

func (p *Parser) isMatch(tokenTypes ...token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if p.checkType(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it matches tokenType,
// otherwise returns a SyntaxError positioned at the offending token.
func (p *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if p.checkType(tokenType) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), errorMessage)
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.TokenType == token.EOF {
		where = " at end"
	}
	return CreateSyntaxError(tok.Line, tok.Start, where, message)
}

// soft records a diagnostic that does not abort parsing of the current
// production (too many params/args, invalid assignment target).
func (p *Parser) soft(tok token.Token, message string) {
	p.errors = append(p.errors, p.errorAt(tok, message))
}

// synchronize discards tokens until either a ';' is consumed or the next
// token starts a statement, so the parser can keep looking for further
// errors after one is found. It always discards at least one token, so
// Parse skips it when the failed statement already stopped right before
// a statement keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isFinished() {
		if p.previous().TokenType == token.SEMICOLON {
			return
		}
		if statementBoundaryTokens[p.peek().TokenType] {
			return
		}
		p.advance()
	}
}

// Parse parses the entire token stream into a slice of statements,
// continuing past errors to collect as many diagnostics as possible.
func (p *Parser) Parse() ([]ast.Stmt, []error) {
	var statements []ast.Stmt

	for !p.isFinished() {
		start := p.position
		stmt, err := p.declaration()
		if err != nil {
			p.errors = append(p.errors, err)
			if p.position == start || !statementBoundaryTokens[p.peek().TokenType] {
				p.synchronize()
			}
			continue
		}
		statements = append(statements, stmt)
	}

	return statements, p.errors
}

// declaration parses a variable or function declaration, or falls through
// to a general statement.
func (p *Parser) declaration() (ast.Stmt, error) {
	if p.isMatch(token.VAR) {
		return p.varDeclaration()
	}
	if p.isMatch(token.FUNC) {
		return p.function("function")
	}
	return p.statement()
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if p.isMatch(token.ASSIGN) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}

	return ast.VarStmt{Name: name, Initializer: initializer}, nil
}

// function parses a function's parameter list and body. kind names the
// declaration being parsed ("function") for diagnostic messages.
func (p *Parser) function(kind string) (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.checkType(token.RPA) {
		for {
			if len(params) >= maxArgs {
				p.soft(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			param, err := p.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LCUR, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

// statement parses a single statement: print, block, if, while, for,
// return, or an expression statement.
func (p *Parser) statement() (ast.Stmt, error) {
	if p.isMatch(token.PRINT) {
		return p.printStatement()
	}
	if p.isMatch(token.LCUR) {
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	}
	if p.isMatch(token.IF) {
		return p.ifStatement()
	}
	if p.isMatch(token.WHILE) {
		return p.whileStatement()
	}
	if p.isMatch(token.FOR) {
		return p.forStatement()
	}
	if p.isMatch(token.RETURN) {
		return p.returnStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: expr}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expression
	if !p.checkType(token.SEMICOLON) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: cond, Body: body}, nil
}

// forStatement desugars "for (init; cond; incr) body" into:
// block { init; while (cond) { block { body; incr; } } }
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.isMatch(token.SEMICOLON):
		initializer = nil
	case p.isMatch(token.VAR):
		initializer, err = p.varDeclaration()
		if err != nil {
			return nil, err
		}
	default:
		initializer, err = p.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !p.checkType(token.SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.checkType(token.RPA) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPA, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = ast.BlockStmt{Statements: []ast.Stmt{body, ast.ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = ast.Literal{Value: true}
	}
	body = ast.WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = ast.BlockStmt{Statements: []ast.Stmt{initializer, body}}
	}

	return body, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenStmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.isMatch(token.ELSE) {
		elseStmt, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfStmt{Condition: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

// block parses the statements between an already-consumed '{' and its
// matching '}'.
func (p *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt

	for !p.checkType(token.RCUR) && !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := p.consume(token.RCUR, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point for parsing expressions, beginning at the
// assignment rule (the lowest precedence).
func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

// assignment parses a right-associative assignment expression. The LHS is
// first parsed as an ordinary rvalue; if it turns out to be a Variable and
// an '=' follows, it is rewritten into an Assign node. Any other LHS is a
// soft error (per spec.md §4.2) rather than a fatal one, so parsing can
// continue.
func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.isMatch(token.ASSIGN) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if variable, ok := expr.(ast.Variable); ok {
			return ast.Assign{Name: variable.Name, Value: value}, nil
		}
		p.soft(equals, "Invalid assignment target.")
		return value, nil
	}

	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.OR) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.isMatch(equalityTokenTypes...) {
		operator := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isMatch(comparisonTokenTypes...) {
		operator := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.isMatch(termTokenTypes...) {
		operator := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isMatch(factorTokenTypes...) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.isMatch(token.BANG, token.SUB) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

// call parses a primary expression followed by zero or more call
// suffixes: "primary ('(' args ')')*".
func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.isMatch(token.LPA) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}

	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !p.checkType(token.RPA) {
		for {
			if len(args) >= maxArgs {
				p.soft(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}

	closingParen, err := p.consume(token.RPA, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return ast.Call{Callee: callee, ClosingParen: closingParen, Args: args}, nil
}

// primary parses literals, variable references, and parenthesized
// expressions.
func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.isMatch(token.FALSE):
		return ast.Literal{Value: false}, nil
	case p.isMatch(token.TRUE):
		return ast.Literal{Value: true}, nil
	case p.isMatch(token.NULL):
		return ast.Literal{Value: nil}, nil
	case p.isMatch(token.NUMBER, token.STRING):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.isMatch(token.IDENTIFIER):
		return ast.Variable{Name: p.previous()}, nil
	case p.isMatch(token.LPA):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	}

	return nil, p.errorAt(p.peek(), "Expect expression.")
}
