// This package contains the single-pass Pratt compiler for Lox
// expressions. Each token maps to a prefix and/or infix parsing rule
// with a precedence level; the compiler emits opcodes directly as it
// recognizes each piece of the grammar rather than building an AST.
package compiler

import (
	"fmt"

	"lox/token"
)

// precedence levels, lowest to highest. Only the levels this backend's
// minimal opcode set needs are represented: there is no assignment,
// logical, or call precedence here because this compiler handles a
// single expression (literals, arithmetic, grouping, comparison,
// equality, unary `-`/`!`), not a full program.
type precedence int

const (
	precNone precedence = iota
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precPrimary
)

type parseFunc func(*Compiler)

// parseRule defines the parsing behavior for a specific token type: an
// optional prefix rule (the token starts an expression), an optional
// infix rule (the token continues one), and the infix precedence.
type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence precedence
}

// Compiler compiles a stream of tokens directly to a Chunk of bytecode.
type Compiler struct {
	tokens   []token.Token
	position int
	chunk    *Chunk
	rules    map[token.TokenType]parseRule
	errors   []error
}

// New creates a Compiler over tokens, ready to compile a single
// expression into a Chunk.
func New(tokens []token.Token) *Compiler {
	c := &Compiler{tokens: tokens, chunk: NewChunk()}
	c.rules = map[token.TokenType]parseRule{
		token.NULL:         {prefix: (*Compiler).literalNil},
		token.TRUE:         {prefix: (*Compiler).literalTrue},
		token.FALSE:        {prefix: (*Compiler).literalFalse},
		token.NUMBER:       {prefix: (*Compiler).number},
		token.STRING:       {prefix: (*Compiler).stringLiteral},
		token.LPA:          {prefix: (*Compiler).grouping},
		token.BANG:         {prefix: (*Compiler).unary},
		token.SUB:          {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.ADD:          {infix: (*Compiler).binary, precedence: precTerm},
		token.MULT:         {infix: (*Compiler).binary, precedence: precFactor},
		token.DIV:          {infix: (*Compiler).binary, precedence: precFactor},
		token.EQUAL_EQUAL:  {infix: (*Compiler).binary, precedence: precEquality},
		token.NOT_EQUAL:    {infix: (*Compiler).binary, precedence: precEquality},
		token.LARGER:       {infix: (*Compiler).binary, precedence: precComparison},
		token.LARGER_EQUAL: {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS:         {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS_EQUAL:   {infix: (*Compiler).binary, precedence: precComparison},
	}
	return c
}

func (c *Compiler) peek() token.Token {
	return c.tokens[c.position]
}

func (c *Compiler) previous() token.Token {
	return c.tokens[c.position-1]
}

func (c *Compiler) isFinished() bool {
	return c.peek().TokenType == token.EOF
}

func (c *Compiler) advance() token.Token {
	if !c.isFinished() {
		c.position++
	}
	return c.previous()
}

func (c *Compiler) checkType(tokenType token.TokenType) bool {
	return c.peek().TokenType == tokenType
}

func (c *Compiler) consume(tokenType token.TokenType, message string) {
	if c.checkType(tokenType) {
		c.advance()
		return
	}
	c.error(c.peek(), message)
}

func (c *Compiler) getParseRule(tokenType token.TokenType) parseRule {
	return c.rules[tokenType]
}

func (c *Compiler) error(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.TokenType == token.EOF {
		where = " at end"
	}
	c.errors = append(c.errors, CreateSemanticError(tok.Line, where, message))
}

// Compile compiles the token stream as a single expression, terminating
// the chunk with OP_RETURN, and returns the chunk alongside any
// diagnostics collected along the way.
func (c *Compiler) Compile() (*Chunk, []error) {
	c.expression()
	line := 0
	if c.position > 0 {
		line = c.previous().Line
	}
	c.chunk.write(byte(OP_RETURN), line)
	return c.chunk, c.errors
}

// begins parsing from the lowest precedence level this grammar uses.
func (c *Compiler) expression() {
	c.parsePresedence(precEquality)
}

// parsePresedence is the Pratt climbing loop: run the prefix rule for
// the token just consumed, then keep consuming infix operators whose
// precedence is at least `presedence`.
func (c *Compiler) parsePresedence(presedence precedence) {
	if c.isFinished() {
		c.error(c.peek(), "Expect expression.")
		return
	}
	c.advance()

	rule := c.getParseRule(c.previous().TokenType)
	if rule.prefix == nil {
		c.error(c.previous(), "Expect expression.")
		return
	}
	rule.prefix(c)

	for !c.isFinished() && presedence <= c.getParseRule(c.peek().TokenType).precedence {
		c.advance()
		infix := c.getParseRule(c.previous().TokenType).infix
		infix(c)
	}
}

// Handles parenthesized expressions.
func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RPA, "Expect ')' after expression.")
}

// Parses and emits code for binary operators. The right-hand operand is
// parsed at one precedence level higher than the operator's own, which
// is what makes the grammar left-associative.
//
// `<=` and `>=` have no opcode of their own: `a <= b` compiles as
// `a > b` followed by OP_NOT, and `a >= b` as `a < b` followed by
// OP_NOT. `!=` likewise compiles as OP_EQUAL followed by OP_NOT.
func (c *Compiler) binary() {
	operator := c.previous()
	rule := c.getParseRule(operator.TokenType)
	c.parsePresedence(rule.precedence + 1)

	switch operator.TokenType {
	case token.ADD:
		c.emitLine(OP_ADD, operator.Line)
	case token.SUB:
		c.emitLine(OP_SUBTRACT, operator.Line)
	case token.MULT:
		c.emitLine(OP_MULTIPLY, operator.Line)
	case token.DIV:
		c.emitLine(OP_DIVIDE, operator.Line)
	case token.EQUAL_EQUAL:
		c.emitLine(OP_EQUAL, operator.Line)
	case token.NOT_EQUAL:
		c.emitLine(OP_EQUAL, operator.Line)
		c.emitLine(OP_NOT, operator.Line)
	case token.LARGER:
		c.emitLine(OP_GREATER, operator.Line)
	case token.LARGER_EQUAL:
		c.emitLine(OP_LESS, operator.Line)
		c.emitLine(OP_NOT, operator.Line)
	case token.LESS:
		c.emitLine(OP_LESS, operator.Line)
	case token.LESS_EQUAL:
		c.emitLine(OP_GREATER, operator.Line)
		c.emitLine(OP_NOT, operator.Line)
	}
}

// Parses and emits code for unary operators (!, -).
func (c *Compiler) unary() {
	operator := c.previous()
	c.parsePresedence(precUnary)

	switch operator.TokenType {
	case token.SUB:
		c.emitLine(OP_NEGATE, operator.Line)
	case token.BANG:
		c.emitLine(OP_NOT, operator.Line)
	}
}

func (c *Compiler) number() {
	c.emitConstant(c.previous().Literal.(float64))
}

func (c *Compiler) stringLiteral() {
	c.emitConstant(c.previous().Literal.(string))
}

func (c *Compiler) literalNil() {
	c.emitLine(OP_NIL, c.previous().Line)
}

func (c *Compiler) literalTrue() {
	c.emitLine(OP_TRUE, c.previous().Line)
}

func (c *Compiler) literalFalse() {
	c.emitLine(OP_FALSE, c.previous().Line)
}

func (c *Compiler) emitLine(op Opcode, line int) {
	c.chunk.write(byte(op), line)
}

// Appends a value to the compiler's constant pool and emits an
// OP_CONSTANT instruction referencing its index.
func (c *Compiler) emitConstant(value any) {
	line := c.previous().Line
	idx, err := c.chunk.AddConstant(value)
	if err != nil {
		c.error(c.previous(), "Too many constants in one chunk.")
		return
	}
	c.emitLine(OP_CONSTANT, line)
	c.chunk.write(byte(idx), line)
}
