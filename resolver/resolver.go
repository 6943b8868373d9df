// Package resolver performs a static pass over the AST, between parsing
// and tree-walking evaluation, that annotates every variable reference
// with the lexical depth at which it was defined. This lets the evaluator
// look a variable up by a fixed number of environment hops instead of
// walking the chain by name at every access.
package resolver

import (
	"lox/ast"
	"lox/parser"
	"lox/token"
)

// Key identifies a variable reference by the source position of its
// token, not by name — two references to the same name may resolve to
// different depths, so the name alone is not a safe map key.
type Key struct {
	Line  int
	Start int
}

func keyFor(tok token.Token) Key {
	return Key{Line: tok.Line, Start: tok.Start}
}

// Locals maps a resolved variable reference to the number of environment
// hops between the reference and the scope that defines it. A reference
// absent from this map is a global.
type Locals map[Key]int

type functionType int

const (
	functionTypeNone functionType = iota
	functionTypeFunction
)

// Resolver implements ast.ExpressionVisitor and ast.StmtVisitor, walking
// the tree once to build a Locals table before evaluation begins.
type Resolver struct {
	scopes          []map[string]bool
	locals          Locals
	errors          []error
	currentFunction functionType
}

// New constructs an empty Resolver.
func New() *Resolver {
	return &Resolver{locals: make(Locals)}
}

// Resolve walks statements and returns the resolved depth table together
// with any diagnostics encountered (e.g. reading a local variable in its
// own initializer, or a `return` outside a function).
func Resolve(statements []ast.Stmt) (Locals, []error) {
	r := New()
	r.resolveStatements(statements)
	return r.locals, r.errors
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}
	stmt.Accept(r)
}

func (r *Resolver) resolveExpr(expr ast.Expression) {
	if expr == nil {
		return
	}
	expr.Accept(r)
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks name as present in the innermost scope but not yet ready
// to be referenced, catching self-referential initializers like
// `var a = a;`.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = false
}

// define marks name as fully initialized in the innermost scope.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost to outermost looking
// for name. If found at scope index i (from the outside), the reference
// is annotated with depth = (top - i). A name not found in any scope is
// left unannotated and treated as a global at evaluation time.
func (r *Resolver) resolveLocal(reference token.Token, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[keyFor(reference)] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunction(stmt ast.FunctionStmt, fnType functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = fnType

	r.beginScope()
	for _, param := range stmt.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(stmt.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) error(tok token.Token, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.TokenType == token.EOF {
		where = " at end"
	}
	r.errors = append(r.errors, parser.CreateSyntaxError(tok.Line, tok.Start, where, message))
}

// VisitBlockStmt pushes a fresh scope for the block's contents.
func (r *Resolver) VisitBlockStmt(stmt ast.BlockStmt) any {
	r.beginScope()
	r.resolveStatements(stmt.Statements)
	r.endScope()
	return nil
}

// VisitVarStmt declares the name before resolving the initializer (so a
// bare reference to the name in its own initializer can be caught) and
// only defines it afterward.
func (r *Resolver) VisitVarStmt(stmt ast.VarStmt) any {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
	return nil
}

// VisitFunctionStmt declares and defines the function's own name in the
// enclosing scope before resolving its body, so the function can call
// itself recursively.
func (r *Resolver) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, functionTypeFunction)
	return nil
}

func (r *Resolver) VisitExpressionStmt(stmt ast.ExpressionStmt) any {
	r.resolveExpr(stmt.Expression)
	return nil
}

func (r *Resolver) VisitPrintStmt(stmt ast.PrintStmt) any {
	r.resolveExpr(stmt.Expression)
	return nil
}

func (r *Resolver) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if r.currentFunction == functionTypeNone {
		r.error(stmt.Keyword, "Can't return from top-level code.")
	}
	if stmt.Value != nil {
		r.resolveExpr(stmt.Value)
	}
	return nil
}

func (r *Resolver) VisitIfStmt(stmt ast.IfStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
	return nil
}

func (r *Resolver) VisitWhileStmt(stmt ast.WhileStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
	return nil
}

// VisitVariableExpression rejects reading a local variable from within
// its own initializer, then resolves the reference against the scope
// stack.
func (r *Resolver) VisitVariableExpression(expr ast.Variable) any {
	if len(r.scopes) > 0 {
		if defined, ok := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; ok && !defined {
			r.error(expr.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(expr.Name, expr.Name.Lexeme)
	return nil
}

func (r *Resolver) VisitAssignExpression(expr ast.Assign) any {
	r.resolveExpr(expr.Value)
	r.resolveLocal(expr.Name, expr.Name.Lexeme)
	return nil
}

func (r *Resolver) VisitBinary(expr ast.Binary) any {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitLogicalExpression(expr ast.Logical) any {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitUnary(expr ast.Unary) any {
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitGrouping(expr ast.Grouping) any {
	r.resolveExpr(expr.Expression)
	return nil
}

func (r *Resolver) VisitLiteral(expr ast.Literal) any {
	return nil
}

func (r *Resolver) VisitCallExpression(expr ast.Call) any {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Args {
		r.resolveExpr(arg)
	}
	return nil
}
