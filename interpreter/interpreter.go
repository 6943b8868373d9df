package interpreter

import (
	"fmt"

	"lox/ast"
	"lox/resolver"
	"lox/token"
)

// returnSignal is panicked by VisitReturnStmt and recovered specifically
// (by type assertion, not generically) at a Function's call boundary.
// Keeping it as a distinct type from RuntimeError is what makes `return`
// distinguishable from an actual runtime error as it unwinds the stack.
type returnSignal struct {
	value any
}

// TreeWalkInterpreter executes parsed statements and evaluates
// expressions directly against a chain of Environments.
type TreeWalkInterpreter struct {
	globals     *Environment
	environment *Environment
	locals      resolver.Locals
}

// Make creates a tree-walking interpreter with the `clock()` builtin
// already bound in globals.
func Make() *TreeWalkInterpreter {
	globals := MakeEnvironment()
	globals.define("clock", clockBuiltin{})
	return &TreeWalkInterpreter{globals: globals, environment: globals}
}

// Resolve installs the depth table produced by the resolver pass. Must
// be called before Interpret for local variable references to resolve
// correctly; an interpreter with no locals table treats every reference
// as a global.
func (i *TreeWalkInterpreter) Resolve(locals resolver.Locals) {
	i.locals = locals
}

// Interpret executes a list of statements, recovering a RuntimeError
// panic at the top so the process can report it and exit non-zero
// instead of crashing.
func (i *TreeWalkInterpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			runtimeErr, ok := r.(RuntimeError)
			if !ok {
				panic(r)
			}
			fmt.Println(runtimeErr.Error())
			err = runtimeErr
		}
	}()

	i.executeStatements(statements)
	return nil
}

func (i *TreeWalkInterpreter) executeStatements(statements []ast.Stmt) {
	for _, s := range statements {
		i.executeStmt(s)
	}
}

func (i *TreeWalkInterpreter) executeStmt(stmt ast.Stmt) {
	stmt.Accept(i)
}

func (i *TreeWalkInterpreter) evaluate(expression ast.Expression) any {
	return expression.Accept(i)
}

// VisitBlockStmt runs a block's statements in a fresh scope nested under
// the current one. The deferred restore runs on every exit path —
// falling through, a `return` unwinding via panic, or a RuntimeError
// unwinding via panic — so the caller's environment is never left
// pointing at a scope that has gone out of lexical existence.
func (i *TreeWalkInterpreter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	previous := i.environment
	i.environment = MakeNestedEnvironment(previous)
	defer func() { i.environment = previous }()

	i.executeStatements(blockStmt.Statements)
	return nil
}

func (i *TreeWalkInterpreter) VisitExpressionStmt(exprStatement ast.ExpressionStmt) any {
	i.evaluate(exprStatement.Expression)
	return nil
}

func (i *TreeWalkInterpreter) VisitIfStmt(stmt ast.IfStmt) any {
	if i.isTrue(i.evaluate(stmt.Condition)) {
		i.executeStmt(stmt.Then)
	} else if stmt.Else != nil {
		i.executeStmt(stmt.Else)
	}
	return nil
}

func (i *TreeWalkInterpreter) VisitWhileStmt(stmt ast.WhileStmt) any {
	for i.isTrue(i.evaluate(stmt.Condition)) {
		i.executeStmt(stmt.Body)
	}
	return nil
}

func (i *TreeWalkInterpreter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	value := i.evaluate(printStmt.Expression)
	fmt.Println(ToString(value))
	return nil
}

// VisitVarStmt always (re-)defines the name in the innermost scope, so
// re-declaring a variable in the same scope simply shadows the slot
// rather than erroring.
func (i *TreeWalkInterpreter) VisitVarStmt(varStmt ast.VarStmt) any {
	var value any
	if varStmt.Initializer != nil {
		value = i.evaluate(varStmt.Initializer)
	}
	i.environment.define(varStmt.Name.Lexeme, value)
	return nil
}

func (i *TreeWalkInterpreter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	fn := MakeFunction(stmt, i.environment)
	i.environment.define(stmt.Name.Lexeme, fn)
	return nil
}

func (i *TreeWalkInterpreter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	var value any
	if stmt.Value != nil {
		value = i.evaluate(stmt.Value)
	}
	panic(returnSignal{value: value})
}

func (i *TreeWalkInterpreter) VisitAssignExpression(assign ast.Assign) any {
	value := i.evaluate(assign.Value)

	if depth, ok := i.locals[resolver.Key{Line: assign.Name.Line, Start: assign.Name.Start}]; ok {
		i.environment.assignAt(depth, assign.Name.Lexeme, value)
		return value
	}
	if err := i.globals.assign(assign.Name, value); err != nil {
		panic(err)
	}
	return value
}

func (i *TreeWalkInterpreter) VisitLogicalExpression(expr ast.Logical) any {
	left := i.evaluate(expr.Left)

	if expr.Operator.TokenType == token.OR {
		if i.isTrue(left) {
			return left
		}
	} else {
		if !i.isTrue(left) {
			return left
		}
	}

	return i.evaluate(expr.Right)
}

func (i *TreeWalkInterpreter) VisitCallExpression(expr ast.Call) any {
	callee := i.evaluate(expr.Callee)

	args := make([]any, 0, len(expr.Args))
	for _, arg := range expr.Args {
		args = append(args, i.evaluate(arg))
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(CreateRuntimeError(expr.ClosingParen.Line, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		message := fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args))
		panic(CreateRuntimeError(expr.ClosingParen.Line, message))
	}

	result, err := callable.Call(i, args)
	if err != nil {
		panic(err)
	}
	return result
}

// VisitBinary evaluates a binary expression. Both operands are fully
// evaluated, left before right, before the operator is applied.
func (i *TreeWalkInterpreter) VisitBinary(binary ast.Binary) any {
	left := i.evaluate(binary.Left)
	right := i.evaluate(binary.Right)
	operator := binary.Operator.TokenType

	switch operator {
	case token.ADD:
		if leftNum, ok := left.(float64); ok {
			if rightNum, ok := right.(float64); ok {
				return leftNum + rightNum
			}
		}
		if leftStr, ok := left.(string); ok {
			if rightStr, ok := right.(string); ok {
				return leftStr + rightStr
			}
		}
		panic(CreateRuntimeError(binary.Operator.Line, "Operands must be two numbers or two strings."))

	case token.SUB:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l - r

	case token.MULT:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l * r

	case token.DIV:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l / r

	case token.LARGER:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l > r

	case token.LARGER_EQUAL:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l >= r

	case token.LESS:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l < r

	case token.LESS_EQUAL:
		l, r := i.numberOperands(binary.Operator, left, right)
		return l <= r

	case token.EQUAL_EQUAL:
		return valuesEqual(left, right)

	case token.NOT_EQUAL:
		return !valuesEqual(left, right)

	default:
		message := fmt.Sprintf("operator '%s' not supported", operator)
		panic(CreateRuntimeError(binary.Operator.Line, message))
	}
}

func (i *TreeWalkInterpreter) VisitUnary(unary ast.Unary) any {
	right := i.evaluate(unary.Right)

	switch unary.Operator.TokenType {
	case token.SUB:
		value, ok := right.(float64)
		if !ok {
			panic(CreateRuntimeError(unary.Operator.Line, "Operand must be a number."))
		}
		return -value
	case token.BANG:
		return !i.isTrue(right)
	default:
		message := fmt.Sprintf("operator '%s' not supported for unary operations", unary.Operator.TokenType)
		panic(CreateRuntimeError(unary.Operator.Line, message))
	}
}

// isTrue implements Lox truthiness: nil and false are falsy, everything
// else is truthy.
func (i *TreeWalkInterpreter) isTrue(object any) bool {
	if object == nil {
		return false
	}
	if value, ok := object.(bool); ok {
		return value
	}
	return true
}

// VisitVariableExpression looks a reference up at the depth the resolver
// annotated it with, falling back to globals for unresolved names.
func (i *TreeWalkInterpreter) VisitVariableExpression(expression ast.Variable) any {
	return i.lookUpVariable(expression.Name)
}

func (i *TreeWalkInterpreter) lookUpVariable(name token.Token) any {
	if depth, ok := i.locals[resolver.Key{Line: name.Line, Start: name.Start}]; ok {
		return i.environment.getAt(depth, name.Lexeme)
	}
	value, err := i.globals.get(name)
	if err != nil {
		panic(err)
	}
	return value
}

func (i *TreeWalkInterpreter) VisitLiteral(literal ast.Literal) any {
	return literal.Value
}

func (i *TreeWalkInterpreter) VisitGrouping(grouping ast.Grouping) any {
	return i.evaluate(grouping.Expression)
}

// numberOperands validates that both operands are numbers, panicking
// with a RuntimeError positioned at the operator if not.
func (i *TreeWalkInterpreter) numberOperands(operatorToken token.Token, left, right any) (float64, float64) {
	leftNum, leftOk := left.(float64)
	rightNum, rightOk := right.(float64)
	if !leftOk || !rightOk {
		panic(CreateRuntimeError(operatorToken.Line, "Operands must be numbers."))
	}
	return leftNum, rightNum
}
