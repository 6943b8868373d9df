package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"lox/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements the Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": exprStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	return map[string]any{
		"type":       "PrintStmt",
		"expression": printStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        varStmt.Name.Lexeme,
		"initializer": nilOrAccept(varStmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	stmts := make([]any, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		stmts = append(stmts, stmt.Accept(p))
	}
	return map[string]any{
		"type":       "BlockStmt",
		"statements": stmts,
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	var elseVal any
	if stmt.Else != nil {
		elseVal = stmt.Else.Accept(p)
	}
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.Then.Accept(p),
		"else":      elseVal,
	}
}

func (p astPrinter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	params := make([]string, 0, len(stmt.Params))
	for _, param := range stmt.Params {
		params = append(params, param.Lexeme)
	}
	body := make([]any, 0, len(stmt.Body))
	for _, bodyStmt := range stmt.Body {
		body = append(body, bodyStmt.Accept(p))
	}
	return map[string]any{
		"type":   "FunctionStmt",
		"name":   stmt.Name.Lexeme,
		"params": params,
		"body":   body,
	}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAccept(stmt.Value, p),
	}
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":  "Assign",
		"name":  assign.Name.Lexeme,
		"value": assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": b.Operator.Lexeme,
		"left":     b.Left.Accept(p),
		"right":    b.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": u.Operator.Lexeme,
		"right":    u.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	// literals are terminal values and can be used directly in JSON
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": g.Expression.Accept(p),
	}
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, arg.Accept(p))
	}
	return map[string]any{
		"type":   "Call",
		"callee": call.Callee.Accept(p),
		"args":   args,
	}
}

// nilOrAccept returns nil if expr is nil, otherwise it continues
// processing the expression and returns the result.
func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}

// sExprPrinter renders the AST in the fully-parenthesized prefix form used
// by the --ast dump: "(+ 1 (* 2 3))", "(print EXPR)", "(var x = EXPR)".
type sExprPrinter struct{}

// PrintSExpr renders a sequence of statements as one prefix-form line per
// statement.
func PrintSExpr(statements []ast.Stmt) string {
	printer := sExprPrinter{}
	lines := make([]string, 0, len(statements))
	for _, stmt := range statements {
		lines = append(lines, fmt.Sprint(stmt.Accept(printer)))
	}
	return strings.Join(lines, "\n")
}

func (p sExprPrinter) parenthesize(name string, parts ...any) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		fmt.Fprint(&b, part)
	}
	b.WriteByte(')')
	return b.String()
}

func (p sExprPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return p.parenthesize("expr", exprStmt.Expression.Accept(p))
}

func (p sExprPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	return p.parenthesize("print", printStmt.Expression.Accept(p))
}

func (p sExprPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	if varStmt.Initializer == nil {
		return p.parenthesize("var", varStmt.Name.Lexeme)
	}
	return p.parenthesize("var", varStmt.Name.Lexeme, "=", varStmt.Initializer.Accept(p))
}

func (p sExprPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	parts := make([]any, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		parts = append(parts, stmt.Accept(p))
	}
	return p.parenthesize("block", parts...)
}

func (p sExprPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	if stmt.Else == nil {
		return p.parenthesize("if", stmt.Condition.Accept(p), stmt.Then.Accept(p))
	}
	return p.parenthesize("if", stmt.Condition.Accept(p), stmt.Then.Accept(p), "else", stmt.Else.Accept(p))
}

func (p sExprPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return p.parenthesize("while", stmt.Condition.Accept(p), stmt.Body.Accept(p))
}

func (p sExprPrinter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	params := make([]string, 0, len(stmt.Params))
	for _, param := range stmt.Params {
		params = append(params, param.Lexeme)
	}
	body := make([]any, 0, len(stmt.Body))
	for _, bodyStmt := range stmt.Body {
		body = append(body, bodyStmt.Accept(p))
	}
	return p.parenthesize("fun", stmt.Name.Lexeme, fmt.Sprintf("(%s)", strings.Join(params, " ")), p.parenthesize("block", body...))
}

func (p sExprPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if stmt.Value == nil {
		return "(return)"
	}
	return p.parenthesize("return", stmt.Value.Accept(p))
}

func (p sExprPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return p.parenthesize(expr.Operator.Lexeme, expr.Left.Accept(p), expr.Right.Accept(p))
}

func (p sExprPrinter) VisitAssignExpression(assign ast.Assign) any {
	return p.parenthesize("assign", assign.Name.Lexeme, assign.Value.Accept(p))
}

func (p sExprPrinter) VisitVariableExpression(variable ast.Variable) any {
	return p.parenthesize("var", variable.Name.Lexeme)
}

func (p sExprPrinter) VisitBinary(b ast.Binary) any {
	return p.parenthesize(b.Operator.Lexeme, b.Left.Accept(p), b.Right.Accept(p))
}

func (p sExprPrinter) VisitUnary(u ast.Unary) any {
	return p.parenthesize(u.Operator.Lexeme, u.Right.Accept(p))
}

func (p sExprPrinter) VisitLiteral(l ast.Literal) any {
	if l.Value == nil {
		return "nil"
	}
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(l.Value)
}

func (p sExprPrinter) VisitGrouping(g ast.Grouping) any {
	return p.parenthesize("group", g.Expression.Accept(p))
}

func (p sExprPrinter) VisitCallExpression(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, arg.Accept(p))
	}
	return p.parenthesize("call", append([]any{call.Callee.Accept(p)}, args...)...)
}
