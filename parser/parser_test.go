package parser

import (
	"testing"

	"lox/ast"
	"lox/lexer"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, []error) {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexer.Scan() raised an error: %v", err)
	}
	return Make(tokens).Parse()
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, errs := parseSource(t, "1 + 2 * 3;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}

	exprStmt, ok := stmts[0].(ast.ExpressionStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.ExpressionStmt", stmts[0])
	}

	binary, ok := exprStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expression is %T, want ast.Binary", exprStmt.Expression)
	}
	if binary.Operator.Lexeme != "+" {
		t.Fatalf("got top-level operator %q, want '+' (precedence climbing broken)", binary.Operator.Lexeme)
	}
}

func TestParsePrintStatement(t *testing.T) {
	stmts, errs := parseSource(t, `print "hi";`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := stmts[0].(ast.PrintStmt); !ok {
		t.Fatalf("statement is %T, want ast.PrintStmt", stmts[0])
	}
}

func TestParseVarDeclarationWithoutInitializer(t *testing.T) {
	stmts, errs := parseSource(t, "var x;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	varStmt, ok := stmts[0].(ast.VarStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.VarStmt", stmts[0])
	}
	if varStmt.Initializer != nil {
		t.Fatalf("got initializer %v, want nil", varStmt.Initializer)
	}
}

func TestParseAssignment(t *testing.T) {
	stmts, errs := parseSource(t, "x = 5;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	exprStmt := stmts[0].(ast.ExpressionStmt)
	assign, ok := exprStmt.Expression.(ast.Assign)
	if !ok {
		t.Fatalf("expression is %T, want ast.Assign", exprStmt.Expression)
	}
	if assign.Name.Lexeme != "x" {
		t.Fatalf("got assignment target %q, want 'x'", assign.Name.Lexeme)
	}
}

func TestParseInvalidAssignmentTargetIsSoftError(t *testing.T) {
	stmts, errs := parseSource(t, "1 + 2 = 3;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1 (invalid assignment target)", len(errs))
	}
	if len(stmts) != 1 {
		t.Fatalf("parsing should continue past a soft error, got %d statements", len(stmts))
	}
}

func TestParseIfElse(t *testing.T) {
	stmts, errs := parseSource(t, "if (true) print 1; else print 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ifStmt, ok := stmts[0].(ast.IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.IfStmt", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("got nil else branch, want a PrintStmt")
	}
}

func TestParseWhile(t *testing.T) {
	stmts, errs := parseSource(t, "while (x < 10) x = x + 1;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := stmts[0].(ast.WhileStmt); !ok {
		t.Fatalf("statement is %T, want ast.WhileStmt", stmts[0])
	}
}

// TestParseForDesugarsToWhile checks the shape of the desugared for-loop:
// block { init; while (cond) { block { body; incr; } } }
func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, errs := parseSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	outer, ok := stmts[0].(ast.BlockStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.BlockStmt (for-loop init wrapper)", stmts[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("got %d statements in for-loop wrapper, want 2 (init, while)", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(ast.VarStmt); !ok {
		t.Fatalf("first statement is %T, want ast.VarStmt (the initializer)", outer.Statements[0])
	}
	whileStmt, ok := outer.Statements[1].(ast.WhileStmt)
	if !ok {
		t.Fatalf("second statement is %T, want ast.WhileStmt", outer.Statements[1])
	}
	body, ok := whileStmt.Body.(ast.BlockStmt)
	if !ok {
		t.Fatalf("while body is %T, want ast.BlockStmt (body + increment wrapper)", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("got %d statements in while body, want 2 (body, increment)", len(body.Statements))
	}
}

func TestParseForWithoutClausesDefaultsConditionToTrue(t *testing.T) {
	stmts, errs := parseSource(t, "for (;;) print 1;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	whileStmt, ok := stmts[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.WhileStmt", stmts[0])
	}
	literal, ok := whileStmt.Condition.(ast.Literal)
	if !ok || literal.Value != true {
		t.Fatalf("got condition %v, want literal true", whileStmt.Condition)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts, errs := parseSource(t, "fun add(a, b) { return a + b; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn, ok := stmts[0].(ast.FunctionStmt)
	if !ok {
		t.Fatalf("statement is %T, want ast.FunctionStmt", stmts[0])
	}
	if fn.Name.Lexeme != "add" {
		t.Fatalf("got function name %q, want 'add'", fn.Name.Lexeme)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if len(fn.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fn.Body))
	}
	if _, ok := fn.Body[0].(ast.ReturnStmt); !ok {
		t.Fatalf("body statement is %T, want ast.ReturnStmt", fn.Body[0])
	}
}

func TestParseCallExpression(t *testing.T) {
	stmts, errs := parseSource(t, "add(1, 2);")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	exprStmt := stmts[0].(ast.ExpressionStmt)
	call, ok := exprStmt.Expression.(ast.Call)
	if !ok {
		t.Fatalf("expression is %T, want ast.Call", exprStmt.Expression)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseChainedCalls(t *testing.T) {
	stmts, errs := parseSource(t, "make()(1);")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	exprStmt := stmts[0].(ast.ExpressionStmt)
	outer, ok := exprStmt.Expression.(ast.Call)
	if !ok {
		t.Fatalf("expression is %T, want ast.Call", exprStmt.Expression)
	}
	if _, ok := outer.Callee.(ast.Call); !ok {
		t.Fatalf("callee is %T, want a nested ast.Call", outer.Callee)
	}
}

func TestParseMissingSemicolonReportsSyntaxError(t *testing.T) {
	_, errs := parseSource(t, "print 1")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if _, ok := errs[0].(SyntaxError); !ok {
		t.Fatalf("error is %T, want parser.SyntaxError", errs[0])
	}
}

func TestParseErrorRecoverySkipsToNextStatement(t *testing.T) {
	stmts, errs := parseSource(t, "print 1 print 2;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1 (the recovered print 2 statement)", len(stmts))
	}
}

func TestParseUnexpectedEOFReportsAtEnd(t *testing.T) {
	_, errs := parseSource(t, "1 +")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	syntaxErr, ok := errs[0].(SyntaxError)
	if !ok {
		t.Fatalf("error is %T, want parser.SyntaxError", errs[0])
	}
	if syntaxErr.Where != " at end" {
		t.Fatalf("got Where %q, want ' at end'", syntaxErr.Where)
	}
}
