package parser

import (
	"strings"
	"testing"

	"lox/lexer"
)

func sExprFor(t *testing.T, source string) string {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexer.Scan() raised an error: %v", err)
	}
	stmts, errs := Make(tokens).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return PrintSExpr(stmts)
}

func TestPrintSExprBinaryPrecedence(t *testing.T) {
	got := sExprFor(t, "1 + 2 * 3;")
	want := "(expr (+ 1 (* 2 3)))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprGrouping(t *testing.T) {
	got := sExprFor(t, "(1 + 2) * 3;")
	want := "(expr (* (group (+ 1 2)) 3))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprPrintStatement(t *testing.T) {
	got := sExprFor(t, "print 1 + 2;")
	want := "(print (+ 1 2))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprVarDeclaration(t *testing.T) {
	got := sExprFor(t, "var x = 1;")
	want := "(var x = 1)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprVarDeclarationWithoutInitializer(t *testing.T) {
	got := sExprFor(t, "var x;")
	want := "(var x)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprAssign(t *testing.T) {
	got := sExprFor(t, "x = 2;")
	want := "(expr (assign x 2))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprIfElse(t *testing.T) {
	got := sExprFor(t, "if (x) print 1; else print 2;")
	want := "(if (var x) (print 1) else (print 2))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprCall(t *testing.T) {
	got := sExprFor(t, "add(1, 2);")
	want := "(expr (call (var add) 1 2))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprFunction(t *testing.T) {
	got := sExprFor(t, "fun add(a, b) { return a + b; }")
	if !strings.HasPrefix(got, "(fun add (a b) (block") {
		t.Fatalf("got %q, want it to start with the function signature", got)
	}
}

func TestPrintSExprStringLiteralIsQuoted(t *testing.T) {
	got := sExprFor(t, `print "hi";`)
	want := `(print "hi")`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintSExprNilLiteral(t *testing.T) {
	got := sExprFor(t, "print nil;")
	want := "(print nil)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
