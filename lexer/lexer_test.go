package lexer

import (
	"testing"

	"lox/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func assertTypes(t *testing.T, got []token.Token, want []token.TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(gotTypes), gotTypes, len(want), want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, gotTypes[i], want[i])
		}
	}
}

func TestScanOperators(t *testing.T) {
	lex := New("==/=*+>-<!=<=>=!")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.EOF,
	})
}

func TestScanPunctuation(t *testing.T) {
	lex := New("(){},.;")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.COMMA, token.DOT, token.SEMICOLON, token.EOF,
	})
}

func TestScanSkipsCommentsAndWhitespace(t *testing.T) {
	lex := New("1 + 2 // this is a comment\n+ 3")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{
		token.NUMBER, token.ADD, token.NUMBER, token.ADD, token.NUMBER, token.EOF,
	})
	if got[4].Line != 2 {
		t.Errorf("token after comment on line %d, want 2", got[4].Line)
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"123", 123},
		{"1.5", 1.5},
		{"0.25", 0.25},
	}
	for _, tt := range tests {
		lex := New(tt.source)
		got, err := lex.Scan()
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", tt.source, err)
		}
		if got[0].Literal != tt.want {
			t.Errorf("Scan(%q) literal = %v, want %v", tt.source, got[0].Literal, tt.want)
		}
	}
}

func TestScanTrailingDotIsNotPartOfNumber(t *testing.T) {
	lex := New("1.")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.NUMBER, token.DOT, token.EOF})
}

func TestScanLeadingDotIsNotANumber(t *testing.T) {
	lex := New(".5")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.DOT, token.NUMBER, token.EOF})
}

func TestScanStrings(t *testing.T) {
	lex := New(`"hello world"`)
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if got[0].TokenType != token.STRING || got[0].Literal != "hello world" {
		t.Errorf("Scan() = %+v", got[0])
	}
}

func TestScanMultilineString(t *testing.T) {
	lex := New("\"line one\nline two\"\nprint 1;")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if got[0].TokenType != token.STRING {
		t.Fatalf("expected STRING, got %v", got[0].TokenType)
	}
	if got[1].TokenType != token.PRINT || got[1].Line != 3 {
		t.Errorf("print token = %+v, want line 3", got[1])
	}
}

func TestScanUnterminatedStringReportsErrorAndContinues(t *testing.T) {
	lex := New("\"unterminated\nprint 1;")
	got, err := lex.Scan()
	if err == nil {
		t.Fatalf("expected unterminated string error")
	}
	// Strings may span lines, so the unterminated string runs to the end
	// of input; the scan still ends with a well-formed EOF.
	assertTypes(t, got, []token.TokenType{token.EOF})
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	lex := New("var x = foo and bar")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	assertTypes(t, got, []token.TokenType{
		token.VAR, token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER, token.AND, token.IDENTIFIER, token.EOF,
	})
}

func TestScanUnexpectedCharacterReportsErrorAndContinues(t *testing.T) {
	lex := New("var x = @;")
	got, err := lex.Scan()
	if err == nil {
		t.Fatalf("expected scan error for '@'")
	}
	assertTypes(t, got, []token.TokenType{
		token.VAR, token.IDENTIFIER, token.ASSIGN, token.SEMICOLON, token.EOF,
	})
}

func TestScanEndsWithEOF(t *testing.T) {
	lex := New("")
	got, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 1 || got[0].TokenType != token.EOF {
		t.Errorf("Scan(\"\") = %v, want single EOF", got)
	}
}

func TestTokenLexemeMatchesSource(t *testing.T) {
	source := "var answer = 42;"
	lex := New(source)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, tok := range tokens {
		if tok.TokenType == token.EOF {
			continue
		}
		end := tok.Start + len(tok.Lexeme)
		if end > len(source) || source[tok.Start:end] != tok.Lexeme {
			t.Errorf("token %+v lexeme does not match source slice", tok)
		}
	}
}
