package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"lox/interpreter"
	"lox/lexer"
	"lox/parser"
	"lox/resolver"
	"lox/token"
)

// replCmd implements the tree-walking interpreter's interactive session.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive tree-walking session. Type "exit" to quit.
`
}

func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("Welcome to Lox.")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitStatus(74)
	}
	defer rl.Close()

	interp := interpreter.Make()
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println(err)
			break
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			break
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, lexErr := lexer.New(source).Scan()
		if lexErr != nil {
			fmt.Println(lexErr)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		statements, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			// If every parse error sits at the EOF token, the user isn't
			// done typing yet — keep buffering instead of reporting.
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			for _, e := range parseErrs {
				fmt.Println(e)
			}
			buffer.Reset()
			continue
		}

		locals, resolveErrs := resolver.Resolve(statements)
		if len(resolveErrs) > 0 {
			for _, e := range resolveErrs {
				fmt.Println(e)
			}
			buffer.Reset()
			continue
		}

		interp.Resolve(locals)
		if runErr := interp.Interpret(statements); runErr != nil {
			fmt.Println(runErr)
		}
		buffer.Reset()
	}

	return subcommands.ExitSuccess
}

// isInputReady reports whether a REPL line's tokens form a complete
// statement: braces balanced and the last non-EOF token isn't one that
// expects more input to follow.
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN,
		token.ADD,
		token.SUB,
		token.MULT,
		token.DIV,
		token.BANG,
		token.EQUAL_EQUAL,
		token.NOT_EQUAL,
		token.LESS,
		token.LESS_EQUAL,
		token.LARGER,
		token.LARGER_EQUAL,
		token.COMMA,
		token.LPA,
		token.LCUR,
		token.IF,
		token.ELSE,
		token.WHILE,
		token.FOR,
		token.FUNC,
		token.RETURN,
		token.VAR,
		token.AND,
		token.OR,
		token.PRINT:
		return false
	}

	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error sits on the EOF
// token itself (same start offset) — a sign the buffered input is simply
// incomplete rather than actually malformed.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		syntaxErr, ok := parseErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Start != eof.Start {
			return false
		}
	}
	return len(parseErrs) > 0
}
