package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/lexer"
	"lox/parser"
)

// astCmd parses a source file and prints its AST in parenthesized prefix
// form, one statement per line.
type astCmd struct{}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Parse a source file and print its AST" }
func (*astCmd) Usage() string {
	return `ast <file>:
  Lex and parse a Lox source file, printing its AST in prefix form.
`
}

func (*astCmd) SetFlags(f *flag.FlagSet) {}

func (*astCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ast <file>")
		return subcommands.ExitStatus(64)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		return subcommands.ExitStatus(74)
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(65)
	}

	statements, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitStatus(65)
	}

	fmt.Println(parser.PrintSExpr(statements))

	return subcommands.ExitSuccess
}
