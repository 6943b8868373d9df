package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/lexer"
)

// tokensCmd dumps the token stream for a source file and stops.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Lex a source file and print its token stream" }
func (*tokensCmd) Usage() string {
	return `tokens <file>:
  Lex a Lox source file and print one token per line.
`
}

func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tokens <file>")
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

	for _, tok := range tokens {
		fmt.Println(tok.String())
	}

	return subcommands.ExitSuccess
}
