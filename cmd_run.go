package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/interpreter"
	"lox/lexer"
	"lox/parser"
	"lox/resolver"
)

// runCmd runs a source file through the tree-walking backend: lex, parse,
// resolve, then interpret.
type runCmd struct {
	noExecute bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Run a source file with the tree-walking interpreter" }
func (*runCmd) Usage() string {
	return `run [-n] <file>:
  Lex, parse, resolve and execute a Lox source file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.noExecute, "no-execute", false, "parse and resolve only; do not run")
	f.BoolVar(&r.noExecute, "n", false, "shorthand for -no-execute")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: run [-n] <file>")
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

	locals, resolveErrs := resolver.Resolve(statements)
	if len(resolveErrs) > 0 {
		for _, e := range resolveErrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitStatus(65)
	}

	if r.noExecute {
		return subcommands.ExitSuccess
	}

	interp := interpreter.Make()
	interp.Resolve(locals)
	if err := interp.Interpret(statements); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(70)
	}

	return subcommands.ExitSuccess
}
