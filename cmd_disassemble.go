package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/compiler"
	"lox/lexer"
)

// disassembleCmd compiles a source file to bytecode and prints its
// human-readable disassembly.
type disassembleCmd struct{}

func (*disassembleCmd) Name() string     { return "disassemble" }
func (*disassembleCmd) Synopsis() string { return "Compile a source file and print its bytecode" }
func (*disassembleCmd) Usage() string {
	return `disassemble <file>:
  Lex and compile a Lox source file, printing the resulting bytecode chunk.
`
}

func (*disassembleCmd) SetFlags(f *flag.FlagSet) {}

func (*disassembleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: disassemble <file>")
		return subcommands.ExitStatus(64)
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		return subcommands.ExitStatus(74)
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(65)
	}

	chunk, compileErrs := compiler.New(tokens).Compile()
	if len(compileErrs) > 0 {
		for _, e := range compileErrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitStatus(65)
	}

	fmt.Print(compiler.Disassemble(chunk, filename))

	return subcommands.ExitSuccess
}
