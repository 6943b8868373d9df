package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"lox/compiler"
	"lox/lexer"
	"lox/vm"
)

// runCompiledCmd runs a source file through the bytecode backend: lex,
// compile to a Chunk, then execute it on the VM.
type runCompiledCmd struct {
	noExecute bool
	trace     bool
}

func (*runCompiledCmd) Name() string { return "runc" }
func (*runCompiledCmd) Synopsis() string {
	return "Run a source file with the bytecode compiler and VM"
}
func (*runCompiledCmd) Usage() string {
	return `runc [-n] [-trace] <file>:
  Lex and compile a Lox source file to bytecode, then execute it.
`
}

func (r *runCompiledCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.noExecute, "no-execute", false, "compile only; do not run")
	f.BoolVar(&r.noExecute, "n", false, "shorthand for -no-execute")
	f.BoolVar(&r.trace, "trace", false, "trace stack and instruction dispatch while running")
}

func (r *runCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: runc [-n] [-trace] <file>")
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

	chunk, compileErrs := compiler.New(tokens).Compile()
	if len(compileErrs) > 0 {
		for _, e := range compileErrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitStatus(65)
	}

	if r.noExecute {
		return subcommands.ExitSuccess
	}

	machine := vm.New()
	machine.SetTrace(r.trace)
	if err := machine.Run(chunk); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(70)
	}

	return subcommands.ExitSuccess
}
