package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"loxer/compiler"
	"loxer/vm"
)

// exitCompileError/exitRuntimeError are the process exit codes the CLI's
// external interface promises: 65 for a failed compile, 70 for a runtime
// failure, distinct from subcommands' own ExitSuccess/ExitUsageError/
// ExitFailure.
const (
	exitCompileError subcommands.ExitStatus = 65
	exitRuntimeError subcommands.ExitStatus = 70
)

// runCmd implements `loxer run <file>`.
type runCmd struct {
	debug bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a loxer source file" }
func (*runCmd) Usage() string {
	return `run [-debug] <file.lox>:
  Compile and execute a loxer source file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.debug, "debug", false, "disassemble the compiled bytecode to stderr before running")
	f.BoolVar(&r.debug, "d", false, "shorthand for -debug")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 File not provided")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	machine := vm.New()
	if err := machine.Interpret(string(data), r.debug); err != nil {
		var compileErr compiler.CompileError
		if errors.As(err, &compileErr) {
			fmt.Fprintln(os.Stderr, compileErr.Error())
			return exitCompileError
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return exitRuntimeError
	}

	return subcommands.ExitSuccess
}
