package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"loxer/artifact"
	"loxer/vm"
)

// runCompiledCmd implements `loxer run-compiled <file.loxer>`.
type runCompiledCmd struct {
	debug bool
}

func (*runCompiledCmd) Name() string     { return "run-compiled" }
func (*runCompiledCmd) Synopsis() string { return "execute a serialized loxer artifact" }
func (*runCompiledCmd) Usage() string {
	return `run-compiled [-debug] <file.loxer>:
  Decode a serialized function artifact and execute it directly.
`
}

func (r *runCompiledCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.debug, "debug", false, "disassemble the decoded bytecode to stderr before running")
	f.BoolVar(&r.debug, "d", false, "shorthand for -debug")
}

func (r *runCompiledCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	fn, err := artifact.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to decode artifact: %v\n", err)
		return subcommands.ExitFailure
	}

	machine := vm.New()
	if err := machine.Run(fn, r.debug); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitRuntimeError
	}

	return subcommands.ExitSuccess
}
