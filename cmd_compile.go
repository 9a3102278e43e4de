package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"loxer/artifact"
	"loxer/compiler"
)

// compileCmd implements `loxer compile <file>`.
type compileCmd struct{}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile a loxer source file to a serialized artifact" }
func (*compileCmd) Usage() string {
	return `compile <file.lox>:
  Compile a loxer source file and write a serialized function artifact
  alongside it, with the .lox extension replaced by .loxer.
`
}

func (*compileCmd) SetFlags(_ *flag.FlagSet) {}

func (*compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 File not provided")
		return subcommands.ExitUsageError
	}
	sourcePath := args[0]

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	fn, err := compiler.Compile(string(data))
	if err != nil {
		var compileErr compiler.CompileError
		if errors.As(err, &compileErr) {
			fmt.Fprintln(os.Stderr, compileErr.Error())
			return exitCompileError
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return exitCompileError
	}

	encoded, err := artifact.Encode(fn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to encode artifact: %v\n", err)
		return subcommands.ExitFailure
	}

	outPath := outputPath(sourcePath)
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write artifact: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// outputPath replaces a trailing ".lox" extension with ".loxer"; if the
// source file has no ".lox" extension, ".loxer" is appended instead.
func outputPath(sourcePath string) string {
	if strings.HasSuffix(sourcePath, ".lox") {
		return strings.TrimSuffix(sourcePath, ".lox") + ".loxer"
	}
	return sourcePath + ".loxer"
}
