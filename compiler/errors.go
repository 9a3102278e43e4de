package compiler

import (
	"fmt"
	"strings"
)

// SyntaxError is a single parse-time diagnostic, tagged with the source line
// it was raised at.
type SyntaxError struct {
	Line    int32
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 SyntaxError: [line %d] %s", e.Line, e.Message)
}

// CompileError aggregates every SyntaxError raised while compiling a single
// source file. synchronize() lets the compiler keep parsing after an error
// so that more than one mistake can be reported per run.
type CompileError struct {
	Errors []SyntaxError
}

func (e CompileError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, syntaxErr := range e.Errors {
		messages[i] = syntaxErr.Error()
	}
	return strings.Join(messages, "\n")
}

// DeveloperError signals a compiler invariant violation that should be
// unreachable given correct parsing logic (e.g. patching a non-jump site).
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
