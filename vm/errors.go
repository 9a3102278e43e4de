package vm

import "fmt"

// RuntimeError is raised for any failure detected while executing already-
// compiled bytecode: operand type mismatches, undefined variables, calling
// a non-callable value, arity mismatches. It carries the source line the
// faulting instruction was compiled from.
type RuntimeError struct {
	Line    int32
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError: %s\n[line %d] in script", e.Message, e.Line)
}
