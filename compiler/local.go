package compiler

import "loxer/bytecode"

// maxLocals bounds how many locals a single function body may declare.
// The bound is 256 even though a slot operand is encoded in 2 bytes.
const maxLocals = 256

// local represents one declared local variable slot within a compilerState.
type local struct {
	name string
	// depth of -1 marks a declared-but-not-yet-initialized local: reading
	// it in its own initializer ("var a = a;") is a compile error.
	depth       int
	initialized bool
}

// compilerState tracks the bytecode being assembled for a single function
// body (the top-level script counts as a function). Nested `fun`
// declarations push a fresh compilerState whose enclosing field chains back
// to the function they're nested in; emission always targets the
// innermost (current) state.
type compilerState struct {
	fn         *bytecode.Function
	locals     []local
	scopeDepth int
	enclosing  *compilerState
}

func newCompilerState(name string, enclosing *compilerState) *compilerState {
	return &compilerState{
		fn: &bytecode.Function{
			Name:  name,
			Chunk: bytecode.NewChunk(),
		},
		enclosing: enclosing,
	}
}

func (cs *compilerState) chunk() *bytecode.Chunk {
	return cs.fn.Chunk
}
