package vm

import "loxer/bytecode"

// frame is one activation record on the call stack: the function it is
// executing, its instruction pointer into that function's chunk, and the
// absolute VM-stack index its local slots are based at. Local slot k
// inside this frame lives at stack position stackBase+k.
type frame struct {
	fn        *bytecode.Function
	ip        int
	stackBase int
}
