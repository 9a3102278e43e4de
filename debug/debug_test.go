package debug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"loxer/bytecode"
	"loxer/compiler"
)

func TestDisassembleIncludesConstantValues(t *testing.T) {
	fn, err := compiler.Compile("print 1 + 2;")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var sb strings.Builder
	Disassemble(fn, &sb)

	out := sb.String()
	assert.Contains(t, out, "== <script> ==")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "'1'")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_PRINT")
}

func TestDisassembleNamedFunction(t *testing.T) {
	fn := &bytecode.Function{Name: "greet", Chunk: bytecode.NewChunk()}
	fn.Chunk.WriteOpcode(bytecode.OpReturn, 1)

	var sb strings.Builder
	Disassemble(fn, &sb)

	assert.Contains(t, sb.String(), "== greet ==")
}
