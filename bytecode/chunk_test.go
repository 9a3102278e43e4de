package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOpcodeOperand(t *testing.T) {
	c := NewChunk()
	offset := c.WriteOpcodeOperand(OpConstant, 65000, 1)

	assert.Equal(t, 0, offset)
	assert.Equal(t, []byte{byte(OpConstant), 253, 232}, c.Code)
	assert.Equal(t, []int32{1, 1, 1}, c.Lines)
}

func TestWriteOpcode(t *testing.T) {
	c := NewChunk()
	c.WriteOpcodeOperand(OpConstant, 0, 1)
	offset := c.WriteOpcode(OpReturn, 2)

	assert.Equal(t, 3, offset)
	assert.Equal(t, 4, c.CurrentOffset())
	assert.Equal(t, int32(2), c.LineAt(offset))
}

func TestPatchOperand(t *testing.T) {
	c := NewChunk()
	jumpSite := c.WriteOpcodeOperand(OpJumpIfFalse, 0xFFFF, 1)
	c.WriteOpcode(OpPop, 1)
	target := c.CurrentOffset()

	c.PatchOperand(jumpSite, uint16(target))

	assert.EqualValues(t, target, c.ReadOperand(jumpSite))
}

func TestAddConstantNotDeduplicated(t *testing.T) {
	c := NewChunk()
	i0 := c.AddConstant(Number(1))
	i1 := c.AddConstant(Number(1))

	require.NotEqual(t, i0, i1)
	assert.Len(t, c.Constants, 2)
}

func TestAddName(t *testing.T) {
	c := NewChunk()
	idx := c.AddName("x")
	assert.EqualValues(t, 0, idx)
	assert.Equal(t, "x", c.Names[idx])
}
