package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpConstant, "OP_CONSTANT"},
		{OpGetLocal, "OP_GET_LOCAL"},
		{OpJumpIfFalse, "OP_JUMP_IF_FALSE"},
		{OpReturn, "OP_RETURN"},
		{Opcode(255), "OP_UNKNOWN(255)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestInstructionWidth(t *testing.T) {
	assert.Equal(t, 3, OpConstant.InstructionWidth())
	assert.Equal(t, 3, OpJump.InstructionWidth())
	assert.Equal(t, 1, OpAdd.InstructionWidth())
	assert.Equal(t, 1, OpReturn.InstructionWidth())
}
