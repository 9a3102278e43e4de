package bytecode

import "encoding/binary"

// Chunk is a dense, append-only sequence of bytecode together with the
// constants and global names it references. Code and Lines are
// always the same length: Lines[i] is the source line that produced
// Code[i], recorded byte-for-byte (not run-length encoded) so that any
// instruction offset can be mapped back to a line in O(1).
type Chunk struct {
	Code      []byte
	Lines     []int32
	Constants []Value
	Names     []string
}

// NewChunk returns an empty Chunk ready to receive instructions.
func NewChunk() *Chunk {
	return &Chunk{}
}

// CurrentOffset returns the byte offset the next emitted instruction will
// occupy - the position jump targets are computed against.
func (c *Chunk) CurrentOffset() int {
	return len(c.Code)
}

// WriteByte appends a single raw byte, tagging it with line for error
// reporting, and returns the offset it was written at.
func (c *Chunk) WriteByte(b byte, line int32) int {
	offset := len(c.Code)
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return offset
}

// WriteOpcode appends a bare opcode with no operand (e.g. OpAdd, OpReturn)
// and returns the offset of the opcode byte.
func (c *Chunk) WriteOpcode(op Opcode, line int32) int {
	return c.WriteByte(byte(op), line)
}

// WriteOpcodeOperand appends an opcode followed by its 2-byte big-endian
// operand (e.g. OpConstant, OpGetLocal, OpJump) and returns the offset of
// the opcode byte.
func (c *Chunk) WriteOpcodeOperand(op Opcode, operand uint16, line int32) int {
	offset := c.WriteByte(byte(op), line)
	c.WriteByte(byte(operand>>8), line)
	c.WriteByte(byte(operand), line)
	return offset
}

// PatchOperand overwrites the 2-byte operand of the instruction at offset
// (whose opcode byte sits at offset) with a new value. Used to back-patch
// forward jumps once the target address is known.
func (c *Chunk) PatchOperand(offset int, operand uint16) {
	binary.BigEndian.PutUint16(c.Code[offset+1:offset+3], operand)
}

// ReadOperand reads the 2-byte big-endian operand of the instruction whose
// opcode byte sits at offset.
func (c *Chunk) ReadOperand(offset int) uint16 {
	return binary.BigEndian.Uint16(c.Code[offset+1 : offset+3])
}

// AddConstant appends v to the constants pool and returns its index. The
// pool is not deduplicated: identical constants compiled from different
// sites each get their own slot, matching the teacher's addConstant.
func (c *Chunk) AddConstant(v Value) uint16 {
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// AddName appends a global identifier to the name table and returns
// its index, used by OpGetGlobal/OpDefineGlobal/OpSetGlobal operands.
func (c *Chunk) AddName(name string) uint16 {
	c.Names = append(c.Names, name)
	return uint16(len(c.Names) - 1)
}

// LineAt returns the source line recorded for the instruction at offset.
func (c *Chunk) LineAt(offset int) int32 {
	return c.Lines[offset]
}
