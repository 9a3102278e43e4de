// Package debug renders compiled bytecode.Function chunks as human-readable
// disassembly, for the CLI's --debug flag.
package debug

import (
	"fmt"
	"io"

	"loxer/bytecode"
)

// Disassemble writes a line-by-line textual trace of fn's chunk to w: byte
// offset, source line (or "|" when unchanged from the previous
// instruction), opcode name, and operand detail where one exists. It does
// not recurse into nested *bytecode.Function constants - callers that want
// those disassembled too must walk the constants pool themselves.
func Disassemble(fn *bytecode.Function, w io.Writer) {
	name := fn.Name
	if name == "" {
		name = "<script>"
	}
	fmt.Fprintf(w, "== %s ==\n", name)

	chunk := fn.Chunk
	offset := 0
	var lastLine int32 = -1
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(chunk, offset, &lastLine, w)
	}
}

func disassembleInstruction(chunk *bytecode.Chunk, offset int, lastLine *int32, w io.Writer) int {
	op := bytecode.Opcode(chunk.Code[offset])

	line := chunk.LineAt(offset)
	if line == *lastLine {
		fmt.Fprintf(w, "%04d    | ", offset)
	} else {
		fmt.Fprintf(w, "%04d %4d ", offset, line)
		*lastLine = line
	}

	switch op.InstructionWidth() {
	case 1:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	case 3:
		operand := chunk.ReadOperand(offset)
		fmt.Fprintf(w, "%-16s %4d%s\n", op, operand, operandDetail(chunk, op, operand))
		return offset + 3
	default:
		fmt.Fprintf(w, "%s (unknown width)\n", op)
		return offset + op.InstructionWidth()
	}
}

// operandDetail adds the constant or name an index-bearing opcode
// references, e.g. " '1'" for an OP_CONSTANT of 1, or " 'x'" for a global
// access. Jump-class opcodes show just the raw target offset.
func operandDetail(chunk *bytecode.Chunk, op bytecode.Opcode, operand uint16) string {
	switch op {
	case bytecode.OpConstant:
		if int(operand) < len(chunk.Constants) {
			return fmt.Sprintf(" '%s'", chunk.Constants[operand])
		}
	case bytecode.OpGetGlobal, bytecode.OpSetGlobal, bytecode.OpDefineGlobal:
		if int(operand) < len(chunk.Names) {
			return fmt.Sprintf(" '%s'", chunk.Names[operand])
		}
	}
	return ""
}
