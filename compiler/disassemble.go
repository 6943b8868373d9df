package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders a Chunk as human-readable text: one line per
// instruction, showing its byte offset, source line (or "|" when it
// repeats the previous instruction's line), opcode name, and operand.
func Disassemble(chunk *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	offset := 0
	for offset < len(chunk.Instructions) {
		offset = disassembleInstruction(&b, chunk, offset)
	}
	return b.String()
}

// DisassembleInstructionAt writes a single disassembled instruction at
// offset to stdout and returns the offset of the instruction after it.
// Used by the VM's trace mode to print the instruction about to run.
func DisassembleInstructionAt(chunk *Chunk, offset int) int {
	var b strings.Builder
	next := disassembleInstruction(&b, chunk, offset)
	fmt.Print(b.String())
	return next
}

func disassembleInstruction(b *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)
	if offset > 0 && chunk.LineAt(offset) == chunk.LineAt(offset-1) {
		fmt.Fprint(b, "   | ")
	} else {
		fmt.Fprintf(b, "%4d ", chunk.LineAt(offset))
	}

	op := Opcode(chunk.Instructions[offset])
	switch op {
	case OP_CONSTANT:
		return constantInstruction(b, chunk, op, offset)
	case OP_NIL, OP_TRUE, OP_FALSE, OP_EQUAL, OP_GREATER, OP_LESS,
		OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_NOT, OP_NEGATE, OP_RETURN:
		return simpleInstruction(b, op, offset)
	default:
		fmt.Fprintf(b, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(b *strings.Builder, op Opcode, offset int) int {
	fmt.Fprintf(b, "%s\n", op)
	return offset + 1
}

func constantInstruction(b *strings.Builder, chunk *Chunk, op Opcode, offset int) int {
	index := chunk.Instructions[offset+1]
	fmt.Fprintf(b, "%-16s %4d '%v'\n", op, index, chunk.ConstantsPool[index])
	return offset + 2
}
