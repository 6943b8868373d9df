package compiler

import "fmt"

// Opcode identifies a single bytecode instruction. Every opcode here
// takes at most one operand, which (per the single-byte encoding this
// backend uses) always fits in the byte immediately following the
// opcode.
type Opcode byte

const (
	OP_CONSTANT Opcode = iota
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NOT
	OP_NEGATE
	OP_RETURN
)

var opcodeNames = map[Opcode]string{
	OP_CONSTANT:  "OP_CONSTANT",
	OP_NIL:       "OP_NIL",
	OP_TRUE:      "OP_TRUE",
	OP_FALSE:     "OP_FALSE",
	OP_EQUAL:     "OP_EQUAL",
	OP_GREATER:   "OP_GREATER",
	OP_LESS:      "OP_LESS",
	OP_ADD:       "OP_ADD",
	OP_SUBTRACT:  "OP_SUBTRACT",
	OP_MULTIPLY:  "OP_MULTIPLY",
	OP_DIVIDE:    "OP_DIVIDE",
	OP_NOT:       "OP_NOT",
	OP_NEGATE:    "OP_NEGATE",
	OP_RETURN:    "OP_RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// maxConstants bounds the constant pool: OP_CONSTANT's operand is a
// single byte, so no chunk can reference more than 256 distinct values
// without a wider (unimplemented) opcode.
const maxConstants = 256

// Chunk is a unit of compiled bytecode: the instruction stream, the pool
// of constant values instructions reference by index, and a source line
// number parallel to each instruction byte (so a runtime error can blame
// the line that produced the failing instruction).
type Chunk struct {
	Instructions  []byte
	ConstantsPool []any
	lines         []int
}

// NewChunk returns an empty Chunk ready to be written to by a Compiler.
func NewChunk() *Chunk {
	return &Chunk{}
}

// write appends one instruction byte — an opcode or an operand — tagged
// with the source line it was compiled from.
func (c *Chunk) write(b byte, line int) {
	c.Instructions = append(c.Instructions, b)
	c.lines = append(c.lines, line)
}

// AddConstant appends value to the pool and returns its index, failing
// once the 256-entry cap is reached.
func (c *Chunk) AddConstant(value any) (int, error) {
	if len(c.ConstantsPool) >= maxConstants {
		return 0, fmt.Errorf("too many constants in one chunk")
	}
	c.ConstantsPool = append(c.ConstantsPool, value)
	return len(c.ConstantsPool) - 1, nil
}

// LineAt returns the source line that produced the instruction byte at
// offset, or -1 if offset is out of range.
func (c *Chunk) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.lines) {
		return -1
	}
	return c.lines[offset]
}
