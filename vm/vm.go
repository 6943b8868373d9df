package vm

import (
	"fmt"

	"lox/compiler"
	"lox/interpreter"
)

// stackMax bounds the VM's stack. The opcodes this VM executes never
// need more: there are no call frames and no recursion, only a single
// compiled expression's worth of pushes and pops.
const stackMax = 256

// VM is a stack machine that executes a single compiled Chunk.
type VM struct {
	chunk *compiler.Chunk
	ip    int
	stack Stack
	trace bool
}

// New creates a VM with an empty stack.
func New() *VM {
	return &VM{}
}

// SetTrace enables per-instruction tracing: before every dispatch, the
// VM prints the current stack contents and disassembles the
// instruction it is about to execute.
func (vm *VM) SetTrace(trace bool) {
	vm.trace = trace
}

// Run executes chunk's instructions from the beginning. OP_RETURN pops
// the final value and prints it — the VM's only form of output, since
// this minimal opcode set has no dedicated print opcode.
func (vm *VM) Run(chunk *compiler.Chunk) error {
	vm.chunk = chunk
	vm.ip = 0
	vm.stack = nil

	for {
		if vm.trace {
			vm.printTraceLine()
		}

		switch instruction := compiler.Opcode(vm.readByte()); instruction {
		case compiler.OP_CONSTANT:
			vm.stack.Push(vm.readConstant())

		case compiler.OP_NIL:
			vm.stack.Push(nil)
		case compiler.OP_TRUE:
			vm.stack.Push(true)
		case compiler.OP_FALSE:
			vm.stack.Push(false)

		case compiler.OP_EQUAL:
			b, _ := vm.stack.Pop()
			a, _ := vm.stack.Pop()
			vm.stack.Push(valuesEqual(a, b))

		case compiler.OP_GREATER:
			left, right, err := vm.popNumberPair()
			if err != nil {
				return err
			}
			vm.stack.Push(left > right)

		case compiler.OP_LESS:
			left, right, err := vm.popNumberPair()
			if err != nil {
				return err
			}
			vm.stack.Push(left < right)

		case compiler.OP_ADD:
			if err := vm.add(); err != nil {
				return err
			}

		case compiler.OP_SUBTRACT:
			left, right, err := vm.popNumberPair()
			if err != nil {
				return err
			}
			vm.stack.Push(left - right)

		case compiler.OP_MULTIPLY:
			left, right, err := vm.popNumberPair()
			if err != nil {
				return err
			}
			vm.stack.Push(left * right)

		case compiler.OP_DIVIDE:
			left, right, err := vm.popNumberPair()
			if err != nil {
				return err
			}
			vm.stack.Push(left / right)

		case compiler.OP_NOT:
			value, _ := vm.stack.Pop()
			vm.stack.Push(!isTrue(value))

		case compiler.OP_NEGATE:
			value, _ := vm.stack.Pop()
			num, ok := value.(float64)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.stack.Push(-num)

		case compiler.OP_RETURN:
			value, _ := vm.stack.Pop()
			fmt.Println(interpreter.ToString(value))
			return nil

		default:
			return vm.runtimeError(fmt.Sprintf("Unknown opcode %d.", instruction))
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Instructions[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() any {
	index := vm.readByte()
	return vm.chunk.ConstantsPool[index]
}

// popNumberPair pops the right operand then the left (the order they
// were pushed in) and fails unless both are numbers.
func (vm *VM) popNumberPair() (float64, float64, error) {
	rightAny, _ := vm.stack.Pop()
	leftAny, _ := vm.stack.Pop()
	left, leftOk := leftAny.(float64)
	right, rightOk := rightAny.(float64)
	if !leftOk || !rightOk {
		return 0, 0, vm.runtimeError("Operands must be numbers.")
	}
	return left, right, nil
}

func (vm *VM) add() error {
	rightAny, _ := vm.stack.Pop()
	leftAny, _ := vm.stack.Pop()

	if left, ok := leftAny.(float64); ok {
		if right, ok := rightAny.(float64); ok {
			vm.stack.Push(left + right)
			return nil
		}
	}
	if left, ok := leftAny.(string); ok {
		if right, ok := rightAny.(string); ok {
			vm.stack.Push(left + right)
			return nil
		}
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}

func (vm *VM) runtimeError(message string) error {
	line := vm.chunk.LineAt(vm.ip - 1)
	return CreateRuntimeError(line, message)
}

func (vm *VM) printTraceLine() {
	fmt.Print("          ")
	for _, value := range vm.stack {
		fmt.Printf("[ %v ]", value)
	}
	fmt.Println()
	compiler.DisassembleInstructionAt(vm.chunk, vm.ip)
}
