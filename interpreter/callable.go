package interpreter

import (
	"fmt"
	"time"

	"lox/ast"
)

// Callable is implemented by any value that can appear as the callee of
// a Call expression: user-defined functions and native builtins.
type Callable interface {
	Arity() int
	Call(interp *TreeWalkInterpreter, args []any) (any, error)
	String() string
}

// Function is a user-defined Lox function. It captures the environment
// active at its definition site, which is how closures work: a function
// returned from another function keeps seeing that function's locals
// even after the outer call has returned.
type Function struct {
	declaration ast.FunctionStmt
	closure     *Environment
}

// MakeFunction binds a function declaration to the environment it was
// declared in.
func MakeFunction(declaration ast.FunctionStmt, closure *Environment) *Function {
	return &Function{declaration: declaration, closure: closure}
}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Call runs the function body in a fresh scope nested under its closure,
// binding each parameter to the corresponding argument. A `return`
// unwinds via returnSignal, which this call boundary catches; any other
// panic (a RuntimeError) is left to propagate further up the stack.
func (f *Function) Call(interp *TreeWalkInterpreter, args []any) (result any, err error) {
	env := MakeNestedEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.define(param.Lexeme, args[i])
	}

	previous := interp.environment
	interp.environment = env
	defer func() {
		interp.environment = previous
		if r := recover(); r != nil {
			if signal, ok := r.(returnSignal); ok {
				result = signal.value
				return
			}
			panic(r)
		}
	}()

	interp.executeStatements(f.declaration.Body)
	return nil, nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// clockBuiltin implements the `clock()` global: milliseconds since the
// Unix epoch.
type clockBuiltin struct{}

func (clockBuiltin) Arity() int { return 0 }

func (clockBuiltin) Call(*TreeWalkInterpreter, []any) (any, error) {
	return float64(time.Now().UnixMilli()), nil
}

func (clockBuiltin) String() string { return "<native fn>" }
