// Package vm implements the stack-based bytecode interpreter: given a
// compiled *bytecode.Function, it drives a fetch-decode-execute loop over
// call frames until the program returns or a runtime error is raised.
package vm

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dolthub/swiss"

	"loxer/bytecode"
	"loxer/compiler"
	dbg "loxer/debug"
)

// DeveloperError marks a VM invariant violation that should be
// unreachable given bytecode produced by this package's own compiler -
// e.g. an opcode with no dispatch case. It mirrors the teacher's
// DeveloperError convention for "this should only happen in development".
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}

// VM is the runtime environment bytecode executes in: an operand stack, a
// stack of call frames, and the table of global bindings (persists across
// Interpret calls on the same VM, though the CLI only ever makes one).
type VM struct {
	stack   []bytecode.Value
	frames  []frame
	globals *swiss.Map[string, bytecode.Value]

	currentLine int32
	stdout      io.Writer
}

// New constructs a VM with the native `clock` binding already installed in
// globals.
func New() *VM {
	vm := &VM{
		globals: swiss.NewMap[string, bytecode.Value](8),
		stdout:  os.Stdout,
	}
	vm.defineNatives()
	return vm
}

// SetStdout redirects where OpPrint writes, for tests that need to capture
// program output.
func (vm *VM) SetStdout(w io.Writer) {
	vm.stdout = w
}

func (vm *VM) defineNatives() {
	vm.globals.Put("clock", bytecode.NativeValue(&bytecode.Native{
		Name:  "clock",
		Arity: 0,
		Fn: func(_ []bytecode.Value) bytecode.Value {
			return bytecode.Number(float64(time.Now().UnixNano()) / 1e9)
		},
	}))
}

// Interpret compiles source and, on success, executes it. When debug is
// true the top-level function and every nested function reachable through
// its constants pool are disassembled to stderr before execution begins.
func (vm *VM) Interpret(source string, debug bool) error {
	fn, err := compiler.Compile(source)
	if err != nil {
		return err
	}
	return vm.Run(fn, debug)
}

// Run executes an already-compiled top-level function directly, skipping
// compilation - the entry point `loxer run-compiled` uses after decoding a
// serialized artifact.
func (vm *VM) Run(fn *bytecode.Function, debug bool) error {
	if debug {
		vm.traceDisassembly(fn)
	}

	vm.frames = append(vm.frames, frame{fn: fn, stackBase: 0})
	err := vm.run()
	if err != nil {
		vm.stack = vm.stack[:0]
		vm.frames = vm.frames[:0]
	}
	return err
}

// traceDisassembly walks fn's constants pool recursively so nested
// functions are disassembled too - the disassembler itself only looks at
// one function's chunk at a time.
func (vm *VM) traceDisassembly(fn *bytecode.Function) {
	dbg.Disassemble(fn, os.Stderr)
	for _, c := range fn.Chunk.Constants {
		if c.IsFunction() {
			vm.traceDisassembly(c.AsFunction())
		}
	}
}

func (vm *VM) push(v bytecode.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() bytecode.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) runtimeError(format string, args ...any) error {
	return RuntimeError{Line: vm.currentLine, Message: fmt.Sprintf(format, args...)}
}

// run is the fetch-decode-execute loop. It always operates on the
// innermost frame, re-fetched at the top of every iteration since OpCall
// and OpReturn mutate vm.frames.
func (vm *VM) run() error {
	for {
		f := &vm.frames[len(vm.frames)-1]
		code := f.fn.Chunk.Code

		op := bytecode.Opcode(code[f.ip])
		vm.currentLine = f.fn.Chunk.Lines[f.ip]

		var operand uint16
		if op.InstructionWidth() == 3 {
			operand = f.fn.Chunk.ReadOperand(f.ip)
		}
		f.ip += op.InstructionWidth()

		switch op {
		case bytecode.OpConstant:
			vm.push(f.fn.Chunk.Constants[operand])
		case bytecode.OpNil:
			vm.push(bytecode.Nil)
		case bytecode.OpTrue:
			vm.push(bytecode.Bool(true))
		case bytecode.OpFalse:
			vm.push(bytecode.Bool(false))
		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			vm.push(vm.stack[f.stackBase+int(operand)])
		case bytecode.OpSetLocal:
			vm.stack[f.stackBase+int(operand)] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := f.fn.Chunk.Names[operand]
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.push(v)
		case bytecode.OpDefineGlobal:
			name := f.fn.Chunk.Names[operand]
			vm.globals.Put(name, vm.peek(0))
			vm.pop()
		case bytecode.OpSetGlobal:
			name := f.fn.Chunk.Names[operand]
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.globals.Put(name, vm.peek(0))

		case bytecode.OpAdd:
			if err := vm.execAdd(); err != nil {
				return err
			}
		case bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide, bytecode.OpGreater, bytecode.OpLess:
			if err := vm.execBinaryNumeric(op); err != nil {
				return err
			}
		case bytecode.OpNot:
			vm.push(bytecode.Bool(vm.pop().IsFalsey()))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(bytecode.Number(-vm.pop().AsNumber()))
		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(bytecode.Bool(a.Equal(b)))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case bytecode.OpJump:
			f.ip = int(operand)
		case bytecode.OpJumpIfFalse:
			if vm.peek(0).IsFalsey() {
				f.ip = int(operand)
			}
		case bytecode.OpLoop:
			f.ip = int(operand)

		case bytecode.OpCall:
			if err := vm.call(int(operand)); err != nil {
				return err
			}
		case bytecode.OpReturn:
			result := vm.pop()
			finished := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.stack = vm.stack[:finished.stackBase-1]
			vm.push(result)

		default:
			panic(DeveloperError{Message: fmt.Sprintf("unhandled opcode %v", op)})
		}
	}
}

func (vm *VM) execAdd() error {
	a, b := vm.peek(1), vm.peek(0)
	switch {
	case a.IsNumber() && b.IsNumber():
		bv := vm.pop().AsNumber()
		av := vm.pop().AsNumber()
		vm.push(bytecode.Number(av + bv))
	case a.IsString() && b.IsString():
		bv := vm.pop().AsString()
		av := vm.pop().AsString()
		vm.push(bytecode.String(av + bv))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
	return nil
}

func (vm *VM) execBinaryNumeric(op bytecode.Opcode) error {
	if !vm.peek(1).IsNumber() || !vm.peek(0).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	switch op {
	case bytecode.OpSubtract:
		vm.push(bytecode.Number(a - b))
	case bytecode.OpMultiply:
		vm.push(bytecode.Number(a * b))
	case bytecode.OpDivide:
		vm.push(bytecode.Number(a / b))
	case bytecode.OpGreater:
		vm.push(bytecode.Bool(a > b))
	case bytecode.OpLess:
		vm.push(bytecode.Bool(a < b))
	}
	return nil
}

// call implements OpCall for both first-class *bytecode.Function values
// (pushes a new frame, to be unwound by a later OpReturn) and *bytecode.
// Native values (invoked immediately, synchronously).
func (vm *VM) call(argCount int) error {
	callee := vm.peek(argCount)

	switch {
	case callee.IsFunction():
		fn := callee.AsFunction()
		if fn.Arity != argCount {
			return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
		}
		vm.frames = append(vm.frames, frame{
			fn:        fn,
			stackBase: len(vm.stack) - argCount,
		})
		return nil

	case callee.IsNative():
		native := callee.AsNative()
		if native.Arity != argCount {
			return vm.runtimeError("Expected %d arguments but got %d.", native.Arity, argCount)
		}
		args := make([]bytecode.Value, argCount)
		copy(args, vm.stack[len(vm.stack)-argCount:])
		result := native.Fn(args)
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		vm.push(result)
		return nil

	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}
