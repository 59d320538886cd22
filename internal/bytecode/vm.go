package bytecode

import (
	"fmt"
	"io"

	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/types"
)

// maxFrames bounds the frame stack (spec.md §4.5: "a hard limit (e.g.,
// 1024 frames) is required").
const maxFrames = 1024

// RuntimeError is a failure raised during execution: a runtime error
// code plus the source line the line table attributes it to (spec.md
// §4.5 "Every runtime error carries an error code and the source line
// from the line table").
type RuntimeError struct {
	Code    errors.Code
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("error[E%04d]: %s (line %d)", int(e.Code), e.Message, e.Line)
}

func runtimeErrorf(code errors.Code, line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Line: line}
}

// frame is one call's activation record (spec.md §4.5 "State"):
// function index, instruction pointer, and the base-of-locals index
// into the value stack. The top-level script runs as frame 0, with no
// corresponding FunctionEntry.
type frame struct {
	funcIndex int // -1 for top level
	ip        int
	base      int
}

// VM executes a single Chunk. Output from the print_value builtin is
// written to Out, injected at construction rather than hard-wired to
// stdout, so tests can capture it (spec.md §4.5 "Builtins").
type VM struct {
	chunk    *Chunk
	registry *types.Registry
	Out      io.Writer

	stack   []Value
	frames  []frame
	globals []Value
}

// NewVM creates a VM ready to run chunk. registry resolves struct
// field names for print_value's display; it may be nil if chunk never
// constructs a struct value. out receives print_value's output.
func NewVM(chunk *Chunk, registry *types.Registry, out io.Writer) *VM {
	return &VM{chunk: chunk, registry: registry, Out: out}
}

// Run executes the chunk's top-level code, followed by whichever
// function bodies top-level calls into, until it falls off the end of
// top-level code or a runtime error occurs.
func (vm *VM) Run() error {
	for i := 0; i < vm.chunk.TopLevelLocals; i++ {
		vm.push(UnitValue)
	}
	vm.frames = append(vm.frames, frame{funcIndex: -1, ip: 0, base: 0})
	return vm.loop()
}

func (vm *VM) currentFrame() *frame {
	return &vm.frames[len(vm.frames)-1]
}

// frameEnd returns the byte offset one past the current frame's code
// (top-level ends at Chunk.TopLevelEnd; a function body ends where the
// next function's body begins, or at the chunk's end for the last one).
func (vm *VM) frameEnd(f *frame) int {
	if f.funcIndex < 0 {
		return vm.chunk.TopLevelEnd
	}
	for i := f.funcIndex + 1; i < len(vm.chunk.Functions); i++ {
		return vm.chunk.Functions[i].EntryOffset
	}
	return len(vm.chunk.Code)
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek() Value {
	return vm.stack[len(vm.stack)-1]
}

func (vm *VM) local(f *frame, slot int) Value {
	return vm.stack[f.base+slot]
}

func (vm *VM) setLocal(f *frame, slot int, v Value) {
	vm.stack[f.base+slot] = v
}

func (vm *VM) readByte(f *frame) byte {
	b := vm.chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readU16(f *frame) uint16 {
	v := vm.chunk.readU16(f.ip)
	f.ip += 2
	return v
}

// loop is the dispatch loop (spec.md §4.5 "Dispatch"): fetch one
// opcode, switch on it, advance ip. Control-flow and call opcodes
// manipulate vm.frames directly instead of recursing in Go, so a deep
// Slang call stack doesn't also deepen the Go call stack.
func (vm *VM) loop() error {
	for {
		f := vm.currentFrame()
		if f.ip >= vm.frameEnd(f) {
			if len(vm.frames) == 1 {
				return nil // top-level fell off the end with no explicit return
			}
			vm.popFrame(UnitValue)
			continue
		}

		line := vm.chunk.LineForOffset(f.ip)
		op := OpCode(vm.readByte(f))

		switch op {
		case OpConstant:
			idx := vm.readU16(f)
			vm.push(constantValue(vm.chunk.Constants[idx]))

		case OpPop:
			vm.pop()

		case OpDup:
			vm.push(vm.peek())

		case OpNil:
			vm.push(UnitValue)

		case OpLoadLocal:
			slot := int(vm.readByte(f))
			vm.push(vm.local(f, slot))

		case OpStoreLocal:
			slot := int(vm.readByte(f))
			vm.setLocal(f, slot, vm.pop())

		case OpLoadGlobal:
			idx := vm.readU16(f)
			vm.push(vm.globals[idx])

		case OpStoreGlobal:
			idx := vm.readU16(f)
			v := vm.pop()
			vm.ensureGlobalSlot(int(idx))
			vm.globals[idx] = v

		case OpNot:
			v := vm.pop()
			vm.push(BoolValue(!v.Bool()))

		case OpNeg:
			if err := vm.execNeg(line); err != nil {
				return err
			}

		case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
			if err := vm.execCompare(op, line); err != nil {
				return err
			}

		case OpJump:
			target := vm.readU16(f)
			f.ip = int(target)

		case OpJumpIfFalse:
			target := vm.readU16(f)
			cond := vm.pop()
			if !cond.Bool() {
				f.ip = int(target)
			}

		case OpCall:
			funcIdx := int(vm.readU16(f))
			argc := int(vm.readByte(f))
			if err := vm.call(funcIdx, argc); err != nil {
				return err
			}

		case OpCallNative:
			nativeIdx := int(vm.readByte(f))
			argc := int(vm.readByte(f))
			if err := vm.callNative(nativeIdx, argc, line); err != nil {
				return err
			}

		case OpReturn:
			if len(vm.frames) == 1 {
				return nil // top-level `return;`
			}
			result := UnitValue
			if len(vm.stack) > f.base {
				result = vm.pop()
			}
			vm.popFrame(result)

		case OpMakeStruct:
			vm.execMakeStruct(vm.readU16(f), int(vm.readByte(f)))

		case OpGetField:
			idx := int(vm.readByte(f))
			sv := vm.pop()
			vm.push(sv.Struct().Fields[idx])

		default:
			if err := vm.execArithmetic(op, line); err != nil {
				return err
			}
		}
	}
}

// ensureGlobalSlot grows the globals vector so index idx is
// addressable; globals live in their own array (spec.md §4.4's
// idx16-indexed "globals" are logically separate storage from the
// slot8-indexed locals of whichever frame is running), so storing a
// fresh global never collides with frame 0's own local slots.
func (vm *VM) ensureGlobalSlot(idx int) {
	for len(vm.globals) <= idx {
		vm.globals = append(vm.globals, UnitValue)
	}
}

func (vm *VM) popFrame(result Value) {
	f := vm.currentFrame()
	vm.stack = vm.stack[:f.base]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(result)
}

// call pushes a new frame for funcIdx, per spec.md §4.5 "Calls": the
// argc already-pushed arguments become the callee's first argc local
// slots, so base is set to leave them in place rather than popping and
// re-pushing them.
func (vm *VM) call(funcIdx, argc int) error {
	if len(vm.frames) >= maxFrames {
		line := vm.chunk.LineForOffset(vm.currentFrame().ip)
		return runtimeErrorf(errors.StackOverflow, line, "call stack exceeded %d frames", maxFrames)
	}
	entry := vm.chunk.Functions[funcIdx]
	base := len(vm.stack) - argc
	for i := argc; i < entry.LocalCount; i++ {
		vm.push(UnitValue)
	}
	vm.frames = append(vm.frames, frame{funcIndex: funcIdx, ip: entry.EntryOffset, base: base})
	return nil
}

func (vm *VM) callNative(idx, argc int, line int) error {
	if idx < 0 || idx >= len(nativeNames) {
		return runtimeErrorf(errors.UndefinedBuiltin, line, "undefined builtin #%d", idx)
	}
	args := make([]Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = vm.pop()
	}
	switch nativeNames[idx] {
	case "print_value":
		fmt.Fprintln(vm.Out, args[0].Display(vm.registry))
		vm.push(UnitValue)
		return nil
	default:
		return runtimeErrorf(errors.UndefinedBuiltin, line, "undefined builtin %q", nativeNames[idx])
	}
}

func (vm *VM) execMakeStruct(typeID uint16, fieldCount int) {
	fields := make([]Value, fieldCount)
	for i := fieldCount - 1; i >= 0; i-- {
		fields[i] = vm.pop()
	}
	vm.push(StructInstanceValue(&StructValue{TypeID: types.ID(typeID), Fields: fields}))
}

func constantValue(c Constant) Value {
	switch c.Kind {
	case ConstInt:
		kind := c.NumericKind
		if kind == KindUnit {
			kind = KindI64
		}
		return Value{Kind: kind, intVal: c.Int}
	case ConstFloat:
		kind := c.NumericKind
		if kind == KindUnit {
			kind = KindF64
		}
		return Value{Kind: kind, floatVal: c.Float}
	case ConstString:
		return StringValue(c.String)
	case ConstBool:
		return BoolValue(c.Bool)
	default:
		return UnitValue
	}
}
