package bytecode

import (
	"math"

	"github.com/slanglang/slang/internal/errors"
)

// execArithmetic handles every typed arithmetic opcode (spec.md §4.4:
// "typed per numeric kind"). Each case pops two operands already known
// (by the compiler, from static types) to share one numeric kind, and
// pushes a result tagged with that same kind.
func (vm *VM) execArithmetic(op OpCode, line int) error {
	switch op {
	case OpAddI32, OpSubI32, OpMulI32, OpDivI32, OpModI32:
		return vm.execSignedOp(op, line, KindI32, 32)
	case OpAddI64, OpSubI64, OpMulI64, OpDivI64, OpModI64:
		return vm.execSignedOp(op, line, KindI64, 64)
	case OpAddU32, OpSubU32, OpMulU32, OpDivU32, OpModU32:
		return vm.execUnsignedOp(op, line, KindU32, 32)
	case OpAddU64, OpSubU64, OpMulU64, OpDivU64, OpModU64:
		return vm.execUnsignedOp(op, line, KindU64, 64)
	case OpAddF32, OpSubF32, OpMulF32, OpDivF32:
		return vm.execFloatOp(op, line, KindF32, 32)
	case OpAddF64, OpSubF64, OpMulF64, OpDivF64:
		return vm.execFloatOp(op, line, KindF64, 64)
	default:
		return runtimeErrorf(errors.InternalCodegenError, line, "unknown opcode %s", op)
	}
}

func (vm *VM) execSignedOp(op OpCode, line int, kind ValueKind, width int) error {
	b := vm.pop().Int()
	a := vm.pop().Int()

	var result int64
	switch op {
	case OpAddI32, OpAddI64:
		result = a + b
	case OpSubI32, OpSubI64:
		result = a - b
	case OpMulI32, OpMulI64:
		result = a * b
	case OpDivI32, OpDivI64:
		if b == 0 {
			return runtimeErrorf(errors.DivisionByZero, line, "division by zero")
		}
		result = a / b
	case OpModI32, OpModI64:
		if b == 0 {
			return runtimeErrorf(errors.DivisionByZero, line, "division by zero")
		}
		result = a % b
	}
	if width == 32 && (result < math.MinInt32 || result > math.MaxInt32) {
		return runtimeErrorf(errors.IntegerOverflow, line, "i32 arithmetic overflow")
	}
	vm.push(Value{Kind: kind, intVal: result})
	return nil
}

func (vm *VM) execUnsignedOp(op OpCode, line int, kind ValueKind, width int) error {
	b := vm.pop().Uint()
	a := vm.pop().Uint()

	var result uint64
	switch op {
	case OpAddU32, OpAddU64:
		result = a + b
	case OpSubU32, OpSubU64:
		if width == 64 && b > a {
			return runtimeErrorf(errors.IntegerOverflow, line, "u64 subtraction underflow")
		}
		result = a - b
	case OpMulU32, OpMulU64:
		result = a * b
	case OpDivU32, OpDivU64:
		if b == 0 {
			return runtimeErrorf(errors.DivisionByZero, line, "division by zero")
		}
		result = a / b
	case OpModU32, OpModU64:
		if b == 0 {
			return runtimeErrorf(errors.DivisionByZero, line, "division by zero")
		}
		result = a % b
	}
	if width == 32 && result > math.MaxUint32 {
		return runtimeErrorf(errors.IntegerOverflow, line, "u32 arithmetic overflow")
	}
	vm.push(Value{Kind: kind, intVal: int64(result)})
	return nil
}

func (vm *VM) execFloatOp(op OpCode, line int, kind ValueKind, width int) error {
	b := vm.pop().Float()
	a := vm.pop().Float()

	var result float64
	switch op {
	case OpAddF32, OpAddF64:
		result = a + b
	case OpSubF32, OpSubF64:
		result = a - b
	case OpMulF32, OpMulF64:
		result = a * b
	case OpDivF32, OpDivF64:
		result = a / b // IEEE 754 division by zero yields Inf/NaN, not a trapped error (spec.md §8 Non-goals: "floating-point exception trapping")
	}
	if width == 32 {
		result = float64(float32(result))
	}
	vm.push(Value{Kind: kind, floatVal: result})
	return nil
}

func (vm *VM) execNeg(line int) error {
	v := vm.pop()
	switch v.Kind {
	case KindI32, KindI64:
		vm.push(Value{Kind: v.Kind, intVal: -v.intVal})
	case KindF32, KindF64:
		vm.push(Value{Kind: v.Kind, floatVal: -v.floatVal})
	default:
		return runtimeErrorf(errors.InternalCodegenError, line, "Neg applied to non-numeric value")
	}
	return nil
}

// execCompare handles Eq/Ne (any comparable kind) and Lt/Le/Gt/Ge
// (two numeric values of one kind, or two strings compared bytewise,
// matching spec.md §4.3's relational-operator typing rules already
// enforced by the semantic analyzer).
func (vm *VM) execCompare(op OpCode, line int) error {
	b := vm.pop()
	a := vm.pop()

	if op == OpEq || op == OpNe {
		eq := valuesEqual(a, b)
		if op == OpNe {
			eq = !eq
		}
		vm.push(BoolValue(eq))
		return nil
	}

	var less, equal bool
	switch a.Kind {
	case KindF32, KindF64:
		less, equal = a.Float() < b.Float(), a.Float() == b.Float()
	case KindU32, KindU64:
		less, equal = a.Uint() < b.Uint(), a.Uint() == b.Uint()
	case KindString:
		less, equal = a.Str() < b.Str(), a.Str() == b.Str()
	default:
		less, equal = a.Int() < b.Int(), a.Int() == b.Int()
	}

	var result bool
	switch op {
	case OpLt:
		result = less
	case OpLe:
		result = less || equal
	case OpGt:
		result = !less && !equal
	case OpGe:
		result = !less
	default:
		return runtimeErrorf(errors.InternalCodegenError, line, "unknown comparison opcode %s", op)
	}
	vm.push(BoolValue(result))
	return nil
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBool:
		return a.Bool() == b.Bool()
	case KindString:
		return a.Str() == b.Str()
	case KindF32, KindF64:
		return a.Float() == b.Float()
	case KindI32, KindI64, KindU32, KindU64:
		return a.intVal == b.intVal
	case KindUnit:
		return true
	default:
		return false
	}
}
