package bytecode

// OpCode is one byte. Operands, when present, follow inline in the
// code stream at fixed widths noted per opcode (spec.md §4.4): idx16 =
// two bytes big-endian, slot8/argc8/field_count8 = one byte,
// offset16/type_id16 = two bytes big-endian.
type OpCode byte

const (
	// Stack.
	OpConstant OpCode = iota // Constant(idx16): [] -> [const[idx]]
	OpPop                    // Pop: [v] -> []
	OpDup                    // Dup: [v] -> [v, v]
	OpNil                    // Nil: [] -> [unit]

	// Variables.
	OpLoadLocal   // LoadLocal(slot8): [] -> [locals[slot]]
	OpStoreLocal  // StoreLocal(slot8): [v] -> [], locals[slot] = v
	OpLoadGlobal  // LoadGlobal(idx16): [] -> [globals[idx]]
	OpStoreGlobal // StoreGlobal(idx16): [v] -> [], globals[idx] = v

	// Arithmetic, typed per numeric kind (spec.md §4.4 "typed per
	// numeric kind") so the VM never branches on a runtime tag.
	OpAddI32
	OpAddI64
	OpAddU32
	OpAddU64
	OpAddF32
	OpAddF64
	OpSubI32
	OpSubI64
	OpSubU32
	OpSubU64
	OpSubF32
	OpSubF64
	OpMulI32
	OpMulI64
	OpMulU32
	OpMulU64
	OpMulF32
	OpMulF64
	OpDivI32
	OpDivI64
	OpDivU32
	OpDivU64
	OpDivF32
	OpDivF64
	OpModI32
	OpModI64
	OpModU32
	OpModU64

	// Logical/relational.
	OpNot // Not: [b] -> [!b]
	OpEq  // Eq: [a, b] -> [a == b]
	OpNe  // Ne: [a, b] -> [a != b]
	OpLt  // Lt: [a, b] -> [a < b]
	OpLe  // Le: [a, b] -> [a <= b]
	OpGt  // Gt: [a, b] -> [a > b]
	OpGe  // Ge: [a, b] -> [a >= b]
	OpNeg // Neg: [a] -> [-a] (unary minus; not in spec.md's opcode list by name but required to lower unary '-')

	// Control flow.
	OpJump        // Jump(offset16): unconditional
	OpJumpIfFalse // JumpIfFalse(offset16): [cond] -> [], jumps if false
	OpCall        // Call(func_index16, argc8): [callee-args...] -> [result]
	OpReturn      // Return: [v?] -> [] (in caller: pushes v)

	// Structs.
	OpMakeStruct // MakeStruct(type_id16, field_count8): [fields...] -> [struct]
	OpGetField   // GetField(index8): [struct] -> [field[index]]

	// Builtins.
	OpCallNative // CallNative(index8, argc8): [args...] -> [result]
)

var opcodeNames = map[OpCode]string{
	OpConstant: "Constant", OpPop: "Pop", OpDup: "Dup", OpNil: "Nil",
	OpLoadLocal: "LoadLocal", OpStoreLocal: "StoreLocal",
	OpLoadGlobal: "LoadGlobal", OpStoreGlobal: "StoreGlobal",
	OpAddI32: "AddI32", OpAddI64: "AddI64", OpAddU32: "AddU32", OpAddU64: "AddU64", OpAddF32: "AddF32", OpAddF64: "AddF64",
	OpSubI32: "SubI32", OpSubI64: "SubI64", OpSubU32: "SubU32", OpSubU64: "SubU64", OpSubF32: "SubF32", OpSubF64: "SubF64",
	OpMulI32: "MulI32", OpMulI64: "MulI64", OpMulU32: "MulU32", OpMulU64: "MulU64", OpMulF32: "MulF32", OpMulF64: "MulF64",
	OpDivI32: "DivI32", OpDivI64: "DivI64", OpDivU32: "DivU32", OpDivU64: "DivU64", OpDivF32: "DivF32", OpDivF64: "DivF64",
	OpModI32: "ModI32", OpModI64: "ModI64", OpModU32: "ModU32", OpModU64: "ModU64",
	OpNot: "Not", OpEq: "Eq", OpNe: "Ne", OpLt: "Lt", OpLe: "Le", OpGt: "Gt", OpGe: "Ge", OpNeg: "Neg",
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse", OpCall: "Call", OpReturn: "Return",
	OpMakeStruct: "MakeStruct", OpGetField: "GetField",
	OpCallNative: "CallNative",
}

func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "Unknown"
}
