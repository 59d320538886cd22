package bytecode

// nativeIndex maps a builtin's name to the operand OpCallNative encodes
// for it. Slang currently has one builtin (spec.md §4.5): print_value,
// arity 1, returning unit. The table is indexed by the same names the
// semantic analyzer treats as builtins (internal/semantic/builtins.go),
// checked ahead of user function lookup so a user cannot shadow one.
var nativeIndex = map[string]int{
	"print_value": 0,
}

// nativeNames is nativeIndex inverted, for disassembly.
var nativeNames = []string{
	"print_value",
}
