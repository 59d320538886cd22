package bytecode

import (
	"fmt"
	"strconv"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/types"
)

// parseIntLiteralValue converts a validated integer literal's raw
// digits into the int64 bit pattern Constant.Int stores. Semantic
// analysis already confirmed Raw fits lit.Type() (spec.md's
// LiteralOutOfRange check), so only the parse itself can fail here,
// and only as an invariant violation. u64 is parsed unsigned and
// reinterpreted as int64 bits, the same trick internal/semantic uses
// for its range check, and the one bytecode.Value.Uint undoes.
func parseIntLiteralValue(lit *ast.Literal) (int64, error) {
	if lit.Type() == types.U64 {
		v, err := strconv.ParseUint(lit.Raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bytecode: invalid u64 literal %q: %w", lit.Raw, err)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(lit.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bytecode: invalid integer literal %q: %w", lit.Raw, err)
	}
	return v, nil
}

// parseFloatLiteralValue converts a validated float literal's raw text
// into a float64; f32 literals are rounded through float32 first so
// the stored constant matches what an f32 OpConstant load will later
// be treated as.
func parseFloatLiteralValue(lit *ast.Literal) (float64, error) {
	v, err := strconv.ParseFloat(lit.Raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bytecode: invalid float literal %q: %w", lit.Raw, err)
	}
	if lit.Type() == types.F32 {
		return float64(float32(v)), nil
	}
	return v, nil
}

// valueKindForType maps a resolved numeric type to the runtime
// ValueKind tag it produces; used to stamp Constant.NumericKind so a
// loaded constant displays at its true declared width.
func valueKindForType(id types.ID) ValueKind {
	switch id {
	case types.I32:
		return KindI32
	case types.I64:
		return KindI64
	case types.U32:
		return KindU32
	case types.U64:
		return KindU64
	case types.F32:
		return KindF32
	case types.F64:
		return KindF64
	default:
		return KindUnit
	}
}
