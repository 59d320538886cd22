package semantic

import (
	"strconv"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/types"
)

// builtinArity is the fixed builtin table spec.md §4.5 describes:
// initially one entry, print_value, which accepts exactly one
// argument of any type (its display is type-directed at runtime) and
// returns unit.
var builtinArity = map[string]int{
	"print_value": 1,
}

// analyzeBuiltinCall reports whether call.Callee names a builtin, and
// if so analyzes its arguments and returns its result type.
func analyzeBuiltinCall(ctx *Context, call *ast.Call) (types.ID, bool) {
	arity, ok := builtinArity[call.Callee]
	if !ok {
		return ast.NoType, false
	}

	if len(call.Args) != arity {
		ctx.Collector.Add(errors.ArityMismatch,
			"'"+call.Callee+"' expects "+strconv.Itoa(arity)+" argument(s), got "+strconv.Itoa(len(call.Args)),
			call.Span())
	}
	for _, arg := range call.Args {
		analyzeExpr(ctx, arg, ast.NoType)
	}
	return types.Unit, true
}
