package semantic

import (
	"strconv"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/types"
)

// analyzeExpr resolves e's type, recording it on the node via
// SetType, and returns it. expected carries context for literal
// defaulting (spec.md §4.3: declared type, argument type, return
// site, or sibling operand); pass ast.NoType where there is none.
func analyzeExpr(ctx *Context, e ast.Expr, expected types.ID) types.ID {
	var result types.ID
	switch expr := e.(type) {
	case *ast.Literal:
		result = analyzeLiteral(ctx, expr, expected)
	case *ast.Identifier:
		result = analyzeIdentifier(ctx, expr)
	case *ast.Unary:
		result = analyzeUnary(ctx, expr)
	case *ast.Binary:
		result = analyzeBinary(ctx, expr, expected)
	case *ast.Call:
		result = analyzeCall(ctx, expr)
	case *ast.Block:
		result = analyzeBlock(ctx, expr, expected)
	case *ast.If:
		result = analyzeIfAsExpr(ctx, expr, expected)
	case *ast.ErrorExpr:
		result = ast.NoType
	default:
		result = ast.NoType
	}
	e.SetType(result)
	return result
}

func analyzeIdentifier(ctx *Context, id *ast.Identifier) types.ID {
	sym, ok := ctx.Scope.Resolve(id.Name)
	if !ok {
		ctx.Collector.Add(errors.UndefinedVariable, "undefined name '"+id.Name+"'", id.Span())
		return ast.NoType
	}
	return sym.TypeID
}

func analyzeLiteral(ctx *Context, lit *ast.Literal, expected types.ID) types.ID {
	switch lit.Kind {
	case ast.LiteralBool:
		return types.Bool
	case ast.LiteralString:
		return types.String
	case ast.LiteralUnit:
		return types.Unit
	case ast.LiteralInt:
		return analyzeIntLiteral(ctx, lit, expected)
	case ast.LiteralFloat:
		return analyzeFloatLiteral(ctx, lit, expected)
	default:
		return ast.NoType
	}
}

func suffixToType(suffix string) (types.ID, bool) {
	switch suffix {
	case "i32":
		return types.I32, true
	case "i64":
		return types.I64, true
	case "u32":
		return types.U32, true
	case "u64":
		return types.U64, true
	case "f32":
		return types.F32, true
	case "f64":
		return types.F64, true
	default:
		return ast.NoType, false
	}
}

func analyzeIntLiteral(ctx *Context, lit *ast.Literal, expected types.ID) types.ID {
	target := types.I32
	if suffixID, ok := suffixToType(lit.Suffix); ok {
		target = suffixID
	} else if expected != ast.NoType && ctx.Registry.IsInteger(expected) {
		target = expected
	}

	if !inIntegerRange(ctx, target, lit.Raw) {
		ctx.Collector.Add(errors.LiteralOutOfRange,
			"literal "+lit.Raw+" does not fit in "+ctx.Registry.Name(target), lit.Span())
	}
	return target
}

// inIntegerRange reports whether raw (unsuffixed decimal digits) fits
// in target. u64's true range (up to 2^64-1) exceeds what
// Registry.IntegerRange can express as a signed pair, so it is parsed
// directly with strconv's unsigned 64-bit parser instead.
func inIntegerRange(ctx *Context, target types.ID, raw string) bool {
	if target == types.U64 {
		_, err := strconv.ParseUint(raw, 10, 64)
		return err == nil
	}
	min, max, ok := ctx.Registry.IntegerRange(target)
	if !ok {
		return true // not an integer type; a separate diagnostic already covers this
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Doesn't fit in int64 at all, so it's certainly out of range
		// for every narrower integer type except possibly u64 (handled
		// above).
		return false
	}
	return v >= min && v <= max
}

func analyzeFloatLiteral(ctx *Context, lit *ast.Literal, expected types.ID) types.ID {
	target := types.F64
	if suffixID, ok := suffixToType(lit.Suffix); ok {
		target = suffixID
	} else if expected != ast.NoType && ctx.Registry.IsFloat(expected) {
		target = expected
	}
	if _, err := strconv.ParseFloat(lit.Raw, 64); err != nil {
		ctx.Collector.Add(errors.LiteralOutOfRange, "literal "+lit.Raw+" is not a valid "+ctx.Registry.Name(target), lit.Span())
	}
	return target
}

func analyzeUnary(ctx *Context, u *ast.Unary) types.ID {
	operandType := analyzeExpr(ctx, u.Operand, ast.NoType)
	if isErrorType(operandType) {
		return ast.NoType
	}
	switch u.Op {
	case ast.UnaryNeg:
		if !ctx.Registry.IsNumeric(operandType) {
			ctx.Collector.Add(errors.TypeMismatch, "unary '-' requires a numeric operand, got "+ctx.Registry.Name(operandType), u.Span())
			return ast.NoType
		}
		return operandType
	case ast.UnaryNot:
		if operandType != types.Bool {
			ctx.Collector.Add(errors.TypeMismatch, "unary '!' requires a bool operand, got "+ctx.Registry.Name(operandType), u.Span())
			return ast.NoType
		}
		return types.Bool
	default:
		return ast.NoType
	}
}

// isFreeIntLiteral reports whether e is an integer literal with no
// width suffix, i.e. one whose concrete type still depends on context
// (spec.md §4.3 "literal integers without a suffix unify with the
// expected type of their context").
func isFreeIntLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralInt && lit.Suffix == ""
}

func analyzeBinary(ctx *Context, b *ast.Binary, expected types.ID) types.ID {
	var leftType, rightType types.ID
	if isFreeIntLiteral(b.Left) && !isFreeIntLiteral(b.Right) {
		rightType = analyzeExpr(ctx, b.Right, ast.NoType)
		leftType = analyzeExpr(ctx, b.Left, rightType)
	} else {
		opExpected := ast.NoType
		if b.Op.IsArithmetic() {
			opExpected = expected
		}
		leftType = analyzeExpr(ctx, b.Left, opExpected)
		rightType = analyzeExpr(ctx, b.Right, leftType)
	}

	if isErrorType(leftType) || isErrorType(rightType) {
		return ast.NoType
	}

	switch {
	case b.Op.IsArithmetic():
		return analyzeArithmetic(ctx, b, leftType, rightType)
	case b.Op.IsRelational():
		return analyzeRelational(ctx, b, leftType, rightType)
	case b.Op.IsEquality():
		if leftType != rightType {
			ctx.Collector.Add(errors.TypeMismatch,
				"cannot compare "+ctx.Registry.Name(leftType)+" with "+ctx.Registry.Name(rightType), b.Span())
			return ast.NoType
		}
		return types.Bool
	case b.Op.IsLogical():
		if leftType != types.Bool || rightType != types.Bool {
			ctx.Collector.Add(errors.TypeMismatch, "logical operator requires bool operands", b.Span())
			return ast.NoType
		}
		return types.Bool
	default:
		return ast.NoType
	}
}

func analyzeArithmetic(ctx *Context, b *ast.Binary, leftType, rightType types.ID) types.ID {
	if b.Op == ast.BinMod {
		if !ctx.Registry.IsInteger(leftType) || !ctx.Registry.IsInteger(rightType) {
			ctx.Collector.Add(errors.TypeMismatch, "'%' requires integer operands", b.Span())
			return ast.NoType
		}
	} else if !ctx.Registry.IsNumeric(leftType) || !ctx.Registry.IsNumeric(rightType) {
		ctx.Collector.Add(errors.TypeMismatch, "arithmetic requires numeric operands", b.Span())
		return ast.NoType
	}
	if leftType != rightType {
		ctx.Collector.Add(errors.TypeMismatch,
			"mismatched operand types "+ctx.Registry.Name(leftType)+" and "+ctx.Registry.Name(rightType), b.Span())
		return ast.NoType
	}

	if (b.Op == ast.BinDiv || b.Op == ast.BinMod) && ctx.Registry.IsInteger(leftType) && isLiteralZero(b.Right) {
		ctx.Collector.Add(errors.DivisionByZero, "division by literal zero", b.Right.Span())
	}

	return leftType
}

func isLiteralZero(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralInt && lit.Raw == "0"
}

func analyzeRelational(ctx *Context, b *ast.Binary, leftType, rightType types.ID) types.ID {
	matches := leftType == rightType && (ctx.Registry.IsNumeric(leftType) || leftType == types.String)
	if !matches {
		ctx.Collector.Add(errors.TypeMismatch,
			"relational operator requires matching numeric or string operands, got "+
				ctx.Registry.Name(leftType)+" and "+ctx.Registry.Name(rightType), b.Span())
		return ast.NoType
	}
	return types.Bool
}

func analyzeCall(ctx *Context, call *ast.Call) types.ID {
	if result, ok := analyzeBuiltinCall(ctx, call); ok {
		return result
	}

	sig, ok := ctx.Functions[call.Callee]
	if !ok {
		ctx.Collector.Add(errors.UndefinedFunction, "undefined function '"+call.Callee+"'", call.Span())
		for _, arg := range call.Args {
			analyzeExpr(ctx, arg, ast.NoType)
		}
		return ast.NoType
	}

	if len(call.Args) != len(sig.Params) {
		ctx.Collector.Add(errors.ArityMismatch,
			"'"+call.Callee+"' expects "+strconv.Itoa(len(sig.Params))+" argument(s), got "+strconv.Itoa(len(call.Args)),
			call.Span())
	}

	for i, arg := range call.Args {
		expected := ast.NoType
		if i < len(sig.Params) {
			expected = sig.Params[i]
		}
		argType := analyzeExpr(ctx, arg, expected)
		if i < len(sig.Params) && !isErrorType(argType) && !isErrorType(sig.Params[i]) && argType != sig.Params[i] {
			ctx.Collector.Add(errors.TypeMismatch,
				"argument "+strconv.Itoa(i+1)+" to '"+call.Callee+"' is "+ctx.Registry.Name(argType)+
					", expected "+ctx.Registry.Name(sig.Params[i]),
				arg.Span())
		}
	}

	return sig.Result
}

// analyzeIfAsExpr analyzes an `if` used for its value: both arms are
// required and must agree on type (spec.md §4.3 "If").
func analyzeIfAsExpr(ctx *Context, ifNode *ast.If, expected types.ID) types.ID {
	condType := analyzeExpr(ctx, ifNode.Cond, types.Bool)
	if !isErrorType(condType) && condType != types.Bool {
		ctx.Collector.Add(errors.TypeMismatch, "if condition must be bool, got "+ctx.Registry.Name(condType), ifNode.Cond.Span())
	}

	thenType := analyzeBlock(ctx, ifNode.Then, expected)

	if ifNode.Else == nil {
		ctx.Collector.Add(errors.IfBranchTypeMismatch, "'if' used as a value requires an 'else' branch", ifNode.Span())
		return ast.NoType
	}

	var elseType types.ID
	switch elseArm := ifNode.Else.(type) {
	case *ast.Block:
		elseType = analyzeBlock(ctx, elseArm, expected)
	case *ast.If:
		elseType = analyzeIfAsExpr(ctx, elseArm, expected)
	}

	if !isErrorType(thenType) && !isErrorType(elseType) && thenType != elseType {
		ctx.Collector.Add(errors.IfBranchTypeMismatch,
			"if/else branches have different types: "+ctx.Registry.Name(thenType)+" vs "+ctx.Registry.Name(elseType),
			ifNode.Span())
		return ast.NoType
	}
	return thenType
}
