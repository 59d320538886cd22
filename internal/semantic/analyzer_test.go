package semantic

import (
	"testing"

	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/parser"
)

// analyzeSource parses and analyzes input, failing the test immediately
// if parsing itself produced diagnostics (a parse failure means the
// semantic result isn't meaningful to assert on).
func analyzeSource(t *testing.T, input string) *Context {
	t.Helper()
	p := parser.New(lexer.New(input), input, "<test>")
	program := p.ParseProgram()
	if p.HasErrors() {
		t.Fatalf("parser errors: %v", p.Diagnostics())
	}
	return Analyze(program, input, "<test>")
}

func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	ctx := analyzeSource(t, input)
	if ctx.Collector.HasErrors() {
		t.Fatalf("expected no errors, got: %v", ctx.Collector.Diagnostics())
	}
}

// expectCode asserts at least one diagnostic with the given code was
// reported.
func expectCode(t *testing.T, input string, code errors.Code) {
	t.Helper()
	ctx := analyzeSource(t, input)
	for _, d := range ctx.Collector.Diagnostics() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected a diagnostic with code %v, got: %v", code, ctx.Collector.Diagnostics())
}

func TestDeclarationPassDuplicateFunction(t *testing.T) {
	expectCode(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		fn add(a: i32, b: i32) -> i32 { a + b }
	`, errors.DuplicateSymbol)
}

func TestDeclarationPassDuplicateStruct(t *testing.T) {
	expectCode(t, `
		struct Point { x: i32, y: i32 }
		struct Point { x: i32, y: i32 }
	`, errors.DuplicateSymbol)
}

func TestDeclarationPassDuplicateField(t *testing.T) {
	expectCode(t, `struct Point { x: i32, x: i32 }`, errors.DuplicateSymbol)
}

func TestDeclarationPassForwardReference(t *testing.T) {
	// earlier() calls later(), declared afterward; both signatures are
	// collected before body analysis runs.
	expectNoErrors(t, `
		fn earlier() -> i32 { later() }
		fn later() -> i32 { 42 }
	`)
}

func TestLetInfersTypeFromInit(t *testing.T) {
	expectNoErrors(t, `let x = 5;`)
}

func TestLetDeclaredTypeMismatch(t *testing.T) {
	expectCode(t, `let x: i32 = "hi";`, errors.TypeMismatch)
}

func TestLetUndefinedDeclaredType(t *testing.T) {
	expectCode(t, `let x: NoSuchType = 1;`, errors.UndefinedType)
}

func TestLetDuplicateInSameScope(t *testing.T) {
	expectCode(t, `
		let x = 1;
		let x = 2;
	`, errors.DuplicateSymbol)
}

func TestAssignToMutableOk(t *testing.T) {
	expectNoErrors(t, `
		let mut x = 1;
		x = 2;
	`)
}

func TestAssignToImmutableIsError(t *testing.T) {
	expectCode(t, `
		let x = 1;
		x = 2;
	`, errors.AssignToImmutable)
}

func TestAssignTypeMismatch(t *testing.T) {
	expectCode(t, `
		let mut x = 1;
		x = "oops";
	`, errors.TypeMismatch)
}

func TestAssignUndefinedVariable(t *testing.T) {
	expectCode(t, `x = 2;`, errors.UndefinedVariable)
}

func TestIntLiteralDefaultsToI32(t *testing.T) {
	expectNoErrors(t, `let x: i32 = 100;`)
}

func TestIntLiteralSuffixMismatch(t *testing.T) {
	expectCode(t, `let x: i32 = 5i64;`, errors.TypeMismatch)
}

func TestIntLiteralOutOfRange(t *testing.T) {
	expectCode(t, `let x: i32 = 99999999999;`, errors.LiteralOutOfRange)
}

func TestU64LiteralNearMaxFits(t *testing.T) {
	expectNoErrors(t, `let x: u64 = 18446744073709551615u64;`)
}

func TestU64LiteralOverflows(t *testing.T) {
	expectCode(t, `let x: u64 = 18446744073709551616u64;`, errors.LiteralOutOfRange)
}

func TestFloatLiteralDefaultsToF64(t *testing.T) {
	expectNoErrors(t, `
		fn f() -> f64 { 1.5 }
	`)
}

func TestArithmeticMismatchedTypes(t *testing.T) {
	expectCode(t, `let x = 1i32 + 1i64;`, errors.TypeMismatch)
}

func TestModuloRequiresIntegers(t *testing.T) {
	expectCode(t, `let x = 1.5 % 2.0;`, errors.TypeMismatch)
}

func TestDivisionByLiteralZeroIsCompileTimeError(t *testing.T) {
	expectCode(t, `let x = 1 / 0;`, errors.DivisionByZero)
}

func TestModuloByLiteralZeroIsCompileTimeError(t *testing.T) {
	expectCode(t, `let x = 1 % 0;`, errors.DivisionByZero)
}

func TestRelationalRequiresMatchingOperands(t *testing.T) {
	expectCode(t, `let x = 1i32 < 1i64;`, errors.TypeMismatch)
}

func TestLogicalRequiresBoolOperands(t *testing.T) {
	expectCode(t, `let x = 1 && true;`, errors.TypeMismatch)
}

func TestCallArityMismatch(t *testing.T) {
	expectCode(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		let x = add(1);
	`, errors.ArityMismatch)
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	expectCode(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		let x = add(1, "two");
	`, errors.TypeMismatch)
}

func TestCallUndefinedFunction(t *testing.T) {
	expectCode(t, `let x = nope();`, errors.UndefinedFunction)
}

func TestBuiltinPrintValueOk(t *testing.T) {
	expectNoErrors(t, `print_value(42);`)
}

func TestBuiltinPrintValueArityMismatch(t *testing.T) {
	expectCode(t, `print_value(1, 2);`, errors.ArityMismatch)
}

func TestIfAsStatementElseOptional(t *testing.T) {
	expectNoErrors(t, `
		let x = 1;
		if x > 0 {
			print_value(x);
		}
	`)
}

func TestIfAsExpressionRequiresElse(t *testing.T) {
	expectCode(t, `
		let x = if true { 1 } ;
	`, errors.IfBranchTypeMismatch)
}

func TestIfAsExpressionBranchMismatch(t *testing.T) {
	expectCode(t, `
		let x = if true { 1 } else { "no" };
	`, errors.IfBranchTypeMismatch)
}

func TestIfAsExpressionAgreeingBranches(t *testing.T) {
	expectNoErrors(t, `
		let x = if true { 1 } else { 2 };
	`)
}

func TestIfConditionMustBeBool(t *testing.T) {
	expectCode(t, `
		if 1 {
			print_value(1);
		}
	`, errors.TypeMismatch)
}

func TestFunctionMissingReturnOnSomePath(t *testing.T) {
	expectCode(t, `
		fn f(cond: bool) -> i32 {
			if cond {
				return 1;
			}
		}
	`, errors.MissingReturn)
}

func TestFunctionReturnsOnEveryPathViaIfElse(t *testing.T) {
	expectNoErrors(t, `
		fn f(cond: bool) -> i32 {
			if cond {
				return 1;
			} else {
				return 2;
			}
		}
	`)
}

func TestFunctionBodyTailTypeMismatch(t *testing.T) {
	expectCode(t, `
		fn f() -> i32 { "not a number" }
	`, errors.TypeMismatch)
}

func TestReturnOutsideFunctionIsInvalid(t *testing.T) {
	expectCode(t, `return 1;`, errors.InvalidStatement)
}

func TestBareReturnRequiresUnitResult(t *testing.T) {
	expectCode(t, `
		fn f() -> i32 {
			return;
		}
	`, errors.TypeMismatch)
}

func TestParametersAreImmutable(t *testing.T) {
	expectCode(t, `
		fn f(a: i32) {
			a = 2;
		}
	`, errors.AssignToImmutable)
}

func TestNestedFunctionCannotSeeEnclosingLocals(t *testing.T) {
	// No closures: a fn declared inside a block is analyzed against
	// global scope only, so referencing an outer local is undefined.
	expectCode(t, `
		fn outer() -> i32 {
			let x = 5;
			fn inner() -> i32 {
				x
			}
			inner()
		}
	`, errors.UndefinedVariable)
}

func TestBlockScopingShadowsOuterVariable(t *testing.T) {
	expectNoErrors(t, `
		let x = 1;
		{
			let x = "shadowed";
			print_value(x);
		}
		print_value(x);
	`)
}

func TestStructFieldTypesResolved(t *testing.T) {
	expectNoErrors(t, `
		struct Point { x: i32, y: i32 }
		fn origin() -> Point {
			let p: Point = origin();
			p
		}
	`)
}

func TestUndefinedVariableReported(t *testing.T) {
	expectCode(t, `let x = y;`, errors.UndefinedVariable)
}
