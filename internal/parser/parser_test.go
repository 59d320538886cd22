package parser

import (
	"testing"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/lexer"
)

func testParser(input string) *Parser {
	return New(lexer.New(input), input, "<test>")
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	diags := p.Diagnostics()
	if len(diags) == 0 {
		return
	}
	for _, d := range diags {
		t.Errorf("parser error: %s", d.Message)
	}
	t.FailNow()
}

func TestLetStatement(t *testing.T) {
	p := testParser(`let mut total: i32 = 5;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	if len(program.Statements) != 1 {
		t.Fatalf("program has wrong number of statements. got=%d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("statement is not *ast.LetStmt. got=%T", program.Statements[0])
	}
	if !stmt.Mutable {
		t.Error("expected mut to be set")
	}
	if stmt.Name != "total" {
		t.Errorf("Name = %q, want %q", stmt.Name, "total")
	}
	if stmt.DeclaredType != "i32" {
		t.Errorf("DeclaredType = %q, want %q", stmt.DeclaredType, "i32")
	}
	lit, ok := stmt.Init.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralInt || lit.Raw != "5" {
		t.Fatalf("Init = %#v, want int literal 5", stmt.Init)
	}
}

func TestLetStatementWithoutDeclaredType(t *testing.T) {
	p := testParser(`let x = 1;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.LetStmt)
	if stmt.DeclaredType != "" {
		t.Errorf("DeclaredType = %q, want empty", stmt.DeclaredType)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	p := testParser(`1 + 2 * 3;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.X.(*ast.Binary)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("expected top-level '+', got %#v", stmt.X)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op != ast.BinMul {
		t.Fatalf("expected '+' RHS to be '*', got %#v", bin.Right)
	}
}

func TestComparisonBindsLooserThanArithmetic(t *testing.T) {
	p := testParser(`1 + 2 < 3 * 4;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.X.(*ast.Binary)
	if !ok || bin.Op != ast.BinLt {
		t.Fatalf("expected top-level '<', got %#v", stmt.X)
	}
}

func TestLogicalAndBindsTighterThanOr(t *testing.T) {
	p := testParser(`true || false && true;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.X.(*ast.Binary)
	if !ok || bin.Op != ast.BinOr {
		t.Fatalf("expected top-level '||', got %#v", stmt.X)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("expected '||' RHS to be a nested '&&', got %#v", bin.Right)
	}
}

func TestUnaryNegationIsRightAssociative(t *testing.T) {
	p := testParser(`- -5;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	outer, ok := stmt.X.(*ast.Unary)
	if !ok || outer.Op != ast.UnaryNeg {
		t.Fatalf("expected outer unary neg, got %#v", stmt.X)
	}
	if _, ok := outer.Operand.(*ast.Unary); !ok {
		t.Fatalf("expected nested unary neg, got %#v", outer.Operand)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	p := testParser(`(1 + 2) * 3;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.X.(*ast.Binary)
	if !ok || bin.Op != ast.BinMul {
		t.Fatalf("expected top-level '*', got %#v", stmt.X)
	}
	if _, ok := bin.Left.(*ast.Binary); !ok {
		t.Fatalf("expected left operand to be the parenthesized '+', got %#v", bin.Left)
	}
}

func TestCallExpression(t *testing.T) {
	p := testParser(`add(1, 2 * 3);`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.Call)
	if !ok || call.Callee != "add" {
		t.Fatalf("expected call to 'add', got %#v", stmt.X)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestFunctionDecl(t *testing.T) {
	p := testParser(`fn add(a: i32, b: i32) -> i32 { a + b }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	fn, ok := program.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement is not *ast.FunctionDecl. got=%T", program.Statements[0])
	}
	if fn.Name != "add" || fn.ResultType != "i32" || len(fn.Params) != 2 {
		t.Fatalf("unexpected decl shape: %#v", fn)
	}
	if fn.Body.Tail == nil {
		t.Fatal("expected body's tail expression to be set")
	}
}

func TestFunctionDeclImplicitUnitResult(t *testing.T) {
	p := testParser(`fn greet() { return; }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	fn := program.Statements[0].(*ast.FunctionDecl)
	if fn.ResultType != "" {
		t.Errorf("ResultType = %q, want empty (unit)", fn.ResultType)
	}
}

func TestStructDecl(t *testing.T) {
	p := testParser(`struct Point { x: i32, y: i32 }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	decl := program.Statements[0].(*ast.StructDecl)
	if decl.Name != "Point" || len(decl.Fields) != 2 {
		t.Fatalf("unexpected struct shape: %#v", decl)
	}
	if decl.Fields[0].Name != "x" || decl.Fields[1].Name != "y" {
		t.Fatalf("fields out of order: %#v", decl.Fields)
	}
}

func TestIfExpressionWithElse(t *testing.T) {
	p := testParser(`let r = if x > 0 { 1 } else { 2 };`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.LetStmt)
	ifExpr, ok := stmt.Init.(*ast.If)
	if !ok {
		t.Fatalf("Init is not *ast.If. got=%T", stmt.Init)
	}
	if ifExpr.Else == nil {
		t.Fatal("expected Else to be set")
	}
}

func TestIfStatementWithoutElse(t *testing.T) {
	p := testParser(`if x > 0 { return; }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	ifStmt, ok := program.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("statement is not *ast.If. got=%T", program.Statements[0])
	}
	if ifStmt.Else != nil {
		t.Fatal("expected Else to be nil")
	}
}

func TestElseIfChain(t *testing.T) {
	p := testParser(`if x == 1 { return; } else if x == 2 { return; } else { return; }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	outer := program.Statements[0].(*ast.If)
	elseIf, ok := outer.Else.(*ast.If)
	if !ok {
		t.Fatalf("Else is not a nested *ast.If. got=%T", outer.Else)
	}
	if _, ok := elseIf.Else.(*ast.Block); !ok {
		t.Fatalf("innermost Else is not a *ast.Block. got=%T", elseIf.Else)
	}
}

func TestBlockTailWithoutTrailingSemicolon(t *testing.T) {
	p := testParser(`fn f() -> i32 { let x = 1; x }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	fn := program.Statements[0].(*ast.FunctionDecl)
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement before the tail, got %d", len(fn.Body.Statements))
	}
	ident, ok := fn.Body.Tail.(*ast.Identifier)
	if !ok || ident.Name != "x" {
		t.Fatalf("expected tail to be identifier 'x', got %#v", fn.Body.Tail)
	}
}

func TestBlockWithNoTailExpression(t *testing.T) {
	p := testParser(`fn f() { let x = 1; }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	fn := program.Statements[0].(*ast.FunctionDecl)
	if fn.Body.Tail != nil {
		t.Fatalf("expected nil tail, got %#v", fn.Body.Tail)
	}
}

func TestMissingSemicolonRecovers(t *testing.T) {
	p := testParser("let x = 1\nlet y = 2;")
	program := p.ParseProgram()

	if !p.HasErrors() {
		t.Fatal("expected a diagnostic for the missing ';'")
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected recovery to still produce 2 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[1].(*ast.LetStmt); !ok {
		t.Fatalf("expected recovery to resync on the next 'let', got %T", program.Statements[1])
	}
}

func TestInvalidExpressionRecoversAtNextStatement(t *testing.T) {
	p := testParser("let x = ;\nlet y = 2;")
	program := p.ParseProgram()

	if !p.HasErrors() {
		t.Fatal("expected a diagnostic for the missing initializer")
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements after recovery, got %d", len(program.Statements))
	}
	y, ok := program.Statements[1].(*ast.LetStmt)
	if !ok || y.Name != "y" {
		t.Fatalf("expected second statement to be 'let y', got %#v", program.Statements[1])
	}
}

func TestLexicalErrorsSurfaceThroughParser(t *testing.T) {
	p := testParser(`let s = "unterminated;`)
	p.ParseProgram()

	if !p.HasErrors() {
		t.Fatal("expected the unterminated string's lexical error to surface")
	}
}

func TestAssignStatement(t *testing.T) {
	p := testParser(`x = x + 1;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt, ok := program.Statements[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("statement is not *ast.AssignStmt. got=%T", program.Statements[0])
	}
	if stmt.Name != "x" {
		t.Errorf("Name = %q, want %q", stmt.Name, "x")
	}
	if _, ok := stmt.Value.(*ast.Binary); !ok {
		t.Errorf("Value = %#v, want *ast.Binary", stmt.Value)
	}
}

func TestAssignStatementInsideBlock(t *testing.T) {
	p := testParser(`fn f() { let mut x = 1; x = 2; }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	fn := program.Statements[0].(*ast.FunctionDecl)
	if len(fn.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements in body, got %d", len(fn.Body.Statements))
	}
	assign, ok := fn.Body.Statements[1].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("second statement is not *ast.AssignStmt. got=%T", fn.Body.Statements[1])
	}
	if assign.Name != "x" {
		t.Errorf("Name = %q, want %q", assign.Name, "x")
	}
}

func TestStringLiteralEscapesPreserved(t *testing.T) {
	p := testParser(`"a\nb";`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt := program.Statements[0].(*ast.ExprStmt)
	lit := stmt.X.(*ast.Literal)
	if lit.Str != "a\nb" {
		t.Errorf("Str = %q, want %q", lit.Str, "a\nb")
	}
}
