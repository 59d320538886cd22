package semantic

import (
	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/symtab"
	"github.com/slanglang/slang/internal/types"
)

// BodyPass is the second pass: a depth-first walk that pushes a fresh
// scope per block/function/parameter list, defines variables on `let`,
// tracks mutability, and annotates every expression with its resolved
// type (spec.md §4.3 "Body analysis").
type BodyPass struct{}

func (BodyPass) Name() string { return "body-analysis" }

func (BodyPass) Run(program *ast.Program, ctx *Context) {
	for _, stmt := range program.Statements {
		analyzeTopLevelStmt(ctx, stmt)
	}
}

func analyzeTopLevelStmt(ctx *Context, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StructDecl:
		// fully handled by declaration collection.
	case *ast.FunctionDecl:
		analyzeFunctionDecl(ctx, s)
	default:
		analyzeStmt(ctx, stmt)
	}
}

func analyzeFunctionDecl(ctx *Context, decl *ast.FunctionDecl) {
	sig, ok := ctx.Functions[decl.Name]
	if !ok {
		return // declaration collection already reported this.
	}

	outerFunc := ctx.CurrentFunc
	outerScope := ctx.Scope
	ctx.CurrentFunc = sig
	ctx.Scope = symtab.NewEnclosed(ctx.Global)
	defer func() {
		ctx.CurrentFunc = outerFunc
		ctx.Scope = outerScope
	}()

	for i, p := range decl.Params {
		if !ctx.Scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.KindVariable, TypeID: sig.Params[i], Span: p.NameSpan, Mutable: false}) {
			ctx.Collector.Add(errors.DuplicateSymbol, "duplicate parameter '"+p.Name+"'", p.NameSpan)
		}
	}

	// Only a tail expression is checked against the result type here: a
	// body without one either returns explicitly (each return checks its
	// own value) or falls off the end, which MissingReturn reports below.
	bodyType := analyzeBlock(ctx, decl.Body, sig.Result)
	if decl.Body.Tail != nil && !isErrorType(bodyType) && !isErrorType(sig.Result) && bodyType != sig.Result {
		ctx.Collector.Add(errors.TypeMismatch,
			"function '"+decl.Name+"' returns "+ctx.Registry.Name(bodyType)+", expected "+ctx.Registry.Name(sig.Result),
			decl.Body.Span())
	}

	if sig.Result != types.Unit && !blockAlwaysYields(decl.Body) {
		ctx.Collector.Add(errors.MissingReturn, "function '"+decl.Name+"' does not return a value on every path", decl.NameSpan)
	}
}

// blockAlwaysYields is a conservative (not full control-flow) check:
// a block yields a value either via its tail expression or because
// its last statement is a return / an if-else whose every arm yields.
func blockAlwaysYields(block *ast.Block) bool {
	if block.Tail != nil {
		return true
	}
	if len(block.Statements) == 0 {
		return false
	}
	switch last := block.Statements[len(block.Statements)-1].(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.If:
		if last.Else == nil {
			return false
		}
		return blockAlwaysYields(last.Then) && elseAlwaysYields(last.Else)
	default:
		return false
	}
}

func elseAlwaysYields(e ast.Expr) bool {
	switch arm := e.(type) {
	case *ast.Block:
		return blockAlwaysYields(arm)
	case *ast.If:
		if arm.Else == nil {
			return false
		}
		return blockAlwaysYields(arm.Then) && elseAlwaysYields(arm.Else)
	default:
		return false
	}
}

// analyzeStmt analyzes one statement appearing inside a block (or at
// top level, outside any function). An expression statement is
// analyzed without an expected type, so its literals take their
// default types.
func analyzeStmt(ctx *Context, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		analyzeLetStmt(ctx, s)
	case *ast.AssignStmt:
		analyzeAssignStmt(ctx, s)
	case *ast.ExprStmt:
		analyzeExpr(ctx, s.X, ast.NoType)
	case *ast.ReturnStmt:
		analyzeReturnStmt(ctx, s)
	case *ast.If:
		analyzeIfAsStmt(ctx, s)
	case *ast.FunctionDecl:
		analyzeFunctionDecl(ctx, s)
	case *ast.ErrorStmt:
		// parser already reported this; nothing to analyze.
	}
}

func analyzeLetStmt(ctx *Context, s *ast.LetStmt) {
	declared := ast.NoType
	if s.DeclaredType != "" {
		declared = resolveTypeName(ctx, s.DeclaredType, s.NameSpan)
	}

	initType := analyzeExpr(ctx, s.Init, declared)
	resolved := declared
	if resolved == ast.NoType {
		resolved = initType
	} else if !isErrorType(initType) && !isErrorType(declared) && initType != declared {
		ctx.Collector.Add(errors.TypeMismatch,
			"cannot assign "+ctx.Registry.Name(initType)+" to '"+s.Name+"' of declared type "+ctx.Registry.Name(declared),
			s.Init.Span())
	}

	if !ctx.Scope.Define(&symtab.Symbol{Name: s.Name, Kind: symtab.KindVariable, TypeID: resolved, Span: s.NameSpan, Mutable: s.Mutable}) {
		ctx.Collector.Add(errors.DuplicateSymbol, "'"+s.Name+"' is already defined in this scope", s.NameSpan)
	}
}

// analyzeAssignStmt handles `name = value;`: name must resolve to a
// variable, that variable must be `mut`, and value's type must match
// it (spec.md's AssignToImmutable error and the StoreLocal/StoreGlobal
// codegen opcodes presuppose reassignment, even though the grammar
// summary only spells out `let`).
func analyzeAssignStmt(ctx *Context, s *ast.AssignStmt) {
	sym, ok := ctx.Scope.Resolve(s.Name)
	if !ok {
		ctx.Collector.Add(errors.UndefinedVariable, "undefined name '"+s.Name+"'", s.NameSpan)
		analyzeExpr(ctx, s.Value, ast.NoType)
		return
	}
	if sym.Kind != symtab.KindVariable {
		ctx.Collector.Add(errors.TypeMismatch, "'"+s.Name+"' is not a variable", s.NameSpan)
		analyzeExpr(ctx, s.Value, ast.NoType)
		return
	}
	if !sym.Mutable {
		ctx.Collector.Add(errors.AssignToImmutable, "cannot assign to immutable binding '"+s.Name+"'", s.NameSpan)
	}

	valueType := analyzeExpr(ctx, s.Value, sym.TypeID)
	if !isErrorType(valueType) && !isErrorType(sym.TypeID) && valueType != sym.TypeID {
		ctx.Collector.Add(errors.TypeMismatch,
			"cannot assign "+ctx.Registry.Name(valueType)+" to '"+s.Name+"' of type "+ctx.Registry.Name(sym.TypeID),
			s.Value.Span())
	}
}

func analyzeReturnStmt(ctx *Context, s *ast.ReturnStmt) {
	if ctx.CurrentFunc == nil {
		ctx.Collector.Add(errors.InvalidStatement, "'return' outside a function body", s.Span())
		return
	}

	if s.Value == nil {
		if ctx.CurrentFunc.Result != types.Unit {
			ctx.Collector.Add(errors.TypeMismatch,
				"bare 'return' requires a "+ctx.Registry.Name(ctx.CurrentFunc.Result)+" value", s.Span())
		}
		return
	}

	valueType := analyzeExpr(ctx, s.Value, ctx.CurrentFunc.Result)
	if !isErrorType(valueType) && !isErrorType(ctx.CurrentFunc.Result) && valueType != ctx.CurrentFunc.Result {
		ctx.Collector.Add(errors.TypeMismatch,
			"returned "+ctx.Registry.Name(valueType)+", expected "+ctx.Registry.Name(ctx.CurrentFunc.Result),
			s.Value.Span())
	}
}

// analyzeIfAsStmt analyzes an `if` appearing directly in a statement
// list: its value, if any, is discarded, so branches need not agree
// and an absent else is fine.
func analyzeIfAsStmt(ctx *Context, ifNode *ast.If) {
	condType := analyzeExpr(ctx, ifNode.Cond, types.Bool)
	if !isErrorType(condType) && condType != types.Bool {
		ctx.Collector.Add(errors.TypeMismatch, "if condition must be bool, got "+ctx.Registry.Name(condType), ifNode.Cond.Span())
	}

	analyzeBlock(ctx, ifNode.Then, ast.NoType)
	switch elseArm := ifNode.Else.(type) {
	case nil:
	case *ast.Block:
		analyzeBlock(ctx, elseArm, ast.NoType)
	case *ast.If:
		analyzeIfAsStmt(ctx, elseArm)
	}
	ifNode.SetType(types.Unit)
}

// analyzeBlock pushes a fresh scope, analyzes every statement, then
// analyzes the tail expression (if any) against expected, returning
// the block's resolved type (unit if there is no tail).
func analyzeBlock(ctx *Context, block *ast.Block, expected types.ID) types.ID {
	ctx.PushScope()
	defer ctx.PopScope()

	for _, stmt := range block.Statements {
		analyzeStmt(ctx, stmt)
	}

	if block.Tail == nil {
		block.SetType(types.Unit)
		return types.Unit
	}
	tailType := analyzeExpr(ctx, block.Tail, expected)
	block.SetType(tailType)
	return tailType
}
