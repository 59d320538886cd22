package semantic

import (
	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/symtab"
	"github.com/slanglang/slang/internal/types"
)

// DeclarationPass walks top-level items and registers struct types and
// function signatures before any body is analyzed, so forward
// references among top-level declarations resolve (spec.md §4.3).
type DeclarationPass struct{}

func (DeclarationPass) Name() string { return "declaration-collection" }

func (DeclarationPass) Run(program *ast.Program, ctx *Context) {
	for _, stmt := range program.Statements {
		collectDeclsInStmt(ctx, stmt)
	}
}

// collectDeclsInStmt collects struct/function signatures
// wherever they appear, not just at top level: the grammar allows `fn`
// inside any block, so a signature must be visible before body
// analysis reaches either the nested declaration or a forward call to
// it, the same as for top-level declarations.
func collectDeclsInStmt(ctx *Context, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StructDecl:
		collectStruct(ctx, s)
	case *ast.FunctionDecl:
		collectFunction(ctx, s)
		collectDeclsInBlock(ctx, s.Body)
	case *ast.LetStmt:
		collectDeclsInExpr(ctx, s.Init)
	case *ast.AssignStmt:
		collectDeclsInExpr(ctx, s.Value)
	case *ast.ExprStmt:
		collectDeclsInExpr(ctx, s.X)
	case *ast.ReturnStmt:
		if s.Value != nil {
			collectDeclsInExpr(ctx, s.Value)
		}
	case *ast.If:
		collectDeclsInExpr(ctx, s.Cond)
		collectDeclsInBlock(ctx, s.Then)
		collectDeclsInElseArm(ctx, s.Else)
	}
}

func collectDeclsInElseArm(ctx *Context, e ast.Expr) {
	switch arm := e.(type) {
	case *ast.Block:
		collectDeclsInBlock(ctx, arm)
	case *ast.If:
		collectDeclsInExpr(ctx, arm.Cond)
		collectDeclsInBlock(ctx, arm.Then)
		collectDeclsInElseArm(ctx, arm.Else)
	}
}

func collectDeclsInBlock(ctx *Context, block *ast.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		collectDeclsInStmt(ctx, stmt)
	}
	if block.Tail != nil {
		collectDeclsInExpr(ctx, block.Tail)
	}
}

// collectDeclsInExpr descends into the expression forms that can carry
// a nested block (and therefore a nested declaration): parenthesized
// grouping is flattened away by the parser already, so only blocks,
// ifs, and the operand/operator positions that might contain them need
// a visit.
func collectDeclsInExpr(ctx *Context, e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Block:
		collectDeclsInBlock(ctx, expr)
	case *ast.If:
		collectDeclsInExpr(ctx, expr.Cond)
		collectDeclsInBlock(ctx, expr.Then)
		collectDeclsInElseArm(ctx, expr.Else)
	case *ast.Unary:
		collectDeclsInExpr(ctx, expr.Operand)
	case *ast.Binary:
		collectDeclsInExpr(ctx, expr.Left)
		collectDeclsInExpr(ctx, expr.Right)
	case *ast.Call:
		for _, arg := range expr.Args {
			collectDeclsInExpr(ctx, arg)
		}
	}
}

func collectStruct(ctx *Context, decl *ast.StructDecl) {
	if _, exists := ctx.Structs[decl.Name]; exists {
		ctx.Collector.Add(errors.DuplicateSymbol, "struct '"+decl.Name+"' is already defined", decl.NameSpan)
		return
	}

	fields := make([]types.Field, 0, len(decl.Fields))
	seen := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		if seen[f.Name] {
			ctx.Collector.Add(errors.DuplicateSymbol, "duplicate field '"+f.Name+"' in struct '"+decl.Name+"'", decl.NameSpan)
			continue
		}
		seen[f.Name] = true
		fields = append(fields, types.Field{Name: f.Name, Type: resolveTypeName(ctx, f.TypeName, decl.NameSpan)})
	}

	id := ctx.Registry.RegisterStruct(decl.Name, fields)
	ctx.Structs[decl.Name] = &StructInfo{TypeID: id, Fields: fields}

	if !ctx.Global.Define(&symtab.Symbol{Name: decl.Name, Kind: symtab.KindType, TypeID: id, Span: decl.NameSpan}) {
		ctx.Collector.Add(errors.DuplicateSymbol, "'"+decl.Name+"' is already defined", decl.NameSpan)
	}
}

func collectFunction(ctx *Context, decl *ast.FunctionDecl) {
	if _, exists := ctx.Functions[decl.Name]; exists {
		ctx.Collector.Add(errors.DuplicateSymbol, "function '"+decl.Name+"' is already defined", decl.NameSpan)
		return
	}

	params := make([]types.ID, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = resolveTypeName(ctx, p.TypeName, p.NameSpan)
	}
	result := resolveTypeName(ctx, decl.ResultType, decl.NameSpan)

	sig := &FuncSig{Params: params, Result: result}
	ctx.Functions[decl.Name] = sig

	funcTypeID := ctx.Registry.RegisterFunction(params, result)
	if !ctx.Global.Define(&symtab.Symbol{Name: decl.Name, Kind: symtab.KindFunction, TypeID: funcTypeID, Span: decl.NameSpan}) {
		ctx.Collector.Add(errors.DuplicateSymbol, "'"+decl.Name+"' is already defined", decl.NameSpan)
	}
}
