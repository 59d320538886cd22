// Package ast defines Slang's abstract syntax tree. Every node owns a
// Span locating it in source, and every Expr carries a resolved Type
// once the semantic analyzer has run (spec.md §3, invariant 1).
package ast

import (
	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Span() lexer.Span
}

// Expr is implemented by every expression node. Type reports
// ast.NoType (types.ID(-1)) until semantic analysis assigns a type
// with SetType.
type Expr interface {
	Node
	exprNode()
	Type() types.ID
	SetType(types.ID)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// NoType marks an expression whose type has not yet been resolved.
// Distinguishing it from types.Bool (== 0) requires a sentinel outside
// the valid ID space.
const NoType types.ID = -1

// baseExpr factors the span + resolved-type bookkeeping shared by
// every expression node.
type baseExpr struct {
	span lexer.Span
	typ  types.ID
}

func (b *baseExpr) Span() lexer.Span   { return b.span }
func (b *baseExpr) Type() types.ID     { return b.typ }
func (b *baseExpr) SetType(t types.ID) { b.typ = t }
func (b *baseExpr) exprNode()          {}

func newBaseExpr(span lexer.Span) baseExpr {
	return baseExpr{span: span, typ: NoType}
}

// baseStmt factors the span shared by every statement node.
type baseStmt struct {
	span lexer.Span
}

func (b *baseStmt) Span() lexer.Span { return b.span }
func (b *baseStmt) stmtNode()        {}

func newBaseStmt(span lexer.Span) baseStmt {
	return baseStmt{span: span}
}

// Program is the root node: a flat list of top-level statements
// (struct definitions, function declarations, and — for script-style
// top-level code — ordinary statements).
type Program struct {
	Statements []Stmt
}
