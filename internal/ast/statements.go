package ast

import "github.com/slanglang/slang/internal/lexer"

// LetStmt is a `let` binding: `let [mut] name [: Type] = init;`.
type LetStmt struct {
	baseStmt
	Name         string
	NameSpan     lexer.Span
	DeclaredType string // type name as written, "" if omitted
	Init         Expr
	Mutable      bool
}

// NewLetStmt constructs a LetStmt.
func NewLetStmt(span lexer.Span, name string, nameSpan lexer.Span, declaredType string, init Expr, mutable bool) *LetStmt {
	return &LetStmt{
		baseStmt:     newBaseStmt(span),
		Name:         name,
		NameSpan:     nameSpan,
		DeclaredType: declaredType,
		Init:         init,
		Mutable:      mutable,
	}
}

// AssignStmt reassigns an existing `mut` binding: `name = value;`.
// Semantic analysis is responsible for checking that name resolves to
// a mutable variable and that value's type matches it.
type AssignStmt struct {
	baseStmt
	Name     string
	NameSpan lexer.Span
	Value    Expr
}

// NewAssignStmt constructs an AssignStmt.
func NewAssignStmt(span lexer.Span, name string, nameSpan lexer.Span, value Expr) *AssignStmt {
	return &AssignStmt{baseStmt: newBaseStmt(span), Name: name, NameSpan: nameSpan, Value: value}
}

// ExprStmt is an expression evaluated for its side effect; its value
// (if any) is discarded.
type ExprStmt struct {
	baseStmt
	X Expr
}

// NewExprStmt constructs an ExprStmt.
func NewExprStmt(span lexer.Span, x Expr) *ExprStmt {
	return &ExprStmt{baseStmt: newBaseStmt(span), X: x}
}

// Param is one function parameter: a name plus its declared type.
type Param struct {
	Name     string
	NameSpan lexer.Span
	TypeName string
}

// FunctionDecl declares a named function: parameters, a result type
// name (empty/"unit" if none declared), and a block body.
type FunctionDecl struct {
	baseStmt
	Name       string
	NameSpan   lexer.Span
	Params     []Param
	ResultType string // "" means unit
	Body       *Block
}

// NewFunctionDecl constructs a FunctionDecl.
func NewFunctionDecl(span lexer.Span, name string, nameSpan lexer.Span, params []Param, resultType string, body *Block) *FunctionDecl {
	return &FunctionDecl{
		baseStmt:   newBaseStmt(span),
		Name:       name,
		NameSpan:   nameSpan,
		Params:     params,
		ResultType: resultType,
		Body:       body,
	}
}

// StructField is one field of a StructDecl: a name and declared type
// name, in declaration order (struct field order is significant for
// MakeStruct/GetField indexing).
type StructField struct {
	Name     string
	TypeName string
}

// StructDecl declares a struct type and its ordered fields.
type StructDecl struct {
	baseStmt
	Name     string
	NameSpan lexer.Span
	Fields   []StructField
}

// NewStructDecl constructs a StructDecl.
func NewStructDecl(span lexer.Span, name string, nameSpan lexer.Span, fields []StructField) *StructDecl {
	return &StructDecl{baseStmt: newBaseStmt(span), Name: name, NameSpan: nameSpan, Fields: fields}
}

// ReturnStmt returns from the enclosing function, optionally with a
// value. Value is nil for a bare `return;`, valid only when the
// enclosing function's result type is unit.
type ReturnStmt struct {
	baseStmt
	Value Expr
}

// NewReturnStmt constructs a ReturnStmt.
func NewReturnStmt(span lexer.Span, value Expr) *ReturnStmt {
	return &ReturnStmt{baseStmt: newBaseStmt(span), Value: value}
}

// ErrorStmt marks a point where the parser could not make sense of a
// statement and recovered by skipping to the next statement boundary.
// Semantic analysis skips the subtree under an ErrorStmt entirely
// (spec.md §4.2 Recovery).
type ErrorStmt struct {
	baseStmt
}

// NewErrorStmt constructs an ErrorStmt.
func NewErrorStmt(span lexer.Span) *ErrorStmt {
	return &ErrorStmt{baseStmt: newBaseStmt(span)}
}
