package ast

import (
	"testing"

	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/types"
)

func TestLiteralStartsUnresolved(t *testing.T) {
	lit := NewLiteral(lexer.Span{}, LiteralInt)
	if lit.Type() != NoType {
		t.Fatalf("expected fresh literal to have NoType, got %v", lit.Type())
	}
	lit.SetType(types.I32)
	if lit.Type() != types.I32 {
		t.Fatalf("expected SetType to stick, got %v", lit.Type())
	}
}

func TestIfSatisfiesExprAndStmt(t *testing.T) {
	cond := NewLiteral(lexer.Span{}, LiteralBool)
	then := NewBlock(lexer.Span{}, nil, nil)
	ifExpr := NewIf(lexer.Span{}, cond, then, NewBlock(lexer.Span{}, nil, nil))

	var _ Expr = ifExpr
	var _ Stmt = ifExpr
}

func TestElseIfChainUsesIfAsElse(t *testing.T) {
	innerCond := NewLiteral(lexer.Span{}, LiteralBool)
	innerThen := NewBlock(lexer.Span{}, nil, nil)
	elseIf := NewIf(lexer.Span{}, innerCond, innerThen, nil)

	outerCond := NewLiteral(lexer.Span{}, LiteralBool)
	outerThen := NewBlock(lexer.Span{}, nil, nil)
	outer := NewIf(lexer.Span{}, outerCond, outerThen, elseIf)

	if _, ok := outer.Else.(*If); !ok {
		t.Fatalf("expected Else to hold a nested *If for an else-if chain")
	}
}

func TestBlockWithNoTailHasNilTail(t *testing.T) {
	b := NewBlock(lexer.Span{}, []Stmt{NewExprStmt(lexer.Span{}, NewLiteral(lexer.Span{}, LiteralInt))}, nil)
	if b.Tail != nil {
		t.Fatalf("expected nil tail, got %v", b.Tail)
	}
}

func TestStructDeclPreservesFieldOrder(t *testing.T) {
	decl := NewStructDecl(lexer.Span{}, "Point", lexer.Span{}, []StructField{
		{Name: "x", TypeName: "i32"},
		{Name: "y", TypeName: "i32"},
	})
	if decl.Fields[0].Name != "x" || decl.Fields[1].Name != "y" {
		t.Fatalf("expected field order to be preserved, got %+v", decl.Fields)
	}
}
