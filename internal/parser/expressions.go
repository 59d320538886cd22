package parser

import (
	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/lexer"
)

// precedence levels, lowest to highest, matching spec.md §4.2's table:
// || < && < ==/!= < relational < + - < * / % < unary < primary.
const (
	lowest precedence = iota
	orPrec
	andPrec
	equalityPrec
	relationalPrec
	additivePrec
	multiplicativePrec
	unaryPrec
	callPrec
)

type precedence int

var binaryPrecedence = map[lexer.TokenType]precedence{
	lexer.OR_OR:   orPrec,
	lexer.AND_AND: andPrec,
	lexer.EQ_EQ:   equalityPrec,
	lexer.BANG_EQ: equalityPrec,
	lexer.LT:      relationalPrec,
	lexer.LT_EQ:   relationalPrec,
	lexer.GT:      relationalPrec,
	lexer.GT_EQ:   relationalPrec,
	lexer.PLUS:    additivePrec,
	lexer.MINUS:   additivePrec,
	lexer.STAR:    multiplicativePrec,
	lexer.SLASH:   multiplicativePrec,
	lexer.PERCENT: multiplicativePrec,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.OR_OR:   ast.BinOr,
	lexer.AND_AND: ast.BinAnd,
	lexer.EQ_EQ:   ast.BinEq,
	lexer.BANG_EQ: ast.BinNe,
	lexer.LT:      ast.BinLt,
	lexer.LT_EQ:   ast.BinLe,
	lexer.GT:      ast.BinGt,
	lexer.GT_EQ:   ast.BinGe,
	lexer.PLUS:    ast.BinAdd,
	lexer.MINUS:   ast.BinSub,
	lexer.STAR:    ast.BinMul,
	lexer.SLASH:   ast.BinDiv,
	lexer.PERCENT: ast.BinMod,
}

func (p *Parser) peekPrecedence() precedence {
	if prec, ok := binaryPrecedence[p.cur.Type]; ok {
		return prec
	}
	return lowest
}

// parseExpression climbs from minPrec: it parses one unary/primary
// term, then keeps folding in binary operators whose precedence is at
// or above minPrec, left-associatively.
func (p *Parser) parseExpression(minPrec precedence) ast.Expr {
	left := p.parseUnary()

	for {
		prec := p.peekPrecedence()
		if prec < minPrec || prec == lowest {
			break
		}
		opTok := p.cur
		p.nextToken()
		right := p.parseExpression(prec + 1)
		left = ast.NewBinary(spanOf(left.Span(), right.Span()), binaryOps[opTok.Type], left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS:
		start := p.cur.Span
		p.nextToken()
		operand := p.parseUnary()
		return ast.NewUnary(spanOf(start, operand.Span()), ast.UnaryNeg, operand)
	case lexer.BANG:
		start := p.cur.Span
		p.nextToken()
		operand := p.parseUnary()
		return ast.NewUnary(spanOf(start, operand.Span()), ast.UnaryNot, operand)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.TRUE, lexer.FALSE:
		return p.parseBoolLiteral()
	case lexer.STRING:
		lit := ast.NewLiteral(p.cur.Span, ast.LiteralString)
		lit.Str = p.cur.Literal
		p.nextToken()
		return lit
	case lexer.IDENT:
		return p.parseIdentOrCall()
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseExpression(lowest)
		p.expectParen()
		return inner
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIfConstruct()
	default:
		p.errorf(errors.ExpectedExpression, p.cur.Span, "expected expression, got %s", p.cur.Type)
		expr := ast.NewErrorExpr(p.cur.Span)
		p.recoverFromBadToken()
		return expr
	}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Span, ast.LiteralInt)
	lit.Raw, lit.Suffix = splitSuffix(p.cur.Literal, "i32", "i64", "u32", "u64")
	p.nextToken()
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Span, ast.LiteralFloat)
	lit.Raw, lit.Suffix = splitSuffix(p.cur.Literal, "f32", "f64")
	p.nextToken()
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	lit := ast.NewLiteral(p.cur.Span, ast.LiteralBool)
	lit.Bool = p.cur.Type == lexer.TRUE
	p.nextToken()
	return lit
}

// splitSuffix strips a known trailing width suffix from a numeric
// literal's raw text, e.g. "42i64" -> ("42", "i64"). The lexer has
// already validated that only these suffixes can appear.
func splitSuffix(lit string, suffixes ...string) (raw, suffix string) {
	for _, s := range suffixes {
		if len(lit) > len(s) && lit[len(lit)-len(s):] == s {
			return lit[:len(lit)-len(s)], s
		}
	}
	return lit, ""
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	start := p.cur.Span
	name := p.cur.Literal
	p.nextToken()

	if p.cur.Type != lexer.LPAREN {
		return ast.NewIdentifier(start, name)
	}

	p.nextToken() // consume '('
	var args []ast.Expr
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpression(lowest))
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	end := p.cur.Span
	p.expectParen()
	return ast.NewCall(spanOf(start, end), name, args)
}

// parseIfConstruct parses `if cond { ... } [else (if ... | { ... })]`.
// The resulting *ast.If is valid in both statement and expression
// position (spec.md §4.2); the caller decides how to use it.
func (p *Parser) parseIfConstruct() *ast.If {
	start := p.cur.Span
	p.nextToken() // consume 'if'

	cond := p.parseExpression(lowest)
	then := p.parseBlock()

	var els ast.Expr
	end := then.Span()
	if p.cur.Type == lexer.ELSE {
		p.nextToken()
		if p.cur.Type == lexer.IF {
			els = p.parseIfConstruct()
		} else {
			els = p.parseBlock()
		}
		end = els.Span()
	}

	return ast.NewIf(spanOf(start, end), cond, then, els)
}

// parseBlock parses `{ stmt* [tail] }`. A block that appears as the
// last item before '}' becomes the block's tail value, and so does a
// trailing if that has an else and whose then-arm ends in a tail
// expression; a trailing if without an else, or whose then-arm ends
// in a statement (such as `return`), stays a statement. Anywhere else
// a brace-bodied construct is a statement whose value (if any) is
// discarded, matching spec.md §4.2's block semantics.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	if !p.expect(lexer.LBRACE) {
		return ast.NewBlock(start, nil, nil)
	}

	var stmts []ast.Stmt
	var tail ast.Expr
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.LET:
			stmts = append(stmts, p.parseLetStmt())
		case lexer.FN:
			stmts = append(stmts, p.parseFunctionDecl())
		case lexer.STRUCT:
			stmts = append(stmts, p.parseStructDecl())
		case lexer.RETURN:
			stmts = append(stmts, p.parseReturnStmt())
		case lexer.IF:
			ifNode := p.parseIfConstruct()
			switch p.cur.Type {
			case lexer.SEMICOLON:
				p.nextToken()
				stmts = append(stmts, ifNode)
			case lexer.RBRACE:
				if ifNode.Else != nil && ifNode.Then.Tail != nil {
					tail = ifNode
				} else {
					stmts = append(stmts, ifNode)
				}
			default:
				stmts = append(stmts, ifNode)
			}
		case lexer.LBRACE:
			blockExpr := p.parseBlock()
			switch p.cur.Type {
			case lexer.SEMICOLON:
				p.nextToken()
				stmts = append(stmts, ast.NewExprStmt(blockExpr.Span(), blockExpr))
			case lexer.RBRACE:
				tail = blockExpr
			default:
				stmts = append(stmts, ast.NewExprStmt(blockExpr.Span(), blockExpr))
			}
		case lexer.IDENT:
			if p.peek.Type == lexer.ASSIGN {
				stmts = append(stmts, p.parseAssignStmt())
				break
			}
			fallthrough
		default:
			exprStart := p.cur.Span
			expr := p.parseExpression(lowest)
			_, alreadyRecovered := expr.(*ast.ErrorExpr)
			switch {
			case p.cur.Type == lexer.SEMICOLON:
				p.nextToken()
				stmts = append(stmts, ast.NewExprStmt(spanOf(exprStart, expr.Span()), expr))
			case p.cur.Type == lexer.RBRACE:
				tail = expr
			case alreadyRecovered:
				stmts = append(stmts, ast.NewErrorStmt(spanOf(exprStart, expr.Span())))
			default:
				p.errorf(errors.UnexpectedToken, p.cur.Span, "expected ';' or '}', got %s", p.cur.Type)
				stmts = append(stmts, ast.NewErrorStmt(spanOf(exprStart, p.cur.Span)))
				p.recoverToStatementBoundary()
			}
		}
	}
	end := p.cur.Span
	p.expectBrace()
	return ast.NewBlock(spanOf(start, end), stmts, tail)
}

func spanOf(a, b lexer.Span) lexer.Span {
	return lexer.Span{Start: a.Start, End: b.End}
}
