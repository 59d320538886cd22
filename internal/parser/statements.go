package parser

import (
	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/lexer"
)

// parseStatement dispatches on the current token to the right
// statement production at top level; block bodies are parsed by
// parseBlock's own switch. A brace-bodied statement (if, block) needs
// no trailing ';'.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.FN:
		return p.parseFunctionDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		ifNode := p.parseIfConstruct()
		if p.cur.Type == lexer.SEMICOLON {
			p.nextToken()
		}
		return ifNode
	case lexer.LBRACE:
		block := p.parseBlock()
		if p.cur.Type == lexer.SEMICOLON {
			p.nextToken()
		}
		return ast.NewExprStmt(block.Span(), block)
	default:
		if p.cur.Type == lexer.IDENT && p.peek.Type == lexer.ASSIGN {
			return p.parseAssignStmt()
		}
		start := p.cur.Span
		expr := p.parseExpression(lowest)
		span := spanOf(start, expr.Span())
		if _, alreadyRecovered := expr.(*ast.ErrorExpr); alreadyRecovered {
			return ast.NewErrorStmt(span)
		}
		if !p.expect(lexer.SEMICOLON) {
			p.recoverToStatementBoundary()
		}
		return ast.NewExprStmt(span, expr)
	}
}

// parseAssignStmt parses `name = value;`, reassigning an existing
// `mut` binding. Mutability and type agreement are checked by semantic
// analysis, not here.
func (p *Parser) parseAssignStmt() ast.Stmt {
	start := p.cur.Span
	name := p.cur.Literal
	nameSpan := p.cur.Span
	p.nextToken() // consume name
	p.nextToken() // consume '='

	value := p.parseExpression(lowest)
	end := value.Span()

	if !p.expect(lexer.SEMICOLON) {
		p.recoverToStatementBoundary()
	}
	return ast.NewAssignStmt(spanOf(start, end), name, nameSpan, value)
}

// parseLetStmt parses `let [mut] name [: Type] = init;`.
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.cur.Span
	p.nextToken() // consume 'let'

	mutable := false
	if p.cur.Type == lexer.MUT {
		mutable = true
		p.nextToken()
	}

	if p.cur.Type != lexer.IDENT {
		p.errorf(errors.ExpectedIdentifier, p.cur.Span, "expected identifier after 'let', got %s", p.cur.Type)
		errStmt := ast.NewErrorStmt(p.cur.Span)
		p.recoverFromBadToken()
		return errStmt
	}
	name := p.cur.Literal
	nameSpan := p.cur.Span
	p.nextToken()

	declaredType := ""
	if p.cur.Type == lexer.COLON {
		p.nextToken()
		declaredType = p.parseTypeName()
	}

	p.expect(lexer.ASSIGN)
	init := p.parseExpression(lowest)
	end := init.Span()

	if !p.expect(lexer.SEMICOLON) {
		p.recoverToStatementBoundary()
	}
	return ast.NewLetStmt(spanOf(start, end), name, nameSpan, declaredType, init, mutable)
}

// parseTypeName consumes a type name: a primitive name (i32, string,
// ...) or a struct name, both lexed as a plain IDENT.
func (p *Parser) parseTypeName() string {
	if p.cur.Type != lexer.IDENT {
		p.errorf(errors.ExpectedType, p.cur.Span, "expected type name, got %s", p.cur.Type)
		return ""
	}
	name := p.cur.Literal
	p.nextToken()
	return name
}

// parseFunctionDecl parses `fn name(params) [-> ResultType] { body }`.
func (p *Parser) parseFunctionDecl() ast.Stmt {
	start := p.cur.Span
	p.nextToken() // consume 'fn'

	if p.cur.Type != lexer.IDENT {
		p.errorf(errors.ExpectedIdentifier, p.cur.Span, "expected function name, got %s", p.cur.Type)
		errStmt := ast.NewErrorStmt(p.cur.Span)
		p.recoverFromBadToken()
		return errStmt
	}
	name := p.cur.Literal
	nameSpan := p.cur.Span
	p.nextToken()

	p.expect(lexer.LPAREN)
	var params []ast.Param
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT {
			p.errorf(errors.ExpectedIdentifier, p.cur.Span, "expected parameter name, got %s", p.cur.Type)
			break
		}
		pName := p.cur.Literal
		pSpan := p.cur.Span
		p.nextToken()
		p.expect(lexer.COLON)
		pType := p.parseTypeName()
		params = append(params, ast.Param{Name: pName, NameSpan: pSpan, TypeName: pType})
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	p.expectParen()

	resultType := ""
	if p.cur.Type == lexer.ARROW {
		p.nextToken()
		resultType = p.parseTypeName()
	}

	body := p.parseBlock()
	return ast.NewFunctionDecl(spanOf(start, body.Span()), name, nameSpan, params, resultType, body)
}

// parseStructDecl parses `struct Name { field: Type, field: Type }`.
func (p *Parser) parseStructDecl() ast.Stmt {
	start := p.cur.Span
	p.nextToken() // consume 'struct'

	if p.cur.Type != lexer.IDENT {
		p.errorf(errors.ExpectedIdentifier, p.cur.Span, "expected struct name, got %s", p.cur.Type)
		errStmt := ast.NewErrorStmt(p.cur.Span)
		p.recoverFromBadToken()
		return errStmt
	}
	name := p.cur.Literal
	nameSpan := p.cur.Span
	p.nextToken()

	p.expect(lexer.LBRACE)
	var fields []ast.StructField
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT {
			p.errorf(errors.ExpectedIdentifier, p.cur.Span, "expected field name, got %s", p.cur.Type)
			break
		}
		fName := p.cur.Literal
		p.nextToken()
		p.expect(lexer.COLON)
		fType := p.parseTypeName()
		fields = append(fields, ast.StructField{Name: fName, TypeName: fType})
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	end := p.cur.Span
	p.expectBrace()
	return ast.NewStructDecl(spanOf(start, end), name, nameSpan, fields)
}

// parseReturnStmt parses `return [expr];`.
func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur.Span
	p.nextToken() // consume 'return'

	var value ast.Expr
	end := start
	if p.cur.Type != lexer.SEMICOLON {
		value = p.parseExpression(lowest)
		end = value.Span()
	}
	if !p.expect(lexer.SEMICOLON) {
		p.recoverToStatementBoundary()
	}
	return ast.NewReturnStmt(spanOf(start, end), value)
}
