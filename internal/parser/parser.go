// Package parser turns a token stream into an AST via recursive
// descent with Pratt-style operator-precedence climbing for
// expressions (spec.md §4.2).
package parser

import (
	"fmt"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/lexer"
)

// Parser consumes tokens from a lexer.Lexer and builds an ast.Program.
// The AST is always returned even if errors occurred: statements that
// could not be parsed are replaced with an *ast.ErrorStmt after
// recovery, and semantic analysis is expected to skip those subtrees.
type Parser struct {
	lex *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	collector *errors.Collector
	source    string
	file      string
}

// New creates a Parser over l. source and file are used only to give
// diagnostics their source-line context and filename; file may be "".
func New(l *lexer.Lexer, source, file string) *Parser {
	p := &Parser{lex: l, collector: errors.NewCollector(source, file), source: source, file: file}
	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns the parse diagnostics collected so far.
func (p *Parser) Diagnostics() []*errors.Diagnostic {
	return p.collector.Diagnostics()
}

// HasErrors reports whether any parse diagnostic was collected.
func (p *Parser) HasErrors() bool {
	return p.collector.HasErrors()
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.cur.Type == t }

// expect consumes the current token if it has type t, else records an
// UnexpectedToken diagnostic and leaves the cursor where it is so the
// caller's recovery logic can decide what to skip.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(errors.UnexpectedToken, p.cur.Span, "expected %s, got %s", t, p.cur.Type)
	return false
}

func (p *Parser) errorf(code errors.Code, span lexer.Span, format string, args ...any) {
	p.collector.Add(code, fmt.Sprintf(format, args...), span)
}

// expectBrace and expectParen are expect's brace/paren-specific
// counterparts: an unclosed delimiter is common enough (and distinct
// enough for a reader) to warrant its own diagnostic code rather than
// the generic UnexpectedToken (spec.md §7).
func (p *Parser) expectBrace() bool {
	if p.curIs(lexer.RBRACE) {
		p.nextToken()
		return true
	}
	p.errorf(errors.UnclosedBrace, p.cur.Span, "unclosed '{', found %s", p.cur.Type)
	return false
}

func (p *Parser) expectParen() bool {
	if p.curIs(lexer.RPAREN) {
		p.nextToken()
		return true
	}
	p.errorf(errors.UnclosedParen, p.cur.Span, "unclosed '(', found %s", p.cur.Type)
	return false
}

// ParseProgram parses the whole token stream into a Program. Lexical
// errors accumulated by the underlying lexer are folded into the same
// diagnostics list so a caller only has to check one place. This has
// to happen after the parse loop, not before: the lexer only scans a
// token when the parser asks for it, so its error list isn't complete
// until every token has been consumed.
func (p *Parser) ParseProgram() *ast.Program {
	var stmts []ast.Stmt
	for !p.curIs(lexer.EOF) {
		stmts = append(stmts, p.parseTopLevelStatement())
	}

	for _, lexErr := range p.lex.Errors() {
		p.collector.Add(lexicalCode(lexErr.Code), lexErr.Message, lexer.Span{Start: lexErr.Pos, End: lexErr.Pos})
	}

	return &ast.Program{Statements: stmts}
}

func lexicalCode(c lexer.ErrorCode) errors.Code {
	switch c {
	case lexer.ErrUnterminatedString:
		return errors.UnterminatedString
	case lexer.ErrUnterminatedComment:
		return errors.UnterminatedComment
	case lexer.ErrInvalidEscape:
		return errors.InvalidEscape
	default:
		return errors.UnexpectedCharacter
	}
}

// parseTopLevelStatement parses one top-level item: a struct
// definition, a function declaration, or an ordinary statement
// (scripts mix top-level code with declarations freely).
func (p *Parser) parseTopLevelStatement() ast.Stmt {
	return p.parseStatement()
}
