package parser

import "github.com/slanglang/slang/internal/lexer"

// recoverToStatementBoundary implements spec.md §4.2's recovery rule:
// skip tokens until the next ';' (consumed) or a token that starts a
// new statement at brace-balance zero, so one bad statement doesn't
// cascade into its neighbors. It never consumes a token that is
// already a valid resync point (e.g. a missing ';' right before a
// following 'let' should resync on that 'let', not skip past it).
func (p *Parser) recoverToStatementBoundary() {
	p.scanToBoundary()
}

// recoverFromBadToken is recoverToStatementBoundary's variant for use
// right after reporting that the current token itself is invalid
// (ExpectedExpression and friends): that token can never be the
// resync point, so it is always skipped before scanning, guaranteeing
// forward progress even for a stray top-level '}'.
func (p *Parser) recoverFromBadToken() {
	if p.cur.Type == lexer.EOF {
		return
	}
	p.nextToken()
	p.scanToBoundary()
}

func (p *Parser) scanToBoundary() {
	depth := 0
	for {
		switch p.cur.Type {
		case lexer.EOF:
			return
		case lexer.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case lexer.LET, lexer.FN, lexer.STRUCT, lexer.RETURN, lexer.IF:
			if depth == 0 {
				return
			}
		}
		p.nextToken()
	}
}
