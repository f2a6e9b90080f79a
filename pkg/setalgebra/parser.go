// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     setalgebra
// Description: Recursive descent parser for set-algebra expressions
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package setalgebra

// Grammar:
//
//	Expr          := Atom OperatorChain
//	               | '(' Expr ')' OperatorChain
//	Atom          := 'A' | 'B' | 'C' | 'U' | '∅'
//	OperatorChain := ε
//	               | '∪' Expr
//	               | '∩' Expr
//	               | "'" OperatorChain
//
// The right operand of ∪ and ∩ is a full Expr, so unparenthesised chains
// associate to the right and ∩ does not bind tighter than ∪.

var (
	exprStart  = []string{AtomA, AtomB, AtomC, UniverseAtom, EmptySymbol, "("}
	chainStart = []string{string(UnionSymbol), string(IntersectSymbol), string(ComplementSymbol), ")", "end"}
	endOnly    = []string{"end"}
)

// Parser implements recursive descent parsing over a token slice
type Parser struct {
	tokens  []Token
	pos     int
	current Token
}

// Parse tokenizes and parses input. The whole input must form exactly one
// expression; an empty input fails with UnexpectedEnd.
func Parse(input string) (Expr, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a token stream produced by Tokenize.
func ParseTokens(tokens []Token) (Expr, error) {
	p := &Parser{tokens: tokens}
	p.current = p.tokenAt(0)

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	// The grammar does not force consumption of trailing input
	if p.current.Type != TokenEnd {
		return nil, p.unexpected(endOnly)
	}

	return expr, nil
}

// parseExpr parses Expr := Atom OperatorChain | '(' Expr ')' OperatorChain
func (p *Parser) parseExpr() (Expr, error) {
	switch p.current.Type {
	case TokenAtom:
		atom := p.current
		p.advance()

		chain, err := p.parseOperatorChain()
		if err != nil {
			return nil, err
		}
		return &AtomExpr{Name: atom.Value, Chain: chain, Position: atom.Position}, nil

	case TokenLeftParen:
		open := p.current
		p.advance() // consume '('

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		switch p.current.Type {
		case TokenRightParen:
			p.advance() // consume ')'
		case TokenEnd:
			return nil, p.unexpected([]string{")"})
		default:
			// Unreachable for parseExpr output: a chain only ends at End or ')'.
			return nil, &ParseError{
				Kind:     UnmatchedParen,
				Position: open.Position,
				Found:    p.current.Value,
				Expected: []string{")"},
			}
		}

		chain, err := p.parseOperatorChain()
		if err != nil {
			return nil, err
		}
		return &GroupExpr{Inner: inner, Chain: chain, Position: open.Position}, nil

	default:
		return nil, p.unexpected(exprStart)
	}
}

// parseOperatorChain parses the operators following an atom or group. A
// closing ')' ends the chain but is left for the enclosing group.
func (p *Parser) parseOperatorChain() (Chain, error) {
	switch p.current.Type {
	case TokenEnd, TokenRightParen:
		return Identity{}, nil

	case TokenUnion:
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &UnionWith{RHS: rhs}, nil

	case TokenIntersect:
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &IntersectWith{RHS: rhs}, nil

	case TokenComplement:
		p.advance()
		rest, err := p.parseOperatorChain()
		if err != nil {
			return nil, err
		}
		return &ComplementThen{Rest: rest}, nil

	default:
		return nil, p.unexpected(chainStart)
	}
}

// Utility methods

// advance moves to the next token
func (p *Parser) advance() {
	if p.current.Type == TokenEnd {
		return
	}
	p.pos++
	p.current = p.tokenAt(p.pos)
}

// tokenAt returns the token at index i, or an End token past the slice.
func (p *Parser) tokenAt(i int) Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	end := 0
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Position + 1
		if p.tokens[n-1].Type == TokenEnd {
			end = p.tokens[n-1].Position
		}
	}
	return Token{Type: TokenEnd, Position: end}
}

// unexpected builds the error for the current token: UnexpectedEnd when
// the stream is exhausted, UnexpectedToken otherwise.
func (p *Parser) unexpected(expected []string) *ParseError {
	if p.current.Type == TokenEnd {
		return &ParseError{
			Kind:     UnexpectedEnd,
			Position: p.current.Position,
			Expected: expected,
		}
	}
	return &ParseError{
		Kind:     UnexpectedToken,
		Position: p.current.Position,
		Found:    p.current.Value,
		Expected: expected,
	}
}
