// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     setalgebra
// Description: Lexical analysis of set-algebra expressions
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package setalgebra

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEnd TokenType = iota
	TokenIllegal

	TokenAtom // A, B, C, U, ∅

	TokenUnion      // ∪
	TokenIntersect  // ∩
	TokenComplement // '

	TokenLeftParen  // (
	TokenRightParen // )
)

// Operator and delimiter symbols.
const (
	UnionSymbol      = '∪'
	IntersectSymbol  = '∩'
	ComplementSymbol = '\''
)

// Token is a single lexical token. Position is the rune index in the
// whitespace-stripped input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEnd:
		return "END"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%s)", t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type.String(), t.Value)
	}
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEnd:
		return "END"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenAtom:
		return "ATOM"
	case TokenUnion:
		return "UNION"
	case TokenIntersect:
		return "INTERSECT"
	case TokenComplement:
		return "COMPLEMENT"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	default:
		return "UNKNOWN"
	}
}

// Lexer performs lexical analysis on a whitespace-stripped expression.
// Every symbol of the language is a single code point, so the lexer works
// on runes and never looks ahead.
type Lexer struct {
	input    []rune
	invalid  map[int]byte
	position int
}

// NewLexer creates a new lexer for the given input. Whitespace is removed
// before scanning.
func NewLexer(input string) *Lexer {
	runes, invalid := decodeRunes(StripWhitespace(input))
	return &Lexer{input: runes, invalid: invalid}
}

// decodeRunes splits s into runes like []rune(s) but remembers the byte
// behind every invalid UTF-8 sequence, keyed by rune index.
func decodeRunes(s string) ([]rune, map[int]byte) {
	runes := make([]rune, 0, len(s))
	var invalid map[int]byte
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if invalid == nil {
				invalid = make(map[int]byte)
			}
			invalid[len(runes)] = s[i]
		}
		runes = append(runes, r)
		i += size
	}
	return runes, invalid
}

// symbolText renders the rune at index pos for ParseError.Found. Invalid
// bytes are shown escaped, e.g. \xff.
func symbolText(runes []rune, invalid map[int]byte, pos int) string {
	if b, ok := invalid[pos]; ok {
		return fmt.Sprintf("\\x%02x", b)
	}
	return string(runes[pos])
}

// NextToken returns the next token from the input. Once the input is
// exhausted it keeps returning TokenEnd.
func (l *Lexer) NextToken() Token {
	pos := l.position
	if pos >= len(l.input) {
		return Token{Type: TokenEnd, Position: pos}
	}

	ch := l.input[pos]
	l.position++

	switch ch {
	case 'A', 'B', 'C', 'U', '∅':
		return Token{Type: TokenAtom, Value: string(ch), Position: pos}
	case UnionSymbol:
		return Token{Type: TokenUnion, Value: string(ch), Position: pos}
	case IntersectSymbol:
		return Token{Type: TokenIntersect, Value: string(ch), Position: pos}
	case ComplementSymbol:
		return Token{Type: TokenComplement, Value: string(ch), Position: pos}
	case '(':
		return Token{Type: TokenLeftParen, Value: string(ch), Position: pos}
	case ')':
		return Token{Type: TokenRightParen, Value: string(ch), Position: pos}
	default:
		return Token{Type: TokenIllegal, Value: symbolText(l.input, l.invalid, pos), Position: pos}
	}
}

// Tokenize returns all tokens of the input, ending with TokenEnd. The
// first unknown symbol fails with an UnexpectedToken ParseError.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)+1)

	for {
		tok := l.NextToken()

		if tok.Type == TokenIllegal {
			return nil, &ParseError{
				Kind:     UnexpectedToken,
				Position: tok.Position,
				Found:    tok.Value,
			}
		}

		tokens = append(tokens, tok)
		if tok.Type == TokenEnd {
			return tokens, nil
		}
	}
}

// Tokenize is a convenience function that tokenizes input and returns tokens or error
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

// StripWhitespace removes every Unicode whitespace character from s.
func StripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			// Copy the source bytes so invalid UTF-8 survives for error reporting.
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// RawColumn maps a position in the whitespace-stripped expression, as
// reported by ParseError, back onto a rune column of the raw input.
// Positions past the last symbol map to the end of the input.
func RawColumn(raw string, pos int) int {
	col, seen := 0, 0
	for _, r := range raw {
		if !unicode.IsSpace(r) {
			if seen == pos {
				return col
			}
			seen++
		}
		col++
	}
	return col
}
