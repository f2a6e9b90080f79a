package setalgebra

import (
	"errors"
	"testing"
)

func TestLexer_NextToken(t *testing.T) {
	input := "A∪B'∩(C∪∅)U"

	expected := []struct {
		typ   TokenType
		value string
		pos   int
	}{
		{TokenAtom, "A", 0},
		{TokenUnion, "∪", 1},
		{TokenAtom, "B", 2},
		{TokenComplement, "'", 3},
		{TokenIntersect, "∩", 4},
		{TokenLeftParen, "(", 5},
		{TokenAtom, "C", 6},
		{TokenUnion, "∪", 7},
		{TokenAtom, "∅", 8},
		{TokenRightParen, ")", 9},
		{TokenAtom, "U", 10},
		{TokenEnd, "", 11},
	}

	lexer := NewLexer(input)
	for i, exp := range expected {
		tok := lexer.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token %d: expected type %s, got %s", i, exp.typ, tok.Type)
		}
		if tok.Value != exp.value {
			t.Errorf("token %d: expected value %q, got %q", i, exp.value, tok.Value)
		}
		if tok.Position != exp.pos {
			t.Errorf("token %d: expected position %d, got %d", i, exp.pos, tok.Position)
		}
	}

	// End is sticky
	if tok := lexer.NextToken(); tok.Type != TokenEnd {
		t.Errorf("expected END after exhaustion, got %s", tok)
	}
}

func TestTokenize_PositionsAfterWhitespaceStripping(t *testing.T) {
	tokens, err := Tokenize("  A \t∪\n B ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(tokens), tokens)
	}
	for i, want := range []int{0, 1, 2, 3} {
		if tokens[i].Position != want {
			t.Errorf("token %d position = %d, want %d", i, tokens[i].Position, want)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Errorf("Tokenize(%q) unexpected error: %v", input, err)
			continue
		}
		if len(tokens) != 1 || tokens[0].Type != TokenEnd {
			t.Errorf("Tokenize(%q) = %v, want [END]", input, tokens)
		}
	}
}

func TestTokenize_IllegalCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		found string
		pos   int
	}{
		{"unknown letter", "X", "X", 0},
		{"lowercase atom", "a", "a", 0},
		{"after whitespace", "A ∪ X", "X", 2},
		{"latin O with stroke", "Ø", "Ø", 0},
		{"greek phi", "A∪φ", "φ", 2},
		{"ascii union", "A|B", "|", 1},
		{"unicode prime", "A′", "′", 1},
		{"invalid utf-8", "A∪\xff", `\xff`, 2},
		{"invalid utf-8 after space", "A \xc3", `\xc3`, 1},
		{"replacement character", "A\uFFFD", "\uFFFD", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Kind != UnexpectedToken {
				t.Errorf("kind = %s, want UnexpectedToken", pe.Kind)
			}
			if pe.Found != tt.found {
				t.Errorf("found = %q, want %q", pe.Found, tt.found)
			}
			if pe.Position != tt.pos {
				t.Errorf("position = %d, want %d", pe.Position, tt.pos)
			}
		})
	}
}

func TestTokenType_String(t *testing.T) {
	tests := []struct {
		typ  TokenType
		want string
	}{
		{TokenEnd, "END"},
		{TokenIllegal, "ILLEGAL"},
		{TokenAtom, "ATOM"},
		{TokenUnion, "UNION"},
		{TokenIntersect, "INTERSECT"},
		{TokenComplement, "COMPLEMENT"},
		{TokenLeftParen, "LEFT_PAREN"},
		{TokenRightParen, "RIGHT_PAREN"},
		{TokenType(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("TokenType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestStripWhitespace(t *testing.T) {
	if got := StripWhitespace(" (A ∪ B)' \n"); got != "(A∪B)'" {
		t.Errorf("StripWhitespace = %q", got)
	}
	if got := StripWhitespace("A \xff B"); got != "A\xffB" {
		t.Errorf("StripWhitespace = %q, want invalid byte preserved", got)
	}
}

func TestRawColumn(t *testing.T) {
	tests := []struct {
		raw  string
		pos  int
		want int
	}{
		{"AB", 1, 1},
		{" A ∪ X", 2, 5},
		{"A∪", 2, 2},
		{"  A  ", 1, 5},
		{"", 0, 0},
	}
	for _, tt := range tests {
		if got := RawColumn(tt.raw, tt.pos); got != tt.want {
			t.Errorf("RawColumn(%q, %d) = %d, want %d", tt.raw, tt.pos, got, tt.want)
		}
	}
}
