package setalgebra

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// UnexpectedToken: a symbol that cannot appear at this point.
	UnexpectedToken ErrorKind = iota + 1
	// UnexpectedEnd: the expression ended while more input was required.
	UnexpectedEnd
	// UnmatchedParen: a group was opened but not closed by ')'.
	UnmatchedParen
)

// Sentinel errors for errors.Is matching against a *ParseError.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEnd   = errors.New("unexpected end of expression")
	ErrUnmatchedParen  = errors.New("unmatched parenthesis")
)

// String returns the string representation of the kind
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case UnmatchedParen:
		return "UnmatchedParen"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case UnexpectedToken:
		return ErrUnexpectedToken
	case UnexpectedEnd:
		return ErrUnexpectedEnd
	case UnmatchedParen:
		return ErrUnmatchedParen
	default:
		return nil
	}
}

// ParseError describes why an expression could not be parsed. Position is
// a rune index into the whitespace-stripped input.
type ParseError struct {
	Kind     ErrorKind
	Position int
	Found    string   // offending symbol, empty for UnexpectedEnd
	Expected []string // symbols that would have been accepted
}

func (e *ParseError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case UnexpectedToken:
		fmt.Fprintf(&b, "unexpected token '%s' at position %d", e.Found, e.Position)
	case UnexpectedEnd:
		fmt.Fprintf(&b, "unexpected end of expression at position %d", e.Position)
	case UnmatchedParen:
		fmt.Fprintf(&b, "unmatched '(' at position %d", e.Position)
		if e.Found != "" {
			fmt.Fprintf(&b, " (found '%s')", e.Found)
		}
	default:
		fmt.Fprintf(&b, "parse error at position %d", e.Position)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected one of: %s", strings.Join(e.Expected, " "))
	}
	return b.String()
}

// Is lets errors.Is match a *ParseError against the kind sentinels.
func (e *ParseError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// AsParseError extracts a *ParseError from err.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
