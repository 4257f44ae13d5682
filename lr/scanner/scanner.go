/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.

Every token carries its span within the input and its line/column position.
Scanners report errors to an error handler. Errors carrying a position are
of type *scanner.Error.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gramma.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() gramma.Token
	SetErrorHandler(func(error))
}

// Error is a scanner error at a position of the input.
type Error struct {
	Pos gramma.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(&Error{Pos: gramma.Position{Line: s.Pos().Line, Col: s.Pos().Column}, Msg: msg})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() gramma.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   gramma.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   gramma.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
		pos:    gramma.Position{Line: t.Position.Line, Col: t.Position.Column},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   gramma.TokType
	lexeme string
	Val    interface{}
	span   gramma.Span
	pos    gramma.Position
}

// MakeDefaultToken creates a token. Clients may set a value afterwards.
func MakeDefaultToken(typ gramma.TokType, lexeme string, span gramma.Span, pos gramma.Position) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
		pos:    pos,
	}
}

// TokType is part of interface gramma.Token.
func (t DefaultToken) TokType() gramma.TokType {
	return t.kind
}

// Value is part of interface gramma.Token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of interface gramma.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface gramma.Token.
func (t DefaultToken) Span() gramma.Span {
	return t.span
}

// Pos is part of interface gramma.Token.
func (t DefaultToken) Pos() gramma.Position {
	return t.pos
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%q@%s", t.lexeme, t.pos)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case gramma.Token:
		return t.Lexeme()
	default:
		return fmt.Sprintf("%v", t)
	}
}
