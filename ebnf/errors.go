package ebnf

import (
	"fmt"
	"strings"
)

// ParseError is a syntax error within a grammar description.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// LexicalError is an error on the character level, such as an invalid
// character or an unterminated string literal.
type LexicalError struct {
	ParseError
}

func (e *LexicalError) Error() string {
	return "lexical error at " + e.ParseError.Error()
}

// Unwrap returns the underlying ParseError.
func (e *LexicalError) Unwrap() error {
	return &e.ParseError
}

// UnexpectedTokenError is a ParseError for a token not acceptable at its
// position. Expected lists the kinds of tokens which would have been accepted.
type UnexpectedTokenError struct {
	ParseError
	Found    string   // lexeme of the offending token, empty at end of input
	Expected []string // names of acceptable token kinds
}

func (e *UnexpectedTokenError) Error() string {
	return e.ParseError.Error()
}

func unexpectedMsg(found string, expected []string) string {
	if found == "" {
		found = "end of input"
	} else {
		found = fmt.Sprintf("%q", found)
	}
	return fmt.Sprintf("unexpected %s, expected one of [%s]", found, strings.Join(expected, ", "))
}

// Unwrap returns the underlying ParseError.
func (e *UnexpectedTokenError) Unwrap() error {
	return &e.ParseError
}
