package lexmach

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'gramma.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	last    gramma.Position // position of the last token
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface.
//
// Input which cannot be matched is reported to the error handler as a
// *scanner.Error and skipped.
func (lms *LMScanner) NextToken() gramma.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.Error(&scanner.Error{
				Pos: gramma.Position{Line: ui.StartLine, Col: ui.StartColumn},
				Msg: fmt.Sprintf("invalid character %q", firstRune(ui.Text, ui.StartTC)),
			})
			next := ui.FailTC
			if next <= ui.StartTC {
				next = ui.StartTC + 1
			}
			lms.scanner.TC = next
		} else if serr, is := err.(*scanner.Error); is {
			lms.Error(serr)
		} else {
			lms.Error(&scanner.Error{Pos: lms.last, Msg: err.Error()})
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		n := uint64(len(lms.scanner.Text))
		return scanner.MakeDefaultToken(scanner.EOF, "", gramma.Span{n, n}, lms.last)
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	lms.last = gramma.Position{Line: token.StartLine, Col: token.StartColumn}
	t := scanner.MakeDefaultToken(
		gramma.TokType(token.Type),
		string(token.Lexeme),
		gramma.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
		lms.last,
	)
	t.Val = token.Value
	return t
}

func firstRune(text []byte, at int) rune {
	if at < 0 || at >= len(text) {
		return 0
	}
	return []rune(string(text[at:]))[0]
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Fail is a pre-defined action which reports the scanned match as an error.
// It is used for patterns matching malformed input, e.g. unterminated strings.
func Fail(msg string) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return nil, &scanner.Error{
			Pos: gramma.Position{Line: m.StartLine, Col: m.StartColumn},
			Msg: fmt.Sprintf("%s: %s", msg, m.Bytes),
		}
	}
}
