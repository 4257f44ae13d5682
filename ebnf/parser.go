package ebnf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/lr"
	"github.com/npillmayer/gramma/lr/scanner"
)

// Load reads a grammar description from a file. The grammar is named after the
// file's base name.
func Load(path string) (*lr.Grammar, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseString(filepath.Base(path), string(src))
}

// Parse reads a grammar description from r and creates a grammar named name.
func Parse(name string, r io.Reader) (*lr.Grammar, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(name, string(src))
}

// ParseString creates a grammar from a grammar description.
func ParseString(name string, src string) (*lr.Grammar, error) {
	lm, err := initLexer()
	if err != nil {
		return nil, fmt.Errorf("cannot create grammar tokenizer: %w", err)
	}
	sc, err := lm.Scanner(src)
	if err != nil {
		return nil, err
	}
	p := &parser{g: lr.NewGrammar(name), sc: sc}
	sc.SetErrorHandler(p.lexicalError)
	if err = p.fetch(); err != nil {
		return nil, err
	}
	if err = p.grammar(); err != nil {
		tracer().Infof("grammar %q: %v", name, err)
		return nil, err
	}
	tracer().Debugf("grammar %q has %d rules", name, p.g.RuleCount())
	return p.g, nil
}

// parser is a recursive descent parser for grammar descriptions. It
// keeps a single token of lookahead.
type parser struct {
	g      *lr.Grammar
	sc     scanner.Tokenizer
	tok    gramma.Token // lookahead
	lexErr error        // first lexical error, if any
}

func (p *parser) lexicalError(err error) {
	if p.lexErr != nil {
		return
	}
	lerr := &LexicalError{ParseError{Msg: err.Error()}}
	var serr *scanner.Error
	if errors.As(err, &serr) {
		lerr.Line, lerr.Col, lerr.Msg = serr.Pos.Line, serr.Pos.Col, serr.Msg
	}
	p.lexErr = lerr
}

// fetch reads the next lookahead token.
func (p *parser) fetch() error {
	p.tok = p.sc.NextToken()
	return p.lexErr
}

func (p *parser) peek() gramma.TokType {
	return p.tok.TokType()
}

// next consumes the lookahead token and returns it.
func (p *parser) next() (gramma.Token, error) {
	t := p.tok
	return t, p.fetch()
}

// expect consumes a token of the given kind or returns an error.
func (p *parser) expect(kind gramma.TokType) (gramma.Token, error) {
	if p.peek() != kind {
		return nil, p.unexpected(kind)
	}
	return p.next()
}

func (p *parser) unexpected(expected ...gramma.TokType) error {
	e := &UnexpectedTokenError{
		ParseError: ParseError{Line: p.tok.Pos().Line, Col: p.tok.Pos().Col},
		Found:      p.tok.Lexeme(),
	}
	for _, k := range expected {
		e.Expected = append(e.Expected, tokenName(k))
	}
	e.Msg = unexpectedMsg(e.Found, e.Expected)
	return e
}

func (p *parser) errorAt(tok gramma.Token, err error) error {
	return &ParseError{Line: tok.Pos().Line, Col: tok.Pos().Col, Msg: err.Error()}
}

// grammar = decl { decl }
func (p *parser) grammar() error {
	if p.peek() == tokEOF {
		return &ParseError{Line: p.tok.Pos().Line, Col: p.tok.Pos().Col,
			Msg: "grammar has no declarations"}
	}
	for p.peek() != tokEOF {
		if err := p.decl(); err != nil {
			return err
		}
	}
	return nil
}

// decl = IDENT "->" productions ";"
func (p *parser) decl() error {
	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	A, err := p.g.Declare(name.Lexeme())
	if err != nil {
		return p.errorAt(name, err)
	}
	if p.g.Start() == nil {
		if err = p.g.SetStart(A); err != nil {
			return p.errorAt(name, err)
		}
	}
	if _, err = p.expect(tokArrow); err != nil {
		return err
	}
	alts, err := p.productions(tokSemicolon)
	if err != nil {
		return err
	}
	if _, err = p.expect(tokSemicolon); err != nil {
		return err
	}
	for _, alt := range alts {
		if _, err = p.g.AddRule(A, alt...); err != nil {
			return p.errorAt(name, err)
		}
	}
	tracer().Debugf("declared %s with %d alternatives", A, len(alts))
	return nil
}

// productions = production { "|" production }
//
// closer is the token kind expected after the last production.
func (p *parser) productions(closer gramma.TokType) ([][]*lr.Symbol, error) {
	var alts [][]*lr.Symbol
	for {
		prod, err := p.production()
		if err != nil {
			return nil, err
		}
		alts = append(alts, prod)
		switch p.peek() {
		case tokBar:
			if _, err = p.next(); err != nil {
				return nil, err
			}
		case closer:
			return alts, nil
		default:
			return nil, p.unexpected(tokBar, closer, tokIdent, tokString, tokNumber,
				tokLParen, tokLBrack, tokLBrace)
		}
	}
}

// production = { term }, possibly empty.
func (p *parser) production() ([]*lr.Symbol, error) {
	var seq []*lr.Symbol
	for startsTerm(p.peek()) {
		syms, err := p.term()
		if err != nil {
			return nil, err
		}
		seq = append(seq, syms...)
	}
	return seq, nil
}

func startsTerm(k gramma.TokType) bool {
	switch k {
	case tokIdent, tokString, tokNumber, tokLParen, tokLBrack, tokLBrace:
		return true
	}
	return false
}

// term = primary [ "*" | "+" | "?" ]
func (p *parser) term() ([]*lr.Symbol, error) {
	unit, err := p.primary()
	if err != nil {
		return nil, err
	}
	var suffix func([]*lr.Symbol) ([]*lr.Symbol, error)
	switch p.peek() {
	case tokStar:
		suffix = p.repeat
	case tokPlus:
		suffix = func(unit []*lr.Symbol) ([]*lr.Symbol, error) {
			R, err := p.repeat(unit)
			return append(unit, R...), err
		}
	case tokQuestion:
		suffix = p.optional
	default:
		return unit, nil
	}
	if _, err = p.next(); err != nil {
		return nil, err
	}
	return suffix(unit)
}

// primary = IDENT | STRING | NUMBER | "(" productions ")" | "[" productions "]"
// | "{" productions "}"
//
// A primary is returned as a sequence of symbols. Groups with a single branch
// are inlined into the enclosing production.
func (p *parser) primary() ([]*lr.Symbol, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.TokType() {
	case tokIdent:
		A, err := p.reference(tok.Lexeme())
		if err != nil {
			return nil, p.errorAt(tok, err)
		}
		return []*lr.Symbol{A}, nil
	case tokString:
		A, err := p.g.Terminal(normalizeString(tok.Lexeme()))
		if err != nil {
			return nil, p.errorAt(tok, err)
		}
		return []*lr.Symbol{A}, nil
	case tokNumber:
		A, err := p.g.Terminal(tok.Lexeme())
		if err != nil {
			return nil, p.errorAt(tok, err)
		}
		return []*lr.Symbol{A}, nil
	case tokLParen:
		return p.group(tokRParen)
	case tokLBrack:
		unit, err := p.group(tokRBrack)
		if err != nil {
			return nil, err
		}
		return p.optional(unit)
	case tokLBrace:
		unit, err := p.group(tokRBrace)
		if err != nil {
			return nil, err
		}
		return p.repeat(unit)
	}
	panic(fmt.Sprintf("ebnf: primary called for token %v", tok))
}

// reference resolves a name used on a right hand side. Names not yet known
// are registered as terminals, to be promoted by a later declaration.
func (p *parser) reference(name string) (*lr.Symbol, error) {
	if A, ok := p.g.SymbolByName(name); ok {
		return A, nil
	}
	return p.g.Terminal(name)
}

// group parses the inner part of a bracketed construct, up to and including
// closer.
func (p *parser) group(closer gramma.TokType) ([]*lr.Symbol, error) {
	alts, err := p.productions(closer)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(closer); err != nil {
		return nil, err
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return p.auxiliary(alts...)
}

// repeat creates R → ε | unit R.
func (p *parser) repeat(unit []*lr.Symbol) ([]*lr.Symbol, error) {
	if len(unit) == 0 {
		return nil, nil
	}
	R := p.g.NewAuxiliary()
	return p.withRules(R, nil, append(append([]*lr.Symbol{}, unit...), R))
}

// optional creates O → ε | unit.
func (p *parser) optional(unit []*lr.Symbol) ([]*lr.Symbol, error) {
	if len(unit) == 0 {
		return nil, nil
	}
	return p.auxiliary(nil, unit)
}

// auxiliary creates a new auxiliary non-terminal with a rule for each body.
func (p *parser) auxiliary(bodies ...[]*lr.Symbol) ([]*lr.Symbol, error) {
	return p.withRules(p.g.NewAuxiliary(), bodies...)
}

func (p *parser) withRules(A *lr.Symbol, bodies ...[]*lr.Symbol) ([]*lr.Symbol, error) {
	for _, body := range bodies {
		if _, err := p.g.AddRule(A, body...); err != nil {
			return nil, err
		}
	}
	return []*lr.Symbol{A}, nil
}
