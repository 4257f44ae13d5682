package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/lr"
	"github.com/npillmayer/gramma/lr/scanner"
)

// ErrConflictingTable is returned when trying to parse with a table containing
// conflicts.
var ErrConflictingTable = errors.New("parse table has conflicts")

// SyntaxError is returned for input not accepted by the parser.
type SyntaxError struct {
	Token    gramma.Token // offending token
	State    int          // parser state at the time of the error
	Expected []string     // terminals acceptable in this state
}

func (e *SyntaxError) Error() string {
	lexeme := e.Token.Lexeme()
	if e.Token.TokType() == scanner.EOF {
		lexeme = "end of input"
	}
	return fmt.Sprintf("%s: syntax error at %q, expected one of [%s]", e.Token.Pos(),
		lexeme, strings.Join(e.Expected, ", "))
}

// TokenMapper maps an input token to a terminal of the grammar. The end of input
// must be mapped to the grammar's EOF terminal.
type TokenMapper func(gramma.Token) (*lr.Symbol, bool)

// ByLexeme creates a TokenMapper which maps tokens by their token class first,
// using the labels in classes, and then by their lexeme. Class labels without
// a terminal in g are ignored. For the lexeme, a
// terminal with the lexeme as label is preferred to one with the quoted lexeme
// as a label (as created by package ebnf for string literals).
func ByLexeme(g *lr.Grammar, classes map[gramma.TokType]string) TokenMapper {
	return func(tok gramma.Token) (*lr.Symbol, bool) {
		if tok.TokType() == scanner.EOF {
			return g.EOF(), true
		}
		if label, ok := classes[tok.TokType()]; ok {
			if A, ok := terminal(g, label); ok {
				return A, true
			}
		}
		if A, ok := terminal(g, tok.Lexeme()); ok {
			return A, true
		}
		return terminal(g, `"`+tok.Lexeme()+`"`)
	}
}

func terminal(g *lr.Grammar, label string) (*lr.Symbol, bool) {
	A, ok := g.SymbolByName(label)
	if !ok || !A.IsTerminal() {
		return nil, false
	}
	return A, true
}

// Parser is a deterministic LR parser. Create and initialize one with
// driver.NewParser(…).
type Parser struct {
	table    *lr.ParseTable
	g        *lr.Grammar
	stack    []stackitem // parser stack
	onReduce func(*Node)
}

// We store pairs of CFSM states and parse tree nodes on the parse stack.
type stackitem struct {
	stateID int
	node    *Node
}

// Option configures a parser.
type Option func(*Parser)

// OnReduce sets a function to be called for each non-terminal node when it has
// been created.
func OnReduce(f func(*Node)) Option {
	return func(p *Parser) {
		p.onReduce = f
	}
}

// StackCapacity pre-allocates the parse stack.
func StackCapacity(n int) Option {
	return func(p *Parser) {
		p.stack = make([]stackitem, 0, n)
	}
}

// NewParser creates a parser for a parse table.
func NewParser(table *lr.ParseTable, opts ...Option) *Parser {
	p := &Parser{table: table}
	if table != nil {
		p.g = table.Grammar()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse starts a new parse, given a scanner tokenizing the input and a
// mapper from tokens to terminals.
//
// If the input is accepted, the root of the parse tree is returned. Its symbol
// is the start symbol of the grammar.
func (p *Parser) Parse(scan scanner.Tokenizer, mapper TokenMapper) (*Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.table == nil || p.g == nil {
		tracer().Errorf("parser not initialized")
		return nil, errors.New("parser not initialized")
	}
	if conflicts := p.table.Conflicts(); len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d conflicting cells, first is %s", ErrConflictingTable,
			len(conflicts), conflicts[0])
	}
	var scanErr error
	scan.SetErrorHandler(func(err error) {
		if scanErr == nil {
			scanErr = err
		}
	})
	p.stack = append(p.stack[:0], stackitem{stateID: p.table.CFSM().S0.ID})
	token := scan.NextToken()
	for {
		if scanErr != nil {
			return nil, scanErr
		}
		A, ok := mapper(token)
		if !ok {
			return nil, p.syntaxError(token)
		}
		tos := p.stack[len(p.stack)-1]
		actions := p.table.Actions(tos.stateID, A)
		tracer().Debugf("action(%d,%s)=%v", tos.stateID, A, actions)
		if len(actions) == 0 {
			return nil, p.syntaxError(token)
		}
		switch action := actions[0]; action.Kind {
		case lr.AcceptAction:
			tracer().Infof("input accepted")
			return tos.node, nil
		case lr.ShiftAction:
			tracer().Debugf("shifting %q, next state = %d", token.Lexeme(), action.Target)
			leaf := &Node{Symbol: A, Token: token, Span: token.Span()}
			p.stack = append(p.stack, stackitem{action.Target, leaf})
			token = scan.NextToken()
		case lr.ReduceAction:
			rule := p.table.Rule(action)
			if rule == nil {
				return nil, fmt.Errorf("no rule for %v in state %d, grammar changed after table construction?",
					action, tos.stateID)
			}
			node, err := p.reduce(rule, token)
			if err != nil {
				return nil, err
			}
			if p.onReduce != nil {
				p.onReduce(node)
			}
		default:
			return nil, fmt.Errorf("unexpected action %v in state %d", action, tos.stateID)
		}
	}
}

// reduce performs a reduce action for a rule
//
//	LHS → X1 … Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as
//
//	[TOS]  Sn(Xn) … S1(X1)  …
//
// They are replaced by a new node for LHS, with a state determined by the goto
// of the state below.
func (p *Parser) reduce(rule *lr.Rule, lookahead gramma.Token) (*Node, error) {
	tracer().Debugf("reduce %v", rule)
	n := rule.Len()
	handle := p.stack[len(p.stack)-n:]
	node := &Node{Symbol: rule.LHS, Rule: rule, Children: make([]*Node, n)}
	for i, item := range handle {
		if item.node.Symbol != rule.RHS()[i] {
			tracer().Errorf("expected %v on stack, got %v", rule.RHS()[i], item.node.Symbol)
		}
		node.Children[i] = item.node
		node.Span = node.Span.Extend(item.node.Span)
	}
	if n == 0 { // ε is located just before the lookahead
		pos := lookahead.Span().From()
		node.Span = gramma.Span{pos, pos}
	}
	p.stack = p.stack[:len(p.stack)-n]
	tos := p.stack[len(p.stack)-1]
	for _, a := range p.table.Actions(tos.stateID, rule.LHS) {
		if a.Kind == lr.GotoAction {
			tracer().Debugf("reduced to next state = %d", a.Target)
			p.stack = append(p.stack, stackitem{a.Target, node})
			return node, nil
		}
	}
	return nil, fmt.Errorf("no goto for %s in state %d", rule.LHS, tos.stateID)
}

func (p *Parser) syntaxError(token gramma.Token) error {
	e := &SyntaxError{Token: token, State: p.stack[len(p.stack)-1].stateID}
	p.g.EachTerminal(func(A *lr.Symbol) {
		if len(p.table.Actions(e.State, A)) > 0 {
			e.Expected = append(e.Expected, A.Name)
		}
	})
	tracer().Infof("%v", e)
	return e
}
