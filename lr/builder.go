package lr

import "fmt"

// GrammarBuilder is a helper type to construct a grammar programmatically.
//
//	b := lr.NewGrammarBuilder("G")
//	b.LHS("S").N("A").T("a").End()  // S  ->  A a
//	b.LHS("A").Epsilon()            // A  ->
//	g, err := b.Grammar()
//
// The first LHS becomes the start symbol. The first error encountered is kept
// and returned by Grammar(); all calls after an error are ignored.
type GrammarBuilder struct {
	g   *Grammar
	err error
}

// RuleBuilder is a builder type for a single rule. Clients receive one from
// GrammarBuilder.LHS(…).
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// NewGrammarBuilder returns a new builder for a grammar.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{g: NewGrammar(gname)}
}

// LHS starts a new rule for non-terminal s.
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	rb := &RuleBuilder{gb: gb}
	if gb.err != nil {
		return rb
	}
	A, err := gb.g.Declare(s)
	if err != nil {
		gb.err = err
		return rb
	}
	rb.lhs = A
	if gb.g.Start() == nil {
		gb.err = gb.g.SetStart(A)
	}
	return rb
}

// N appends a non-terminal to the right hand side of the rule.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	if rb.gb.err != nil {
		return rb
	}
	A, err := rb.gb.g.NonTerminal(s)
	if err != nil {
		rb.gb.err = err
		return rb
	}
	rb.rhs = append(rb.rhs, A)
	return rb
}

// T appends a terminal to the right hand side of the rule.
func (rb *RuleBuilder) T(s string) *RuleBuilder {
	if rb.gb.err != nil {
		return rb
	}
	A, err := rb.gb.g.Terminal(s)
	if err != nil {
		rb.gb.err = err
		return rb
	}
	rb.rhs = append(rb.rhs, A)
	return rb
}

// End closes the rule and adds it to the grammar.
func (rb *RuleBuilder) End() *Rule {
	if rb.gb.err != nil || rb.lhs == nil {
		return nil
	}
	r, err := rb.gb.g.AddRule(rb.lhs, rb.rhs...)
	if err != nil {
		rb.gb.err = err
		return nil
	}
	return r
}

// Epsilon closes the rule as an empty rule. Symbols appended before are discarded.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rhs = nil
	return rb.End()
}

// Grammar returns the grammar built so far, or the first error encountered.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.err != nil {
		return nil, fmt.Errorf("grammar %s: %w", gb.g.Name, gb.err)
	}
	if gb.g.Start() == nil {
		return nil, fmt.Errorf("grammar %s: %w", gb.g.Name, ErrNoStartSymbol)
	}
	return gb.g, nil
}
