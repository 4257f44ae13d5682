/*
Package lr implements grammar analysis and the construction of parser tables.

# Building a Grammar

Grammars are either read from an EBNF description (see package ebnf) or specified
using a grammar builder object. Clients add rules, consisting of non-terminal
symbols and terminals. Grammars may contain epsilon-productions.

Example:

	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()  // S  ->  A a
	b.LHS("A").N("B").N("D").End()  // A  ->  B D
	b.LHS("B").T("b").End()         // B  ->  b
	b.LHS("B").Epsilon()            // B  ->
	b.LHS("D").T("d").End()         // D  ->  d
	b.LHS("D").Epsilon()            // D  ->

This results in the following trivial grammar:

	g, err := b.Grammar()
	fmt.Print(g.Dump())

	S -> A a
	A -> B D
	B -> b | ε
	D -> d | ε

Every symbol receives a unique integer ID on first registration. IDs are never
re-used, not even after a symbol has been removed by a grammar transformation.
The grammar owns a synthesized end-of-input terminal #eof and an augmented start
symbol S' with a single rule S' → S, which the LR construction uses to detect
acceptance.

# Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes the set of nullable
non-terminals, FIRST and FOLLOW sets for the grammar.

	ga := lr.Analysis(g)  // analyser for grammar above
	g.EachNonTerminal(func(N *lr.Symbol) {
	    fmt.Printf("FIRST(%s) = %v\n", N, ga.First(N).Labels(g))
	})

	// Output:
	FIRST(S) = [a b d]
	FIRST(A) = [b d ε]
	FIRST(B) = [b ε]
	FIRST(D) = [d ε]

Derived sets hold a reference to the grammar, not a copy. Grammar transformations
(RemoveUselessSymbols, RemoveNullProductions, RemoveDirectLeftRecursion) mutate
the grammar in place; clients have to call Refresh() on the analysis afterwards
and rebuild any automaton or table derived from the grammar. There is no
automatic dependency tracking.

None of the types in this package are safe for concurrent mutation. Hosts
using multiple goroutines have to serialize access to a grammar.

# Parser Construction

Using grammar analysis as input, a bottom-up parser table can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar, either from LR(0) items or from LR(1) items carrying a lookahead.
The CFSM will then be transformed into a parse table, mapping
(state, symbol) to a list of actions. A table cell with more than one action
signals a conflict. Conflicts are never resolved by this package.

Example:

	lrgen := lr.NewTableGenerator(ga)   // ga is an LRAnalysis, see above
	lrgen.CreateTables()                // construct CFSM and SLR(1) table
	if lrgen.HasConflicts { … }

The CFSM will not be thrown away, but is made available to the client.  This is
intended for debugging purposes. It can be exported to Graphviz's Dot-format.

Tables without conflicts may be used to parse input with package lr/driver.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gramma.lr'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.lr")
}
