/*
Package driver provides a table-driven LR parser. Clients have to use the tools
of package lr to prepare a parse table. The parser utilizes this table to
create a right derivation for a given input, provided through a scanner.Tokenizer,
and returns it as a concrete parse tree.

The driver is intended for small to moderate grammars, e.g. for configuration
input, small domain-specific languages or for trying out grammars. The tables
may be of any kind (LR(0), SLR or LR(1)), as long as they are free of conflicts.
For ambiguous grammars, the driver refuses to parse.

# Usage

Clients construct a grammar, usually by using a grammar builder or package ebnf:

	b := lr.NewGrammarBuilder("Signed Variables")
	b.LHS("Var").N("Sign").T("id").End()  // Var  → Sign id
	b.LHS("Sign").T("+").End()            // Sign → +
	b.LHS("Sign").T("-").End()            // Sign → -
	b.LHS("Sign").Epsilon()               // Sign → ε
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts { … }  // cannot use a deterministic parser

Finally parse some input. Tokens have to be mapped to terminals of the grammar,
which ByLexeme does either by token class or by lexeme.

	p := driver.NewParser(lrgen.Table())
	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	mapper := driver.ByLexeme(g, map[gramma.TokType]string{scanner.Ident: "id"})
	tree, err := p.Parse(scan, mapper)

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package driver

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gramma.driver'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.driver")
}
