/*
Package ebnf reads grammars from an EBNF-like description.

A grammar description is a list of declarations, each terminated by a semicolon:

	Expr   -> Expr ("+" | "-") Term | Term ;
	Term   -> Factor { ("*" | "/") Factor } ;
	Factor -> number | "(" Expr ")" ;

Names declared with "->" are non-terminals, all other names are terminals.
Quoted strings (double or single quotes) and numbers are terminals as well,
identified by their literal form. Single quotes are normalized to double
quotes, so '+' and "+" denote the same terminal, whereas a bare + is not
allowed at all. The first declaration designates the start symbol.

Operators are desugared into auxiliary non-terminals:

	X*          R → ε | X R
	X+          X R, with R as for X*
	X?          O → ε | X
	( p | q )   G → p | q
	[ p ]       same as ( p )?
	{ p }       same as ( p )*

Comments are either line comments, starting with // and extending to the end of
the line, or C-style block comments.

Parsing stops at the first error. Errors are of type *ParseError, or of the more
specific types *LexicalError and *UnexpectedTokenError, both of which unwrap to
a *ParseError carrying line and column.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ebnf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gramma.ebnf'.
func tracer() tracing.Trace {
	return tracing.Select("gramma.ebnf")
}
