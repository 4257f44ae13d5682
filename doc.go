/*
Package gramma is a toolbox for analysing context-free grammars and for
generating parser tables from them.

Grammars are read from an EBNF-like notation or constructed programmatically.
Gramma computes the canonical derived data of a grammar (nullable symbols, FIRST
and FOLLOW sets), transforms grammars into a shape suitable for table-driven
parsing, and constructs LR(0), SLR(1), canonical LR(1) and LL(1) tables. Package
structure is as follows:

■ lr: Package lr holds the grammar model, grammar analysis and transformations,
the characteristic finite state machine (CFSM) of a grammar, and the parse table
builders.

■ ebnf: Package ebnf reads grammars from EBNF source text.

■ lr/driver: Package driver runs a generated LR table over a token stream.

■ lr/scanner: Tokenizers, either based on text/scanner or on lexmachine.

■ lr/rulefmt: Reading rules in the printed form "A -> b c | d".

Command gramma (cmd/gramma) makes the functionality available from the command line.

The base package contains data types which are used throughout all the other packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package gramma
