/*
Command gramma analyzes context-free grammars and creates parse tables for them.

Grammars are read from files in EBNF notation (see package ebnf). Sub-commands are

	gramma analyze   FILE              print nullable symbols, FIRST and FOLLOW sets
	gramma transform FILE [flags]      remove useless symbols, ε-rules, left recursion
	gramma table     FILE --kind K     create a parse table (lr0, slr, lr1, ll1)
	gramma repl      [FILE]            interactive session

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
