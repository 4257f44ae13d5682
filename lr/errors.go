package lr

import "errors"

// Errors signalled by the grammar model and grammar transformations. They are
// wrapped with context information; use errors.Is to check for them.
//
// All of these flag a malformed or misused grammar. Operations never leave a
// grammar in a partially modified state when returning one of them.
var (
	// ErrSymbolKindConflict is returned when a label is requested as a terminal
	// but bound to a non-terminal, or vice versa.
	ErrSymbolKindConflict = errors.New("symbol kind conflict")

	// ErrUndeclaredSymbol is returned when a symbol is required, but not
	// registered with the grammar.
	ErrUndeclaredSymbol = errors.New("undeclared symbol")

	// ErrAuxiliaryReuse is returned when an auxiliary non-terminal is requested
	// as an ordinary non-terminal.
	ErrAuxiliaryReuse = errors.New("auxiliary symbol re-used as ordinary non-terminal")

	// ErrNoStartSymbol is returned for operations on grammars without a start symbol.
	ErrNoStartSymbol = errors.New("grammar has no start symbol")

	// ErrNotImplemented is returned for transformations which are intentionally left
	// unimplemented (removal of indirect left recursion).
	ErrNotImplemented = errors.New("not implemented")
)
