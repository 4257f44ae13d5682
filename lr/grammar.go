package lr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// EOFLabel is the label of the synthesized end-of-input terminal.
const EOFLabel = "#eof"

// Epsilon is the printed form of an empty right hand side.
const Epsilon = "ε"

// --- Symbols ---------------------------------------------------------------

// Symbol represents a grammar symbol, i.e. either a terminal or a non-terminal.
// Within a grammar there is exactly one symbol object per label.
type Symbol struct {
	Name     string // visible label of the symbol
	ID       int    // unique ID, assigned on registration
	terminal bool
	aux      bool    // synthesized by desugaring or by a transformation
	augment  bool    // the augmented start symbol S'
	dropped  bool    // removed from the grammar by a transformation
	rules    []*Rule // rules of a non-terminal, in order
}

// IsTerminal returns true if this symbol represents a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.terminal
}

// IsAuxiliary returns true for anonymous non-terminals introduced by EBNF
// desugaring or by left-recursion removal.
func (A *Symbol) IsAuxiliary() bool {
	return A.aux
}

// Rules returns the rules of a non-terminal, in order.
// Clients must not modify the returned slice.
func (A *Symbol) Rules() []*Rule {
	return A.rules
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Str is a sequence of grammar symbols, i.e. the right hand side of a rule or
// a part of it. Equality of strings is structural.
type Str []*Symbol

// Key returns a string made from the IDs of the symbols, suitable as a map key.
func (s Str) Key() string {
	var b strings.Builder
	for i, A := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(A.ID))
	}
	return b.String()
}

// Equals compares two strings of symbols structurally.
func (s Str) Equals(other Str) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].ID != other[i].ID {
			return false
		}
	}
	return true
}

func (s Str) String() string {
	if len(s) == 0 {
		return Epsilon
	}
	labels := make([]string, len(s))
	for i, A := range s {
		labels[i] = A.Name
	}
	return strings.Join(labels, " ")
}

// Rule is a grammar production  A → X1 … Xn.
type Rule struct {
	LHS    *Symbol // left hand side non-terminal
	rhs    Str     // right hand side, may be empty
	index  int     // position within the rules of LHS
	Serial int     // position within all rules of the grammar; 0 is the augmented rule
}

// RHS returns the right hand side of a rule. Clients must not modify it.
func (r *Rule) RHS() Str {
	return r.rhs
}

// Index returns the position of the rule within the rules of its LHS.
func (r *Rule) Index() int {
	return r.index
}

// Len returns the number of symbols on the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for empty rules.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.LHS.Name, r.rhs)
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar. Create one by calling
// NewGrammar, by using a GrammarBuilder, or by parsing an EBNF description.
//
// A grammar owns the symbol table, the rules, a start symbol and the
// synthesized end-of-input terminal. As soon as a start symbol is set, the
// grammar is augmented by a start rule S' → S.
type Grammar struct {
	Name       string
	symbols    []*Symbol          // indexed by symbol ID, dropped symbols included
	byName     map[string]*Symbol // active symbols by label
	start      *Symbol
	eof        *Symbol
	augmented  *Symbol
	augRule    *Rule
	rules      []*Rule // all rules, by serial
	auxCount   int
	leftRecAux map[int]*Symbol // auxiliary non-terminals from left-recursion removal
}

// NewGrammar creates an empty grammar. The end-of-input terminal #eof will
// always have ID 0.
func NewGrammar(name string) *Grammar {
	g := &Grammar{
		Name:   name,
		byName: make(map[string]*Symbol),
	}
	g.eof = g.register(EOFLabel, true)
	return g
}

func (g *Grammar) register(label string, terminal bool) *Symbol {
	A := &Symbol{Name: label, ID: len(g.symbols), terminal: terminal}
	g.symbols = append(g.symbols, A)
	g.byName[label] = A
	tracer().Debugf("registered symbol %s with ID %d", A, A.ID)
	return A
}

// EOF returns the end-of-input terminal.
func (g *Grammar) EOF() *Symbol {
	return g.eof
}

// Start returns the start symbol, or nil if none has been set.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// Augmented returns the augmented start symbol S' and its single rule S' → S.
// Both are nil as long as no start symbol is set.
func (g *Grammar) Augmented() (*Symbol, *Rule) {
	return g.augmented, g.augRule
}

// IsAugmented returns true if A is the augmented start symbol.
func (g *Grammar) IsAugmented(A *Symbol) bool {
	return A != nil && A.augment
}

// SetStart designates the start symbol of the grammar and (re-)creates the
// augmented start rule.
func (g *Grammar) SetStart(A *Symbol) error {
	if !g.owns(A) {
		return fmt.Errorf("%w: start symbol %v", ErrUndeclaredSymbol, A)
	}
	if A.terminal {
		return fmt.Errorf("%w: start symbol %s is a terminal", ErrSymbolKindConflict, A)
	}
	g.start = A
	if g.augmented == nil {
		label := A.Name + "'"
		for g.byName[label] != nil {
			label += "'"
		}
		g.augmented = g.register(label, false)
		g.augmented.augment = true
	}
	g.augRule = &Rule{LHS: g.augmented, rhs: Str{A}}
	g.augmented.rules = []*Rule{g.augRule}
	g.reindex()
	return nil
}

// Terminal returns the terminal for a label, registering it if it is unknown.
// It is an error to request a terminal for a label bound to a non-terminal.
func (g *Grammar) Terminal(label string) (*Symbol, error) {
	if A, ok := g.byName[label]; ok {
		if !A.terminal {
			return nil, fmt.Errorf("%w: %q is a non-terminal", ErrSymbolKindConflict, label)
		}
		return A, nil
	}
	return g.register(label, true), nil
}

// NonTerminal returns the non-terminal for a label, registering it if it is unknown.
// It is an error to request a non-terminal for a label bound to a terminal
// or to an auxiliary non-terminal.
func (g *Grammar) NonTerminal(label string) (*Symbol, error) {
	if A, ok := g.byName[label]; ok {
		if A.terminal {
			return nil, fmt.Errorf("%w: %q is a terminal", ErrSymbolKindConflict, label)
		}
		if A.aux || A.augment {
			return nil, fmt.Errorf("%w: %q", ErrAuxiliaryReuse, label)
		}
		return A, nil
	}
	return g.register(label, false), nil
}

// Declare returns the non-terminal for a label. In contrast to NonTerminal, a
// previously registered terminal with this label is promoted to a non-terminal.
// This is the transition used by front-ends which register names on first
// reference and learn about their kind only when seeing a declaration.
func (g *Grammar) Declare(label string) (*Symbol, error) {
	A, ok := g.byName[label]
	if !ok || !A.terminal {
		return g.NonTerminal(label)
	}
	if A == g.eof {
		return nil, fmt.Errorf("%w: cannot declare %s", ErrSymbolKindConflict, label)
	}
	tracer().Debugf("promoting terminal %s to non-terminal", A)
	A.terminal = false
	return A, nil
}

// NewAuxiliary creates a fresh anonymous non-terminal. Its label is $N, where
// N is a counter, skipping labels already in use.
func (g *Grammar) NewAuxiliary() *Symbol {
	var label string
	for {
		label = "$" + strconv.Itoa(g.auxCount)
		g.auxCount++
		if _, taken := g.byName[label]; !taken {
			break
		}
	}
	A := g.register(label, false)
	A.aux = true
	return A
}

// owns checks if A is an active symbol of this grammar.
func (g *Grammar) owns(A *Symbol) bool {
	return A != nil && A.ID >= 0 && A.ID < len(g.symbols) && g.symbols[A.ID] == A && !A.dropped
}

// AddRule adds a rule A → rhs to the grammar. If a structurally equal rule
// already exists, it is returned instead and the grammar is left unchanged.
func (g *Grammar) AddRule(A *Symbol, rhs ...*Symbol) (*Rule, error) {
	if !g.owns(A) {
		return nil, fmt.Errorf("%w: left hand side %v", ErrUndeclaredSymbol, A)
	}
	if A.terminal || A.augment {
		return nil, fmt.Errorf("%w: cannot add rule for %s", ErrSymbolKindConflict, A)
	}
	for _, X := range rhs {
		if !g.owns(X) || X.augment {
			return nil, fmt.Errorf("%w: %v in rule for %s", ErrUndeclaredSymbol, X, A)
		}
	}
	body := make(Str, len(rhs))
	copy(body, rhs)
	for _, r := range A.rules {
		if r.rhs.Equals(body) {
			return r, nil
		}
	}
	r := &Rule{LHS: A, rhs: body, index: len(A.rules)}
	A.rules = append(A.rules, r)
	g.reindex()
	return r, nil
}

// RemoveRules removes all rules for which pred returns true. The augmented start
// rule is never removed. Returns the number of rules removed.
func (g *Grammar) RemoveRules(pred func(*Rule) bool) int {
	cnt := 0
	g.EachNonTerminal(func(A *Symbol) {
		kept := A.rules[:0]
		for _, r := range A.rules {
			if pred(r) {
				tracer().Debugf("removing rule %v", r)
				cnt++
				continue
			}
			kept = append(kept, r)
		}
		for i := len(kept); i < len(A.rules); i++ {
			A.rules[i] = nil
		}
		A.rules = kept
	})
	if cnt > 0 {
		g.reindex()
	}
	return cnt
}

// setRules replaces the rules of a non-terminal. The caller is responsible
// for calling reindex.
func (g *Grammar) setRules(A *Symbol, bodies []Str) {
	A.rules = A.rules[:0]
	for _, body := range bodies {
		dup := false
		for _, r := range A.rules {
			if r.rhs.Equals(body) {
				dup = true
				break
			}
		}
		if !dup {
			A.rules = append(A.rules, &Rule{LHS: A, rhs: body, index: len(A.rules)})
		}
	}
}

// dropSymbol removes a symbol, including all its rules, from the grammar.
// The symbol's ID is not re-used.
func (g *Grammar) dropSymbol(A *Symbol) {
	if A == g.eof || A == g.start || A.augment {
		return
	}
	tracer().Debugf("dropping symbol %s", A)
	A.dropped = true
	A.rules = nil
	delete(g.byName, A.Name)
}

// reindex re-calculates rule positions and serials.
func (g *Grammar) reindex() {
	g.rules = g.rules[:0]
	if g.augRule != nil {
		g.rules = append(g.rules, g.augRule)
	}
	g.EachNonTerminal(func(A *Symbol) {
		for i, r := range A.rules {
			r.index = i
			r.Serial = len(g.rules)
			g.rules = append(g.rules, r)
		}
	})
}

// Rules returns the rules of a non-terminal.
func (g *Grammar) Rules(A *Symbol) []*Rule {
	return A.rules
}

// Rule returns the rule with a given serial number. Serial 0 denotes the
// augmented start rule (if present).
func (g *Grammar) Rule(serial int) *Rule {
	if serial < 0 || serial >= len(g.rules) {
		return nil
	}
	return g.rules[serial]
}

// RuleCount returns the number of rules, not including the augmented start rule.
func (g *Grammar) RuleCount() int {
	if g.augRule != nil {
		return len(g.rules) - 1
	}
	return len(g.rules)
}

// EachRule calls f for every rule, in order of their serial numbers. The
// augmented start rule is skipped.
func (g *Grammar) EachRule(f func(r *Rule)) {
	for _, r := range g.rules {
		if r != g.augRule {
			f(r)
		}
	}
}

// EachSymbol calls f for every active symbol of the grammar, in order of IDs.
// The augmented start symbol is not included.
func (g *Grammar) EachSymbol(f func(A *Symbol)) {
	for _, A := range g.symbols {
		if !A.dropped && !A.augment {
			f(A)
		}
	}
}

// EachTerminal calls f for every terminal (including #eof), in order of IDs.
func (g *Grammar) EachTerminal(f func(A *Symbol)) {
	g.EachSymbol(func(A *Symbol) {
		if A.terminal {
			f(A)
		}
	})
}

// EachNonTerminal calls f for every non-terminal, in order of IDs.
// The augmented start symbol is not included.
func (g *Grammar) EachNonTerminal(f func(A *Symbol)) {
	g.EachSymbol(func(A *Symbol) {
		if !A.terminal {
			f(A)
		}
	})
}

// SymbolCount returns the number of IDs handed out so far. This is an upper
// bound for symbol IDs, usable for dimensioning tables.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// SymbolByID returns the symbol with a given ID.
func (g *Grammar) SymbolByID(id int) (*Symbol, bool) {
	if id < 0 || id >= len(g.symbols) || g.symbols[id].dropped {
		return nil, false
	}
	return g.symbols[id], true
}

// SymbolByName returns the symbol for a label.
func (g *Grammar) SymbolByName(label string) (*Symbol, bool) {
	A, ok := g.byName[label]
	return A, ok
}

// Require returns the symbol for a label, or ErrUndeclaredSymbol.
func (g *Grammar) Require(label string) (*Symbol, error) {
	if A, ok := g.byName[label]; ok {
		return A, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUndeclaredSymbol, label)
}

// --- Reachability ----------------------------------------------------------

// Reachable returns all symbols reachable from a symbol (including the symbol
// itself), in order of IDs. If from is nil, reachability is computed from the
// start symbol.
func (g *Grammar) Reachable(from *Symbol) []*Symbol {
	if from == nil {
		from = g.start
	}
	if from == nil {
		return nil
	}
	return g.symbolList(g.reachableSet(from, nil))
}

// reachableSet computes the set of symbol IDs reachable from a symbol. If
// usable is non-nil, only rules consisting of symbols in usable are followed.
func (g *Grammar) reachableSet(from *Symbol, usable *intsets.Sparse) *intsets.Sparse {
	var R intsets.Sparse
	R.Insert(from.ID)
	worklist := []*Symbol{from}
	for len(worklist) > 0 {
		A := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, r := range A.rules {
			if usable != nil && !allIn(r.rhs, usable) {
				continue
			}
			for _, X := range r.rhs {
				if R.Insert(X.ID) {
					worklist = append(worklist, X)
				}
			}
		}
	}
	return &R
}

// TerminalDeriving returns all terminals and all non-terminals able to derive
// a string of terminals only, in order of IDs. #eof is not included.
func (g *Grammar) TerminalDeriving() []*Symbol {
	return g.symbolList(g.terminalDerivingSet())
}

func (g *Grammar) terminalDerivingSet() *intsets.Sparse {
	var T intsets.Sparse
	g.EachTerminal(func(A *Symbol) {
		if A != g.eof {
			T.Insert(A.ID)
		}
	})
	changed := true
	for changed {
		changed = false
		g.EachNonTerminal(func(A *Symbol) {
			if T.Has(A.ID) {
				return
			}
			for _, r := range A.rules {
				if allIn(r.rhs, &T) {
					T.Insert(A.ID)
					changed = true
					return
				}
			}
		})
	}
	return &T
}

func allIn(str Str, S *intsets.Sparse) bool {
	for _, X := range str {
		if !S.Has(X.ID) {
			return false
		}
	}
	return true
}

func (g *Grammar) symbolList(S *intsets.Sparse) []*Symbol {
	ids := S.AppendTo(nil)
	syms := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		if A, ok := g.SymbolByID(id); ok && !A.augment {
			syms = append(syms, A)
		}
	}
	return syms
}

// Labels returns the labels of a list of symbols.
func Labels(syms []*Symbol) []string {
	labels := make([]string, len(syms))
	for i, A := range syms {
		labels[i] = A.Name
	}
	return labels
}

// --- Printing --------------------------------------------------------------

// Dump returns the rules of a grammar in the printed form
//
//	NT -> sym1 sym2 | sym3
//
// with one line per non-terminal and ε for empty rules. Non-terminals without
// rules are omitted.
func (g *Grammar) Dump() string {
	var b strings.Builder
	g.EachNonTerminal(func(A *Symbol) {
		if len(A.rules) == 0 {
			return
		}
		b.WriteString(A.Name)
		b.WriteString(" ->")
		for i, r := range A.rules {
			if i > 0 {
				b.WriteString(" |")
			}
			b.WriteByte(' ')
			b.WriteString(r.rhs.String())
		}
		b.WriteByte('\n')
	})
	return b.String()
}

func (g *Grammar) String() string {
	return fmt.Sprintf("grammar %s (%d terminals, %d non-terminals, %d rules)",
		g.Name, g.countSymbols(true), g.countSymbols(false), g.RuleCount())
}

func (g *Grammar) countSymbols(terminal bool) int {
	n := 0
	g.EachSymbol(func(A *Symbol) {
		if A.terminal == terminal {
			n++
		}
	})
	return n
}
