package lr

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/gramma/lr/sparse"
)

// --- Actions ---------------------------------------------------------------

// ActionKind is the kind of an LR parser action.
type ActionKind int8

// Kinds of actions for parser tables.
const (
	ShiftAction ActionKind = iota + 1
	ReduceAction
	GotoAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "Shift"
	case ReduceAction:
		return "Reduce"
	case GotoAction:
		return "Goto"
	case AcceptAction:
		return "Accept"
	}
	return "<none>"
}

// Action is an entry of a parse table. Target is the successor state for
// shift and goto actions; NonTerm (a symbol ID) and RuleIndex identify the
// rule for reduce actions.
type Action struct {
	Kind      ActionKind
	Target    int
	NonTerm   int
	RuleIndex int
}

// Shift creates a shift action.
func Shift(state int) Action { return Action{Kind: ShiftAction, Target: state} }

// Reduce creates a reduce action for rule number inx of non-terminal A.
func Reduce(A *Symbol, inx int) Action {
	return Action{Kind: ReduceAction, NonTerm: A.ID, RuleIndex: inx}
}

// Goto creates a goto action.
func Goto(state int) Action { return Action{Kind: GotoAction, Target: state} }

// Accept creates an accept action.
func Accept() Action { return Action{Kind: AcceptAction} }

// MarshalJSON produces the tagged form {kind, target?, nonterm?, ruleIndex?}.
func (a Action) MarshalJSON() ([]byte, error) {
	type tagged struct {
		Kind      string `json:"kind"`
		Target    *int   `json:"target,omitempty"`
		NonTerm   *int   `json:"nonterm,omitempty"`
		RuleIndex *int   `json:"ruleIndex,omitempty"`
	}
	t := tagged{Kind: a.Kind.String()}
	switch a.Kind {
	case ShiftAction, GotoAction:
		t.Target = &a.Target
	case ReduceAction:
		t.NonTerm, t.RuleIndex = &a.NonTerm, &a.RuleIndex
	}
	return json.Marshal(t)
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return "S" + strconv.Itoa(a.Target)
	case ReduceAction:
		return fmt.Sprintf("R %d/%d", a.NonTerm, a.RuleIndex)
	case GotoAction:
		return strconv.Itoa(a.Target)
	case AcceptAction:
		return "Acc"
	}
	return "<none>"
}

// --- Parse tables ----------------------------------------------------------

// TableKind denotes the construction method of a parse table.
type TableKind int8

// Kinds of LR parse tables.
const (
	LR0Table TableKind = iota
	SLRTable
	LR1Table
)

func (k TableKind) String() string {
	switch k {
	case LR0Table:
		return "LR(0)"
	case SLRTable:
		return "SLR(1)"
	case LR1Table:
		return "LR(1)"
	}
	return "?"
}

// ParseTable maps (state, symbol) to a list of actions. Rows are CFSM state IDs,
// columns are symbol IDs. A cell with more than one action signals a conflict;
// conflicts are recorded, never resolved.
type ParseTable struct {
	Kind   TableKind
	cfsm   *CFSM
	matrix *sparse.Matrix[Action]
}

func newParseTable(kind TableKind, cfsm *CFSM) *ParseTable {
	return &ParseTable{
		Kind:   kind,
		cfsm:   cfsm,
		matrix: sparse.NewMatrix[Action](len(cfsm.states), cfsm.g.SymbolCount()),
	}
}

// Grammar returns the grammar the table has been built for.
func (t *ParseTable) Grammar() *Grammar {
	return t.cfsm.g
}

// CFSM returns the automaton the table has been built from.
func (t *ParseTable) CFSM() *CFSM {
	return t.cfsm
}

// StateCount returns the number of rows of the table.
func (t *ParseTable) StateCount() int {
	return len(t.cfsm.states)
}

// add appends an action to a cell, ignoring an identical action already present.
func (t *ParseTable) add(state int, A *Symbol, a Action) {
	for _, b := range t.matrix.Values(state, A.ID) {
		if b == a {
			return
		}
	}
	if len(t.matrix.Values(state, A.ID)) > 0 {
		tracer().Debugf("conflict in state %d for %s: adding %v", state, A, a)
	}
	t.matrix.Add(state, A.ID, a)
}

// Actions returns the actions for a state and a symbol.
func (t *ParseTable) Actions(state int, A *Symbol) []Action {
	return t.matrix.Values(state, A.ID)
}

// ActionsByID returns the actions for a state and a symbol ID.
func (t *ParseTable) ActionsByID(state int, symID int) []Action {
	return t.matrix.Values(state, symID)
}

// Rule returns the rule to reduce for a reduce action.
func (t *ParseTable) Rule(a Action) *Rule {
	if a.Kind != ReduceAction {
		return nil
	}
	A, ok := t.cfsm.g.SymbolByID(a.NonTerm)
	if !ok || a.RuleIndex >= len(A.rules) {
		return nil
	}
	return A.rules[a.RuleIndex]
}

// Conflict is a table cell with more than one action.
type Conflict struct {
	State   int
	Symbol  *Symbol
	Actions []Action
	text    []string // actions formatted by ParseTable.ActionString
}

func (c Conflict) String() string {
	if len(c.text) == len(c.Actions) {
		return fmt.Sprintf("conflict in state %d on %s: [%s]", c.State, c.Symbol,
			strings.Join(c.text, " / "))
	}
	return fmt.Sprintf("conflict in state %d on %s: %v", c.State, c.Symbol, c.Actions)
}

// Conflicts returns all cells with more than one action, in row-major order.
func (t *ParseTable) Conflicts() []Conflict {
	var conflicts []Conflict
	t.matrix.Each(func(i, j int, values []Action) {
		if len(values) > 1 {
			A, _ := t.cfsm.g.SymbolByID(j)
			c := Conflict{State: i, Symbol: A, Actions: values}
			for _, a := range values {
				c.text = append(c.text, t.ActionString(a))
			}
			conflicts = append(conflicts, c)
		}
	})
	return conflicts
}

// HasConflicts is true if at least one cell holds more than one action.
func (t *ParseTable) HasConflicts() bool {
	conflict := false
	t.matrix.Each(func(i, j int, values []Action) {
		conflict = conflict || len(values) > 1
	})
	return conflict
}

// ActionString formats an action for humans: "S<state>" for shifts, "R <rule>"
// for reductions, "Acc" for accept and the bare target state for gotos.
func (t *ParseTable) ActionString(a Action) string {
	if a.Kind == ReduceAction {
		if r := t.Rule(a); r != nil {
			return "R " + r.String()
		}
	}
	return a.String()
}

// DebugView renders the table as state ID → symbol label → action strings.
// This is the textual form used for comparing tables.
func (t *ParseTable) DebugView() map[string]map[string][]string {
	view := make(map[string]map[string][]string)
	t.matrix.Each(func(i, j int, values []Action) {
		A, ok := t.cfsm.g.SymbolByID(j)
		if !ok {
			return
		}
		row := view[strconv.Itoa(i)]
		if row == nil {
			row = make(map[string][]string)
			view[strconv.Itoa(i)] = row
		}
		for _, a := range values {
			row[A.Name] = append(row[A.Name], t.ActionString(a))
		}
	})
	return view
}

type jsonSymbol struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Terminal bool   `json:"terminal"`
}

type jsonCell struct {
	State   int      `json:"state"`
	Symbol  int      `json:"symbol"`
	Actions []Action `json:"actions"`
}

type jsonTable struct {
	Kind    string       `json:"kind"`
	States  int          `json:"states"`
	Symbols []jsonSymbol `json:"symbols"`
	Cells   []jsonCell   `json:"cells"`
}

// WriteJSON writes the table in serialized form, with actions in their tagged form.
func (t *ParseTable) WriteJSON(w io.Writer) error {
	jt := jsonTable{Kind: t.Kind.String(), States: t.StateCount()}
	t.cfsm.g.EachSymbol(func(A *Symbol) {
		jt.Symbols = append(jt.Symbols, jsonSymbol{ID: A.ID, Label: A.Name, Terminal: A.terminal})
	})
	t.matrix.Each(func(i, j int, values []Action) {
		jt.Cells = append(jt.Cells, jsonCell{State: i, Symbol: j, Actions: values})
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jt)
}

// WriteHTML exports the table in HTML-format.
func (t *ParseTable) WriteHTML(w io.Writer) error {
	var b strings.Builder
	var symvec []*Symbol
	t.cfsm.g.EachSymbol(func(A *Symbol) {
		symvec = append(symvec, A)
	})
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("%s table of size = %d<p>", t.Kind, t.matrix.ValueCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range symvec {
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(A.Name)))
	}
	b.WriteString("</tr>\n")
	for _, state := range t.cfsm.states {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range symvec {
			values := t.matrix.Values(state.ID, A.ID)
			td := "&nbsp;"
			if len(values) > 0 {
				strs := make([]string, len(values))
				for k, a := range values {
					strs[k] = html.EscapeString(t.ActionString(a))
				}
				td = strings.Join(strs, " / ")
			}
			if len(values) > 1 {
				b.WriteString("<td bgcolor=#ffcccc>")
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(td)
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// --- Table construction ----------------------------------------------------

// For building a table we iterate over all the states of the CFSM.
// Every edge labelled with a terminal produces a shift entry, every edge
// labelled with a non-terminal produces a goto entry. An inner loop iterates
// over the completed items of a state and produces reduce entries:
//
// - for the LR(0) case: for every terminal
// - for the SLR case: for every terminal of FOLLOW(LHS)
// - for the LR(1) case: for the lookahead of the item
//
// The completed augmented start rule produces an accept entry for #eof.

// MakeLR0ParseTable constructs an LR(0) parse table from a CFSM.
func MakeLR0ParseTable(cfsm *CFSM) *ParseTable {
	t := newParseTable(LR0Table, cfsm)
	var terminals []*Symbol
	cfsm.g.EachTerminal(func(A *Symbol) {
		terminals = append(terminals, A)
	})
	buildTable(t, func(_ *CFSMState, i Item) []*Symbol {
		return terminals
	})
	return t
}

// MakeSLRParseTable constructs an SLR(1) parse table from a CFSM, using FOLLOW
// sets as reduce lookaheads.
func MakeSLRParseTable(cfsm *CFSM, follow *FollowSets) *ParseTable {
	t := newParseTable(SLRTable, cfsm)
	buildTable(t, func(_ *CFSMState, i Item) []*Symbol {
		lookaheads := follow.Of(i.rule.LHS)
		tracer().Debugf("    Follow(%v) = %v", i.rule.LHS, lookaheads)
		return cfsm.symbols(lookaheads.IDs())
	})
	return t
}

// MakeLRParseTable constructs a canonical LR(1) parse table from an LR(1) CFSM.
func MakeLRParseTable(cfsm *CFSM) (*ParseTable, error) {
	if !cfsm.IsLR1() {
		return nil, fmt.Errorf("LR(1) table requires an LR(1) CFSM")
	}
	t := newParseTable(LR1Table, cfsm)
	buildTable(t, func(_ *CFSMState, i Item) []*Symbol {
		return cfsm.symbols([]int{i.la})
	})
	return t, nil
}

func (c *CFSM) symbols(ids []int) []*Symbol {
	syms := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		if A, ok := c.g.SymbolByID(id); ok {
			syms = append(syms, A)
		}
	}
	return syms
}

func buildTable(t *ParseTable, lookaheads func(*CFSMState, Item) []*Symbol) {
	g := t.cfsm.g
	_, augRule := g.Augmented()
	for _, state := range t.cfsm.states {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, id := range state.items {
			i := t.cfsm.items[id]
			A := i.PeekSymbol()
			if A != nil && A.terminal {
				if next := state.Goto(A); next != nil {
					t.add(state.ID, A, Shift(next.ID))
				}
				continue
			}
			if A != nil {
				continue
			}
			if i.rule == augRule {
				t.add(state.ID, g.eof, Accept())
				continue
			}
			for _, la := range lookaheads(state, i) {
				tracer().Debugf("    reduce %v on %v", i.rule, la)
				t.add(state.ID, la, Reduce(i.rule.LHS, i.rule.index))
			}
		}
		t.cfsm.g.EachNonTerminal(func(B *Symbol) {
			if next := state.Goto(B); next != nil {
				t.add(state.ID, B, Goto(next.ID))
			}
		})
	}
}

// --- Table generator -------------------------------------------------------

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	kind         TableKind
	dfa          *CFSM
	table        *ParseTable
	HasConflicts bool
}

// TableOption configures a table generator.
type TableOption func(*TableGenerator)

// UseLR0 selects LR(0) items and reduce entries for every terminal.
func UseLR0() TableOption {
	return func(lrgen *TableGenerator) { lrgen.kind = LR0Table }
}

// UseSLR selects LR(0) items and FOLLOW sets as reduce lookaheads. This is the default.
func UseSLR() TableOption {
	return func(lrgen *TableGenerator) { lrgen.kind = SLRTable }
}

// UseLR1 selects canonical LR(1) items and tables.
func UseLR1() TableOption {
	return func(lrgen *TableGenerator) { lrgen.kind = LR1Table }
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...TableOption) *TableGenerator {
	lrgen := &TableGenerator{g: ga.Grammar(), ga: ga, kind: SLRTable}
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() (*CFSM, error) {
	if lrgen.dfa != nil {
		return lrgen.dfa, nil
	}
	var err error
	if lrgen.kind == LR1Table {
		lrgen.dfa, err = NewLR1CFSM(lrgen.ga)
	} else {
		lrgen.dfa, err = NewLR0CFSM(lrgen.g)
	}
	return lrgen.dfa, err
}

// Table returns the parse table. The table has to be built by calling
// CreateTables() previously.
func (lrgen *TableGenerator) Table() *ParseTable {
	if lrgen.table == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.table
}

// CreateTables creates the CFSM and the parse table.
func (lrgen *TableGenerator) CreateTables() error {
	cfsm, err := lrgen.CFSM()
	if err != nil {
		return err
	}
	switch lrgen.kind {
	case LR0Table:
		lrgen.table = MakeLR0ParseTable(cfsm)
	case LR1Table:
		if lrgen.table, err = MakeLRParseTable(cfsm); err != nil {
			return err
		}
	default:
		lrgen.table = MakeSLRParseTable(cfsm, lrgen.ga.FollowSets())
	}
	lrgen.HasConflicts = lrgen.table.HasConflicts()
	tracer().Infof("%s table for grammar %s: %d states, conflicts = %v",
		lrgen.kind, lrgen.g.Name, lrgen.table.StateCount(), lrgen.HasConflicts)
	return nil
}

// AcceptingStates returns all states of the CFSM which represent an accept action.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []int {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	var acc []int
	for _, state := range lrgen.dfa.states {
		if state.Accept {
			acc = append(acc, state.ID)
		}
	}
	return acc
}
