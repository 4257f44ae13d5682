package lr

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing and section 6.4 LR(1) Parsing.

// NoLookahead is the lookahead of LR(0) items.
const NoLookahead = -1

// --- Items -----------------------------------------------------------------

// Item is an LR item, i.e. a rule with a dot marking the progress of
// recognizing the rule's right hand side. LR(1) items carry a lookahead terminal.
type Item struct {
	rule *Rule
	dot  int
	la   int // terminal ID or NoLookahead
}

type itemKey struct {
	serial, dot, la int
}

// Rule returns the rule of the item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the lookahead terminal ID of an LR(1) item.
func (i Item) Lookahead() (int, bool) {
	return i.la, i.la != NoLookahead
}

// PeekSymbol returns the symbol after the dot, or nil for completed items.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() Str {
	return i.rule.rhs[:i.dot]
}

// IsComplete is true if the dot is behind the last symbol of the rule.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

func (i Item) advance() Item {
	return Item{rule: i.rule, dot: i.dot + 1, la: i.la}
}

func (i Item) key() itemKey {
	return itemKey{serial: i.rule.Serial, dot: i.dot, la: i.la}
}

func (i Item) format(g *Grammar) string {
	var b strings.Builder
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ->")
	for k, X := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(X.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	if i.la != NoLookahead {
		if A, ok := g.SymbolByID(i.la); ok {
			b.WriteString(", ")
			b.WriteString(A.Name)
		}
	}
	return b.String()
}

// --- States ----------------------------------------------------------------

// CFSMState is a state within the CFSM for a grammar, i.e. a closed set of
// LR items. States are interned: two states of one CFSM never hold the same
// item set.
type CFSMState struct {
	ID     int   // serial ID of this state, in order of discovery
	items  []int // item IDs, sorted
	key    string
	Accept bool               // contains the completed augmented start rule
	gotos  map[int]*CFSMState // symbol ID → successor state
	cfsm   *CFSM
}

// Items returns the items of the state, ordered by item ID.
func (s *CFSMState) Items() []Item {
	items := make([]Item, len(s.items))
	for k, id := range s.items {
		items[k] = s.cfsm.items[id]
	}
	return items
}

// Goto returns the successor state for a symbol, or nil.
func (s *CFSMState) Goto(A *Symbol) *CFSMState {
	return s.gotos[A.ID]
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.items))
}

// Dump is a debugging helper.
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, id := range s.items {
		tracer().Debugf("    %s", s.cfsm.items[id].format(s.cfsm.g))
	}
	tracer().Debugf("-------------------------")
}

// CFSM edge between 2 states, directed and labelled with a grammar symbol.
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// --- CFSM ------------------------------------------------------------------

// CFSM is the characteristic finite state machine for an LR grammar, i.e. the
// canonical collection of LR(0) or LR(1) item sets plus the goto-transitions
// between them. State IDs and item IDs are assigned in order of discovery,
// making the construction deterministic.
//
// A CFSM is built from a snapshot of a grammar and is not updated if the
// grammar changes later.
type CFSM struct {
	g      *Grammar
	first  *FirstSets // LR(1) only
	items  []Item
	ids    map[itemKey]int
	states []*CFSMState
	byKey  map[string][]*CFSMState
	edges  *arraylist.List
	S0     *CFSMState // start state
}

// NewLR0CFSM builds the LR(0) automaton for a grammar.
func NewLR0CFSM(g *Grammar) (*CFSM, error) {
	return buildCFSM(g, nil)
}

// NewLR1CFSM builds the canonical LR(1) automaton for an analysed grammar.
func NewLR1CFSM(ga *LRAnalysis) (*CFSM, error) {
	return buildCFSM(ga.Grammar(), ga.FirstSets())
}

// create an empty (initial) CFSM automaton.
func emptyCFSM(g *Grammar, first *FirstSets) *CFSM {
	return &CFSM{
		g:     g,
		first: first,
		ids:   make(map[itemKey]int),
		byKey: make(map[string][]*CFSMState),
		edges: arraylist.New(),
	}
}

// Construct the characteristic finite state machine CFSM for a grammar.
func buildCFSM(g *Grammar, first *FirstSets) (*CFSM, error) {
	_, augRule := g.Augmented()
	if augRule == nil {
		return nil, ErrNoStartSymbol
	}
	tracer().Debugf("=== build CFSM ==================================================")
	c := emptyCFSM(g, first)
	start := Item{rule: augRule, la: NoLookahead}
	if c.IsLR1() {
		start.la = g.eof.ID
	}
	c.S0, _ = c.addState(c.closure([]int{c.intern(start)}))
	S := treeset.NewWith(stateComparator)
	S.Add(c.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		s.Dump()
		g.EachSymbol(func(A *Symbol) {
			gotoset := c.gotoSet(s, A)
			if len(gotoset) == 0 {
				return
			}
			snew, isNew := c.addState(gotoset)
			if isNew {
				S.Add(snew)
			}
			c.addEdge(s, snew, A)
		})
	}
	tracer().Infof("CFSM for grammar %s has %d states and %d items",
		g.Name, len(c.states), len(c.items))
	return c, nil
}

// IsLR1 returns true if the CFSM consists of LR(1) items.
func (c *CFSM) IsLR1() bool {
	return c.first != nil
}

// Grammar returns the grammar this CFSM has been built for.
func (c *CFSM) Grammar() *Grammar {
	return c.g
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	return c.states
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= len(c.states) {
		return nil
	}
	return c.states[id]
}

// EachEdge calls f for every transition of the CFSM, in order of creation.
func (c *CFSM) EachEdge(f func(from, to *CFSMState, label *Symbol)) {
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		f(e.from, e.to, e.label)
	}
}

// intern returns the ID of an item, registering it if it is new.
func (c *CFSM) intern(i Item) int {
	k := i.key()
	if id, ok := c.ids[k]; ok {
		return id
	}
	id := len(c.items)
	c.items = append(c.items, i)
	c.ids[k] = id
	return id
}

// closure computes the closure of a set of items. For LR(0), every item
// A → α • B β adds B → • γ for every rule of B. For LR(1), item
// [A → α • B β, a] adds [B → • γ, b] for every b in FIRST(β a).
func (c *CFSM) closure(kernel []int) []int {
	var inSet = make(map[int]bool, len(kernel))
	C := make([]int, 0, len(kernel))
	for _, id := range kernel {
		if !inSet[id] {
			inSet[id] = true
			C = append(C, id)
		}
	}
	add := func(i Item) {
		if id := c.intern(i); !inSet[id] {
			inSet[id] = true
			C = append(C, id)
		}
	}
	for k := 0; k < len(C); k++ {
		item := c.items[C[k]]
		B := item.PeekSymbol()
		if B == nil || B.terminal {
			continue
		}
		for _, r := range B.rules {
			if !c.IsLR1() {
				add(Item{rule: r, la: NoLookahead})
				continue
			}
			c.first.ForEachTermIn(item.rule.rhs, item.dot+1, func(t int) {
				if t == EpsilonID {
					t = item.la
				}
				add(Item{rule: r, la: t})
			})
		}
	}
	sort.Ints(C)
	return C
}

// gotoSet advances every item of s with A after the dot and computes the
// closure of the result.
func (c *CFSM) gotoSet(s *CFSMState, A *Symbol) []int {
	var kernel []int
	for _, id := range s.items {
		i := c.items[id]
		if i.PeekSymbol() == A {
			kernel = append(kernel, c.intern(i.advance()))
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	return c.closure(kernel)
}

type itemSetDigest struct {
	Items []int
}

func itemSetKey(items []int) string {
	key, err := structhash.Hash(itemSetDigest{Items: items}, 1)
	if err != nil {
		return fmt.Sprint(items)
	}
	return key
}

// addState adds a state to the CFSM. Checks first if a state with the same
// item set is present, and returns that instead.
func (c *CFSM) addState(items []int) (*CFSMState, bool) {
	key := itemSetKey(items)
	for _, s := range c.byKey[key] {
		if equalIDs(s.items, items) {
			return s, false
		}
	}
	s := &CFSMState{
		ID:    len(c.states),
		items: items,
		key:   key,
		gotos: make(map[int]*CFSMState),
		cfsm:  c,
	}
	_, augRule := c.g.Augmented()
	for _, id := range items {
		if i := c.items[id]; i.rule == augRule && i.IsComplete() {
			s.Accept = true
		}
	}
	c.states = append(c.states, s)
	c.byKey[key] = append(c.byKey[key], s)
	return s, true
}

func (c *CFSM) addEdge(from, to *CFSMState, A *Symbol) {
	from.gotos[A.ID] = to
	c.edges.Add(&cfsmEdge{from: from, to: to, label: A})
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

// --- Export ----------------------------------------------------------------

// WriteDot exports a CFSM to the Graphviz Dot format.
func (c *CFSM) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.states {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, c.forGraphviz(s)))
	}
	c.EachEdge(func(from, to *CFSMState, label *Symbol) {
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", from.ID, to.ID,
			escapeDot(label.Name)))
	})
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func (c *CFSM) forGraphviz(s *CFSMState) string {
	var b strings.Builder
	for k, id := range s.items {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeDot(c.items[id].format(c.g)))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `|`, `\|`, `{`, `\{`, `}`, `\}`,
	`<`, `\<`, `>`, `\>`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
