package lr

import (
	"strings"

	"github.com/npillmayer/gramma/lr/sparse"
)

// LL1Table is a predictive parse table, mapping (non-terminal, terminal) to
// rules. For an LL(1) grammar, every cell holds at most one rule.
type LL1Table struct {
	g      *Grammar
	matrix *sparse.Matrix[*Rule]
}

// MakeLL1ParseTable constructs an LL(1) table from FIRST and FOLLOW sets. Every
// rule A → α is entered at (A, a) for every a in FIRST(α). If α is nullable,
// it is additionally entered at (A, b) for every b in FOLLOW(A).
func MakeLL1ParseTable(ga *LRAnalysis) *LL1Table {
	g := ga.Grammar()
	t := &LL1Table{
		g:      g,
		matrix: sparse.NewMatrix[*Rule](g.SymbolCount(), g.SymbolCount()),
	}
	g.EachRule(func(r *Rule) {
		F := ga.FirstSets().OfStr(r.rhs, 0)
		for _, a := range F.IDs() {
			t.add(r.LHS.ID, a, r)
		}
		if F.HasEmpty() {
			for _, b := range ga.Follow(r.LHS).IDs() {
				t.add(r.LHS.ID, b, r)
			}
		}
	})
	tracer().Infof("LL(1) table for grammar %s has %d entries", g.Name, t.matrix.ValueCount())
	return t
}

func (t *LL1Table) add(nt, term int, r *Rule) {
	for _, other := range t.matrix.Values(nt, term) {
		if other == r {
			return
		}
	}
	t.matrix.Add(nt, term, r)
}

// Grammar returns the grammar the table has been built for.
func (t *LL1Table) Grammar() *Grammar {
	return t.g
}

// Entry returns the rules for non-terminal A and lookahead terminal a.
func (t *LL1Table) Entry(A, a *Symbol) []*Rule {
	return t.matrix.Values(A.ID, a.ID)
}

// LL1Conflict is a cell of an LL(1) table holding more than one rule.
type LL1Conflict struct {
	NonTerm  *Symbol
	Terminal *Symbol
	Rules    []*Rule
}

// Conflicts returns all cells with more than one rule.
func (t *LL1Table) Conflicts() []LL1Conflict {
	var conflicts []LL1Conflict
	t.matrix.Each(func(i, j int, rules []*Rule) {
		if len(rules) > 1 {
			A, _ := t.g.SymbolByID(i)
			a, _ := t.g.SymbolByID(j)
			conflicts = append(conflicts, LL1Conflict{NonTerm: A, Terminal: a, Rules: rules})
		}
	})
	return conflicts
}

// HasConflicts is true if the grammar is not LL(1).
func (t *LL1Table) HasConflicts() bool {
	return len(t.Conflicts()) > 0
}

// DebugView renders the table as non-terminal label → terminal label → rules.
func (t *LL1Table) DebugView() map[string]map[string][]string {
	view := make(map[string]map[string][]string)
	t.matrix.Each(func(i, j int, rules []*Rule) {
		A, ok1 := t.g.SymbolByID(i)
		a, ok2 := t.g.SymbolByID(j)
		if !ok1 || !ok2 {
			return
		}
		row := view[A.Name]
		if row == nil {
			row = make(map[string][]string)
			view[A.Name] = row
		}
		for _, r := range rules {
			row[a.Name] = append(row[a.Name], r.String())
		}
	})
	return view
}

// String renders the table row by row, for debugging.
func (t *LL1Table) String() string {
	var b strings.Builder
	b.WriteString("LL(1) table for " + t.g.Name + ":\n")
	t.matrix.Each(func(i, j int, rules []*Rule) {
		A, _ := t.g.SymbolByID(i)
		a, _ := t.g.SymbolByID(j)
		b.WriteString("  M[" + A.Name + ", " + a.Name + "] = ")
		for k, r := range rules {
			if k > 0 {
				b.WriteString(" / ")
			}
			b.WriteString(r.String())
		}
		b.WriteByte('\n')
	})
	return b.String()
}
