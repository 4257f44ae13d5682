package lr

import (
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// EpsilonID is the pseudo symbol ID reported by FirstSets.ForEachTermIn for
// the empty marker.
const EpsilonID = -1

// --- Term sets -------------------------------------------------------------

// TermSet is a set of terminals plus a flag denoting "derives ε".
// TermSets are used for FIRST and FOLLOW sets.
type TermSet struct {
	terms intsets.Sparse
	empty bool
}

// Has returns true if terminal A is a member of the set.
func (s *TermSet) Has(A *Symbol) bool {
	return s.terms.Has(A.ID)
}

// HasID returns true if the terminal with ID id is a member of the set.
func (s *TermSet) HasID(id int) bool {
	return s.terms.Has(id)
}

// HasEmpty returns true if the set contains the empty marker.
func (s *TermSet) HasEmpty() bool {
	return s.empty
}

// Len returns the number of terminals in the set, not counting the empty marker.
func (s *TermSet) Len() int {
	return s.terms.Len()
}

// IsEmpty is true if the set contains neither terminals nor the empty marker.
func (s *TermSet) IsEmpty() bool {
	return s.terms.IsEmpty() && !s.empty
}

// IDs returns the terminal IDs of the set in increasing order.
func (s *TermSet) IDs() []int {
	return s.terms.AppendTo(nil)
}

// Labels returns the labels of the terminals of the set, ordered by ID.
// If the set contains the empty marker, ε is appended.
func (s *TermSet) Labels(g *Grammar) []string {
	labels := make([]string, 0, s.terms.Len()+1)
	for _, id := range s.terms.AppendTo(nil) {
		if A, ok := g.SymbolByID(id); ok {
			labels = append(labels, A.Name)
		}
	}
	if s.empty {
		labels = append(labels, Epsilon)
	}
	return labels
}

// Equals compares two term sets, including the empty marker.
func (s *TermSet) Equals(other *TermSet) bool {
	return s.empty == other.empty && s.terms.Equals(&other.terms)
}

func (s *TermSet) String() string {
	if s.empty {
		return fmt.Sprintf("%s+ε", s.terms.String())
	}
	return s.terms.String()
}

// size counts entries including the empty marker.
func (s *TermSet) size() int {
	if s.empty {
		return s.terms.Len() + 1
	}
	return s.terms.Len()
}

// addTerms adds all terminals of other, but not its empty marker.
func (s *TermSet) addTerms(other *TermSet) {
	s.terms.UnionWith(&other.terms)
}

// --- Nullable --------------------------------------------------------------

// NullableSet is the set of non-terminals deriving ε.
type NullableSet struct {
	g   *Grammar
	set intsets.Sparse
}

// NewNullableSet creates a nullable set for a grammar. Clients have to call
// Refresh() before using it.
func NewNullableSet(g *Grammar) *NullableSet {
	return &NullableSet{g: g}
}

// Refresh re-computes the set from scratch, iterating until no more
// non-terminals are added in a full pass.
func (n *NullableSet) Refresh() {
	n.set.Clear()
	changed := true
	for changed {
		changed = false
		for _, r := range n.g.rules {
			if n.set.Has(r.LHS.ID) {
				continue
			}
			if n.IsNullableStr(r.rhs) {
				n.set.Insert(r.LHS.ID)
				changed = true
			}
		}
	}
	tracer().Debugf("nullable = %v", Labels(n.Symbols()))
}

// IsNullable returns true if A derives ε. Terminals are never nullable.
func (n *NullableSet) IsNullable(A *Symbol) bool {
	return !A.terminal && n.set.Has(A.ID)
}

// IsNullableStr returns true if every symbol of str is nullable. The empty
// string is nullable.
func (n *NullableSet) IsNullableStr(str Str) bool {
	for _, X := range str {
		if !n.IsNullable(X) {
			return false
		}
	}
	return true
}

// Symbols returns all nullable non-terminals, ordered by ID.
func (n *NullableSet) Symbols() []*Symbol {
	return n.g.symbolList(&n.set)
}

// --- FIRST -----------------------------------------------------------------

// FirstSets holds the FIRST sets for all non-terminals of a grammar.
type FirstSets struct {
	g        *Grammar
	nullable *NullableSet
	sets     map[int]*TermSet
}

// NewFirstSets creates FIRST sets for a grammar, based on a nullable set.
// Clients have to call Refresh() before using it.
func NewFirstSets(g *Grammar, nullable *NullableSet) *FirstSets {
	return &FirstSets{g: g, nullable: nullable, sets: make(map[int]*TermSet)}
}

// Refresh re-computes FIRST for every non-terminal. The fixpoint iteration stops
// as soon as a full pass over all rules does not add an entry to any set.
func (f *FirstSets) Refresh() {
	f.sets = make(map[int]*TermSet)
	for _, r := range f.g.rules {
		if f.sets[r.LHS.ID] == nil {
			f.sets[r.LHS.ID] = &TermSet{}
		}
	}
	total, last := 0, -1
	for total != last {
		last = total
		for _, r := range f.g.rules {
			F := f.sets[r.LHS.ID]
			f.ForEachTermIn(r.rhs, 0, func(id int) {
				if id == EpsilonID {
					F.empty = true
				} else {
					F.terms.Insert(id)
				}
			})
		}
		total = 0
		for _, F := range f.sets {
			total += F.size()
		}
	}
	tracer().Debugf("FIRST sets stabilized with %d entries", total)
}

// Of returns FIRST(A). For terminals this is {A}. Clients must not modify
// the returned set.
func (f *FirstSets) Of(A *Symbol) *TermSet {
	if A.terminal {
		T := &TermSet{}
		T.terms.Insert(A.ID)
		return T
	}
	if F, ok := f.sets[A.ID]; ok {
		return F
	}
	return &TermSet{}
}

// OfStr returns FIRST of the suffix of str starting at index from.
// An empty suffix results in {ε}.
func (f *FirstSets) OfStr(str Str, from int) *TermSet {
	T := &TermSet{}
	f.ForEachTermIn(str, from, func(id int) {
		if id == EpsilonID {
			T.empty = true
		} else {
			T.terms.Insert(id)
		}
	})
	return T
}

// ForEachTermIn streams FIRST of the suffix of str starting at index from.
// Symbols are visited left to right until a non-nullable symbol has been
// visited. If every symbol of the suffix is nullable, fn is finally called with
// EpsilonID. Terminal IDs may be reported more than once.
func (f *FirstSets) ForEachTermIn(str Str, from int, fn func(id int)) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(str); i++ {
		X := str[i]
		if X.terminal {
			fn(X.ID)
			return
		}
		if F, ok := f.sets[X.ID]; ok {
			for _, id := range F.terms.AppendTo(nil) {
				fn(id)
			}
		}
		if !f.nullable.IsNullable(X) {
			return
		}
	}
	fn(EpsilonID)
}

// --- FOLLOW ----------------------------------------------------------------

// FollowSets holds the FOLLOW sets for all non-terminals of a grammar.
type FollowSets struct {
	g     *Grammar
	first *FirstSets
	sets  map[int]*TermSet
}

// NewFollowSets creates FOLLOW sets for a grammar, based on FIRST sets.
// Clients have to call Refresh() before using it.
func NewFollowSets(g *Grammar, first *FirstSets) *FollowSets {
	return &FollowSets{g: g, first: first, sets: make(map[int]*TermSet)}
}

// Refresh re-computes FOLLOW for every non-terminal, seeded with
// #eof ∈ FOLLOW(S). The iteration stops as soon as a full pass does not
// add any entry.
func (f *FollowSets) Refresh() {
	f.sets = make(map[int]*TermSet)
	for _, r := range f.g.rules {
		if f.sets[r.LHS.ID] == nil {
			f.sets[r.LHS.ID] = &TermSet{}
		}
		for _, X := range r.rhs {
			if !X.terminal && f.sets[X.ID] == nil {
				f.sets[X.ID] = &TermSet{}
			}
		}
	}
	if S := f.g.Start(); S != nil {
		f.set(S).terms.Insert(f.g.eof.ID)
	}
	if S, _ := f.g.Augmented(); S != nil {
		f.set(S).terms.Insert(f.g.eof.ID)
	}
	total, last := 0, -1
	for total != last {
		last = total
		for _, r := range f.g.rules {
			for i, B := range r.rhs {
				if B.terminal {
					continue
				}
				FB := f.set(B)
				nullableRest := false
				f.first.ForEachTermIn(r.rhs, i+1, func(id int) {
					if id == EpsilonID {
						nullableRest = true
					} else {
						FB.terms.Insert(id)
					}
				})
				if nullableRest {
					FB.addTerms(f.set(r.LHS))
				}
			}
		}
		total = 0
		for _, F := range f.sets {
			total += F.size()
		}
	}
	tracer().Debugf("FOLLOW sets stabilized with %d entries", total)
}

func (f *FollowSets) set(A *Symbol) *TermSet {
	F, ok := f.sets[A.ID]
	if !ok {
		F = &TermSet{}
		f.sets[A.ID] = F
	}
	return F
}

// Of returns FOLLOW(A). Clients must not modify the returned set.
func (f *FollowSets) Of(A *Symbol) *TermSet {
	if F, ok := f.sets[A.ID]; ok {
		return F
	}
	return &TermSet{}
}

// --- Analysis --------------------------------------------------------------

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets).
// It holds a reference to the grammar; after a grammar has been modified,
// clients have to call Refresh().
type LRAnalysis struct {
	g        *Grammar
	nullable *NullableSet
	first    *FirstSets
	follow   *FollowSets
}

// Analysis creates an analyser for a grammar and computes the nullable set
// and the FIRST and FOLLOW sets.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{g: g}
	ga.nullable = NewNullableSet(g)
	ga.first = NewFirstSets(g, ga.nullable)
	ga.follow = NewFollowSets(g, ga.first)
	ga.Refresh()
	return ga
}

// Refresh re-computes all derived sets, in order nullable → FIRST → FOLLOW.
func (ga *LRAnalysis) Refresh() {
	ga.nullable.Refresh()
	ga.first.Refresh()
	ga.follow.Refresh()
	tracer().Infof("analysed grammar %s", ga.g.Name)
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable returns the set of nullable non-terminals.
func (ga *LRAnalysis) Nullable() *NullableSet {
	return ga.nullable
}

// DerivesEpsilon returns true if A is nullable.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return ga.nullable.IsNullable(A)
}

// FirstSets returns the FIRST sets.
func (ga *LRAnalysis) FirstSets() *FirstSets {
	return ga.first
}

// FollowSets returns the FOLLOW sets.
func (ga *LRAnalysis) FollowSets() *FollowSets {
	return ga.follow
}

// First returns FIRST(A).
func (ga *LRAnalysis) First(A *Symbol) *TermSet {
	return ga.first.Of(A)
}

// Follow returns FOLLOW(A).
func (ga *LRAnalysis) Follow(A *Symbol) *TermSet {
	return ga.follow.Of(A)
}
