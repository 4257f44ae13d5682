package lr

import (
	"errors"
	"sort"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// ruleStrings returns the rules of g in printed form, sorted.
func ruleStrings(g *Grammar) []string {
	var rules []string
	g.EachRule(func(r *Rule) {
		rules = append(rules, r.String())
	})
	sort.Strings(rules)
	return rules
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string{}, a...)
	sb := append([]string{}, b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func makeDocGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b").End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d").End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := makeDocGrammar(t)
	if g.EOF().ID != 0 || g.EOF().Name != EOFLabel {
		t.Errorf("expected #eof to have ID 0, is %d", g.EOF().ID)
	}
	if g.Start() == nil || g.Start().Name != "S" {
		t.Fatalf("expected start symbol S, is %v", g.Start())
	}
	S1, r := g.Augmented()
	if S1 == nil || S1.Name != "S'" || r.Serial != 0 || len(r.RHS()) != 1 || r.RHS()[0] != g.Start() {
		t.Errorf("expected augmented rule S' -> S with serial 0, is %v", r)
	}
	if g.RuleCount() != 6 {
		t.Errorf("expected grammar to have 6 rules, has %d", g.RuleCount())
	}
	expected := "S -> A a\nA -> B D\nB -> b | ε\nD -> d | ε\n"
	if g.Dump() != expected {
		t.Errorf("unexpected dump of grammar:\n%s", g.Dump())
	}
	B, ok := g.SymbolByName("B")
	if !ok || B.IsTerminal() || len(B.Rules()) != 2 || !B.Rules()[1].IsEpsilon() {
		t.Errorf("expected B to be a non-terminal with 2 rules, is %v", B)
	}
	if _, ok := g.SymbolByName("X"); ok {
		t.Errorf("expected lookup of unknown label X to fail")
	}
	if _, err := g.Require("X"); !errors.Is(err, ErrUndeclaredSymbol) {
		t.Errorf("expected Require(X) to fail with ErrUndeclaredSymbol, is %v", err)
	}
}

func TestSymbolIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := NewGrammar("IDs")
	a, _ := g.Terminal("a")
	A, _ := g.NonTerminal("A")
	a2, _ := g.Terminal("a")
	if a != a2 {
		t.Errorf("expected registering a terminal to be idempotent")
	}
	if a.ID >= A.ID || a.ID == 0 {
		t.Errorf("expected IDs to be assigned in order of registration, are %d, %d", a.ID, A.ID)
	}
	if _, err := g.Terminal("A"); !errors.Is(err, ErrSymbolKindConflict) {
		t.Errorf("expected kind conflict for terminal A, have %v", err)
	}
	if _, err := g.NonTerminal("a"); !errors.Is(err, ErrSymbolKindConflict) {
		t.Errorf("expected kind conflict for non-terminal a, have %v", err)
	}
	X := g.NewAuxiliary()
	if !X.IsAuxiliary() || X.Name != "$0" {
		t.Errorf("expected auxiliary $0, have %v", X)
	}
	if _, err := g.NonTerminal("$0"); !errors.Is(err, ErrAuxiliaryReuse) {
		t.Errorf("expected auxiliary symbol not to be re-usable, have %v", err)
	}
	g.Terminal("$1")
	Y := g.NewAuxiliary()
	if Y.Name != "$2" || Y.ID <= X.ID {
		t.Errorf("expected fresh auxiliary $2 with new ID, have %s/%d", Y, Y.ID)
	}
}

func TestDeclarePromotesTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := NewGrammar("Promote")
	B, _ := g.Terminal("B")
	id := B.ID
	B2, err := g.Declare("B")
	if err != nil {
		t.Fatal(err)
	}
	if B2 != B || B.IsTerminal() || B.ID != id {
		t.Errorf("expected B to be promoted in place, have %v (terminal=%v)", B2, B2.IsTerminal())
	}
	if _, err := g.Declare(EOFLabel); !errors.Is(err, ErrSymbolKindConflict) {
		t.Errorf("expected #eof not to be declarable, have %v", err)
	}
}

func TestAddRuleDeduplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := NewGrammar("Dedup")
	A, _ := g.NonTerminal("A")
	a, _ := g.Terminal("a")
	g.SetStart(A)
	r1, _ := g.AddRule(A, a, A)
	r2, _ := g.AddRule(A, a, A)
	if r1 != r2 || len(A.Rules()) != 1 {
		t.Errorf("expected structurally equal rules to be merged")
	}
	if _, err := g.AddRule(a, A); !errors.Is(err, ErrSymbolKindConflict) {
		t.Errorf("expected error adding rule for a terminal, have %v", err)
	}
	other := NewGrammar("Other")
	x, _ := other.Terminal("x")
	if _, err := g.AddRule(A, x); !errors.Is(err, ErrUndeclaredSymbol) {
		t.Errorf("expected error for symbol of foreign grammar, have %v", err)
	}
	n := g.RemoveRules(func(r *Rule) bool { return true })
	if n != 1 || g.RuleCount() != 0 {
		t.Errorf("expected 1 rule to be removed, removed %d", n)
	}
	if _, aug := g.Augmented(); g.Rule(0) != aug {
		t.Errorf("expected augmented rule to survive RemoveRules")
	}
}

func TestReachableAndTerminalDeriving(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := makeUselessGrammar(t)
	reachable := Labels(g.Reachable(nil))
	if !sameStrings(reachable, []string{"S", "a", "b", "A", "B", "c", "d"}) {
		t.Errorf("unexpected reachable symbols %v", reachable)
	}
	td := Labels(g.TerminalDeriving())
	if !sameStrings(td, []string{"S", "a", "b", "A", "c", "d", "C"}) {
		t.Errorf("unexpected terminal deriving symbols %v", td)
	}
	C, _ := g.SymbolByName("C")
	if !sameStrings(Labels(g.Reachable(C)), []string{"C", "c", "d"}) {
		t.Errorf("unexpected symbols reachable from C: %v", Labels(g.Reachable(C)))
	}
}
