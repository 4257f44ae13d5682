package lr

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S -> a b S | a b A | a b B ; A -> c d ; B -> a B ; C -> d c ;
func makeUselessGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Useless")
	b.LHS("S").T("a").T("b").N("S").End()
	b.LHS("S").T("a").T("b").N("A").End()
	b.LHS("S").T("a").T("b").N("B").End()
	b.LHS("A").T("c").T("d").End()
	b.LHS("B").T("a").N("B").End()
	b.LHS("C").T("d").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

// S -> A B A C ; A -> a A | ; B -> b B | ; C -> c ;
func makeNullGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Null")
	b.LHS("S").N("A").N("B").N("A").N("C").End()
	b.LHS("A").T("a").N("A").End()
	b.LHS("A").Epsilon()
	b.LHS("B").T("b").N("B").End()
	b.LHS("B").Epsilon()
	b.LHS("C").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestRemoveUselessSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := makeUselessGrammar(t)
	B, _ := g.SymbolByName("B")
	Bid := B.ID
	require.NoError(t, RemoveUselessSymbols(g, nil))
	assert.Equal(t, []string{"A -> c d", "S -> a b A", "S -> a b S"}, ruleStrings(g))
	_, ok := g.SymbolByName("B")
	assert.False(t, ok, "B should have been dropped")
	_, ok = g.SymbolByName("C")
	assert.False(t, ok, "C should have been dropped")
	_, ok = g.SymbolByID(Bid)
	assert.False(t, ok, "ID of B should be unbound")
	X := g.NewAuxiliary()
	assert.Greater(t, X.ID, Bid, "IDs must not be re-used")
	// every remaining non-terminal is reachable and terminal deriving
	reach, td := Labels(g.Reachable(nil)), Labels(g.TerminalDeriving())
	g.EachNonTerminal(func(A *Symbol) {
		if len(A.Rules()) > 0 {
			assert.Contains(t, reach, A.Name)
			assert.Contains(t, td, A.Name)
		}
	})
}

func TestRemoveNullProductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	g := makeNullGrammar(t)
	require.NoError(t, RemoveUselessSymbols(g, nil))
	require.NoError(t, RemoveNullProductions(g, nil))
	expected := []string{
		"S -> A B A C", "S -> B A C", "S -> A C", "S -> C", "S -> B C", "S -> A A C", "S -> A B C",
		"A -> a A", "A -> a",
		"B -> b B", "B -> b",
		"C -> c",
	}
	assert.ElementsMatch(t, expected, ruleStrings(g))
	for _, label := range []string{"S", "A", "B", "C"} {
		A, _ := g.SymbolByName(label)
		for _, r := range A.Rules() {
			assert.False(t, r.IsEpsilon(), "%s has an ε-rule", A)
		}
	}
}

func TestRemoveNullProductionsKeepStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Opt")
	b.LHS("S").N("A").End()
	b.LHS("A").T("a").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	require.NoError(t, RemoveNullProductions(g, nil, KeepStartEpsilon()))
	assert.ElementsMatch(t, []string{"S -> ε", "S -> A", "A -> a"}, ruleStrings(g))
	require.NoError(t, RemoveNullProductions(g, nil))
	assert.ElementsMatch(t, []string{"S -> A", "A -> a"}, ruleStrings(g))
}

func TestRemoveDirectLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("LeftRec")
	b.LHS("E").N("E").T("MINUS").T("T").End()
	b.LHS("E").N("E").T("STAR").T("T").End()
	b.LHS("E").N("E").T("PLUS").T("T").End()
	b.LHS("E").T("T1").T("t").End()
	b.LHS("E").T("T2").T("a").End()
	b.LHS("E").T("T3").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	require.NoError(t, RemoveLeftRecursion(g))
	expected := "E -> T1 t $0 | T2 a $0 | T3 c $0\n$0 -> ε | MINUS T $0 | STAR T $0 | PLUS T $0\n"
	assert.Equal(t, expected, g.Dump())
	aux, ok := g.SymbolByName("$0")
	require.True(t, ok)
	assert.True(t, aux.IsAuxiliary())
	// a second pass is a no-op
	require.NoError(t, RemoveDirectLeftRecursion(g, nil))
	assert.Equal(t, expected, g.Dump())
	// new left recursive rules re-use the auxiliary symbol
	E := g.Start()
	x, _ := g.Terminal("x")
	_, err = g.AddRule(E, E, x)
	require.NoError(t, err)
	require.NoError(t, RemoveDirectLeftRecursion(g, E))
	assert.Equal(t, "E -> T1 t $0 | T2 a $0 | T3 c $0\n$0 -> ε | MINUS T $0 | STAR T $0 | PLUS T $0 | x $0\n",
		g.Dump())
}

func TestIndirectLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Indirect")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("S").T("b").End()
	b.LHS("A").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	before := g.Dump()
	err = RemoveLeftRecursion(g)
	assert.True(t, errors.Is(err, ErrNotImplemented), "expected ErrNotImplemented, have %v", err)
	assert.Equal(t, before, g.Dump(), "grammar must be unchanged")
	assert.True(t, errors.Is(RemoveIndirectLeftRecursion(g), ErrNotImplemented))
}

func TestHiddenLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Hidden")
	b.LHS("S").N("B").N("S").T("a").End()
	b.LHS("S").T("b").End()
	b.LHS("B").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.True(t, errors.Is(RemoveLeftRecursion(g), ErrNotImplemented))
}

func TestTransformWithTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	tests := []struct {
		name      string
		make      func(*testing.T) *Grammar
		target    string
		transform func(*Grammar, *Symbol) error
		rules     []string
		noRules   []string // symbols kept, but without rules
	}{
		{
			name:   "null productions of S only",
			make:   makeNullGrammar,
			target: "S",
			transform: func(g *Grammar, A *Symbol) error {
				return RemoveNullProductions(g, A)
			},
			rules: []string{
				"S -> A B A C", "S -> B A C", "S -> A C", "S -> C", "S -> B C", "S -> A A C", "S -> A B C",
				"A -> a A", "A -> ε",
				"B -> b B", "B -> ε",
				"C -> c",
			},
		},
		{
			name:      "useless symbols from A",
			make:      makeUselessGrammar,
			target:    "A",
			transform: RemoveUselessSymbols,
			rules:     []string{"A -> c d"},
			noRules:   []string{"S"},
		},
	}
	for _, tt := range tests {
		g := tt.make(t)
		A, ok := g.SymbolByName(tt.target)
		require.True(t, ok, tt.name)
		require.NoError(t, tt.transform(g, A), tt.name)
		assert.ElementsMatch(t, tt.rules, ruleStrings(g), tt.name)
		for _, label := range tt.noRules {
			B, ok := g.SymbolByName(label)
			if assert.True(t, ok, "%s: %s should still be registered", tt.name, label) {
				assert.Empty(t, B.Rules(), tt.name)
			}
		}
	}
}
