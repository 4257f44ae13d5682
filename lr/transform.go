package lr

import (
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// Grammar transformations mutate a grammar in place. Derived objects (an
// LRAnalysis, CFSMs and parse tables) have to be refreshed or rebuilt by the
// caller afterwards.

// TransformOption configures a grammar transformation.
type TransformOption func(*transformConfig)

type transformConfig struct {
	keepStartEpsilon bool
}

// KeepStartEpsilon lets RemoveNullProductions keep an ε-rule for the start symbol,
// thus preserving the language of grammars accepting the empty input.
func KeepStartEpsilon() TransformOption {
	return func(c *transformConfig) {
		c.keepStartEpsilon = true
	}
}

// --- Useless symbols -------------------------------------------------------

// RemoveUselessSymbols removes all rules mentioning a symbol which either
// cannot derive a string of terminals or is not reachable from symbol from
// (default: the start symbol). Symbols orphaned this way are dropped from the
// grammar.
//
// Reachability is computed over rules consisting of terminal-deriving symbols
// only. The transformation is a single pass; callers which mutate the grammar
// afterwards have to call it again.
func RemoveUselessSymbols(g *Grammar, from *Symbol) error {
	if from == nil {
		from = g.Start()
	}
	if from == nil {
		return ErrNoStartSymbol
	}
	if !g.owns(from) {
		return fmt.Errorf("%w: %v", ErrUndeclaredSymbol, from)
	}
	TD := g.terminalDerivingSet()
	var useful intsets.Sparse
	useful.Intersection(TD, g.reachableSet(from, TD))
	useful.Insert(from.ID)
	tracer().Debugf("useful symbols = %v", Labels(g.symbolList(&useful)))
	n := g.RemoveRules(func(r *Rule) bool {
		return !useful.Has(r.LHS.ID) || !allIn(r.rhs, &useful)
	})
	var dropped []*Symbol
	g.EachSymbol(func(A *Symbol) {
		if !useful.Has(A.ID) && A != g.eof {
			dropped = append(dropped, A)
		}
	})
	for _, A := range dropped {
		g.dropSymbol(A)
	}
	g.reindex()
	tracer().Infof("removed %d useless rules and %d symbols", n, len(dropped))
	return nil
}

// --- Null productions ------------------------------------------------------

// RemoveNullProductions removes ε-rules for non-terminal A, or for all
// non-terminals if A is nil. Every rule is replaced by all the rules obtainable
// by deleting nullable symbols from it. Empty rules are stripped afterwards,
// including an ε-rule of the start symbol, unless option KeepStartEpsilon is given.
//
// Nullability is computed once before the transformation starts.
func RemoveNullProductions(g *Grammar, A *Symbol, opts ...TransformOption) error {
	var conf transformConfig
	for _, opt := range opts {
		opt(&conf)
	}
	var targets []*Symbol
	if A != nil {
		if !g.owns(A) {
			return fmt.Errorf("%w: %v", ErrUndeclaredSymbol, A)
		}
		if A.terminal {
			return fmt.Errorf("%w: %s is a terminal", ErrSymbolKindConflict, A)
		}
		targets = []*Symbol{A}
	} else {
		g.EachNonTerminal(func(N *Symbol) {
			targets = append(targets, N)
		})
	}
	nullable := NewNullableSet(g)
	nullable.Refresh()
	for _, N := range targets {
		keepEmpty := conf.keepStartEpsilon && N == g.start && nullable.IsNullable(N)
		seen := make(map[string]bool)
		var bodies []Str
		for _, r := range N.rules {
			bodies = expandNullable(r.rhs, nullable, seen, bodies)
		}
		result := make([]Str, 0, len(bodies)+1)
		if keepEmpty {
			result = append(result, Str{})
		}
		for _, body := range bodies {
			if len(body) > 0 {
				result = append(result, body)
			}
		}
		g.setRules(N, result)
		tracer().Debugf("%s has %d rules after removing null productions", N, len(N.rules))
	}
	g.reindex()
	return nil
}

// expandNullable collects str and every sub-sequence of str obtainable by deleting
// nullable symbols. seen memoizes sequences already visited.
func expandNullable(str Str, nullable *NullableSet, seen map[string]bool, acc []Str) []Str {
	key := str.Key()
	if seen[key] {
		return acc
	}
	seen[key] = true
	acc = append(acc, str)
	for i, X := range str {
		if !nullable.IsNullable(X) {
			continue
		}
		shorter := make(Str, 0, len(str)-1)
		shorter = append(shorter, str[:i]...)
		shorter = append(shorter, str[i+1:]...)
		acc = expandNullable(shorter, nullable, seen, acc)
	}
	return acc
}

// --- Left recursion --------------------------------------------------------

// RemoveDirectLeftRecursion removes direct left recursion for non-terminal A,
// or for all non-terminals if A is nil. Rules
//
//	A → A α1 | … | A αn | β1 | … | βm
//
// are replaced by
//
//	A  → β1 A' | … | βm A'
//	A' → ε | α1 A' | … | αn A'
//
// where A' is an auxiliary non-terminal. A' is created once per non-terminal and
// re-used by subsequent calls. Rules A → A are discarded.
func RemoveDirectLeftRecursion(g *Grammar, A *Symbol) error {
	var targets []*Symbol
	if A != nil {
		if !g.owns(A) {
			return fmt.Errorf("%w: %v", ErrUndeclaredSymbol, A)
		}
		if A.terminal {
			return fmt.Errorf("%w: %s is a terminal", ErrSymbolKindConflict, A)
		}
		targets = []*Symbol{A}
	} else {
		g.EachNonTerminal(func(N *Symbol) {
			targets = append(targets, N)
		})
	}
	for _, N := range targets {
		removeDirectLeftRecursion(g, N)
	}
	g.reindex()
	return nil
}

func removeDirectLeftRecursion(g *Grammar, A *Symbol) {
	var alphas, betas []Str
	recursive := false
	for _, r := range A.rules {
		if len(r.rhs) > 0 && r.rhs[0] == A {
			recursive = true
			if len(r.rhs) > 1 {
				alphas = append(alphas, r.rhs[1:])
			}
			continue
		}
		betas = append(betas, r.rhs)
	}
	if !recursive {
		return
	}
	tracer().Debugf("removing direct left recursion for %s", A)
	if g.leftRecAux == nil {
		g.leftRecAux = make(map[int]*Symbol)
	}
	aux := g.leftRecAux[A.ID]
	if aux == nil || aux.dropped {
		aux = g.NewAuxiliary()
		g.leftRecAux[A.ID] = aux
	}
	auxBodies := make([]Str, 0, len(aux.rules)+len(alphas)+1)
	auxBodies = append(auxBodies, Str{})
	for _, r := range aux.rules {
		auxBodies = append(auxBodies, r.rhs)
	}
	for _, alpha := range alphas {
		auxBodies = append(auxBodies, appendSymbol(alpha, aux))
	}
	g.setRules(aux, auxBodies)
	bodies := make([]Str, len(betas))
	for i, beta := range betas {
		if len(beta) > 0 && beta[len(beta)-1] == aux {
			bodies[i] = beta // from an earlier call
			continue
		}
		bodies[i] = appendSymbol(beta, aux)
	}
	g.setRules(A, bodies)
}

func appendSymbol(str Str, A *Symbol) Str {
	s := make(Str, len(str), len(str)+1)
	copy(s, str)
	return append(s, A)
}

// RemoveLeftRecursion removes left recursion from a grammar. Only direct left
// recursion is supported: if the grammar contains indirect or hidden left
// recursion, ErrNotImplemented is returned and the grammar is left unchanged.
func RemoveLeftRecursion(g *Grammar) error {
	if A := findIndirectLeftRecursion(g); A != nil {
		return fmt.Errorf("%w: indirect left recursion involving %s", ErrNotImplemented, A)
	}
	return RemoveDirectLeftRecursion(g, nil)
}

// RemoveIndirectLeftRecursion is not implemented and always returns ErrNotImplemented.
func RemoveIndirectLeftRecursion(g *Grammar) error {
	return fmt.Errorf("%w: removal of indirect left recursion", ErrNotImplemented)
}

// findIndirectLeftRecursion returns a non-terminal which is left recursive by
// other means than a rule A → A α, or nil.
//
// The left-corner graph has an edge A → B if there is a rule A → γ B δ with γ
// nullable. Edges for direct left recursion are left out; any remaining cycle
// is indirect (or hidden) left recursion.
func findIndirectLeftRecursion(g *Grammar) *Symbol {
	nullable := NewNullableSet(g)
	nullable.Refresh()
	corners := make(map[int][]*Symbol)
	g.EachNonTerminal(func(A *Symbol) {
		var set intsets.Sparse
		for _, r := range A.rules {
			for i, X := range r.rhs {
				if X.terminal {
					break
				}
				if !(i == 0 && X == A) && set.Insert(X.ID) {
					corners[A.ID] = append(corners[A.ID], X)
				}
				if !nullable.IsNullable(X) {
					break
				}
			}
		}
	})
	var found *Symbol
	g.EachNonTerminal(func(A *Symbol) {
		if found != nil {
			return
		}
		var visited intsets.Sparse
		worklist := append([]*Symbol{}, corners[A.ID]...)
		for len(worklist) > 0 {
			B := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if B == A {
				found = A
				return
			}
			if visited.Insert(B.ID) {
				worklist = append(worklist, corners[B.ID]...)
			}
		}
	})
	return found
}
