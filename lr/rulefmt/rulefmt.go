/*
Package rulefmt reads grammar rules in the printed form produced by lr.Grammar.Dump:

	E -> E + T | T
	T -> F
	$0 -> ε | "*" F $0

Each line holds the rules of a non-terminal, alternatives being separated by a
bar. The empty right hand side is written as ε (or left empty). Lines may also be
terminated by semicolons, and comments start with // and extend to the end of
the line.

A RuleSet is a set of rules in canonical string form. It is suitable for comparing
grammars rule by rule, e.g. in tests.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package rulefmt

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/npillmayer/gramma/lr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Arrow", Pattern: `->|→`},
	{Name: "Bar", Pattern: `\|`},
	{Name: "EOL", Pattern: `[\n;]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Name", Pattern: `[^\s|;"]+`},
})

type ruleFile struct {
	Lines []*ruleLine `parser:"EOL* ( @@ EOL* )*"`
}

type ruleLine struct {
	Pos  lexer.Position
	LHS  string   `parser:"@(Name | String) Arrow"`
	Body []string `parser:"@(Name | String | Bar)*"`
}

var parser = participle.MustBuild[ruleFile](
	participle.Lexer(ruleLexer),
	participle.Elide("Comment", "Whitespace"),
)

// RuleSet is a set of rules in canonical form "A -> x y", with "A -> ε" for
// empty rules.
type RuleSet map[string]struct{}

// Parse reads rules in printed form.
func Parse(text string) (RuleSet, error) {
	file, err := parser.ParseString("", text)
	if err != nil {
		return nil, err
	}
	rs := RuleSet{}
	for _, line := range file.Lines {
		var alt []string
		for _, sym := range append(line.Body, "|") {
			if sym != "|" {
				if sym != lr.Epsilon {
					alt = append(alt, sym)
				}
				continue
			}
			rs.add(line.LHS, alt)
			alt = alt[:0]
		}
	}
	return rs, nil
}

// FromGrammar collects the rules of a grammar, excluding the augmented
// start rule.
func FromGrammar(g *lr.Grammar) RuleSet {
	rs := RuleSet{}
	g.EachRule(func(r *lr.Rule) {
		rs[r.String()] = struct{}{}
	})
	return rs
}

func (rs RuleSet) add(lhs string, rhs []string) {
	if len(rhs) == 0 {
		rs[lhs+" -> "+lr.Epsilon] = struct{}{}
		return
	}
	rs[lhs+" -> "+strings.Join(rhs, " ")] = struct{}{}
}

// Len returns the number of rules.
func (rs RuleSet) Len() int {
	return len(rs)
}

// Has checks if a rule, given in canonical form, is part of the set.
func (rs RuleSet) Has(rule string) bool {
	_, ok := rs[rule]
	return ok
}

// Rules returns the rules in sorted order.
func (rs RuleSet) Rules() []string {
	rules := maps.Keys(rs)
	slices.Sort(rules)
	return rules
}

// Equal checks if two rule sets contain the same rules.
func (rs RuleSet) Equal(other RuleSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for r := range rs {
		if !other.Has(r) {
			return false
		}
	}
	return true
}

// Diff returns the rules missing from other and the rules extra in other,
// both sorted.
func (rs RuleSet) Diff(other RuleSet) (missing, extra []string) {
	for r := range rs {
		if !other.Has(r) {
			missing = append(missing, r)
		}
	}
	for r := range other {
		if !rs.Has(r) {
			extra = append(extra, r)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return
}

func (rs RuleSet) String() string {
	return fmt.Sprintf("%d rules {%s}", len(rs), strings.Join(rs.Rules(), "; "))
}
