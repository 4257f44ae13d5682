package ebnf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/gramma/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprGrammar = `
Expr   -> Expr ("+" | "-") Term | Term ;
Term   -> Factor { ("*" | "/") Factor } ;
Factor -> number | "(" Expr ")" ;
`

func TestParseExpr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	g, err := ParseString("Expr", exprGrammar)
	require.NoError(t, err)
	assert.Equal(t, "Expr", g.Name)
	assert.Equal(t, "Expr", g.Start().Name)
	expected := `Expr -> Expr $0 Term | Term
$0 -> "+" | "-"
Term -> Factor $2
Factor -> number | "(" Expr ")"
$1 -> "*" | "/"
$2 -> ε | $1 Factor $2
`
	assert.Equal(t, expected, g.Dump())
	term, ok := g.SymbolByName("Term")
	require.True(t, ok)
	assert.False(t, term.IsTerminal(), "Term is declared after first use")
	num, ok := g.SymbolByName("number")
	require.True(t, ok)
	assert.True(t, num.IsTerminal())
	//
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	require.NoError(t, lrgen.CreateTables())
	assert.False(t, lrgen.HasConflicts)
}

func TestOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	tests := []struct {
		src, dump string
	}{
		{`S -> a b* c+ d? ;`,
			"S -> a $0 c $1 $2\n$0 -> ε | b $0\n$1 -> ε | c $1\n$2 -> ε | d\n"},
		{`S -> [ a b ] { c | d } ;`,
			"S -> $0 $2\n$0 -> ε | a b\n$1 -> c | d\n$2 -> ε | $1 $2\n"},
		{`S -> (a b)* ;`,
			"S -> $0\n$0 -> ε | a b $0\n"},
		{`S -> (a) b | ;`,
			"S -> a b | ε\n"},
		{`S -> [a]+ ;`,
			"S -> $0 $1\n$0 -> ε | a\n$1 -> ε | $0 $1\n"},
	}
	for _, tt := range tests {
		g, err := ParseString("Ops", tt.src)
		if assert.NoError(t, err, tt.src) {
			assert.Equal(t, tt.dump, g.Dump(), tt.src)
		}
	}
}

func TestLiteralsAndComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	src := `// a line comment
S -> 'x' "x" /* a block
comment */ 42 | 'it\'s' ;
`
	g, err := ParseString("Lit", src)
	require.NoError(t, err)
	assert.Equal(t, "S -> \"x\" \"x\" 42 | \"it's\"\n", g.Dump())
	n := 0
	g.EachTerminal(func(A *lr.Symbol) {
		if A.Name == `"x"` {
			n++
		}
	})
	assert.Equal(t, 1, n, "single and double quotes denote the same terminal")
}

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, `"a"`, normalizeString(`'a'`))
	assert.Equal(t, `"say \"hi\""`, normalizeString(`'say "hi"'`))
	assert.Equal(t, `"a\nb"`, normalizeString(`'a\nb'`))
	assert.Equal(t, `"unchanged"`, normalizeString(`"unchanged"`))
}

func TestEmptyGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	for _, src := range []string{"", "  // nothing here\n"} {
		_, err := ParseString("Empty", src)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "expected a ParseError for %q, have %v", src, err)
	}
}

func TestUnexpectedToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	_, err := ParseString("Err", `S a ;`)
	var uerr *UnexpectedTokenError
	require.True(t, errors.As(err, &uerr), "have %v", err)
	assert.Equal(t, "a", uerr.Found)
	assert.Equal(t, []string{`"->"`}, uerr.Expected)
	//
	_, err = ParseString("Err", `S -> a`)
	require.True(t, errors.As(err, &uerr), "have %v", err)
	assert.Equal(t, "", uerr.Found)
	assert.Contains(t, uerr.Expected, `";"`)
	assert.Contains(t, err.Error(), "end of input")
	//
	_, err = ParseString("Err", "S -> a ;\nT -> ) ;")
	require.True(t, errors.As(err, &uerr), "have %v", err)
	assert.Equal(t, ")", uerr.Found)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	//
	_, err = ParseString("Err", `S -> ( a | b ;`)
	require.True(t, errors.As(err, &uerr), "have %v", err)
	assert.Contains(t, uerr.Expected, `")"`)
}

func TestLexicalErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	_, err := ParseString("Err", `S -> "abc ;`)
	var lerr *LexicalError
	require.True(t, errors.As(err, &lerr), "have %v", err)
	assert.Contains(t, lerr.Msg, "unterminated string")
	var perr *ParseError
	assert.True(t, errors.As(err, &perr), "lexical errors unwrap to ParseError")
	//
	_, err = ParseString("Err", `S -> a % b ;`)
	require.True(t, errors.As(err, &lerr), "have %v", err)
	assert.Contains(t, lerr.Msg, "invalid character")
}

func TestCannotDeclareNonTerminalTwiceAsTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	g, err := ParseString("Decl", "S -> A b ;\nA -> c ;\nA -> d ;")
	require.NoError(t, err)
	A, _ := g.SymbolByName("A")
	assert.False(t, A.IsTerminal())
	assert.Len(t, A.Rules(), 2)
	assert.Equal(t, "S", g.Start().Name)
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "expr.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(exprGrammar), 0o644))
	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expr.ebnf", g.Name)
	g2, err := Parse("expr.ebnf", strings.NewReader(exprGrammar))
	require.NoError(t, err)
	assert.Equal(t, g.Dump(), g2.Dump())
	_, err = Load(filepath.Join(t.TempDir(), "missing.ebnf"))
	assert.Error(t, err)
}

func TestAuxiliaryRuleErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.ebnf")
	defer teardown()
	//
	p := &parser{g: lr.NewGrammar("Aux")}
	foreign, err := lr.NewGrammar("Other").Terminal("a")
	require.NoError(t, err)
	unit := []*lr.Symbol{foreign}
	for name, desugar := range map[string]func([]*lr.Symbol) ([]*lr.Symbol, error){
		"repeat":   p.repeat,
		"optional": p.optional,
		"group": func(u []*lr.Symbol) ([]*lr.Symbol, error) {
			return p.auxiliary(u, nil)
		},
	} {
		syms, err := desugar(unit)
		assert.True(t, errors.Is(err, lr.ErrUndeclaredSymbol), "%s: have %v", name, err)
		assert.Nil(t, syms, name)
	}
}
