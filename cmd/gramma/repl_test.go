package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/gramma/lr/driver"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplDeclareAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	intp := &Intp{}
	_, err := intp.Eval(":dump")
	assert.True(t, errors.Is(err, errNoGrammar))
	//
	_, err = intp.Eval(`Sum -> Sum "+" number | number ;`)
	require.NoError(t, err)
	require.NotNil(t, intp.g)
	tree, err := intp.parse("1 + 2")
	require.NoError(t, err)
	assert.Len(t, tree.Leaves(), 3)
	_, err = intp.parse("1 +")
	var serr *driver.SyntaxError
	assert.True(t, errors.As(err, &serr), "have %v", err)
	//
	_, err = intp.Eval(`Sum -> "+ ;`) // broken declaration is dropped
	assert.Error(t, err)
	_, err = intp.Eval(`Sum -> "(" Sum ")" ;`)
	require.NoError(t, err)
	assert.Len(t, intp.decls, 2)
	_, err = intp.Eval(":parse (1 + 2)")
	assert.NoError(t, err)
}

func TestReplCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.lr")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "expr.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(`
		E -> E "+" T | T ;
		T -> ident | "(" E ")" ;
	`), 0o644))
	intp := &Intp{}
	_, err := intp.Eval(":load " + path)
	require.NoError(t, err)
	for _, cmd := range []string{":dump", ":analyze", ":table", ":table lr1", ":table ll1", ":help"} {
		_, err = intp.Eval(cmd)
		assert.NoError(t, err, cmd)
	}
	_, err = intp.Eval(":table lalr")
	assert.Error(t, err)
	_, err = intp.Eval(":frobnicate")
	assert.Error(t, err)
	//
	_, err = intp.Eval(":transform left-recursion")
	require.NoError(t, err)
	assert.Equal(t, "E -> T $0\nT -> ident | \"(\" E \")\"\n$0 -> ε | \"+\" T $0\n", intp.g.Dump())
	_, err = intp.Eval(":transform sideways")
	assert.Error(t, err)
	//
	quit, err := intp.Eval(":quit")
	assert.NoError(t, err)
	assert.True(t, quit)
	_, err = intp.Eval(":reset")
	require.NoError(t, err)
	assert.Nil(t, intp.g)
}

func TestViewTable(t *testing.T) {
	view := map[string]map[string][]string{
		"0": {"a": {"S1"}, "S": {"2"}},
		"1": {"#eof": {"Acc", "R S -> a"}},
	}
	data := viewTable(view, []string{"0", "1"}, []string{"#eof", "a", "S"})
	require.Len(t, data, 3)
	assert.Equal(t, []string{"", "#eof", "a", "S"}, data[0])
	assert.Equal(t, []string{"0", "", "S1", "2"}, data[1])
	assert.Equal(t, []string{"1", "Acc / R S -> a", "", ""}, data[2])
}
