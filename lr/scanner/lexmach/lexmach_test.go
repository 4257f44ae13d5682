package lexmach

import (
	"errors"
	"testing"

	"github.com/npillmayer/gramma/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var TokenCounts = []int{1, 3, 2, 3, 3}

func makeAdapter(t *testing.T) *LMAdapter {
	initTokens()
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`\"[^"]*\"`), MakeToken("STRING", tokenIds["STRING"]))
		lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken("ID", tokenIds["ID"]))
		lexer.Add([]byte(`[1-9][0-9]*`), MakeToken("NUM", tokenIds["NUM"]))
		lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
	}
	LM, err := NewLMAdapter(init, literals, keywords, tokenIds)
	if err != nil {
		t.Fatal(err)
	}
	return LM
}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	LM := makeAdapter(t)
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Error(err)
		}
		token := sc.NextToken()
		count := 0
		for token.TokType() != scanner.EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = sc.NextToken()
			count++
		}
		if count != TokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, TokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestLMPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	LM := makeAdapter(t)
	sc, err := LM.Scanner("a\n  bc")
	if err != nil {
		t.Fatal(err)
	}
	a, bc := sc.NextToken(), sc.NextToken()
	if a.Lexeme() != "a" || bc.Lexeme() != "bc" {
		t.Fatalf("expected tokens a and bc, have %q and %q", a.Lexeme(), bc.Lexeme())
	}
	if bc.Pos().Line != a.Pos().Line+1 || bc.Pos().Col != a.Pos().Col+2 {
		t.Errorf("expected bc one line below a and indented by 2, are %s and %s", a.Pos(), bc.Pos())
	}
	if bc.Span().From() != 4 || bc.Span().To() != 6 {
		t.Errorf("expected span of bc to be (4…6), is %s", bc.Span())
	}
	if eof := sc.NextToken(); eof.TokType() != scanner.EOF {
		t.Errorf("expected EOF, have %v", eof)
	}
}

func TestLMError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	LM := makeAdapter(t)
	sc, err := LM.Scanner("1 % 2")
	if err != nil {
		t.Fatal(err)
	}
	var errs []error
	sc.SetErrorHandler(func(e error) { errs = append(errs, e) })
	one := sc.NextToken()
	two := sc.NextToken()
	if one.Lexeme() != "1" || two.Lexeme() != "2" {
		t.Errorf("expected scanner to skip invalid input, have %q and %q", one.Lexeme(), two.Lexeme())
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, have %d", len(errs))
	}
	var serr *scanner.Error
	if !errors.As(errs[0], &serr) {
		t.Fatalf("expected a *scanner.Error, have %T", errs[0])
	}
	if serr.Pos.Col != one.Pos().Col+2 {
		t.Errorf("expected error at column %d, is %s", one.Pos().Col+2, serr.Pos)
	}
}

var literals []string       // The tokens representing literal strings
var keywords []string       // The keyword tokens
var tokens []string         // All of the tokens (including literals and keywords)
var tokenIds map[string]int // A map from the token names to their int ids

func initTokens() {
	literals = []string{
		"'",
		"(",
		")",
		"[",
		"]",
		"=",
		"+",
		"-",
		"*",
		"/",
	}
	keywords = []string{
		"nil",
		"t",
	}
	tokens = []string{
		"COMMENT",
		"ID",
		"NUM",
		"STRING",
	}
	tokens = append(tokens, keywords...)
	tokens = append(tokens, literals...)
	tokenIds = make(map[string]int)
	tokenIds["COMMENT"] = scanner.Comment
	tokenIds["ID"] = scanner.Ident
	tokenIds["NUM"] = scanner.Int
	tokenIds["STRING"] = int(scanner.String)
	for i, tok := range tokens[4:] {
		tokenIds[tok] = i + 10
	}
}
