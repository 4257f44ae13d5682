package scanner

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestScanPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("positions", strings.NewReader("a\n  bc 'x'"), UnifyStrings(true))
	tokens := []struct {
		lexeme    string
		line, col int
	}{
		{"a", 1, 1},
		{"bc", 2, 3},
		{"'x'", 2, 6},
	}
	for _, expected := range tokens {
		token := scanner.NextToken()
		if token.Lexeme() != expected.lexeme {
			t.Fatalf("expected token %q, have %q", expected.lexeme, token.Lexeme())
		}
		if token.Pos().Line != expected.line || token.Pos().Col != expected.col {
			t.Errorf("expected %q at %d:%d, is at %s", expected.lexeme, expected.line,
				expected.col, token.Pos())
		}
	}
	if tok := scanner.NextToken(); tok.TokType() != EOF {
		t.Errorf("expected EOF, have %v", tok)
	}
}

func TestScanError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gramma.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("error", strings.NewReader(`x "unterminated`))
	var reported error
	scanner.SetErrorHandler(func(err error) {
		reported = err
	})
	for tok := scanner.NextToken(); tok.TokType() != EOF; tok = scanner.NextToken() {
	}
	var serr *Error
	if !errors.As(reported, &serr) {
		t.Fatalf("expected a scanner error to be reported, have %v", reported)
	}
	if serr.Pos.Line != 1 {
		t.Errorf("expected error in line 1, is %s", serr.Pos)
	}
}

func TestLexeme(t *testing.T) {
	if Lexeme([]byte("abc")) != "abc" || Lexeme(42) != "42" {
		t.Errorf("unexpected lexeme conversion")
	}
}
