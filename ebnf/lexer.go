package ebnf

import (
	"strings"
	"sync"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/lr/scanner"
	"github.com/npillmayer/gramma/lr/scanner/lexmach"
	"github.com/timtadh/lexmachine"
)

// Token kinds of grammar descriptions.
const (
	tokIdent gramma.TokType = iota + 1
	tokString
	tokNumber
	tokArrow
	tokBar
	tokSemicolon
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokLBrace
	tokRBrace
	tokStar
	tokPlus
	tokQuestion
	tokEOF gramma.TokType = scanner.EOF
)

var literals = []string{"->", "|", ";", "(", ")", "[", "]", "{", "}", "*", "+", "?"}

var tokenIds = map[string]int{
	"IDENT":  int(tokIdent),
	"STRING": int(tokString),
	"NUMBER": int(tokNumber),
	"->":     int(tokArrow),
	"|":      int(tokBar),
	";":      int(tokSemicolon),
	"(":      int(tokLParen),
	")":      int(tokRParen),
	"[":      int(tokLBrack),
	"]":      int(tokRBrack),
	"{":      int(tokLBrace),
	"}":      int(tokRBrace),
	"*":      int(tokStar),
	"+":      int(tokPlus),
	"?":      int(tokQuestion),
}

// tokenName returns a name for a token kind, used in error messages.
func tokenName(kind gramma.TokType) string {
	switch kind {
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokEOF:
		return "end of input"
	}
	for lit, id := range tokenIds {
		if id == int(kind) {
			return `"` + lit + `"`
		}
	}
	return "?"
}

var lexer *lexmach.LMAdapter
var lexerErr error
var initOnce sync.Once

// initLexer compiles the DFA for the tokenizer. This is done only once.
func initLexer() (*lexmach.LMAdapter, error) {
	initOnce.Do(func() {
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`//[^\n]*`), lexmach.Skip)
			lexer.Add([]byte(`/\*([^*]|\*+[^*/])*\*+/`), lexmach.Skip)
			lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
			lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), lexmach.MakeToken("IDENT", tokenIds["IDENT"]))
			lexer.Add([]byte(`[0-9]+`), lexmach.MakeToken("NUMBER", tokenIds["NUMBER"]))
			lexer.Add([]byte(`"([^"\\\n]|\\[^\n])*"`), lexmach.MakeToken("STRING", tokenIds["STRING"]))
			lexer.Add([]byte(`'([^'\\\n]|\\[^\n])*'`), lexmach.MakeToken("STRING", tokenIds["STRING"]))
			lexer.Add([]byte(`"([^"\\\n]|\\[^\n])*`), lexmach.Fail("unterminated string"))
			lexer.Add([]byte(`'([^'\\\n]|\\[^\n])*`), lexmach.Fail("unterminated string"))
			lexer.Add([]byte(`/\*([^*]|\*+[^*/])*\**`), lexmach.Fail("unterminated comment"))
		}
		lexer, lexerErr = lexmach.NewLMAdapter(init, literals, nil, tokenIds)
	})
	return lexer, lexerErr
}

// normalizeString converts a quoted string literal to its canonical form,
// enclosed in double quotes.
func normalizeString(lit string) string {
	if len(lit) < 2 || lit[0] != '\'' {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '\\' && i+1 < len(inner) && inner[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(inner):
			b.WriteByte(c)
			b.WriteByte(inner[i+1])
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
