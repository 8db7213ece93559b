package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gloxlang/glox/internal/token"
)

func allTokens(src string) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestLexerPunctuationAndKeywords(t *testing.T) {
	toks := allTokens(`var x = 1 + 2; // comment
print x;`)

	require.Equal(t, token.VAR, toks[0].Type)
	require.Equal(t, token.IDENT, toks[1].Type)
	require.Equal(t, "x", toks[1].Lexeme)
	require.Equal(t, token.EQUAL, toks[2].Type)
	require.Equal(t, token.NUMBER, toks[3].Type)
	require.Equal(t, token.PLUS, toks[4].Type)
	require.Equal(t, token.NUMBER, toks[5].Type)
	require.Equal(t, token.SEMICOLON, toks[6].Type)
	require.Equal(t, token.PRINT, toks[7].Type)
	require.Equal(t, 2, toks[7].Line)
}

func TestLexerRoundTrip(t *testing.T) {
	src := "1..5"
	toks := allTokens(src)
	require.Equal(t, token.NUMBER, toks[0].Type)
	require.Equal(t, token.DOT_DOT, toks[1].Type)
	require.Equal(t, token.NUMBER, toks[2].Type)

	var reconstructed string
	for _, tok := range toks {
		if tok.Type == token.EOF {
			break
		}
		reconstructed += tok.Lexeme
	}
	require.Equal(t, src, reconstructed)
}

func TestLexerUnterminatedString(t *testing.T) {
	toks := allTokens(`"abc`)
	require.Equal(t, token.ILLEGAL, toks[0].Type)
}
