package luatyped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) ([]Token, *Pool) {
	t.Helper()
	pool := NewPool(NewArena(1<<12), 64)
	tokens := Tokenize([]byte(src+"\x00"), pool)
	return tokens, pool
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeEndsWithSingleEOF(t *testing.T) {
	tokens, _ := tokenize(t, "local x = 1;")
	require.NotEmpty(t, tokens)
	assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)
	for _, tok := range tokens[:len(tokens)-1] {
		assert.NotEqual(t, EOF, tok.Kind)
	}
}

func TestTokenizeEmptySourceIsJustEOF(t *testing.T) {
	tokens, _ := tokenize(t, "   \n\t  ")
	require.Len(t, tokens, 1)
	assert.Equal(t, EOF, tokens[0].Kind)
}

func TestTokenizeLineMonotonicity(t *testing.T) {
	tokens, _ := tokenize(t, "a\nb\nc")
	last := 0
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, tok.Line, last)
		last = tok.Line
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	tokens, pool := tokenize(t, "local x")
	require.Len(t, tokens, 3)
	assert.Equal(t, KwLocal, tokens[0].Kind)
	assert.Equal(t, IDENTIFIER, tokens[1].Kind)
	assert.Equal(t, "x", pool.Text(tokens[1].Text))
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	tokens, _ := tokenize(t, "== ~= <= >= .. ...")
	assert.Equal(t,
		[]TokenKind{EQUAL_EQUAL, NOT_EQUAL, LESS_EQUAL, GREATER_EQUAL, CONCAT, ELLIPSIS, EOF},
		kinds(tokens))
}

func TestTokenizeBracesAndParensAreNotSwapped(t *testing.T) {
	tokens, _ := tokenize(t, "(){}")
	assert.Equal(t, []TokenKind{LPAREN, RPAREN, LBRACE, RBRACE, EOF}, kinds(tokens))
}

func TestTokenizeLoneTildeIsError(t *testing.T) {
	tokens, _ := tokenize(t, "~")
	require.Len(t, tokens, 2)
	assert.Equal(t, ERROR, tokens[0].Kind)
}

func TestTokenizeLineComment(t *testing.T) {
	tokens, _ := tokenize(t, "-- a comment\nx")
	require.Len(t, tokens, 2)
	assert.Equal(t, IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, 2, tokens[0].Line)
}

func TestTokenizeLongBracketComment(t *testing.T) {
	tokens, _ := tokenize(t, "--[==[\nignored\n]==]\nx")
	require.Len(t, tokens, 2)
	assert.Equal(t, IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, 4, tokens[0].Line)
}

func TestTokenizeQuotedStringEscapes(t *testing.T) {
	tokens, pool := tokenize(t, `"a\nb\tc"`)
	require.Len(t, tokens, 2)
	assert.Equal(t, STRING, tokens[0].Kind)
	assert.Equal(t, "a\nb\tc", pool.Text(tokens[0].Text))
}

func TestTokenizeDecimalByteEscape(t *testing.T) {
	tokens, pool := tokenize(t, `"\255"`)
	require.Len(t, tokens, 2)
	text := pool.Text(tokens[0].Text)
	require.Len(t, text, 1)
	assert.Equal(t, byte(255), text[0])
}

func TestTokenizeBackslashNewlineIsLiteralNewline(t *testing.T) {
	tokens, pool := tokenize(t, "\"a\\\nb\"")
	require.Len(t, tokens, 2)
	assert.Equal(t, "a\nb", pool.Text(tokens[0].Text))
}

func TestTokenizeUnknownEscapeIsLiteral(t *testing.T) {
	tokens, pool := tokenize(t, `"\q"`)
	require.Len(t, tokens, 2)
	assert.Equal(t, "q", pool.Text(tokens[0].Text))
}

func TestTokenizeUnterminatedQuotedString(t *testing.T) {
	tokens, _ := tokenize(t, `"abc`)
	require.Len(t, tokens, 2)
	assert.Equal(t, ERROR, tokens[0].Kind)
}

func TestTokenizeLongStringElidesLeadingNewline(t *testing.T) {
	tokens, pool := tokenize(t, "[[\nhello]]")
	require.Len(t, tokens, 2)
	assert.Equal(t, STRING, tokens[0].Kind)
	assert.Equal(t, "hello", pool.Text(tokens[0].Text))
}

func TestTokenizeLongStringNestedDifferentLevelDoesNotClose(t *testing.T) {
	tokens, pool := tokenize(t, "[==[ hello ]=] ]==]")
	require.Len(t, tokens, 2)
	assert.Equal(t, STRING, tokens[0].Kind)
	assert.Equal(t, " hello ]=] ", pool.Text(tokens[0].Text))
}

func TestTokenizeUnterminatedLongString(t *testing.T) {
	tokens, _ := tokenize(t, "[[ unterminated")
	require.Len(t, tokens, 2)
	assert.Equal(t, ERROR, tokens[0].Kind)
}

func TestTokenizeNumberDoesNotAcceptExponent(t *testing.T) {
	tokens, pool := tokenize(t, "1e5")
	// '1' scans as NUMBER, 'e5' scans as a separate IDENTIFIER.
	require.Len(t, tokens, 3)
	assert.Equal(t, NUMBER, tokens[0].Kind)
	assert.Equal(t, "1", pool.Text(tokens[0].Text))
	assert.Equal(t, IDENTIFIER, tokens[1].Kind)
}

func TestCollectLexErrorsFindsUnterminatedString(t *testing.T) {
	tokens, pool := tokenize(t, `"abc`)
	errs := CollectLexErrors(tokens, pool)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Unterminated string")
	assert.Equal(t, 1, errs[0].Line)
}

func TestCollectLexErrorsEmptyWhenNoErrorTokens(t *testing.T) {
	tokens, pool := tokenize(t, "local x = 1;")
	assert.Empty(t, CollectLexErrors(tokens, pool))
}

func TestTokenizeFloatLiteral(t *testing.T) {
	tokens, pool := tokenize(t, "3.14")
	require.Len(t, tokens, 2)
	assert.Equal(t, NUMBER, tokens[0].Kind)
	assert.Equal(t, "3.14", pool.Text(tokens[0].Text))
}
