package luatyped

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpTokensHeaderReportsCount(t *testing.T) {
	arena := NewArena(1 << 12)
	pool := NewPool(arena, 32)
	tokens := Tokenize([]byte("local x = 1;\x00"), pool)

	var buf bytes.Buffer
	DumpTokens(&buf, tokens, pool)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "--- TOKENS ("))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, len(tokens)+1)
}

func TestDumpStmtRendersBlockAndChildren(t *testing.T) {
	arena := NewArena(1 << 12)
	pool := NewPool(arena, 32)
	tokens := Tokenize([]byte("local x: number = 1;\x00"), pool)
	root, success := Parse(tokens, arena, pool)
	require.True(t, success)

	var buf bytes.Buffer
	DumpStmt(&buf, root, pool)

	out := buf.String()
	assert.Contains(t, out, "BLOCK")
	assert.Contains(t, out, "LOCAL")
	assert.Contains(t, out, "DECL")
}
