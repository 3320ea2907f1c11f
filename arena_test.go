package luatyped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaPushZeroesByDefault(t *testing.T) {
	a := NewArena(16)
	block := a.Push(8, false)
	require.Len(t, block, 8)
	for _, b := range block {
		assert.Equal(t, byte(0), b)
	}
}

func TestArenaPushNonZeroOkLeavesGarbage(t *testing.T) {
	a := NewArena(16)
	first := a.Push(4, true)
	copy(first, []byte{1, 2, 3, 4})
	a.Pop(4)
	second := a.Push(4, true)
	assert.Equal(t, []byte{1, 2, 3, 4}, second)
}

func TestArenaGrowsPastInitialCapacity(t *testing.T) {
	a := NewArena(4)
	block := a.Push(64, true)
	assert.Len(t, block, 64)
}

func TestArenaPushByte(t *testing.T) {
	a := NewArena(8)
	a.PushByte('a')
	a.PushByte('b')
	a.PushByte('c')
	assert.Equal(t, []byte{'a', 'b', 'c'}, a.buf[:3])
}

func TestArenaResizeGrowsInPlaceForMostRecentAllocation(t *testing.T) {
	a := NewArena(16)
	block := a.Push(4, true)
	copy(block, []byte{1, 2, 3, 4})
	grown := a.Resize(block, 4, 8)
	require.Len(t, grown, 8)
	assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestArenaResizeCopiesWhenNotMostRecent(t *testing.T) {
	a := NewArena(16)
	first := a.Push(4, true)
	copy(first, []byte{1, 2, 3, 4})
	_ = a.Push(4, true) // pushes first out of "most recent" position

	grown := a.Resize(first, 4, 8)
	require.Len(t, grown, 8)
	assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestArenaPopToRewindsToMark(t *testing.T) {
	a := NewArena(16)
	mark := a.Mark()
	a.Push(8, true)
	a.PopTo(mark)
	assert.Equal(t, mark, a.Mark())
}

func TestArenaClearResetsNodeLedger(t *testing.T) {
	a := NewArena(16)
	NewNode(a, 42)
	NewNode(a, "x")
	require.Equal(t, 2, a.NodeCount())
	a.Clear()
	assert.Equal(t, 0, a.NodeCount())
	assert.Equal(t, 0, a.Mark())
}

func TestArenaDestroyMakesFurtherPushesNoops(t *testing.T) {
	a := NewArena(16)
	a.Destroy()
	assert.Nil(t, a.Push(8, true))
}

func TestNewNodeBooksAgainstLedger(t *testing.T) {
	a := NewArena(16)
	n := NewNode(a, BoolExpr{Value: true})
	assert.True(t, n.Value)
	assert.Equal(t, 1, a.NodeCount())
}
