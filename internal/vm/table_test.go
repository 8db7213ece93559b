package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func internedKey(h *Heap, s string) *ObjStringVal {
	return h.InternString(s)
}

func TestTableSetGetDelete(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()
	k := internedKey(h, "answer")

	isNew := tbl.Set(k, NumberVal(42))
	require.True(t, isNew)

	v, ok := tbl.Get(k)
	require.True(t, ok)
	require.Equal(t, 42.0, v.AsNumber())

	require.True(t, tbl.Delete(k))
	_, ok = tbl.Get(k)
	require.False(t, ok)
}

func TestTableSetReturnsFalseForExistingKey(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()
	k := internedKey(h, "x")

	require.True(t, tbl.Set(k, NumberVal(1)))
	require.False(t, tbl.Set(k, NumberVal(2)))

	v, _ := tbl.Get(k)
	require.Equal(t, 2.0, v.AsNumber())
}

func TestTableLoadFactorStaysBounded(t *testing.T) {
	h := NewHeap()
	tbl := NewTable()
	for i := 0; i < 1000; i++ {
		k := internedKey(h, string(rune('a'))+itoa(i))
		tbl.Set(k, NumberVal(float64(i)))
	}
	require.LessOrEqual(t, float64(tbl.Len())/float64(len(tbl.entries)), 0.75)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func TestTableFindString(t *testing.T) {
	h := NewHeap()
	s1 := h.InternString("shared")
	s2 := h.InternString("shared")
	require.Same(t, s1, s2)

	tbl := NewTable()
	tbl.Set(s1, NumberVal(1))
	found := tbl.FindString("shared", hashBytes("shared"))
	require.Same(t, s1, found)
}
