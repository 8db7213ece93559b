package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternTableIsWeakAcrossCollection(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	h := v.Heap()

	h.InternString("transient")
	require.NotNil(t, h.strings.FindString("transient", hashBytes("transient")))

	// Nothing roots the string, so a full cycle must drop it from the
	// intern set.
	collectGarbage(h, v, nil)
	require.Nil(t, h.strings.FindString("transient", hashBytes("transient")))
}

func TestRootedStringsSurviveCollection(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	h := v.Heap()

	// Native names are held by the globals table, a root.
	collectGarbage(h, v, nil)
	require.NotNil(t, h.strings.FindString("clock", hashBytes("clock")))
}

func TestCollectHookReportsFreedBytes(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	h := v.Heap()

	var calls int
	h.SetCollectHook(func(freed, next uint64) { calls++ })
	h.SetStressGC(true)
	h.InternString("hook-trigger")
	require.Greater(t, calls, 0)
}

func TestFormatGCStats(t *testing.T) {
	line := FormatGCStats(1200, 4800)
	require.Contains(t, line, "gc: collected")
	require.Contains(t, line, "bytes=")
	require.Contains(t, line, "next=")
}

func TestMarkAndSweepResetsMarks(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	h := v.Heap()

	s := h.InternString("kept")
	v.push(ObjVal(s))
	collectGarbage(h, v, nil)
	// Survivors must come out white again, ready for the next cycle.
	require.False(t, s.marked)
	v.pop()
}
