package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisassembleListsInstructions(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	fn, err := Compile(v, `print 1 + 2;`)
	require.NoError(t, err)

	text := Disassemble(fn.Chunk, "<script>")
	require.Contains(t, text, "== <script> ==")
	require.Contains(t, text, "CONSTANT")
	require.Contains(t, text, "ADD")
	require.Contains(t, text, "PRINT")
	require.Contains(t, text, "RETURN")
}

func TestDisassembleClosureShowsUpvalues(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	fn, err := Compile(v, `
		fun outer() { var x = 1; fun inner() { return x; } return inner; }
	`)
	require.NoError(t, err)

	// inner's CLOSURE, with its captured-local pair, lives in outer's chunk.
	var outer *Function
	for _, k := range fn.Chunk.Constants {
		if f, ok := k.Obj.(*Function); ok {
			outer = f
		}
	}
	require.NotNil(t, outer)

	text := Disassemble(outer.Chunk, "outer")
	require.Contains(t, text, "CLOSURE")
	require.Contains(t, text, "local 1")
}

func TestGlobalNamesSorted(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)
	require.NoError(t, v.Interpret(`var zebra = 1; var apple = 2;`))

	names := v.GlobalNames()
	require.Contains(t, names, "apple")
	require.Contains(t, names, "zebra")
	require.True(t, indexOf(names, "apple") < indexOf(names, "zebra"))
}

func indexOf(xs []string, want string) int {
	for i, x := range xs {
		if x == want {
			return i
		}
	}
	return -1
}
