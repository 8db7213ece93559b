package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddConstantDedupsNumbers(t *testing.T) {
	c := NewChunk()
	i1 := c.AddConstant(NumberVal(42))
	i2 := c.AddConstant(NumberVal(42))
	require.Equal(t, i1, i2)
	require.Len(t, c.Constants, 1)

	i3 := c.AddConstant(NumberVal(43))
	require.NotEqual(t, i1, i3)
	require.Len(t, c.Constants, 2)
}

func TestAddConstantDedupsStringsByContent(t *testing.T) {
	// Two distinct string objects with equal contents must share one pool
	// slot: constant dedup is structural, not identity-based.
	a := &ObjStringVal{Chars: "x", Hash: hashBytes("x")}
	b := &ObjStringVal{Chars: "x", Hash: hashBytes("x")}

	c := NewChunk()
	require.Equal(t, c.AddConstant(ObjVal(a)), c.AddConstant(ObjVal(b)))
	require.Len(t, c.Constants, 1)
}

func TestWriteConstantSelectsShortForm(t *testing.T) {
	c := NewChunk()
	c.WriteConstant(NumberVal(7), 1)
	require.Equal(t, OpConstant, Opcode(c.Code[0]))
	require.Equal(t, byte(0), c.Code[1])
	require.Len(t, c.Code, 2)
}

func TestWriteConstantSelectsLongForm(t *testing.T) {
	c := NewChunk()
	for i := 0; i <= 0xFF; i++ {
		c.AddConstant(NumberVal(float64(i)))
	}
	c.WriteConstant(NumberVal(99999), 1)

	require.Equal(t, OpConstantLong, Opcode(c.Code[0]))
	idx := uint32(c.Code[1]) | uint32(c.Code[2])<<8 | uint32(c.Code[3])<<16 | uint32(c.Code[4])<<24
	require.Equal(t, uint32(256), idx)
	require.Len(t, c.Code, 5)
}

func TestChunkLineTableParallelsCode(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 3)
	c.WriteOp(OpReturn, 4)
	require.Equal(t, c.Len(), len(c.Lines))
	require.Equal(t, []int{3, 4}, c.Lines)
}
