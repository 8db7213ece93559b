package vm

import (
	"fmt"
	"strings"
)

// RangeVal is a numeric range; min > max means the range iterates in
// reverse.
type RangeVal struct {
	objHeader
	Min, Max float64
}

func (r *RangeVal) objType() ObjType { return ObjRange }
func (r *RangeVal) String() string   { return fmt.Sprintf("%s..%s", formatNumber(r.Min), formatNumber(r.Max)) }

// Contains reports whether n falls within the range, inclusive, handling
// the reversed (min > max) case.
func (r *RangeVal) Contains(n float64) bool {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return n >= lo && n <= hi
}

// Len returns the number of integers the range spans when iterated.
func (r *RangeVal) Len() int {
	if r.Min <= r.Max {
		return int(r.Max-r.Min) + 1
	}
	return int(r.Min-r.Max) + 1
}

// At returns the i-th value produced while iterating the range in its
// natural direction (ascending if Min<=Max, descending otherwise).
func (r *RangeVal) At(i int) float64 {
	if r.Min <= r.Max {
		return r.Min + float64(i)
	}
	return r.Min - float64(i)
}

// ListVal is a growable, ordered sequence of Values.
type ListVal struct {
	objHeader
	Elements []Value
}

func (l *ListVal) objType() ObjType { return ObjList }
func (l *ListVal) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}
