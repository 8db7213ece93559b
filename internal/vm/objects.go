package vm

import (
	"fmt"
	"hash/fnv"
)

// ObjType tags the concrete variant of a heap Object; everything that
// would otherwise be a downcast is a switch on this tag.
type ObjType uint8

const (
	ObjString ObjType = iota
	ObjFunction
	ObjNative
	ObjUpvalue
	ObjClosure
	ObjClass
	ObjInstance
	ObjBoundMethod
	ObjRange
	ObjList
)

// Object is the common header every heap value embeds: a type tag, a GC
// mark bit, and (for strings) a cached hash. All heap objects implement it.
type Object interface {
	objType() ObjType
	header() *objHeader
	String() string
}

// objHeader is embedded by every heap object. Embedding instead of
// per-type bookkeeping keeps the GC's mark/sweep code type-agnostic.
type objHeader struct {
	marked bool
	next   Object // intrusive singly-linked list of every live allocation
}

func (h *objHeader) header() *objHeader { return h }

// ObjStringVal is an immutable, interned string. Equal contents always
// share identity: all ObjStringVal instances are created via
// Heap.InternString, never directly.
type ObjStringVal struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjStringVal) objType() ObjType { return ObjString }
func (s *ObjStringVal) String() string   { return s.Chars }

func hashBytes(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// Function is a fixed-arity compiled function: a name, arity, upvalue
// count, and the Chunk holding its bytecode.
type Function struct {
	objHeader
	Name         *ObjStringVal // nil for top-level script functions
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
}

func (f *Function) objType() ObjType { return ObjFunction }
func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is the host function ABI: the owning VM (for re-entrant calls)
// and a slice over the argument window, where args[0] is the receiver for
// method-style natives and the callee itself otherwise.
type NativeFn func(vm *VM, args []Value) (Value, error)

// Native wraps a host-provided function.
type Native struct {
	objHeader
	Name     string
	Arity    int
	IsMethod bool // true if args[0] is the receiver
	Fn       NativeFn
}

func (n *Native) objType() ObjType { return ObjNative }
func (n *Native) String() string   { return fmt.Sprintf("<native fn %s>", n.Name) }

// UpvalueObj is either open (Location indexes into the owning VM's value
// stack) or closed (Closed holds the hoisted value and Location is -1).
type UpvalueObj struct {
	objHeader
	Location int
	Closed   Value
	Next     *UpvalueObj // open-upvalue list link, sorted by descending Location
}

func (u *UpvalueObj) objType() ObjType { return ObjUpvalue }
func (u *UpvalueObj) String() string   { return "upvalue" }

func (u *UpvalueObj) isOpen() bool { return u.Location >= 0 }

// Closure pairs a Function with the Upvalues it captured at creation time.
type Closure struct {
	objHeader
	Function *Function
	Upvalues []*UpvalueObj
}

func (c *Closure) objType() ObjType { return ObjClosure }
func (c *Closure) String() string   { return c.Function.String() }
