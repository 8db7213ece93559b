package vm

import "github.com/dustin/go-humanize"

// Heap owns every allocation reachable from the VM and drives the tracing
// mark-sweep collector.
type Heap struct {
	objects Object // intrusive linked list of every live allocation
	strings *Table  // weak intern set, keyed by the string, with Nil values

	bytesAllocated uint64
	nextGC         uint64
	growFactor     uint64
	stressGC       bool

	vm *VM // root provider; nil until the owning VM finishes constructing itself

	onCollect func(freed, next uint64) // diagnostics hook, nil by default
}

const defaultNextGC = 1 << 20 // first collection waits for 1 MiB of live data

// NewHeap returns an empty Heap ready to allocate.
func NewHeap() *Heap {
	return &Heap{
		strings:    NewTable(),
		nextGC:     defaultNextGC,
		growFactor: 2,
	}
}

// bindVM lets the VM register itself as a GC root provider once it exists;
// the Heap must be constructed before the VM that owns it.
func (h *Heap) bindVM(vm *VM) { h.vm = vm }

// track links obj into the live-object list and accounts for its size in
// bytesAllocated, then runs the GC if the heap has grown past nextGC.
//
// obj itself is not yet reachable from any root at this point (its caller
// hasn't pushed it on the stack, stored it in a field, or linked it into
// vm.openUpvalues yet), so a collection triggered right here must not
// sweep it out from under its own constructor. collect is told about obj
// explicitly so it can mark it as a temporary extra root before tracing.
func (h *Heap) track(obj Object, size uint64) {
	hdr := obj.header()
	hdr.next = h.objects
	h.objects = obj

	h.bytesAllocated += size
	if h.stressGC || h.bytesAllocated > h.nextGC {
		h.collect(obj)
	}
}

func (h *Heap) collect(newborn Object) {
	if h.vm == nil {
		return
	}
	before := h.bytesAllocated
	collectGarbage(h, h.vm, newborn)
	h.nextGC = h.bytesAllocated * h.growFactor
	if h.nextGC < defaultNextGC {
		h.nextGC = defaultNextGC
	}
	if h.onCollect != nil {
		h.onCollect(before-h.bytesAllocated, h.nextGC)
	}
}

// SetStressGC enables collect-on-every-allocation mode, used by tests to
// shake out premature sweeps.
func (h *Heap) SetStressGC(enabled bool) { h.stressGC = enabled }

// SetGCGrowFactor overrides the heap-growth multiplier (default 2).
func (h *Heap) SetGCGrowFactor(factor uint64) {
	if factor < 1 {
		factor = 1
	}
	h.growFactor = factor
}

// SetCollectHook installs a callback invoked after every collection with
// (bytes freed, next threshold), used for humanized GC diagnostics logging.
func (h *Heap) SetCollectHook(f func(freed, next uint64)) { h.onCollect = f }

// FormatGCStats renders the (freed, next) pair a collect hook receives as
// one line: "gc: collected, bytes=1.2 kB next=4.8 kB".
func FormatGCStats(freed, next uint64) string {
	return "gc: collected, bytes=" + humanize.Bytes(freed) + " next=" + humanize.Bytes(next)
}

// InternString returns the canonical ObjStringVal for s, allocating one
// only if no equal string is already interned.
//
// The freshly allocated string is pushed onto the VM's value stack before
// h.track, whose GC trigger can collect, and stays there until the
// intern-table insert is done. track also roots the string itself for any
// collection it triggers. The table's rehash allocates with Go's own
// allocator, not through the Heap, so the insert never collects.
func (h *Heap) InternString(s string) *ObjStringVal {
	hash := hashBytes(s)
	if existing := h.strings.FindString(s, hash); existing != nil {
		return existing
	}

	str := &ObjStringVal{Chars: s, Hash: hash}
	if h.vm != nil {
		h.vm.push(ObjVal(str))
	}
	h.track(str, uint64(len(s))+32)
	h.strings.Set(str, NilVal())
	if h.vm != nil {
		h.vm.pop()
	}
	return str
}

func (h *Heap) NewFunction() *Function {
	f := &Function{Chunk: NewChunk()}
	h.track(f, 64)
	return f
}

func (h *Heap) NewNative(name string, arity int, isMethod bool, fn NativeFn) *Native {
	n := &Native{Name: name, Arity: arity, IsMethod: isMethod, Fn: fn}
	h.track(n, 48)
	return n
}

func (h *Heap) NewUpvalue(location int) *UpvalueObj {
	u := &UpvalueObj{Location: location}
	h.track(u, 32)
	return u
}

func (h *Heap) NewClosure(fn *Function) *Closure {
	c := &Closure{Function: fn, Upvalues: make([]*UpvalueObj, fn.UpvalueCount)}
	h.track(c, uint64(32+8*fn.UpvalueCount))
	return c
}

func (h *Heap) NewClass(name *ObjStringVal) *Class {
	c := &Class{Name: name, Initializer: NilVal(), Methods: NewTable()}
	h.track(c, 48)
	return c
}

func (h *Heap) NewInstance(class *Class) *Instance {
	i := &Instance{Class: class, Fields: NewTable()}
	h.track(i, 48)
	return i
}

func (h *Heap) NewBoundMethod(receiver, method Value) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	h.track(b, 32)
	return b
}

func (h *Heap) NewRange(min, max float64) *RangeVal {
	r := &RangeVal{Min: min, Max: max}
	h.track(r, 32)
	return r
}

func (h *Heap) NewList(elements []Value) *ListVal {
	l := &ListVal{Elements: elements}
	h.track(l, uint64(32+24*len(elements)))
	return l
}
