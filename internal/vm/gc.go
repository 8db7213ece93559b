package vm

// gcState is the transient bookkeeping for one collection cycle: the
// gray worklist that drives tri-color tracing.
//
// Objects track color implicitly: unmarked + not on the worklist = white,
// marked + still on the worklist = gray, marked + worklist-processed =
// black. There is no separate gray flag because an object is only ever on
// the worklist once (markObject checks `marked` before pushing).
type gcState struct {
	grayStack []Object
}

func (gc *gcState) markObject(obj Object) {
	if obj == nil {
		return
	}
	hdr := obj.header()
	if hdr.marked {
		return
	}
	hdr.marked = true
	gc.grayStack = append(gc.grayStack, obj)
}

func (gc *gcState) markValue(v Value) {
	if v.Type == ValObj {
		gc.markObject(v.Obj)
	}
}

// collectGarbage runs one full stop-the-world cycle: mark roots, trace
// until the gray worklist is empty, weak-clean the intern table, then
// sweep the live-object list.
//
// newborn is the object (if any) whose allocation triggered this cycle
// from inside Heap.track, before its caller had a chance to push it on the
// stack, store it in a field, or link it into vm.openUpvalues. It is
// marked as an extra root so a collection can never sweep the very object
// that caused it.
func collectGarbage(h *Heap, vm *VM, newborn Object) {
	gc := &gcState{}

	markRoots(gc, h, vm)
	gc.markObject(newborn)
	traceReferences(gc)
	h.strings.removeWhite()
	sweep(h)
}

// markRoots marks every slot in the active stack range, every frame's
// closure, every open upvalue, every global, and every Function currently
// under construction by the compiler.
func markRoots(gc *gcState, h *Heap, vm *VM) {
	for i := 0; i < vm.sp; i++ {
		gc.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		gc.markObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		gc.markObject(uv)
	}
	vm.globals.mark(gc)

	for c := vm.compilingChain; c != nil; c = c.enclosing {
		gc.markObject(c.function)
	}
}

// traceReferences pops gray objects and marks black by visiting their
// outgoing references.
func traceReferences(gc *gcState) {
	for len(gc.grayStack) > 0 {
		n := len(gc.grayStack) - 1
		obj := gc.grayStack[n]
		gc.grayStack = gc.grayStack[:n]
		blacken(gc, obj)
	}
}

func blacken(gc *gcState, obj Object) {
	switch o := obj.(type) {
	case *ObjStringVal, *Native, *RangeVal:
		// no outgoing references
	case *Function:
		// Name is nil for the script and anonymous functions; a nil pointer
		// wrapped in Object would slip past markObject's nil check.
		if o.Name != nil {
			gc.markObject(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			gc.markValue(c)
		}
	case *Closure:
		gc.markObject(o.Function)
		for _, uv := range o.Upvalues {
			// Slots stay nil until OP_CLOSURE has captured them.
			if uv != nil {
				gc.markObject(uv)
			}
		}
	case *UpvalueObj:
		gc.markValue(o.Closed)
	case *Class:
		gc.markObject(o.Name)
		gc.markValue(o.Initializer)
		o.Methods.mark(gc)
	case *Instance:
		gc.markObject(o.Class)
		o.Fields.mark(gc)
	case *BoundMethod:
		gc.markValue(o.Receiver)
		gc.markValue(o.Method)
	case *ListVal:
		for _, v := range o.Elements {
			gc.markValue(v)
		}
	}
}

// sweep walks the live-object list; unmarked (white) objects are
// unlinked, marked (black) objects are reset to white for the next cycle.
// No object is relocated; the only header fields written are the mark bit
// and the next link of the survivor preceding an unlinked object.
func sweep(h *Heap) {
	var prev Object
	obj := h.objects

	for obj != nil {
		hdr := obj.header()
		if hdr.marked {
			hdr.marked = false
			prev = obj
			obj = hdr.next
			continue
		}

		unreached := obj
		obj = hdr.next
		if prev != nil {
			prev.header().next = obj
		} else {
			h.objects = obj
		}
		// Lists can grow after allocation, so the estimate here may exceed
		// what track charged; clamp rather than let the counter wrap.
		if sz := sizeOf(unreached); sz < h.bytesAllocated {
			h.bytesAllocated -= sz
		} else {
			h.bytesAllocated = 0
		}
	}
}

// sizeOf estimates an object's contribution to bytesAllocated, mirroring
// the constants Heap.track passes in at allocation time closely enough to
// keep the heap-growth schedule monotonic; exactness doesn't matter, only
// that allocation and freeing use comparable units.
func sizeOf(obj Object) uint64 {
	switch o := obj.(type) {
	case *ObjStringVal:
		return uint64(len(o.Chars)) + 32
	case *ListVal:
		return uint64(32 + 24*len(o.Elements))
	case *Closure:
		return uint64(32 + 8*len(o.Upvalues))
	case *Function:
		return 64
	case *Native, *Class, *Instance:
		return 48
	default:
		return 32
	}
}
