package vm

// callValue dispatches CALL/INVOKE's callee to the right invocation path:
// a Closure pushes a new CallFrame, a Native calls straight through, a
// Class constructs an Instance (and runs `init` if present), a BoundMethod
// re-binds its receiver into slot 0.
func (vm *VM) callValue(callee Value, argCount int) error {
	if callee.Type == ValObj {
		switch callee.Obj.objType() {
		case ObjClosure:
			return vm.call(callee.Obj.(*Closure), argCount)
		case ObjNative:
			return vm.callNative(callee.Obj.(*Native), argCount)
		case ObjClass:
			return vm.instantiate(callee.Obj.(*Class), argCount)
		case ObjBoundMethod:
			bound := callee.Obj.(*BoundMethod)
			vm.stack[vm.sp-argCount-1] = bound.Receiver
			return vm.callValue(bound.Method, argCount)
		}
	}
	return vm.runtimeErrorf("Can only call functions and classes.")
}

func (vm *VM) call(closure *Closure, argCount int) error {
	fn := closure.Function
	if argCount != fn.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if vm.frameCount == len(vm.frames) {
		return vm.runtimeErrorf("Stack overflow.")
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.sp - argCount - 1
	return nil
}

func (vm *VM) callNative(native *Native, argCount int) error {
	if argCount != native.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", native.Arity, argCount)
	}
	base := vm.sp - argCount
	args := make([]Value, argCount+1)
	args[0] = vm.stack[base-1] // receiver, or the native itself in a bare call
	copy(args[1:], vm.stack[base:vm.sp])

	result, err := native.Fn(vm, args)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			return re // a re-entrant call already built its trace
		}
		return vm.runtimeErrorf("%s", err.Error())
	}
	vm.sp = base - 1
	vm.push(result)
	return nil
}

func (vm *VM) instantiate(class *Class, argCount int) error {
	instance := vm.heap.NewInstance(class)
	vm.stack[vm.sp-argCount-1] = ObjVal(instance)

	if class.Initializer.IsNil() {
		if argCount != 0 {
			return vm.runtimeErrorf("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	}
	return vm.callValue(class.Initializer, argCount)
}

// invoke fuses GET_PROPERTY+CALL into one dispatch, skipping the
// intermediate BoundMethod allocation for the common `obj.method(...)`
// shape.
func (vm *VM) invoke(name *ObjStringVal, argCount int) error {
	receiver := vm.peek(argCount)
	if !receiver.IsInstance() {
		return vm.runtimeErrorf("Only instances have methods.")
	}
	instance := receiver.Obj.(*Instance)

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.sp-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	method, ok := instance.Class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	return vm.callValue(method, argCount)
}

// bindMethod wraps a class method with its receiver, used by GET_PROPERTY
// when the property isn't a field.
func (vm *VM) bindMethod(class *Class, name *ObjStringVal) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	bound := vm.heap.NewBoundMethod(vm.peek(0), method)
	vm.pop()
	vm.push(ObjVal(bound))
	return nil
}

// captureUpvalue finds or creates the open upvalue for a stack slot,
// keeping vm.openUpvalues sorted by descending slot so a single linear
// scan suffices. Reusing an existing entry is what lets two closures
// share one capture.
func (vm *VM) captureUpvalue(slot int) *UpvalueObj {
	var prev *UpvalueObj
	uv := vm.openUpvalues
	for uv != nil && uv.Location > slot {
		prev = uv
		uv = uv.Next
	}
	if uv != nil && uv.Location == slot {
		return uv
	}

	created := vm.heap.NewUpvalue(slot)
	created.Next = uv
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues hoists every open upvalue at or above slot onto the heap,
// called when a scope exits or the VM pops past a captured local.
func (vm *VM) closeUpvalues(slot int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= slot {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Location]
		uv.Location = -1
		vm.openUpvalues = uv.Next
	}
}
