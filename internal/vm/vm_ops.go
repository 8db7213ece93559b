package vm

import "math"

func (vm *VM) binaryNumberOp(op Opcode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()

	switch op {
	case OpSubtract:
		vm.push(NumberVal(a - b))
	case OpMultiply:
		vm.push(NumberVal(a * b))
	case OpDivide:
		vm.push(NumberVal(a / b))
	case OpModulo:
		vm.push(NumberVal(math.Mod(a, b)))
	case OpGreater:
		vm.push(BoolVal(a > b))
	case OpLess:
		vm.push(BoolVal(a < b))
	}
	return nil
}

// opAdd implements "+": numeric addition, or string concatenation when
// either operand is a string (the non-string operand is rendered via
// Value.String() first).
func (vm *VM) opAdd() error {
	a, b := vm.peek(1), vm.peek(0)

	if a.IsNumber() && b.IsNumber() {
		vm.pop()
		vm.pop()
		vm.push(NumberVal(a.AsNumber() + b.AsNumber()))
		return nil
	}

	if a.IsString() || b.IsString() {
		vm.pop()
		vm.pop()
		concatenated := a.String() + b.String()
		vm.push(ObjVal(vm.heap.InternString(concatenated)))
		return nil
	}

	return vm.runtimeErrorf("Operands must be two numbers or at least one string.")
}

func (vm *VM) opNegate() error {
	if !vm.peek(0).IsNumber() {
		return vm.runtimeErrorf("Operand must be a number.")
	}
	v := vm.pop()
	vm.push(NumberVal(-v.AsNumber()))
	return nil
}

func (vm *VM) opIncrement() error {
	if !vm.peek(0).IsNumber() {
		return vm.runtimeErrorf("Operand must be a number.")
	}
	v := vm.pop()
	vm.push(NumberVal(v.AsNumber() + 1))
	return nil
}

func (vm *VM) opNot() {
	vm.push(BoolVal(vm.pop().Falsey()))
}

func (vm *VM) opEqual() {
	b := vm.pop()
	a := vm.pop()
	vm.push(BoolVal(a.Equal(b)))
}

// opMatch implements one match-arm test: if the pattern is a range,
// report whether the scrutinee falls inside it; otherwise fall back to
// value equality. The scrutinee is not popped; the compiler's match
// codegen controls cleanup so it survives for later arms.
func (vm *VM) opMatch() {
	pattern := vm.pop()
	scrutinee := vm.peek(0)

	var matched bool
	if pattern.IsRange() {
		matched = scrutinee.IsNumber() && pattern.Obj.(*RangeVal).Contains(scrutinee.AsNumber())
	} else {
		matched = scrutinee.Equal(pattern)
	}
	vm.push(BoolVal(matched))
}

func (vm *VM) opBuildRange() error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Range bounds must be numbers.")
	}
	max := vm.pop().AsNumber()
	min := vm.pop().AsNumber()
	vm.push(ObjVal(vm.heap.NewRange(min, max)))
	return nil
}

func (vm *VM) opBuildList(count int) {
	elements := make([]Value, count)
	copy(elements, vm.stack[vm.sp-count:vm.sp])
	vm.sp -= count
	vm.push(ObjVal(vm.heap.NewList(elements)))
}

// opIndexSubscr implements INDEX_SUBSCR on List, String, Range, or
// Instance-by-string-key. Out-of-range numeric indexing is not a runtime
// error here: it yields Nil, unlike STORE_SUBSCR which must reject it.
func (vm *VM) opIndexSubscr() error {
	index := vm.pop()
	target := vm.pop()

	switch {
	case target.IsList():
		if !index.IsNumber() {
			return vm.runtimeErrorf("List index must be a number.")
		}
		list := target.Obj.(*ListVal)
		i := int(index.AsNumber())
		if i < 0 || i >= len(list.Elements) {
			vm.push(NilVal())
			return nil
		}
		vm.push(list.Elements[i])
		return nil
	case target.IsString():
		if !index.IsNumber() {
			return vm.runtimeErrorf("String index must be a number.")
		}
		str := target.AsString().Chars
		i := int(index.AsNumber())
		if i < 0 || i >= len(str) {
			vm.push(NilVal())
			return nil
		}
		vm.push(ObjVal(vm.heap.InternString(string(str[i]))))
		return nil
	case target.IsRange():
		if !index.IsNumber() {
			return vm.runtimeErrorf("Range index must be a number.")
		}
		rng := target.Obj.(*RangeVal)
		i := int(index.AsNumber())
		if i < 0 || i >= rng.Len() {
			vm.push(NilVal())
			return nil
		}
		vm.push(NumberVal(rng.At(i)))
		return nil
	case target.IsInstance():
		if !index.IsString() {
			return vm.runtimeErrorf("Instance index must be a string.")
		}
		instance := target.Obj.(*Instance)
		if v, ok := instance.Fields.Get(index.AsString()); ok {
			vm.push(v)
			return nil
		}
		vm.push(NilVal())
		return nil
	default:
		return vm.runtimeErrorf("Only lists, strings, ranges, and instances can be indexed.")
	}
}

func (vm *VM) opStoreSubscr() error {
	value := vm.pop()
	index := vm.pop()
	target := vm.pop()

	switch {
	case target.IsList():
		if !index.IsNumber() {
			return vm.runtimeErrorf("List index must be a number.")
		}
		list := target.Obj.(*ListVal)
		i := int(index.AsNumber())
		if i < 0 || i >= len(list.Elements) {
			return vm.runtimeErrorf("List index %d out of range (length %d).", i, len(list.Elements))
		}
		list.Elements[i] = value
		vm.push(value)
		return nil
	case target.IsInstance():
		if !index.IsString() {
			return vm.runtimeErrorf("Instance index must be a string.")
		}
		instance := target.Obj.(*Instance)
		instance.Fields.Set(index.AsString(), value)
		vm.push(value)
		return nil
	default:
		return vm.runtimeErrorf("Only lists and instances can be assigned by index.")
	}
}
