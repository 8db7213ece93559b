package vm

import (
	"errors"
	"fmt"
)

func (frame *CallFrame) readByte() byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (frame *CallFrame) readShort() uint16 {
	hi := frame.readByte()
	lo := frame.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (frame *CallFrame) readLong() uint32 {
	b0 := frame.readByte()
	b1 := frame.readByte()
	b2 := frame.readByte()
	b3 := frame.readByte()
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

func (frame *CallFrame) readConstant() Value {
	return frame.closure.Function.Chunk.Constants[frame.readByte()]
}

func (frame *CallFrame) readConstantLong() Value {
	return frame.closure.Function.Chunk.Constants[frame.readLong()]
}

func (frame *CallFrame) readStringShort() *ObjStringVal {
	return frame.readConstant().AsString()
}

func (frame *CallFrame) readStringLong() *ObjStringVal {
	return frame.readConstantLong().AsString()
}

// run is the VM's fetch-decode-execute loop over the current call frame's
// chunk. It returns on RETURN unwinding the outermost frame, or the first
// RuntimeError. A value-stack overflow surfaces as a panic from push and
// is converted to a runtime error here rather than threading an error
// return through every push site.
func (vm *VM) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, errStackOverflow) {
				err = vm.runtimeErrorf("Stack overflow.")
				return
			}
			panic(r)
		}
	}()

	frame := &vm.frames[vm.frameCount-1]

	for {
		op := Opcode(frame.readByte())

		switch op {
		case OpConstant:
			vm.push(frame.readConstant())
		case OpConstantLong:
			vm.push(frame.readConstantLong())

		case OpNil:
			vm.push(NilVal())
		case OpTrue:
			vm.push(BoolVal(true))
		case OpFalse:
			vm.push(BoolVal(false))

		case OpPop:
			vm.pop()

		case OpGetLocal:
			vm.push(vm.stack[frame.slots+int(frame.readByte())])
		case OpGetLocalLong:
			vm.push(vm.stack[frame.slots+int(frame.readLong())])
		case OpSetLocal:
			vm.stack[frame.slots+int(frame.readByte())] = vm.peek(0)
		case OpSetLocalLong:
			vm.stack[frame.slots+int(frame.readLong())] = vm.peek(0)

		case OpGetGlobal:
			if err := vm.execGetGlobal(frame.readStringShort()); err != nil {
				return err
			}
		case OpGetGlobalLong:
			if err := vm.execGetGlobal(frame.readStringLong()); err != nil {
				return err
			}
		case OpDefineGlobal:
			vm.globals.Set(frame.readStringShort(), vm.peek(0))
			vm.pop()
		case OpDefineGlobalLong:
			vm.globals.Set(frame.readStringLong(), vm.peek(0))
			vm.pop()
		case OpSetGlobal:
			if err := vm.execSetGlobal(frame.readStringShort()); err != nil {
				return err
			}
		case OpSetGlobalLong:
			if err := vm.execSetGlobal(frame.readStringLong()); err != nil {
				return err
			}

		case OpGetUpvalue:
			uv := frame.closure.Upvalues[frame.readByte()]
			if uv.isOpen() {
				vm.push(vm.stack[uv.Location])
			} else {
				vm.push(uv.Closed)
			}
		case OpSetUpvalue:
			uv := frame.closure.Upvalues[frame.readByte()]
			if uv.isOpen() {
				vm.stack[uv.Location] = vm.peek(0)
			} else {
				uv.Closed = vm.peek(0)
			}

		case OpGetProperty:
			if err := vm.execGetProperty(frame.readStringShort()); err != nil {
				return err
			}
		case OpGetPropertyLong:
			if err := vm.execGetProperty(frame.readStringLong()); err != nil {
				return err
			}
		case OpSetProperty:
			if err := vm.execSetProperty(frame.readStringShort()); err != nil {
				return err
			}
		case OpSetPropertyLong:
			if err := vm.execSetProperty(frame.readStringLong()); err != nil {
				return err
			}

		case OpEqual:
			vm.opEqual()
		case OpGreater, OpLess, OpSubtract, OpMultiply, OpDivide, OpModulo:
			if err := vm.binaryNumberOp(op); err != nil {
				return err
			}
		case OpMatch:
			vm.opMatch()
		case OpAdd:
			if err := vm.opAdd(); err != nil {
				return err
			}
		case OpNegate:
			if err := vm.opNegate(); err != nil {
				return err
			}
		case OpIncrement:
			if err := vm.opIncrement(); err != nil {
				return err
			}
		case OpNot:
			vm.opNot()

		case OpBuildRange:
			if err := vm.opBuildRange(); err != nil {
				return err
			}
		case OpBuildList:
			count := int(frame.readShort())
			vm.opBuildList(count)
		case OpIndexSubscr:
			if err := vm.opIndexSubscr(); err != nil {
				return err
			}
		case OpStoreSubscr:
			if err := vm.opStoreSubscr(); err != nil {
				return err
			}

		case OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case OpJump:
			offset := frame.readShort()
			frame.ip += int(offset)
		case OpJumpIfFalse:
			offset := frame.readShort()
			if vm.peek(0).Falsey() {
				frame.ip += int(offset)
			}
		case OpLoop:
			offset := frame.readShort()
			frame.ip -= int(offset)

		case OpCall:
			argCount := int(frame.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]
		case OpInvoke:
			name := frame.readStringShort()
			argCount := int(frame.readByte())
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]
		case OpInvokeLong:
			name := frame.readStringLong()
			argCount := int(frame.readByte())
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpClosure:
			if err := vm.execClosure(frame, frame.readConstant()); err != nil {
				return err
			}
		case OpClosureLong:
			if err := vm.execClosure(frame, frame.readConstantLong()); err != nil {
				return err
			}
		case OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == vm.returnDepth {
				vm.sp = frame.slots
				if vm.returnDepth > 0 {
					vm.push(result) // reentrant call: caller expects a value on top
				}
				return nil
			}
			vm.sp = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case OpClass:
			vm.push(ObjVal(vm.heap.NewClass(frame.readStringShort())))
		case OpClassLong:
			vm.push(ObjVal(vm.heap.NewClass(frame.readStringLong())))
		case OpMethod:
			vm.execMethod(frame.readStringShort())
		case OpMethodLong:
			vm.execMethod(frame.readStringLong())

		default:
			return vm.runtimeErrorf("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) execGetGlobal(name *ObjStringVal) error {
	v, ok := vm.globals.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
	}
	vm.push(v)
	return nil
}

func (vm *VM) execSetGlobal(name *ObjStringVal) error {
	if vm.globals.Set(name, vm.peek(0)) {
		vm.globals.Delete(name)
		return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
	}
	return nil
}

func (vm *VM) execGetProperty(name *ObjStringVal) error {
	receiver := vm.peek(0)
	if !receiver.IsInstance() {
		return vm.runtimeErrorf("Only instances have properties.")
	}
	instance := receiver.Obj.(*Instance)

	if v, ok := instance.Fields.Get(name); ok {
		vm.pop()
		vm.push(v)
		return nil
	}
	return vm.bindMethod(instance.Class, name)
}

func (vm *VM) execSetProperty(name *ObjStringVal) error {
	receiver := vm.peek(1)
	if !receiver.IsInstance() {
		return vm.runtimeErrorf("Only instances have fields.")
	}
	instance := receiver.Obj.(*Instance)

	value := vm.pop()
	instance.Fields.Set(name, value)
	vm.pop()
	vm.push(value)
	return nil
}

func (vm *VM) execClosure(frame *CallFrame, fnValue Value) error {
	fn, ok := fnValue.Obj.(*Function)
	if !ok {
		return vm.runtimeErrorf("Expected a function constant.")
	}
	closure := vm.heap.NewClosure(fn)
	vm.push(ObjVal(closure))

	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := frame.readByte()
		index := int(frame.readByte())
		if isLocal != 0 {
			closure.Upvalues[i] = vm.captureUpvalue(frame.slots + index)
		} else {
			closure.Upvalues[i] = frame.closure.Upvalues[index]
		}
	}
	return nil
}

func (vm *VM) execMethod(name *ObjStringVal) {
	method := vm.peek(0)
	class := vm.peek(1).Obj.(*Class)
	if name.Chars == "init" {
		class.Initializer = method
	} else {
		class.Methods.Set(name, method)
	}
	vm.pop()
}
