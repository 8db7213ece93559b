package vm

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/dolthub/swiss"
	"github.com/google/uuid"
)

// nativeRegistry is an auxiliary lookup the host CLI uses to introspect
// what's bound into a fresh VM (the REPL's :natives listing). It is not
// the language's globals table: that one is vm.globals, whose tombstone
// and weak-intern semantics a generic map can't express. A plain swiss
// map is the right fit here.
type nativeRegistry struct {
	byName *swiss.Map[string, *Native]
}

func newNativeRegistry() *nativeRegistry {
	return &nativeRegistry{byName: swiss.NewMap[string, *Native](16)}
}

// NativeNames lists the registered host natives in sorted order, for the
// REPL's :natives listing.
func (vm *VM) NativeNames() []string {
	names := make([]string, 0, vm.natives.byName.Count())
	vm.natives.byName.Iter(func(name string, _ *Native) bool {
		names = append(names, name)
		return false
	})
	slices.Sort(names)
	return names
}

// RunID tags one VM's diagnostics session, e.g. for correlating GC log
// lines across a long REPL run.
func (vm *VM) RunID() string { return vm.runID }

// newRunID stamps a fresh run identifier, called at the start of every
// Interpret/InterpretREPL so a long-lived REPL VM can tag each evaluated
// snippet's diagnostics and back-traces distinctly.
func (vm *VM) newRunID() { vm.runID = uuid.NewString() }

func registerNatives(vm *VM) {
	vm.natives = newNativeRegistry()
	vm.runID = uuid.NewString()

	define := func(name string, arity int, fn NativeFn) {
		n := vm.heap.NewNative(name, arity, false, fn)
		vm.globals.Set(vm.heap.InternString(name), ObjVal(n))
		vm.natives.byName.Put(name, n)
	}

	define("clock", 0, nativeClock)
	define("len", 1, nativeLen)
	define("readFile", 1, nativeReadFile)
	define("push", 2, nativePush)
	define("pop", 1, nativePop)
	define("map", 2, nativeMap)
	define("filter", 2, nativeFilter)
	define("reduce", 3, nativeReduce)
}

func nativeClock(vm *VM, args []Value) (Value, error) {
	return NumberVal(float64(time.Now().UnixNano()) / 1e9), nil
}

func nativeLen(vm *VM, args []Value) (Value, error) {
	v := args[1]
	switch {
	case v.IsString():
		return NumberVal(float64(len(v.AsString().Chars))), nil
	case v.IsList():
		return NumberVal(float64(len(v.Obj.(*ListVal).Elements))), nil
	case v.IsRange():
		return NumberVal(float64(v.Obj.(*RangeVal).Len())), nil
	default:
		return Value{}, fmt.Errorf("len: unsupported operand type %s", v.TypeName())
	}
}

func nativeReadFile(vm *VM, args []Value) (Value, error) {
	path := args[1]
	if !path.IsString() {
		return Value{}, fmt.Errorf("readFile: path must be a string")
	}
	data, err := os.ReadFile(path.AsString().Chars)
	if err != nil {
		return Value{}, fmt.Errorf("readFile: %w", err)
	}
	return ObjVal(vm.heap.InternString(string(data))), nil
}

func nativePush(vm *VM, args []Value) (Value, error) {
	listArg, elem := args[1], args[2]
	if !listArg.IsList() {
		return Value{}, fmt.Errorf("push: first argument must be a list")
	}
	list := listArg.Obj.(*ListVal)
	list.Elements = append(list.Elements, elem)
	return listArg, nil
}

func nativePop(vm *VM, args []Value) (Value, error) {
	listArg := args[1]
	if !listArg.IsList() {
		return Value{}, fmt.Errorf("pop: argument must be a list")
	}
	list := listArg.Obj.(*ListVal)
	if len(list.Elements) == 0 {
		return Value{}, fmt.Errorf("pop: list is empty")
	}
	last := list.Elements[len(list.Elements)-1]
	list.Elements = list.Elements[:len(list.Elements)-1]
	return last, nil
}

// nativeMap, nativeFilter and nativeReduce re-enter the VM via
// callReentrant to invoke a glox callable once per element.
func nativeMap(vm *VM, args []Value) (Value, error) {
	listArg, fn := args[1], args[2]
	if !listArg.IsList() {
		return Value{}, fmt.Errorf("map: first argument must be a list")
	}
	src := listArg.Obj.(*ListVal).Elements
	out := make([]Value, len(src))
	for i, elem := range src {
		result, err := vm.callReentrant(fn, elem)
		if err != nil {
			return Value{}, err
		}
		// Keep each result rooted on the stack: the next re-entrant call
		// can collect, and out alone isn't reachable from any root.
		vm.push(result)
		out[i] = result
	}
	list := vm.heap.NewList(out)
	vm.sp -= len(src)
	return ObjVal(list), nil
}

func nativeFilter(vm *VM, args []Value) (Value, error) {
	listArg, fn := args[1], args[2]
	if !listArg.IsList() {
		return Value{}, fmt.Errorf("filter: first argument must be a list")
	}
	src := listArg.Obj.(*ListVal).Elements
	out := make([]Value, 0, len(src))
	for _, elem := range src {
		result, err := vm.callReentrant(fn, elem)
		if err != nil {
			return Value{}, err
		}
		if !result.Falsey() {
			out = append(out, elem)
		}
	}
	return ObjVal(vm.heap.NewList(out)), nil
}

func nativeReduce(vm *VM, args []Value) (Value, error) {
	listArg, fn, acc := args[1], args[2], args[3]
	if !listArg.IsList() {
		return Value{}, fmt.Errorf("reduce: first argument must be a list")
	}
	for _, elem := range listArg.Obj.(*ListVal).Elements {
		result, err := vm.callReentrant(fn, acc, elem)
		if err != nil {
			return Value{}, err
		}
		acc = result
	}
	return acc, nil
}

// callReentrant invokes callee with args from within a native function.
// If the callee pushes a new CallFrame (a closure, bound method, or a
// class with an `init`), it drives the dispatch loop forward with a raised
// return floor so the reentrant call unwinds without disturbing the
// native's own caller frame.
func (vm *VM) callReentrant(callee Value, args ...Value) (Value, error) {
	base := vm.sp
	depthBefore := vm.frameCount

	vm.push(callee)
	for _, a := range args {
		vm.push(a)
	}
	if err := vm.callValue(callee, len(args)); err != nil {
		return Value{}, err
	}

	if vm.frameCount > depthBefore {
		savedDepth := vm.returnDepth
		vm.returnDepth = depthBefore
		err := vm.run()
		vm.returnDepth = savedDepth
		if err != nil {
			return Value{}, err
		}
	}

	result := vm.stack[vm.sp-1]
	vm.sp = base
	return result, nil
}
