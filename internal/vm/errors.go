package vm

import (
	"fmt"
	"strings"
)

// RuntimeError is raised by the VM's dispatch loop for any operation that
// compiles fine but fails at run time: bad operand types, undefined
// globals/properties, arity mismatches, stack overflow.
//
// It carries a backtrace snapshot taken at the point of failure.
type RuntimeError struct {
	Message string
	Frames  []string // innermost first, "[line L] in <fn>"
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Frames {
		b.WriteByte('\n')
		b.WriteString(f)
	}
	return b.String()
}

// runtimeErrorf builds a RuntimeError at the current frame, walking the
// call stack outward to produce the "[line L] in <fn>" trace, then resets
// the stack: a runtime error aborts every nested execution, including
// re-entrant native calls.
func (vm *VM) runtimeErrorf(format string, args ...interface{}) *RuntimeError {
	msg := fmt.Sprintf(format, args...)
	frames := make([]string, 0, vm.frameCount)

	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		name := "<script>"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		frames = append(frames, fmt.Sprintf("[line %d] in %s", line, name))
	}

	vm.resetStack()
	return &RuntimeError{Message: msg, Frames: frames}
}
