package vm

import (
	"fmt"
	"strings"

	"github.com/gloxlang/glox/internal/lexer"
	"github.com/gloxlang/glox/internal/parser"
)

// funcType distinguishes the four shapes of compiled function body, each
// with slightly different codegen for slot 0 and implicit returns.
type funcType int

const (
	funcTypeScript funcType = iota
	funcTypeFunction
	funcTypeMethod
	funcTypeInitializer
)

const maxLocals = 1 << 24 // well below what the 4-byte long addressing mode can encode

// maxUpvalues bounds the closure's upvalue table: CLOSURE's per-upvalue
// (isLocal, index) pairs are always single bytes regardless of the
// function constant's own short/long addressing.
const maxUpvalues = 256

type localVar struct {
	name       string
	depth      int // -1 while the initializer is still being compiled
	isCaptured bool
	isConst    bool
}

type upvalueRef struct {
	index   int
	isLocal bool
}

// classCompiler tracks the class currently being compiled, so `this`
// resolves correctly inside nested method bodies.
type classCompiler struct {
	enclosing *classCompiler
	name      string
}

// compilerState is one AST-walking compiler frame: one per function body,
// chained through enclosing. It implements ast.Visitor; each Visit method
// emits directly into compilerState.function.Chunk.
type compilerState struct {
	enclosing *compilerState
	vm        *VM
	heap      *Heap

	function *Function
	funcType funcType

	locals     []localVar
	scopeDepth int
	upvalues   []upvalueRef

	class *classCompiler

	errors []string
	line   int

	// replEcho marks the outermost compiler of a CompileREPL call: its
	// VisitProgram prints rather than discards a trailing bare expression
	// statement's value.
	replEcho bool
}

func newCompiler(vm *VM, enclosing *compilerState, ft funcType, name string) *compilerState {
	c := &compilerState{
		enclosing: enclosing,
		vm:        vm,
		heap:      vm.heap,
		function:  vm.heap.NewFunction(),
		funcType:  ft,
		line:      1,
	}
	// Root the fresh function through the compiler chain before anything
	// else can allocate (the name interning below can trigger a collection).
	vm.compilingChain = c
	if enclosing != nil {
		c.class = enclosing.class
	}
	if name != "" {
		c.function.Name = vm.heap.InternString(name)
	}

	// Slot 0 is reserved: the receiver for methods/initializers, otherwise
	// unnamed (so user code can never resolve it as a local).
	slotName := ""
	if ft == funcTypeMethod || ft == funcTypeInitializer {
		slotName = "this"
	}
	c.locals = append(c.locals, localVar{name: slotName, depth: 0})
	return c
}

// Compile lexes, parses, and compiles source into a top-level script
// Function. vm.compilingChain is bound for the duration so the GC can mark
// functions that exist only as in-progress compiler state.
func Compile(vm *VM, source string) (*Function, error) {
	return compile(vm, source, false)
}

// CompileREPL behaves like Compile except a trailing bare expression
// statement has its value printed instead of discarded, so a REPL session
// can evaluate `1 + 2` without typing `print 1 + 2;`.
func CompileREPL(vm *VM, source string) (*Function, error) {
	return compile(vm, source, true)
}

func compile(vm *VM, source string, replEcho bool) (*Function, error) {
	lex := lexer.New(source)
	p := parser.New(lex)
	prog := p.Parse()
	if p.HadError() && replEcho {
		// A REPL line may end in a bare expression without its closing ';'.
		// Retry with one appended; the original errors stand if that fails too.
		retry := parser.New(lexer.New(source + ";"))
		if retryProg := retry.Parse(); !retry.HadError() {
			p, prog = retry, retryProg
		}
	}
	if p.HadError() {
		return nil, combineParseErrors(p.Errors)
	}

	c := newCompiler(vm, nil, funcTypeScript, "")
	c.replEcho = replEcho
	prog.Accept(c)
	fn := c.endCompiler()
	vm.compilingChain = nil

	if len(c.errors) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(c.errors, "\n"))
	}
	return fn, nil
}

func combineParseErrors(errs []parser.Error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}

func (c *compilerState) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf("[line %d] Error: %s", c.line, fmt.Sprintf(format, args...)))
}

// endCompiler emits the implicit trailing return every function body
// needs, then returns the finished Function.
func (c *compilerState) endCompiler() *Function {
	if c.funcType == funcTypeInitializer {
		c.emitOp(OpGetLocal, c.line)
		c.emitByte(0, c.line) // return `this` implicitly
	} else {
		c.emitOp(OpNil, c.line)
	}
	c.emitOp(OpReturn, c.line)
	return c.function
}

func (c *compilerState) emitByte(b byte, line int) { c.function.Chunk.Write(b, line) }
func (c *compilerState) emitOp(op Opcode, line int) { c.function.Chunk.WriteOp(op, line) }

func (c *compilerState) emitJump(op Opcode, line int) int {
	c.emitOp(op, line)
	pos := len(c.function.Chunk.Code)
	c.emitByte(0xff, line)
	c.emitByte(0xff, line)
	return pos
}

func (c *compilerState) patchJump(pos int) {
	dist := len(c.function.Chunk.Code) - pos - 2
	if dist > 0xFFFF {
		c.errorf("Too much code to jump over.")
		return
	}
	c.function.Chunk.Code[pos] = byte(dist >> 8)
	c.function.Chunk.Code[pos+1] = byte(dist)
}

func (c *compilerState) emitLoop(loopStart int, line int) {
	c.emitOp(OpLoop, line)
	offset := len(c.function.Chunk.Code) - loopStart + 2
	if offset > 0xFFFF {
		c.errorf("Loop body too large.")
		return
	}
	c.emitByte(byte(offset>>8), line)
	c.emitByte(byte(offset), line)
}

// identifierConstant interns name and returns its constant-pool index,
// used by every opcode that names a global, property, class, or method by
// string.
func (c *compilerState) identifierConstant(name string) int {
	return c.function.Chunk.AddConstant(ObjVal(c.heap.InternString(name)))
}

func (c *compilerState) beginScope() { c.scopeDepth++ }

func (c *compilerState) endScope(line int) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].isCaptured {
			c.emitOp(OpCloseUpvalue, line)
		} else {
			c.emitOp(OpPop, line)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// declareLocal adds name as an uninitialized local in the current scope,
// rejecting a redeclaration within the same block.
func (c *compilerState) declareLocal(name string, isConst bool) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := &c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.errorf("Already a variable named '%s' in this scope.", name)
			return
		}
	}
	if len(c.locals) >= maxLocals {
		c.errorf("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, localVar{name: name, depth: -1, isConst: isConst})
}

func (c *compilerState) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal returns the slot index of name in this compiler's locals,
// or -1 if it isn't a local. Referencing a local while its own initializer
// is still being compiled is an error.
func (c *compilerState) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.errorf("Can't read local variable '%s' in its own initializer.", name)
				return -1
			}
			return i
		}
	}
	return -1
}

func (c *compilerState) addUpvalue(index int, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		c.errorf("Too many closure variables in function.")
		return 0
	}
	// CLOSURE's per-upvalue operand pairs are single bytes regardless of the
	// function constant's addressing width, so a capture can't reach past
	// the enclosing function's first 256 slots.
	if index > 0xFF {
		c.errorf("Too many local variables in enclosing function to capture.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueRef{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

// resolveUpvalue chases a free name outward: it is either a local of the
// immediately enclosing function (captured directly) or an upvalue of it
// (captured transitively).
func (c *compilerState) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if local := c.enclosing.resolveLocal(name); local != -1 {
		c.enclosing.locals[local].isCaptured = true
		return c.addUpvalue(local, true)
	}
	if up := c.enclosing.resolveUpvalue(name); up != -1 {
		return c.addUpvalue(up, false)
	}
	return -1
}

// isConstTarget reports whether name resolves to a const binding anywhere
// visible from c: a const local, a const upvalue's origin, or a const
// global.
func (c *compilerState) isConstTarget(name string) bool {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i].isConst
		}
	}
	if c.enclosing != nil {
		for cc := c.enclosing; cc != nil; cc = cc.enclosing {
			for i := len(cc.locals) - 1; i >= 0; i-- {
				if cc.locals[i].name == name {
					return cc.locals[i].isConst
				}
			}
		}
	}
	return c.vm.constGlobals[name]
}
