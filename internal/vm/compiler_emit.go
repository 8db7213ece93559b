package vm

import "github.com/gloxlang/glox/internal/ast"

// emitGetLocal/emitSetLocal pick the short or long addressing form the
// same way WriteConstantIndex does for the constant pool.
func (c *compilerState) emitGetLocal(slot int, line int) {
	if slot <= 0xFF {
		c.emitOp(OpGetLocal, line)
		c.emitByte(byte(slot), line)
		return
	}
	c.emitOp(OpGetLocalLong, line)
	c.emitU32(slot, line)
}

func (c *compilerState) emitSetLocal(slot int, line int) {
	if slot <= 0xFF {
		c.emitOp(OpSetLocal, line)
		c.emitByte(byte(slot), line)
		return
	}
	c.emitOp(OpSetLocalLong, line)
	c.emitU32(slot, line)
}

// emitU32 writes a little-endian 4-byte operand, matching Chunk's long
// constant-index encoding and CallFrame.readLong's decode order.
func (c *compilerState) emitU32(n int, line int) {
	c.emitByte(byte(n), line)
	c.emitByte(byte(n>>8), line)
	c.emitByte(byte(n>>16), line)
	c.emitByte(byte(n>>24), line)
}

// emitU16 writes a big-endian 2-byte operand, matching JUMP/LOOP and
// CallFrame.readShort's decode order.
func (c *compilerState) emitU16(n int, line int) {
	c.emitByte(byte(n>>8), line)
	c.emitByte(byte(n), line)
}

// emitVariableGet resolves name against locals, then upvalues, then the
// globals table, emitting the matching GET opcode.
func (c *compilerState) emitVariableGet(name string, line int) {
	if slot := c.resolveLocal(name); slot != -1 {
		c.emitGetLocal(slot, line)
		return
	}
	if idx := c.resolveUpvalue(name); idx != -1 {
		c.emitOp(OpGetUpvalue, line)
		c.emitByte(byte(idx), line)
		return
	}
	nameIdx := c.identifierConstant(name)
	c.function.Chunk.WriteConstantIndex(OpGetGlobal, OpGetGlobalLong, nameIdx, line)
}

// emitVariableSet mirrors emitVariableGet for assignment, rejecting a
// write to any binding declared `const`.
func (c *compilerState) emitVariableSet(name string, line int) {
	if c.isConstTarget(name) {
		c.errorf("Can't assign to constant variable '%s'.", name)
	}
	if slot := c.resolveLocal(name); slot != -1 {
		c.emitSetLocal(slot, line)
		return
	}
	if idx := c.resolveUpvalue(name); idx != -1 {
		c.emitOp(OpSetUpvalue, line)
		c.emitByte(byte(idx), line)
		return
	}
	nameIdx := c.identifierConstant(name)
	c.function.Chunk.WriteConstantIndex(OpSetGlobal, OpSetGlobalLong, nameIdx, line)
}

// compileFunctionBody compiles fe as a nested function: a fresh
// compilerState declares its parameters as locals, walks its body, and on
// completion the enclosing compiler emits CLOSURE[_LONG] plus one
// (isLocal, index) byte pair per upvalue the body captured.
func (c *compilerState) compileFunctionBody(fe *ast.FunctionExpr, ft funcType) {
	if len(fe.Params) > 255 {
		c.errorf("Can't have more than 255 parameters.")
	}

	line := fe.GetToken().Line
	child := newCompiler(c.vm, c, ft, fe.Name)
	child.line = line
	child.function.Arity = len(fe.Params)
	child.beginScope()
	for _, p := range fe.Params {
		child.declareLocal(p.Name, false)
		child.markInitialized()
	}
	for _, stmt := range fe.Body {
		stmt.Accept(child)
	}
	fn := child.endCompiler()
	c.vm.compilingChain = c
	if len(child.errors) > 0 {
		c.errors = append(c.errors, child.errors...)
	}

	idx := c.function.Chunk.AddConstant(ObjVal(fn))
	c.function.Chunk.WriteConstantIndex(OpClosure, OpClosureLong, idx, c.line)
	for _, uv := range child.upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		c.emitByte(isLocal, c.line)
		c.emitByte(byte(uv.index), c.line)
	}
}
