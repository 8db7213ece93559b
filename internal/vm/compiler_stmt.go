package vm

import "github.com/gloxlang/glox/internal/ast"

func (c *compilerState) VisitProgram(p *ast.Program) {
	stmts := p.Statements
	if c.replEcho && len(stmts) > 0 {
		if last, ok := stmts[len(stmts)-1].(*ast.ExpressionStmt); ok {
			for _, stmt := range stmts[:len(stmts)-1] {
				stmt.Accept(c)
			}
			last.Expression.Accept(c)
			c.line = last.GetToken().Line
			c.emitOp(OpPrint, c.line)
			return
		}
	}
	for _, stmt := range stmts {
		stmt.Accept(c)
	}
}

// VisitVarDecl compiles both `var` and `const` declarations: a local is
// declared-then-initialized so self-reference in its own initializer is a
// compile error; a global is defined with DEFINE_GLOBAL and, if const,
// recorded in vm.constGlobals so later assignment attempts are rejected.
func (c *compilerState) VisitVarDecl(v *ast.VarDecl) {
	c.line = v.GetToken().Line
	name := v.Name.Name

	if c.scopeDepth > 0 {
		c.declareLocal(name, v.Const)
		if v.Init != nil {
			v.Init.Accept(c)
		} else {
			c.emitOp(OpNil, c.line)
		}
		c.markInitialized()
		return
	}

	if v.Init != nil {
		v.Init.Accept(c)
	} else {
		c.emitOp(OpNil, c.line)
	}
	if v.Const {
		c.vm.constGlobals[name] = true
	}
	idx := c.identifierConstant(name)
	c.function.Chunk.WriteConstantIndex(OpDefineGlobal, OpDefineGlobalLong, idx, c.line)
}

func (c *compilerState) VisitPrintStmt(p *ast.PrintStmt) {
	p.Value.Accept(c)
	c.line = p.GetToken().Line
	c.emitOp(OpPrint, c.line)
}

func (c *compilerState) VisitExpressionStmt(e *ast.ExpressionStmt) {
	e.Expression.Accept(c)
	c.line = e.GetToken().Line
	c.emitOp(OpPop, c.line)
}

func (c *compilerState) VisitBlock(b *ast.Block) {
	c.beginScope()
	for _, stmt := range b.Statements {
		stmt.Accept(c)
	}
	c.line = b.GetToken().Line
	c.endScope(c.line)
}

// VisitIfStmt desugars to JUMP_IF_FALSE/JUMP with an explicit POP on each
// branch, since JUMP_IF_FALSE never consumes the condition itself.
func (c *compilerState) VisitIfStmt(i *ast.IfStmt) {
	i.Condition.Accept(c)
	c.line = i.GetToken().Line
	thenJump := c.emitJump(OpJumpIfFalse, c.line)
	c.emitOp(OpPop, c.line)
	i.Then.Accept(c)

	elseJump := c.emitJump(OpJump, c.line)
	c.patchJump(thenJump)
	c.emitOp(OpPop, c.line)
	if i.Else != nil {
		i.Else.Accept(c)
	}
	c.patchJump(elseJump)
}

func (c *compilerState) VisitWhileStmt(w *ast.WhileStmt) {
	loopStart := c.function.Chunk.Len()
	w.Condition.Accept(c)
	c.line = w.GetToken().Line
	exitJump := c.emitJump(OpJumpIfFalse, c.line)
	c.emitOp(OpPop, c.line)
	w.Body.Accept(c)
	c.emitLoop(loopStart, c.line)
	c.patchJump(exitJump)
	c.emitOp(OpPop, c.line)
}

// VisitForStmt desugars the three-clause form into the same
// condition/increment/LOOP shape as WhileStmt, scoping Init's declaration
// to the whole statement.
func (c *compilerState) VisitForStmt(f *ast.ForStmt) {
	c.beginScope()
	if f.Init != nil {
		f.Init.Accept(c)
	}

	loopStart := c.function.Chunk.Len()
	c.line = f.GetToken().Line
	exitJump := -1
	if f.Condition != nil {
		f.Condition.Accept(c)
		exitJump = c.emitJump(OpJumpIfFalse, c.line)
		c.emitOp(OpPop, c.line)
	}

	if f.Increment != nil {
		bodyJump := c.emitJump(OpJump, c.line)
		incrStart := c.function.Chunk.Len()
		f.Increment.Accept(c)
		c.emitOp(OpPop, c.line)
		c.emitLoop(loopStart, c.line)
		loopStart = incrStart
		c.patchJump(bodyJump)
	}

	f.Body.Accept(c)
	c.emitLoop(loopStart, c.line)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(OpPop, c.line)
	}
	c.endScope(c.line)
}

func (c *compilerState) VisitReturnStmt(r *ast.ReturnStmt) {
	c.line = r.GetToken().Line
	if c.funcType == funcTypeScript {
		c.errorf("Can't return from top-level code.")
	}
	if r.Value == nil {
		if c.funcType == funcTypeInitializer {
			c.emitOp(OpGetLocal, c.line)
			c.emitByte(0, c.line)
		} else {
			c.emitOp(OpNil, c.line)
		}
		c.emitOp(OpReturn, c.line)
		return
	}
	if c.funcType == funcTypeInitializer {
		c.errorf("Can't return a value from an initializer.")
	}
	r.Value.Accept(c)
	c.emitOp(OpReturn, c.line)
}

// VisitFunDecl declares the binding before compiling the body so the
// function can recurse by name, then emits the closure and, for globals,
// DEFINE_GLOBAL.
func (c *compilerState) VisitFunDecl(f *ast.FunDecl) {
	c.line = f.GetToken().Line
	name := f.Name.Name

	if c.scopeDepth > 0 {
		c.declareLocal(name, false)
		c.markInitialized()
		c.compileFunctionBody(f.Function, funcTypeFunction)
		return
	}

	idx := c.identifierConstant(name)
	c.compileFunctionBody(f.Function, funcTypeFunction)
	c.function.Chunk.WriteConstantIndex(OpDefineGlobal, OpDefineGlobalLong, idx, c.line)
}

// VisitClassDecl emits CLASS then one METHOD per method body, with `init`
// compiled as funcTypeInitializer so its implicit return yields `this`
// instead of nil. The class binding itself is visible as a plain variable
// (global or local) so methods and callers can reference it by name. For
// a local binding the CLASS push itself lands in the local's slot, the
// same way a local fun declaration's CLOSURE does.
func (c *compilerState) VisitClassDecl(cd *ast.ClassDecl) {
	c.line = cd.GetToken().Line
	name := cd.Name.Name
	nameIdx := c.identifierConstant(name)

	if c.scopeDepth > 0 {
		c.declareLocal(name, false)
		c.function.Chunk.WriteConstantIndex(OpClass, OpClassLong, nameIdx, c.line)
		c.markInitialized()
	} else {
		c.function.Chunk.WriteConstantIndex(OpClass, OpClassLong, nameIdx, c.line)
		c.function.Chunk.WriteConstantIndex(OpDefineGlobal, OpDefineGlobalLong, nameIdx, c.line)
	}

	enclosingClass := c.class
	c.class = &classCompiler{enclosing: enclosingClass, name: name}

	if c.scopeDepth > 0 {
		c.emitGetLocal(c.resolveLocalOrPanic(name), c.line)
	} else {
		c.function.Chunk.WriteConstantIndex(OpGetGlobal, OpGetGlobalLong, nameIdx, c.line)
	}
	for _, method := range cd.Methods {
		ft := funcTypeMethod
		if method.Name.Name == "init" {
			ft = funcTypeInitializer
		}
		methodIdx := c.identifierConstant(method.Name.Name)
		c.compileFunctionBody(method.Function, ft)
		c.function.Chunk.WriteConstantIndex(OpMethod, OpMethodLong, methodIdx, c.line)
	}
	c.emitOp(OpPop, c.line)

	c.class = enclosingClass
}

// resolveLocalOrPanic re-finds a local this compiler just declared; used
// right after VisitClassDecl's declareLocal/markInitialized pair, where
// resolution cannot fail.
func (c *compilerState) resolveLocalOrPanic(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i
		}
	}
	panic("unreachable: local just declared")
}

// VisitMatchStmt compiles match-for-effect. The subject stays on the
// stack top across arms: MATCH consumes only the pattern and peeks the
// subject, so each failed arm pops just its test result, and the first
// matching arm pops both before running its body. No arm leaves a result,
// so the subject is all that remains to discard when nothing matches.
func (c *compilerState) VisitMatchStmt(m *ast.MatchStmt) {
	c.line = m.GetToken().Line
	m.Subject.Accept(c)

	var endJumps []int
	hasWildcard := false
	for _, arm := range m.Arms {
		if arm.Pattern == nil {
			hasWildcard = true
			c.emitOp(OpPop, c.line) // subject
			arm.Body.Accept(c)
			endJumps = append(endJumps, c.emitJump(OpJump, c.line))
			break
		}

		arm.Pattern.Accept(c)
		c.emitOp(OpMatch, c.line)
		falseJump := c.emitJump(OpJumpIfFalse, c.line)
		c.emitOp(OpPop, c.line) // test result
		c.emitOp(OpPop, c.line) // subject
		arm.Body.Accept(c)
		endJumps = append(endJumps, c.emitJump(OpJump, c.line))
		c.patchJump(falseJump)
		c.emitOp(OpPop, c.line) // test result; subject stays for the next arm
	}
	if !hasWildcard {
		c.emitOp(OpPop, c.line) // no arm matched: discard the subject
	}
	for _, j := range endJumps {
		c.patchJump(j)
	}
}
