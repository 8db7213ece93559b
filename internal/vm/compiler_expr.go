package vm

import (
	"github.com/gloxlang/glox/internal/ast"
	"github.com/gloxlang/glox/internal/token"
)

// VisitLiteral pushes a nil/bool/number/string constant.
func (c *compilerState) VisitLiteral(l *ast.Literal) {
	c.line = l.GetToken().Line
	switch v := l.Value.(type) {
	case nil:
		c.emitOp(OpNil, c.line)
	case bool:
		if v {
			c.emitOp(OpTrue, c.line)
		} else {
			c.emitOp(OpFalse, c.line)
		}
	case float64:
		c.function.Chunk.WriteConstant(NumberVal(v), c.line)
	case string:
		str := c.heap.InternString(v)
		c.function.Chunk.WriteConstant(ObjVal(str), c.line)
	default:
		c.errorf("Unsupported literal type.")
	}
}

func (c *compilerState) VisitIdentifier(i *ast.Identifier) {
	c.line = i.GetToken().Line
	c.emitVariableGet(i.Name, c.line)
}

// VisitThis resolves `this` the same way any other captured name
// resolves: it is bound as local slot 0 inside every method/initializer
// body.
func (c *compilerState) VisitThis(t *ast.This) {
	c.line = t.GetToken().Line
	if c.class == nil {
		c.errorf("Can't use 'this' outside of a class.")
		return
	}
	c.emitVariableGet("this", c.line)
}

// VisitSuper always errors: glox classes have no inheritance, so `super`
// is recognized lexically but never resolvable; every class is outside a
// subclass.
func (c *compilerState) VisitSuper(s *ast.Super) {
	c.line = s.GetToken().Line
	c.errorf("Can't use 'super' outside of a subclass.")
}

func (c *compilerState) VisitUnary(u *ast.Unary) {
	u.Right.Accept(c)
	c.line = u.GetToken().Line
	switch u.Operator {
	case token.MINUS:
		c.emitOp(OpNegate, c.line)
	case token.BANG:
		c.emitOp(OpNot, c.line)
	default:
		c.errorf("Unknown unary operator.")
	}
}

func (c *compilerState) VisitBinary(b *ast.Binary) {
	b.Left.Accept(c)
	b.Right.Accept(c)
	c.line = b.GetToken().Line
	switch b.Operator {
	case token.PLUS:
		c.emitOp(OpAdd, c.line)
	case token.MINUS:
		c.emitOp(OpSubtract, c.line)
	case token.STAR:
		c.emitOp(OpMultiply, c.line)
	case token.SLASH:
		c.emitOp(OpDivide, c.line)
	case token.PERCENT:
		c.emitOp(OpModulo, c.line)
	case token.EQUAL_EQUAL:
		c.emitOp(OpEqual, c.line)
	case token.BANG_EQUAL:
		c.emitOp(OpEqual, c.line)
		c.emitOp(OpNot, c.line)
	case token.LESS:
		c.emitOp(OpLess, c.line)
	case token.LESS_EQUAL:
		c.emitOp(OpGreater, c.line)
		c.emitOp(OpNot, c.line)
	case token.GREATER:
		c.emitOp(OpGreater, c.line)
	case token.GREATER_EQUAL:
		c.emitOp(OpLess, c.line)
		c.emitOp(OpNot, c.line)
	default:
		c.errorf("Unknown binary operator.")
	}
}

// VisitLogical implements and/or short-circuiting. JUMP_IF_FALSE never
// consumes the condition, so the path that goes on to evaluate the right
// operand emits an explicit POP; the short-circuit path leaves the left
// operand on the stack as the result.
func (c *compilerState) VisitLogical(l *ast.Logical) {
	l.Left.Accept(c)
	c.line = l.GetToken().Line

	switch l.Operator {
	case token.AND:
		endJump := c.emitJump(OpJumpIfFalse, c.line)
		c.emitOp(OpPop, c.line)
		l.Right.Accept(c)
		c.patchJump(endJump)
	case token.OR:
		elseJump := c.emitJump(OpJumpIfFalse, c.line)
		endJump := c.emitJump(OpJump, c.line)
		c.patchJump(elseJump)
		c.emitOp(OpPop, c.line)
		l.Right.Accept(c)
		c.patchJump(endJump)
	default:
		c.errorf("Unknown logical operator.")
	}
}

// VisitAssign leaves the assigned value on the stack (the SET opcodes
// don't pop), so assignment composes as an expression.
func (c *compilerState) VisitAssign(a *ast.Assign) {
	a.Value.Accept(c)
	c.line = a.GetToken().Line
	c.emitVariableSet(a.Name.Name, c.line)
}

// VisitCall fuses a property-call shape (obj.method(...)) into INVOKE,
// skipping the BoundMethod allocation GET_PROPERTY+CALL would otherwise
// need.
func (c *compilerState) VisitCall(call *ast.Call) {
	if len(call.Arguments) > 255 {
		c.errorf("Can't have more than 255 arguments.")
	}

	if get, ok := call.Callee.(*ast.Get); ok {
		get.Object.Accept(c)
		for _, arg := range call.Arguments {
			arg.Accept(c)
		}
		c.line = call.GetToken().Line
		nameIdx := c.identifierConstant(get.Name.Name)
		c.function.Chunk.WriteConstantIndex(OpInvoke, OpInvokeLong, nameIdx, c.line)
		c.emitByte(byte(len(call.Arguments)), c.line)
		return
	}

	call.Callee.Accept(c)
	for _, arg := range call.Arguments {
		arg.Accept(c)
	}
	c.line = call.GetToken().Line
	c.emitOp(OpCall, c.line)
	c.emitByte(byte(len(call.Arguments)), c.line)
}

func (c *compilerState) VisitGet(g *ast.Get) {
	g.Object.Accept(c)
	c.line = g.GetToken().Line
	idx := c.identifierConstant(g.Name.Name)
	c.function.Chunk.WriteConstantIndex(OpGetProperty, OpGetPropertyLong, idx, c.line)
}

func (c *compilerState) VisitSet(s *ast.Set) {
	s.Object.Accept(c)
	s.Value.Accept(c)
	c.line = s.GetToken().Line
	idx := c.identifierConstant(s.Name.Name)
	c.function.Chunk.WriteConstantIndex(OpSetProperty, OpSetPropertyLong, idx, c.line)
}

func (c *compilerState) VisitIndex(ix *ast.Index) {
	ix.Target.Accept(c)
	ix.Index.Accept(c)
	c.line = ix.GetToken().Line
	c.emitOp(OpIndexSubscr, c.line)
}

func (c *compilerState) VisitIndexSet(is *ast.IndexSet) {
	is.Target.Accept(c)
	is.Index.Accept(c)
	is.Value.Accept(c)
	c.line = is.GetToken().Line
	c.emitOp(OpStoreSubscr, c.line)
}

func (c *compilerState) VisitListLiteral(l *ast.ListLiteral) {
	for _, e := range l.Elements {
		e.Accept(c)
	}
	c.line = l.GetToken().Line
	if len(l.Elements) > 0xFFFF {
		c.errorf("Too many elements in list literal.")
	}
	c.emitOp(OpBuildList, c.line)
	c.emitU16(len(l.Elements), c.line)
}

func (c *compilerState) VisitRangeLiteral(r *ast.RangeLiteral) {
	r.Min.Accept(c)
	r.Max.Accept(c)
	c.line = r.GetToken().Line
	c.emitOp(OpBuildRange, c.line)
}

func (c *compilerState) VisitFunctionExpr(f *ast.FunctionExpr) {
	c.line = f.GetToken().Line
	c.compileFunctionBody(f, funcTypeFunction)
}

// VisitMatchExpr compiles a value-producing match. The subject stays on
// the stack top across arms (MATCH consumes only the pattern and peeks
// the subject), so this works at any expression position, with any
// temporaries already below it. The first matching arm pops the test
// result and the subject, then its body leaves the match's value; when no
// arm matches and there is no `_` arm, the subject is replaced by nil.
func (c *compilerState) VisitMatchExpr(m *ast.MatchExpr) {
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
		c.emitOp(OpPop, c.line) // exhausted arms: the match's value is nil
		c.emitOp(OpNil, c.line)
	}
	for _, j := range endJumps {
		c.patchJump(j)
	}
}
