package ast

import "github.com/gloxlang/glox/internal/token"

// Literal is a number, string, bool, or nil literal.
type Literal struct {
	Token token.Token
	Value interface{} // float64, string, bool, or nil
}

func (l *Literal) Accept(v Visitor)      { v.VisitLiteral(l) }
func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token { return l.Token }

// Identifier is a bare name reference.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// This refers to the receiver inside a method body.
type This struct{ Token token.Token }

func (t *This) Accept(v Visitor)      { v.VisitThis(t) }
func (t *This) expressionNode()       {}
func (t *This) TokenLiteral() string  { return t.Token.Lexeme }
func (t *This) GetToken() token.Token { return t.Token }

// Super refers to the enclosing class's superclass. glox has no
// inheritance in its class model, so resolving one is always a compile
// error, but the token is recognized and parsed.
type Super struct {
	Token  token.Token
	Method *Identifier
}

func (s *Super) Accept(v Visitor)      { v.VisitSuper(s) }
func (s *Super) expressionNode()       {}
func (s *Super) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Super) GetToken() token.Token { return s.Token }

// Unary is a prefix operator expression: -x, !x.
type Unary struct {
	Token    token.Token
	Operator token.Type
	Right    Expression
}

func (u *Unary) Accept(v Visitor)      { v.VisitUnary(u) }
func (u *Unary) expressionNode()       {}
func (u *Unary) TokenLiteral() string  { return u.Token.Lexeme }
func (u *Unary) GetToken() token.Token { return u.Token }

// Binary is an infix operator expression.
type Binary struct {
	Token    token.Token
	Left     Expression
	Operator token.Type
	Right    Expression
}

func (b *Binary) Accept(v Visitor)      { v.VisitBinary(b) }
func (b *Binary) expressionNode()       {}
func (b *Binary) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Binary) GetToken() token.Token { return b.Token }

// Logical is 'and'/'or', which short-circuit and so are compiled
// differently from Binary.
type Logical struct {
	Token    token.Token
	Left     Expression
	Operator token.Type
	Right    Expression
}

func (l *Logical) Accept(v Visitor)      { v.VisitLogical(l) }
func (l *Logical) expressionNode()       {}
func (l *Logical) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Logical) GetToken() token.Token { return l.Token }

// Assign is `name = value` or `name = value` for a const check target.
type Assign struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (a *Assign) Accept(v Visitor)      { v.VisitAssign(a) }
func (a *Assign) expressionNode()       {}
func (a *Assign) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Assign) GetToken() token.Token { return a.Token }

// Call is a function/method invocation.
type Call struct {
	Token     token.Token // the '(' token
	Callee    Expression
	Arguments []Expression
}

func (c *Call) Accept(v Visitor)      { v.VisitCall(c) }
func (c *Call) expressionNode()       {}
func (c *Call) TokenLiteral() string  { return c.Token.Lexeme }
func (c *Call) GetToken() token.Token { return c.Token }

// Get is property access: obj.name.
type Get struct {
	Token  token.Token
	Object Expression
	Name   *Identifier
}

func (g *Get) Accept(v Visitor)      { v.VisitGet(g) }
func (g *Get) expressionNode()       {}
func (g *Get) TokenLiteral() string  { return g.Token.Lexeme }
func (g *Get) GetToken() token.Token { return g.Token }

// Set is property assignment: obj.name = value.
type Set struct {
	Token  token.Token
	Object Expression
	Name   *Identifier
	Value  Expression
}

func (s *Set) Accept(v Visitor)      { v.VisitSet(s) }
func (s *Set) expressionNode()       {}
func (s *Set) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Set) GetToken() token.Token { return s.Token }

// Index is subscript access: target[index].
type Index struct {
	Token  token.Token // the '[' token
	Target Expression
	Index  Expression
}

func (ix *Index) Accept(v Visitor)      { v.VisitIndex(ix) }
func (ix *Index) expressionNode()       {}
func (ix *Index) TokenLiteral() string  { return ix.Token.Lexeme }
func (ix *Index) GetToken() token.Token { return ix.Token }

// IndexSet is subscript assignment: target[index] = value.
type IndexSet struct {
	Token  token.Token
	Target Expression
	Index  Expression
	Value  Expression
}

func (is *IndexSet) Accept(v Visitor)      { v.VisitIndexSet(is) }
func (is *IndexSet) expressionNode()       {}
func (is *IndexSet) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IndexSet) GetToken() token.Token { return is.Token }

// ListLiteral is `[a, b, c]`.
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (l *ListLiteral) Accept(v Visitor)      { v.VisitListLiteral(l) }
func (l *ListLiteral) expressionNode()       {}
func (l *ListLiteral) TokenLiteral() string  { return l.Token.Lexeme }
func (l *ListLiteral) GetToken() token.Token { return l.Token }

// RangeLiteral is `min..max`.
type RangeLiteral struct {
	Token token.Token
	Min   Expression
	Max   Expression
}

func (r *RangeLiteral) Accept(v Visitor)      { v.VisitRangeLiteral(r) }
func (r *RangeLiteral) expressionNode()       {}
func (r *RangeLiteral) TokenLiteral() string  { return r.Token.Lexeme }
func (r *RangeLiteral) GetToken() token.Token { return r.Token }

// FunctionExpr is an anonymous function literal, also reused as the body of
// a `fun name(...)` declaration and of methods.
type FunctionExpr struct {
	Token  token.Token // 'fun' token; the name token for declarations and methods
	Name   string      // "" for anonymous functions
	Params []*Identifier
	Body   []Statement
}

func (f *FunctionExpr) Accept(v Visitor)      { v.VisitFunctionExpr(f) }
func (f *FunctionExpr) expressionNode()       {}
func (f *FunctionExpr) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FunctionExpr) GetToken() token.Token { return f.Token }

// MatchArm is one `pattern => expr` arm of a value-producing match
// expression. nil Pattern is the wildcard `_` arm.
type MatchArm struct {
	Pattern Expression
	Body    Expression
}

// MatchExpr is `match subject { pattern => expr, ... }` used where a value
// is expected, e.g. the right-hand side of an assignment.
type MatchExpr struct {
	Token   token.Token
	Subject Expression
	Arms    []MatchArm
}

func (m *MatchExpr) Accept(v Visitor)      { v.VisitMatchExpr(m) }
func (m *MatchExpr) expressionNode()       {}
func (m *MatchExpr) TokenLiteral() string  { return m.Token.Lexeme }
func (m *MatchExpr) GetToken() token.Token { return m.Token }
