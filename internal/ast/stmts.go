package ast

import "github.com/gloxlang/glox/internal/token"

// VarDecl is `var name = init;` or `const name = init;`.
type VarDecl struct {
	Token token.Token
	Name  *Identifier
	Init  Expression // nil means implicit nil initializer
	Const bool
}

func (v *VarDecl) Accept(vis Visitor)    { vis.VisitVarDecl(v) }
func (v *VarDecl) statementNode()        {}
func (v *VarDecl) TokenLiteral() string  { return v.Token.Lexeme }
func (v *VarDecl) GetToken() token.Token { return v.Token }

// PrintStmt is `print expr;`.
type PrintStmt struct {
	Token token.Token
	Value Expression
}

func (p *PrintStmt) Accept(v Visitor)      { v.VisitPrintStmt(p) }
func (p *PrintStmt) statementNode()        {}
func (p *PrintStmt) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PrintStmt) GetToken() token.Token { return p.Token }

// ExpressionStmt wraps a bare expression used as a statement.
type ExpressionStmt struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStmt) Accept(v Visitor)      { v.VisitExpressionStmt(e) }
func (e *ExpressionStmt) statementNode()        {}
func (e *ExpressionStmt) TokenLiteral() string  { return e.Token.Lexeme }
func (e *ExpressionStmt) GetToken() token.Token { return e.Token }

// Block is `{ stmt... }`.
type Block struct {
	Token      token.Token
	Statements []Statement
}

func (b *Block) Accept(v Visitor)      { v.VisitBlock(b) }
func (b *Block) statementNode()        {}
func (b *Block) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token { return b.Token }

// IfStmt is `if (cond) then [else elseBranch]`.
type IfStmt struct {
	Token       token.Token
	Condition   Expression
	Then        Statement
	Else        Statement // nil if no else clause
}

func (i *IfStmt) Accept(v Visitor)      { v.VisitIfStmt(i) }
func (i *IfStmt) statementNode()        {}
func (i *IfStmt) TokenLiteral() string  { return i.Token.Lexeme }
func (i *IfStmt) GetToken() token.Token { return i.Token }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (w *WhileStmt) Accept(v Visitor)      { v.VisitWhileStmt(w) }
func (w *WhileStmt) statementNode()        {}
func (w *WhileStmt) TokenLiteral() string  { return w.Token.Lexeme }
func (w *WhileStmt) GetToken() token.Token { return w.Token }

// ForStmt is the full three-clause `for (init; cond; incr) body`; any
// clause may be nil. The compiler desugars it into JUMP/LOOP.
type ForStmt struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Increment Expression
	Body      Statement
}

func (f *ForStmt) Accept(v Visitor)      { v.VisitForStmt(f) }
func (f *ForStmt) statementNode()        {}
func (f *ForStmt) TokenLiteral() string  { return f.Token.Lexeme }
func (f *ForStmt) GetToken() token.Token { return f.Token }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Token token.Token
	Value Expression // nil for bare `return;`
}

func (r *ReturnStmt) Accept(v Visitor)      { v.VisitReturnStmt(r) }
func (r *ReturnStmt) statementNode()        {}
func (r *ReturnStmt) TokenLiteral() string  { return r.Token.Lexeme }
func (r *ReturnStmt) GetToken() token.Token { return r.Token }

// FunDecl is `fun name(params) { body }`.
type FunDecl struct {
	Token    token.Token
	Name     *Identifier
	Function *FunctionExpr
}

func (f *FunDecl) Accept(v Visitor)      { v.VisitFunDecl(f) }
func (f *FunDecl) statementNode()        {}
func (f *FunDecl) TokenLiteral() string  { return f.Token.Lexeme }
func (f *FunDecl) GetToken() token.Token { return f.Token }

// ClassDecl is `class Name { method() {...} ... }`.
type ClassDecl struct {
	Token   token.Token
	Name    *Identifier
	Methods []*FunDecl
}

func (c *ClassDecl) Accept(v Visitor)      { v.VisitClassDecl(c) }
func (c *ClassDecl) statementNode()        {}
func (c *ClassDecl) TokenLiteral() string  { return c.Token.Lexeme }
func (c *ClassDecl) GetToken() token.Token { return c.Token }

// MatchStmtArm is one `pattern => stmt` arm of a match statement: unlike
// MatchArm, the body is a full statement (commonly `print ...`), since
// match used for effect rather than value has no result to produce.
type MatchStmtArm struct {
	Pattern Expression // nil for the wildcard `_` arm
	Body    Statement
}

// MatchStmt is `match subject { pattern => stmt, ... }` used for effect.
type MatchStmt struct {
	Token   token.Token
	Subject Expression
	Arms    []MatchStmtArm
}

func (m *MatchStmt) Accept(v Visitor)      { v.VisitMatchStmt(m) }
func (m *MatchStmt) statementNode()        {}
func (m *MatchStmt) TokenLiteral() string  { return m.Token.Lexeme }
func (m *MatchStmt) GetToken() token.Token { return m.Token }
