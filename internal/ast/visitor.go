package ast

// Visitor is implemented by tree consumers (currently only the compiler).
// Kept separate from the node definitions so the contract reads in one
// place.
type Visitor interface {
	VisitProgram(p *Program)

	VisitLiteral(l *Literal)
	VisitIdentifier(i *Identifier)
	VisitThis(t *This)
	VisitSuper(s *Super)
	VisitUnary(u *Unary)
	VisitBinary(b *Binary)
	VisitLogical(l *Logical)
	VisitAssign(a *Assign)
	VisitCall(c *Call)
	VisitGet(g *Get)
	VisitSet(s *Set)
	VisitIndex(ix *Index)
	VisitIndexSet(is *IndexSet)
	VisitListLiteral(l *ListLiteral)
	VisitRangeLiteral(r *RangeLiteral)
	VisitFunctionExpr(f *FunctionExpr)
	VisitMatchExpr(m *MatchExpr)

	VisitVarDecl(v *VarDecl)
	VisitPrintStmt(p *PrintStmt)
	VisitExpressionStmt(e *ExpressionStmt)
	VisitBlock(b *Block)
	VisitIfStmt(i *IfStmt)
	VisitWhileStmt(w *WhileStmt)
	VisitForStmt(f *ForStmt)
	VisitReturnStmt(r *ReturnStmt)
	VisitFunDecl(f *FunDecl)
	VisitClassDecl(c *ClassDecl)
	VisitMatchStmt(m *MatchStmt)
}
