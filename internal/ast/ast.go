// Package ast defines the syntax tree produced by the parser and consumed
// by the compiler.
package ast

import "github.com/gloxlang/glox/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expression is a Node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Statement is a Node that is executed for effect.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Program is the root of every tree the parser produces.
type Program struct {
	Statements []Statement
}

func (p *Program) Accept(v Visitor)     { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string { return "" }
