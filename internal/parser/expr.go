package parser

import (
	"strconv"

	"github.com/gloxlang/glox/internal/ast"
	"github.com/gloxlang/glox/internal/token"
)

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.current.Type]; ok {
		return prec
	}
	return PREC_NONE
}

// expression is the precedence climber: parse a prefix rule, then keep
// consuming infix rules whose precedence is >= minPrec.
func (p *Parser) expression(minPrec int) ast.Expression {
	left := p.prefix()
	if left == nil {
		return nil
	}
	canAssign := minPrec <= PREC_ASSIGNMENT

	for minPrec <= p.peekPrecedence() {
		switch p.current.Type {
		case token.EQUAL:
			if !canAssign {
				p.error("Invalid assignment target.")
				return left
			}
			p.advance()
			left = p.finishAssign(left)
		case token.OR, token.AND:
			left = p.finishLogical(left)
		case token.LPAREN:
			left = p.finishCall(left)
		case token.DOT:
			left = p.finishGetOrSet(left, canAssign)
		case token.LBRACKET:
			left = p.finishIndex(left, canAssign)
		case token.DOT_DOT:
			left = p.finishRange(left)
		default:
			left = p.finishBinary(left)
		}
	}
	return left
}

func (p *Parser) prefix() ast.Expression {
	switch p.current.Type {
	case token.NUMBER:
		return p.number()
	case token.STRING:
		return p.stringLit()
	case token.TRUE, token.FALSE:
		return p.boolLit()
	case token.NIL:
		return p.nilLit()
	case token.IDENT:
		return p.identifier()
	case token.THIS:
		tok := p.current
		p.advance()
		return &ast.This{Token: tok}
	case token.SUPER:
		return p.super_()
	case token.MINUS, token.BANG:
		return p.unary()
	case token.LPAREN:
		return p.grouping()
	case token.LBRACKET:
		return p.listLiteral()
	case token.FUN:
		return p.functionExpr()
	case token.MATCH:
		tok := p.current
		p.advance()
		return p.matchExpr(tok)
	default:
		p.errorAtCurrent("Expect expression.")
		p.advance()
		return nil
	}
}

func (p *Parser) number() ast.Expression {
	tok := p.current
	v, _ := strconv.ParseFloat(tok.Lexeme, 64)
	p.advance()
	return &ast.Literal{Token: tok, Value: v}
}

func (p *Parser) stringLit() ast.Expression {
	tok := p.current
	// Strip the surrounding quotes; glox strings have no escape sequences.
	lexeme := tok.Lexeme
	var s string
	if len(lexeme) >= 2 {
		s = lexeme[1 : len(lexeme)-1]
	}
	p.advance()
	return &ast.Literal{Token: tok, Value: s}
}

func (p *Parser) boolLit() ast.Expression {
	tok := p.current
	p.advance()
	return &ast.Literal{Token: tok, Value: tok.Type == token.TRUE}
}

func (p *Parser) nilLit() ast.Expression {
	tok := p.current
	p.advance()
	return &ast.Literal{Token: tok, Value: nil}
}

func (p *Parser) identifier() ast.Expression {
	tok := p.current
	p.advance()
	return &ast.Identifier{Token: tok, Name: tok.Lexeme}
}

func (p *Parser) super_() ast.Expression {
	tok := p.current
	p.advance()
	p.consume(token.DOT, "Expect '.' after 'super'.")
	methodTok := p.consume(token.IDENT, "Expect superclass method name.")
	return &ast.Super{Token: tok, Method: &ast.Identifier{Token: methodTok, Name: methodTok.Lexeme}}
}

func (p *Parser) unary() ast.Expression {
	tok := p.current
	op := tok.Type
	p.advance()
	right := p.expression(PREC_UNARY)
	return &ast.Unary{Token: tok, Operator: op, Right: right}
}

func (p *Parser) grouping() ast.Expression {
	p.advance() // consume '('
	expr := p.expression(PREC_ASSIGNMENT)
	p.consume(token.RPAREN, "Expect ')' after expression.")
	return expr
}

func (p *Parser) listLiteral() ast.Expression {
	tok := p.current
	p.advance() // consume '['
	var elems []ast.Expression
	if !p.check(token.RBRACKET) {
		for {
			elems = append(elems, p.expression(PREC_ASSIGNMENT))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACKET, "Expect ']' after list elements.")
	return &ast.ListLiteral{Token: tok, Elements: elems}
}

func (p *Parser) functionExpr() ast.Expression {
	p.advance() // consume 'fun'
	return p.functionBody("")
}

func (p *Parser) finishBinary(left ast.Expression) ast.Expression {
	tok := p.current
	op := tok.Type
	prec := p.peekPrecedence()
	p.advance()
	right := p.expression(prec + 1)
	return &ast.Binary{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) finishLogical(left ast.Expression) ast.Expression {
	tok := p.current
	op := tok.Type
	prec := p.peekPrecedence()
	p.advance()
	right := p.expression(prec + 1)
	return &ast.Logical{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) finishRange(left ast.Expression) ast.Expression {
	tok := p.current
	p.advance()
	right := p.expression(PREC_RANGE + 1)
	return &ast.RangeLiteral{Token: tok, Min: left, Max: right}
}

func (p *Parser) finishAssign(left ast.Expression) ast.Expression {
	tok := p.prev
	value := p.expression(PREC_ASSIGNMENT)
	switch target := left.(type) {
	case *ast.Identifier:
		return &ast.Assign{Token: tok, Name: target, Value: value}
	case *ast.Get:
		return &ast.Set{Token: tok, Object: target.Object, Name: target.Name, Value: value}
	case *ast.Index:
		return &ast.IndexSet{Token: tok, Target: target.Target, Index: target.Index, Value: value}
	default:
		p.error("Invalid assignment target.")
		return left
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	tok := p.current
	p.advance() // consume '('
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			args = append(args, p.expression(PREC_ASSIGNMENT))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) finishGetOrSet(object ast.Expression, canAssign bool) ast.Expression {
	tok := p.current
	p.advance() // consume '.'
	nameTok := p.consume(token.IDENT, "Expect property name after '.'.")
	name := &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}
	return &ast.Get{Token: tok, Object: object, Name: name}
}

func (p *Parser) finishIndex(target ast.Expression, canAssign bool) ast.Expression {
	tok := p.current
	p.advance() // consume '['
	idx := p.expression(PREC_ASSIGNMENT)
	p.consume(token.RBRACKET, "Expect ']' after index.")
	return &ast.Index{Token: tok, Target: target, Index: idx}
}

func (p *Parser) matchExpr(tok token.Token) *ast.MatchExpr {
	subject := p.expression(PREC_ASSIGNMENT)
	p.consume(token.LBRACE, "Expect '{' after match subject.")

	var arms []ast.MatchArm
	for !p.check(token.RBRACE) && p.current.Type != token.EOF {
		var pattern ast.Expression
		if p.check(token.UNDERSCORE) {
			p.advance()
		} else {
			pattern = p.expression(PREC_RANGE)
		}
		p.consume(token.FAT_ARROW, "Expect '=>' after match pattern.")
		body := p.expression(PREC_ASSIGNMENT)
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RBRACE, "Expect '}' after match arms.")
	return &ast.MatchExpr{Token: tok, Subject: subject, Arms: arms}
}
