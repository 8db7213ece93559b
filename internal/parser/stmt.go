package parser

import (
	"github.com/gloxlang/glox/internal/ast"
	"github.com/gloxlang/glox/internal/token"
)

func (p *Parser) declaration() ast.Statement {
	switch {
	case p.match(token.VAR):
		return p.varDeclaration(false)
	case p.match(token.CONST):
		return p.varDeclaration(true)
	case p.match(token.FUN):
		return p.funDeclaration()
	case p.match(token.CLASS):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration(isConst bool) ast.Statement {
	tok := p.prev
	nameTok := p.consume(token.IDENT, "Expect variable name.")
	name := &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}

	var init ast.Expression
	if p.match(token.EQUAL) {
		init = p.expression(PREC_ASSIGNMENT)
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.VarDecl{Token: tok, Name: name, Init: init, Const: isConst}
}

func (p *Parser) funDeclaration() ast.Statement {
	tok := p.prev
	nameTok := p.consume(token.IDENT, "Expect function name.")
	fn := p.functionBody(nameTok.Lexeme)
	return &ast.FunDecl{Token: tok, Name: &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}, Function: fn}
}

func (p *Parser) functionBody(name string) *ast.FunctionExpr {
	tok := p.prev
	p.consume(token.LPAREN, "Expect '(' after function name.")
	var params []*ast.Identifier
	if !p.check(token.RPAREN) {
		for {
			pt := p.consume(token.IDENT, "Expect parameter name.")
			params = append(params, &ast.Identifier{Token: pt, Name: pt.Lexeme})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before function body.")
	body := p.block()
	return &ast.FunctionExpr{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) classDeclaration() ast.Statement {
	tok := p.prev
	nameTok := p.consume(token.IDENT, "Expect class name.")
	p.consume(token.LBRACE, "Expect '{' before class body.")

	var methods []*ast.FunDecl
	for !p.check(token.RBRACE) && p.current.Type != token.EOF {
		methodTok := p.consume(token.IDENT, "Expect method name.")
		fn := p.functionBody(methodTok.Lexeme)
		methods = append(methods, &ast.FunDecl{
			Token:    methodTok,
			Name:     &ast.Identifier{Token: methodTok, Name: methodTok.Lexeme},
			Function: fn,
		})
	}
	p.consume(token.RBRACE, "Expect '}' after class body.")
	return &ast.ClassDecl{Token: tok, Name: &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}, Methods: methods}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LBRACE):
		tok := p.prev
		return &ast.Block{Token: tok, Statements: p.block()}
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.MATCH):
		return p.matchStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() []ast.Statement {
	var stmts []ast.Statement
	for !p.check(token.RBRACE) && p.current.Type != token.EOF {
		stmts = append(stmts, p.declaration())
	}
	p.consume(token.RBRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) printStatement() ast.Statement {
	tok := p.prev
	value := p.expression(PREC_ASSIGNMENT)
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.PrintStmt{Token: tok, Value: value}
}

func (p *Parser) expressionStatement() ast.Statement {
	tok := p.current
	expr := p.expression(PREC_ASSIGNMENT)
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Token: tok, Expression: expr}
}

func (p *Parser) ifStatement() ast.Statement {
	tok := p.prev
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	cond := p.expression(PREC_ASSIGNMENT)
	p.consume(token.RPAREN, "Expect ')' after condition.")
	then := p.statement()
	var els ast.Statement
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.IfStmt{Token: tok, Condition: cond, Then: then, Else: els}
}

func (p *Parser) whileStatement() ast.Statement {
	tok := p.prev
	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	cond := p.expression(PREC_ASSIGNMENT)
	p.consume(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) forStatement() ast.Statement {
	tok := p.prev
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	var init ast.Statement
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		init = p.varDeclaration(false)
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.expression(PREC_ASSIGNMENT)
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var incr ast.Expression
	if !p.check(token.RPAREN) {
		incr = p.expression(PREC_ASSIGNMENT)
	}
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()
	return &ast.ForStmt{Token: tok, Init: init, Condition: cond, Increment: incr, Body: body}
}

func (p *Parser) returnStatement() ast.Statement {
	tok := p.prev
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression(PREC_ASSIGNMENT)
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.ReturnStmt{Token: tok, Value: value}
}

// matchStatement parses `match subject { pattern => stmt, ... }`. Arm
// bodies are statements (most commonly `print ...`) rather than
// expressions, since a match used for effect has no result to produce.
// The wildcard arm is spelled `_`, and arms are comma-separated with no
// trailing semicolons inside the braces.
func (p *Parser) matchStatement() ast.Statement {
	tok := p.prev
	subject := p.expression(PREC_ASSIGNMENT)
	p.consume(token.LBRACE, "Expect '{' after match subject.")

	var arms []ast.MatchStmtArm
	for !p.check(token.RBRACE) && p.current.Type != token.EOF {
		var pattern ast.Expression
		if p.check(token.UNDERSCORE) {
			p.advance()
		} else {
			pattern = p.expression(PREC_RANGE)
		}
		p.consume(token.FAT_ARROW, "Expect '=>' after match pattern.")
		body := p.matchArmStatement()
		arms = append(arms, ast.MatchStmtArm{Pattern: pattern, Body: body})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RBRACE, "Expect '}' after match arms.")
	return &ast.MatchStmt{Token: tok, Subject: subject, Arms: arms}
}

// matchArmStatement parses one arm body as a statement without requiring
// the trailing ';' ordinary statements need, since arms are terminated by
// ',' or '}' instead.
func (p *Parser) matchArmStatement() ast.Statement {
	if p.match(token.PRINT) {
		tok := p.prev
		value := p.expression(PREC_ASSIGNMENT)
		return &ast.PrintStmt{Token: tok, Value: value}
	}
	tok := p.current
	expr := p.expression(PREC_ASSIGNMENT)
	return &ast.ExpressionStmt{Token: tok, Expression: expr}
}
