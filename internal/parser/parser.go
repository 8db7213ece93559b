// Package parser builds an *ast.Program from a token stream, using Pratt
// (precedence-climbing) expression parsing for expressions and plain
// recursive descent for statements.
package parser

import (
	"fmt"

	"github.com/gloxlang/glox/internal/ast"
	"github.com/gloxlang/glox/internal/lexer"
	"github.com/gloxlang/glox/internal/token"
)

// Precedence levels, lowest to highest. ASSIGNMENT doubles as the lvalue
// cutoff: a target is only assignable when parsed at or below it.
const (
	_ int = iota
	PREC_NONE
	PREC_ASSIGNMENT // =
	PREC_OR         // or
	PREC_AND        // and
	PREC_EQUALITY   // == !=
	PREC_COMPARISON // < > <= >=
	PREC_RANGE      // ..
	PREC_TERM       // + -
	PREC_FACTOR     // * / %
	PREC_UNARY      // ! -
	PREC_CALL       // . () []
	PREC_PRIMARY
)

var precedences = map[token.Type]int{
	token.EQUAL:         PREC_ASSIGNMENT,
	token.OR:            PREC_OR,
	token.AND:           PREC_AND,
	token.EQUAL_EQUAL:   PREC_EQUALITY,
	token.BANG_EQUAL:    PREC_EQUALITY,
	token.LESS:          PREC_COMPARISON,
	token.LESS_EQUAL:    PREC_COMPARISON,
	token.GREATER:       PREC_COMPARISON,
	token.GREATER_EQUAL: PREC_COMPARISON,
	token.DOT_DOT:       PREC_RANGE,
	token.PLUS:          PREC_TERM,
	token.MINUS:         PREC_TERM,
	token.STAR:          PREC_FACTOR,
	token.SLASH:         PREC_FACTOR,
	token.PERCENT:       PREC_FACTOR,
	token.LPAREN:        PREC_CALL,
	token.DOT:           PREC_CALL,
	token.LBRACKET:      PREC_CALL,
}

// Error is a single compile-time diagnostic carrying the offending line,
// lexeme, and message.
type Error struct {
	Line    int
	Lexeme  string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
}

// Parser is a single-pass Pratt parser over a Lexer's token stream.
type Parser struct {
	lex *lexer.Lexer

	current token.Token
	prev    token.Token

	Errors     []Error
	hadError   bool
	panicMode  bool
}

// New creates a Parser and primes the first token.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prev = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(t token.Type) bool { return p.current.Type == t }

func (p *Parser) match(t token.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.current.Type == t {
		tok := p.current
		p.advance()
		return tok
	}
	p.errorAtCurrent(msg)
	return p.current
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.prev, msg) }

func (p *Parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	p.Errors = append(p.Errors, Error{Line: tok.Line, Lexeme: tok.Lexeme, Message: msg})
}

// HadError reports whether any parse error has been recorded.
func (p *Parser) HadError() bool { return p.hadError }

// synchronize advances past tokens until it finds a plausible statement
// boundary, so one parse error doesn't cascade into spurious ones.
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != token.EOF {
		if p.prev.Type == token.SEMICOLON {
			return
		}
		switch p.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.CONST, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// Parse consumes the entire token stream and returns the resulting program.
// Errors are recorded in p.Errors; the caller should check HadError before
// trusting the returned tree.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for p.current.Type != token.EOF {
		stmt := p.declaration()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.panicMode {
			p.synchronize()
		}
	}
	return prog
}
