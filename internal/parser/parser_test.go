package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gloxlang/glox/internal/ast"
	"github.com/gloxlang/glox/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.Parse()
	require.False(t, p.HadError(), "unexpected parse errors: %v", p.Errors)
	return prog
}

func TestParseVarAndPrint(t *testing.T) {
	prog := parse(t, `var x = 1 + 2; print x;`)
	require.Len(t, prog.Statements, 2)

	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name.Name)
	require.False(t, decl.Const)

	_, ok = prog.Statements[1].(*ast.PrintStmt)
	require.True(t, ok)
}

func TestParseConstDeclarationMarksConst(t *testing.T) {
	prog := parse(t, `const x = 1;`)
	decl := prog.Statements[0].(*ast.VarDecl)
	require.True(t, decl.Const)
}

func TestParseFunctionAndCall(t *testing.T) {
	prog := parse(t, `
fun add(a, b) { return a + b; }
print add(1, 2);
`)
	require.Len(t, prog.Statements, 2)
	fn, ok := prog.Statements[0].(*ast.FunDecl)
	require.True(t, ok)
	require.Len(t, fn.Function.Params, 2)
}

func TestParseClass(t *testing.T) {
	prog := parse(t, `
class Greeter {
  init(n) { this.name = n; }
  hello() { print this.name; }
}
`)
	cls := prog.Statements[0].(*ast.ClassDecl)
	require.Equal(t, "Greeter", cls.Name.Name)
	require.Len(t, cls.Methods, 2)
}

func TestParseMatchRange(t *testing.T) {
	prog := parse(t, `match 7 { 1..5 => print "lo", 6..10 => print "hi", _ => print "?" }`)
	stmt := prog.Statements[0].(*ast.MatchStmt)
	require.Len(t, stmt.Arms, 3)
	require.Nil(t, stmt.Arms[2].Pattern)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	p := New(lexer.New(`var = ; var y = 1;`))
	prog := p.Parse()
	require.True(t, p.HadError())
	require.NotEmpty(t, p.Errors)
	// Parser should still find the second, well-formed declaration.
	found := false
	for _, s := range prog.Statements {
		if decl, ok := s.(*ast.VarDecl); ok && decl.Name != nil && decl.Name.Name == "y" {
			found = true
		}
	}
	require.True(t, found)
}
