package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	v := New(&out)
	err := v.Interpret(source)
	return out.String(), err
}

// runStress behaves like run but collects garbage before every
// allocation, so a program whose output changes under stress mode
// indicates a live object was swept prematurely.
func runStress(t *testing.T, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	v := New(&out)
	v.Heap().SetStressGC(true)
	err := v.Interpret(source)
	return out.String(), err
}

func TestClosureCounter(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() { var i = 0; fun c() { i = i + 1; return i; } return c; }
		var c = makeCounter(); print c(); print c(); print c();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestClassInitAndMethod(t *testing.T) {
	out, err := run(t, `
		class Greeter { init(n) { this.name = n; } hello() { print "hi " + this.name; } }
		Greeter("world").hello();
	`)
	require.NoError(t, err)
	require.Equal(t, "hi world\n", out)
}

func TestStringConcatCoercion(t *testing.T) {
	out, err := run(t, `print "n=" + 42;`)
	require.NoError(t, err)
	require.Equal(t, "n=42\n", out)
}

func TestMatchWithRange(t *testing.T) {
	out, err := run(t, `match 7 { 1..5 => print "lo", 6..10 => print "hi", _ => print "?" }`)
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)
}

func TestFib(t *testing.T) {
	out, err := run(t, `
		fun fib(n){ if (n<2) return n; return fib(n-1)+fib(n-2); } print fib(10);
	`)
	require.NoError(t, err)
	require.Equal(t, "55\n", out)
}

func TestRuntimeArityError(t *testing.T) {
	_, err := run(t, `fun f(a,b){} f(1);`)
	require.Error(t, err)

	re, ok := err.(*RuntimeError)
	require.True(t, ok, "expected a *RuntimeError, got %T", err)
	require.Contains(t, re.Message, "Expected 2 arguments but got 1.")
	require.NotEmpty(t, re.Frames)
}

func TestAndOrShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun boom() { print "boom"; return true; }
		print false and boom();
		print true or boom();
	`)
	require.NoError(t, err)
	require.Equal(t, "false\ntrue\n", out)
}

func TestUpvalueSharing(t *testing.T) {
	out, err := run(t, `
		fun pair() {
			var x = 0;
			fun get() { return x; }
			fun set(v) { x = v; }
			set(5);
			return get();
		}
		print pair();
	`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

// After the enclosing frame returns the capture is closed; writes through
// one closure must stay visible through the other.
func TestClosedUpvalueSharedAfterReturn(t *testing.T) {
	out, err := run(t, `
		fun makePair() {
			var x = 0;
			fun get() { return x; }
			fun set(v) { x = v; }
			return [get, set];
		}
		var p = makePair();
		var get = p[0];
		var set = p[1];
		set(42);
		print get();
	`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestConstAssignmentIsCompileError(t *testing.T) {
	_, err := run(t, `const x = 1; x = 2;`)
	require.Error(t, err)
	_, isRuntime := err.(*RuntimeError)
	require.False(t, isRuntime, "const violation must be a compile error, not a runtime one")
}

func TestMatchExprValue(t *testing.T) {
	out, err := run(t, `
		var label = match 3 { 1..2 => "lo", 3..4 => "mid", _ => "hi" };
		print label;
	`)
	require.NoError(t, err)
	require.Equal(t, "mid\n", out)
}

func TestListIndexOutOfRangeIsNil(t *testing.T) {
	out, err := run(t, `
		var xs = [1, 2, 3];
		print xs[10];
	`)
	require.NoError(t, err)
	require.Equal(t, "nil\n", out)
}

func TestLocalClassDeclaration(t *testing.T) {
	out, err := run(t, `
		{
			class Point { init(x) { this.x = x; } getX() { return this.x; } }
			var p = Point(4);
			print p.getX();
			var after = 1;
			print after;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "4\n1\n", out)
}

// Match expressions must work with temporaries already on the stack below
// them: as a local initializer and as a binary operand.
func TestMatchExprWithSurroundingTemporaries(t *testing.T) {
	out, err := run(t, `
		{
			var label = match 3 { 1..2 => "lo", 3..4 => "mid", _ => "hi" };
			print "got " + match 9 { 1..5 => "lo", _ => "hi" };
			print label;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "got hi\nmid\n", out)
}

func TestMatchExprNoArmMatchesYieldsNil(t *testing.T) {
	out, err := run(t, `print match 99 { 1..5 => "lo", 6..10 => "hi" };`)
	require.NoError(t, err)
	require.Equal(t, "nil\n", out)
}

func TestUndefinedVariableError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	re, ok := err.(*RuntimeError)
	require.True(t, ok)
	require.Contains(t, re.Message, "Undefined variable 'nope'.")
}

func TestNativeListHelpers(t *testing.T) {
	out, err := run(t, `
		var xs = [1, 2, 3];
		push(xs, 4);
		print len(xs);
		print pop(xs);
		var doubled = map(xs, fun (x) { return x * 2; });
		print doubled;
		var evens = filter(xs, fun (x) { return x % 2 == 0; });
		print evens;
		print reduce(xs, fun (acc, x) { return acc + x; }, 0);
	`)
	require.NoError(t, err)
	require.Equal(t, "4\n4\n[2, 4, 6]\n[2]\n6\n", out)
}

// TestGCStressSafety runs under collect-on-every-allocation mode and
// checks output is unchanged from the non-stressed runs above. It
// exercises closures/upvalues (so an allocation mid-capture can't be swept
// before captureUpvalue links it into vm.openUpvalues) and
// classes/instances (so NewInstance can't be swept before instantiate
// roots it into the callee stack slot).
func TestGCStressSafety(t *testing.T) {
	out, err := runStress(t, `
		fun makeCounter() { var i = 0; fun c() { i = i + 1; return i; } return c; }
		var c = makeCounter(); print c(); print c(); print c();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)

	out, err = runStress(t, `
		class Greeter { init(n) { this.name = n; } hello() { print "hi " + this.name; } }
		Greeter("world").hello();
	`)
	require.NoError(t, err)
	require.Equal(t, "hi world\n", out)

	out, err = runStress(t, `
		fun pair() {
			var x = 0;
			fun get() { return x; }
			fun set(v) { x = v; }
			set(5);
			return get();
		}
		print pair();
	`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)

	// map's results live only in host memory between re-entrant calls; a
	// collection there must not sever string interning (labels[0] and the
	// later "n1" literal must still share identity).
	out, err = runStress(t, `
		var xs = [1, 2, 3];
		var labels = map(xs, fun (x) { return "n" + x; });
		print labels;
		print labels[0] == "n1";
	`)
	require.NoError(t, err)
	require.Equal(t, "[n1, n2, n3]\ntrue\n", out)
}
