package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunTooManyArgsIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"a", "b"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, ExitUsage, code)
	require.Contains(t, stderr.String(), "usage:")
}

func TestRunMissingFileIsFileError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{filepath.Join(t.TempDir(), "missing.lox")}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, ExitFileErr, code)
}

func TestRunFileThenREPL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lox")
	require.NoError(t, os.WriteFile(path, []byte(`print "from file";`), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, strings.NewReader(`print 1 + 1;`+"\n"), &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	require.Equal(t, "from file\n2\n", stdout.String())
}

func TestRunREPLEchoesBareExpression(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, strings.NewReader("1 + 2\n"), &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	require.Equal(t, "3\n", stdout.String())
}

func TestRunFileRuntimeErrorExitsWithoutREPL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lox")
	require.NoError(t, os.WriteFile(path, []byte(`fun f(a,b){} f(1);`), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, strings.NewReader(`print "unreached";`), &stdout, &stderr)
	require.Equal(t, ExitRuntimeErr, code)
	require.Contains(t, stderr.String(), "Expected 2 arguments but got 1.")
	require.Empty(t, stdout.String())
}

func TestREPLMetaCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, strings.NewReader(":natives\nvar x = 1;\n:globals\n:dis print 1;\n"), &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, stdout.String(), "clock")
	require.Contains(t, stdout.String(), "x")
	require.Contains(t, stdout.String(), "PRINT")
}

func TestRunFileCompileErrorExitCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lox")
	require.NoError(t, os.WriteFile(path, []byte(`var = ;`), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, ExitCompileErr, code)
}
