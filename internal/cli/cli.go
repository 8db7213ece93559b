// Package cli implements glox's REPL and file-run entry point. Everything
// here sits outside the language core: argument parsing, stdin reading,
// prompt suppression on a non-tty stdin, and exit-code selection.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gloxlang/glox/internal/config"
	"github.com/gloxlang/glox/internal/vm"
)

// Process exit codes, sysexits-style.
const (
	ExitSuccess    = 0
	ExitUsage      = 64
	ExitCompileErr = 65
	ExitRuntimeErr = 70
	ExitFileErr    = 74
)

// Run is cmd/glox/main.go's whole body: parse args, build a VM from the
// merged config, run a file and/or a REPL, and return the process exit
// code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	switch len(args) {
	case 0:
		return runREPL(stdin, stdout, stderr)
	case 1:
		return runFileThenPrompt(args[0], stdin, stdout, stderr)
	default:
		fmt.Fprintln(stderr, "usage: glox [path]")
		return ExitUsage
	}
}

func newVM(stdout io.Writer) *vm.VM {
	cfg, err := config.Load(".")
	if err != nil {
		// A malformed glox.yaml shouldn't be silently ignored, but it isn't
		// worth its own exit code either; fall back to defaults and surface
		// it as a warning.
		fmt.Fprintf(os.Stderr, "glox: %v (using defaults)\n", err)
		cfg = config.Config{}
	}

	v := vm.New(stdout, cfg.Limits())
	cfg.ApplyGC(v)
	return v
}

func runFileThenPrompt(path string, stdin io.Reader, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "glox: can't open file %q: %v\n", path, err)
		return ExitFileErr
	}

	v := newVM(stdout)
	if code, ok := runSource(v, string(source), stderr); !ok {
		return code
	}
	return repl(v, stdin, stdout, stderr)
}

func runREPL(stdin io.Reader, stdout, stderr io.Writer) int {
	return repl(newVM(stdout), stdin, stdout, stderr)
}

// isInteractive reports whether stdin is a real terminal, so the REPL can
// suppress its "> " prompt when fed from a pipe or file redirection.
func isInteractive(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func repl(v *vm.VM, stdin io.Reader, stdout, stderr io.Writer) int {
	interactive := isInteractive(stdin)
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 4096), 1<<20)

	for {
		if interactive {
			fmt.Fprint(stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			replCommand(v, line, stdout)
			continue
		}
		if err := v.InterpretREPL(line); err != nil {
			reportError(stderr, err)
		}
	}
	return ExitSuccess
}

// replCommand handles the REPL's meta commands. A leading ':' can never
// start a glox statement, so these can't shadow user code.
func replCommand(v *vm.VM, line string, stdout io.Writer) {
	switch {
	case line == ":globals":
		for _, name := range v.GlobalNames() {
			fmt.Fprintln(stdout, name)
		}
	case line == ":natives":
		for _, name := range v.NativeNames() {
			fmt.Fprintln(stdout, name)
		}
	case strings.HasPrefix(line, ":dis "):
		fn, err := vm.Compile(v, strings.TrimPrefix(line, ":dis "))
		if err != nil {
			fmt.Fprintln(stdout, err.Error())
			return
		}
		fmt.Fprint(stdout, vm.Disassemble(fn.Chunk, "repl"))
	default:
		fmt.Fprintf(stdout, "unknown command %q (try :globals, :natives, :dis <code>)\n", line)
	}
}

// runSource runs one complete program (file mode, not REPL echo) and
// reports the first error it hits, returning the exit code for that error
// class. ok is false whenever an error occurred.
func runSource(v *vm.VM, source string, stderr io.Writer) (int, bool) {
	if err := v.Interpret(source); err != nil {
		code := reportError(stderr, err)
		return code, false
	}
	return ExitSuccess, true
}

// reportError prints err and returns the exit code matching its class.
func reportError(stderr io.Writer, err error) int {
	if re, ok := err.(*vm.RuntimeError); ok {
		fmt.Fprintln(stderr, re.Error())
		return ExitRuntimeErr
	}
	fmt.Fprintln(stderr, err.Error())
	return ExitCompileErr
}
