// Command glox is the bytecode compiler and VM's command-line front end:
// `glox [path]` runs a file and/or drops into a REPL.
package main

import (
	"os"

	"github.com/gloxlang/glox/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
