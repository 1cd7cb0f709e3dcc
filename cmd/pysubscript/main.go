// Binary pysubscript reports subscripted annotations that raise at
// runtime on older Python versions.
//
// Examples:
//   # Check files against Python 3.8.
//   pysubscript check --python-version 3.8 a.py b.py
//
//   # Show which classes are version gated.
//   pysubscript table
//
//   # Evaluate a snippet, one source line per argument.
//   pysubscript explain --python-version 3.8 'from queue import Queue' 'x: "Queue[int]"'
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(&checkCmd{info: checkInfo}, "")
	subcommands.Register(&explainCmd{info: explainInfo}, "")
	subcommands.Register(&tableCmd{info: tableInfo}, "")

	subcommands.Register(subcommands.FlagsCommand(), "help")
	subcommands.Register(subcommands.HelpCommand(), "help")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
