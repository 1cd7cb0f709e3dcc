package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

type tableCmd struct {
	info

	pretty bool
}

var tableInfo = newInfo("table", "print the classes whose subscripts are version gated",
	`Usage: table [--pretty]`)

func (c *tableCmd) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.pretty, "pretty", false, "print the table as a nested document")
}

func (c *tableCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	table := versiontable.Builtin()
	if c.pretty {
		fmt.Println(table.Format().String())
		return subcommands.ExitSuccess
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tSINCE\tTYPING ALIAS")
	for _, req := range table.Requirements() {
		alias := req.TypingAlias
		if alias == "" {
			alias = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", req.Symbol.QualifiedName(), req.MinVersion, alias)
	}
	if err := w.Flush(); err != nil {
		return cmdErrorf("writing table: %v", err)
	}
	return subcommands.ExitSuccess
}
