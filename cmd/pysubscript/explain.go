package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/vilterp/pysubscript/pkg"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

type explainCmd struct {
	info
	targetFlags
}

var explainInfo = newInfo("explain", "show the verdict for every subscript in a snippet",
	`Usage: explain [--python-version 3.8] <line>...

Each argument is one line of Python source.`)

func (c *explainCmd) SetFlags(fs *flag.FlagSet) {
	c.targetFlags.register(fs)
}

func (c *explainCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if fs.NArg() == 0 {
		return cmdErrorf("nothing to explain")
	}
	cfg, err := c.load()
	if err != nil {
		return cmdErrorf("loading config: %v", err)
	}
	checker, err := pysubscript.NewChecker(cfg, versiontable.Builtin(), nil)
	if err != nil {
		return cmdErrorf("%v", err)
	}
	defer checker.Close()

	src := strings.Join(fs.Args(), "\n") + "\n"
	sites, err := checker.Evaluate(ctx, "<explain>", src)
	if err != nil {
		return cmdErrorf("%v", err)
	}
	if len(sites) == 0 {
		fmt.Println("no subscripts")
		return subcommands.ExitSuccess
	}
	for _, es := range sites {
		fmt.Printf("%d:%d %s %s[...] (%s): %s\n",
			es.Site.Span.Line, es.Site.Span.Column,
			es.Site.Form, es.Site.Symbol.Name, es.Site.Symbol.QualifiedName(),
			es.Verdict.Format().String(),
		)
	}
	return subcommands.ExitSuccess
}
