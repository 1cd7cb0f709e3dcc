package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/vilterp/pysubscript/pkg"
	"github.com/vilterp/pysubscript/pkg/diag"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

type checkCmd struct {
	info
	targetFlags

	cacheFile string
	workers   int
	asJSON    bool
}

var checkInfo = newInfo("check", "report illegal subscripts in Python files",
	`Usage: check [--python-version 3.8] [--config path] [--json] <file.py>...`)

func (c *checkCmd) SetFlags(fs *flag.FlagSet) {
	c.targetFlags.register(fs)
	fs.StringVar(&c.cacheFile, "cache", "", "bolt file to cache results in")
	fs.IntVar(&c.workers, "workers", 0, "files to check at once; 0 uses the config value")
	fs.BoolVar(&c.asJSON, "json", false, "print diagnostics as a JSON array")
}

func (c *checkCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if fs.NArg() == 0 {
		return cmdErrorf("no files given")
	}
	cfg, err := c.load()
	if err != nil {
		return cmdErrorf("loading config: %v", err)
	}
	if c.cacheFile != "" {
		cfg.CacheFile = c.cacheFile
	}
	if c.workers > 0 {
		cfg.Workers = c.workers
	}

	var emitter diag.Emitter
	if !c.asJSON {
		emitter = diag.NewTextEmitter(os.Stdout)
	}
	checker, err := pysubscript.NewChecker(cfg, versiontable.Builtin(), emitter)
	if err != nil {
		return cmdErrorf("%v", err)
	}
	defer checker.Close()

	diags, err := checker.CheckFiles(ctx, fs.Args())
	if err != nil {
		return cmdErrorf("%v", err)
	}
	if c.asJSON {
		if diags == nil {
			diags = []diag.Diagnostic{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(diags); err != nil {
			return cmdErrorf("writing diagnostics: %v", err)
		}
	}
	if len(diags) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
