package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/subcommands"
	"github.com/vilterp/pysubscript/pkg"
)

// info implements the name and documentation parts of
// subcommands.Command.
type info struct {
	name     string
	synopsis string
	usage    string
}

func newInfo(name, synopsis, usage string) info {
	if !strings.HasSuffix(usage, "\n") {
		usage += "\n"
	}
	return info{name: name, synopsis: synopsis, usage: usage}
}

func (i info) Name() string     { return i.name }
func (i info) Synopsis() string { return i.synopsis }
func (i info) Usage() string    { return i.usage + "\nOptions:\n" }

func (i info) SetFlags(*flag.FlagSet) {}

func (i info) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Print(i.usage)
	return subcommands.ExitSuccess
}

func cmdErrorf(msg string, args ...interface{}) subcommands.ExitStatus {
	log.Printf("ERROR: "+msg, args...)
	return subcommands.ExitFailure
}

// targetFlags are shared by commands that check code.
type targetFlags struct {
	configPath    string
	pythonVersion string
}

func (f *targetFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML or JSON config file (pyrightconfig.json works)")
	fs.StringVar(&f.pythonVersion, "python-version", "", "target Python version, e.g. 3.8; overrides the config file")
}

func (f *targetFlags) load() (pysubscript.Config, error) {
	cfg := pysubscript.DefaultConfig()
	if f.configPath != "" {
		loaded, err := pysubscript.LoadConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if f.pythonVersion != "" {
		return cfg.OverridePythonVersion(f.pythonVersion)
	}
	return cfg, nil
}
