package pysubscript

import (
	"strings"

	"github.com/vilterp/pysubscript/pkg/parse"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

const builtinsModule = "builtins"

var builtinNames = map[string]bool{
	"list": true, "dict": true, "set": true, "frozenset": true, "tuple": true,
	"type": true, "int": true, "float": true, "complex": true, "str": true,
	"bytes": true, "bytearray": true, "bool": true, "object": true,
	"memoryview": true, "range": true, "slice": true, "BaseException": true,
	"Exception": true,
}

// binder maps the names a module binds to the symbols they refer to.
// Imports are bound up front, wherever they appear in the file.
type binder struct {
	// from x import Y [as Z]
	names map[string]versiontable.Symbol
	// import x.y [as z]
	modules map[string]string
}

func newBinder() *binder {
	return &binder{
		names:   map[string]versiontable.Symbol{},
		modules: map[string]string{},
	}
}

func (b *binder) bindModule(module *parse.Module) {
	for _, stmt := range module.Statements {
		switch {
		case stmt.FromImport != nil:
			from := stmt.FromImport.Module.String()
			for _, name := range stmt.FromImport.Names {
				b.names[name.LocalName()] = versiontable.Symbol{Module: from, Name: name.Name}
			}
		case stmt.Import != nil:
			for _, mod := range stmt.Import.Modules {
				if mod.Alias != "" {
					b.modules[mod.Alias] = mod.Name.String()
					continue
				}
				// import os.path binds os.
				b.modules[mod.Name.Parts[0]] = mod.Name.Parts[0]
			}
		}
	}
}

// resolve turns a possibly-dotted name into a symbol. Names that can't
// be resolved come back without a module and never match the table.
func (b *binder) resolve(name *parse.DottedName) versiontable.Symbol {
	head, rest := name.Parts[0], name.Parts[1:]
	if len(rest) == 0 {
		if sym, ok := b.names[head]; ok {
			return sym
		}
		if _, ok := b.modules[head]; ok {
			return versiontable.Symbol{Name: head}
		}
		if builtinNames[head] {
			return versiontable.Symbol{Module: builtinsModule, Name: head}
		}
		return versiontable.Symbol{Name: head}
	}

	last := rest[len(rest)-1]
	middle := rest[:len(rest)-1]
	var base string
	if mod, ok := b.modules[head]; ok {
		base = mod
	} else if sym, ok := b.names[head]; ok {
		// from collections import abc; abc.Foo
		base = sym.QualifiedName()
	} else {
		base = head
	}
	if len(middle) > 0 {
		base = base + "." + strings.Join(middle, ".")
	}
	return versiontable.Symbol{Module: base, Name: last}
}
