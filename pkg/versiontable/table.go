package versiontable

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	pp "github.com/vilterp/pysubscript/pkg/prettyprint"
	"github.com/vilterp/pysubscript/pkg/pyversion"
)

// Symbol is a module-qualified name, e.g. queue.Queue. Builtins live
// in module "builtins". An empty Module means the name didn't resolve.
type Symbol struct {
	Module string
	Name   string
}

// ParseSymbol splits a dotted name on its last dot.
func ParseSymbol(qualified string) Symbol {
	idx := strings.LastIndex(qualified, ".")
	if idx < 0 {
		return Symbol{Name: qualified}
	}
	return Symbol{Module: qualified[:idx], Name: qualified[idx+1:]}
}

func (s Symbol) QualifiedName() string {
	if s.Module == "" {
		return s.Name
	}
	return s.Module + "." + s.Name
}

func (s Symbol) String() string {
	return s.QualifiedName()
}

// Requirement is the earliest version at which Symbol[...] can be
// evaluated at runtime.
type Requirement struct {
	Symbol     Symbol
	MinVersion pyversion.Version
	// TypingAlias is the typing-module spelling that has always been
	// subscriptable, if there is one.
	TypingAlias string
}

func (r Requirement) Format() pp.Doc {
	doc := pp.Textf("%s: %s", r.Symbol.QualifiedName(), r.MinVersion)
	if r.TypingAlias != "" {
		doc = pp.Seq(doc, pp.Textf(" (or %s)", r.TypingAlias))
	}
	return doc
}

type duplicateSymbol struct {
	Symbol Symbol
}

func (e *duplicateSymbol) Error() string {
	return fmt.Sprintf("duplicate version table entry for %s", e.Symbol.QualifiedName())
}

// Table is read-only once built and safe to share between goroutines.
type Table struct {
	entries     map[Symbol]Requirement
	fingerprint string
}

func New(reqs ...Requirement) (*Table, error) {
	entries := make(map[Symbol]Requirement, len(reqs))
	for _, req := range reqs {
		if _, ok := entries[req.Symbol]; ok {
			return nil, &duplicateSymbol{Symbol: req.Symbol}
		}
		entries[req.Symbol] = req
	}
	t := &Table{entries: entries}
	hash := sha256.New()
	for _, req := range t.Requirements() {
		fmt.Fprintf(hash, "%s %s %s\n", req.Symbol.QualifiedName(), req.MinVersion, req.TypingAlias)
	}
	t.fingerprint = hex.EncodeToString(hash.Sum(nil))
	return t, nil
}

func MustNew(reqs ...Requirement) *Table {
	t, err := New(reqs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns false for symbols with no known version gate.
func (t *Table) Lookup(sym Symbol) (Requirement, bool) {
	req, ok := t.entries[sym]
	return req, ok
}

// Fingerprint identifies the table's contents: tables with the same
// entries have the same fingerprint.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Requirements returns every entry, sorted by qualified name.
func (t *Table) Requirements() []Requirement {
	out := make([]Requirement, 0, len(t.entries))
	for _, req := range t.entries {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol.QualifiedName() < out[j].Symbol.QualifiedName()
	})
	return out
}

func (t *Table) Format() pp.Doc {
	reqs := t.Requirements()
	docs := make([]pp.Doc, len(reqs))
	for idx, req := range reqs {
		docs[idx] = req.Format()
	}
	return pp.Block("VersionTable{", docs, "}")
}
