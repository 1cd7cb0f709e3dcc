package subscript

import (
	"github.com/vilterp/pysubscript/pkg/diag"
	pp "github.com/vilterp/pysubscript/pkg/prettyprint"
	"github.com/vilterp/pysubscript/pkg/pyversion"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

// Form is how a subscript was written in source.
type Form int

const (
	// Direct is an ordinary expression: Queue[int].
	Direct Form = iota
	// Quoted is a forward reference inside a string literal: "Queue[int]".
	Quoted
)

func (f Form) String() string {
	switch f {
	case Direct:
		return "direct"
	case Quoted:
		return "quoted"
	default:
		return "unknown"
	}
}

// Site is one occurrence of Symbol[...] in source.
type Site struct {
	Symbol versiontable.Symbol
	Form   Form
	Span   diag.Span
}

type Reason struct {
	Symbol      versiontable.Symbol
	Required    pyversion.Version
	Target      pyversion.Version
	TypingAlias string
}

// SymbolName is the unqualified class name, as users write it.
func (r *Reason) SymbolName() string {
	return r.Symbol.Name
}

// Verdict is Legal when Reason is nil, IllegalForTarget otherwise.
type Verdict struct {
	Reason *Reason
}

var Legal = Verdict{}

func IllegalForTarget(reason *Reason) Verdict {
	return Verdict{Reason: reason}
}

func (v Verdict) IsLegal() bool {
	return v.Reason == nil
}

func (v Verdict) Format() pp.Doc {
	if v.Reason == nil {
		return pp.Text("legal")
	}
	return pp.Textf(
		`illegal: "%s" requires %s (target %s)`,
		v.Reason.SymbolName(), v.Reason.Required, v.Reason.Target,
	)
}

// Diagnostic converts an illegal verdict for site into a diagnostic.
// The boolean is false for legal verdicts.
func (v Verdict) Diagnostic(site Site) (diag.Diagnostic, bool) {
	if v.Reason == nil {
		return diag.Diagnostic{}, false
	}
	return diag.Diagnostic{
		Span:          site.Span,
		Symbol:        v.Reason.SymbolName(),
		QualifiedName: v.Reason.Symbol.QualifiedName(),
		Required:      v.Reason.Required,
		Target:        v.Reason.Target,
		Quoted:        site.Form == Quoted,
		TypingAlias:   v.Reason.TypingAlias,
	}, true
}

// Evaluator decides whether subscripts are legal on a target version.
// It holds no mutable state.
type Evaluator struct {
	table *versiontable.Table
}

func NewEvaluator(table *versiontable.Table) *Evaluator {
	return &Evaluator{table: table}
}

func (e *Evaluator) Table() *versiontable.Table {
	return e.table
}

// Evaluate ignores site.Form: a quoted annotation is still evaluated as
// a type expression, only later.
func (e *Evaluator) Evaluate(site Site, target pyversion.Version) Verdict {
	req, ok := e.table.Lookup(site.Symbol)
	if !ok {
		return Legal
	}
	if target.AtLeast(req.MinVersion) {
		return Legal
	}
	return IllegalForTarget(&Reason{
		Symbol:      site.Symbol,
		Required:    req.MinVersion,
		Target:      target,
		TypingAlias: req.TypingAlias,
	})
}
