package diag

import (
	"fmt"
	"sort"

	pp "github.com/vilterp/pysubscript/pkg/prettyprint"
	"github.com/vilterp/pysubscript/pkg/pyversion"
)

// Span locates the base of a subscript. Line and Column are 1-based;
// Length is in bytes.
type Span struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Length   int    `json:"length"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
}

// Diagnostic reports a subscript that fails at runtime on the target
// version.
type Diagnostic struct {
	Span          Span              `json:"span"`
	Symbol        string            `json:"symbol"`
	QualifiedName string            `json:"qualifiedName"`
	Required      pyversion.Version `json:"requiredVersion"`
	Target        pyversion.Version `json:"targetVersion"`
	Quoted        bool              `json:"quoted"`
	TypingAlias   string            `json:"typingAlias,omitempty"`
}

func (d Diagnostic) Message() string {
	return fmt.Sprintf(
		`Subscript for class "%s" will generate runtime exception; Python %s or newer required (target is %s)`,
		d.Symbol, d.Required, d.Target,
	)
}

func (d Diagnostic) Format() pp.Doc {
	doc := pp.Textf("%s: error: %s", d.Span, d.Message())
	if d.TypingAlias == "" {
		return doc
	}
	return pp.Seq(
		doc, pp.Newline,
		pp.Nest(2, pp.Textf(`hint: use "%s" instead`, d.TypingAlias)),
	)
}

func (d Diagnostic) String() string {
	return d.Format().String()
}

// Sort orders diagnostics by file, then position.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Span, diags[j].Span
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
