package prettyprint

import (
	"fmt"
	"strings"
)

// Based on http://homepages.inf.ed.ac.uk/wadler/papers/prettier/prettier.pdf,
// without the group/choice layouts: every Newline breaks.

type Doc interface {
	// String renders the doc.
	String() string
	// Debug returns a representation of the doc tree.
	Debug() string

	render(w *writer)
}

// writer tracks indentation so that nested docs only indent lines
// they start.
type writer struct {
	buf         strings.Builder
	indent      int
	atLineStart bool
}

func (w *writer) text(s string) {
	if s == "" {
		return
	}
	if w.atLineStart {
		w.buf.WriteString(strings.Repeat(" ", w.indent))
		w.atLineStart = false
	}
	w.buf.WriteString(s)
}

func (w *writer) newline() {
	w.buf.WriteByte('\n')
	w.atLineStart = true
}

func render(d Doc) string {
	w := &writer{atLineStart: true}
	d.render(w)
	return w.buf.String()
}

// Text

type text struct {
	str string
}

var _ Doc = &text{}

// Text makes a doc out of s. Embedded newlines are honored and
// indented like Newline.
func Text(s string) Doc {
	return &text{str: s}
}

func Textf(format string, args ...interface{}) Doc {
	return Text(fmt.Sprintf(format, args...))
}

func (t *text) render(w *writer) {
	for idx, line := range strings.Split(t.str, "\n") {
		if idx > 0 {
			w.newline()
		}
		w.text(line)
	}
}

func (t *text) String() string { return render(t) }

func (t *text) Debug() string {
	return fmt.Sprintf("Text(%#v)", t.str)
}

// Nest

type nest struct {
	doc Doc
	by  int
}

func Nest(by int, d Doc) Doc {
	return &nest{doc: d, by: by}
}

func (n *nest) render(w *writer) {
	w.indent += n.by
	n.doc.render(w)
	w.indent -= n.by
}

func (n *nest) String() string { return render(n) }

func (n *nest) Debug() string {
	return fmt.Sprintf("Nest(%d, %s)", n.by, n.doc.Debug())
}

// Seq

type seq struct {
	docs []Doc
}

func Seq(docs ...Doc) Doc {
	return &seq{docs: docs}
}

func (s *seq) render(w *writer) {
	for _, doc := range s.docs {
		doc.render(w)
	}
}

func (s *seq) String() string { return render(s) }

func (s *seq) Debug() string {
	parts := make([]string, len(s.docs))
	for idx, doc := range s.docs {
		parts[idx] = doc.Debug()
	}
	return fmt.Sprintf("Seq(%s)", strings.Join(parts, ", "))
}

// Newline

type newline struct{}

var Newline Doc = newline{}

func (newline) render(w *writer) { w.newline() }

func (newline) String() string { return "\n" }

func (newline) Debug() string { return "Newline" }

// Empty

type empty struct{}

var Empty Doc = empty{}

func (empty) render(*writer) {}

func (empty) String() string { return "" }

func (empty) Debug() string { return "Empty" }

// Combinators

func Join(docs []Doc, sep Doc) Doc {
	out := make([]Doc, 0, 2*len(docs))
	for idx, doc := range docs {
		if idx > 0 {
			out = append(out, sep)
		}
		out = append(out, doc)
	}
	return Seq(out...)
}

var Comma = Text(",")

var CommaNewline = Seq(Comma, Newline)

// Block renders open, then docs one per line nested by two, then close.
func Block(open string, docs []Doc, close string) Doc {
	if len(docs) == 0 {
		return Text(open + close)
	}
	return Seq(
		Text(open), Newline,
		Nest(2, Join(docs, CommaNewline)),
		CommaNewline,
		Text(close),
	)
}
