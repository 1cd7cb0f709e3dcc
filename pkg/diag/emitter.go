package diag

import (
	"fmt"
	"io"
	"sync"
)

// Emitter receives every diagnostic a check produces. Implementations
// must be safe for concurrent use; files are checked in parallel.
type Emitter interface {
	Emit(Diagnostic)
}

type EmitterFunc func(Diagnostic)

func (f EmitterFunc) Emit(d Diagnostic) { f(d) }

// Discard drops everything.
var Discard Emitter = EmitterFunc(func(Diagnostic) {})

type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

var _ Emitter = &Collector{}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Emit(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a sorted copy of what has been collected.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	c.mu.Unlock()
	Sort(out)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

type textEmitter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextEmitter writes each diagnostic, rendered, on its own line(s).
func NewTextEmitter(w io.Writer) Emitter {
	return &textEmitter{w: w}
}

func (e *textEmitter) Emit(d Diagnostic) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintln(e.w, d.String())
}

// Tee fans a diagnostic out to several emitters, in order.
func Tee(emitters ...Emitter) Emitter {
	return EmitterFunc(func(d Diagnostic) {
		for _, e := range emitters {
			e.Emit(d)
		}
	})
}
