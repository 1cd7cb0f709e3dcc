package pysubscript

import (
	"context"
	"io/ioutil"
	"sync"
	"time"

	"github.com/alecthomas/participle/lexer"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vilterp/pysubscript/pkg/diag"
	clog "github.com/vilterp/pysubscript/pkg/log"
	"github.com/vilterp/pysubscript/pkg/parse"
	"github.com/vilterp/pysubscript/pkg/pyversion"
	"github.com/vilterp/pysubscript/pkg/subscript"
	"github.com/vilterp/pysubscript/pkg/versiontable"
	"golang.org/x/sync/errgroup"
)

// Checker finds subscripts in annotations that would raise at runtime
// on its target version. It is safe for concurrent use.
type Checker struct {
	evaluator *subscript.Evaluator
	target    pyversion.Version
	emitter   diag.Emitter
	workers   int

	metrics *metrics
	cache   *resultCache
}

// NewChecker opens the result cache if cfg names one. A nil emitter
// discards diagnostics; they are still returned from each check.
func NewChecker(cfg Config, table *versiontable.Table, emitter diag.Emitter) (*Checker, error) {
	if emitter == nil {
		emitter = diag.Discard
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	checker := &Checker{
		evaluator: subscript.NewEvaluator(table),
		target:    cfg.PythonVersion,
		emitter:   emitter,
		workers:   workers,
		metrics:   newMetrics(),
	}
	if checker.target.IsZero() {
		checker.target = pyversion.Latest
	}
	if cfg.CacheFile != "" {
		cache, err := openResultCache(cfg.CacheFile)
		if err != nil {
			return nil, err
		}
		checker.cache = cache
	}
	return checker, nil
}

func (c *Checker) Target() pyversion.Version {
	return c.target
}

func (c *Checker) Table() *versiontable.Table {
	return c.evaluator.Table()
}

// WithTarget returns a checker sharing everything but the target.
func (c *Checker) WithTarget(target pyversion.Version) *Checker {
	clone := *c
	clone.target = target
	return &clone
}

func (c *Checker) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// EvaluatedSite is a subscript found in a file with its verdict.
type EvaluatedSite struct {
	Site    subscript.Site
	Verdict subscript.Verdict
}

// Evaluate returns every subscript site in src, legal or not, in
// source order. Nothing is emitted.
func (c *Checker) Evaluate(ctx context.Context, filename string, src string) ([]EvaluatedSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	module, err := parse.ParseModule(filename, src)
	if err != nil {
		c.metrics.parseErrors.Inc()
		return nil, &parseError{Filename: filename, error: err}
	}
	fc := &fileCheck{
		checker:  c,
		filename: filename,
		binder:   newBinder(),
		ctx:      context.WithValue(ctx, clog.FileKey, filename),
	}
	fc.binder.bindModule(module)
	fc.checkModule(module)
	return fc.sites, nil
}

// CheckSource returns the sorted diagnostics for one file and forwards
// them to the emitter.
func (c *Checker) CheckSource(ctx context.Context, filename string, src []byte) ([]diag.Diagnostic, error) {
	start := time.Now()
	defer func() {
		c.metrics.checkLatency.Observe(float64(time.Since(start).Nanoseconds()))
	}()
	c.metrics.filesChecked.Inc()

	var key []byte
	if c.cache != nil {
		key = cacheKey(c.Table(), filename, src, c.target)
		cached, ok, err := c.cache.get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			c.metrics.cacheHits.Inc()
			c.emit(cached)
			return cached, nil
		}
	}

	sites, err := c.Evaluate(ctx, filename, string(src))
	if err != nil {
		return nil, err
	}
	var diags []diag.Diagnostic
	for _, es := range sites {
		if d, ok := es.Verdict.Diagnostic(es.Site); ok {
			diags = append(diags, d)
		}
	}
	diag.Sort(diags)

	if c.cache != nil {
		if err := c.cache.put(key, diags); err != nil {
			return nil, err
		}
	}
	c.emit(diags)
	return diags, nil
}

// CheckFiles checks paths in parallel, at most Config.Workers at a time.
// The first read or parse error stops the run.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) ([]diag.Diagnostic, error) {
	ctx = context.WithValue(ctx, clog.RunIDKey, uuid.New().String())
	clog.Printf(clog.FromContext(ctx), "checking %d files against Python %s", len(paths), c.target)

	var mu sync.Mutex
	var all []diag.Diagnostic

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := ioutil.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			diags, err := c.CheckSource(gctx, path, src)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, diags...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	diag.Sort(all)
	clog.Printf(clog.FromContext(ctx), "found %d illegal subscripts", len(all))
	return all, nil
}

func (c *Checker) emit(diags []diag.Diagnostic) {
	for _, d := range diags {
		c.emitter.Emit(d)
	}
}

// fileCheck walks the annotations of one module.
type fileCheck struct {
	checker  *Checker
	filename string
	binder   *binder
	sites    []EvaluatedSite

	ctx context.Context
}

func (fc *fileCheck) Ctx() context.Context {
	return fc.ctx
}

// spanFunc maps a parser position to a span in the checked file.
type spanFunc func(pos lexer.Position, length int) diag.Span

func (fc *fileCheck) directSpan(pos lexer.Position, length int) diag.Span {
	return diag.Span{
		Filename: fc.filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Length:   length,
	}
}

func (fc *fileCheck) checkModule(module *parse.Module) {
	for _, stmt := range module.Statements {
		if stmt.AnnAssign == nil {
			continue
		}
		fc.visitTypeExpr(stmt.AnnAssign.Annotation, subscript.Direct, fc.directSpan)
	}
}

func (fc *fileCheck) visitTypeExpr(expr *parse.TypeExpr, form subscript.Form, span spanFunc) {
	for _, atom := range expr.Alternatives {
		switch {
		case atom.Quoted != nil:
			fc.visitForwardRef(atom, span)
		case atom.List != nil:
			for _, item := range atom.List.Items {
				fc.visitTypeExpr(item, form, span)
			}
		case atom.Generic != nil:
			generic := atom.Generic
			if generic.Subscript == nil {
				continue
			}
			fc.evaluate(subscript.Site{
				Symbol: fc.binder.resolve(generic.Name),
				Form:   form,
				Span:   span(generic.Name.Pos, len(generic.Name.String())),
			})
			for _, arg := range generic.Subscript.Args {
				fc.visitTypeExpr(arg, form, span)
			}
		}
	}
}

// visitForwardRef parses a string annotation and checks it as a type
// expression, with positions mapped back into the enclosing source.
func (fc *fileCheck) visitForwardRef(atom *parse.TypeAtom, outer spanFunc) {
	lit, err := parse.DecodeString(*atom.Quoted)
	if err == nil && !lit.IsText() {
		err = errors.Errorf("%s is not a str literal", *atom.Quoted)
	}
	var expr *parse.TypeExpr
	if err == nil {
		expr, err = parse.ParseTypeExpr(lit.Value)
	}
	if err != nil {
		fc.checker.metrics.parseErrors.Inc()
		clog.Println(fc, "skipping forward reference:", err)
		return
	}
	start := atom.Pos
	inner := func(pos lexer.Position, length int) diag.Span {
		return outer(lit.Position(start, pos), length)
	}
	fc.visitTypeExpr(expr, subscript.Quoted, inner)
}

func (fc *fileCheck) evaluate(site subscript.Site) {
	verdict := fc.checker.evaluator.Evaluate(site, fc.checker.target)
	fc.checker.metrics.sitesEvaluated.WithLabelValues(site.Form.String()).Inc()
	if !verdict.IsLegal() {
		fc.checker.metrics.illegalVerdicts.WithLabelValues(site.Form.String()).Inc()
	}
	fc.sites = append(fc.sites, EvaluatedSite{Site: site, Verdict: verdict})
}
