package pysubscript

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vilterp/pysubscript/pkg/diag"
	"github.com/vilterp/pysubscript/pkg/pyversion"
	"github.com/vilterp/pysubscript/pkg/subscript"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

func newTestChecker(t *testing.T, target pyversion.Version, emitter diag.Emitter) *Checker {
	cfg := DefaultConfig()
	cfg.PythonVersion = target
	checker, err := NewChecker(cfg, versiontable.Builtin(), emitter)
	require.NoError(t, err)
	return checker
}

func readTestdata(t *testing.T, name string) []byte {
	src, err := ioutil.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return src
}

// The fixture repeats nine annotations, first direct then quoted.
func expectedFixtureDiags(filename string) []diag.Diagnostic {
	classes := []struct {
		name      string
		qualified string
		alias     string
	}{
		{"Queue", "queue.Queue", ""},
		{"OrderedDict", "collections.OrderedDict", "typing.OrderedDict"},
		{"Future", "asyncio.Future", ""},
		{"list", "builtins.list", "typing.List"},
		{"dict", "builtins.dict", "typing.Dict"},
		{"set", "builtins.set", "typing.Set"},
		{"deque", "collections.deque", "typing.Deque"},
		{"frozenset", "builtins.frozenset", "typing.FrozenSet"},
		{"PathLike", "os.PathLike", ""},
	}
	var out []diag.Diagnostic
	for block, firstLine := range []int{11, 21} {
		quoted := block == 1
		for idx, class := range classes {
			column := 5
			if quoted {
				column = 6
			}
			out = append(out, diag.Diagnostic{
				Span: diag.Span{
					Filename: filename,
					Line:     firstLine + idx,
					Column:   column,
					Length:   len(class.name),
				},
				Symbol:        class.name,
				QualifiedName: class.qualified,
				Required:      pyversion.V3_9,
				Target:        pyversion.V3_8,
				Quoted:        quoted,
				TypingAlias:   class.alias,
			})
		}
	}
	return out
}

func TestFixtureOldTarget(t *testing.T) {
	collector := diag.NewCollector()
	checker := newTestChecker(t, pyversion.V3_8, collector)
	defer checker.Close()

	diags, err := checker.CheckSource(context.Background(), "subscript1.py", readTestdata(t, "subscript1.py"))
	require.NoError(t, err)
	require.Len(t, diags, 18)

	if diff := cmp.Diff(expectedFixtureDiags("subscript1.py"), diags); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	require.Equal(t, diags, collector.Diagnostics())
}

func TestFixtureNewTargets(t *testing.T) {
	for _, target := range []pyversion.Version{pyversion.V3_9, pyversion.V3_10, pyversion.V3_13} {
		checker := newTestChecker(t, target, nil)
		diags, err := checker.CheckSource(context.Background(), "subscript1.py", readTestdata(t, "subscript1.py"))
		require.NoError(t, err)
		require.Empty(t, diags, "target %s", target)
	}
}

func TestQuotedAndDirectAgree(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	sites, err := checker.Evaluate(context.Background(), "subscript1.py", string(readTestdata(t, "subscript1.py")))
	require.NoError(t, err)
	require.Len(t, sites, 18)

	direct, quoted := sites[:9], sites[9:]
	for idx := range direct {
		require.Equal(t, subscript.Direct, direct[idx].Site.Form)
		require.Equal(t, subscript.Quoted, quoted[idx].Site.Form)
		require.Equal(t, direct[idx].Site.Symbol, quoted[idx].Site.Symbol)
		require.Equal(t, direct[idx].Verdict, quoted[idx].Verdict)
	}
}

func TestTypingAliasesAndNesting(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	src := readTestdata(t, "typing_aliases.py")

	sites, err := checker.Evaluate(context.Background(), "typing_aliases.py", string(src))
	require.NoError(t, err)
	require.Len(t, sites, 9)

	diags, err := checker.CheckSource(context.Background(), "typing_aliases.py", src)
	require.NoError(t, err)

	type brief struct {
		Line, Column int
		Qualified    string
		Quoted       bool
	}
	var actual []brief
	for _, d := range diags {
		actual = append(actual, brief{d.Span.Line, d.Span.Column, d.QualifiedName, d.Quoted})
	}
	expected := []brief{
		{8, 4, "collections.deque", false},
		{9, 5, "queue.Queue", true},
		{10, 4, "builtins.dict", false},
		{10, 15, "builtins.list", true},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}

func TestParseErrorReported(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	_, err := checker.CheckSource(context.Background(), "broken.py", readTestdata(t, "broken.py"))
	require.Error(t, err)
	_, ok := err.(*parseError)
	require.True(t, ok, "expected *parseError; got %T", err)
}

func TestBadForwardReferenceSkipped(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	diags, err := checker.CheckSource(context.Background(), "fwd.py", []byte(`a: "list[" = []
b: "list[int]" = []
`))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, 2, diags[0].Span.Line)
}

func TestMultilineForwardReference(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	diags, err := checker.CheckSource(context.Background(), "ml.py", []byte(`x: """dict[str,
    set[int]]"""
`))
	require.NoError(t, err)
	require.Len(t, diags, 2)
	require.Equal(t, diag.Span{Filename: "ml.py", Line: 1, Column: 7, Length: 4}, diags[0].Span)
	require.Equal(t, diag.Span{Filename: "ml.py", Line: 2, Column: 5, Length: 3}, diags[1].Span)
}

func TestWithTarget(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	newer := checker.WithTarget(pyversion.V3_9)
	require.Equal(t, pyversion.V3_8, checker.Target())
	require.Equal(t, pyversion.V3_9, newer.Target())

	diags, err := newer.CheckSource(context.Background(), "a.py", []byte("x: list[int] = []\n"))
	require.NoError(t, err)
	require.Empty(t, diags)
}

func TestCheckFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "pysubscript")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var paths []string
	for _, name := range []string{"a.py", "b.py", "c.py"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, readTestdata(t, "subscript1.py"), 0644))
		paths = append(paths, path)
	}

	collector := diag.NewCollector()
	checker := newTestChecker(t, pyversion.V3_8, collector)
	checker.workers = 2

	diags, err := checker.CheckFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, diags, 54)
	require.Equal(t, paths[0], diags[0].Span.Filename)
	require.Equal(t, paths[2], diags[53].Span.Filename)
	require.Equal(t, 54, collector.Len())

	_, err = checker.CheckFiles(context.Background(), append(paths, filepath.Join(dir, "missing.py")))
	require.Error(t, err)
}

func TestCheckFilesCanceled(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := checker.CheckFiles(ctx, []string{filepath.Join("testdata", "subscript1.py")})
	require.Error(t, err)
}

func TestEscapedForwardReferences(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	ctx := context.Background()

	direct, err := checker.Evaluate(ctx, "a.py", `x: dict[str, "int"] = {}`)
	require.NoError(t, err)
	escaped, err := checker.Evaluate(ctx, "b.py", `x: "dict[str, \"int\"]" = {}`)
	require.NoError(t, err)
	require.Len(t, escaped, len(direct))
	for idx := range direct {
		require.Equal(t, direct[idx].Site.Symbol, escaped[idx].Site.Symbol)
		require.Equal(t, direct[idx].Verdict, escaped[idx].Verdict)
	}

	diags, err := checker.CheckSource(ctx, "esc.py", []byte(`a: "dict[str, \"list[int]\"]" = {}
b: 'set[\'int\']'
c: r"deque[int]"
d: u"frozenset[int]"
e: b"list[int]"
`))
	require.NoError(t, err)
	type brief struct {
		Line, Column int
		Qualified    string
	}
	var actual []brief
	for _, d := range diags {
		actual = append(actual, brief{d.Span.Line, d.Span.Column, d.QualifiedName})
		require.True(t, d.Quoted)
	}
	expected := []brief{
		{1, 5, "builtins.dict"},
		{1, 17, "builtins.list"},
		{2, 5, "builtins.set"},
		{3, 6, "collections.deque"},
		{4, 6, "builtins.frozenset"},
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}

func TestAssignedValuesSkipped(t *testing.T) {
	checker := newTestChecker(t, pyversion.V3_8, nil)
	diags, err := checker.CheckSource(context.Background(), "values.py", []byte(`import collections
x: tuple[int, int] = (1, 2)
y: int = -1
z: list[int] = [n * 2 for n in range(3)]
w: collections.defaultdict[str, int] = collections.defaultdict(
    int,
)
v: dict[str, int] = {k: v for k, v in pairs}  # trailing
`))
	require.NoError(t, err)
	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Span.Line)
	}
	require.Equal(t, []int{2, 4, 5, 8}, lines)
}
