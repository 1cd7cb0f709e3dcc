package parse

import (
	"testing"

	"github.com/alecthomas/participle/lexer"
	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	src := `"""Module docstring."""

# comment
from queue import Queue
from collections import OrderedDict as OD, deque
import os.path, collections.abc as cabc

a: Queue[int] = Queue()
b: "OD[str, int]" = {}
c: dict[str, list[int]] = {"x": [1, 2]}
d: os.PathLike[str]
e: Callable[[int, str], None] | None = None
`
	module, err := ParseModule("t.py", src)
	require.NoError(t, err)
	require.Len(t, module.Statements, 9)

	require.NotNil(t, module.Statements[0].Docstring)

	from := module.Statements[1].FromImport
	require.NotNil(t, from)
	require.Equal(t, "queue", from.Module.String())
	require.Equal(t, "Queue", from.Names[0].LocalName())

	from2 := module.Statements[2].FromImport
	require.Equal(t, "collections", from2.Module.String())
	require.Equal(t, "OrderedDict", from2.Names[0].Name)
	require.Equal(t, "OD", from2.Names[0].LocalName())
	require.Equal(t, "deque", from2.Names[1].LocalName())

	imp := module.Statements[3].Import
	require.NotNil(t, imp)
	require.Equal(t, "os.path", imp.Modules[0].Name.String())
	require.Equal(t, "cabc", imp.Modules[1].Alias)

	a := module.Statements[4].AnnAssign
	require.Equal(t, "a", a.Target)
	gen := a.Annotation.Alternatives[0].Generic
	require.Equal(t, "Queue", gen.Name.String())
	require.NotNil(t, gen.Subscript)
	require.Equal(t, 8, gen.Name.Pos.Line)
	require.Equal(t, 4, gen.Name.Pos.Column)
	require.NotNil(t, a.Value)

	b := module.Statements[5].AnnAssign
	require.Equal(t, `"OD[str, int]"`, *b.Annotation.Alternatives[0].Quoted)

	c := module.Statements[6].AnnAssign
	outer := c.Annotation.Alternatives[0].Generic
	require.Len(t, outer.Subscript.Args, 2)
	inner := outer.Subscript.Args[1].Alternatives[0].Generic
	require.Equal(t, "list", inner.Name.String())

	d := module.Statements[7].AnnAssign
	require.Equal(t, "os.PathLike", d.Annotation.Alternatives[0].Generic.Name.String())
	require.Nil(t, d.Value)

	e := module.Statements[8].AnnAssign
	require.Len(t, e.Annotation.Alternatives, 2)
	callable := e.Annotation.Alternatives[0].Generic
	require.NotNil(t, callable.Subscript.Args[0].Alternatives[0].List)
}

func TestParseErrors(t *testing.T) {
	testCases := []string{
		"def f(): pass",
		"x: = 1",
		"from import x",
		"x: list[",
	}
	for idx, src := range testCases {
		_, err := ParseModule("bad.py", src)
		require.Error(t, err, "case %d", idx)
		require.Contains(t, err.Error(), "parsing bad.py", "case %d", idx)
	}
}

func TestParseTypeExpr(t *testing.T) {
	expr, err := ParseTypeExpr("deque[int]")
	require.NoError(t, err)
	gen := expr.Alternatives[0].Generic
	require.Equal(t, "deque", gen.Name.String())
	require.Equal(t, 1, gen.Name.Pos.Line)
	require.Equal(t, 1, gen.Name.Pos.Column)

	_, err = ParseTypeExpr("deque[")
	require.Error(t, err)
}

func TestParseValues(t *testing.T) {
	testCases := []string{
		"x: tuple[int, int] = (1, 2)",
		"x: int = -1",
		"x: float = 1.5e-3 * (2 + 3) // 4",
		"x: Callable[[int], int] = lambda n: n + 1",
		"x: bool = a if b else not c",
		"x: list[int] = [i for i in range(10) if i % 2]",
		"x: dict[str, int] = {\n    \"a\": 1,\n    \"b\": 2,\n}",
		"x: str = f\"{name!r}\"; y = 2",
		"x: bytes = b\"\\x00\"",
		"x: int = a.b[0](c, *d, **e)",
		"x: int = 1 \\\n    + 2",
	}
	for idx, src := range testCases {
		module, err := ParseModule("values.py", src)
		require.NoError(t, err, "case %d: %s", idx, src)
		require.Len(t, module.Statements, 1, "case %d", idx)
		require.NotNil(t, module.Statements[0].AnnAssign.Value, "case %d", idx)
	}

	module, err := ParseModule("values.py", "a: int = (1,\n  2)\nb: list[int] = []\n")
	require.NoError(t, err)
	require.Len(t, module.Statements, 2)
	require.Equal(t, []string{"(", "1", ",", "2", ")"}, module.Statements[0].AnnAssign.Value.Tokens)
	require.Equal(t, 3, module.Statements[1].AnnAssign.Pos.Line)
}

func TestParseLogicalLines(t *testing.T) {
	src := `from typing import (
    Dict,  # mapping
    List,
)


x: Dict[
    str,
    List[int],
]
y: int`
	module, err := ParseModule("lines.py", src)
	require.NoError(t, err)
	require.Len(t, module.Statements, 3)
	require.Len(t, module.Statements[0].FromImport.Names, 2)
	require.Len(t, module.Statements[1].AnnAssign.Annotation.Alternatives[0].Generic.Subscript.Args, 2)
	require.Nil(t, module.Statements[2].AnnAssign.Value)

	// Two statements on one physical line are not split.
	_, err = ParseModule("lines.py", "x: int y: int")
	require.Error(t, err)
}

func TestParseStringPrefixes(t *testing.T) {
	module, err := ParseModule("prefix.py", `a: u"list[int]"
b: r'list[int]'
c: b"list[int]"
`)
	require.NoError(t, err)
	require.Len(t, module.Statements, 3)
	require.Equal(t, `u"list[int]"`, *module.Statements[0].AnnAssign.Annotation.Alternatives[0].Quoted)
	require.Equal(t, `r'list[int]'`, *module.Statements[1].AnnAssign.Annotation.Alternatives[0].Quoted)
}

func TestParseMultilineTypeExpr(t *testing.T) {
	expr, err := ParseTypeExpr("\ndict[str,\n     int]\n")
	require.NoError(t, err)
	gen := expr.Alternatives[0].Generic
	require.Equal(t, "dict", gen.Name.String())
	require.Equal(t, 2, gen.Name.Pos.Line)
}

func TestDecodeString(t *testing.T) {
	testCases := []struct {
		in     string
		value  string
		prefix string
		isText bool
	}{
		{`"list[int]"`, "list[int]", "", true},
		{`'list[int]'`, "list[int]", "", true},
		{`"""list[int]"""`, "list[int]", "", true},
		{`''`, "", "", true},
		{`"dict[str, \"int\"]"`, `dict[str, "int"]`, "", true},
		{`'dict[str, \'int\']'`, `dict[str, 'int']`, "", true},
		{`"""dict[str, \"int\"]"""`, `dict[str, "int"]`, "", true},
		{`"a\tb\x41\u00e9"`, "a\tbA\u00e9", "", true},
		{`"keep \d"`, `keep \d`, "", true},
		{`r"raw \"x\""`, `raw \"x\"`, "r", true},
		{`u"list[int]"`, "list[int]", "u", true},
		{`b"list[int]"`, "list[int]", "b", false},
		{`rb'x'`, "x", "rb", false},
		{`f"{x}"`, "{x}", "f", false},
		{"\"\"\"a\\\nb\"\"\"", "ab", "", true},
	}
	for idx, testCase := range testCases {
		lit, err := DecodeString(testCase.in)
		require.NoError(t, err, "case %d", idx)
		require.Equal(t, testCase.value, lit.Value, "case %d", idx)
		require.Equal(t, testCase.prefix, lit.Prefix, "case %d", idx)
		require.Equal(t, testCase.isText, lit.IsText(), "case %d", idx)
	}

	_, err := DecodeString("list")
	require.Error(t, err)
}

func TestLiteralPosition(t *testing.T) {
	start := lexer.Position{Offset: 3, Line: 1, Column: 4}

	// x: "dict[str, \"list[int]\"]"
	lit, err := DecodeString(`"dict[str, \"list[int]\"]"`)
	require.NoError(t, err)
	require.Equal(t, lexer.Position{Offset: 4, Line: 1, Column: 5},
		lit.Position(start, lexer.Position{Offset: 0, Line: 1, Column: 1}))
	require.Equal(t, lexer.Position{Offset: 16, Line: 1, Column: 17},
		lit.Position(start, lexer.Position{Offset: 11, Line: 1, Column: 12}))

	// x: r"list[int]"
	lit, err = DecodeString(`r"list[int]"`)
	require.NoError(t, err)
	require.Equal(t, lexer.Position{Offset: 5, Line: 1, Column: 6},
		lit.Position(start, lexer.Position{Offset: 0, Line: 1, Column: 1}))

	// x: """dict[str,
	//     set[int]]"""
	lit, err = DecodeString("\"\"\"dict[str,\n    set[int]]\"\"\"")
	require.NoError(t, err)
	require.Equal(t, lexer.Position{Offset: 20, Line: 2, Column: 5},
		lit.Position(start, lexer.Position{Offset: 14, Line: 2, Column: 5}))
}
