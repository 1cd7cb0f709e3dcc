package parse

import (
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/pkg/errors"
)

// The grammar covers what annotation checking needs: imports, annotated
// assignments and docstrings, one per logical line. Anything else is a
// parse error.

var (
	pyLexer = lexer.Must(
		lexer.Regexp(`([ \t\f\r]+|\\\r?\n)` +
			`|(?P<Comment>#[^\n]*)` +
			`|(?P<Newline>\n)` +
			`|(?P<String>(?:[rR][bBfF]?|[bBfF][rR]?|[uU])?(?:"""[\s\S]*?"""|'''[\s\S]*?'''|"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'))` +
			`|(?P<Ellipsis>\.\.\.)` +
			`|(?P<Number>\d[\d_]*(?:\.[\d_]*)?(?:[eE][+\-]?\d+)?[jJ]?)` +
			`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_]*)` +
			`|(?P<Punct>[\[\](){},.:;=|*\-+/%@<>!~&^])`,
		),
	)
	moduleParser = participle.MustBuild(
		&Module{},
		participle.Lexer(&logicalLines{Definition: pyLexer, keepNewlines: true}),
	)
	typeExprParser = participle.MustBuild(
		&TypeExpr{},
		participle.Lexer(&logicalLines{Definition: pyLexer}),
	)
)

type Module struct {
	Statements []*Statement `{ @@ }`
}

type Statement struct {
	Pos lexer.Position

	FromImport *FromImport `( @@`
	Import     *Import     `| @@`
	AnnAssign  *AnnAssign  `| @@`
	Docstring  *string     `| @String ) Newline`
}

type FromImport struct {
	Module *DottedName    `"from" @@`
	Names  []*ImportedName `"import" ( "(" @@ { "," @@ } ")" | @@ { "," @@ } )`
}

type ImportedName struct {
	Pos lexer.Position

	Name  string `@Ident`
	Alias string `[ "as" @Ident ]`
}

// LocalName is the name the import binds in the module.
func (in *ImportedName) LocalName() string {
	if in.Alias != "" {
		return in.Alias
	}
	return in.Name
}

type Import struct {
	Modules []*ImportedModule `"import" @@ { "," @@ }`
}

type ImportedModule struct {
	Name  *DottedName `@@`
	Alias string      `[ "as" @Ident ]`
}

type DottedName struct {
	Pos lexer.Position

	Parts []string `@Ident { "." @Ident }`
}

func (dn *DottedName) String() string {
	return strings.Join(dn.Parts, ".")
}

type AnnAssign struct {
	Pos lexer.Position

	Target     string    `@Ident ":"`
	Annotation *TypeExpr `@@`
	Value      *Value    `[ "=" @@ ]`
}

// Type expressions

// TypeExpr is a union of one or more atoms: int | None.
type TypeExpr struct {
	Pos lexer.Position

	Alternatives []*TypeAtom `@@ { "|" @@ }`
}

type TypeAtom struct {
	Pos lexer.Position

	// Quoted is a forward reference, quotes included.
	Quoted   *string   `  @String`
	Ellipsis bool      `| @Ellipsis`
	Number   *string   `| @Number`
	List     *TypeList `| @@`
	Generic  *Generic  `| @@`
}

// TypeList is a bracketed parameter list, as in Callable[[int], str].
type TypeList struct {
	Items []*TypeExpr `"[" [ @@ { "," @@ } ] "]"`
}

// Generic is a possibly-subscripted name: Queue or Queue[int].
type Generic struct {
	Pos lexer.Position

	Name      *DottedName `@@`
	Subscript *Subscript  `[ @@ ]`
}

type Subscript struct {
	Args []*TypeExpr `"[" @@ { "," @@ } "]"`
}

// Value is the right-hand side of an assignment, kept as raw tokens up
// to the end of the logical line.
type Value struct {
	Tokens []string `@( Ident | String | Number | Ellipsis | Punct ) { @( Ident | String | Number | Ellipsis | Punct ) }`
}

// ParseModule parses a whole source file.
func ParseModule(filename string, src string) (*Module, error) {
	module := &Module{}
	if err := moduleParser.ParseString(src, module); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	return module, nil
}

// ParseTypeExpr parses the contents of a forward reference.
func ParseTypeExpr(src string) (*TypeExpr, error) {
	expr := &TypeExpr{}
	if err := typeExprParser.ParseString(src, expr); err != nil {
		return nil, errors.Wrapf(err, "parsing type expression %q", src)
	}
	return expr, nil
}
