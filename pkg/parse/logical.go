package parse

import (
	"io"

	"github.com/alecthomas/participle/lexer"
)

// logicalLines turns the physical token stream into logical lines:
// comments are dropped, as are newlines inside brackets and blank lines.
// With keepNewlines unset every newline is dropped, which suits
// expressions that span lines, like a triple-quoted forward reference.
type logicalLines struct {
	lexer.Definition
	keepNewlines bool
}

func (d *logicalLines) Lex(r io.Reader) (lexer.Lexer, error) {
	lex, err := d.Definition.Lex(r)
	if err != nil {
		return nil, err
	}
	symbols := d.Symbols()
	return &logicalLexer{
		lex:          lex,
		keepNewlines: d.keepNewlines,
		newline:      symbols["Newline"],
		comment:      symbols["Comment"],
		punct:        symbols["Punct"],
		atLineStart:  true,
	}, nil
}

type logicalLexer struct {
	lex          lexer.Lexer
	keepNewlines bool

	newline rune
	comment rune
	punct   rune

	depth       int
	atLineStart bool
	eof         *lexer.Token
}

func (l *logicalLexer) Next() (lexer.Token, error) {
	if l.eof != nil {
		return *l.eof, nil
	}
	for {
		token, err := l.lex.Next()
		if err != nil {
			return token, err
		}
		switch {
		case token.EOF():
			l.eof = &token
			// The last line may lack its newline.
			if l.keepNewlines && !l.atLineStart {
				l.atLineStart = true
				return lexer.Token{Type: l.newline, Value: "\n", Pos: token.Pos}, nil
			}
			return token, nil
		case token.Type == l.comment:
			continue
		case token.Type == l.newline:
			if !l.keepNewlines || l.depth > 0 || l.atLineStart {
				continue
			}
			l.atLineStart = true
			return token, nil
		case token.Type == l.punct:
			switch token.Value {
			case "(", "[", "{":
				l.depth++
			case ")", "]", "}":
				if l.depth > 0 {
					l.depth--
				}
			}
		}
		l.atLineStart = false
		return token, nil
	}
}
