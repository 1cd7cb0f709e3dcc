package parse

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/lexer"
	"github.com/pkg/errors"
)

// Literal is a decoded string token.
type Literal struct {
	Prefix string
	Value  string

	token string
	// offsets[i] is the offset in token of the source text for Value[i].
	offsets []int
}

// DecodeString strips the prefix and quotes off a string token and
// resolves its escapes.
func DecodeString(token string) (*Literal, error) {
	prefixLen := strings.IndexAny(token, `"'`)
	if prefixLen < 0 {
		return nil, errors.Errorf("not a string literal: %s", token)
	}
	rest := token[prefixLen:]
	quoteLen := 0
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(rest) >= 2*len(q) && strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) {
			quoteLen = len(q)
			break
		}
	}
	if quoteLen == 0 {
		return nil, errors.Errorf("unterminated string literal: %s", token)
	}

	lit := &Literal{Prefix: token[:prefixLen], token: token}
	isRaw := strings.ContainsAny(lit.Prefix, "rR")
	var value strings.Builder
	emit := func(s string, offset int) {
		value.WriteString(s)
		for i := 0; i < len(s); i++ {
			lit.offsets = append(lit.offsets, offset)
		}
	}

	end := len(token) - quoteLen
	for i := prefixLen + quoteLen; i < end; {
		if token[i] != '\\' || isRaw {
			emit(token[i:i+1], i)
			i++
			continue
		}
		if strings.HasPrefix(token[i+1:end], "\n") {
			i += 2
			continue
		}
		if strings.HasPrefix(token[i+1:end], "\r\n") {
			i += 3
			continue
		}
		var quote byte
		if i+1 < end && (token[i+1] == '"' || token[i+1] == '\'') {
			quote = token[i+1]
		}
		r, _, tail, err := strconv.UnquoteChar(token[i:end], quote)
		if err != nil {
			// Unrecognized escapes keep their backslash.
			emit(`\`, i)
			i++
			continue
		}
		emit(string(r), i)
		i = end - len(tail)
	}
	lit.Value = value.String()
	return lit, nil
}

// IsText reports whether the literal is a str, as opposed to bytes or a
// formatted string.
func (l *Literal) IsText() bool {
	return !strings.ContainsAny(l.Prefix, "bBfF")
}

// Position maps pos, a position within Value, to the enclosing source,
// given the position of the token itself.
func (l *Literal) Position(start lexer.Position, pos lexer.Position) lexer.Position {
	offset := len(l.token)
	if pos.Offset < len(l.offsets) {
		offset = l.offsets[pos.Offset]
	}
	before := l.token[:offset]
	mapped := lexer.Position{
		Filename: start.Filename,
		Offset:   start.Offset + offset,
		Line:     start.Line,
		Column:   start.Column + utf8.RuneCountInString(before),
	}
	if lines := strings.Count(before, "\n"); lines > 0 {
		mapped.Line += lines
		mapped.Column = utf8.RuneCountInString(before[strings.LastIndex(before, "\n")+1:]) + 1
	}
	return mapped
}
