// Package lexer turns Remap source bytes into a token stream.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"remap/internal/diag"
	"remap/internal/source"
	"remap/internal/token"
)

// Lexer scans one file. Diagnostics for malformed input go straight into
// the bag; scanning continues so one pass reports everything.
type Lexer struct {
	file    source.FileID
	content []byte
	pos     uint32
	bag     *diag.Bag
}

func New(file source.FileID, content []byte, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, content: content, bag: bag}
}

// Tokens scans the whole input. The stream always ends with an EOF token.
func (l *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		t := l.next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (l *Lexer) next() token.Token {
	l.skipBlanksAndComments()

	start := l.pos
	c, ok := l.peek()
	if !ok {
		return l.emit(token.EOF, start)
	}

	switch {
	case c == '\n':
		l.pos++
		return l.emit(token.Newline, start)
	case c == '"':
		return l.scanString(start)
	case isDigit(c):
		return l.scanNumber(start)
	case isIdentStart(c):
		return l.scanIdent(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) scanOperator(start uint32) token.Token {
	c, _ := l.peek()
	l.pos++

	two := func(next byte, k token.Kind, single token.Kind) token.Token {
		if n, ok := l.peek(); ok && n == next {
			l.pos++
			return l.emit(k, start)
		}
		if single == token.Invalid {
			l.report(diag.SynUnexpectedToken, start, "unexpected character %q", c)
		}
		return l.emit(single, start)
	}

	switch c {
	case '.':
		return l.emit(token.Dot, start)
	case ';':
		return l.emit(token.Semicolon, start)
	case '{':
		return l.emit(token.LBrace, start)
	case '}':
		return l.emit(token.RBrace, start)
	case '(':
		return l.emit(token.LParen, start)
	case ')':
		return l.emit(token.RParen, start)
	case '+':
		return l.emit(token.Plus, start)
	case '-':
		return l.emit(token.Minus, start)
	case '*':
		return l.emit(token.Star, start)
	case '/':
		return l.emit(token.Slash, start)
	case '=':
		return two('=', token.EqEq, token.Assign)
	case '!':
		return two('=', token.BangEq, token.Invalid)
	case '<':
		return two('=', token.LtEq, token.Lt)
	case '>':
		return two('=', token.GtEq, token.Gt)
	case '&':
		return two('&', token.AndAnd, token.Invalid)
	case '|':
		return two('|', token.OrOr, token.Invalid)
	default:
		l.report(diag.SynUnexpectedToken, start, "unexpected character %q", c)
		return l.emit(token.Invalid, start)
	}
}

func (l *Lexer) scanString(start uint32) token.Token {
	l.pos++ // opening quote
	var text []byte
	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			l.report(diag.SynUnterminatedLiteral, start, "unterminated string literal")
			return l.emitText(token.Invalid, start, string(text))
		}
		l.pos++
		switch c {
		case '"':
			return l.emitText(token.StringLit, start, string(text))
		case '\\':
			e, ok := l.peek()
			if !ok {
				l.report(diag.SynUnterminatedLiteral, start, "unterminated string literal")
				return l.emitText(token.Invalid, start, string(text))
			}
			l.pos++
			switch e {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			case '\\', '"':
				text = append(text, e)
			default:
				text = append(text, '\\', e)
			}
		default:
			text = append(text, c)
		}
	}
}

func (l *Lexer) scanNumber(start uint32) token.Token {
	kind := token.IntLit
	for {
		c, ok := l.peek()
		if !ok {
			break
		}
		if c == '.' && kind == token.IntLit {
			if n, ok2 := l.peekAt(1); ok2 && isDigit(n) {
				kind = token.FloatLit
				l.pos++
				continue
			}
			break
		}
		if !isDigit(c) && c != '_' {
			if isIdentStart(c) {
				l.report(diag.SynInvalidNumber, start, "invalid numeric literal")
				l.pos++
				return l.emit(token.Invalid, start)
			}
			break
		}
		l.pos++
	}
	return l.emit(kind, start)
}

func (l *Lexer) scanIdent(start uint32) token.Token {
	for {
		c, ok := l.peek()
		if !ok || (!isIdentStart(c) && !isDigit(c)) {
			break
		}
		l.pos++
	}
	text := string(l.content[start:l.pos])
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: l.span(start),
		Text: text,
	}
}

func (l *Lexer) skipBlanksAndComments() {
	for {
		c, ok := l.peek()
		if !ok {
			return
		}
		switch c {
		case ' ', '\t', '\r':
			l.pos++
		case '#':
			for {
				c, ok = l.peek()
				if !ok || c == '\n' {
					break
				}
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) peek() (byte, bool) {
	if int(l.pos) >= len(l.content) {
		return 0, false
	}
	return l.content[l.pos], true
}

func (l *Lexer) peekAt(offset uint32) (byte, bool) {
	if int(l.pos+offset) >= len(l.content) {
		return 0, false
	}
	return l.content[l.pos+offset], true
}

func (l *Lexer) span(start uint32) source.Span {
	return source.Span{File: l.file, Start: start, End: l.pos}
}

func (l *Lexer) emit(kind token.Kind, start uint32) token.Token {
	return token.Token{
		Kind: kind,
		Span: l.span(start),
		Text: string(l.content[start:min(int(l.pos), len(l.content))]),
	}
}

func (l *Lexer) emitText(kind token.Kind, start uint32, text string) token.Token {
	return token.Token{Kind: kind, Span: l.span(start), Text: text}
}

func (l *Lexer) report(code diag.Code, start uint32, format string, args ...any) {
	limit, err := safecast.Conv[uint32](len(l.content))
	if err != nil {
		limit = l.pos
	}
	end := l.pos
	if end <= start {
		end = start + 1
	}
	if end > limit {
		end = limit
	}
	sp := source.Span{File: l.file, Start: start, End: end}
	l.bag.Add(diag.NewError(code, diag.Primary(fmt.Sprintf(format, args...), sp)))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
