// Package token defines the lexical vocabulary of Remap programs.
package token

import (
	"fmt"

	"remap/internal/source"
)

// Kind identifies a token class.
type Kind uint8

const (
	EOF Kind = iota
	Newline

	Ident
	IntLit
	FloatLit
	StringLit

	Dot
	Semicolon
	LBrace
	RBrace
	LParen
	RParen

	Plus
	Minus
	Star
	Slash
	Assign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr

	KwIf
	KwElse
	KwAbort
	KwTrue
	KwFalse
	KwNull

	Invalid
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of program"
	case Newline:
		return "newline"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case Dot:
		return "'.'"
	case Semicolon:
		return "';'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case Assign:
		return "'='"
	case EqEq:
		return "'=='"
	case BangEq:
		return "'!='"
	case Lt:
		return "'<'"
	case LtEq:
		return "'<='"
	case Gt:
		return "'>'"
	case GtEq:
		return "'>='"
	case AndAnd:
		return "'&&'"
	case OrOr:
		return "'||'"
	case KwIf:
		return "'if'"
	case KwElse:
		return "'else'"
	case KwAbort:
		return "'abort'"
	case KwTrue:
		return "'true'"
	case KwFalse:
		return "'false'"
	case KwNull:
		return "'null'"
	case Invalid:
		return "invalid token"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Token is a single lexeme with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsSeparator reports whether the token ends a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == Semicolon || t.Kind == Newline
}

var keywords = map[string]Kind{
	"if":    KwIf,
	"else":  KwElse,
	"abort": KwAbort,
	"true":  KwTrue,
	"false": KwFalse,
	"null":  KwNull,
}

// LookupKeyword classifies an identifier text, falling back to Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
