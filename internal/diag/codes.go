package diag

import (
	"fmt"
)

// Code is a stable numeric identifier for a compile-time rule violation.
// Codes are part of the public surface: once published they keep their
// meaning across releases and key the documentation lookup, so new rules
// get new numbers and retired rules leave gaps.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical and syntactic errors.
	SynUnexpectedToken     Code = 100
	SynUnterminatedLiteral Code = 101
	SynInvalidNumber       Code = 103
	SynUnexpectedEOF       Code = 104

	// Shape (type) errors.
	TypeNonBooleanPredicate Code = 102
	TypeUnexpectedKind      Code = 203
	TypeNonStringMessage    Code = 300

	// Fallibility errors.
	FallInvalidOperation  Code = 620
	FallFallibleExpr      Code = 631
	FallFalliblePredicate Code = 640

	// Compilation errors.
	CompUndefinedVariable Code = 701
)

var codeDescription = map[Code]string{
	UnknownCode:             "unknown error",
	SynUnexpectedToken:      "unexpected syntax token",
	SynUnterminatedLiteral:  "unterminated literal",
	SynInvalidNumber:        "invalid numeric literal",
	SynUnexpectedEOF:        "unexpected end of program",
	TypeNonBooleanPredicate: "non-boolean predicate",
	TypeUnexpectedKind:      "unexpected value kind",
	TypeNonStringMessage:    "non-string abort message",
	FallInvalidOperation:    "invalid operation",
	FallFallibleExpr:        "unhandled fallible expression",
	FallFalliblePredicate:   "fallible predicate",
	CompUndefinedVariable:   "call to undefined variable",
}

// docBaseURL is the documentation root the numeric codes link into.
const docBaseURL = "https://remap.dev/errors"

// funcDocBaseURL documents the built-in function reference.
const funcDocBaseURL = "https://remap.dev/functions"

func (c Code) ID() string {
	return fmt.Sprintf("E%03d", uint16(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// DocURL returns the documentation page for the code. The mapping is owned
// here and never derived anywhere else.
func (c Code) DocURL() string {
	return fmt.Sprintf("%s/%d", docBaseURL, uint16(c))
}

// FuncDocURL returns an anchor into the function reference, e.g.
// FuncDocURL("#coerce-functions").
func FuncDocURL(anchor string) string {
	return funcDocBaseURL + "/" + anchor
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
