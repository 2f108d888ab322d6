package expr

import (
	"fmt"

	"remap/internal/source"
)

// ErrorKind distinguishes the closed set of runtime failure classes.
type ErrorKind uint8

const (
	// ErrorCall covers ordinary evaluation failures: value conversions,
	// invalid operands, and the like.
	ErrorCall ErrorKind = iota
	// ErrorAbort is the explicit, user-intended termination of one
	// record's evaluation. It is terminal for the record but never a
	// process-level fault.
	ErrorAbort
)

// ExpressionError is the tagged union of runtime evaluation failures.
// It is always scoped to a single record.
type ExpressionError struct {
	kind ErrorKind
	span source.Span
	msg  string
	// abortMsg is the optional user message of an abort; nil when the
	// abort carried none or its computation failed.
	abortMsg *string
}

// NewError builds an ordinary runtime failure.
func NewError(span source.Span, format string, args ...any) *ExpressionError {
	return &ExpressionError{
		kind: ErrorCall,
		span: span,
		msg:  fmt.Sprintf(format, args...),
	}
}

// NewAbortError builds the explicit termination outcome. message may be
// nil.
func NewAbortError(span source.Span, message *string) *ExpressionError {
	return &ExpressionError{
		kind:     ErrorAbort,
		span:     span,
		abortMsg: message,
	}
}

func (e *ExpressionError) Kind() ErrorKind {
	return e.kind
}

func (e *ExpressionError) Span() source.Span {
	return e.span
}

// IsAbort reports whether the failure is the explicit termination signal,
// distinguishable by the host from every other kind.
func (e *ExpressionError) IsAbort() bool {
	return e.kind == ErrorAbort
}

// AbortMessage returns the optional abort message.
func (e *ExpressionError) AbortMessage() (string, bool) {
	if e.abortMsg == nil {
		return "", false
	}
	return *e.abortMsg, true
}

func (e *ExpressionError) Error() string {
	if e.kind == ErrorAbort {
		if e.abortMsg != nil {
			return "aborted: " + *e.abortMsg
		}
		return "aborted"
	}
	return e.msg
}
