package stl

import (
	"errors"
	"fmt"
)

// Kind classifies why a load or save was rejected.
type Kind int

const (
	KindMalformedInput      Kind = iota // token stream does not follow the grammar
	KindUnsupportedTopology             // scene is not a single triangle mesh
	KindMissingAttribute                // per-face normals are absent
	KindIO                              // underlying reader, writer or file failed
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed-input"
	case KindUnsupportedTopology:
		return "unsupported-topology"
	case KindMissingAttribute:
		return "missing-attribute"
	case KindIO:
		return "io"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every failing load or save. Line is the 1-based input
// line of the offending token, or 0 when not applicable.
type Error struct {
	Kind    Kind
	Op      string // "load" or "save"
	Line    int
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrMalformedInput      = &Error{Kind: KindMalformedInput}
	ErrUnsupportedTopology = &Error{Kind: KindUnsupportedTopology}
	ErrMissingAttribute    = &Error{Kind: KindMissingAttribute}
	ErrIO                  = &Error{Kind: KindIO}
)

func (e *Error) Error() string {
	msg := "stl"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else {
		msg += ": " + e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
