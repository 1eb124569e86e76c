// Package diagnostics defines the error kinds raised by unification,
// instantiation, generalization, and de Bruijn closure, together with
// the position-carrying error type used to report them to a caller.
package diagnostics

import "fmt"

// Kind distinguishes the fatal error conditions the inference engine
// can raise. Every fallible operation that fails returns a *Error
// tagged with exactly one Kind.
type Kind int

const (
	// KindUnifyMismatch: structural constructors disagree, primitive
	// types disagree, closed-row key sets disagree, or an open row's
	// known keys are not a subset of the closed row's keys.
	KindUnifyMismatch Kind = iota
	// KindOccursCheck: a variable would be written into a type that
	// contains itself, directly or through a row tail.
	KindOccursCheck
	// KindImpredicative: a Forall appears beneath a constructor during
	// instantiation or closure.
	KindImpredicative
	// KindUnboundVariable: a local IR variable index is out of range
	// of the type environment.
	KindUnboundVariable
	// KindUnsupportedTopLevel: a non-locally-bound variable reached
	// the core; top-level/module resolution is out of scope.
	KindUnsupportedTopLevel
	// KindEscapedVariable: de Bruijn closure encountered an unbound
	// cell not listed in the enclosing scheme.
	KindEscapedVariable
	// KindRowLink: a row variable was linked to a non-row type.
	KindRowLink
	// KindUnsupported: a form the core does not handle, e.g. dynamic
	// field access.
	KindUnsupported
)

// code is the short error-code string rendered in messages, mirroring
// the teacher's "[A003]"-style analyzer codes.
func (k Kind) code() string {
	switch k {
	case KindUnifyMismatch:
		return "E-UNIFY"
	case KindOccursCheck:
		return "E-OCCURS"
	case KindImpredicative:
		return "E-IMPRED"
	case KindUnboundVariable:
		return "E-UNBOUND"
	case KindUnsupportedTopLevel:
		return "E-TOPLEVEL"
	case KindEscapedVariable:
		return "E-ESCAPE"
	case KindRowLink:
		return "E-ROWLINK"
	case KindUnsupported:
		return "E-UNSUPPORTED"
	default:
		return "E-UNKNOWN"
	}
}

func (k Kind) String() string {
	return k.code()
}

// Pos is the minimal source position carried by IR nodes, threaded
// through to diagnostics so a caller can render a precise message.
// A zero Pos (Line == 0) means "no position available" — the driver
// fabricates positions internally (fresh variables, builtin lookups)
// that were never parsed from source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the single error type returned by every fallible operation
// in internal/unify, internal/infer, and internal/debruijn.
type Error struct {
	Kind Kind
	Pos  Pos
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[infer] error [%s] at %s: %s", e.Kind.code(), e.Pos, e.Msg)
}

// NewError builds a *Error, mirroring the teacher's
// diagnostics.NewError(code, token, msg) constructor shape.
func NewError(kind Kind, pos Pos, msg string) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: msg}
}

// Newf is NewError with fmt.Sprintf-style message formatting.
func Newf(kind Kind, pos Pos, format string, args ...any) *Error {
	return NewError(kind, pos, fmt.Sprintf(format, args...))
}
