// Package coreerr defines the two-tier error taxonomy shared by every
// fallible editing-core operation.
//
// An Error is either a *SystemError (the environment failed: I/O,
// permissions, encoding, the OS) or a *DomainError (the caller violated a
// precondition). System errors carry a Retriable flag so retry policy can be
// decided without inspecting messages; domain errors are never retriable.
//
// Both variants match their kind sentinels through errors.Is:
//
//	if errors.Is(err, coreerr.ErrOutOfRange) { ... }
//	if coreerr.IsRetriable(err) { ... }
package coreerr

import (
	"errors"
	"fmt"
)

// SystemKind classifies environment failures.
type SystemKind uint8

const (
	KindIO SystemKind = iota
	KindPermission
	KindEncoding
	KindOS
	KindUnknown
)

// String returns the kind name.
func (k SystemKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPermission:
		return "permission"
	case KindEncoding:
		return "encoding"
	case KindOS:
		return "os"
	default:
		return "unknown"
	}
}

// DomainKind classifies precondition violations.
type DomainKind uint8

const (
	KindInvalidOperation DomainKind = iota
	KindInvalidState
	KindOutOfRange
	KindEmptySelection
)

// String returns the kind name.
func (k DomainKind) String() string {
	switch k {
	case KindInvalidOperation:
		return "invalid operation"
	case KindInvalidState:
		return "invalid state"
	case KindOutOfRange:
		return "out of range"
	case KindEmptySelection:
		return "empty selection"
	default:
		return "domain"
	}
}

// Error is implemented only by *SystemError and *DomainError.
type Error interface {
	error
	coreError()
}

// SystemError reports a failure of the environment.
type SystemError struct {
	Kind      SystemKind
	Context   string
	Retriable bool

	// Err is the underlying cause, if any.
	Err error
}

func (*SystemError) coreError() {}

// Error implements error.
func (e *SystemError) Error() string {
	msg := e.Kind.String() + " error"
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SystemError) Unwrap() error {
	return e.Err
}

// Is matches another *SystemError of the same kind whose context is empty,
// which makes the package sentinels usable with errors.Is.
func (e *SystemError) Is(target error) bool {
	t, ok := target.(*SystemError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Context == "" && t.Err == nil
}

// DomainError reports a precondition violation by the caller.
type DomainError struct {
	Kind    DomainKind
	Context string
}

func (*DomainError) coreError() {}

// Error implements error.
func (e *DomainError) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Context
}

// Is matches another *DomainError of the same kind whose context is empty.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Context == ""
}

// Kind sentinels for errors.Is.
var (
	ErrIO         = &SystemError{Kind: KindIO}
	ErrPermission = &SystemError{Kind: KindPermission}
	ErrEncoding   = &SystemError{Kind: KindEncoding}
	ErrOS         = &SystemError{Kind: KindOS}
	ErrUnknown    = &SystemError{Kind: KindUnknown}

	ErrInvalidOperation = &DomainError{Kind: KindInvalidOperation}
	ErrInvalidState     = &DomainError{Kind: KindInvalidState}
	ErrOutOfRange       = &DomainError{Kind: KindOutOfRange}
	ErrEmptySelection   = &DomainError{Kind: KindEmptySelection}
)

// NewSystem creates a system error with a formatted context.
func NewSystem(kind SystemKind, retriable bool, format string, args ...any) *SystemError {
	return &SystemError{
		Kind:      kind,
		Context:   fmt.Sprintf(format, args...),
		Retriable: retriable,
	}
}

// WrapSystem creates a system error around an underlying cause.
func WrapSystem(kind SystemKind, retriable bool, cause error, format string, args ...any) *SystemError {
	return &SystemError{
		Kind:      kind,
		Context:   fmt.Sprintf(format, args...),
		Retriable: retriable,
		Err:       cause,
	}
}

// NewDomain creates a domain error with a formatted context.
func NewDomain(kind DomainKind, format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    kind,
		Context: fmt.Sprintf(format, args...),
	}
}

// OutOfRange is shorthand for a KindOutOfRange domain error.
func OutOfRange(format string, args ...any) *DomainError {
	return NewDomain(KindOutOfRange, format, args...)
}

// IsRetriable reports whether re-attempting the identical operation could
// succeed. Only system errors flagged retriable qualify.
func IsRetriable(err error) bool {
	var se *SystemError
	if errors.As(err, &se) {
		return se.Retriable
	}
	return false
}

// IsSystem reports whether err is a system error of the given kind.
func IsSystem(err error, kind SystemKind) bool {
	var se *SystemError
	return errors.As(err, &se) && se.Kind == kind
}

// IsDomain reports whether err is a domain error of the given kind.
func IsDomain(err error, kind DomainKind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}

// As extracts the core error carried by err, if any.
func As(err error) (Error, bool) {
	var se *SystemError
	if errors.As(err, &se) {
		return se, true
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// From converts any error into a core error. Errors that already carry a
// core error are returned unchanged; anything else becomes KindUnknown.
func From(err error) Error {
	if err == nil {
		return nil
	}
	if ce, ok := As(err); ok {
		return ce
	}
	return WrapSystem(KindUnknown, false, err, "unexpected failure")
}
