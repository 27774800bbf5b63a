package metadata

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures by origin.
type ErrorKind int

// Failure origins.
const (
	// KindNetwork covers DNS, connect, timeout and non-2xx failures.
	KindNetwork ErrorKind = iota + 1
	// KindParse covers everything after a successful fetch.
	KindParse
)

// Sentinels usable with errors.Is against an *Error.
var (
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("parse error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the failure returned by extraction and resource fetches.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NetworkError wraps err as a KindNetwork failure.
func NetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// ParseError wraps err as a KindParse failure.
func ParseError(err error) *Error {
	return &Error{Kind: KindParse, Err: err}
}

// Error renders the message surfaced to API callers.
func (e *Error) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("Request error: %v", e.Err)
	}
	return fmt.Sprintf("An error occurred: %v", e.Err)
}

// Message returns the underlying failure text without the kind prefix.
func (e *Error) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrNetwork and ErrParse by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrParse:
		return e.Kind == KindParse
	default:
		return false
	}
}

// IsNetwork reports whether err is a network failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsParse reports whether err is a parse failure.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}
