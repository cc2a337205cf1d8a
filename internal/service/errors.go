package service

import (
	"errors"
	"fmt"
)

// Kind classifies the outcome of a remote call.
type Kind int

const (
	// KindNone means the call succeeded.
	KindNone Kind = iota

	// KindAuth means credentials or session acquisition failed.
	KindAuth

	// KindTransport means the call failed on the network or protocol level.
	KindTransport

	// KindPrecondition means the remote service refused the operation
	// because it would break an invariant of the entity, such as deleting
	// the default list. It is an expected outcome.
	KindPrecondition

	// KindUnexpected covers everything else.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindPrecondition:
		return "precondition"
	default:
		return "unexpected"
	}
}

// Error is a classified remote failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err under kind. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the classification of err.
// Errors that were never classified are unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}
