package report

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	UnresolvedReference ErrorKind = iota + 1
	UnknownField
	IncompatibleUnits
	TypeMismatch
	DivideByZero
	DepthExceeded
)

// Sentinels matched by errors.Is against an *EvalError of the same kind.
var (
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrUnknownField        = errors.New("unknown field")
	ErrIncompatibleUnits   = errors.New("incompatible units")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrDivideByZero        = errors.New("division by zero")
	ErrDepthExceeded       = errors.New("expression nesting too deep")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnresolvedReference:
		return ErrUnresolvedReference
	case UnknownField:
		return ErrUnknownField
	case IncompatibleUnits:
		return ErrIncompatibleUnits
	case TypeMismatch:
		return ErrTypeMismatch
	case DivideByZero:
		return ErrDivideByZero
	case DepthExceeded:
		return ErrDepthExceeded
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	switch k {
	case UnresolvedReference:
		return "UnresolvedReference"
	case UnknownField:
		return "UnknownField"
	case IncompatibleUnits:
		return "IncompatibleUnits"
	case TypeMismatch:
		return "TypeMismatch"
	case DivideByZero:
		return "DivideByZero"
	case DepthExceeded:
		return "DepthExceeded"
	default:
		return "Unknown"
	}
}

// EvalError aborts a report evaluation. Range locates the offending node
// and Subject names the reference, field or operation involved.
type EvalError struct {
	Kind    ErrorKind
	Range   hcl.Range
	Subject string
	Err     error
}

func (e *EvalError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Range.Filename != "" || e.Range.Start.Line > 0 {
		return fmt.Sprintf("%s: %s", e.Range.String(), msg)
	}
	return msg
}

func (e *EvalError) Unwrap() error { return e.Err }

func (e *EvalError) Is(target error) bool { return target == e.Kind.sentinel() }
