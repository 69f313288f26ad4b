package models

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can branch without string matching.
type Kind string

const (
	KindUnknown             Kind = "unknown"
	KindInvalidInput        Kind = "invalid_input"
	KindDataProviderFailure Kind = "data_provider_failure"
	KindInsufficientData    Kind = "insufficient_data"
	KindTrainingFailure     Kind = "training_failure"
	KindDegenerateSeries    Kind = "degenerate_series"
)

// Error is a forecast pipeline failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. A target with an
// empty message matches any error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrDataProviderFailure = &Error{Kind: KindDataProviderFailure}
	ErrInsufficientData    = &Error{Kind: KindInsufficientData}
	ErrTrainingFailure     = &Error{Kind: KindTrainingFailure}
	ErrDegenerateSeries    = &Error{Kind: KindDegenerateSeries}
)

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-facing message of the first *Error in err's
// chain, or err.Error() otherwise.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

func newError(kind Kind, err error, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Err: err}
}

// InvalidInput reports a client fault.
func InvalidInput(format string, a ...any) *Error {
	return newError(KindInvalidInput, nil, format, a...)
}

// DataProviderFailure reports a failure of the historical price source.
func DataProviderFailure(err error, format string, a ...any) *Error {
	return newError(KindDataProviderFailure, err, format, a...)
}

// InsufficientData reports a series too short for the requested computation.
func InsufficientData(format string, a ...any) *Error {
	return newError(KindInsufficientData, nil, format, a...)
}

// TrainingFailure reports that the regression step could not complete.
func TrainingFailure(err error, format string, a ...any) *Error {
	return newError(KindTrainingFailure, err, format, a...)
}

// DegenerateSeries reports a zero-range series.
func DegenerateSeries(format string, a ...any) *Error {
	return newError(KindDegenerateSeries, nil, format, a...)
}
