package spool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danpasecinic/spool/internal/activator"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeServiceNotFound
	ErrCodeAmbiguousService
	ErrCodeTypeLoad
	ErrCodeUnresolvableDependency
	ErrCodeConstructionFailed
	ErrCodeFactoryFailed
	ErrCodeTypeMismatch
	ErrCodeDisposeFailed
	ErrCodeValidationFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                "UNKNOWN",
	ErrCodeInvalidArgument:        "INVALID_ARGUMENT",
	ErrCodeServiceNotFound:        "SERVICE_NOT_FOUND",
	ErrCodeAmbiguousService:       "AMBIGUOUS_SERVICE",
	ErrCodeTypeLoad:               "TYPE_LOAD",
	ErrCodeUnresolvableDependency: "UNRESOLVABLE_DEPENDENCY",
	ErrCodeConstructionFailed:     "CONSTRUCTION_FAILED",
	ErrCodeFactoryFailed:          "FACTORY_FAILED",
	ErrCodeTypeMismatch:           "TYPE_MISMATCH",
	ErrCodeDisposeFailed:          "DISPOSE_FAILED",
	ErrCodeValidationFailed:       "VALIDATION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned by every operation in this package.
// Param is set for invalid-argument errors and names the offending
// parameter.
type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Param   string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}
	if e.Param != "" {
		b.WriteString(fmt.Sprintf(" param=%q:", e.Param))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errInvalidArgument(param, message string) *Error {
	e := newError(ErrCodeInvalidArgument, message, nil)
	e.Param = param
	return e
}

func errNilArgument(param string) *Error {
	return errInvalidArgument(param, "value cannot be nil")
}

func errServiceNotFound(service string) *Error {
	return newError(
		ErrCodeServiceNotFound,
		fmt.Sprintf("no service registered for type %s", service),
		nil,
	).WithService(service)
}

func errAmbiguousService(service string, count int) *Error {
	return newError(
		ErrCodeAmbiguousService,
		fmt.Sprintf("%d services registered for type %s; request a slice to get all of them", count, service),
		nil,
	).WithService(service)
}

func errTypeLoad(service, message string, cause error) *Error {
	return newError(ErrCodeTypeLoad, message, cause).WithService(service)
}

func errFactoryFailed(service string, cause error) *Error {
	return newError(
		ErrCodeFactoryFailed,
		fmt.Sprintf("factory for %s returned error", service),
		cause,
	).WithService(service)
}

func errTypeMismatch(service, got string) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("resolved value of type %s is not assignable to %s", got, service),
		nil,
	).WithService(service)
}

func errDisposeFailed(service string, cause error) *Error {
	return newError(
		ErrCodeDisposeFailed,
		fmt.Sprintf("failed to dispose %s", service),
		cause,
	).WithService(service)
}

func errValidationFailed(missing []string) *Error {
	return newError(
		ErrCodeValidationFailed,
		fmt.Sprintf("missing registrations: %s", strings.Join(missing, ", ")),
		nil,
	)
}

// errActivation maps a construction failure onto the error taxonomy.
func errActivation(service string, err error) error {
	var ae *activator.Error
	if !errors.As(err, &ae) {
		return newError(ErrCodeConstructionFailed, "construction failed", err).WithService(service)
	}

	code := ErrCodeConstructionFailed
	switch {
	case errors.Is(ae.Kind, activator.ErrInterface),
		errors.Is(ae.Kind, activator.ErrAbstract),
		errors.Is(ae.Kind, activator.ErrInvalidStruct):
		code = ErrCodeTypeLoad
	case errors.Is(ae.Kind, activator.ErrUnresolvable):
		code = ErrCodeUnresolvableDependency
	case errors.Is(ae.Kind, activator.ErrMismatch):
		code = ErrCodeTypeMismatch
	}

	return newError(code, fmt.Sprintf("cannot construct %s", service), err).WithService(service)
}

// is reports whether any *Error in err's tree carries code, so a missing
// dependency still reports the cause that made it unresolvable.
func is(err error, code ErrorCode) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}

func IsInvalidArgument(err error) bool {
	return is(err, ErrCodeInvalidArgument)
}

func IsNotFound(err error) bool {
	return is(err, ErrCodeServiceNotFound)
}

func IsAmbiguous(err error) bool {
	return is(err, ErrCodeAmbiguousService)
}

func IsTypeLoad(err error) bool {
	return is(err, ErrCodeTypeLoad)
}

func IsUnresolvableDependency(err error) bool {
	return is(err, ErrCodeUnresolvableDependency)
}

func IsConstructionFailed(err error) bool {
	return is(err, ErrCodeConstructionFailed)
}

func IsFactoryFailed(err error) bool {
	return is(err, ErrCodeFactoryFailed)
}

func IsTypeMismatch(err error) bool {
	return is(err, ErrCodeTypeMismatch)
}

func IsDisposeFailed(err error) bool {
	return is(err, ErrCodeDisposeFailed)
}

func IsValidationFailed(err error) bool {
	return is(err, ErrCodeValidationFailed)
}
