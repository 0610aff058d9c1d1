package httperr

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindSlotUnavailable Kind = "slot_unavailable"
)

// BusinessError is a rule violation the caller can act on. Anything that is
// not a BusinessError is treated as an infrastructure failure.
type BusinessError struct {
	Kind   Kind
	Code   string
	Fields []string
}

func (e BusinessError) Error() string {
	if len(e.Fields) > 0 {
		return e.Code + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code string, fields ...string) error {
	return BusinessError{Kind: KindValidation, Code: code, Fields: fields}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrSlotUnavailable() error {
	return BusinessError{Kind: KindSlotUnavailable, Code: "slot_unavailable"}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
