package services

import (
	"errors"
	"fmt"

	"github.com/starlink-tech/srm-app/models"
)

// ErrorKind is the stable, programmatic classification of a service error.
// Controllers translate kinds to HTTP status codes; the kind, not the
// message, is the authoritative signal.
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation_failed"
	KindSupplierInactive     ErrorKind = "supplier_inactive"
	KindMaterialNotFound     ErrorKind = "material_not_found"
	KindInvalidTransition    ErrorKind = "invalid_transition"
	KindForbidden            ErrorKind = "forbidden"
	KindOrderTerminal        ErrorKind = "order_terminal"
	KindDuplicateOrderNumber ErrorKind = "duplicate_order_number"
	KindNotFound             ErrorKind = "not_found"
)

// Error carries a kind and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or "" when err is not a service error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func errNotFound(what string) *Error {
	return newError(KindNotFound, "%s not found", what)
}

func errForbidden() *Error {
	return newError(KindForbidden, "permission denied")
}

func errInvalidTransition(current models.OrderStatus, op string) *Error {
	return newError(KindInvalidTransition, "cannot %s an order in status %q", op, current)
}

func errOrderTerminal(current models.OrderStatus) *Error {
	return newError(KindOrderTerminal, "order in terminal status %q cannot be modified", current)
}
