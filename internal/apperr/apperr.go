// Package apperr carries the typed errors the provisioning saga produces.
// Handlers map kinds to HTTP status codes; the saga decides from the kind
// whether compensation is required.
package apperr

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindUnknown is the zero value; treated as internal.
	KindUnknown Kind = iota
	// KindValidation: bad format, missing field, duplicate found before any
	// write. No store mutation happened.
	KindValidation
	// KindConflict: duplicate detected at write time.
	KindConflict
	// KindPermission: store-level authorization failure.
	KindPermission
	// KindInfrastructure: connectivity or unexpected store failure.
	KindInfrastructure
)

// FieldError is one entry of the {errors:[{field,message}]} payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a saga error with a kind and optional field-level detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to the status the route adapters return.
// Write-time conflicts come back as 403 to match the relational store's
// unique-violation contract.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusForbidden
	case KindPermission, KindInfrastructure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindConflict, Message: message, Fields: fields}
}

func Permission(message string, err error) *Error {
	return &Error{Kind: KindPermission, Message: message, Err: err}
}

func Infrastructure(message string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Message: message, Err: err}
}

// GetKind extracts the kind, returning KindUnknown for foreign errors.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}
