// Package apperr defines the client-visible error taxonomy shared by services
// and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindInvalidToken
	KindUnauthorized
	KindPermission
	KindNotFound
)

var kindCodes = map[Kind]string{
	KindValidation:     "validation_error",
	KindAuthentication: "authentication_error",
	KindInvalidToken:   "invalid_token",
	KindUnauthorized:   "unauthorized",
	KindPermission:     "permission_denied",
	KindNotFound:       "not_found",
}

// Code returns the machine-readable code written to error bodies.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "internal_error"
}

// Status maps the kind onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindAuthentication, KindInvalidToken:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with an optional per-field breakdown.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports malformed or missing input.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// FieldValidation reports a single invalid field.
func FieldValidation(field, message string) *Error {
	return Validation(message, map[string]string{field: message})
}

// Authentication reports rejected credentials.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// InvalidToken reports a missing, malformed, expired or revoked refresh token.
func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

// Unauthorized reports a missing or invalid bearer credential.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Permission reports an object-level write by someone other than the owner.
func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NotFound reports an unknown identifier.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
