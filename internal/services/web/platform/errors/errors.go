// Package errors defines web typed errors and maps domain error codes onto
// HTTP status and message keys.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	domainerrors "github.com/louisbranch/talevortex/internal/platform/errors"
)

// Kind classifies web failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
)

// Error is a typed web failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

// Error renders the internal message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a message key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// MessageKey returns the catalog key and arguments describing err. Domain
// errors use "error.<code>" and pass their Name metadata as the argument.
func MessageKey(err error) (string, []string) {
	if err == nil {
		return "", nil
	}
	var webErr Error
	if stderrors.As(err, &webErr) {
		return webErr.Key, nil
	}
	var domainErr *domainerrors.Error
	if stderrors.As(err, &domainErr) {
		key := "error." + strings.ToLower(string(domainErr.Code))
		if name, ok := domainErr.Metadata["Name"]; ok {
			return key, []string{name}
		}
		return key, nil
	}
	return "", nil
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var webErr Error
	if stderrors.As(err, &webErr) {
		switch webErr.Kind {
		case KindInvalidInput:
			return http.StatusBadRequest
		case KindUnauthorized:
			return http.StatusUnauthorized
		case KindForbidden:
			return http.StatusForbidden
		case KindUnavailable:
			return http.StatusServiceUnavailable
		case KindNotFound:
			return http.StatusNotFound
		default:
			return http.StatusInternalServerError
		}
	}
	return domainerrors.CodeOf(err).HTTPStatus()
}
