// Package errors provides structured domain errors with stable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Story errors
	CodeStoryNameEmpty   Code = "STORY_NAME_EMPTY"
	CodeStoryNameTooLong Code = "STORY_NAME_TOO_LONG"
	CodeStoryNameTaken   Code = "STORY_NAME_TAKEN"
	CodeStoryNotOwned    Code = "STORY_NOT_OWNED"

	// Unit errors
	CodeUnitNameEmpty      Code = "UNIT_NAME_EMPTY"
	CodeUnitNameTooLong    Code = "UNIT_NAME_TOO_LONG"
	CodeUnitNameTaken      Code = "UNIT_NAME_TAKEN"
	CodeUnitTypeUnknown    Code = "UNIT_TYPE_UNKNOWN"
	CodeUnitFieldInvalid   Code = "UNIT_FIELD_INVALID"
	CodeUnitSelectionEmpty Code = "UNIT_SELECTION_EMPTY"

	// Label errors
	CodeLabelNameEmpty   Code = "LABEL_NAME_EMPTY"
	CodeLabelNameTooLong Code = "LABEL_NAME_TOO_LONG"

	// User errors
	CodeUserEmailInvalid       Code = "USER_EMAIL_INVALID"
	CodeUserDisplayNameEmpty   Code = "USER_DISPLAY_NAME_EMPTY"
	CodeUserDisplayNameTooLong Code = "USER_DISPLAY_NAME_TOO_LONG"
	CodeUserDisplayNameTaken   Code = "USER_DISPLAY_NAME_TAKEN"
	CodeUserNotAuthenticated   Code = "USER_NOT_AUTHENTICATED"

	// Magic link errors
	CodeMagicLinkInvalid Code = "MAGIC_LINK_INVALID"
	CodeMagicLinkExpired Code = "MAGIC_LINK_EXPIRED"

	// Import errors
	CodeImportMalformed Code = "IMPORT_MALFORMED"

	// External dependency errors
	CodeTextGenerationFailed   Code = "TEXT_GENERATION_FAILED"
	CodeTextGenerationDisabled Code = "TEXT_GENERATION_DISABLED"
	CodeMailDeliveryFailed     Code = "MAIL_DELIVERY_FAILED"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeStoryNameEmpty,
		CodeStoryNameTooLong,
		CodeUnitNameEmpty,
		CodeUnitNameTooLong,
		CodeUnitFieldInvalid,
		CodeUnitSelectionEmpty,
		CodeLabelNameEmpty,
		CodeLabelNameTooLong,
		CodeUserEmailInvalid,
		CodeUserDisplayNameEmpty,
		CodeUserDisplayNameTooLong,
		CodeImportMalformed:
		return http.StatusBadRequest

	case CodeStoryNameTaken,
		CodeUnitNameTaken,
		CodeUserDisplayNameTaken,
		CodeAlreadyExists:
		return http.StatusConflict

	case CodeUserNotAuthenticated,
		CodeMagicLinkInvalid,
		CodeMagicLinkExpired:
		return http.StatusUnauthorized

	// Foreign stories are reported as missing so their existence never leaks.
	case CodeNotFound,
		CodeStoryNotOwned,
		CodeUnitTypeUnknown:
		return http.StatusNotFound

	case CodeTextGenerationFailed,
		CodeTextGenerationDisabled,
		CodeMailDeliveryFailed:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
