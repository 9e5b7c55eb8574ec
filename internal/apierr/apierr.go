// Package apierr defines the service error taxonomy. Every failure raised by
// a service carries a stable numeric internal code and a human-readable
// message; anything else degrades to ProcessNotFinished at the boundary.
package apierr

import "errors"

// Internal error codes. These are API contract values, not HTTP statuses.
const (
	CodeProcessNotFinished    = 55
	CodeUnauthorized          = 401
	CodeUserAlreadyExists     = 40
	CodeUserNotFound          = 41
	CodeResourceNotFound      = 42
	CodeResourceAlreadyExists = 43
	CodeValidationFailed      = 422
)

const (
	MessageProcessNotFinished    = "Process not finished"
	MessageUnauthorized          = "Unauthorized access"
	MessageUserAlreadyExists     = "User already exists"
	MessageUserNotFound          = "User not found"
	MessageResourceNotFound      = "Resource not found"
	MessageResourceAlreadyExists = "Resource already exists"
	MessageValidationFailed      = "Invalid request data"
)

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func UserAlreadyExists() *Error {
	return New(CodeUserAlreadyExists, MessageUserAlreadyExists)
}

func ResourceAlreadyExists() *Error {
	return New(CodeResourceAlreadyExists, MessageResourceAlreadyExists)
}

func Unauthorized() *Error {
	return New(CodeUnauthorized, MessageUnauthorized)
}

// ValidationFailed reports a referentially invalid field, e.g. an unknown
// country code on a transaction.
func ValidationFailed(detail string) *Error {
	return New(CodeValidationFailed, MessageResourceNotFound+": "+detail)
}

// As unwraps err into an *Error, or nil if it is not one.
func As(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
