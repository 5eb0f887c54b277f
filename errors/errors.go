package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status code alongside the operation that
// produced the failure. Handlers use Code to pick the response status;
// Message is the only part surfaced to clients.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func NotFound(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Internal(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Unavailable marks a failure caused by an optional collaborator
// (record store, object store) that was never configured.
func Unavailable(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func IsNotFound(err error) bool {
	return codeOf(err) == http.StatusNotFound
}

func IsUnavailable(err error) bool {
	return codeOf(err) == http.StatusServiceUnavailable
}

func IsInvalidInput(err error) bool {
	return codeOf(err) == http.StatusBadRequest
}

func codeOf(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
