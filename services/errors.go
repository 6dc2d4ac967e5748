package services

import (
	"fmt"
	"net/http"
)

type AppError struct {
	HTTPCode int
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Err: err}
}

func newAppErrorWithData(httpCode int, message string, data interface{}, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Message: message, Data: data, Err: err}
}

// Constructors below map the domain error taxonomy onto HTTP codes. Services
// raise these; handlers only translate them to the response envelope.

func newValidationError(message string) *AppError {
	return newAppError(http.StatusBadRequest, message, nil)
}

func newUnauthorizedError(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message, nil)
}

func newForbiddenError(message string) *AppError {
	return newAppError(http.StatusForbidden, message, nil)
}

func newNotFoundError(message string) *AppError {
	return newAppError(http.StatusNotFound, message, nil)
}

func newConflictError(message string) *AppError {
	return newAppError(http.StatusConflict, message, nil)
}

func newGoneError(message string) *AppError {
	return newAppError(http.StatusGone, message, nil)
}

func newTooManyRequestsError(message string) *AppError {
	return newAppError(http.StatusTooManyRequests, message, nil)
}

func newQuotaExceededError(message string, data interface{}) *AppError {
	return newAppErrorWithData(http.StatusUnprocessableEntity, message, data, nil)
}

func newInternalError(message string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, message, err)
}
