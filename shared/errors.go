package shared

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is a business-rule failure carried back to the transport layer.
// Expected outcomes (validation failures, conflicts) travel as AppErrors;
// only genuinely unexpected faults surface as bare errors.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
	Data       interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, err error, message string) *AppError {
	return &AppError{StatusCode: status, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(fiber.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(fiber.StatusUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return newAppError(fiber.StatusForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(fiber.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(fiber.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(fiber.StatusInternalServerError, err, message)
}

// GetAppError unwraps err looking for an AppError.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
