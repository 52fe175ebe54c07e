package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. Each kind has a stable machine-readable
// code and an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindPersistence
	KindRender
)

var kindCodes = map[Kind]string{
	KindInternal:          "INTERNAL_ERROR",
	KindValidation:        "VALIDATION_ERROR",
	KindNotFound:          "NOT_FOUND",
	KindInsufficientStock: "INSUFFICIENT_STOCK",
	KindPersistence:       "PERSISTENCE_FAILURE",
	KindRender:            "RENDER_FAILURE",
}

var kindStatus = map[Kind]int{
	KindInternal:          http.StatusInternalServerError,
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindInsufficientStock: http.StatusBadRequest,
	KindPersistence:       http.StatusInternalServerError,
	KindRender:            http.StatusInternalServerError,
}

func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindInternal]
}

func (k Kind) HTTPStatus() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error represents an application error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Code() string {
	return e.Kind.Code()
}

func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

// InsufficientStock names the product whose stock could not cover the request.
func InsufficientStock(productName string) *Error {
	return New(KindInsufficientStock, fmt.Sprintf("Not enough stock for %s", productName), nil)
}

func Persistence(message string, err error) *Error {
	return New(KindPersistence, message, err)
}

func Render(message string, err error) *Error {
	return New(KindRender, message, err)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
