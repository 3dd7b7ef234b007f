// Package failure carries an HTTP status alongside an error so handlers can answer
// with the right code without inspecting service internals.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Detail is the text of the wrapped cause, if any.
	Detail string `json:"detail,omitempty"`
}

var (
	InvalidPageParam        = New(http.StatusBadRequest, "invalid page parameter")
	InvalidLimitParam       = New(http.StatusBadRequest, "invalid limit parameter")
	ResourceRestrictedError = New(http.StatusForbidden, "You don't have permission to access this resource")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest turns err into a 400 carrying its text. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// Wrap answers with code and message while keeping err as the detail.
func Wrap(code int, message string, err error) error {
	f := New(code, message)
	if err != nil {
		f.Detail = err.Error()
	}

	return f
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	if f, ok := as(err); ok {
		return f.Code
	}

	return http.StatusInternalServerError
}

// GetDetail returns the wrapped cause of a Failure, or the text of a plain error.
func GetDetail(err error) string {
	if f, ok := as(err); ok {
		return f.Detail
	}

	return err.Error()
}

func as(err error) (*Failure, bool) {
	var f *Failure

	return f, errors.As(err, &f)
}
