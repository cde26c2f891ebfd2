// Package apierr pairs a failed request with the HTTP status and machine
// code it is answered with.
package apierr

import (
	"errors"
	"net/http"

	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	// Code is the aggregate error code sent as error.code.
	Code string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return http.StatusText(e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeNotFound:          http.StatusNotFound,
	domainagg.CodeValidation:        http.StatusUnprocessableEntity,
	domainagg.CodeRegexConfig:       http.StatusUnprocessableEntity,
	domainagg.CodeConflict:          http.StatusConflict,
	domainagg.CodeMigrationConflict: http.StatusConflict,
	domainagg.CodeRetryable:         http.StatusServiceUnavailable,
}

// StatusFor maps an aggregate error code to its HTTP status. Codes without
// an entry, persistence and invariant failures among them, are 500.
func StatusFor(code domainagg.ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Classify returns err as an *Error. An *Error already in the chain wins;
// an error with no aggregate code is reported as internal.
func Classify(err error) *Error {
	var api *Error
	if errors.As(err, &api) {
		return api
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	return New(StatusFor(code), string(code), err)
}
