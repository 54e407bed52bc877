package app

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a rejected request.
type ErrorCode string

const (
	ErrInvalidDate      ErrorCode = "INVALID_DATE"
	ErrInvalidMatchMode ErrorCode = "INVALID_MATCH_MODE"
	ErrInvalidGrouping  ErrorCode = "INVALID_GROUPING"
	ErrInvalidReduction ErrorCode = "INVALID_REDUCTION"
	ErrInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrMissingPath      ErrorCode = "MISSING_PATH"
)

// RequestError reports bad user input. Problems in the data itself never
// produce one.
type RequestError struct {
	Code    ErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newRequestError(code ErrorCode, format string, args ...any) *RequestError {
	return &RequestError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsRequestError reports whether err carries the given code.
func IsRequestError(err error, code ErrorCode) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Code == code
}
