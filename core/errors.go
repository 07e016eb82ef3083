/*
Package core holds types and helpers shared by all packages of autokern.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package core

import (
	"errors"
	"fmt"
)

// Error codes of application errors.
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource (font, glyph) does not exist
	EINVALID    int = 123 // validation failed
	ENOCONVERGE int = 124 // an iterative procedure did not converge
	EINTERNAL   int = 125 // internal error
)

var errorTexts = map[int]string{
	NOERROR:     "OK",
	EMISSING:    "not found",
	EINVALID:    "invalid",
	ENOCONVERGE: "no convergence",
	EINTERNAL:   "internal error",
}

func errorText(code int) string {
	if text, ok := errorTexts[code]; ok {
		return text
	}
	return "undefined error"
}

// AppError is an error carrying an error code and a message suitable for
// end users. Besides the errors created in this package, calibration
// failures implement it.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

// codedError is the AppError of this package. It wraps the cause, so
// errors.Is and errors.As see through it.
type codedError struct {
	cause error
	code  int
	msg   string
}

func (e codedError) Unwrap() error       { return e.cause }
func (e codedError) ErrorCode() int      { return e.code }
func (e codedError) UserMessage() string { return e.msg }

func (e codedError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.cause)
}

var _ AppError = codedError{}

// Error creates an application error with a code and a user message.
func Error(code int, format string, v ...interface{}) error {
	return WrapError(nil, code, format, v...)
}

// WrapError attaches a code and a user message to err. A nil err is
// replaced by an error holding the code's text.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return codedError{cause: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Code returns the code of the first AppError in err's chain. Errors without
// one are internal errors; a nil error has code NOERROR.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	var e AppError
	if errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message of the first AppError in err's chain,
// or the text of err's code. It returns "" for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e AppError
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}
