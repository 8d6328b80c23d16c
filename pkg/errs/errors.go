package errs

import (
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code ErrorCode
}

type ErrorCode uint

const (
	ErrUnknown ErrorCode = iota
	ErrInvalidArgument
	ErrOutOfRange
	ErrIllegalState
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrOutOfRange:
		return "out of range"
	case ErrIllegalState:
		return "illegal state"
	default:
		return "unknown"
	}
}

// WrapErrorf. wrap orig with a code and formatted message. orig may be nil.
func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}

// Is. true when some error in err's chain is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.code == code {
			return true
		}
		err = e.orig
	}
	return false
}
