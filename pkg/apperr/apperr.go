// Package apperr carries the recoverable error kinds surfaced by the
// domain services. The boundary layer maps kinds to HTTP statuses and
// returns the message verbatim.
package apperr

import "errors"

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAlreadyExists
	KindIllegalState
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func AlreadyExists(message string) error {
	return &Error{Kind: KindAlreadyExists, Message: message}
}

func IllegalState(message string) error {
	return &Error{Kind: KindIllegalState, Message: message}
}

// KindOf reports the kind of err, or 0 when err is not an apperr.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsAlreadyExists(err error) bool {
	return KindOf(err) == KindAlreadyExists
}

func IsIllegalState(err error) bool {
	return KindOf(err) == KindIllegalState
}
