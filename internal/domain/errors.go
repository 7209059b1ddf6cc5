package domain

import "errors"

// Error kinds. Every business failure wraps exactly one of them, so callers
// select on errors.Is. Anything else is an internal failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrBusinessRule    = errors.New("business rule violation")
	ErrSeatUnavailable = errors.New("seat unavailable")
)

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func BusinessRule(msg string) error {
	return &Error{Kind: ErrBusinessRule, Message: msg}
}

func SeatUnavailable(msg string) error {
	return &Error{Kind: ErrSeatUnavailable, Message: msg}
}

// IsBusiness reports whether err is one of the three terminal business kinds.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrBusinessRule) || errors.Is(err, ErrSeatUnavailable)
}
