package web

import "github.com/pkg/errors"

// Error is a request error that knows the HTTP status it should be
// answered with. The message is safe to show to the caller.
type Error struct {
	Err    error
	Status int
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewRequestError wraps err with the status code the handler should
// respond with.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// IsRequestError unwraps err looking for a *Error.
func IsRequestError(err error) (*Error, bool) {
	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr, true
	}

	return nil, false
}
