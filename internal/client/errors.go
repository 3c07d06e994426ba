package client

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no usable reply came back: the request
// could not be sent, the connection broke, or the body was not JSON.
var ErrTransport = errors.New("transport error")

// DecodeError is returned when the server replied with a body that is not
// JSON.
type DecodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid JSON response (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("invalid JSON response (status %d): %q", e.StatusCode, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match decode failures too.
func (e *DecodeError) Is(target error) bool { return target == ErrTransport }
