package endpoint

import (
	"errors"
	"fmt"
	"syscall"

	zmq "github.com/pebbe/zmq4"
)

// ErrClosed is returned when an operation is attempted on a Conn that has
// already been closed. The transport itself never sees the second call.
var ErrClosed = errors.New("endpoint: connection closed")

// TransportError reports a failure from the underlying transport. It carries
// the transport's numeric error code; the message text comes from the
// transport's own error-string facility.
type TransportError struct {
	// Op names the operation that failed ("connect", "send", ...).
	Op string
	// Errno is the transport's error code.
	Errno zmq.Errno
}

// Error returns the rendered failure message.
func (e *TransportError) Error() string {
	return fmt.Sprintf("endpoint: %s: %v (errno %d)", e.Op, e.Errno, uintptr(e.Errno))
}

// Unwrap returns the raw transport errno.
func (e *TransportError) Unwrap() error {
	return e.Errno
}

// Temporary reports whether the failure may clear on retry.
func (e *TransportError) Temporary() bool {
	switch e.Errno {
	case zmq.Errno(syscall.EAGAIN), zmq.Errno(syscall.EINTR):
		return true
	}
	return false
}

// IsContextTerminated reports whether err is the transport's context
// termination condition. The proxy relay and any call blocked on a socket
// report intentional shutdown through this code rather than a distinct
// success path.
func IsContextTerminated(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Errno == zmq.ETERM
}

// wrap converts a transport failure into a *TransportError. A nil err maps
// to nil so call sites can wrap unconditionally.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Errno: zmq.AsErrno(err)}
}

// isUnavailable reports the "resource temporarily unavailable" receive
// outcome, which is a non-error at this layer.
func isUnavailable(err error) bool {
	return zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN)
}

// isTerminating reports the context-termination errno on a raw transport
// error.
func isTerminating(err error) bool {
	return zmq.AsErrno(err) == zmq.ETERM
}
