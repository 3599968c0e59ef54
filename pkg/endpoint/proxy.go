package endpoint

import (
	zmq "github.com/pebbe/zmq4"
)

// Proxy runs the transport's built-in bidirectional relay between front and
// back, mirroring all traffic to capture when it is non-nil. It blocks the
// calling goroutine until the sockets' context is terminated from another
// goroutine or the relay fails.
//
// Proxy always returns a *TransportError, even on intentional shutdown: the
// transport reports clean context termination through the same channel as a
// fault. Use IsContextTerminated to tell them apart.
func Proxy(front, back, capture *Conn) error {
	if err := front.guard(); err != nil {
		return err
	}
	if err := back.guard(); err != nil {
		return err
	}
	var mirror *zmq.Socket
	if capture != nil {
		if err := capture.guard(); err != nil {
			return err
		}
		mirror = capture.soc
	}
	err := zmq.Proxy(front.soc, back.soc, mirror)
	if err == nil {
		// The relay only returns on termination or failure; normalize the
		// termination case if the binding ever reports it as success.
		return &TransportError{Op: "proxy", Errno: zmq.ETERM}
	}
	return wrap("proxy", err)
}
