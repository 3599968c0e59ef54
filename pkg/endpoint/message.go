package endpoint

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Receive-timeout sentinels for RecvTimeout.
const (
	// Forever blocks until a frame arrives.
	Forever = time.Duration(-1)
	// CurrentTimeout leaves the socket's configured receive timeout in
	// place. Any value below Forever behaves the same.
	CurrentTimeout = time.Duration(-2)
)

// Frame is a single unit of transmission. More is set when further frames
// belong to the same logical message.
type Frame struct {
	Data []byte
	More bool
}

// Send transmits payload as one frame. The payload is copied into a
// transport-owned frame before transmission. An empty payload is a valid
// zero-length frame.
func Send(soc *zmq.Socket, payload []byte, flags zmq.Flag) error {
	if _, err := soc.SendBytes(payload, flags); err != nil {
		return wrap("send", err)
	}
	return nil
}

// SendParts transmits each part as a frame of one logical message, marking
// all but the last with the more-flag.
func SendParts(soc *zmq.Socket, flags zmq.Flag, parts ...[]byte) error {
	for i, part := range parts {
		f := flags
		if i < len(parts)-1 {
			f |= zmq.SNDMORE
		}
		if err := Send(soc, part, f); err != nil {
			return err
		}
	}
	return nil
}

// Recv receives one frame. ok is false when a non-blocking receive found
// nothing pending; that outcome is not an error. Any other transport
// failure is returned as a *TransportError.
func Recv(soc *zmq.Socket, flags zmq.Flag) (Frame, bool, error) {
	data, err := soc.RecvBytes(flags)
	if err != nil {
		if isUnavailable(err) {
			return Frame{}, false, nil
		}
		return Frame{}, false, wrap("recv", err)
	}
	more, err := soc.GetRcvmore()
	if err != nil {
		return Frame{}, false, wrap("recv", err)
	}
	return Frame{Data: data, More: more}, true, nil
}

// TryRecv polls the socket's readiness state and only attempts a receive
// when input is pending, avoiding the receive call entirely when idle.
func TryRecv(soc *zmq.Socket, flags zmq.Flag) (Frame, bool, error) {
	state, err := soc.GetEvents()
	if err != nil {
		return Frame{}, false, wrap("recv", err)
	}
	if state&zmq.POLLIN == 0 {
		return Frame{}, false, nil
	}
	return Recv(soc, flags)
}

// RecvTimeout receives one frame, blocking at most timeout. Forever blocks
// indefinitely; CurrentTimeout (or anything below Forever) uses the
// socket's existing setting. The socket's configured receive timeout is
// restored before returning whenever this call changed it, on every exit
// path, so a single call never corrupts the socket's configuration.
func RecvTimeout(soc *zmq.Socket, timeout time.Duration, flags zmq.Flag) (frame Frame, ok bool, err error) {
	if timeout >= 0 || timeout == Forever {
		prev, gerr := soc.GetRcvtimeo()
		if gerr != nil {
			return Frame{}, false, wrap("recv timeout", gerr)
		}
		if prev != timeout {
			if serr := soc.SetRcvtimeo(timeout); serr != nil {
				return Frame{}, false, wrap("recv timeout", serr)
			}
			defer func() {
				if rerr := soc.SetRcvtimeo(prev); rerr != nil && err == nil {
					err = wrap("restore recv timeout", rerr)
				}
			}()
		}
	}
	return Recv(soc, flags)
}

// RecvAll receives frames until the more-flag clears and returns their
// payloads in order. If the very first receive finds nothing pending the
// result is an empty, non-nil slice.
func RecvAll(soc *zmq.Socket, flags zmq.Flag) ([][]byte, error) {
	parts := make([][]byte, 0, 4)
	for {
		frame, ok, err := Recv(soc, flags)
		if err != nil {
			return nil, err
		}
		if !ok {
			return parts, nil
		}
		parts = append(parts, frame.Data)
		if !frame.More {
			return parts, nil
		}
	}
}

// Send transmits payload as one frame, OR-ing in the Conn's default send
// flags.
func (c *Conn) Send(payload []byte, flags zmq.Flag) error {
	if err := c.guard(); err != nil {
		return err
	}
	return Send(c.soc, payload, flags|c.cfg.sendFlags)
}

// SendParts transmits parts as one logical message.
func (c *Conn) SendParts(parts ...[]byte) error {
	if err := c.guard(); err != nil {
		return err
	}
	return SendParts(c.soc, c.cfg.sendFlags, parts...)
}

// Recv receives one frame on the Conn's socket.
func (c *Conn) Recv(flags zmq.Flag) (Frame, bool, error) {
	if err := c.guard(); err != nil {
		return Frame{}, false, err
	}
	return Recv(c.soc, flags)
}

// TryRecv receives one frame only if input is already pending.
func (c *Conn) TryRecv(flags zmq.Flag) (Frame, bool, error) {
	if err := c.guard(); err != nil {
		return Frame{}, false, err
	}
	return TryRecv(c.soc, flags)
}

// RecvTimeout receives one frame, blocking at most timeout.
func (c *Conn) RecvTimeout(timeout time.Duration, flags zmq.Flag) (Frame, bool, error) {
	if err := c.guard(); err != nil {
		return Frame{}, false, err
	}
	return RecvTimeout(c.soc, timeout, flags)
}

// RecvAll receives one whole logical message.
func (c *Conn) RecvAll(flags zmq.Flag) ([][]byte, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return RecvAll(c.soc, flags)
}
