package endpoint

import (
	"errors"
	"fmt"
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Option identifies a socket configuration key. Every option declares the
// value kind it carries, and SetOption/GetOption validate against it before
// touching the transport, so a mismatched call fails fast instead of
// truncating silently at the transport level.
type Option int

const (
	// OptLinger is how long a closing socket may block flushing unsent
	// frames (duration).
	OptLinger Option = iota
	// OptRecvTimeout bounds blocking receives (duration; Forever for none).
	OptRecvTimeout
	// OptSendTimeout bounds blocking sends (duration; Forever for none).
	OptSendTimeout
	// OptRecvHWM is the inbound high-water mark (int).
	OptRecvHWM
	// OptSendHWM is the outbound high-water mark (int).
	OptSendHWM
	// OptImmediate queues messages only to completed connections (bool).
	OptImmediate
	// OptRoutingID is the socket's routing identity (string).
	OptRoutingID
	// OptSubscribe adds a subscription filter (string, write-only).
	OptSubscribe
	// OptUnsubscribe removes a subscription filter (string, write-only).
	OptUnsubscribe
	// OptEvents is the socket's readiness state (read-only).
	OptEvents
	// OptLastEndpoint is the last endpoint bound or connected (string,
	// read-only).
	OptLastEndpoint
)

// optionKind tags the value representation an option expects.
type optionKind int

const (
	kindDuration optionKind = iota
	kindInt
	kindBool
	kindString
	kindState
)

func (k optionKind) String() string {
	switch k {
	case kindDuration:
		return "duration"
	case kindInt:
		return "int"
	case kindBool:
		return "bool"
	case kindString:
		return "string"
	case kindState:
		return "state"
	default:
		return "unknown"
	}
}

// String returns the option's name.
func (o Option) String() string {
	switch o {
	case OptLinger:
		return "linger"
	case OptRecvTimeout:
		return "recv-timeout"
	case OptSendTimeout:
		return "send-timeout"
	case OptRecvHWM:
		return "recv-hwm"
	case OptSendHWM:
		return "send-hwm"
	case OptImmediate:
		return "immediate"
	case OptRoutingID:
		return "routing-id"
	case OptSubscribe:
		return "subscribe"
	case OptUnsubscribe:
		return "unsubscribe"
	case OptEvents:
		return "events"
	case OptLastEndpoint:
		return "last-endpoint"
	default:
		return fmt.Sprintf("option(%d)", int(o))
	}
}

func (o Option) kind() optionKind {
	switch o {
	case OptLinger, OptRecvTimeout, OptSendTimeout:
		return kindDuration
	case OptRecvHWM, OptSendHWM:
		return kindInt
	case OptImmediate:
		return kindBool
	case OptRoutingID, OptSubscribe, OptUnsubscribe, OptLastEndpoint:
		return kindString
	case OptEvents:
		return kindState
	default:
		return optionKind(-1)
	}
}

// Errors reported by the option accessor before any transport call is made.
var (
	ErrUnknownOption   = errors.New("endpoint: unknown option")
	ErrOptionReadOnly  = errors.New("endpoint: option is read-only")
	ErrOptionWriteOnly = errors.New("endpoint: option is write-only")
)

// OptionValueError reports a value whose type does not match the option's
// declared kind.
type OptionValueError struct {
	Option Option
	Value  any
}

func (e *OptionValueError) Error() string {
	return fmt.Sprintf("endpoint: option %s takes a %s value, got %T",
		e.Option, e.Option.kind(), e.Value)
}

// SetOption sets a socket option, validating the value's type against the
// option's declared kind first.
func SetOption(soc *zmq.Socket, opt Option, value any) error {
	switch opt.kind() {
	case kindDuration:
		d, ok := value.(time.Duration)
		if !ok {
			return &OptionValueError{Option: opt, Value: value}
		}
		switch opt {
		case OptLinger:
			return wrap("set option", soc.SetLinger(d))
		case OptRecvTimeout:
			return wrap("set option", soc.SetRcvtimeo(d))
		case OptSendTimeout:
			return wrap("set option", soc.SetSndtimeo(d))
		}
	case kindInt:
		n, ok := value.(int)
		if !ok {
			return &OptionValueError{Option: opt, Value: value}
		}
		switch opt {
		case OptRecvHWM:
			return wrap("set option", soc.SetRcvhwm(n))
		case OptSendHWM:
			return wrap("set option", soc.SetSndhwm(n))
		}
	case kindBool:
		b, ok := value.(bool)
		if !ok {
			return &OptionValueError{Option: opt, Value: value}
		}
		return wrap("set option", soc.SetImmediate(b))
	case kindString:
		s, ok := value.(string)
		if !ok {
			return &OptionValueError{Option: opt, Value: value}
		}
		switch opt {
		case OptRoutingID:
			return wrap("set option", soc.SetIdentity(s))
		case OptSubscribe:
			return wrap("set option", soc.SetSubscribe(s))
		case OptUnsubscribe:
			return wrap("set option", soc.SetUnsubscribe(s))
		case OptLastEndpoint:
			return fmt.Errorf("%w: %s", ErrOptionReadOnly, opt)
		}
	case kindState:
		return fmt.Errorf("%w: %s", ErrOptionReadOnly, opt)
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, opt)
}

// GetOption reads a socket option. The returned value's type matches the
// option's declared kind.
func GetOption(soc *zmq.Socket, opt Option) (any, error) {
	var (
		value any
		err   error
	)
	switch opt {
	case OptLinger:
		value, err = soc.GetLinger()
	case OptRecvTimeout:
		value, err = soc.GetRcvtimeo()
	case OptSendTimeout:
		value, err = soc.GetSndtimeo()
	case OptRecvHWM:
		value, err = soc.GetRcvhwm()
	case OptSendHWM:
		value, err = soc.GetSndhwm()
	case OptImmediate:
		value, err = soc.GetImmediate()
	case OptRoutingID:
		value, err = soc.GetIdentity()
	case OptEvents:
		value, err = soc.GetEvents()
	case OptLastEndpoint:
		value, err = soc.GetLastEndpoint()
	case OptSubscribe, OptUnsubscribe:
		return nil, fmt.Errorf("%w: %s", ErrOptionWriteOnly, opt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, opt)
	}
	if err != nil {
		return nil, wrap("get option", err)
	}
	return value, nil
}

// SetOption sets an option on the Conn's socket.
func (c *Conn) SetOption(opt Option, value any) error {
	if err := c.guard(); err != nil {
		return err
	}
	return SetOption(c.soc, opt, value)
}

// GetOption reads an option from the Conn's socket.
func (c *Conn) GetOption(opt Option) (any, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return GetOption(c.soc, opt)
}
