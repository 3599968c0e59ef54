package endpoint

import (
	"fmt"
	"strings"

	zmq "github.com/pebbe/zmq4"
)

// ModeFromString parses a socket mode name as used in configuration files,
// e.g. "PAIR", "push" or "Router".
func ModeFromString(s string) (zmq.Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PAIR":
		return zmq.PAIR, nil
	case "PUB":
		return zmq.PUB, nil
	case "SUB":
		return zmq.SUB, nil
	case "REQ":
		return zmq.REQ, nil
	case "REP":
		return zmq.REP, nil
	case "DEALER":
		return zmq.DEALER, nil
	case "ROUTER":
		return zmq.ROUTER, nil
	case "PULL":
		return zmq.PULL, nil
	case "PUSH":
		return zmq.PUSH, nil
	case "XPUB":
		return zmq.XPUB, nil
	case "XSUB":
		return zmq.XSUB, nil
	case "STREAM":
		return zmq.STREAM, nil
	default:
		return 0, fmt.Errorf("endpoint: unknown socket mode %q", s)
	}
}
