package endpoint

import (
	"log"

	zmq "github.com/pebbe/zmq4"
)

// ContextConfig tunes a transport context at creation time. Zero values
// leave the transport's defaults in place.
type ContextConfig struct {
	// IOThreads is the size of the context's I/O thread pool.
	IOThreads int
	// MaxSockets caps the number of sockets the context will allow.
	MaxSockets int
}

// NewContext creates a transport context for sharing across connections.
// Connections built on it with WithContext never terminate it; the caller
// terminates it once all of them are closed.
func NewContext(cfg ContextConfig) (*zmq.Context, error) {
	ctx, err := zmq.NewContext()
	if err != nil {
		return nil, wrap("new context", err)
	}
	if cfg.IOThreads > 0 {
		if err := ctx.SetIoThreads(cfg.IOThreads); err != nil {
			discardContext(ctx)
			return nil, wrap("set io threads", err)
		}
	}
	if cfg.MaxSockets > 0 {
		if err := ctx.SetMaxSockets(cfg.MaxSockets); err != nil {
			discardContext(ctx)
			return nil, wrap("set max sockets", err)
		}
	}
	return ctx, nil
}

// discardContext releases a context that never reached a caller. The
// construction error is the one the caller sees, so failures here are only
// logged.
func discardContext(ctx *zmq.Context) {
	if err := ctx.Term(); err != nil {
		log.Printf("endpoint: discarding context: %v", err)
	}
}
