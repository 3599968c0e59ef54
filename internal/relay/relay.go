package relay

import (
	"log"

	zmq "github.com/pebbe/zmq4"

	"github.com/omochice/zmqlink/pkg/endpoint"
)

// Relay owns the shared context and the connections the proxy runs over.
type Relay struct {
	ctx     *zmq.Context
	front   *endpoint.Conn
	back    *endpoint.Conn
	capture *endpoint.Conn
}

// New builds the relay's context and connections from cfg. The context is
// owned by the Relay itself, not by any single connection, so Shutdown can
// terminate it to unblock Run.
func New(cfg *Config) (*Relay, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, err := endpoint.NewContext(endpoint.ContextConfig{IOThreads: cfg.IOThreads})
	if err != nil {
		return nil, err
	}

	r := &Relay{ctx: ctx}
	r.front, err = open(&cfg.Frontend, ctx)
	if err != nil {
		r.release()
		return nil, err
	}
	r.back, err = open(&cfg.Backend, ctx)
	if err != nil {
		r.release()
		return nil, err
	}
	if cfg.Capture != nil {
		r.capture, err = open(cfg.Capture, ctx)
		if err != nil {
			r.release()
			return nil, err
		}
	}
	return r, nil
}

// Run blocks relaying traffic until Shutdown is called from another
// goroutine or the proxy fails. Intentional shutdown returns nil; any other
// proxy failure is returned to the caller. Run closes the relay's
// connections before returning so that a pending Shutdown can complete.
func (r *Relay) Run() error {
	err := endpoint.Proxy(r.front, r.back, r.capture)
	r.closeConns()
	if endpoint.IsContextTerminated(err) {
		return nil
	}
	return err
}

// Shutdown terminates the shared context, unblocking Run. It blocks until
// Run has closed the relay's connections.
func (r *Relay) Shutdown() {
	if err := r.ctx.Term(); err != nil {
		log.Printf("relay: terminating context: %v", err)
	}
}

func (r *Relay) closeConns() {
	for _, c := range []*endpoint.Conn{r.front, r.back, r.capture} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			log.Printf("relay: closing connection to %s: %v", c.Addr(), err)
		}
	}
}

// release tears down a partially constructed relay.
func (r *Relay) release() {
	r.closeConns()
	if err := r.ctx.Term(); err != nil {
		log.Printf("relay: terminating context: %v", err)
	}
}

func open(ep *EndpointConfig, ctx *zmq.Context) (*endpoint.Conn, error) {
	mode, err := endpoint.ModeFromString(ep.Mode)
	if err != nil {
		return nil, err
	}
	if ep.Bind {
		return endpoint.Listen(ep.Address, mode, endpoint.WithContext(ctx))
	}
	return endpoint.Connect(ep.Address, mode, endpoint.WithContext(ctx))
}
