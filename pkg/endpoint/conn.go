package endpoint

import (
	"log"
	"runtime"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"
)

const (
	// DefaultLinger bounds how long Close may block flushing unsent frames.
	DefaultLinger = 500 * time.Millisecond

	// finalizeLinger is the short flush bound used when a Conn is collected
	// without an explicit Close.
	finalizeLinger = 100 * time.Millisecond
)

// Conn is a messaging endpoint: a socket bound or connected to an address,
// plus the context it was created on.
type Conn struct {
	soc  *zmq.Socket
	ctx  *zmq.Context
	addr string

	// ownsCtx is true only if this Conn created its context; exactly one
	// logical owner terminates a given context.
	ownsCtx bool

	cfg config

	mu    sync.Mutex
	alive bool
}

// config holds construction-time defaults. Process-wide behavior such as the
// default send flags is explicit configuration here, not a build switch.
type config struct {
	ctx         *zmq.Context
	sendFlags   zmq.Flag
	closeLinger time.Duration
}

// ConnOption adjusts how Connect and Listen build a Conn.
type ConnOption func(*config)

// WithContext builds the Conn on an externally shared context. The Conn
// will never terminate it.
func WithContext(ctx *zmq.Context) ConnOption {
	return func(c *config) { c.ctx = ctx }
}

// WithSendFlags sets flags OR-ed into every send on the Conn, e.g.
// zmq.DONTWAIT for non-blocking sends by default.
func WithSendFlags(flags zmq.Flag) ConnOption {
	return func(c *config) { c.sendFlags = flags }
}

// WithCloseLinger overrides the linger applied by Close.
func WithCloseLinger(d time.Duration) ConnOption {
	return func(c *config) { c.closeLinger = d }
}

// Connect creates a socket of the given mode and connects it to addr.
// Without WithContext a new context is created and owned by the Conn.
func Connect(addr string, mode zmq.Type, opts ...ConnOption) (*Conn, error) {
	return newConn(addr, mode, false, opts)
}

// Listen creates a socket of the given mode and binds it to addr.
// Without WithContext a new context is created and owned by the Conn.
func Listen(addr string, mode zmq.Type, opts ...ConnOption) (*Conn, error) {
	return newConn(addr, mode, true, opts)
}

func newConn(addr string, mode zmq.Type, bind bool, opts []ConnOption) (*Conn, error) {
	cfg := config{closeLinger: DefaultLinger}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := cfg.ctx
	owns := false
	if ctx == nil {
		var err error
		ctx, err = zmq.NewContext()
		if err != nil {
			return nil, wrap("new context", err)
		}
		owns = true
	}

	soc, err := ctx.NewSocket(mode)
	if err != nil {
		if owns {
			discardContext(ctx)
		}
		return nil, wrap("new socket", err)
	}

	op := "connect"
	if bind {
		op = "bind"
		err = soc.Bind(addr)
	} else {
		err = soc.Connect(addr)
	}
	if err != nil {
		discardSocket(soc)
		if owns {
			discardContext(ctx)
		}
		return nil, wrap(op, err)
	}

	c := &Conn{
		soc:     soc,
		ctx:     ctx,
		addr:    addr,
		ownsCtx: owns,
		cfg:     cfg,
		alive:   true,
	}
	runtime.SetFinalizer(c, (*Conn).finalize)
	return c, nil
}

// Addr returns the address the Conn last connected or bound to.
func (c *Conn) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// Socket exposes the underlying socket handle for option access and
// socket-level I/O.
func (c *Conn) Socket() *zmq.Socket {
	return c.soc
}

// Context returns the context the Conn was built on.
func (c *Conn) Context() *zmq.Context {
	return c.ctx
}

// Alive reports whether the Conn has not yet been closed.
func (c *Conn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

// OwnsContext reports whether Close will terminate the Conn's context.
func (c *Conn) OwnsContext() bool {
	return c.ownsCtx
}

// Reconnect re-issues a connect to the stored address.
func (c *Conn) Reconnect() error {
	if err := c.guard(); err != nil {
		return err
	}
	return wrap("connect", c.soc.Connect(c.Addr()))
}

// ReconnectTo connects to addr and updates the stored address. On failure
// the stored address is left unchanged.
func (c *Conn) ReconnectTo(addr string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.soc.Connect(addr); err != nil {
		return wrap("connect", err)
	}
	c.setAddr(addr)
	return nil
}

// Bind binds to addr and updates the stored address. On failure the stored
// address is left unchanged. The caller must ensure the socket is not
// already bound to a conflicting address; this is not checked here.
func (c *Conn) Bind(addr string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.soc.Bind(addr); err != nil {
		return wrap("bind", err)
	}
	c.setAddr(addr)
	return nil
}

// Disconnect disconnects from the stored address.
func (c *Conn) Disconnect() error {
	if err := c.guard(); err != nil {
		return err
	}
	return wrap("disconnect", c.soc.Disconnect(c.Addr()))
}

// Unbind unbinds from the stored address.
func (c *Conn) Unbind() error {
	if err := c.guard(); err != nil {
		return err
	}
	return wrap("unbind", c.soc.Unbind(c.Addr()))
}

// Close flushes and closes the socket, bounded by the configured linger,
// and terminates the context if this Conn owns it. Closing an already
// closed Conn is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return nil
	}
	// Setting linger fails with ETERM once the context is terminating;
	// at that point the flush bound is moot and the close must proceed.
	if err := c.soc.SetLinger(c.cfg.closeLinger); err != nil && !isTerminating(err) {
		return wrap("close", err)
	}
	if err := c.soc.Close(); err != nil {
		return wrap("close", err)
	}
	c.alive = false
	runtime.SetFinalizer(c, nil)
	if c.ownsCtx {
		if err := c.ctx.Term(); err != nil {
			return wrap("terminate context", err)
		}
	}
	return nil
}

// Clone returns a second handle to the same socket. The clone shares the
// socket and address but never owns the context, so closing it does not
// terminate the context the original may own. Driving both handles from
// different goroutines without external synchronization is unsafe.
func (c *Conn) Clone() *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Conn{
		soc:   c.soc,
		ctx:   c.ctx,
		addr:  c.addr,
		cfg:   c.cfg,
		alive: c.alive,
	}
}

// finalize is the best-effort teardown for Conns collected without an
// explicit Close. Failures here are logged, never raised.
func (c *Conn) finalize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return
	}
	c.alive = false
	if err := c.soc.SetLinger(finalizeLinger); err != nil && !isTerminating(err) {
		log.Printf("endpoint: finalizer: set linger: %v", err)
	}
	if err := c.soc.Close(); err != nil {
		log.Printf("endpoint: finalizer: close socket: %v", err)
	}
	if c.ownsCtx {
		if err := c.ctx.Term(); err != nil {
			log.Printf("endpoint: finalizer: terminate context: %v", err)
		}
	}
}

// guard rejects operations on a closed Conn.
func (c *Conn) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return ErrClosed
	}
	return nil
}

func (c *Conn) setAddr(addr string) {
	c.mu.Lock()
	c.addr = addr
	c.mu.Unlock()
}

// discardSocket releases a socket that never reached a caller, logging
// rather than returning failures.
func discardSocket(soc *zmq.Socket) {
	if err := soc.SetLinger(0); err != nil {
		log.Printf("endpoint: discarding socket: %v", err)
	}
	if err := soc.Close(); err != nil {
		log.Printf("endpoint: discarding socket: %v", err)
	}
}
