package endpoint

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"
)

// newInprocAddr returns a unique in-process endpoint so tests never collide.
func newInprocAddr() string {
	return "inproc://conn-test-" + uuid.NewString()
}

func TestClose_MarksNotAlive(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	if !c.Alive() {
		t.Fatal("Alive() = false before Close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if c.Alive() {
		t.Error("Alive() = true after Close")
	}
}

func TestClose_Twice(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil no-op", err)
	}
}

func TestFinalize_AfterCloseIsNoOp(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The liveness flag guards the finalizer: no second close, no second
	// context termination.
	c.finalize()
	if c.Alive() {
		t.Error("Alive() = true after finalize")
	}
}

func TestClose_TerminatesOwnedContext(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if !c.OwnsContext() {
		t.Fatal("OwnsContext() = false for internally created context")
	}

	ctx := c.Context()
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := ctx.NewSocket(zmq.PAIR); err == nil {
		t.Error("NewSocket() on terminated context succeeded, want error")
	}
}

func TestClose_PreservesExternalContext(t *testing.T) {
	ctx, err := NewContext(ContextConfig{})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	defer func() {
		if err := ctx.Term(); err != nil {
			t.Errorf("Term() error = %v", err)
		}
	}()

	c, err := Listen(newInprocAddr(), zmq.PAIR, WithContext(ctx))
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if c.OwnsContext() {
		t.Fatal("OwnsContext() = true for externally supplied context")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The context must survive the Conn that was built on it.
	soc, err := ctx.NewSocket(zmq.PAIR)
	if err != nil {
		t.Fatalf("NewSocket() after Close error = %v, want usable context", err)
	}
	if err := soc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestClone_DropsContextOwnership(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	clone := c.Clone()
	if clone.OwnsContext() {
		t.Error("clone.OwnsContext() = true, want false")
	}
	if !clone.Alive() {
		t.Error("clone.Alive() = false, want true")
	}
	if clone.Socket() != c.Socket() {
		t.Error("clone does not share the socket handle")
	}
	if got, want := clone.Addr(), c.Addr(); got != want {
		t.Errorf("clone.Addr() = %q, want %q", got, want)
	}

	// Closing the clone must not terminate the original's context.
	if err := clone.Close(); err != nil {
		t.Fatalf("clone.Close() error = %v", err)
	}
	soc, err := c.Context().NewSocket(zmq.PAIR)
	if err != nil {
		t.Fatalf("NewSocket() after clone close error = %v, want usable context", err)
	}
	if err := soc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// The clone closed the shared socket, so tear the owner down by hand.
	c.mu.Lock()
	c.alive = false
	c.mu.Unlock()
	if err := c.ctx.Term(); err != nil {
		t.Errorf("Term() error = %v", err)
	}
}

func TestReconnectTo_UpdatesAddress(t *testing.T) {
	first := "tcp://127.0.0.1:34501"
	second := "tcp://127.0.0.1:34502"

	c, err := Connect(first, zmq.PAIR)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if got := c.Addr(); got != first {
		t.Fatalf("Addr() = %q, want %q", got, first)
	}
	if err := c.ReconnectTo(second); err != nil {
		t.Fatalf("ReconnectTo() error = %v", err)
	}
	if got := c.Addr(); got != second {
		t.Errorf("Addr() = %q, want %q", got, second)
	}
}

func TestReconnectTo_KeepsAddressOnFailure(t *testing.T) {
	addr := "tcp://127.0.0.1:34503"
	c, err := Connect(addr, zmq.PAIR)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	err = c.ReconnectTo("bogus://nowhere")
	if err == nil {
		t.Fatal("ReconnectTo() with invalid endpoint succeeded, want error")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("ReconnectTo() error = %T, want *TransportError", err)
	}
	if got := c.Addr(); got != addr {
		t.Errorf("Addr() = %q after failed reconnect, want %q", got, addr)
	}
}

func TestBind_UpdatesAddress(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer c.Close()

	next := newInprocAddr()
	if err := c.Bind(next); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if got := c.Addr(); got != next {
		t.Errorf("Addr() = %q, want %q", got, next)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	c, err := Listen(newInprocAddr(), zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := c.Send([]byte("x"), 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() error = %v, want ErrClosed", err)
	}
	if _, _, err := c.Recv(zmq.DONTWAIT); !errors.Is(err, ErrClosed) {
		t.Errorf("Recv() error = %v, want ErrClosed", err)
	}
	if err := c.Reconnect(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reconnect() error = %v, want ErrClosed", err)
	}
	if err := c.SetOption(OptLinger, DefaultLinger); !errors.Is(err, ErrClosed) {
		t.Errorf("SetOption() error = %v, want ErrClosed", err)
	}
}

func TestListen_InvalidAddress(t *testing.T) {
	c, err := Listen("bogus://nowhere", zmq.PAIR)
	if err == nil {
		c.Close()
		t.Fatal("Listen() with invalid endpoint succeeded, want error")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("Listen() error = %T, want *TransportError", err)
	}
}
