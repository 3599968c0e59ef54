package endpoint_test

import (
	"testing"

	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"

	"github.com/omochice/zmqlink/pkg/endpoint"
)

// inprocAddr returns a unique in-process endpoint so tests never collide.
func inprocAddr() string {
	return "inproc://endpoint-test-" + uuid.NewString()
}

// newPair builds a connected PAIR over a shared in-process context. The
// server owns the context; the client is built on it with WithContext.
// Cleanup closes the client before the server so that terminating the
// owned context cannot block on a still-open socket.
func newPair(t *testing.T) (server, client *endpoint.Conn) {
	t.Helper()

	addr := inprocAddr()
	server, err := endpoint.Listen(addr, zmq.PAIR)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	client, err = endpoint.Connect(addr, zmq.PAIR, endpoint.WithContext(server.Context()))
	if err != nil {
		server.Close()
		t.Fatalf("Connect() error = %v", err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("client Close() error = %v", err)
		}
		if err := server.Close(); err != nil {
			t.Errorf("server Close() error = %v", err)
		}
	})
	return server, client
}
