// Package endpoint wraps ZeroMQ sockets in a connection abstraction with an
// explicit resource-lifecycle model.
//
// A Conn couples a transport context with a socket bound or connected to an
// address. The context is either created by the Conn itself (and terminated
// when the Conn closes) or supplied by the caller with WithContext, in which
// case the Conn never terminates it. Exactly one logical owner terminates a
// given context; Clone produces additional handles that share the socket but
// never own the context.
//
// Logical messages may span multiple frames. SendParts marks every frame but
// the last with the more-flag; Recv reports it per frame and RecvAll collects
// frames until it clears. A non-blocking receive with nothing pending is not
// an error: Recv returns ok=false instead.
//
// A single socket must not be used from multiple goroutines without external
// synchronization. Contexts may be shared across goroutines for creating
// further connections.
package endpoint
