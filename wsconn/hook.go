package wsconn

import (
	"net"

	"github.com/coregx/wsrelay/wsproto"
)

// Hook is the sole extension point between this package and application
// code. A value passed to Conn.Serve may implement any subset of the
// interfaces below; each is detected independently via a type assertion,
// so a hook that only cares about messages need not implement the other
// three. This mirrors the optional-capability pattern net/http uses for
// http.Hijacker/http.Flusher, and replaces a single mandatory trait with
// four no-ops the caller would otherwise have had to stub out.
type Hook interface{}

// HandshakeHook is notified once the handshake has completed and the
// connection has been wired up, before any messages are dispatched.
type HandshakeHook interface {
	AfterHandshake()
}

// DropHook is notified once the connection has finished tearing down.
// It runs synchronously on the teardown goroutine; slow work here delays
// that goroutine's exit.
type DropHook interface {
	AfterDrop()
}

// MessageHook is notified for every decoded application message, in
// receive order.
type MessageHook interface {
	OnMessage(msg *wsproto.Message)
}

// ChannelsHook receives a send function for queuing outbound frames and
// the underlying net.Conn, so application code can push messages onto the
// connection from outside the read loop (e.g. from a broker's broadcast
// goroutine).
type ChannelsHook interface {
	SetChannels(send func([]byte) error, conn net.Conn)
}
