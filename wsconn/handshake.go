package wsconn

import (
	"net"

	"github.com/coregx/wsrelay/wsproto"
)

// Accept performs the RFC 6455 Upgrade handshake over an already-accepted
// TCP connection and, on success, returns a Conn ready for Serve. The
// handshake request is read in a single read (see wsproto.ReadRequest);
// c is left open on failure so the caller can decide how to close it
// (e.g. after writing its own error response).
func Accept(c net.Conn) (*Conn, *wsproto.Request, error) {
	return AcceptSize(c, defaultReadBufferSize)
}

// AcceptSize is Accept with an explicit per-connection read buffer size.
func AcceptSize(c net.Conn, bufSize int) (*Conn, *wsproto.Request, error) {
	raw, err := wsproto.ReadRequest(c)
	if err != nil {
		return nil, nil, err
	}

	req, err := wsproto.ParseRequest(raw)
	if err != nil {
		return nil, nil, err
	}

	key, _ := req.Header("Sec-WebSocket-Key")
	if err := wsproto.WriteHandshakeResponse(c, key); err != nil {
		return nil, req, err
	}

	return NewConnSize(c, bufSize), req, nil
}
