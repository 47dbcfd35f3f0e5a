package wsconn

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/coregx/wsrelay/wsproto"
)

// state is the one-way lifecycle a Conn moves through.
type state int32

const (
	stateInit state = iota
	stateWired
	stateRunning
	stateDraining
	stateTerminal
)

// Conn is one accepted, handshake-completed WebSocket connection. It owns
// the socket, a buffered reader for peek/read-exact framing, and the
// outbound queue its writer goroutine drains.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	out    *outbox
	state  atomic.Int32
}

// defaultReadBufferSize is used by NewConn; callers that need a different
// per-connection read buffer size should use NewConnSize.
const defaultReadBufferSize = 4096

// NewConn wraps an already handshake-completed net.Conn using the default
// read buffer size. Serve must be called to drive the connection's
// lifecycle.
func NewConn(c net.Conn) *Conn {
	return NewConnSize(c, defaultReadBufferSize)
}

// NewConnSize is NewConn with an explicit read buffer size, for callers
// that size it from their own configuration.
func NewConnSize(c net.Conn, bufSize int) *Conn {
	return &Conn{
		conn:   c,
		reader: bufio.NewReaderSize(c, bufSize),
		out:    newOutbox(),
	}
}

// Send queues buf for delivery by the writer goroutine. Safe to call
// concurrently with Serve's own reader loop, and from any goroutine a
// ChannelsHook hands the send function to.
func (c *Conn) Send(buf []byte) error {
	if state(c.state.Load()) >= stateDraining {
		return errors.New("wsconn: connection is draining")
	}
	c.out.send(buf)
	return nil
}

// Serve wires up the connection, then runs its reader loop and writer
// goroutine until the connection closes, invoking whichever optional hook
// interfaces hook implements at the appropriate lifecycle points:
//
//	Init -> Wired -> Running -> Draining -> Terminal
//
// AfterHandshake happens-before every OnMessage call; every OnMessage
// call happens-before AfterDrop. Serve returns nil on an orderly close
// (a close frame, or the peer ending the transport) and a non-nil error
// for anything else.
func (c *Conn) Serve(hook Hook) error {
	c.state.Store(int32(stateWired))

	if ch, ok := hook.(ChannelsHook); ok {
		ch.SetChannels(c.Send, c.conn)
	}
	if hh, ok := hook.(HandshakeHook); ok {
		hh.AfterHandshake()
	}

	c.state.Store(int32(stateRunning))

	var g errgroup.Group
	g.Go(func() error {
		// A write failure means the socket is no longer usable; close it
		// so the reader's blocked Peek/ReadFull unblocks with an error
		// instead of waiting forever for a peer that will never answer.
		err := c.runWriter()
		if err != nil {
			_ = c.conn.Close()
		}
		return err
	})
	g.Go(func() error {
		// The reader is what learns a connection is actually done (close
		// frame or transport error); closing the outbox here is what lets
		// the writer goroutine drain and exit instead of blocking forever.
		err := c.runReader(hook)
		c.out.close()
		return err
	})

	err := g.Wait()

	// Teardown closes the socket without sending a close frame back to the
	// peer, whether the loop ended on the peer's close frame, a malformed
	// frame, or a transport error.
	_ = c.conn.Close()

	c.state.Store(int32(stateDraining))
	if dh, ok := hook.(DropHook); ok {
		dh.AfterDrop()
	}
	c.state.Store(int32(stateTerminal))

	if errors.Is(err, wsproto.ErrConnectionClosed) {
		return nil
	}
	return err
}

// runWriter drains the outbox and writes each queued buffer whole to the
// socket, never interleaving two sends at the byte level. It exits once
// the outbox is closed and drained, or on the first write failure.
func (c *Conn) runWriter() error {
	for {
		buf, ok := c.out.recv()
		if !ok {
			return nil
		}
		if _, err := c.conn.Write(buf); err != nil {
			return wsproto.ClassifyNetError(err)
		}
	}
}

// runReader repeatedly decodes the next message off the socket and
// dispatches it to hook's MessageHook, if any, until an orderly close or
// a transport error ends the loop.
func (c *Conn) runReader(hook Hook) error {
	mh, hasMessageHook := hook.(MessageHook)

	for {
		msg, err := c.nextMessage()
		if err != nil {
			return err
		}
		if msg.Kind == wsproto.MessageClose {
			return wsproto.ErrConnectionClosed
		}
		if hasMessageHook {
			mh.OnMessage(&msg)
		}
	}
}

// nextMessage implements the peek/size/read-exact algorithm: peek 2 bytes
// to catch the fast-path close indicator, peek exactly the HeaderLen bytes
// the header declares to learn the frame's length without consuming it, then read
// exactly that many bytes before decoding.
func (c *Conn) nextMessage() (wsproto.Message, error) {
	head, err := c.reader.Peek(2)
	if err != nil {
		if len(head) == 0 {
			return wsproto.Message{}, wsproto.ErrConnectionClosed
		}
		return wsproto.Message{}, wsproto.ClassifyNetError(err)
	}
	if head[0] == 0x88 {
		return wsproto.Message{Kind: wsproto.MessageClose}, nil
	}

	headLen, err := wsproto.HeaderLen(head)
	if err != nil {
		return wsproto.Message{}, err
	}

	peeked, err := c.reader.Peek(headLen)
	if err != nil {
		return wsproto.Message{}, wsproto.ClassifyNetError(err)
	}

	fullLen, err := wsproto.PeekFrameLength(peeked)
	if err != nil {
		return wsproto.Message{}, err
	}

	buf := make([]byte, fullLen)
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return wsproto.Message{}, wsproto.ClassifyNetError(err)
	}

	f, err := wsproto.DecodeFrame(buf)
	if err != nil {
		if errors.Is(err, wsproto.ErrConnectionClosed) {
			return wsproto.Message{Kind: wsproto.MessageClose}, nil
		}
		return wsproto.Message{}, err
	}

	return wsproto.GetMessage(f), nil
}
