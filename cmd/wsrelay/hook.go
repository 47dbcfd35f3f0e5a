package main

import (
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coregx/wsrelay/internal/broker"
	"github.com/coregx/wsrelay/wsconn"
	"github.com/coregx/wsrelay/wsproto"
)

// relayHook implements wsconn.HandshakeHook, wsconn.DropHook,
// wsconn.MessageHook, and wsconn.ChannelsHook: every text message a
// client sends is rebroadcast to every client registered with the
// broker, including the sender.
type relayHook struct {
	conn   *wsconn.Conn
	broker *broker.Broker
	uri    string
	client *broker.Client
}

func (h *relayHook) SetChannels(send func([]byte) error, _ net.Conn) {
	h.client = h.broker.NewClient(send)
}

func (h *relayHook) AfterHandshake() {
	log.Info().Stringer("client_id", h.clientID()).Str("uri", h.uri).Msg("client connected")
}

func (h *relayHook) OnMessage(msg *wsproto.Message) {
	if msg.Kind != wsproto.MessageText {
		return
	}
	h.broker.BroadcastText(msg.Text)
}

func (h *relayHook) AfterDrop() {
	if h.client != nil {
		h.broker.Unregister(h.client.ID)
	}
	log.Info().Stringer("client_id", h.clientID()).Msg("client disconnected")
}

func (h *relayHook) clientID() uuid.UUID {
	if h.client == nil {
		return uuid.Nil
	}
	return h.client.ID
}
