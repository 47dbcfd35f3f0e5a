// Package wsconn drives the per-connection event loop on top of wsproto:
// reading frames off a socket, dispatching decoded messages to a
// user-supplied hook, and queuing outbound frames to a dedicated writer
// goroutine.
package wsconn
