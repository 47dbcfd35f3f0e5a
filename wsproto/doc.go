// Package wsproto implements the wire-level mechanics of RFC 6455: frame
// masking, frame decoding and encoding, and the HTTP/1.1 Upgrade handshake.
//
// It performs no I/O loops of its own and owns no sockets; it operates on
// byte slices handed to it by a caller (see package wsconn for the
// per-connection event loop built on top of it).
//
// RFC Reference: https://datatracker.ietf.org/doc/html/rfc6455
package wsproto
