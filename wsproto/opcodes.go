package wsproto

// Opcode values defined in RFC 6455 Section 5.2.
const (
	// OpcodeContinuation indicates a continuation frame (RFC 6455 Section 5.4).
	OpcodeContinuation = 0x0

	// OpcodeText indicates a text data frame (RFC 6455 Section 5.6).
	OpcodeText = 0x1

	// OpcodeBinary indicates a binary data frame (RFC 6455 Section 5.6).
	OpcodeBinary = 0x2

	// OpcodeClose indicates a close control frame (RFC 6455 Section 5.5.1).
	OpcodeClose = 0x8

	// OpcodePing indicates a ping control frame (RFC 6455 Section 5.5.2).
	OpcodePing = 0x9

	// OpcodePong indicates a pong control frame (RFC 6455 Section 5.5.3).
	OpcodePong = 0xA
)

// closeIndicatorByte is the first wire byte of a FIN-set, RSV-clear,
// opcode-8 frame (0x88). The connection reader checks for this byte value
// as a fast path: once it is observed at the start of a frame, whatever the
// mask bit and length that follow, the connection is treated as closing
// without reading the rest of the frame.
const closeIndicatorByte = 0x88
