package wsproto

import "encoding/binary"

// EncodeText builds one server-to-client, unmasked text frame (FIN=1,
// opcode=1) carrying s as its payload.
//
// The length-field boundary here is 0xFFFF: payloads up to 65535 bytes
// use the 16-bit extended length, larger payloads use the 64-bit extended
// length, matching the field width RFC 6455 actually reserves for each
// case.
func EncodeText(s string) []byte {
	payload := []byte(s)
	n := uint64(len(payload))

	header := make([]byte, 0, 10)
	header = append(header, 0x80|OpcodeText)

	switch {
	case n <= payloadLen7Bit:
		header = append(header, byte(n))
	case n <= 0xFFFF:
		header = append(header, payloadLen16Bit)
		ext := make([]byte, 2)
		binary.BigEndian.PutUint16(ext, uint16(n))
		header = append(header, ext...)
	default:
		header = append(header, payloadLen64Bit)
		ext := make([]byte, 8)
		binary.BigEndian.PutUint64(ext, n)
		header = append(header, ext...)
	}

	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// Encode builds the wire bytes for m. Only MessageText carries a payload
// through to the wire; every other Kind degrades to an empty text frame.
func Encode(m Message) []byte {
	if m.Kind == MessageText {
		return EncodeText(m.Text)
	}
	return EncodeText("")
}
