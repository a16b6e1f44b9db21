package protocol

import (
	"encoding/binary"
)

// Pre-startup protocol numbers recognised in the StartupMessage's version
// field.
const (
	ProtocolVersion3   int32 = 196608   // 3<<16 | 0
	sslRequestCode     int32 = 80877103
	cancelRequestCode  int32 = 80877102
)

// TLSResponse creates the single-byte pre-startup response indicating
// whether the server supports a TLS upgrade. This server always refuses.
func TLSResponse(supported bool) Message {
	b := map[bool]byte{true: 'S', false: 'N'}[supported]
	return Message([]byte{b})
}

// AuthenticationOk creates a message indicating that the client's
// (non-)credentials were accepted and the session may proceed.
func AuthenticationOk() Message {
	return Message{'R', 0, 0, 0, 8, 0, 0, 0, 0}
}

// BackendKeyData creates a new message providing the client with a process ID and
// secret key that it can later use to cancel running queries
func BackendKeyData(pid int32, secret int32) Message {
	msg := []byte{'K', 0, 0, 0, 12, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(msg[5:9], uint32(pid))
	binary.BigEndian.PutUint32(msg[9:13], uint32(secret))
	return msg
}

// ParameterStatus creates a new message providing parameter name and value
func ParameterStatus(name, value string) Message {
	length := /* TYPE+LEN */ 5 + len(name) + len(value) + /* TERMINATORS */ 2
	msg := make([]byte, length)
	msg[0] = 'S'
	copy(msg[5:], name)
	copy(msg[length-len(value)-1:], value)

	// write the length
	binary.BigEndian.PutUint32(msg[1:5], uint32(length-1))
	return msg
}
