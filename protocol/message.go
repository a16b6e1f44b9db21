// Package protocol implements the wire-level codec for the PostgreSQL
// frontend/backend protocol, version 3.0: framing, message encoding and
// decoding, and the OID/value encoders used to serialize rows.
//
// See: https://www.postgresql.org/docs/current/protocol-message-formats.html
package protocol

// frontend message types (client -> server), valid once startup has
// completed.
const (
	Query     = 'Q'
	Terminate = 'X'
	Parse     = 'P'
	Bind      = 'B'
	Describe  = 'D'
	Execute   = 'E'
	FlushTag  = 'H'
	Sync      = 'S'
)

// Describe/Close target kinds.
const (
	DescribeStatement = 'S'
	DescribePortal    = 'P'
)

// Message is just an alias for a slice of bytes that exposes common operations on
// Postgres' client-server protocol messages.
// see: https://www.postgresql.org/docs/current/protocol-message-formats.html
// for postgres specific list of message formats
type Message []byte

// Type returns a string (single-char) representing the message type. The full
// list of available types is available in the aforementioned documentation.
func (m Message) Type() byte {
	var b byte
	if len(m) > 0 {
		b = m[0]
	}
	return b
}
