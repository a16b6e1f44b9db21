package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNeedMoreBytes is returned by Decoder.Next when the supplied buffer does
// not yet contain a full message. It is not a failure: callers should simply
// wait for more bytes from the transport and retry with a longer buffer.
// State is never mutated when this is returned.
var ErrNeedMoreBytes = errors.New("protocol: need more bytes")

// StartupMessage carries the client's requested protocol parameters (user,
// database, client_encoding, ...).
type StartupMessage struct {
	Parameters map[string]string
}

// SSLRequest is the client's request to negotiate a TLS upgrade before
// startup. This server always refuses it.
type SSLRequest struct{}

// CancelRequest asks the backend to cancel the query running on the
// connection identified by PID/Secret. Reported as unimplemented; the caller
// may simply close the connection that sent it.
type CancelRequest struct {
	PID    int32
	Secret int32
}

// QueryMsg is a Simple Query request.
type QueryMsg struct {
	SQL string
}

// ParseMsg is a Parse request from the extended-query pipeline. Only the
// statement name and query text are retained; declared parameter OIDs are
// read off the wire (to keep framing correct) and discarded, since this core
// never binds real parameters.
type ParseMsg struct {
	Name string
	SQL  string
}

// BindMsg is a Bind request. Its payload is opaque to this core: only its
// presence in the message stream matters.
type BindMsg struct{}

// DescribeMsg asks for the RowDescription/ParameterDescription of either a
// prepared statement (Kind == DescribeStatement) or a portal
// (Kind == DescribePortal).
type DescribeMsg struct {
	Kind byte
	Name string
}

// ExecuteMsg is an Execute request. Like BindMsg, its payload is opaque.
type ExecuteMsg struct{}

// FlushMsg asks the backend to deliver any buffered output immediately.
type FlushMsg struct{}

// SyncMsg marks the end of an extended-query pipeline.
type SyncMsg struct{}

// TerminateMsg notifies the backend that the client is disconnecting.
type TerminateMsg struct{}

// Decoder is a pure, synchronous cursor over a caller-owned byte buffer. It
// never reads from a transport itself: Next is handed the bytes received so
// far and either reports ErrNeedMoreBytes (the buffer holds less than one
// full message) or returns the decoded message together with the number of
// bytes it consumed, which the caller must drop from the front of its
// buffer before the next call.
//
// The StartupSeen flag selects between the pre-startup and post-startup
// framing rules, mirroring the connection-state asymmetry in the protocol
// itself (see the PostgreSQL protocol flow documentation).
type Decoder struct {
	StartupSeen bool
}

// Next decodes the next frontend message out of buf, if one is fully
// present. It never mutates buf.
func (d *Decoder) Next(buf []byte) (msg interface{}, consumed int, err error) {
	if !d.StartupSeen {
		return d.nextPreStartup(buf)
	}
	return d.nextPostStartup(buf)
}

func (d *Decoder) nextPreStartup(buf []byte) (interface{}, int, error) {
	if len(buf) < 8 {
		return nil, 0, ErrNeedMoreBytes
	}

	length := int(binary.BigEndian.Uint32(buf[:4]))
	if length < 8 {
		return nil, 0, fmt.Errorf("protocol: malformed startup message length %d", length)
	}
	if len(buf) < length {
		return nil, 0, ErrNeedMoreBytes
	}

	protocolNum := int32(binary.BigEndian.Uint32(buf[4:8]))
	switch protocolNum {
	case sslRequestCode:
		// SSLRequest never flips StartupSeen: the client will follow up
		// with a real StartupMessage once refused.
		return SSLRequest{}, length, nil

	case ProtocolVersion3:
		params, err := decodeStartupParams(buf[8:length])
		if err != nil {
			return nil, 0, err
		}
		d.StartupSeen = true
		return &StartupMessage{Parameters: params}, length, nil

	case cancelRequestCode:
		if length < 16 {
			return nil, 0, fmt.Errorf("protocol: malformed cancel request length %d", length)
		}
		pid := int32(binary.BigEndian.Uint32(buf[8:12]))
		secret := int32(binary.BigEndian.Uint32(buf[12:16]))
		return &CancelRequest{PID: pid, Secret: secret}, length, nil

	default:
		return nil, 0, fmt.Errorf("protocol: unknown startup protocol number %d", protocolNum)
	}
}

func (d *Decoder) nextPostStartup(buf []byte) (interface{}, int, error) {
	if len(buf) < 5 {
		return nil, 0, ErrNeedMoreBytes
	}

	tag := buf[0]
	length := int(binary.BigEndian.Uint32(buf[1:5]))
	if length < 4 {
		return nil, 0, fmt.Errorf("protocol: malformed message length %d for tag %q", length, tag)
	}
	total := 1 + length
	if len(buf) < total {
		return nil, 0, ErrNeedMoreBytes
	}
	payload := buf[5:total]

	switch tag {
	case Query:
		sql, err := trimCString(payload)
		if err != nil {
			return nil, 0, err
		}
		return &QueryMsg{SQL: sql}, total, nil

	case Parse:
		name, rest, err := readCString(payload)
		if err != nil {
			return nil, 0, err
		}
		sql, rest, err := readCString(rest)
		if err != nil {
			return nil, 0, err
		}
		// numParamTypes (uint16) followed by that many OIDs (uint32 each);
		// read off the wire to keep framing honest, then discarded.
		if len(rest) < 2 {
			return nil, 0, fmt.Errorf("protocol: truncated Parse message")
		}
		numParams := int(binary.BigEndian.Uint16(rest[:2]))
		need := 2 + 4*numParams
		if len(rest) < need {
			return nil, 0, fmt.Errorf("protocol: truncated Parse parameter OIDs")
		}
		return &ParseMsg{Name: name, SQL: sql}, total, nil

	case Bind:
		return &BindMsg{}, total, nil

	case Describe:
		if len(payload) < 1 {
			return nil, 0, fmt.Errorf("protocol: truncated Describe message")
		}
		name, _, err := readCString(payload[1:])
		if err != nil {
			return nil, 0, err
		}
		return &DescribeMsg{Kind: payload[0], Name: name}, total, nil

	case Execute:
		return &ExecuteMsg{}, total, nil

	case FlushTag:
		return &FlushMsg{}, total, nil

	case Sync:
		return &SyncMsg{}, total, nil

	case Terminate:
		return &TerminateMsg{}, total, nil

	default:
		// unknown tags still consume their framed bytes but produce no
		// message, per the decoder's "ignore unrecognised tags" policy.
		return nil, total, nil
	}
}

// decodeStartupParams parses the alternating NUL-terminated key/value
// cstrings that make up a StartupMessage's payload, terminated by an empty
// key (a lone NUL byte).
func decodeStartupParams(buf []byte) (map[string]string, error) {
	var strs []string
	for len(buf) > 0 {
		idx := bytes.IndexByte(buf, 0)
		if idx == -1 {
			return nil, fmt.Errorf("protocol: truncated startup parameter list")
		}
		if idx == 0 {
			break // empty key terminates the list
		}
		strs = append(strs, string(buf[:idx]))
		buf = buf[idx+1:]
	}

	params := make(map[string]string, len(strs)/2)
	for i := 0; i+1 < len(strs); i += 2 {
		params[strs[i]] = strs[i+1]
	}
	return params, nil
}

func readCString(data []byte) (string, []byte, error) {
	idx := bytes.IndexByte(data, 0)
	if idx == -1 {
		return "", nil, fmt.Errorf("protocol: truncated cstring")
	}
	return string(data[:idx]), data[idx+1:], nil
}

func trimCString(data []byte) (string, error) {
	s, _, err := readCString(data)
	return s, err
}
