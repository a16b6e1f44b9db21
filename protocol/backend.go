package protocol

import "encoding/binary"

// ParseComplete is sent when the backend successfully parsed a Parse
// message into a prepared statement.
var ParseComplete = Message{'1', 0, 0, 0, 4}

// BindComplete is sent when the backend bound a portal from a prepared
// statement.
var BindComplete = Message{'2', 0, 0, 0, 4}

// ParameterDescription describes the parameter OIDs of a prepared
// statement, generalised to an arbitrary count (the zero-parameter case
// used throughout this core is simply the n=0 instance of this encoding).
func ParameterDescription(oids []uint32) Message {
	msg := make([]byte, 7+4*len(oids))
	msg[0] = 't'
	binary.BigEndian.PutUint16(msg[5:7], uint16(len(oids)))
	for i, oid := range oids {
		binary.BigEndian.PutUint32(msg[7+4*i:], oid)
	}
	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg
}

// NoticeResponse carries a non-fatal advisory to the client. It uses the
// same field layout as ErrorResponse but tag 'N'. No code path in this core
// emits one; it exists for drivers that probe for notice support.
func NoticeResponse(severity, code, message string) Message {
	msg := []byte{'N', 0, 0, 0, 0}
	fields := []struct {
		tag byte
		val string
	}{
		{'S', severity},
		{'C', code},
		{'M', message},
	}
	for _, f := range fields {
		msg = append(msg, f.tag)
		msg = append(msg, []byte(f.val)...)
		msg = append(msg, 0)
	}
	msg = append(msg, 0)
	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg
}
