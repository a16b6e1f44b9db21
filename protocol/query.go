package protocol

import (
	"encoding/binary"
	"fmt"
)

// ReadyForQuery is sent whenever the backend is ready for a new query cycle.
// status must be one of 'I' (idle), 'T' (in transaction) or 'E' (failed
// transaction); this core only ever sends 'I' and transiently 'E'.
func ReadyForQueryMsg(status byte) Message {
	return Message{'Z', 0, 0, 0, 5, status}
}

// RowDescription is a message indicating that DataRow messages are about to
// be transmitted and delivers their schema (column names/types/formats).
func RowDescription(fields []FieldDescriptor) Message {
	msg := []byte{'T' /* LEN = */, 0, 0, 0, 0 /* NUM FIELDS = */, 0, 0}
	binary.BigEndian.PutUint16(msg[5:], uint16(len(fields)))

	for _, f := range fields {
		msg = append(msg, []byte(f.Name)...)
		msg = append(msg, 0) // NULL TERMINATED

		buf4 := make([]byte, 4)
		binary.BigEndian.PutUint32(buf4, f.TableOID)
		msg = append(msg, buf4...)

		buf2 := make([]byte, 2)
		binary.BigEndian.PutUint16(buf2, uint16(f.ColumnAttr))
		msg = append(msg, buf2...)

		binary.BigEndian.PutUint32(buf4, f.TypeOID)
		msg = append(msg, buf4...)

		binary.BigEndian.PutUint16(buf2, uint16(f.TypeSize))
		msg = append(msg, buf2...)

		binary.BigEndian.PutUint32(buf4, uint32(f.TypeMod))
		msg = append(msg, buf4...)

		binary.BigEndian.PutUint16(buf2, uint16(f.FormatCode))
		msg = append(msg, buf2...)
	}

	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg
}

// DataRow is sent for every row of a result set. Each value is encoded
// per the matching FieldDescriptor's OID and format code; a Null value is
// written as a bare length of -1 with no payload.
func DataRow(fields []FieldDescriptor, row Row) (Message, error) {
	if len(row) != len(fields) {
		return nil, fmt.Errorf("protocol: row has %d values, expected %d", len(row), len(fields))
	}

	msg := []byte{'D' /* LEN = */, 0, 0, 0, 0 /* NUM VALS = */, 0, 0}
	binary.BigEndian.PutUint16(msg[5:], uint16(len(row)))

	lenBuf := make([]byte, 4)
	for i, v := range row {
		if v.Kind() == KindNull {
			binary.BigEndian.PutUint32(lenBuf, 0xFFFFFFFF) // -1
			msg = append(msg, lenBuf...)
			continue
		}

		raw, err := EncodeValue(v, fields[i].TypeOID, fields[i].FormatCode)
		if err != nil {
			return nil, err
		}
		binary.BigEndian.PutUint32(lenBuf, uint32(len(raw)))
		msg = append(msg, lenBuf...)
		msg = append(msg, raw...)
	}

	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg, nil
}

// CommandComplete is sent when a query was fully executed, carrying a tag
// such as "SELECT 3".
func CommandComplete(tag string) Message {
	msg := []byte{'C', 0, 0, 0, 0}
	msg = append(msg, []byte(tag)...)
	msg = append(msg, 0) // NULL TERMINATED

	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg
}

// EmptyQueryResponse is sent in reply to a Query message carrying an empty
// query string.
var EmptyQueryResponse = Message{'I', 0, 0, 0, 4}

// ErrorResponse is sent whenever an error occurred while processing a
// frontend message. It probes err for optional Severity()/Code()/Detail()/
// Hint()/Position() methods and falls back to generic values when absent.
func ErrorResponse(err error) Message {
	msg := []byte{'E', 0, 0, 0, 0}

	// https://www.postgresql.org/docs/9.3/static/protocol-error-fields.html
	// Field order is fixed (rather than ranging over a map) so the emitted
	// bytes are deterministic and the length is computed once at the end.
	severity, code := "ERROR", "XX000"
	if e, ok := err.(interface{ Severity() string }); ok && e.Severity() != "" {
		severity = e.Severity()
	}
	if e, ok := err.(interface{ Code() string }); ok && e.Code() != "" {
		code = e.Code()
	}

	fields := []struct {
		tag byte
		val string
	}{
		{'S', severity},
		{'C', code},
		{'M', err.Error()},
	}
	if e, ok := err.(interface{ Detail() string }); ok && e.Detail() != "" {
		fields = append(fields, struct {
			tag byte
			val string
		}{'D', e.Detail()})
	}
	if e, ok := err.(interface{ Hint() string }); ok && e.Hint() != "" {
		fields = append(fields, struct {
			tag byte
			val string
		}{'H', e.Hint()})
	}
	if e, ok := err.(interface{ Position() int }); ok && e.Position() >= 0 {
		fields = append(fields, struct {
			tag byte
			val string
		}{'P', fmt.Sprintf("%d", e.Position())})
	}

	for _, f := range fields {
		msg = append(msg, f.tag)
		msg = append(msg, []byte(f.val)...)
		msg = append(msg, 0) // NULL TERMINATED
	}

	msg = append(msg, 0) // NULL TERMINATED

	binary.BigEndian.PutUint32(msg[1:5], uint32(len(msg)-1))
	return msg
}
