package protocol

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowDescriptionFieldCount(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "id", TypeOID: Int4OID, TypeSize: 4, FormatCode: BinaryFormat},
		{Name: "name", TypeOID: TextOID, TypeSize: -1, FormatCode: TextFormat},
	}
	msg := RowDescription(fields)

	require.Equal(t, byte('T'), msg.Type())
	numFields := binary.BigEndian.Uint16(msg[5:7])
	require.Equal(t, uint16(2), numFields)
}

func TestDataRowNullValue(t *testing.T) {
	fields := []FieldDescriptor{{Name: "x", TypeOID: Int4OID, FormatCode: BinaryFormat}}
	msg, err := DataRow(fields, Row{NullValue()})
	require.NoError(t, err)

	numVals := binary.BigEndian.Uint16(msg[5:7])
	require.Equal(t, uint16(1), numVals)
	length := int32(binary.BigEndian.Uint32(msg[7:11]))
	require.Equal(t, int32(-1), length)
}

func TestDataRowValueCount(t *testing.T) {
	fields := []FieldDescriptor{{Name: "x", TypeOID: Int4OID, FormatCode: BinaryFormat}}
	_, err := DataRow(fields, Row{Int32Value(1), Int32Value(2)})
	require.Error(t, err)
}

func TestDataRowBinaryInt(t *testing.T) {
	fields := []FieldDescriptor{{Name: "x", TypeOID: Int4OID, FormatCode: BinaryFormat}}
	msg, err := DataRow(fields, Row{Int32Value(7)})
	require.NoError(t, err)

	length := binary.BigEndian.Uint32(msg[7:11])
	require.Equal(t, uint32(4), length)
	val := int32(binary.BigEndian.Uint32(msg[11:15]))
	require.Equal(t, int32(7), val)
}

type fakeCodedError struct {
	msg  string
	code string
}

func (e fakeCodedError) Error() string { return e.msg }
func (e fakeCodedError) Code() string  { return e.code }

func TestErrorResponseDeterministicFieldOrder(t *testing.T) {
	err := fakeCodedError{msg: "relation does not exist", code: "42P01"}
	a := ErrorResponse(err)
	b := ErrorResponse(err)
	require.Equal(t, a, b)
}

func TestErrorResponseFallsBackToGenericSeverityAndCode(t *testing.T) {
	msg := ErrorResponse(errors.New("boom"))
	require.Contains(t, string(msg), "ERROR")
	require.Contains(t, string(msg), "XX000")
	require.Contains(t, string(msg), "boom")
}

func TestCommandCompleteNullTerminated(t *testing.T) {
	msg := CommandComplete("SELECT 3")
	require.Equal(t, byte(0), msg[len(msg)-1])
}
