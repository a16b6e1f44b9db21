package protocol

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeValueBinaryInt8(t *testing.T) {
	raw, err := EncodeValue(Int64Value(-5), Int8OID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, int64(-5), int64(binary.BigEndian.Uint64(raw)))
}

func TestEncodeValueBinaryFloat8(t *testing.T) {
	raw, err := EncodeValue(Float64Value(3.25), Float8OID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, 3.25, math.Float64frombits(binary.BigEndian.Uint64(raw)))
}

func TestEncodeValueBinaryBool(t *testing.T) {
	raw, err := EncodeValue(Int64Value(1), BoolOID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, raw)

	raw, err = EncodeValue(Int64Value(0), BoolOID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, raw)
}

func TestEncodeValueTextFormatIgnoresOID(t *testing.T) {
	raw, err := EncodeValue(Int64Value(42), Int4OID, TextFormat)
	require.NoError(t, err)
	require.Equal(t, "42", string(raw))
}

func TestEncodeValueNumericStripsLengthPrefix(t *testing.T) {
	d := DecimalValue(mustDecimal(t, "1.5"))
	raw, err := EncodeValue(d, NumericOID, BinaryFormat)
	require.NoError(t, err)

	full, err := EncodeNumeric(d.Decimal())
	require.NoError(t, err)
	require.Equal(t, full[4:], raw)
}

func TestEncodeValueBytea(t *testing.T) {
	raw, err := EncodeValue(BytesValue([]byte{1, 2, 3}), ByteaOID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, raw)
}

func TestEncodeValueUnknownOIDBinaryFormat(t *testing.T) {
	_, err := EncodeValue(Int64Value(1), 99999, BinaryFormat)
	require.ErrorIs(t, err, ErrUnsupportedType)
}
