package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeValue renders v under the given type OID and format code, returning
// the raw value bytes with no length prefix (for binary NUMERIC, the length
// prefix EncodeNumeric adds is stripped here, since DataRow writes its own).
// Callers must check v.Kind() == KindNull themselves and skip encoding in
// favour of the -1 length sentinel.
func EncodeValue(v Value, oid uint32, format FormatCode) ([]byte, error) {
	if format == TextFormat {
		return []byte(v.String()), nil
	}
	switch oid {
	case Int2OID:
		return encodeInt2(v)
	case Int4OID:
		return encodeInt4(v)
	case Int8OID:
		return encodeInt8(v)
	case Float8OID:
		return encodeFloat8(v)
	case BoolOID:
		return encodeBool(v)
	case ByteaOID:
		return v.Bytes(), nil
	case NumericOID:
		if v.Kind() != KindDecimal {
			return nil, fmt.Errorf("protocol: value of kind %d is not numeric-compatible", v.Kind())
		}
		blob, err := EncodeNumeric(v.Decimal())
		if err != nil {
			return nil, err
		}
		// strip the length prefix EncodeNumeric adds for the length-prefixed
		// blob convention described in the NUMERIC format: DataRow supplies
		// its own length prefix for every column.
		return blob[4:], nil
	case TextOID:
		return []byte(v.String()), nil
	default:
		return nil, ErrUnsupportedType
	}
}

func encodeInt2(v Value) ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(int16(v.Int())))
	return buf, nil
}

func encodeInt4(v Value) ([]byte, error) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(v.Int())))
	return buf, nil
}

func encodeInt8(v Value) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v.Int()))
	return buf, nil
}

func encodeFloat8(v Value) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(v.Float()))
	return buf, nil
}

func encodeBool(v Value) ([]byte, error) {
	if v.Int() != 0 {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
