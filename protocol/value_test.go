package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt16ValueBinaryEncoding(t *testing.T) {
	raw, err := EncodeValue(Int16Value(-7), Int2OID, BinaryFormat)
	require.NoError(t, err)
	require.Equal(t, int16(-7), int16(binary.BigEndian.Uint16(raw)))
}

func TestInt16ValueTextRendering(t *testing.T) {
	require.Equal(t, "-7", Int16Value(-7).String())
}

func TestValueText(t *testing.T) {
	v := TextValue("hello")
	require.Equal(t, "hello", v.Text())
	require.Equal(t, v.Text(), v.String())
}
