package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageType(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		m := Message{}
		require.Equal(t, byte(0), m.Type())
	})

	t.Run("regular message", func(t *testing.T) {
		m := Message{'Q', 0, 0, 0, 5, 0}
		require.Equal(t, byte('Q'), m.Type())
	})
}

func TestLengthFieldCoversOwnBytes(t *testing.T) {
	// Every backend constructor must report a length that covers the
	// length field itself plus the payload, but never the leading tag.
	cases := map[string]Message{
		"AuthenticationOk": AuthenticationOk(),
		"BackendKeyData":   BackendKeyData(1, 2),
		"ParameterStatus":  ParameterStatus("client_encoding", "UTF8"),
		"ReadyForQuery":    ReadyForQueryMsg('I'),
		"RowDescription":   RowDescription(nil),
		"CommandComplete":  CommandComplete("SELECT 0"),
		"ParseComplete":    ParseComplete,
		"BindComplete":     BindComplete,
		"ParameterDescription": ParameterDescription(nil),
	}

	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			length := int(m[1])<<24 | int(m[2])<<16 | int(m[3])<<8 | int(m[4])
			require.Equal(t, len(m)-1, length, "declared length must equal payload+length-field size")
		})
	}
}
