package pgwire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/protocol"
)

func TestStaticAdapterIgnoresSQL(t *testing.T) {
	fields := []protocol.FieldDescriptor{{Name: "id", TypeOID: protocol.Int4OID}}
	rows := []protocol.Row{{protocol.Int32Value(1)}}
	a := NewStaticAdapter("widgets", fields, rows)

	require.Equal(t, "widgets", a.TableName())
	require.Equal(t, fields, a.Columns())

	got, err := a.Rows(nil)
	require.NoError(t, err)
	require.Equal(t, rows, got)

	sql := "SELECT * FROM anything"
	got, err = a.Rows(&sql)
	require.NoError(t, err)
	require.Equal(t, rows, got)
}
