package pgwire

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromErr(t *testing.T) {
	t.Run("already *err", func(t *testing.T) {
		e := Unrecognized("thing")
		cloned := fromErr(e)
		require.Equal(t, e.(*err).M, cloned.M)
		require.Equal(t, e.(*err).C, cloned.C)
	})

	t.Run("plain error with no optional interfaces", func(t *testing.T) {
		e := fromErr(fmt.Errorf("boom"))
		require.Equal(t, "boom", e.Error())
		require.Equal(t, "", e.Code())
	})

	t.Run("error implementing Coder/Hinter/Detailer", func(t *testing.T) {
		e := fromErr(&mockErr{})
		require.Equal(t, "13", e.Code())
		require.Equal(t, "This is bad", e.Error())
		require.Equal(t, "Some detail", e.Detail())
		require.Equal(t, "A hint", e.Hint())
	})
}

func TestUnrecognized(t *testing.T) {
	e := Unrecognized("thing %s", "meh").(*err)
	require.Equal(t, "42000", e.Code())
	require.Equal(t, "unrecognized thing meh", e.Error())
}

func TestInvalid(t *testing.T) {
	e := Invalid("thing %s", "meh").(*err)
	require.Equal(t, "42000", e.Code())
	require.Equal(t, "invalid thing meh", e.Error())
}

func TestDisallowed(t *testing.T) {
	e := Disallowed("thing %s", "meh").(*err)
	require.Equal(t, "42000", e.Code())
	require.Equal(t, "disallowed thing meh", e.Error())
}

func TestUnsupported(t *testing.T) {
	e := Unsupported("thing %s", "meh").(*err)
	require.Equal(t, "0A000", e.Code())
	require.Equal(t, "unsupported thing meh", e.Error())
}

func TestTableMismatch(t *testing.T) {
	e := TableMismatch("users", "accounts").(*err)
	require.Equal(t, "42P01", e.Code())
	require.Contains(t, e.Error(), "accounts")
	require.Contains(t, e.Hint(), "users")
}

func TestWithHint(t *testing.T) {
	t.Run("error is nil", func(t *testing.T) {
		require.Nil(t, WithHint(nil, "thing"))
	})

	t.Run("real error", func(t *testing.T) {
		es := WithHint(&mockErr{}, "hint!")
		require.NotNil(t, es)
		require.Equal(t, "hint!", es.(*err).Hint())
	})
}

func TestWithDetail(t *testing.T) {
	t.Run("error is nil", func(t *testing.T) {
		require.Nil(t, WithDetail(nil, "thing"))
	})

	t.Run("real error", func(t *testing.T) {
		es := WithDetail(&mockErr{}, "some details")
		require.NotNil(t, es)
		require.Equal(t, "some details", es.(*err).Detail())
	})
}

type mockErr struct{}

func (*mockErr) Code() string   { return "13" }
func (*mockErr) Error() string  { return "This is bad" }
func (*mockErr) Detail() string { return "Some detail" }
func (*mockErr) Hint() string   { return "A hint" }
