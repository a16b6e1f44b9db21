package pgwire

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/protocol"
)

func TestServerListenReportsAddr(t *testing.T) {
	srv := &Server{Adapter: textAdapter(), Log: zerolog.Nop()}
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	defer srv.listener.Close()
	require.NotNil(t, srv.Addr())
}

func TestServerServeAndShutdown(t *testing.T) {
	srv := &Server{Adapter: textAdapter(), Log: zerolog.Nop()}
	require.NoError(t, srv.Listen("127.0.0.1:0"))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(context.Background()) }()

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), 2*time.Second)
	require.NoError(t, err)

	frame := make([]byte, 9)
	binary.BigEndian.PutUint32(frame[0:4], 9)
	binary.BigEndian.PutUint32(frame[4:8], uint32(protocol.ProtocolVersion3))
	_, err = conn.Write(frame)
	require.NoError(t, err)

	head := make([]byte, 5)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(head)
	require.NoError(t, err)
	require.Equal(t, byte('R'), head[0])

	conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case <-serveErr:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
