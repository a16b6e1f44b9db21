package pgwire

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pgwire/pgwire/protocol"
)

// startup parameters echoed to every client, fixed for this core per
// spec.md §6.
var startupParameters = []struct{ name, value string }{
	{"server_version", "9.2"},
	{"server_encoding", "UTF8"},
	{"client_encoding", "UTF8"},
	{"DateStyle", "ISO YMB"},
}

// Conn drives one client connection through the startup, simple-query and
// extended-query states described by spec.md §4.4. One goroutine owns a
// Conn exclusively: nothing here is safe for concurrent use, by design (see
// spec.md §5).
type Conn struct {
	rwc     net.Conn
	adapter Adapter
	log     zerolog.Logger
	metrics *Metrics

	decoder protocol.Decoder
	buf     []byte

	pid    int32
	secret int32

	// preparedSQL and currentDescriptor are the connection state's
	// current_descriptor slot, set by Parse. Execute hands preparedSQL to the
	// adapter; Describe and Execute take their columns from the adapter.
	preparedSQL       string
	currentDescriptor []protocol.FieldDescriptor

	// readyForQuerySent tracks whether a ReadyForQuery has already gone out
	// during the current extended-query cycle, so Sync does not double it.
	// Reset whenever Sync closes the cycle out. The startup and simple-query
	// paths write their ReadyForQuery without setting it.
	readyForQuerySent bool
}

func newConn(rwc net.Conn, adapter Adapter, log zerolog.Logger, metrics *Metrics) *Conn {
	return &Conn{
		rwc:     rwc,
		adapter: adapter,
		log:     log,
		metrics: metrics,
		pid:     rand.Int31(),
		secret:  rand.Int31(),
	}
}

// Serve runs the connection's read/dispatch loop until the client
// terminates, a fatal protocol error occurs, or the connection is closed
// out from under it.
func (c *Conn) Serve() error {
	for {
		msg, err := c.nextMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		closeConn, err := c.dispatch(msg)
		if err != nil {
			c.log.Warn().Err(err).Msg("dispatch error")
			c.metrics.queryFailed(sqlstateOf(err))
			if werr := c.write(protocol.ErrorResponse(err)); werr != nil {
				return werr
			}
			var werr error
			if _, simple := msg.(*protocol.QueryMsg); simple {
				werr = c.write(protocol.ReadyForQueryMsg('E'))
			} else {
				werr = c.writeReadyForQuery('E')
			}
			if werr != nil {
				return werr
			}
			continue
		}
		if closeConn {
			return nil
		}
	}
}

// nextMessage decodes the next frontend message, reading more bytes off the
// connection as needed. It never mutates c.buf except by dropping consumed
// bytes off its front, per the decoder's ownership contract (spec.md §9).
func (c *Conn) nextMessage() (interface{}, error) {
	readBuf := make([]byte, 4096)
	for {
		msg, consumed, err := c.decoder.Next(c.buf)
		if err == nil {
			c.buf = c.buf[consumed:]
			if msg == nil {
				continue // unrecognised tag: consumed but nothing to dispatch
			}
			return msg, nil
		}
		if err != protocol.ErrNeedMoreBytes {
			return nil, err
		}

		n, rerr := c.rwc.Read(readBuf)
		if n > 0 {
			c.buf = append(c.buf, readBuf[:n]...)
		}
		if rerr != nil {
			return nil, rerr
		}
	}
}

func (c *Conn) write(m protocol.Message) error {
	_, err := c.rwc.Write(m)
	return err
}

// dispatch reacts to a single frontend message per spec.md §4.4. The
// returned error, if any, is always recoverable: Serve converts it to
// ErrorResponse + ReadyForQuery('E') and keeps the connection open. Fatal
// conditions (malformed frames, I/O failures) never reach here - they
// surface directly out of nextMessage.
func (c *Conn) dispatch(msg interface{}) (closeConn bool, err error) {
	c.log.Debug().Str("msg", fmt.Sprintf("%T", msg)).Msg("dispatch")

	switch m := msg.(type) {
	case protocol.SSLRequest:
		return false, c.write(protocol.TLSResponse(false))

	case *protocol.StartupMessage:
		return false, c.handleStartup(m)

	case *protocol.CancelRequest:
		// cancellation is unimplemented per spec.md §1; the caller may
		// simply close the connection that sent it.
		return true, nil

	case *protocol.QueryMsg:
		return false, c.handleQuery(m.SQL)

	case *protocol.ParseMsg:
		return false, c.handleParse(m)

	case *protocol.BindMsg:
		return false, c.write(protocol.BindComplete)

	case *protocol.DescribeMsg:
		return false, c.handleDescribe(m)

	case *protocol.ExecuteMsg:
		return false, c.handleExecute()

	case *protocol.FlushMsg:
		return false, nil // nothing buffered beyond messages already written

	case *protocol.SyncMsg:
		return false, c.handleSync()

	case *protocol.TerminateMsg:
		c.log.Debug().Msg("terminate")
		return true, nil

	default:
		return false, fmt.Errorf("pgwire: unhandled frontend message %T", msg)
	}
}

func (c *Conn) handleStartup(m *protocol.StartupMessage) error {
	c.log.Info().Interface("parameters", m.Parameters).Msg("startup")
	if err := c.write(protocol.AuthenticationOk()); err != nil {
		return err
	}
	for _, p := range startupParameters {
		if err := c.write(protocol.ParameterStatus(p.name, p.value)); err != nil {
			return err
		}
	}
	if err := c.write(protocol.BackendKeyData(c.pid, c.secret)); err != nil {
		return err
	}
	return c.write(protocol.ReadyForQueryMsg('I'))
}

func (c *Conn) handleQuery(sql string) error {
	c.log.Debug().Str("sql", sql).Msg("simple query")
	if sql == "" {
		return c.emptyQueryResponse()
	}

	parsed, ok := parseSelect(sql)
	if !ok {
		return Unsupported("query %q: only SELECT <cols> FROM <table> is recognised", sql)
	}
	if tn, ok := c.adapter.(TableNamer); ok && !strings.EqualFold(tn.TableName(), parsed.Table) {
		return TableMismatch(tn.TableName(), parsed.Table)
	}

	fields := c.adapter.Columns()
	rows, err := c.adapter.Rows(&sql)
	if err != nil {
		return err
	}

	if err := c.write(protocol.RowDescription(fields)); err != nil {
		return err
	}
	if err := c.writeRows(fields, rows); err != nil {
		return err
	}
	if err := c.write(protocol.CommandComplete(fmt.Sprintf("SELECT %d", len(rows)))); err != nil {
		return err
	}
	c.metrics.querySucceeded()
	return c.write(protocol.ReadyForQueryMsg('I'))
}

func (c *Conn) emptyQueryResponse() error {
	if err := c.write(protocol.EmptyQueryResponse); err != nil {
		return err
	}
	return c.write(protocol.ReadyForQueryMsg('I'))
}

func (c *Conn) handleParse(m *protocol.ParseMsg) error {
	c.log.Debug().Str("name", m.Name).Str("sql", m.SQL).Msg("parse")
	c.preparedSQL = m.SQL
	c.currentDescriptor = c.adapter.Columns()

	if err := c.write(protocol.ParseComplete); err != nil {
		return err
	}
	if err := c.write(protocol.ParameterDescription(nil)); err != nil {
		return err
	}
	return c.write(protocol.RowDescription(c.currentDescriptor))
}

func (c *Conn) handleDescribe(m *protocol.DescribeMsg) error {
	c.log.Debug().Str("name", m.Name).Str("kind", string(m.Kind)).Msg("describe")
	switch m.Kind {
	case protocol.DescribeStatement:
		if err := c.write(protocol.ParameterDescription(nil)); err != nil {
			return err
		}
		return c.write(protocol.RowDescription(c.adapter.Columns()))
	case protocol.DescribePortal:
		return c.write(protocol.RowDescription(c.adapter.Columns()))
	default:
		return Invalid("describe target kind %q", m.Kind)
	}
}

func (c *Conn) handleExecute() error {
	c.log.Debug().Str("sql", c.preparedSQL).Msg("execute")
	fields := c.adapter.Columns()

	var sqlPtr *string
	if c.preparedSQL != "" {
		sqlPtr = &c.preparedSQL
	}
	rows, err := c.adapter.Rows(sqlPtr)
	if err != nil {
		return err
	}

	if err := c.writeRows(fields, rows); err != nil {
		return err
	}
	if err := c.write(protocol.CommandComplete(fmt.Sprintf("SELECT %d", len(rows)))); err != nil {
		return err
	}
	c.metrics.querySucceeded()
	return nil
}

// handleSync closes out the current extended-query cycle: it emits
// ReadyForQuery('I') only if nothing has emitted one since the cycle
// started (spec.md §4.4), then resets the tracking flag for the next
// cycle regardless of which branch fired.
func (c *Conn) handleSync() error {
	defer func() { c.readyForQuerySent = false }()
	if c.readyForQuerySent {
		return nil
	}
	return c.writeReadyForQuery('I')
}

// writeReadyForQuery writes ReadyForQuery and records that one has now
// gone out during the current cycle, so a following Sync knows not to
// repeat it.
func (c *Conn) writeReadyForQuery(status byte) error {
	if err := c.write(protocol.ReadyForQueryMsg(status)); err != nil {
		return err
	}
	c.readyForQuerySent = true
	return nil
}

func (c *Conn) writeRows(fields []protocol.FieldDescriptor, rows []protocol.Row) error {
	for _, row := range rows {
		dataRow, err := protocol.DataRow(fields, row)
		if err != nil {
			return err
		}
		if err := c.write(dataRow); err != nil {
			return err
		}
	}
	return nil
}

// sqlstateOf extracts a SQLSTATE for metrics labelling, falling back to the
// generic "XX000" internal_error class.
func sqlstateOf(err error) string {
	if c, ok := err.(Coder); ok && c.Code() != "" {
		return c.Code()
	}
	return "XX000"
}
