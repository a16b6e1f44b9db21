package pgwire

import "github.com/pgwire/pgwire/protocol"

// Adapter is the contract between the wire-protocol codec and whatever
// supplies rows for a virtual table. It never sees protocol messages, only
// the SQL text the client sent (and only when it cares to look at it).
type Adapter interface {
	// Columns returns the field descriptors for the table this adapter
	// exposes. Fixed for the life of the connection.
	Columns() []protocol.FieldDescriptor

	// Rows returns the rows to serialise in response to a query. sql is nil
	// when the caller has no query text to offer (e.g. a bare Execute
	// against an already-Parsed statement); an adapter that ignores SQL
	// text entirely, like StaticAdapter, is free to ignore the argument.
	Rows(sql *string) ([]protocol.Row, error)
}

// TableNamer is an optional extension an Adapter can implement to have its
// declared table name checked against the table named in incoming queries.
// Adapters that don't implement it accept any table name.
type TableNamer interface {
	TableName() string
}

// StaticAdapter is a reference Adapter that always returns the same fixed
// column list and row set, regardless of the query text. It ignores SQL
// entirely, as spec.md's §4.5 explicitly permits.
type StaticAdapter struct {
	Table   string
	Fields  []protocol.FieldDescriptor
	Records []protocol.Row
}

// NewStaticAdapter builds a StaticAdapter exposing table under the given
// name, fields, and rows.
func NewStaticAdapter(table string, fields []protocol.FieldDescriptor, rows []protocol.Row) *StaticAdapter {
	return &StaticAdapter{Table: table, Fields: fields, Records: rows}
}

func (a *StaticAdapter) TableName() string { return a.Table }

func (a *StaticAdapter) Columns() []protocol.FieldDescriptor { return a.Fields }

func (a *StaticAdapter) Rows(sql *string) ([]protocol.Row, error) {
	return a.Records, nil
}
