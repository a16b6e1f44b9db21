package protocol

import "github.com/jackc/pgx/v5/pgtype"

// Recognised OIDs. Values are taken from pgtype's registry rather than
// re-declared so the table stays in sync with the upstream OID assignments;
// only the subset this codec actually encodes is aliased here.
const (
	Int2OID    = pgtype.Int2OID
	Int4OID    = pgtype.Int4OID
	Int8OID    = pgtype.Int8OID
	Float8OID  = pgtype.Float8OID
	NumericOID = pgtype.NumericOID
	TextOID    = pgtype.TextOID
	BoolOID    = pgtype.BoolOID
	ByteaOID   = pgtype.ByteaOID
)

// FormatCode identifies whether a column or parameter is transmitted as
// human-readable text or as a type-specific binary encoding.
type FormatCode int16

const (
	TextFormat   FormatCode = 0
	BinaryFormat FormatCode = 1
)

// FieldDescriptor is an ordered column definition, as carried by a
// RowDescription message and stashed in connection state between Parse/
// Describe and Execute.
type FieldDescriptor struct {
	Name        string
	TableOID    uint32
	ColumnAttr  int16
	TypeOID     uint32
	TypeSize    int16
	TypeMod     int32
	FormatCode  FormatCode
}

// Row is an ordered tuple of values whose length must equal the field count
// of the FieldDescriptor slice it is emitted under.
type Row []Value
