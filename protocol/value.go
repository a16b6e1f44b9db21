package protocol

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies which branch of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindFloat64
	KindDecimal
	KindText
	KindBytes
)

// Value is the tagged variant the codec dispatches on when encoding a row
// cell: Null | I16 | I32 | I64 | F64 | Decimal | Text | Bytes. It is a plain
// struct rather than an interface hierarchy, per the "descriptors and values
// as data" design: encoders switch on Kind and read the one field that
// matters for that kind.
type Value struct {
	kind Kind
	i    int64
	f    float64
	d    *apd.Decimal
	s    string
	b    []byte
}

func (v Value) Kind() Kind { return v.kind }

// NullValue is the null sentinel. It is compatible with every OID.
func NullValue() Value { return Value{kind: KindNull} }

func Int16Value(i int16) Value { return Value{kind: KindInt16, i: int64(i)} }
func Int32Value(i int32) Value { return Value{kind: KindInt32, i: int64(i)} }
func Int64Value(i int64) Value { return Value{kind: KindInt64, i: i} }
func Float64Value(f float64) Value { return Value{kind: KindFloat64, f: f} }
func DecimalValue(d *apd.Decimal) Value { return Value{kind: KindDecimal, d: d} }
func TextValue(s string) Value { return Value{kind: KindText, s: s} }
func BytesValue(b []byte) Value { return Value{kind: KindBytes, b: b} }

func (v Value) Int() int64            { return v.i }
func (v Value) Float() float64        { return v.f }
func (v Value) Decimal() *apd.Decimal { return v.d }
func (v Value) Text() string          { return v.s }
func (v Value) Bytes() []byte         { return v.b }

// String renders the canonical textual form of the value's kind: integers as
// decimal, floats via strconv, decimals via their fixed-point rendering,
// bytes as a raw string, and null as the empty string (callers encoding a
// DataRow must check Kind() == KindNull separately and emit the -1 length
// sentinel instead of calling String).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.d.Text('f')
	case KindText:
		return v.s
	case KindBytes:
		return string(v.b)
	default:
		return fmt.Sprintf("%v", v.i)
	}
}
