package pgwire

import (
	"fmt"
)

// Err is a postgres-compatible error object. It's not required to be used, as
// any other normal error object would be converted to a generic internal error,
// but it provides the API to generate user-friendly error messages. Note that
// the decorating functions (prefixed with With*) return a copy carrying the
// new field and leave the error passed in unchanged; the copy can be passed
// on for chaining. See: https://www.postgresql.org/docs/current/protocol-error-fields.html
//
// Postgres has hundreds of different error codes, broken into categories. Use
// the constructors below (Invalid, Unsupported, etc.) to create errors with
// preset error codes. If you can't find the one you need, consider adding it
// here as a generic constructor. Otherwise, you can implement an object that
// adheres to one of the Coder/Hinter/Detailer interfaces below.
//
// For the full list of error codes, see: https://www.postgresql.org/docs/current/errcodes-appendix.html
type Err error

type err struct {
	M string // Message
	H string // Hint
	D string // Detail
	C string // Code
}

func (e *err) Error() string  { return e.M }
func (e *err) Hint() string   { return e.H }
func (e *err) Detail() string { return e.D }
func (e *err) Code() string   { return e.C }

// Coder is implemented by errors that carry a 5-character SQLSTATE.
type Coder interface {
	error
	Code() string
}

// Hinter is implemented by errors that carry a suggestion of what to do
// about the problem.
type Hinter interface {
	error
	Hint() string
}

// Detailer is implemented by errors that carry a secondary, more specific
// message than Error() alone.
type Detailer interface {
	error
	Detail() string
}

// WithHint decorates an error object to also include a suggestion what to do
// about the problem. This is intended to differ from Detail in that it offers
// advice (potentially inappropriate) rather than hard facts. Might run to
// multiple lines.
func WithHint(e error, hint string, args ...interface{}) Err {
	if e == nil {
		return nil
	}

	we := fromErr(e)
	we.H = fmt.Sprintf(hint, args...)
	return we
}

// WithDetail decorates an error object to also include a secondary, more
// specific message than the main one.
func WithDetail(e error, detail string, args ...interface{}) Err {
	if e == nil {
		return nil
	}

	we := fromErr(e)
	we.D = fmt.Sprintf(detail, args...)
	return we
}

// Unrecognized indicates that a certain entity (function, column, etc.) is not
// registered or available for use.
func Unrecognized(msg string, args ...interface{}) Err {
	msg = fmt.Sprintf("unrecognized "+msg, args...)
	return &err{M: msg, C: "42000"}
}

// Invalid indicates that the user request is invalid or otherwise incorrect.
// It's very much similar to a syntax error, except that the invalidity is
// logical within the request rather than syntactic. For example, using a non-
// boolean expression in WHERE, or when a requested data type, table, or
// function is undefined.
func Invalid(msg string, args ...interface{}) Err {
	msg = fmt.Sprintf("invalid "+msg, args...)
	return &err{M: msg, C: "42000"}
}

// Disallowed indicates a permissions, authorization or permanently disallowed
// operation - access to table data, alerting users, etc.
func Disallowed(msg string, args ...interface{}) Err {
	msg = fmt.Sprintf("disallowed "+msg, args...)
	return &err{M: msg, C: "42000"}
}

// Unsupported indicates that a certain feature is not supported. Unlike
// Unrecognized - this error is not for cases where a user-space entity is not
// recognized but when the recognized entity cannot perform some of its
// functionality.
func Unsupported(msg string, args ...interface{}) Err {
	msg = fmt.Sprintf("unsupported "+msg, args...)
	return &err{M: msg, C: "0A000"}
}

// TableMismatch indicates that a query named a table the adapter does not
// serve. SQLSTATE 42P01, undefined_table, per spec.md §7's design choice.
func TableMismatch(want, got string) Err {
	return &err{
		M: fmt.Sprintf("relation %q does not exist", got),
		C: "42P01",
		H: fmt.Sprintf("this server only serves table %q", want),
	}
}

func fromErr(e error) *err {
	err1, ok := e.(*err)
	if ok {
		clone := *err1
		return &clone
	}

	we := &err{M: e.Error()}
	if c, ok := e.(Coder); ok {
		we.C = c.Code()
	}
	if h, ok := e.(Hinter); ok {
		we.H = h.Hint()
	}
	if d, ok := e.(Detailer); ok {
		we.D = d.Detail()
	}
	return we
}
