package protocol

import "errors"

// ErrUnsupportedType is returned by EncodeValue when asked to binary-encode
// a Value under an OID this codec has no binary encoder for.
var ErrUnsupportedType = errors.New("protocol: unsupported type for binary encoding")
