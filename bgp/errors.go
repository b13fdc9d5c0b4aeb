package bgp

import "fmt"

// Sentinel errors returned (wrapped) by Decode/DecodeExt and every
// per-component decoder. Callers should compare with errors.Is, never by
// string, since every returned error is wrapped with package/field context.
var (
	// ErrPartial means the buffer ended before the declared message
	// length. The caller should read more bytes and retry; no bytes were
	// consumed.
	ErrPartial = fmt.Errorf("bgp: partial message")

	// ErrTruncated means the message declared more bytes than were
	// present, but DecodeExt was allowed to return a best-effort partial
	// tree built from the bytes that were available.
	ErrTruncated = fmt.Errorf("bgp: truncated message")

	// ErrInvalid means the wire data is structurally malformed: a field
	// length that violates a per-attribute invariant, an unknown
	// mandatory enum value, or an inconsistent inner/outer length.
	ErrInvalid = fmt.Errorf("bgp: invalid message")

	// ErrNotImplemented means the wire is well-formed but this decoder
	// does not understand the attribute or SAFI. Suppressible via
	// DecoderOptions.IgnoreNotImplemented.
	ErrNotImplemented = fmt.Errorf("bgp: not implemented")

	// ErrMalformed is reserved for a declared BGP message length outside
	// [19, 4096].
	ErrMalformed = fmt.Errorf("bgp: malformed message length")
)

// DecodeError carries the sentinel error above plus the context of where
// in the message it occurred, so callers get more than a bare string.
type DecodeError struct {
	// Err is one of the sentinel errors above (use errors.Is against it).
	Err error
	// Context names the message/attribute/field being decoded when Err
	// occurred, e.g. "update.path_attrs[COMMUNITIES]" or "open.bgp_id".
	Context string
	// Cause is the lower-level error, if any (e.g. a wrapped io error).
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Context, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newErr(context string, sentinel error) error {
	return &DecodeError{Err: sentinel, Context: context}
}

func newErrf(context string, sentinel error, format string, args ...any) error {
	return &DecodeError{Err: sentinel, Context: context, Cause: fmt.Errorf(format, args...)}
}
