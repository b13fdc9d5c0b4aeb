package bgp

// DecoderOptions configures a Decode/DecodeExt call. It is immutable for
// the duration of a call and may be shared freely across concurrent calls
// on different goroutines — decoding itself touches no shared state.
//
// The zero value is a usable, conservative default: marker present and
// not copied, 2-byte ASNs by default, unrecognized attribute types
// reported as ErrNotImplemented, no filtering, strict error reporting.
type DecoderOptions struct {
	// MarkerOmitted skips the 16-byte marker field in the BGP header
	// entirely (some transports, e.g. certain MRT encapsulations, never
	// include it).
	MarkerOmitted bool

	// MarkerCopy, when the marker is present, copies it into the decoded
	// Message.Marker field. When false the marker bytes are skipped
	// without being retained.
	MarkerCopy bool

	// ASN4Byte is the AS_PATH ASN width (AS4_PATH is always 4-byte
	// regardless of this option). AGGREGATOR does not use it: its ASN
	// width follows the attribute length, and AS4_AGGREGATOR is always
	// 4-byte.
	ASN4Byte bool

	// PathAttrRawEnabled retains the raw, unparsed bytes of a path
	// attribute alongside (or instead of, for unrecognized types) its
	// parsed form.
	PathAttrRawEnabled bool

	// PathAttrFilter, when non-nil, restricts parsing to the attribute
	// type codes present as keys; all others are skipped (they are still
	// framed and recorded with their body in Raw, whether or not
	// PathAttrRawEnabled is set, but never handed to a per-attribute
	// decoder).
	PathAttrFilter map[uint8]bool

	// IgnoreNotImplemented converts what would be ErrNotImplemented into
	// a successful decode carrying the attribute's raw bytes instead.
	IgnoreNotImplemented bool

	// IgnoreInvalid converts what would be ErrInvalid into a successful
	// decode, flagging the offending element as Malformed instead of
	// aborting the whole message. Intended for corpus scanning over wire
	// captures that are known to contain some malformed messages.
	IgnoreInvalid bool
}

// filterAllows reports whether typeCode should be parsed given the
// PathAttrFilter option. A nil or empty filter allows everything.
func (o *DecoderOptions) filterAllows(typeCode uint8) bool {
	if o == nil || len(o.PathAttrFilter) == 0 {
		return true
	}
	return o.PathAttrFilter[typeCode]
}
