// Package bgp decodes BGP-4 messages (RFC 4271) and their UPDATE path
// attributes, including multiprotocol reachability (RFC 4760), route
// reflection (RFC 4456), 4-byte ASNs (RFC 6793), confederations (RFC 5065),
// communities (RFC 1997), extended and IPv6 extended communities (RFC 4360,
// RFC 5701), enhanced route refresh (RFC 7313) and large communities
// (RFC 8092).
//
// The package is a pure codec: it performs no I/O, keeps no session state,
// and never logs or panics on malformed input. Every decode either
// succeeds, reports that more bytes are needed (ErrPartial), reports a
// best-effort partial result from a short buffer (ErrTruncated, only when
// requested), reports that the wire format itself is invalid (ErrInvalid,
// or ErrMalformed for a declared length outside [19, 4096]), or reports
// an attribute type this package has no decoder for (ErrNotImplemented).
// Transport framing (MRT archive records, BMP monitoring
// messages) lives in the sibling mrt and bmp packages, which call into
// Decode/DecodeExt with the BGP payload they extract.
package bgp
