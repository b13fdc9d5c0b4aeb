package bgp

// AS_PATH segment types (RFC 4271 §4.3, RFC 5065 §3 for the CONFED_* kinds).
const (
	AsPathSegSet        uint8 = 1
	AsPathSegSequence    uint8 = 2
	AsPathSegConfedSeq   uint8 = 3
	AsPathSegConfedSet   uint8 = 4
)

// AsPathSegment is one ordered or unordered run of ASNs within an AS_PATH.
type AsPathSegment struct {
	Kind uint8
	ASNs []uint32
}

// AsPath is a decoded AS_PATH or AS4_PATH attribute.
type AsPath struct {
	// ASN4Byte is true when this path's ASNs were decoded as 4-byte
	// values (always true for AS4_PATH; for AS_PATH it reflects
	// DecoderOptions.ASN4Byte). ASNs are always exposed as uint32
	// regardless of the wire width.
	ASN4Byte bool
	Segments []AsPathSegment

	// ASNsCount is the path length per RFC4271 §9.1.2.2 / RFC5065 §5.3:
	// each AS_SEQ ASN counts 1, an entire AS_SET counts 1, CONFED_*
	// segments count 0.
	ASNsCount int

	// Raw retains a copy of the undecoded segment bytes, present only
	// when DecoderOptions.PathAttrRawEnabled is set, to let a caller
	// perform the RFC6793 §4.2.3 AS_PATH/AS4_PATH merge without
	// re-encoding what this package already parsed.
	Raw []byte
}

// decodeAsPath parses the body of an AS_PATH (type 2) or AS4_PATH (type 17)
// attribute. asn4Byte selects the per-ASN wire width: AS4_PATH is always
// 4-byte; AS_PATH defaults to opts.ASN4Byte.
func decodeAsPath(data []byte, asn4Byte bool, retainRaw bool) (*AsPath, error) {
	c := newCursor(data)
	asnWidth := 2
	if asn4Byte {
		asnWidth = 4
	}

	ap := &AsPath{ASN4Byte: asn4Byte}
	if retainRaw {
		ap.Raw = append([]byte(nil), data...)
	}

	for c.remain > 0 {
		kind, ok := c.readU8()
		if !ok {
			return nil, newErr("update.path_attrs[AS_PATH].segment.kind", ErrInvalid)
		}
		count, ok := c.readU8()
		if !ok {
			return nil, newErr("update.path_attrs[AS_PATH].segment.count", ErrInvalid)
		}

		switch kind {
		case AsPathSegSet, AsPathSegSequence, AsPathSegConfedSeq, AsPathSegConfedSet:
		default:
			return nil, newErrf("update.path_attrs[AS_PATH].segment.kind", ErrInvalid, "unknown AS_PATH segment kind %d", kind)
		}

		seg := AsPathSegment{Kind: kind, ASNs: make([]uint32, count)}
		for i := 0; i < int(count); i++ {
			var asn uint32
			if asnWidth == 4 {
				v, ok := c.readU32()
				if !ok {
					return nil, newErr("update.path_attrs[AS_PATH].segment.asns", ErrInvalid)
				}
				asn = v
			} else {
				v, ok := c.readU16()
				if !ok {
					return nil, newErr("update.path_attrs[AS_PATH].segment.asns", ErrInvalid)
				}
				asn = uint32(v)
			}
			seg.ASNs[i] = asn
		}
		ap.Segments = append(ap.Segments, seg)

		switch kind {
		case AsPathSegSequence:
			ap.ASNsCount += int(count)
		case AsPathSegSet:
			ap.ASNsCount++
		case AsPathSegConfedSeq, AsPathSegConfedSet:
			// Contribute 0 per RFC5065 §5.3.
		}
	}

	return ap, nil
}

// MergeASPath implements the RFC6793 §4.2.3 reconciliation of a 2-byte
// AS_PATH with its accompanying AS4_PATH attribute. It is not called by
// Decode/DecodeExt — spec-level policy leaves the merge to the caller,
// since it requires comparing two independently-decoded attributes that
// may not both be present. If as4Path is nil, asPath is returned as-is.
//
// The algorithm aligns the two paths by ASN count, treating AS4_PATH as a
// suffix of the true path. If AS4_PATH holds at least as many ASNs as
// AS_PATH, a copy of AS4_PATH is the result. Otherwise the leading
// (AS_PATH count - AS4_PATH count) ASNs of AS_PATH are kept unmodified,
// splitting a segment where that boundary falls inside it, and every
// AS4_PATH segment is appended after them.
func MergeASPath(asPath, as4Path *AsPath) *AsPath {
	if as4Path == nil || len(as4Path.Segments) == 0 {
		return asPath
	}
	if asPath == nil || len(asPath.Segments) == 0 {
		return as4Path
	}

	// Count total ASNs on each side to find the suffix alignment point.
	asnCount := func(segs []AsPathSegment) int {
		n := 0
		for _, s := range segs {
			n += len(s.ASNs)
		}
		return n
	}
	oldTotal := asnCount(asPath.Segments)
	newTotal := asnCount(as4Path.Segments)
	if newTotal >= oldTotal {
		// AS4_PATH covers (or exceeds) the whole path; it is the
		// authoritative result.
		merged := *as4Path
		merged.ASN4Byte = true
		return &merged
	}

	// Keep the leading (oldTotal - newTotal) ASNs from asPath unchanged,
	// then splice in every ASN from as4Path for the tail.
	keep := oldTotal - newTotal
	merged := &AsPath{ASN4Byte: true}
	remaining := keep
	for _, seg := range asPath.Segments {
		if remaining <= 0 {
			break
		}
		if len(seg.ASNs) <= remaining {
			merged.Segments = append(merged.Segments, seg)
			remaining -= len(seg.ASNs)
			continue
		}
		partial := AsPathSegment{Kind: seg.Kind, ASNs: append([]uint32(nil), seg.ASNs[:remaining]...)}
		merged.Segments = append(merged.Segments, partial)
		remaining = 0
	}
	merged.Segments = append(merged.Segments, as4Path.Segments...)

	for _, seg := range merged.Segments {
		switch seg.Kind {
		case AsPathSegSequence:
			merged.ASNsCount += len(seg.ASNs)
		case AsPathSegSet:
			merged.ASNsCount++
		}
	}
	return merged
}
