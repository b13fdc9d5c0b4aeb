package bgp

// Path attribute flag bits (RFC 4271 §4.3).
const (
	AttrFlagOptional   uint8 = 0x80
	AttrFlagTransitive uint8 = 0x40
	AttrFlagPartial    uint8 = 0x20
	AttrFlagExtended   uint8 = 0x10
)

// Path attribute type codes.
const (
	AttrTypeOrigin               uint8 = 1
	AttrTypeASPath               uint8 = 2
	AttrTypeNextHop              uint8 = 3
	AttrTypeMED                  uint8 = 4
	AttrTypeLocalPref            uint8 = 5
	AttrTypeAtomicAggregate      uint8 = 6
	AttrTypeAggregator           uint8 = 7
	AttrTypeCommunities          uint8 = 8
	AttrTypeOriginatorID         uint8 = 9
	AttrTypeClusterList          uint8 = 10
	AttrTypeMPReachNLRI          uint8 = 14
	AttrTypeMPUnreachNLRI        uint8 = 15
	AttrTypeExtCommunities       uint8 = 16
	AttrTypeAS4Path              uint8 = 17
	AttrTypeAS4Aggregator        uint8 = 18
	AttrTypeASPathLimit          uint8 = 21
	AttrTypeIPv6ExtCommunities   uint8 = 25
	AttrTypeBGPLS                uint8 = 29
	AttrTypeLargeCommunities     uint8 = 32
)

// attrTableLen is the number of distinct attribute type codes (a type code
// is one byte). PathAttributes keys its attributes by type code in a map,
// so every code is stored the same way; this bound is not used for
// indexing.
const attrTableLen = 256

// Origin attribute values (RFC 4271 §5.1.1).
const (
	OriginIGP        uint8 = 0
	OriginEGP        uint8 = 1
	OriginIncomplete uint8 = 2
)

// PathAttribute is one decoded path attribute: its framing (flags, type,
// raw length) plus a typed Value matching Type. Value holds exactly one
// of the concrete types documented below, chosen by Type — callers type
// switch on Type, then assert the corresponding concrete type.
type PathAttribute struct {
	Flags uint8
	Type  uint8

	// Value holds the typed decoded body. Concrete types: uint8 for
	// Origin, *AsPath for AS_PATH/AS4_PATH, netip.Addr for NextHop,
	// uint32 for MED/LocalPref/OriginatorID, struct{} (presence only)
	// for AtomicAggregate, Aggregator for AGGREGATOR/AS4_AGGREGATOR,
	// []uint32 for Communities/ClusterList, *MPReach for MP_REACH_NLRI,
	// *MPUnreach for MP_UNREACH_NLRI, []ExtendedCommunity for
	// EXT_COMMUNITIES/IPV6_EXT_COMMUNITIES, ASPathLimit for
	// AS_PATHLIMIT, []LargeCommunity for LARGE_COMMUNITIES, and []byte
	// (the opaque body) for BGPLS. An unrecognized type has a nil Value;
	// its body is only in Raw.
	Value any

	// Raw holds the undecoded attribute body. It is present when
	// DecoderOptions.PathAttrRawEnabled is set, and also, whatever that
	// option, for an attribute whose body was not decoded: an
	// unrecognized type kept under IgnoreNotImplemented, a type skipped
	// by PathAttrFilter, or an attribute flagged Malformed (Value is nil
	// in those cases).
	Raw []byte

	// Malformed is set instead of aborting decode when
	// DecoderOptions.IgnoreInvalid converted a structural error for this
	// attribute into a successful-but-flagged result.
	Malformed bool
}

// Aggregator is the AGGREGATOR/AS4_AGGREGATOR attribute body.
type Aggregator struct {
	ASN  uint32
	Addr [4]byte
}

// ASPathLimit is the (deprecated) AS_PATHLIMIT attribute body.
type ASPathLimit struct {
	MaxASNs uint8
	ASN     uint32
}

// LargeCommunity is one RFC8092 large community record.
type LargeCommunity struct {
	GlobalAdmin uint32
	Local1      uint32
	Local2      uint32
}

// PathAttributes is a sparse collection of the path attributes present in
// one UPDATE message, held in a map keyed by type code for O(1) lookup,
// plus an insertion-ordered list of the type codes for O(k) iteration.
type PathAttributes struct {
	byType map[uint8]*PathAttribute
	used   []uint8
}

func newPathAttributes() *PathAttributes {
	return &PathAttributes{byType: make(map[uint8]*PathAttribute, 8)}
}

// Get returns the attribute for typeCode, if present.
func (t *PathAttributes) Get(typeCode uint8) (*PathAttribute, bool) {
	if t == nil {
		return nil, false
	}
	a, ok := t.byType[typeCode]
	return a, ok
}

// Types returns the type codes present, in the order they were
// encountered on the wire.
func (t *PathAttributes) Types() []uint8 {
	if t == nil {
		return nil
	}
	return t.used
}

// set inserts attr, reporting ErrInvalid on a duplicate type code per
// spec.md §4.3 (RFC4271 §5 makes a repeated attribute a malformed UPDATE;
// the teacher this package is grounded on instead overwrote silently,
// which spec.md calls out as a bug to fix here).
func (t *PathAttributes) set(attr *PathAttribute) error {
	if _, exists := t.byType[attr.Type]; exists {
		return newErrf("update.path_attrs", ErrInvalid, "duplicate attribute type %d", attr.Type)
	}
	t.byType[attr.Type] = attr
	t.used = append(t.used, attr.Type)
	return nil
}

func (t *PathAttributes) reset() {
	for k := range t.byType {
		delete(t.byType, k)
	}
	t.used = t.used[:0]
}

// decodePathAttributes walks the path-attribute TLV area: each entry is
// framed as flags(1) type(1) len(1 or 2, per AttrFlagExtended) body(len),
// and the body is handed to decodeAttrValue for its type. Unrecognized
// types are reported as ErrNotImplemented unless IgnoreNotImplemented is
// set, in which case the attribute is kept with its body in Raw.
func decodePathAttributes(data []byte, opts *DecoderOptions) (*PathAttributes, error) {
	c := newCursor(data)
	table := newPathAttributes()

	for c.remain > 0 {
		flags, ok := c.readU8()
		if !ok {
			return table, newErr("update.path_attrs.flags", ErrInvalid)
		}
		typeCode, ok := c.readU8()
		if !ok {
			return table, newErr("update.path_attrs.type", ErrInvalid)
		}

		var attrLen int
		if flags&AttrFlagExtended != 0 {
			l, ok := c.readU16()
			if !ok {
				return table, newErr("update.path_attrs.len", ErrInvalid)
			}
			attrLen = int(l)
		} else {
			l, ok := c.readU8()
			if !ok {
				return table, newErr("update.path_attrs.len", ErrInvalid)
			}
			attrLen = int(l)
		}

		body, ok := c.readBytes(attrLen)
		if !ok {
			return table, newErrf("update.path_attrs", ErrInvalid, "attribute type %d declares length %d past end of attrs area", typeCode, attrLen)
		}

		attr := &PathAttribute{Flags: flags, Type: typeCode}
		if opts.PathAttrRawEnabled {
			attr.Raw = append([]byte(nil), body...)
		}

		if opts.filterAllows(typeCode) {
			value, err := decodeAttrValue(typeCode, body, opts)
			if err != nil {
				if err == errAttrNotImplemented {
					if opts.IgnoreNotImplemented {
						if attr.Raw == nil {
							attr.Raw = append([]byte(nil), body...)
						}
					} else {
						return table, newErrf("update.path_attrs", ErrNotImplemented, "attribute type %d", typeCode)
					}
				} else if opts.IgnoreInvalid {
					attr.Malformed = true
					if attr.Raw == nil {
						attr.Raw = append([]byte(nil), body...)
					}
				} else {
					return table, err
				}
			} else {
				attr.Value = value
			}
		} else if attr.Raw == nil {
			attr.Raw = append([]byte(nil), body...)
		}

		if err := table.set(attr); err != nil {
			if opts.IgnoreInvalid {
				// Keep the first occurrence; drop this duplicate
				// silently since the table already has a slot for it.
				continue
			}
			return table, err
		}
	}

	return table, nil
}
