package bgp

import (
	"encoding/binary"
	"net/netip"
)

// Extended Community type (high byte), RFC 4360 + IANA registry.
const (
	ExtCommTypeTwoOctetAS    uint8 = 0x00
	ExtCommTypeIPv4          uint8 = 0x01
	ExtCommTypeFourOctetAS   uint8 = 0x02
	ExtCommTypeOpaque        uint8 = 0x03
	ExtCommTypeNonTransBit   uint8 = 0x40 // set on the non-transitive variants of the above
)

// ExtendedCommunity is one decoded 8-byte (or, for the IPv6 variant,
// 20-byte) extended community record. Exactly one of TwoOctetAS, IPv4,
// FourOctetAS, IPv6, Opaque, Unknown is populated, chosen by matching
// Type&0x3F (the transitive bit masked off) against the four recognized
// high-byte values; anything else leaves only Unknown populated.
type ExtendedCommunity struct {
	Type    uint8
	Subtype uint8

	TwoOctetAS  *ExtCommTwoOctetAS
	IPv4        *ExtCommIPv4
	FourOctetAS *ExtCommFourOctetAS
	IPv6        *ExtCommIPv6
	Opaque      []byte // 6 bytes
	Unknown     []byte // 7 bytes (8-byte form) or 17 bytes (IPv6 form)
}

type ExtCommTwoOctetAS struct {
	GlobalAdmin uint16
	LocalAdmin  uint32
}

type ExtCommIPv4 struct {
	GlobalAdmin netip.Addr
	LocalAdmin  uint16
}

type ExtCommFourOctetAS struct {
	GlobalAdmin uint32
	LocalAdmin  uint16
}

// ExtCommIPv6 is the RFC5701 20-byte IPv6 Address Specific Extended
// Community.
type ExtCommIPv6 struct {
	GlobalAdmin netip.Addr
	LocalAdmin  uint16
}

// decodeExtCommunities parses the EXT_COMMUNITIES (type 16) attribute
// body: a packed array of 8-byte records. Per spec.md §4.7, the length
// must be a multiple of 8.
func decodeExtCommunities(data []byte) ([]ExtendedCommunity, error) {
	if len(data)%8 != 0 {
		return nil, newErrf("update.path_attrs[EXT_COMMUNITIES]", ErrInvalid, "length %d not a multiple of 8", len(data))
	}
	out := make([]ExtendedCommunity, 0, len(data)/8)
	for i := 0; i < len(data); i += 8 {
		out = append(out, decodeExtCommunityRecord(data[i:i+8]))
	}
	return out, nil
}

// decodeExtCommunitiesIPv6 parses the IPV6_EXT_COMMUNITIES (type 25)
// attribute body: a packed array of 20-byte records.
func decodeExtCommunitiesIPv6(data []byte) ([]ExtendedCommunity, error) {
	if len(data)%20 != 0 {
		return nil, newErrf("update.path_attrs[IPV6_EXT_COMMUNITIES]", ErrInvalid, "length %d not a multiple of 20", len(data))
	}
	out := make([]ExtendedCommunity, 0, len(data)/20)
	for i := 0; i < len(data); i += 20 {
		out = append(out, decodeExtCommunityIPv6Record(data[i:i+20]))
	}
	return out, nil
}

func decodeExtCommunityRecord(rec []byte) ExtendedCommunity {
	ec := ExtendedCommunity{Type: rec[0], Subtype: rec[1]}
	switch rec[0] &^ ExtCommTypeNonTransBit {
	case ExtCommTypeTwoOctetAS:
		ec.TwoOctetAS = &ExtCommTwoOctetAS{
			GlobalAdmin: binary.BigEndian.Uint16(rec[2:4]),
			LocalAdmin:  binary.BigEndian.Uint32(rec[4:8]),
		}
	case ExtCommTypeIPv4:
		var b [4]byte
		copy(b[:], rec[2:6])
		ec.IPv4 = &ExtCommIPv4{
			GlobalAdmin: netip.AddrFrom4(b),
			LocalAdmin:  binary.BigEndian.Uint16(rec[6:8]),
		}
	case ExtCommTypeFourOctetAS:
		ec.FourOctetAS = &ExtCommFourOctetAS{
			GlobalAdmin: binary.BigEndian.Uint32(rec[2:6]),
			LocalAdmin:  binary.BigEndian.Uint16(rec[6:8]),
		}
	case ExtCommTypeOpaque:
		ec.Opaque = append([]byte(nil), rec[2:8]...)
	default:
		ec.Unknown = append([]byte(nil), rec[1:8]...)
	}
	return ec
}

func decodeExtCommunityIPv6Record(rec []byte) ExtendedCommunity {
	ec := ExtendedCommunity{Type: rec[0], Subtype: rec[1]}
	switch rec[0] &^ ExtCommTypeNonTransBit {
	case ExtCommTypeTwoOctetAS: // 0x00 here means "IPv6 Address Specific" per RFC5701
		var b [16]byte
		copy(b[:], rec[2:18])
		ec.IPv6 = &ExtCommIPv6{
			GlobalAdmin: netip.AddrFrom16(b),
			LocalAdmin:  binary.BigEndian.Uint16(rec[18:20]),
		}
	default:
		ec.Unknown = append([]byte(nil), rec[1:20]...)
	}
	return ec
}
