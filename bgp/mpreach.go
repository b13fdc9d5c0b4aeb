package bgp

import "net/netip"

// MPReach is the decoded MP_REACH_NLRI attribute (type 14, RFC 4760 §3).
type MPReach struct {
	AFI  uint16
	SAFI uint8

	// NextHop holds the next-hop field exactly as declared on the wire
	// (its length is self-describing via a length octet, independent of
	// AFI/SAFI). For SAFIMPLSVPN it is prefixed by an 8-byte RD that
	// spec.md §4.6 notes is conventionally zero and is not validated here.
	NextHop []byte

	// NextHopAddrs is NextHop reinterpreted as one address (the common
	// case) or two (IPv6 global next-hop plus an RFC2545 link-local),
	// whichever evenly divides NextHop's length into 4- or 16-byte
	// chunks after skipping a leading 8-byte RD for SAFIMPLSVPN. Empty if
	// NextHop's length matches neither shape.
	NextHopAddrs []netip.Addr

	NLRI []Prefix
}

// MPUnreach is the decoded MP_UNREACH_NLRI attribute (type 15, RFC 4760 §4).
type MPUnreach struct {
	AFI  uint16
	SAFI uint8
	NLRI []Prefix
}

// decodeMPReach parses: AFI(2) SAFI(1) next_hop_len(1) next_hop(var)
// reserved(1) nlri(to end). The reserved "SNPA count" octet (always 0 in
// practice since RFC4760 deprecated SNPA) is consumed and discarded, not
// validated, per spec.md §4.6's explicit Open Question resolution.
func decodeMPReach(body []byte) (*MPReach, error) {
	c := newCursor(body)

	afi, ok := c.readU16()
	if !ok {
		return nil, newErr("update.path_attrs[MP_REACH_NLRI].afi", ErrInvalid)
	}
	safi, ok := c.readU8()
	if !ok {
		return nil, newErr("update.path_attrs[MP_REACH_NLRI].safi", ErrInvalid)
	}
	nhLen, ok := c.readU8()
	if !ok {
		return nil, newErr("update.path_attrs[MP_REACH_NLRI].nexthop_len", ErrInvalid)
	}
	nh, ok := c.readBytes(int(nhLen))
	if !ok {
		return nil, newErrf("update.path_attrs[MP_REACH_NLRI]", ErrInvalid, "next-hop length %d past end of attribute", nhLen)
	}
	if !c.skip(1) { // reserved SNPA-count octet
		return nil, newErr("update.path_attrs[MP_REACH_NLRI].reserved", ErrInvalid)
	}

	nlri, err := decodePrefixList(c, afi, safi)
	if err != nil {
		return nil, err
	}

	return &MPReach{
		AFI:          afi,
		SAFI:         safi,
		NextHop:      append([]byte(nil), nh...),
		NextHopAddrs: splitNextHop(safi, nh),
		NLRI:         nlri,
	}, nil
}

// decodeMPUnreach parses: AFI(2) SAFI(1) nlri(to end).
func decodeMPUnreach(body []byte) (*MPUnreach, error) {
	c := newCursor(body)

	afi, ok := c.readU16()
	if !ok {
		return nil, newErr("update.path_attrs[MP_UNREACH_NLRI].afi", ErrInvalid)
	}
	safi, ok := c.readU8()
	if !ok {
		return nil, newErr("update.path_attrs[MP_UNREACH_NLRI].safi", ErrInvalid)
	}

	nlri, err := decodePrefixList(c, afi, safi)
	if err != nil {
		return nil, err
	}

	return &MPUnreach{AFI: afi, SAFI: safi, NLRI: nlri}, nil
}

func splitNextHop(safi uint8, nh []byte) []netip.Addr {
	if safi == SAFIMPLSVPN && len(nh) >= 8 {
		nh = nh[8:] // skip the conventionally-zero RD prefix
	}
	switch len(nh) {
	case 4:
		var b [4]byte
		copy(b[:], nh)
		return []netip.Addr{netip.AddrFrom4(b)}
	case 16:
		var b [16]byte
		copy(b[:], nh)
		return []netip.Addr{netip.AddrFrom16(b)}
	case 32:
		var global, local [16]byte
		copy(global[:], nh[:16])
		copy(local[:], nh[16:])
		return []netip.Addr{netip.AddrFrom16(global), netip.AddrFrom16(local)}
	default:
		return nil
	}
}
