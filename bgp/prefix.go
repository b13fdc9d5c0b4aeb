package bgp

// decodePrefix reads a single AFI/SAFI-tagged NLRI entry from c: a 1-byte
// bit-length, followed by ceil(bits/8) bytes. For SAFILabeled and
// SAFIMPLSVPN the length_bits field covers the label stack (and, for VPN,
// the Route Distinguisher) in addition to the address, per spec.md §4.2.
func decodePrefix(c *cursor, afi uint16, safi uint8) (Prefix, error) {
	lenBits8, ok := c.readU8()
	if !ok {
		return Prefix{}, newErr("nlri.prefix.length", ErrInvalid)
	}
	lenBits := int(lenBits8)

	p := Prefix{AFI: afi, SAFI: safi, LengthBits: lenBits}

	remainingBits := lenBits

	if safi == SAFILabeled || safi == SAFIMPLSVPN {
		for {
			if remainingBits < 24 {
				return Prefix{}, newErrf("nlri.prefix.labels", ErrInvalid, "label stack runs past declared length (%d bits left)", remainingBits)
			}
			labelBytes, ok := c.readBytes(3)
			if !ok {
				return Prefix{}, newErr("nlri.prefix.labels", ErrInvalid)
			}
			label := uint32(labelBytes[0])<<16 | uint32(labelBytes[1])<<8 | uint32(labelBytes[2])
			bottomOfStack := label&0x1 != 0
			p.Labels = append(p.Labels, label>>4)
			remainingBits -= 24
			if bottomOfStack {
				break
			}
			// Safety valve: a corrupt/hostile stream could set BoS=0
			// forever; bound iterations by the bits actually declared.
			if len(p.Labels) > lenBits/24+1 {
				return Prefix{}, newErrf("nlri.prefix.labels", ErrInvalid, "label stack did not terminate within declared length")
			}
		}
	}

	if safi == SAFIMPLSVPN {
		if remainingBits < 64 {
			return Prefix{}, newErrf("nlri.prefix.rd", ErrInvalid, "not enough declared bits for Route Distinguisher (%d left)", remainingBits)
		}
		rd, ok := c.readBytes(8)
		if !ok {
			return Prefix{}, newErr("nlri.prefix.rd", ErrInvalid)
		}
		copy(p.RD[:], rd)
		p.HasRD = true
		remainingBits -= 64
	}

	maxAddrBits := maxIPBits(afi)
	if remainingBits < 0 || remainingBits > maxAddrBits {
		return Prefix{}, newErrf("nlri.prefix.length", ErrInvalid, "address length %d bits exceeds AFI maximum %d", remainingBits, maxAddrBits)
	}

	byteLen := (remainingBits + 7) / 8
	addrBytes, ok := c.readBytes(byteLen)
	if !ok {
		return Prefix{}, newErr("nlri.prefix.address", ErrInvalid)
	}
	p.Address = append([]byte(nil), addrBytes...)
	p.AddressBits = remainingBits

	return p, nil
}

// decodePrefixList repeatedly decodes prefixes from c until it is
// exhausted (used for withdrawn/announced NLRI and MP_(UN)REACH NLRI,
// which all run to the end of their bounded slice rather than being
// individually length-prefixed).
func decodePrefixList(c *cursor, afi uint16, safi uint8) ([]Prefix, error) {
	var prefixes []Prefix
	for c.remain > 0 {
		p, err := decodePrefix(c, afi, safi)
		if err != nil {
			return prefixes, err
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, nil
}

func maxIPBits(afi uint16) int {
	switch afi {
	case AFIIPv4:
		return 32
	case AFIIPv6:
		return 128
	default:
		return 0
	}
}
