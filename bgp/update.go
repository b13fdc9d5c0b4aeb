package bgp

// UpdateMessage is the decoded BGP UPDATE message body (RFC 4271 §4.3).
// Withdrawn and NLRI are always IPv4 unicast (AFI 1 / SAFI 1) per the wire
// format's own framing; IPv6 and non-unicast reachability travels
// exclusively through the MP_REACH_NLRI/MP_UNREACH_NLRI path attributes
// (Attrs), never through these two fields.
type UpdateMessage struct {
	Withdrawn []Prefix
	Attrs     *PathAttributes
	NLRI      []Prefix
}

func (u *UpdateMessage) reset() {
	u.Withdrawn = u.Withdrawn[:0]
	if u.Attrs != nil {
		u.Attrs.reset()
	}
	u.NLRI = u.NLRI[:0]
}

// decodeUpdate parses the UPDATE body: withdrawn_len(2) withdrawn_routes
// attrs_len(2) path_attributes nlri(to end of body). Grounded on the
// teacher's parseUpdatePayload in internal/bgp/update.go, generalized to
// run entirely through the cursor/PathAttributes abstractions instead of
// building a flattened RouteEvent list inline.
func decodeUpdate(body []byte, opts *DecoderOptions) (*UpdateMessage, error) {
	c := newCursor(body)

	wdLen, ok := c.readU16()
	if !ok {
		return nil, newErr("update.withdrawn_len", ErrInvalid)
	}
	wdBytes, ok := c.readBytes(int(wdLen))
	if !ok {
		return nil, newErrf("update", ErrInvalid, "withdrawn_len %d past end of message", wdLen)
	}
	withdrawn, err := decodePrefixList(newCursor(wdBytes), AFIIPv4, SAFIUnicast)
	if err != nil {
		return &UpdateMessage{Withdrawn: withdrawn}, err
	}

	attrsLen, ok := c.readU16()
	if !ok {
		return &UpdateMessage{Withdrawn: withdrawn}, newErr("update.attrs_len", ErrInvalid)
	}
	attrsBytes, ok := c.readBytes(int(attrsLen))
	if !ok {
		return &UpdateMessage{Withdrawn: withdrawn}, newErrf("update", ErrInvalid, "attrs_len %d past end of message", attrsLen)
	}
	attrs, err := decodePathAttributes(attrsBytes, opts)
	if err != nil {
		return &UpdateMessage{Withdrawn: withdrawn, Attrs: attrs}, err
	}

	// decodePrefixList returns whatever prefixes it parsed before hitting
	// trouble, so the partial tree survives even when the NLRI pass itself
	// fails or the caller is tolerating truncation.
	nlri, err := decodePrefixList(c, AFIIPv4, SAFIUnicast)
	return &UpdateMessage{Withdrawn: withdrawn, Attrs: attrs, NLRI: nlri}, err
}
