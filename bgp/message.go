package bgp

// Decode parses exactly one BGP message from the front of data. It never
// returns a partially-built Message: if data does not yet contain a full
// message (per the declared Len field), it returns ErrPartial and the
// caller is expected to read more bytes and call Decode again — no bytes
// are considered consumed in that case. This is the strict entry point;
// DecodeExt additionally supports returning a best-effort Message built
// from a short buffer.
//
// consumed is the number of bytes of data the message occupied (equal to
// the wire Len field) on success.
func Decode(data []byte, opts *DecoderOptions) (msg *Message, consumed int, err error) {
	return decodeMessage(data, opts, false)
}

// DecodeExt is Decode with one additional mode: when allowTruncation is
// true and data holds fewer bytes than the message's declared Len, it
// decodes as much as the available bytes allow and returns a non-nil
// Message alongside ErrTruncated, instead of ErrPartial with a nil
// Message. This mirrors the behavior original_source/lib/bgp/parsebgp_bgp.c
// calls allow_truncation: useful for a caller (e.g. the mrt or bmp
// collaborator packages) that embeds a BGP message inside a larger record
// whose own framing guarantees the declared length is trustworthy even if
// a stream got cut off mid-capture.
//
// consumed is the number of bytes actually read from data: the full
// declared Len on success, or len(data) when ErrTruncated is returned.
func DecodeExt(data []byte, opts *DecoderOptions, allowTruncation bool) (msg *Message, consumed int, err error) {
	return decodeMessage(data, opts, allowTruncation)
}

func decodeMessage(data []byte, opts *DecoderOptions, allowTruncation bool) (*Message, int, error) {
	if opts == nil {
		opts = &DecoderOptions{}
	}

	headerLen := HeaderLen
	if opts.MarkerOmitted {
		headerLen = HeaderLen - 16
	}
	if len(data) < headerLen {
		return nil, 0, newErr("header", ErrPartial)
	}

	c := newCursor(data)
	msg := &Message{}

	if !opts.MarkerOmitted {
		marker, _ := c.readBytes(16)
		if opts.MarkerCopy {
			copy(msg.Marker[:], marker)
		}
		msg.MarkerPresent = true
	}

	length, _ := c.readU16()
	msgType, _ := c.readU8()
	msg.Len = length
	msg.Type = msgType

	if int(length) < MinMsgLen || int(length) > MaxMsgLen {
		return nil, 0, newErrf("header.length", ErrMalformed, "declared length %d outside [%d, %d]", length, MinMsgLen, MaxMsgLen)
	}

	bodyLen := int(length) - headerLen
	available := len(data) - headerLen

	if available < bodyLen {
		if !allowTruncation {
			return nil, 0, newErr("header.length", ErrPartial)
		}
		body, _ := c.readBytes(available)
		if err := dispatchBody(msg, msgType, body, opts); err != nil {
			// The available bytes weren't even enough to complete this
			// message's body framing; report the root cause as
			// truncation rather than the incidental field-level error
			// a sub-decoder produced from running out of bytes mid-field.
			return msg, headerLen + available, newErrf("body", ErrTruncated, "declared length %d, only %d bytes available: %v", length, available, err)
		}
		return msg, headerLen + available, newErrf("body", ErrTruncated, "declared length %d, only %d bytes available", length, available)
	}

	body, _ := c.readBytes(bodyLen)
	if err := dispatchBody(msg, msgType, body, opts); err != nil {
		return nil, 0, err
	}

	return msg, int(length), nil
}

func dispatchBody(msg *Message, msgType uint8, body []byte, opts *DecoderOptions) error {
	switch msgType {
	case MsgTypeOpen:
		open, err := decodeOpen(body)
		if err != nil {
			return err
		}
		msg.Open = open
	case MsgTypeUpdate:
		// decodeUpdate returns whatever it managed to parse alongside a
		// non-nil error, so assign before checking: the truncation path in
		// decodeMessage keeps msg on error and needs the partial tree.
		update, err := decodeUpdate(body, opts)
		msg.Update = update
		if err != nil {
			return err
		}
	case MsgTypeNotification:
		notif, err := decodeNotification(body)
		if err != nil {
			return err
		}
		msg.Notification = notif
	case MsgTypeKeepalive:
		if err := decodeKeepalive(body); err != nil {
			return err
		}
	case MsgTypeRouteRefresh:
		rr, err := decodeRouteRefresh(body)
		if err != nil {
			return err
		}
		msg.RouteRefresh = rr
	default:
		return newErrf("header.type", ErrInvalid, "unknown message type %d", msgType)
	}
	return nil
}
