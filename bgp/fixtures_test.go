package bgp

import "encoding/binary"

// buildHeader prepends a 19-byte BGP common header (16-byte 0xFF marker,
// declared length, message type) to body.
func buildHeader(msgType uint8, body []byte) []byte {
	total := HeaderLen + len(body)
	msg := make([]byte, total)
	for i := 0; i < 16; i++ {
		msg[i] = 0xFF
	}
	binary.BigEndian.PutUint16(msg[16:18], uint16(total))
	msg[18] = msgType
	copy(msg[19:], body)
	return msg
}

// buildPathAttr constructs one framed path attribute, switching to the
// extended (2-byte) length form when data exceeds 255 bytes.
func buildPathAttr(flags, typeCode uint8, data []byte) []byte {
	if len(data) > 255 {
		attr := make([]byte, 4+len(data))
		attr[0] = flags | AttrFlagExtended
		attr[1] = typeCode
		binary.BigEndian.PutUint16(attr[2:4], uint16(len(data)))
		copy(attr[4:], data)
		return attr
	}
	attr := make([]byte, 3+len(data))
	attr[0] = flags
	attr[1] = typeCode
	attr[2] = byte(len(data))
	copy(attr[3:], data)
	return attr
}

// buildUpdateBody constructs an UPDATE message body: withdrawn_len,
// withdrawn, attrs_len, attrs, nlri.
func buildUpdateBody(withdrawn, attrs, nlri []byte) []byte {
	body := make([]byte, 0, 4+len(withdrawn)+len(attrs)+len(nlri))
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(withdrawn)))
	body = append(body, lenBuf[:]...)
	body = append(body, withdrawn...)
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(attrs)))
	body = append(body, lenBuf[:]...)
	body = append(body, attrs...)
	body = append(body, nlri...)
	return body
}

// buildPrefix encodes one IPv4 unicast NLRI entry: length_bits followed by
// ceil(bits/8) address bytes.
func buildPrefix(lenBits uint8, addr ...byte) []byte {
	return append([]byte{lenBits}, addr...)
}
