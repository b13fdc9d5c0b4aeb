package bgp

import "net/netip"

// decodeOpen parses the OPEN message body (RFC 4271 §4.2): version(1)
// my_asn(2) hold_time(2) bgp_identifier(4) opt_param_len(1) opt_params(var).
func decodeOpen(body []byte) (*OpenMessage, error) {
	c := newCursor(body)

	version, ok := c.readU8()
	if !ok {
		return nil, newErr("open.version", ErrInvalid)
	}
	myASN, ok := c.readU16()
	if !ok {
		return nil, newErr("open.my_asn", ErrInvalid)
	}
	holdTime, ok := c.readU16()
	if !ok {
		return nil, newErr("open.hold_time", ErrInvalid)
	}
	idBytes, ok := c.readBytes(4)
	if !ok {
		return nil, newErr("open.bgp_identifier", ErrInvalid)
	}
	var idArr [4]byte
	copy(idArr[:], idBytes)

	paramsLen, ok := c.readU8()
	if !ok {
		return nil, newErr("open.opt_param_len", ErrInvalid)
	}
	paramsBytes, ok := c.readBytes(int(paramsLen))
	if !ok {
		return nil, newErrf("open", ErrInvalid, "opt_param_len %d past end of message", paramsLen)
	}

	params, err := decodeOpenParameters(paramsBytes)
	if err != nil {
		return nil, err
	}

	return &OpenMessage{
		Version:       version,
		MyASN:         myASN,
		HoldTime:      holdTime,
		BGPIdentifier: netip.AddrFrom4(idArr),
		Parameters:    params,
	}, nil
}

func decodeOpenParameters(data []byte) ([]OpenParameter, error) {
	c := newCursor(data)
	var params []OpenParameter
	for c.remain > 0 {
		typeCode, ok := c.readU8()
		if !ok {
			return nil, newErr("open.parameters.type", ErrInvalid)
		}
		length, ok := c.readU8()
		if !ok {
			return nil, newErr("open.parameters.length", ErrInvalid)
		}
		value, ok := c.readBytes(int(length))
		if !ok {
			return nil, newErrf("open.parameters", ErrInvalid, "parameter type %d declares length %d past end of opt_params", typeCode, length)
		}
		params = append(params, OpenParameter{Type: typeCode, Value: append([]byte(nil), value...)})
	}
	return params, nil
}
