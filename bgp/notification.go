package bgp

// decodeNotification parses the NOTIFICATION message body (RFC 4271
// §4.5): error_code(1) error_subcode(1) data(to end of body, arbitrary
// diagnostic content whose shape depends on code/subcode and which this
// package does not further interpret).
func decodeNotification(body []byte) (*NotificationMessage, error) {
	c := newCursor(body)

	code, ok := c.readU8()
	if !ok {
		return nil, newErr("notification.code", ErrInvalid)
	}
	subcode, ok := c.readU8()
	if !ok {
		return nil, newErr("notification.subcode", ErrInvalid)
	}
	data := c.rest()
	c.skip(c.remain)

	return &NotificationMessage{Code: code, Subcode: subcode, Data: append([]byte(nil), data...)}, nil
}
