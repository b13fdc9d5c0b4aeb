package bgp

import "encoding/binary"

// cursor is a length-bounded, forward-only reader over a byte slice.
// Every read either succeeds and advances the cursor, or reports that
// fewer bytes remain than requested without advancing — the only
// mechanism in this package allowed to index raw bytes, per the bounds
// discipline every decoder in this package follows.
type cursor struct {
	buf    []byte
	off    int
	remain int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf, remain: len(buf)}
}

// consumed returns how many bytes have been read so far.
func (c *cursor) consumed() int {
	return c.off
}

// rest returns the unread tail of the cursor without consuming it.
func (c *cursor) rest() []byte {
	return c.buf[c.off : c.off+c.remain]
}

func (c *cursor) have(n int) bool {
	return n >= 0 && c.remain >= n
}

// readBytes returns the next n bytes and advances the cursor. The
// returned slice aliases the original buffer; callers that need to retain
// it past the lifetime of the input buffer must copy it themselves.
func (c *cursor) readBytes(n int) ([]byte, bool) {
	if !c.have(n) {
		return nil, false
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	c.remain -= n
	return b, true
}

func (c *cursor) skip(n int) bool {
	if !c.have(n) {
		return false
	}
	c.off += n
	c.remain -= n
	return true
}

func (c *cursor) readU8() (uint8, bool) {
	b, ok := c.readBytes(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (c *cursor) readU16() (uint16, bool) {
	b, ok := c.readBytes(2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

func (c *cursor) readU32() (uint32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

func (c *cursor) readU64() (uint64, bool) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}

// slice carves out a bounded sub-cursor over the next n bytes without
// advancing the parent; the caller must explicitly skip(n) on the parent
// after it is done with the sub-cursor. Exhausting the sub-cursor never
// consumes bytes from the parent beyond its own n-byte window.
func (c *cursor) slice(n int) (*cursor, bool) {
	if !c.have(n) {
		return nil, false
	}
	// The parent's off/remain are left untouched; the sub-cursor is an
	// independent view over exactly the next n bytes.
	b := c.buf[c.off : c.off+n]
	return &cursor{buf: b, remain: len(b)}, true
}
