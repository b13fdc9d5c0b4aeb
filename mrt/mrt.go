// Package mrt decodes MRT archive records (RFC 6396) carrying BGP UPDATE
// messages captured off the wire, the on-disk format RouteViews and RIPE
// RIS distribute their table dumps and update streams in. It builds on
// top of package bgp for the BGP payload itself; this package is
// responsible only for the outer MRT record framing and the BGP4MP
// sub-header that wraps a captured peering session's identity around
// each message.
package mrt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/pobradovic08/bgpdecode/bgp"
)

// HeaderLen is the fixed size of the MRT common header: timestamp(4)
// type(2) subtype(2) length(4).
const HeaderLen = 12

// MRT record types this package understands (RFC 6396 §3, IANA "MRT Type
// Subcodes"). Only the BGP4MP family is decoded; other types (TABLE_DUMP,
// TABLE_DUMP_V2, OSPF, ISIS) are returned as opaque Records.
const (
	TypeBGP4MP   uint16 = 16
	TypeBGP4MPET uint16 = 17
)

// BGP4MP subtypes (RFC 6396 §4.4).
const (
	SubtypeStateChange     uint16 = 0
	SubtypeMessage         uint16 = 1
	SubtypeMessageAS4      uint16 = 4
	SubtypeStateChangeAS4  uint16 = 5
	SubtypeMessageLocal    uint16 = 6
	SubtypeMessageAS4Local uint16 = 7
)

// Record is one decoded MRT record.
type Record struct {
	// Timestamp is seconds since the Unix epoch. For TypeBGP4MPET it is
	// the whole-second part; MicroTimestamp holds the remainder.
	Timestamp      uint32
	MicroTimestamp uint32

	Type    uint16
	Subtype uint16

	// BGP4MP is populated when Type is TypeBGP4MP/TypeBGP4MPET and
	// Subtype is one of the MESSAGE variants; nil otherwise.
	BGP4MP *BGP4MPMessage

	// Raw holds the record's value bytes (after any BGP4MP_ET extra
	// microsecond field) whenever BGP4MP is nil — state-change records
	// and any type this package doesn't specialize.
	Raw []byte
}

// BGP4MPMessage is a decoded BGP4MP_MESSAGE/BGP4MP_MESSAGE_AS4 payload: the
// peering session identity the capturing router attached, plus the
// encapsulated BGP message itself.
type BGP4MPMessage struct {
	PeerASN  uint32
	LocalASN uint32
	IfIndex  uint16
	AFI      uint16
	PeerIP   netip.Addr
	LocalIP  netip.Addr

	BGP *bgp.Message
	// Truncated is set when the embedded BGP message's declared length
	// ran past the bytes available in this MRT record's own value field.
	Truncated bool
}

// DecodeRecord decodes one MRT record from the front of data. It returns
// the number of bytes consumed (the full record, header plus value), or an
// error wrapping errShort if data does not yet hold a complete record.
func DecodeRecord(data []byte, opts *bgp.DecoderOptions) (*Record, int, error) {
	if len(data) < HeaderLen {
		return nil, 0, fmt.Errorf("mrt: %w: need %d bytes for header, have %d", errShort, HeaderLen, len(data))
	}

	ts := binary.BigEndian.Uint32(data[0:4])
	typ := binary.BigEndian.Uint16(data[4:6])
	subtype := binary.BigEndian.Uint16(data[6:8])
	length := binary.BigEndian.Uint32(data[8:12])

	total := HeaderLen + int(length)
	if len(data) < total {
		return nil, 0, fmt.Errorf("mrt: %w: record declares %d value bytes, have %d", errShort, length, len(data)-HeaderLen)
	}

	value := data[HeaderLen:total]
	rec := &Record{Timestamp: ts, Type: typ, Subtype: subtype}

	if typ == TypeBGP4MPET {
		if len(value) < 4 {
			return nil, 0, fmt.Errorf("mrt: %w: BGP4MP_ET record missing microsecond field", errShort)
		}
		rec.MicroTimestamp = binary.BigEndian.Uint32(value[:4])
		value = value[4:]
	}

	if (typ == TypeBGP4MP || typ == TypeBGP4MPET) && isMessageSubtype(subtype) {
		b4mp, err := decodeBGP4MPMessage(value, subtype, opts)
		if err != nil {
			return nil, 0, err
		}
		rec.BGP4MP = b4mp
	} else {
		rec.Raw = append([]byte(nil), value...)
	}

	return rec, total, nil
}

func isMessageSubtype(subtype uint16) bool {
	switch subtype {
	case SubtypeMessage, SubtypeMessageAS4, SubtypeMessageLocal, SubtypeMessageAS4Local:
		return true
	default:
		return false
	}
}

// decodeBGP4MPMessage parses the BGP4MP_MESSAGE(_AS4)(_LOCAL) sub-header:
// peer_as local_as (2 or 4 bytes each, per the AS4 subtype) interface_index(2)
// address_family(2) peer_ip local_ip (4 or 16 bytes each, per AFI), followed
// by the encapsulated BGP message with no marker compression — grounded on
// CSUNetSec-protoparse's bgp4mpHdrBuf.Parse, generalized to call into
// package bgp instead of a protobuf-backed parse tree.
func decodeBGP4MPMessage(value []byte, subtype uint16, opts *bgp.DecoderOptions) (*BGP4MPMessage, error) {
	as4 := subtype == SubtypeMessageAS4 || subtype == SubtypeMessageAS4Local
	asnWidth := 2
	if as4 {
		asnWidth = 4
	}

	need := 2*asnWidth + 4
	if len(value) < need {
		return nil, fmt.Errorf("mrt: %w: BGP4MP header truncated before address family", errShort)
	}

	m := &BGP4MPMessage{}
	off := 0
	if as4 {
		m.PeerASN = binary.BigEndian.Uint32(value[0:4])
		m.LocalASN = binary.BigEndian.Uint32(value[4:8])
		off = 8
	} else {
		m.PeerASN = uint32(binary.BigEndian.Uint16(value[0:2]))
		m.LocalASN = uint32(binary.BigEndian.Uint16(value[2:4]))
		off = 4
	}
	m.IfIndex = binary.BigEndian.Uint16(value[off : off+2])
	m.AFI = binary.BigEndian.Uint16(value[off+2 : off+4])
	off += 4

	var addrLen int
	switch m.AFI {
	case bgp.AFIIPv4:
		addrLen = 4
	case bgp.AFIIPv6:
		addrLen = 16
	default:
		return nil, fmt.Errorf("mrt: unsupported BGP4MP address family %d", m.AFI)
	}
	if len(value) < off+2*addrLen {
		return nil, fmt.Errorf("mrt: %w: BGP4MP header truncated before peer/local addresses", errShort)
	}
	m.PeerIP = addrFromBytes(value[off : off+addrLen])
	off += addrLen
	m.LocalIP = addrFromBytes(value[off : off+addrLen])
	off += addrLen

	bgpMsg, _, err := bgp.DecodeExt(value[off:], opts, true)
	m.Truncated = errors.Is(err, bgp.ErrTruncated)
	if err != nil && !m.Truncated {
		return nil, fmt.Errorf("mrt: decoding encapsulated BGP message: %w", err)
	}
	m.BGP = bgpMsg
	return m, nil
}

// Split is a bufio.Scanner split function that frames one MRT record at a
// time, grounded on CSUNetSec-protoparse's SplitMrt. It requests more data
// rather than erroring when a record is only partially buffered, so a
// Scanner using it drives naturally off an io.Reader over a growing file
// or a streaming socket.
func Split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if len(data) < HeaderLen {
		if atEOF {
			return 0, nil, fmt.Errorf("mrt: %w: %d trailing bytes shorter than header", errShort, len(data))
		}
		return 0, nil, nil
	}
	total := HeaderLen + int(binary.BigEndian.Uint32(data[8:12]))
	if len(data) < total {
		if atEOF {
			return 0, nil, fmt.Errorf("mrt: %w: final record declares %d bytes, have %d", errShort, total, len(data))
		}
		return 0, nil, nil
	}
	return total, data[:total], nil
}

func addrFromBytes(b []byte) netip.Addr {
	switch len(b) {
	case 4:
		var a [4]byte
		copy(a[:], b)
		return netip.AddrFrom4(a)
	case 16:
		var a [16]byte
		copy(a[:], b)
		return netip.AddrFrom16(a)
	default:
		return netip.Addr{}
	}
}
