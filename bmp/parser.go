package bmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/pobradovic08/bgpdecode/bgp"
)

// RouteMonitoring is a decoded Route Monitoring message (RFC 7854 §4.6):
// the per-peer header followed by one BGP UPDATE. For a Loc-RIB peer
// (RFC 9069) it additionally carries the VRF/table-name TLV that follows
// the embedded UPDATE.
type RouteMonitoring struct {
	BGP   *bgp.Message
	Table string

	// Truncated is set when the embedded UPDATE's declared length ran
	// past the bytes this Route Monitoring message's own framing made
	// available — BGP is still populated best-effort.
	Truncated bool
}

// PeerUp is a decoded Peer Up Notification (RFC 7854 §4.10).
type PeerUp struct {
	LocalAddr  netip.Addr
	LocalPort  uint16
	RemotePort uint16

	SentOpen     *bgp.Message
	ReceivedOpen *bgp.Message
	Truncated    bool

	Info *InfoTLVs
}

// PeerDown is a decoded Peer Down Notification (RFC 7854 §4.9).
type PeerDown struct {
	Reason uint8

	// Notification holds the BGP NOTIFICATION that caused the session to
	// go down, present only for Reason 1 ("the local system closed the
	// session") and Reason 3 ("the remote system closed the session with
	// a notification").
	Notification *bgp.Message

	// FSMEventCode is set only for Reason 2 (local system closed the
	// session without a notification, FSM event code per RFC 7854 §4.9).
	FSMEventCode uint16

	Truncated bool
}

// Parse decodes one complete BMP message from data (data must hold
// exactly one message — msg_length bytes of common header plus body; use
// ParseAll for a buffer holding several messages back to back).
func Parse(data []byte, opts *bgp.DecoderOptions) (*Message, error) {
	if len(data) < CommonHeaderSize {
		return nil, fmt.Errorf("bmp: message too short for common header (%d bytes)", len(data))
	}

	version := data[0]
	if version != BMPVersion {
		return nil, fmt.Errorf("bmp: unsupported version %d (expected %d)", version, BMPVersion)
	}

	msgLength := binary.BigEndian.Uint32(data[1:5])
	msgType := data[5]

	if msgLength < uint32(CommonHeaderSize) {
		return nil, fmt.Errorf("bmp: declared msg_length %d smaller than common header size %d", msgLength, CommonHeaderSize)
	}
	if int(msgLength) > len(data) {
		return nil, fmt.Errorf("bmp: declared msg_length %d exceeds available data %d", msgLength, len(data))
	}

	body := data[CommonHeaderSize:msgLength]
	msg := &Message{Type: msgType}

	switch msgType {
	case MsgTypeRouteMonitoring:
		peer, rest, err := decodePerPeerHeader(body)
		if err != nil {
			return nil, err
		}
		msg.Peer = peer
		rm, err := decodeRouteMonitoring(rest, peer, opts)
		if err != nil {
			return nil, err
		}
		msg.RouteMonitoring = rm
	case MsgTypePeerUp:
		peer, rest, err := decodePerPeerHeader(body)
		if err != nil {
			return nil, err
		}
		msg.Peer = peer
		pu, err := decodePeerUp(rest, peer, opts)
		if err != nil {
			return nil, err
		}
		msg.PeerUp = pu
	case MsgTypePeerDown:
		peer, rest, err := decodePerPeerHeader(body)
		if err != nil {
			return nil, err
		}
		msg.Peer = peer
		pd, err := decodePeerDown(rest, opts)
		if err != nil {
			return nil, err
		}
		msg.PeerDown = pd
	case MsgTypeInitiation:
		msg.Initiation = decodeInfoTLVs(body)
	case MsgTypeTermination:
		msg.Termination = decodeInfoTLVs(body)
	default:
		// Statistics Report and Route Mirroring carry a per-peer header
		// this package exposes but does not further decode the body of.
		if msgType == MsgTypeStatisticsReport || msgType == MsgTypeRouteMirroring {
			peer, _, err := decodePerPeerHeader(body)
			if err == nil {
				msg.Peer = peer
			}
		}
	}

	return msg, nil
}

// ParseAll decodes every complete BMP message packed back-to-back in data.
// A single OpenBMP-unwrapped payload commonly carries more than one BMP
// message (a RouteMonitoring run, a burst of PeerUp/PeerDown pairs), so
// callers that only need the first message should still prefer this over
// Parse. Messages that fail to decode are skipped — their declared
// msg_length is trusted to locate the next message regardless — and a
// trailing fragment too short to hold a full common header is dropped
// silently. An error is returned only when not a single message in data
// could be parsed.
func ParseAll(data []byte, opts *bgp.DecoderOptions) ([]*Message, error) {
	var out []*Message
	offset := 0
	for offset+CommonHeaderSize <= len(data) {
		msgLength := int(binary.BigEndian.Uint32(data[offset+1 : offset+5]))
		if msgLength < CommonHeaderSize || offset+msgLength > len(data) {
			break
		}
		if msg, err := Parse(data[offset:offset+msgLength], opts); err == nil {
			msg.Offset = offset
			out = append(out, msg)
		}
		offset += msgLength
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("bmp: no valid BMP messages found in %d bytes", len(data))
	}
	return out, nil
}

// RouterIDFromPeerHeader extracts a best-effort router identifier straight
// from a raw per-peer header, without decoding the rest of the message —
// useful for logging a message's origin when full decoding has failed.
// Loc-RIB peers (RFC 9069 §3) zero out Peer Address and Peer AS, so the
// Peer BGP ID field is used as a fallback in that case.
func RouterIDFromPeerHeader(data []byte) string {
	if len(data) < PerPeerHeaderSize {
		return ""
	}

	var addr netip.Addr
	if data[1]&PeerFlagIPv6 != 0 {
		var a [16]byte
		copy(a[:], data[10:26])
		addr = netip.AddrFrom16(a)
	} else {
		var a [4]byte
		copy(a[:], data[22:26])
		addr = netip.AddrFrom4(a)
	}
	if !addr.IsUnspecified() {
		return addr.String()
	}

	if data[0] != PeerTypeLocRIB {
		return ""
	}
	var bgpID [4]byte
	copy(bgpID[:], data[30:34])
	id := netip.AddrFrom4(bgpID)
	if id.IsUnspecified() {
		return ""
	}
	return id.String()
}

func decodePerPeerHeader(data []byte) (*PerPeerHeader, []byte, error) {
	if len(data) < PerPeerHeaderSize {
		return nil, nil, fmt.Errorf("bmp: too short for per-peer header (%d bytes)", len(data))
	}

	h := &PerPeerHeader{
		PeerType: data[0],
		Flags:    data[1],
	}
	h.IsLocRIB = h.PeerType == PeerTypeLocRIB
	h.ASN4Byte = h.Flags&PeerFlagLegacyASPath == 0
	copy(h.Distinguisher[:], data[2:10])

	if h.Flags&PeerFlagIPv6 != 0 {
		var a [16]byte
		copy(a[:], data[10:26])
		h.Addr = netip.AddrFrom16(a)
	} else {
		var a [4]byte
		copy(a[:], data[22:26]) // low-order 4 bytes of the 16-byte field
		h.Addr = netip.AddrFrom4(a)
	}
	h.ASN = binary.BigEndian.Uint32(data[26:30])
	var bgpID [4]byte
	copy(bgpID[:], data[30:34])
	h.BGPID = netip.AddrFrom4(bgpID)
	h.TimestampSec = binary.BigEndian.Uint32(data[34:38])
	h.TimestampUsec = binary.BigEndian.Uint32(data[38:42])

	return h, data[PerPeerHeaderSize:], nil
}

func decodeRouteMonitoring(data []byte, peer *PerPeerHeader, opts *bgp.DecoderOptions) (*RouteMonitoring, error) {
	peerOpts := withASN4Byte(opts, peer.ASN4Byte)

	bgpMsg, n, err := bgp.DecodeExt(data, peerOpts, true)
	truncated := errors.Is(err, bgp.ErrTruncated)
	if err != nil && !truncated {
		return nil, fmt.Errorf("bmp: decoding route monitoring UPDATE: %w", err)
	}

	rm := &RouteMonitoring{BGP: bgpMsg, Truncated: truncated}
	if peer.IsLocRIB {
		rm.Table = decodeInfoTLVs(data[n:]).TableName
	}
	return rm, nil
}

func decodePeerUp(data []byte, peer *PerPeerHeader, opts *bgp.DecoderOptions) (*PeerUp, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("bmp: peer up too short for fixed fields (%d bytes)", len(data))
	}
	peerOpts := withASN4Byte(opts, peer.ASN4Byte)

	pu := &PeerUp{}
	if peer.Flags&PeerFlagIPv6 != 0 {
		var a [16]byte
		copy(a[:], data[0:16])
		pu.LocalAddr = netip.AddrFrom16(a)
	} else {
		var a [4]byte
		copy(a[:], data[12:16])
		pu.LocalAddr = netip.AddrFrom4(a)
	}
	pu.LocalPort = binary.BigEndian.Uint16(data[16:18])
	pu.RemotePort = binary.BigEndian.Uint16(data[18:20])

	rest := data[20:]
	sentOpen, n, err := bgp.DecodeExt(rest, peerOpts, true)
	sentTruncated := errors.Is(err, bgp.ErrTruncated)
	if err != nil && !sentTruncated {
		return nil, fmt.Errorf("bmp: decoding peer up sent OPEN: %w", err)
	}
	pu.SentOpen = sentOpen
	pu.Truncated = pu.Truncated || sentTruncated
	rest = rest[n:]

	recvOpen, n, err := bgp.DecodeExt(rest, peerOpts, true)
	recvTruncated := errors.Is(err, bgp.ErrTruncated)
	if err != nil && !recvTruncated {
		return nil, fmt.Errorf("bmp: decoding peer up received OPEN: %w", err)
	}
	pu.ReceivedOpen = recvOpen
	pu.Truncated = pu.Truncated || recvTruncated
	rest = rest[n:]

	pu.Info = decodeInfoTLVs(rest)
	return pu, nil
}

func decodePeerDown(data []byte, opts *bgp.DecoderOptions) (*PeerDown, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("bmp: peer down missing reason octet")
	}
	pd := &PeerDown{Reason: data[0]}
	rest := data[1:]

	switch pd.Reason {
	case 1, 3: // local/remote system closed the session, NOTIFICATION included
		notif, _, err := bgp.DecodeExt(rest, opts, true)
		pd.Truncated = errors.Is(err, bgp.ErrTruncated)
		if err != nil && !pd.Truncated {
			return nil, fmt.Errorf("bmp: decoding peer down NOTIFICATION: %w", err)
		}
		pd.Notification = notif
	case 2: // local system closed the session, no NOTIFICATION, 2-byte FSM event code
		if len(rest) >= 2 {
			pd.FSMEventCode = binary.BigEndian.Uint16(rest[0:2])
		}
	}
	return pd, nil
}

// decodeInfoTLVs parses a run of Information TLVs (RFC 7854 §4.4): a
// 2-byte type, 2-byte length, and value, repeated to the end of data.
func decodeInfoTLVs(data []byte) *InfoTLVs {
	out := &InfoTLVs{}
	offset := 0
	for offset+4 <= len(data) {
		typ := binary.BigEndian.Uint16(data[offset : offset+2])
		length := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		offset += 4
		if offset+length > len(data) {
			break
		}
		value := string(data[offset : offset+length])
		switch typ {
		case TLVTypeSysDescr:
			out.SysDescr = value
		case TLVTypeSysName:
			out.SysName = value
		case TLVTypeTableName:
			out.TableName = value
		default:
			out.Strings = append(out.Strings, value)
		}
		offset += length
	}
	return out
}

func withASN4Byte(opts *bgp.DecoderOptions, asn4 bool) *bgp.DecoderOptions {
	var merged bgp.DecoderOptions
	if opts != nil {
		merged = *opts
	}
	merged.ASN4Byte = asn4
	return &merged
}
