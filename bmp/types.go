// Package bmp decodes BGP Monitoring Protocol (RFC 7854) messages, the
// framing routers use to stream their live RIB and peering-session state
// to an external collector. Like package mrt, it is a thin collaborator
// around package bgp: this package owns the BMP common header, per-peer
// header, and message-specific framing, and hands the encapsulated BGP
// message bytes to bgp.DecodeExt.
package bmp

import "net/netip"

// BMP message type codes (RFC 7854 §4.1).
const (
	MsgTypeRouteMonitoring  uint8 = 0
	MsgTypeStatisticsReport uint8 = 1
	MsgTypePeerDown         uint8 = 2
	MsgTypePeerUp           uint8 = 3
	MsgTypeInitiation       uint8 = 4
	MsgTypeTermination      uint8 = 5
	MsgTypeRouteMirroring   uint8 = 6
)

// BMP peer types (RFC 7854 §4.2, RFC 9069 §3 for Loc-RIB).
const (
	PeerTypeGlobal uint8 = 0
	PeerTypeRD     uint8 = 1
	PeerTypeLocal  uint8 = 2
	PeerTypeLocRIB uint8 = 3
)

// Header sizes.
const (
	CommonHeaderSize  = 6  // version(1) msg_length(4) msg_type(1)
	PerPeerHeaderSize = 42 // peer_type(1) peer_flags(1) distinguisher(8) addr(16) AS(4) BGPID(4) ts_sec(4) ts_usec(4)
)

// Initiation/Termination/Loc-RIB TLV type codes (RFC 7854 §4.4, RFC 9069 §4.1).
const (
	TLVTypeString    uint16 = 0 // Initiation: free-form string
	TLVTypeSysDescr  uint16 = 1
	TLVTypeSysName   uint16 = 2
	TLVTypeTableName uint16 = 3 // RFC 9069 §4.1: Loc-RIB VRF/table name
)

// BMPVersion is the only protocol version this package decodes.
const BMPVersion uint8 = 3

// Peer flags (RFC 7854 §4.2): V selects the width of Addr (IPv6 vs. the
// IPv4-mapped form), L marks a post-policy Adj-RIB-In, A signals that the
// peering session negotiated the legacy 2-byte AS_PATH format rather than
// 4-byte ASNs.
const (
	PeerFlagIPv6         uint8 = 0x80
	PeerFlagPostPolicy   uint8 = 0x40
	PeerFlagLegacyASPath uint8 = 0x20
)

// PerPeerHeader is the 42-byte structure preceding every Route Monitoring,
// Peer Down, Peer Up, and Route Mirroring message body.
type PerPeerHeader struct {
	PeerType uint8
	Flags    uint8
	IsLocRIB bool

	// ASN4Byte reflects PeerFlagLegacyASPath (inverted): false means the
	// peer only sent 2-byte ASNs. Passed straight through as
	// bgp.DecoderOptions.ASN4Byte when decoding this peer's messages.
	ASN4Byte bool

	Distinguisher [8]byte
	Addr          netip.Addr
	ASN           uint32
	BGPID         netip.Addr

	TimestampSec  uint32
	TimestampUsec uint32
}

// Message is one fully decoded BMP message.
type Message struct {
	Type uint8

	// Offset is this message's byte position within the buffer ParseAll
	// was given. Zero when decoded through Parse directly.
	Offset int

	// Peer is populated for every message type except Initiation and
	// Termination, which carry no per-peer header.
	Peer *PerPeerHeader

	RouteMonitoring *RouteMonitoring
	PeerUp          *PeerUp
	PeerDown        *PeerDown
	Initiation      *InfoTLVs
	Termination     *InfoTLVs
}

// InfoTLVs holds the Information TLVs carried by Initiation/Termination
// messages and the optional trailer on Peer Up (RFC 7854 §4.4/§4.10).
type InfoTLVs struct {
	SysName   string
	SysDescr  string
	TableName string // RFC 9069 §4.1, Loc-RIB only
	Strings   []string
}
