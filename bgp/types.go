package bgp

import "net/netip"

// BGP message type codes (RFC 4271 §4.1).
const (
	MsgTypeOpen         uint8 = 1
	MsgTypeUpdate       uint8 = 2
	MsgTypeNotification uint8 = 3
	MsgTypeKeepalive    uint8 = 4
	MsgTypeRouteRefresh uint8 = 5
)

// HeaderLen is the fixed size of the BGP common header: a 16-byte marker,
// a 2-byte length, and a 1-byte type.
const HeaderLen = 19

// MinMsgLen and MaxMsgLen bound the declared Length field of a BGP
// message, including the header (RFC 4271 §4.1).
const (
	MinMsgLen = 19
	MaxMsgLen = 4096
)

// AFI codes (RFC 4760 / IANA "Address Family Numbers").
const (
	AFIIPv4 uint16 = 1
	AFIIPv6 uint16 = 2
)

// SAFI codes (RFC 4760, RFC 4364, RFC 8277).
const (
	SAFIUnicast       uint8 = 1
	SAFIMulticast     uint8 = 2
	SAFILabeled       uint8 = 4
	SAFIMPLSVPN       uint8 = 128
)

// Message is a fully decoded top-level BGP message. Exactly one of Open,
// Update, Notification, RouteRefresh is non-nil, chosen by Type; Keepalive
// carries no body at all.
type Message struct {
	// Marker is populated only when DecoderOptions.MarkerCopy was set;
	// otherwise it is left zero even though the wire marker was consumed.
	Marker [16]byte
	// MarkerPresent records whether the marker bytes were read from the
	// wire at all (false when DecoderOptions.MarkerOmitted was set).
	MarkerPresent bool

	// Len is the declared total message length from the wire header,
	// including the 19-byte header itself.
	Len uint16
	// Type selects which of the fields below is populated.
	Type uint8

	Open         *OpenMessage
	Update       *UpdateMessage
	Notification *NotificationMessage
	RouteRefresh *RouteRefreshMessage
}

// Reset clears a Message for reuse, truncating nested slices to zero
// length but retaining their backing arrays — the capacity-reuse
// optimization for high-rate decoders this package's options surface is
// designed around. It does not need to be called; letting a Message
// become unreachable is just as correct, since nothing here is manually
// allocated outside the Go heap.
func (m *Message) Reset() {
	m.Marker = [16]byte{}
	m.MarkerPresent = false
	m.Len = 0
	m.Type = 0
	if m.Update != nil {
		m.Update.reset()
	}
	m.Open = nil
	m.Notification = nil
	m.RouteRefresh = nil
}

// OpenMessage is the BGP OPEN message body (RFC 4271 §4.2).
type OpenMessage struct {
	Version       uint8
	MyASN         uint16
	HoldTime      uint16
	BGPIdentifier netip.Addr
	// Parameters holds each Optional Parameter as its raw
	// <type, length, value> encoding; RFC 5492 capability negotiation
	// (which signals 4-byte ASN support, multiprotocol AFI/SAFI support,
	// etc.) is carried here unparsed — a caller that needs to inspect
	// capabilities walks Parameters itself.
	Parameters []OpenParameter
}

// OpenParameter is a single Optional Parameter from an OPEN message.
type OpenParameter struct {
	Type  uint8
	Value []byte
}

// NotificationMessage is the BGP NOTIFICATION message body (RFC 4271 §4.5).
type NotificationMessage struct {
	Code    uint8
	Subcode uint8
	Data    []byte
}

// RouteRefreshMessage is the BGP ROUTE-REFRESH message body (RFC 2918,
// RFC 7313 §4 for the Subtype field).
type RouteRefreshMessage struct {
	AFI     uint16
	Subtype uint8
	SAFI    uint8
}

// Route refresh subtypes (RFC 7313 §4).
const (
	RouteRefreshSubtypeNormal    uint8 = 0
	RouteRefreshSubtypeDemarcBoR uint8 = 1
	RouteRefreshSubtypeDemarcEoR uint8 = 2
)

// Prefix is a single AFI-tagged, bit-length-prefixed NLRI entry, covering
// plain unicast/multicast, labeled-unicast (RFC 8277), and MPLS-VPN
// (RFC 4364) encodings.
type Prefix struct {
	AFI  uint16
	SAFI uint8

	// LengthBits is the prefix length as declared on the wire — for
	// SAFIs 4 and 128 this includes the label stack and (for 128) the
	// Route Distinguisher bits, not just the address bits.
	LengthBits int

	// Labels holds each 20-bit MPLS label in the stack, outermost first,
	// present only for SAFI 4 and 128.
	Labels []uint32

	// RD is the 8-byte Route Distinguisher, present only for SAFI 128.
	RD    [8]byte
	HasRD bool

	// Address holds exactly the address bytes read from the wire:
	// ceil(AddressBits/8) of them, not padded to the AFI's full width
	// (Addr does that padding). Trailing bits past AddressBits within the
	// last byte are left as read from the wire, not masked to zero.
	Address     []byte
	AddressBits int
}

// Addr renders Address as a netip.Addr, zero-padded to the AFI's full
// width. Returns the zero Addr if Address is empty.
func (p *Prefix) Addr() netip.Addr {
	switch p.AFI {
	case AFIIPv4:
		var b [4]byte
		copy(b[:], p.Address)
		return netip.AddrFrom4(b)
	case AFIIPv6:
		var b [16]byte
		copy(b[:], p.Address)
		return netip.AddrFrom16(b)
	default:
		return netip.Addr{}
	}
}
