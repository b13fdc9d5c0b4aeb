package bmp

import (
	"encoding/binary"
	"testing"

	"github.com/pobradovic08/bgpdecode/bgp"
)

func buildKeepalive() []byte {
	msg := make([]byte, 19)
	for i := 0; i < 16; i++ {
		msg[i] = 0xFF
	}
	binary.BigEndian.PutUint16(msg[16:18], 19)
	msg[18] = bgp.MsgTypeKeepalive
	return msg
}

func buildPerPeerHeader(peerType uint8, v6 bool) []byte {
	h := make([]byte, PerPeerHeaderSize)
	h[0] = peerType
	var flags uint8
	if v6 {
		flags |= PeerFlagIPv6
	}
	h[1] = flags
	// distinguisher left zero
	if v6 {
		copy(h[10:26], []byte{0x20, 0x01, 0x0d, 0xb8})
	} else {
		copy(h[22:26], []byte{192, 0, 2, 1})
	}
	binary.BigEndian.PutUint32(h[26:30], 64496)  // peer ASN
	copy(h[30:34], []byte{192, 0, 2, 254})       // peer BGP ID
	binary.BigEndian.PutUint32(h[34:38], 1700000000)
	return h
}

func buildCommonHeader(msgType uint8, bodyLen int) []byte {
	h := make([]byte, CommonHeaderSize)
	h[0] = BMPVersion
	binary.BigEndian.PutUint32(h[1:5], uint32(CommonHeaderSize+bodyLen))
	h[5] = msgType
	return h
}

func TestParse_RouteMonitoring(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeGlobal, false)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	wire := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	msg, err := Parse(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Peer == nil || msg.Peer.ASN != 64496 {
		t.Fatalf("got peer %+v", msg.Peer)
	}
	if msg.Peer.Addr.String() != "192.0.2.1" {
		t.Errorf("got peer addr %s", msg.Peer.Addr)
	}
	if msg.RouteMonitoring == nil || msg.RouteMonitoring.BGP.Type != bgp.MsgTypeKeepalive {
		t.Fatalf("encapsulated BGP message not decoded: %+v", msg.RouteMonitoring)
	}
}

func TestParse_RouteMonitoring_IPv6Peer(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeGlobal, true)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	wire := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	msg, err := Parse(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.Peer.Addr.Is6() {
		t.Errorf("expected an IPv6 peer address, got %s", msg.Peer.Addr)
	}
}

func TestParse_PeerDown_WithNotification(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeGlobal, false)
	notif := make([]byte, 21)
	for i := 0; i < 16; i++ {
		notif[i] = 0xFF
	}
	binary.BigEndian.PutUint16(notif[16:18], 21)
	notif[18] = bgp.MsgTypeNotification
	notif[19] = 6 // Cease
	notif[20] = 2 // administrative shutdown

	body := append(peer, append([]byte{1}, notif...)...)
	wire := append(buildCommonHeader(MsgTypePeerDown, len(body)), body...)

	msg, err := Parse(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.PeerDown == nil || msg.PeerDown.Reason != 1 {
		t.Fatalf("got %+v", msg.PeerDown)
	}
	if msg.PeerDown.Notification == nil || msg.PeerDown.Notification.Notification.Code != 6 {
		t.Fatalf("NOTIFICATION not decoded: %+v", msg.PeerDown.Notification)
	}
}

func TestParse_RouteMonitoring_TruncatedUpdate(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeGlobal, false)

	bgpMsg := buildKeepalive()
	binary.BigEndian.PutUint16(bgpMsg[16:18], 30) // claims more bytes than present

	body := append(peer, bgpMsg...)
	wire := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	msg, err := Parse(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.RouteMonitoring == nil || !msg.RouteMonitoring.Truncated {
		t.Fatalf("expected Truncated=true, got %+v", msg.RouteMonitoring)
	}
	if msg.RouteMonitoring.BGP == nil || msg.RouteMonitoring.BGP.Type != bgp.MsgTypeKeepalive {
		t.Errorf("expected a best-effort decoded message, got %+v", msg.RouteMonitoring.BGP)
	}
}

func TestParse_Initiation(t *testing.T) {
	tlv := func(typ uint16, val string) []byte {
		b := make([]byte, 4+len(val))
		binary.BigEndian.PutUint16(b[0:2], typ)
		binary.BigEndian.PutUint16(b[2:4], uint16(len(val)))
		copy(b[4:], val)
		return b
	}
	body := append(tlv(TLVTypeSysName, "router1"), tlv(TLVTypeSysDescr, "vendor X")...)
	wire := append(buildCommonHeader(MsgTypeInitiation, len(body)), body...)

	msg, err := Parse(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Initiation == nil || msg.Initiation.SysName != "router1" || msg.Initiation.SysDescr != "vendor X" {
		t.Fatalf("got %+v", msg.Initiation)
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	wire := buildCommonHeader(MsgTypeInitiation, 0)
	wire[0] = 1
	_, err := Parse(wire, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported BMP version")
	}
}

func TestParseAll_MultipleConcatenated(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeLocRIB, false)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	msg1 := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	peer2 := buildPerPeerHeader(PeerTypeGlobal, false)
	body2 := append(peer2, bgpMsg...)
	msg2 := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body2)), body2...)

	combined := append(append([]byte{}, msg1...), msg2...)

	results, err := ParseAll(combined, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 parsed messages, got %d", len(results))
	}
	if results[0].Offset != 0 {
		t.Errorf("expected first message Offset=0, got %d", results[0].Offset)
	}
	if results[1].Offset != len(msg1) {
		t.Errorf("expected second message Offset=%d, got %d", len(msg1), results[1].Offset)
	}
	if results[0].Peer == nil || !results[0].Peer.IsLocRIB {
		t.Error("expected first message to be a Loc-RIB peer")
	}
	if results[1].Peer == nil || results[1].Peer.IsLocRIB {
		t.Error("expected second message not to be a Loc-RIB peer")
	}
}

func TestParseAll_MixedValidInvalid(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeLocRIB, false)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	valid1 := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	invalid := append([]byte{}, valid1...)
	invalid[0] = 2 // unsupported BMP version; msg_length is still trustworthy

	peer2 := buildPerPeerHeader(PeerTypeGlobal, false)
	body2 := append(peer2, bgpMsg...)
	valid2 := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body2)), body2...)

	combined := append(append(append([]byte{}, valid1...), invalid...), valid2...)

	results, err := ParseAll(combined, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 valid messages (skipping the invalid one), got %d", len(results))
	}
}

func TestParseAll_TrailingGarbage(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeLocRIB, false)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	valid := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	combined := append(append([]byte{}, valid...), 0xDE, 0xAD, 0xBE, 0xEF)

	results, err := ParseAll(combined, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 parsed message, got %d", len(results))
	}
}

func TestParseAll_TruncatedLastMessage(t *testing.T) {
	peer := buildPerPeerHeader(PeerTypeLocRIB, false)
	bgpMsg := buildKeepalive()
	body := append(peer, bgpMsg...)
	valid := append(buildCommonHeader(MsgTypeRouteMonitoring, len(body)), body...)

	partial := []byte{BMPVersion, 0x00, 0x00} // short of even a full common header
	combined := append(append([]byte{}, valid...), partial...)

	results, err := ParseAll(combined, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 parsed message (truncated trailer skipped), got %d", len(results))
	}
}

func TestParseAll_NoValidMessages(t *testing.T) {
	results, err := ParseAll([]byte{0x03, 0x00}, nil)
	if err == nil {
		t.Fatal("expected an error when no message can be parsed")
	}
	if results != nil {
		t.Errorf("expected nil results, got %d messages", len(results))
	}
}

func TestRouterIDFromPeerHeader_NormalPeer(t *testing.T) {
	hdr := buildPerPeerHeader(PeerTypeGlobal, false)
	got := RouterIDFromPeerHeader(hdr)
	if got != "192.0.2.1" {
		t.Errorf("got %q, want 192.0.2.1", got)
	}
}

func TestRouterIDFromPeerHeader_IPv6(t *testing.T) {
	hdr := buildPerPeerHeader(PeerTypeGlobal, true)
	got := RouterIDFromPeerHeader(hdr)
	if got != "2001:db8::" {
		t.Errorf("got %q, want 2001:db8::", got)
	}
}

func TestRouterIDFromPeerHeader_LocRIB_BGPIDFallback(t *testing.T) {
	hdr := make([]byte, PerPeerHeaderSize)
	hdr[0] = PeerTypeLocRIB
	copy(hdr[30:34], []byte{10, 0, 0, 2}) // Peer BGP ID, per RFC 9069 §3

	got := RouterIDFromPeerHeader(hdr)
	if got != "10.0.0.2" {
		t.Errorf("got %q, want 10.0.0.2", got)
	}
}

func TestRouterIDFromPeerHeader_AllZeros(t *testing.T) {
	hdr := make([]byte, PerPeerHeaderSize)
	hdr[0] = PeerTypeLocRIB

	if got := RouterIDFromPeerHeader(hdr); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestRouterIDFromPeerHeader_TooShort(t *testing.T) {
	if got := RouterIDFromPeerHeader([]byte{0, 0, 0}); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestDecodeOpenBMPFrame_V2(t *testing.T) {
	payload := buildKeepalive()
	frame := make([]byte, OpenBMPHeaderSize+len(payload))
	binary.BigEndian.PutUint16(frame[0:2], 2)
	binary.BigEndian.PutUint32(frame[6:10], uint32(len(payload)))
	copy(frame[OpenBMPHeaderSize:], payload)

	got, err := DecodeOpenBMPFrame(frame, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %v, want %v", got, payload)
	}
}
