package bgp

import (
	"errors"
	"testing"
)

func TestDecode_Keepalive(t *testing.T) {
	wire := buildHeader(MsgTypeKeepalive, nil)

	msg, n, err := Decode(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(wire) {
		t.Errorf("consumed = %d, want %d", n, len(wire))
	}
	if msg.Type != MsgTypeKeepalive {
		t.Errorf("Type = %d, want MsgTypeKeepalive", msg.Type)
	}
}

func TestDecode_Notification(t *testing.T) {
	body := []byte{6, 2} // Cease, administrative shutdown
	wire := buildHeader(MsgTypeNotification, body)

	msg, _, err := Decode(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Notification == nil {
		t.Fatal("Notification is nil")
	}
	if msg.Notification.Code != 6 || msg.Notification.Subcode != 2 {
		t.Errorf("got code/subcode %d/%d, want 6/2", msg.Notification.Code, msg.Notification.Subcode)
	}
}

func TestDecode_RouteRefresh(t *testing.T) {
	body := []byte{0, 1, 0, 1} // AFI=IPv4, subtype=0, SAFI=unicast
	wire := buildHeader(MsgTypeRouteRefresh, body)

	msg, _, err := Decode(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.RouteRefresh == nil || msg.RouteRefresh.AFI != AFIIPv4 || msg.RouteRefresh.SAFI != SAFIUnicast {
		t.Errorf("got %+v", msg.RouteRefresh)
	}
}

func TestDecode_Open(t *testing.T) {
	body := []byte{
		4,          // version
		0xFB, 0xF0, // my_asn = 64496
		0, 90, // hold_time
		192, 0, 2, 1, // bgp_identifier
		0, // opt_param_len = 0
	}
	wire := buildHeader(MsgTypeOpen, body)

	msg, _, err := Decode(wire, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Open == nil {
		t.Fatal("Open is nil")
	}
	if msg.Open.MyASN != 64496 {
		t.Errorf("MyASN = %d, want 64496", msg.Open.MyASN)
	}
	if msg.Open.BGPIdentifier.String() != "192.0.2.1" {
		t.Errorf("BGPIdentifier = %s, want 192.0.2.1", msg.Open.BGPIdentifier)
	}
}

func TestDecode_HeaderTooShort(t *testing.T) {
	_, _, err := Decode([]byte{0, 1, 2}, nil)
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
}

func TestDecode_MalformedLength(t *testing.T) {
	wire := buildHeader(MsgTypeKeepalive, nil)
	wire[16], wire[17] = 0, 18 // declare a length below MinMsgLen

	_, _, err := Decode(wire, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestDecode_Partial(t *testing.T) {
	body := []byte{6, 2}
	wire := buildHeader(MsgTypeNotification, body)
	short := wire[:len(wire)-1]

	_, consumed, err := Decode(short, nil)
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
	if consumed != 0 {
		t.Errorf("consumed = %d, want 0 on ErrPartial", consumed)
	}
}

func TestDecodeExt_Truncated(t *testing.T) {
	body := []byte{6, 2}
	wire := buildHeader(MsgTypeNotification, body)
	short := wire[:len(wire)-1]

	msg, consumed, err := DecodeExt(short, nil, true)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	if msg == nil {
		t.Fatal("expected a best-effort Message alongside ErrTruncated")
	}
	if consumed != len(short) {
		t.Errorf("consumed = %d, want %d", consumed, len(short))
	}
	if msg.Type != MsgTypeNotification {
		t.Errorf("Type = %d, want MsgTypeNotification", msg.Type)
	}
}

func TestDecodeExt_TruncatedButComplete(t *testing.T) {
	// DecodeExt with truncation allowed, given a buffer that holds the
	// whole NOTIFICATION: it decodes cleanly with no ErrTruncated and
	// consumes exactly the declared Len.
	first := buildHeader(MsgTypeNotification, []byte{6, 2})

	msg, consumed, err := DecodeExt(first, nil, true)
	if err != nil {
		t.Fatalf("unexpected error on a fully-available message: %v", err)
	}
	if consumed != len(first) {
		t.Errorf("consumed = %d, want %d", consumed, len(first))
	}
	if msg.Notification == nil || msg.Notification.Code != 6 || msg.Notification.Subcode != 2 {
		t.Errorf("got %+v", msg.Notification)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	wire := buildHeader(99, nil)

	_, _, err := Decode(wire, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}
