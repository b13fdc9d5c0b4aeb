package bgp

import (
	"errors"
	"testing"
)

func decodeSingleAttrUpdate(t *testing.T, flags, typeCode uint8, data []byte, opts *DecoderOptions) *PathAttribute {
	t.Helper()
	attrs := buildPathAttr(flags, typeCode, data)
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	msg, _, err := Decode(wire, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attr, ok := msg.Update.Attrs.Get(typeCode)
	if !ok {
		t.Fatalf("attribute type %d missing", typeCode)
	}
	return attr
}

func TestDecode_MED(t *testing.T) {
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional, AttrTypeMED, []byte{0, 0, 0, 100}, nil)
	if attr.Value.(uint32) != 100 {
		t.Errorf("MED = %d, want 100", attr.Value.(uint32))
	}
}

func TestDecode_LocalPref(t *testing.T) {
	attr := decodeSingleAttrUpdate(t, AttrFlagTransitive, AttrTypeLocalPref, []byte{0, 0, 1, 0x2C}, nil)
	if attr.Value.(uint32) != 300 {
		t.Errorf("LOCAL_PREF = %d, want 300", attr.Value.(uint32))
	}
}

func TestDecode_AtomicAggregate(t *testing.T) {
	attr := decodeSingleAttrUpdate(t, AttrFlagTransitive, AttrTypeAtomicAggregate, nil, nil)
	if _, ok := attr.Value.(struct{}); !ok {
		t.Errorf("expected empty struct{} value, got %T", attr.Value)
	}
}

func TestDecode_Aggregator(t *testing.T) {
	data := []byte{0xFB, 0xF0, 192, 0, 2, 1} // 2-byte ASN 64496 + 192.0.2.1
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeAggregator, data, nil)
	agg := attr.Value.(Aggregator)
	if agg.ASN != 64496 {
		t.Errorf("ASN = %d, want 64496", agg.ASN)
	}
	if agg.Addr != [4]byte{192, 0, 2, 1} {
		t.Errorf("Addr = %v, want 192.0.2.1", agg.Addr)
	}
}

func TestDecode_Aggregator_4ByteASN(t *testing.T) {
	// A plain AGGREGATOR (type 7) emitted directly with a 4-byte ASN, as
	// happens once 4-byte-ASN capability is negotiated: 8 bytes total
	// rather than the 6-byte legacy form, distinguished only by length.
	data := []byte{0, 1, 0x86, 0xA0, 192, 0, 2, 1} // 4-byte ASN 100000 + 192.0.2.1
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeAggregator, data, nil)
	agg := attr.Value.(Aggregator)
	if agg.ASN != 100000 {
		t.Errorf("ASN = %d, want 100000", agg.ASN)
	}
	if agg.Addr != [4]byte{192, 0, 2, 1} {
		t.Errorf("Addr = %v, want 192.0.2.1", agg.Addr)
	}
}

func TestDecode_Aggregator_InvalidLength(t *testing.T) {
	attrs := buildPathAttr(AttrFlagOptional|AttrFlagTransitive, AttrTypeAggregator, []byte{1, 2, 3})
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	_, _, err := Decode(wire, nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestDecode_AS4Aggregator(t *testing.T) {
	data := []byte{0, 1, 0x86, 0xA0, 192, 0, 2, 1} // 4-byte ASN 100000 + 192.0.2.1
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeAS4Aggregator, data, nil)
	agg := attr.Value.(Aggregator)
	if agg.ASN != 100000 {
		t.Errorf("ASN = %d, want 100000", agg.ASN)
	}
}

func TestDecode_ClusterList(t *testing.T) {
	data := []byte{10, 0, 0, 1, 10, 0, 0, 2}
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional, AttrTypeClusterList, data, nil)
	ids := attr.Value.([]uint32)
	if len(ids) != 2 || ids[0] != 0x0A000001 {
		t.Errorf("got %v", ids)
	}
}

func TestDecode_OriginatorID(t *testing.T) {
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional, AttrTypeOriginatorID, []byte{10, 0, 0, 1}, nil)
	if attr.Value.(uint32) != 0x0A000001 {
		t.Errorf("got %d", attr.Value.(uint32))
	}
}

func TestDecode_LargeCommunities(t *testing.T) {
	data := []byte{
		0, 0, 0xFB, 0xF0, // global admin 64496
		0, 0, 0, 1, // local data 1
		0, 0, 0, 2, // local data 2
	}
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeLargeCommunities, data, nil)
	lcs := attr.Value.([]LargeCommunity)
	if len(lcs) != 1 || lcs[0].GlobalAdmin != 64496 || lcs[0].Local1 != 1 || lcs[0].Local2 != 2 {
		t.Errorf("got %+v", lcs)
	}
}

func TestDecode_ExtCommunityTwoOctetAS(t *testing.T) {
	data := []byte{ExtCommTypeTwoOctetAS, 2, 0xFB, 0xF0, 0, 0, 0, 1}
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeExtCommunities, data, nil)
	ecs := attr.Value.([]ExtendedCommunity)
	if len(ecs) != 1 || ecs[0].TwoOctetAS == nil || ecs[0].TwoOctetAS.GlobalAdmin != 64496 {
		t.Errorf("got %+v", ecs)
	}
}

func TestDecode_ASPathLimit(t *testing.T) {
	data := []byte{16, 0, 0, 0xFB, 0xF0}
	attr := decodeSingleAttrUpdate(t, AttrFlagOptional|AttrFlagTransitive, AttrTypeASPathLimit, data, nil)
	limit := attr.Value.(ASPathLimit)
	if limit.MaxASNs != 16 || limit.ASN != 64496 {
		t.Errorf("got %+v", limit)
	}
}

func TestDecode_UnknownAttribute_NotImplemented(t *testing.T) {
	attrs := buildPathAttr(AttrFlagOptional, 255, []byte{1, 2, 3})
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	_, _, err := Decode(wire, nil)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("err = %v, want ErrNotImplemented", err)
	}
}

func TestDecode_UnknownAttribute_Ignored(t *testing.T) {
	attrs := buildPathAttr(AttrFlagOptional, 255, []byte{1, 2, 3})
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	opts := &DecoderOptions{IgnoreNotImplemented: true}
	msg, _, err := Decode(wire, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attr, ok := msg.Update.Attrs.Get(255)
	if !ok {
		t.Fatal("expected the unknown attribute to be retained as raw")
	}
	if attr.Value != nil {
		t.Errorf("expected nil Value for an ignored not-implemented type, got %v", attr.Value)
	}
	if string(attr.Raw) != "\x01\x02\x03" {
		t.Errorf("expected raw bytes retained, got %v", attr.Raw)
	}
}

func TestDecode_IgnoreInvalidFlagsMalformed(t *testing.T) {
	attrs := buildPathAttr(AttrFlagOptional|AttrFlagTransitive, AttrTypeCommunities, []byte{0, 0, 1})
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	opts := &DecoderOptions{IgnoreInvalid: true}
	msg, _, err := Decode(wire, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attr, ok := msg.Update.Attrs.Get(AttrTypeCommunities)
	if !ok {
		t.Fatal("expected malformed COMMUNITIES attribute to still be recorded")
	}
	if !attr.Malformed {
		t.Error("expected Malformed to be set")
	}
}

func TestDecode_PathAttrFilter(t *testing.T) {
	origin := buildPathAttr(AttrFlagTransitive, AttrTypeOrigin, []byte{OriginIGP})
	med := buildPathAttr(AttrFlagOptional, AttrTypeMED, []byte{0, 0, 0, 5})
	attrs := append(origin, med...)
	body := buildUpdateBody(nil, attrs, nil)
	wire := buildHeader(MsgTypeUpdate, body)

	opts := &DecoderOptions{PathAttrFilter: map[uint8]bool{AttrTypeOrigin: true}}
	msg, _, err := Decode(wire, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.Update.Attrs.Get(AttrTypeOrigin); !ok {
		t.Error("expected ORIGIN to be decoded")
	}
	medAttr, ok := msg.Update.Attrs.Get(AttrTypeMED)
	if !ok {
		t.Fatal("expected MED framing to still be recorded even though filtered out")
	}
	if medAttr.Value != nil {
		t.Errorf("expected filtered-out MED to have nil Value, got %v", medAttr.Value)
	}
}
