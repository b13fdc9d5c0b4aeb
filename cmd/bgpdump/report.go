package main

import (
	"fmt"

	"github.com/pobradovic08/bgpdecode/bgp"
	"github.com/pobradovic08/bgpdecode/bmp"
)

func bgpTypeLabel(t uint8) string {
	switch t {
	case bgp.MsgTypeOpen:
		return "open"
	case bgp.MsgTypeUpdate:
		return "update"
	case bgp.MsgTypeNotification:
		return "notification"
	case bgp.MsgTypeKeepalive:
		return "keepalive"
	case bgp.MsgTypeRouteRefresh:
		return "route_refresh"
	default:
		return "unknown"
	}
}

// recordMessage updates metrics for one decoded BMP message and, for each
// encapsulated BGP UPDATE, prints one line per withdrawn or announced
// prefix (or a single end-of-rib line), mirroring the teacher's
// cmd/debug-raw inspection output but against the typed decode tree
// instead of raw bytes.
func recordMessage(source string, msg *bmp.Message) {
	switch {
	case msg.RouteMonitoring != nil && msg.RouteMonitoring.BGP != nil:
		if msg.RouteMonitoring.Truncated {
			TruncatedMessagesTotal.WithLabelValues(source).Inc()
		}
		reportBGP(source, msg.RouteMonitoring.BGP)
	case msg.PeerUp != nil:
		if msg.PeerUp.Truncated {
			TruncatedMessagesTotal.WithLabelValues(source).Inc()
		}
		if msg.PeerUp.SentOpen != nil {
			reportBGP(source, msg.PeerUp.SentOpen)
		}
		if msg.PeerUp.ReceivedOpen != nil {
			reportBGP(source, msg.PeerUp.ReceivedOpen)
		}
	case msg.PeerDown != nil && msg.PeerDown.Notification != nil:
		if msg.PeerDown.Truncated {
			TruncatedMessagesTotal.WithLabelValues(source).Inc()
		}
		reportBGP(source, msg.PeerDown.Notification)
	}
}

func reportBGP(source string, m *bgp.Message) {
	MessagesDecodedTotal.WithLabelValues(source, bgpTypeLabel(m.Type)).Inc()

	if m.Type != bgp.MsgTypeUpdate || m.Update == nil {
		return
	}
	u := m.Update
	PrefixesTotal.WithLabelValues(source, "announce").Add(float64(len(u.NLRI)))
	PrefixesTotal.WithLabelValues(source, "withdraw").Add(float64(len(u.Withdrawn)))

	if len(u.NLRI) == 0 && len(u.Withdrawn) == 0 && (u.Attrs == nil || len(u.Attrs.Types()) == 0) {
		fmt.Println("  end-of-rib marker")
		return
	}
	for _, p := range u.Withdrawn {
		fmt.Printf("  withdraw %s/%d\n", p.Addr(), p.LengthBits)
	}
	for _, p := range u.NLRI {
		fmt.Printf("  announce %s/%d\n", p.Addr(), p.LengthBits)
	}
}
