package bgp

// decodeRouteRefresh parses the ROUTE-REFRESH message body (RFC 2918
// §3): afi(2) reserved/subtype(1) safi(1). RFC 7313 §4 repurposes the
// reserved octet as a Subtype to demarcate the beginning/end of a route
// refresh for graceful restart (RouteRefreshSubtypeDemarcBoR/EoR); this
// package always decodes it as Subtype and leaves interpretation of
// unrecognized values to the caller.
func decodeRouteRefresh(body []byte) (*RouteRefreshMessage, error) {
	c := newCursor(body)

	afi, ok := c.readU16()
	if !ok {
		return nil, newErr("route_refresh.afi", ErrInvalid)
	}
	subtype, ok := c.readU8()
	if !ok {
		return nil, newErr("route_refresh.subtype", ErrInvalid)
	}
	safi, ok := c.readU8()
	if !ok {
		return nil, newErr("route_refresh.safi", ErrInvalid)
	}
	if c.remain != 0 {
		return nil, newErrf("route_refresh", ErrInvalid, "%d unexpected trailing bytes", c.remain)
	}

	return &RouteRefreshMessage{AFI: afi, Subtype: subtype, SAFI: safi}, nil
}
