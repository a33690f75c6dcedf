package main

import "net/netip"

// AccessGate classifies peer addresses against the configured
// allow-lists.  The lists are immutable after startup, so the gate
// needs no locking.
type AccessGate struct {
	inet  []netip.Prefix // IPv4 prefixes
	inet6 []netip.Prefix // IPv6 prefixes
}

func NewAccessGate(inet, inet6 []netip.Prefix) *AccessGate {
	return &AccessGate{inet: inet, inet6: inet6}
}

// Allowed reports whether the peer address may use the HTTP surface.
// An IPv4-mapped IPv6 address (the usual shape on a dual-stack
// listener) is unwrapped and tested against the IPv4 list; anything
// else is tested as a /128 singleton against the IPv6 list.  A prefix
// overlapping a singleton is exactly a containment check.
func (g *AccessGate) Allowed(addr netip.Addr) bool {
	prefixes := g.inet6
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		prefixes = g.inet
	}
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
