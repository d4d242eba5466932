package utils

import (
	"net"
	"net/url"
	"strings"
)

// The watchlist UI is served from the same machine or the home network, so
// only local origins are trusted by default.
var localNetworks = []*net.IPNet{
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("169.254.0.0/16"), // link-local IPv4
	mustParseCIDR("::1/128"),
	mustParseCIDR("fe80::/10"),
	mustParseCIDR("fc00::/7"), // unique local IPv6
}

// OriginPolicy decides which Origin header values may use the API.
type OriginPolicy struct {
	extra map[string]struct{}
}

// NewOriginPolicy trusts local network origins plus the listed ones, which
// are compared as scheme://host[:port] without a trailing slash.
func NewOriginPolicy(allowed []string) OriginPolicy {
	p := OriginPolicy{extra: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" {
			p.extra[origin] = struct{}{}
		}
	}
	return p
}

// Allows reports whether the origin is trusted.
func (p OriginPolicy) Allows(origin string) bool {
	if _, ok := p.extra[strings.ToLower(origin)]; ok {
		return true
	}
	return IsAllowedOrigin(origin)
}

// IsAllowedOrigin reports whether origin is on the local machine or network:
// localhost, private or link-local IPs, .local names and single-label hosts.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	switch {
	case hostname == "localhost":
		return true
	case strings.HasSuffix(hostname, ".local"):
		return true
	case !strings.Contains(hostname, ".") && !strings.Contains(hostname, ":"):
		return true
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return isLocalIP(ip)
	}
	return false
}

func isLocalIP(ip net.IP) bool {
	for _, network := range localNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func mustParseCIDR(s string) *net.IPNet {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return network
}
