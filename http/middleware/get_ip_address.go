package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// UnknownIPAddress stands in for a request whose origin cannot be determined.
const UnknownIPAddress = "0.0.0.0"

// IANA defined non-public ranges
var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("fc00::/7"),
}

// InjectIPAddress grabs the IP address of the *http.Request
// and promotes it to *http.Request.Context under IPAddrCtxKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r)
			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), IPAddrCtxKey, ip)))
		})
	}
}

// GetIPAddress parses the "X-Forwarded-For" and "X-Real-Ip" headers for the IP address
// the request originated from, falling back on the address of the connection.
//
// GetIPAddress skips addresses from non-public ranges;
// UnknownIPAddress returns if no public address is found.
func GetIPAddress(r *http.Request) string {
	for _, h := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addresses := strings.Split(r.Header.Get(h), ",")
		// march from right to left until we get a public address
		// that will be the address right before our proxy.
		for i := len(addresses) - 1; i >= 0; i-- {
			if ip, ok := publicAddr(addresses[i]); ok {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if ip, ok := publicAddr(host); ok {
		return ip
	}

	return UnknownIPAddress
}

func publicAddr(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}

	addr = addr.Unmap()
	if !addr.IsGlobalUnicast() {
		return "", false
	}

	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return "", false
		}
	}

	return addr.String(), true
}
