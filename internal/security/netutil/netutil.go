package netutil

import (
	"net"
)

// IsPrivateIP reports whether the IP lies in a private, loopback,
// link-local or otherwise non-routable range.
func IsPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
