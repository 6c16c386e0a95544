// internal/server/cors.go
package server

import (
	"net/url"
	"strings"
)

// originAllowed reports whether an Origin header value belongs to one of the
// allowed hostnames. A configured hostname matches itself and any of its
// subdomains.
func originAllowed(origin string, hostnames []string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, allowed := range hostnames {
		if allowed == "" {
			continue
		}
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
