package utils

import (
	"strings"

	"golang.org/x/net/idna"
)

// CanonicalHost returns a host name in the form rules are matched against:
//   - Trimmed and lowercased
//   - No trailing dots
//   - Internationalized labels converted to their ASCII (punycode) form
//
// A trailing ":port" is preserved, since page hosts carry it. If IDNA
// conversion fails the lowercased name is returned unchanged.
func CanonicalHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	name, port := splitPort(host)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	if ascii, err := idna.ToASCII(name); err == nil {
		name = strings.ToLower(ascii)
	}
	if port != "" {
		return name + ":" + port
	}
	return name
}

// HostName strips any ":port" from a host.
func HostName(host string) string {
	name, _ := splitPort(host)
	return name
}

// splitPort separates a trailing numeric port. Bracketed IPv6 literals keep
// their brackets in the name part.
func splitPort(host string) (string, string) {
	i := strings.LastIndexByte(host, ':')
	if i < 0 || i == len(host)-1 {
		return host, ""
	}
	if strings.Count(host, ":") > 1 && !strings.Contains(host[:i], "]") {
		// bare IPv6 literal without brackets
		return host, ""
	}
	port := host[i+1:]
	for _, r := range port {
		if r < '0' || r > '9' {
			return host, ""
		}
	}
	return host[:i], port
}
