package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable domain (eTLD+1) of a host, dropping any
// port. Hosts without a registrable part, such as "localhost" or a public
// suffix on its own, are returned as-is.
func ApexDomain(host string) string {
	name := HostName(CanonicalHost(host))
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}
