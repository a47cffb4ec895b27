package domain

// Keys used in the key-value store.
const (
	KeyDomains      = "domains"
	KeyPatternCache = "domains-deletable-buffer"
)

// FindKey returns the key holding a domain's find pattern.
func FindKey(domain string) string { return domain + "-find" }

// WithKey returns the key holding a domain's replacement.
func WithKey(domain string) string { return domain + "-with" }
