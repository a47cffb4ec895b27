package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidDomain is returned when a domain token contains characters other
// than a-z, 0-9, underscore, minus or dot.
var ErrInvalidDomain = errors.New("invalid domain, use letters a-z, numbers 0-9, underscore, minus or dot")

var domainToken = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// ValidateDomain checks a domain token against ^[a-z0-9_.-]+$.
func ValidateDomain(d string) error {
	if !domainToken.MatchString(d) {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, d)
	}
	return nil
}
