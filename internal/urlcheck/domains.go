package urlcheck

import "strings"

// Decision is the outcome of classifying a hostname.
type Decision int

const (
	Block Decision = iota
	Allow
)

// DomainSet is a set of registered domains, lowercased and trimmed.
type DomainSet []string

// NewDomainSet normalizes the given domains into a DomainSet. Empty entries
// are dropped.
func NewDomainSet(domains []string) DomainSet {
	out := make(DomainSet, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Matches reports whether hostname is one of the set's domains or a subdomain
// of one. The match is anchored on a full label boundary: "jobs.basf.com"
// matches "basf.com" but "evil-basf.com" does not.
func (s DomainSet) Matches(hostname string) bool {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return false
	}
	for _, d := range s {
		if hostname == d || strings.HasSuffix(hostname, "."+d) {
			return true
		}
	}
	return false
}

// Classify decides whether a hostname may be shown to a client. The blocklist
// wins over the allowlist, and absence from the allowlist is a Block
// (default-deny). An empty hostname is always a Block.
func Classify(hostname string, blocked, allowed DomainSet) Decision {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return Block
	}
	if blocked.Matches(hostname) {
		return Block
	}
	if allowed.Matches(hostname) {
		return Allow
	}
	return Block
}
