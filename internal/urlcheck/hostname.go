package urlcheck

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// ExtractHostname parses a raw, possibly malformed URL string and returns its
// lowercased hostname. Bare domains without a scheme ("basf.com/careers") are
// accepted by prepending https:// before parsing. The second return value is
// false when no hostname could be extracted; callers must treat that as
// untrusted, never as allowed.
func ExtractHostname(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return host, true
}
