package allowlist

import (
	"strings"

	"chemjobs/internal/urlcheck"
)

// Resolution is the outcome of mapping selected company names onto the
// registry. An empty Domains set means nothing is trusted: downstream
// filtering must return zero results, never fall back to unfiltered output.
type Resolution struct {
	Domains urlcheck.DomainSet
	Missing []string
}

// Resolve maps the selected company names to the union of their registered
// domains. Names are matched case-insensitively against registry entries;
// names without an entry are collected in Missing rather than raising an
// error.
func Resolve(selected []string, entries []CompanyEntry) Resolution {
	var res Resolution
	seen := make(map[string]bool)

	for _, name := range selected {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		entry, ok := findEntry(name, entries)
		if !ok {
			res.Missing = append(res.Missing, name)
			continue
		}
		for _, d := range entry.Domains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			res.Domains = append(res.Domains, d)
		}
	}
	return res
}

func findEntry(name string, entries []CompanyEntry) (CompanyEntry, bool) {
	for _, e := range entries {
		if strings.EqualFold(strings.TrimSpace(e.Name), name) {
			return e, true
		}
	}
	return CompanyEntry{}, false
}
