package jobfilter

import (
	"strings"

	"chemjobs/internal/domain/job"
	"chemjobs/internal/urlcheck"
)

// Options controls the filter's output shaping.
type Options struct {
	// MaxResults caps the returned slice; <= 0 means no cap.
	MaxResults int
	// RequireDeepLinks drops records whose link is a generic careers page
	// rather than one specific posting.
	RequireDeepLinks bool
}

// Stats counts the records surviving each filter stage. Callers use the
// deltas to raise a warning when results are suspiciously sparse.
type Stats struct {
	Input    int
	Valid    int
	Allowed  int
	Deduped  int
	Returned int
}

// Filter validates, domain-classifies, deduplicates, and truncates a batch of
// candidate job records. Records missing title, company, or link are dropped
// before any classification runs. Only records whose link hostname resolves
// to Allow survive; an unparseable link is treated as untrusted.
func Filter(jobs []job.Record, allowed, blocked urlcheck.DomainSet, opts Options) ([]job.Record, Stats) {
	stats := Stats{Input: len(jobs)}

	valid := make([]job.Record, 0, len(jobs))
	for _, j := range jobs {
		if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.Company) == "" || strings.TrimSpace(j.Link) == "" {
			continue
		}
		valid = append(valid, j)
	}
	stats.Valid = len(valid)

	kept := make([]job.Record, 0, len(valid))
	for _, j := range valid {
		hostname, ok := urlcheck.ExtractHostname(j.Link)
		if !ok {
			continue
		}
		if urlcheck.Classify(hostname, blocked, allowed) != urlcheck.Allow {
			continue
		}
		if opts.RequireDeepLinks && !urlcheck.IsDeepLink(j.Link) {
			continue
		}
		kept = append(kept, j)
	}
	stats.Allowed = len(kept)

	deduped := dedupe(kept)
	stats.Deduped = len(deduped)

	if opts.MaxResults > 0 && len(deduped) > opts.MaxResults {
		deduped = deduped[:opts.MaxResults]
	}
	stats.Returned = len(deduped)

	return deduped, stats
}

// FilterCitations applies the same domain classification to citation URLs.
// Entries whose hostname cannot be extracted are dropped.
func FilterCitations(citations []string, allowed, blocked urlcheck.DomainSet) []string {
	out := make([]string, 0, len(citations))
	for _, c := range citations {
		hostname, ok := urlcheck.ExtractHostname(c)
		if !ok {
			continue
		}
		if urlcheck.Classify(hostname, blocked, allowed) != urlcheck.Allow {
			continue
		}
		out = append(out, c)
	}
	return out
}

// dedupe keeps the first occurrence of each (title, company, link) key,
// compared lowercased and trimmed, preserving order.
func dedupe(jobs []job.Record) []job.Record {
	seen := make(map[string]bool, len(jobs))
	out := make([]job.Record, 0, len(jobs))
	for _, j := range jobs {
		key := dedupeKey(j)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, j)
	}
	return out
}

func dedupeKey(j job.Record) string {
	norm := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return norm(j.Title) + "\x00" + norm(j.Company) + "\x00" + norm(j.Link)
}
