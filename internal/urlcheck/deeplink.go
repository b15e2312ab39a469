package urlcheck

import (
	"net/url"
	"regexp"
	"strings"
)

// The deep-link classifier separates URLs that address one specific job
// posting from generic careers landing pages. It is an advisory heuristic
// tuned for precision: a posting it cannot recognize is reported as generic.

type deepLinkVerdict int

const (
	verdictNone deepLinkVerdict = iota
	verdictDeepLink
	verdictGeneric
)

type deepLinkRule struct {
	name  string
	match func(u *url.URL) deepLinkVerdict
}

// jobIDParams are query parameter names that carry a job identifier on real
// postings (gh_jid is Greenhouse, req_id/requisition_id are Workday-style).
var jobIDParams = []string{
	"jobid",
	"gh_jid",
	"id",
	"job_id",
	"position_id",
	"vacancy_id",
	"req_id",
	"requisition_id",
}

// atsHostPatterns pairs an ATS vendor domain with the path shape its job
// postings use. Host matching is suffix-anchored like DomainSet.Matches, so
// "notlever.co.evil.com" never qualifies.
var atsHostPatterns = []struct {
	domains DomainSet
	path    *regexp.Regexp
}{
	{DomainSet{"lever.co"}, regexp.MustCompile(`^/[^/]+`)},
	{DomainSet{"greenhouse.io"}, regexp.MustCompile(`/jobs/`)},
	{DomainSet{"myworkdayjobs.com"}, regexp.MustCompile(`/job/`)},
	{DomainSet{"smartrecruiters.com"}, regexp.MustCompile(`^/[^/]+/[^/]+`)},
	{DomainSet{"personio.de", "personio.com"}, regexp.MustCompile(`/job/`)},
}

// deepPathRes are generic posting path shapes. An optional two-letter
// language prefix (/en/, /de/) is tolerated in front of each.
var deepPathRes = []*regexp.Regexp{
	regexp.MustCompile(`^/(?:[a-z]{2}/)?jobs/[^/]+/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?careers?/[^/]+/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?apply/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?positions?/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?vacanc(?:y|ies)/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?openings?/[^/]+`),
	regexp.MustCompile(`(?:^|/)job/[^/]+`),
	regexp.MustCompile(`^/(?:[a-z]{2}/)?(?:jobs|careers)/[^/]{5,}/?$`),
}

// genericRootRe matches bare careers/jobs landing pages.
var genericRootRe = regexp.MustCompile(`^/(?:[a-z]{2}/)?(?:careers?|jobs)/?$`)

// deepLinkRules is evaluated in order; the first rule returning a verdict
// other than none decides. New ATS vendors get a new atsHostPatterns entry,
// not a new branch.
var deepLinkRules = []deepLinkRule{
	{name: "job-id query parameter", match: matchJobIDQuery},
	{name: "ats host path shape", match: matchATSHost},
	{name: "posting path shape", match: matchDeepPath},
	{name: "bare careers root", match: matchGenericRoot},
}

// IsDeepLink reports whether rawURL addresses one specific job posting rather
// than a generic listing or careers page. Unparseable input is generic (fail
// closed).
func IsDeepLink(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	if !schemeRe.MatchString(rawURL) {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}

	for _, r := range deepLinkRules {
		switch r.match(u) {
		case verdictDeepLink:
			return true
		case verdictGeneric:
			return false
		}
	}
	return false
}

func matchJobIDQuery(u *url.URL) deepLinkVerdict {
	q := u.Query()
	for _, p := range jobIDParams {
		if strings.TrimSpace(q.Get(p)) != "" {
			return verdictDeepLink
		}
	}
	// A short p= value is the bare-id shape some career sites use; longer
	// values look like slugs or tracking payloads.
	if v := strings.TrimSpace(q.Get("p")); v != "" && len(v) <= 10 {
		return verdictDeepLink
	}
	return verdictNone
}

func matchATSHost(u *url.URL) deepLinkVerdict {
	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)
	for _, p := range atsHostPatterns {
		if !p.domains.Matches(host) {
			continue
		}
		if p.path.MatchString(path) {
			return verdictDeepLink
		}
	}
	return verdictNone
}

func matchDeepPath(u *url.URL) deepLinkVerdict {
	path := strings.ToLower(u.Path)
	for _, re := range deepPathRes {
		if re.MatchString(path) {
			return verdictDeepLink
		}
	}
	return verdictNone
}

func matchGenericRoot(u *url.URL) deepLinkVerdict {
	if genericRootRe.MatchString(strings.ToLower(u.Path)) {
		return verdictGeneric
	}
	return verdictNone
}
