package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"chemjobs/internal/allowlist"
	"chemjobs/internal/domain/job"
	"chemjobs/internal/infrastructure/grok"
	"chemjobs/internal/jobfilter"
	"chemjobs/internal/repository"
	"chemjobs/internal/urlcheck"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTooManyCompanies    = fmt.Errorf("%w: too many companies selected", ErrInvalidInput)
	ErrDuplicateCompanies  = fmt.Errorf("%w: duplicate companies selected", ErrInvalidInput)
	ErrUpstreamTimeout     = errors.New("search provider timed out")
	ErrUpstreamUnavailable = errors.New("search provider unavailable")
	ErrUpstream            = errors.New("search provider error")
	ErrInternal            = errors.New("internal error")
)

const maxSelectedCompanies = 3

type SearchOptions struct {
	// MaxResults caps the jobs returned to the client; defaults to 10.
	MaxResults int
	// RequireDeepLinks drops postings whose link is a generic careers page.
	RequireDeepLinks bool
}

type SearchResult struct {
	Jobs      []job.Record
	Citations []string
	Warning   string
}

type registryLoader interface {
	Load() ([]allowlist.CompanyEntry, error)
	CompanyNames(limit int) ([]string, error)
}

type searchAuditor interface {
	LogSearch(ctx context.Context, entry repository.SearchLogEntry) error
}

type SearchUsecase interface {
	SearchJobs(ctx context.Context, q job.Query, requestID string) (*SearchResult, error)
}

type Search struct {
	grok   grok.Client
	loader registryLoader
	audit  searchAuditor
	cache  SearchCache
	opts   SearchOptions
	logger *log.Logger
}

func NewSearchUsecase(client grok.Client, loader registryLoader, audit searchAuditor, cache SearchCache, opts SearchOptions, logger *log.Logger) *Search {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	return &Search{grok: client, loader: loader, audit: audit, cache: cache, opts: opts, logger: logger}
}

func (u *Search) SearchJobs(ctx context.Context, q job.Query, requestID string) (*SearchResult, error) {
	if u == nil {
		return nil, ErrInternal
	}

	q.Profession = strings.TrimSpace(q.Profession)
	q.Specialization = strings.TrimSpace(q.Specialization)
	q.Location = strings.TrimSpace(q.Location)
	if q.Profession == "" || q.Specialization == "" || q.Location == "" {
		return nil, ErrInvalidInput
	}

	companies := make([]string, 0, len(q.Companies))
	seen := make(map[string]bool, len(q.Companies))
	for _, c := range q.Companies {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			return nil, ErrDuplicateCompanies
		}
		seen[key] = true
		companies = append(companies, c)
	}
	if len(companies) > maxSelectedCompanies {
		return nil, ErrTooManyCompanies
	}
	if len(companies) == 0 {
		// No selection from the client: search the first registry companies.
		names, err := u.loader.CompanyNames(maxSelectedCompanies)
		if err != nil {
			return nil, ErrInternal
		}
		companies = names
		if u.logger != nil {
			u.logger.Printf("[Search] No companies selected, defaulting to: %s", strings.Join(companies, ", "))
		}
	}
	q.Companies = companies

	cacheKey := SearchCacheKey(q)
	lockKey := SearchLockKey(cacheKey)

	if u.cache != nil {
		if cached, ok := u.probeCache(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	lockAcquired := false
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			lockAcquired = true
			if u.logger != nil {
				u.logger.Printf("[Search] Lock acquired: %s", lockKey)
			}
		} else if err == nil && !ok {
			// Another request is already querying upstream; wait briefly and
			// re-probe before doing the expensive call ourselves.
			jitterMs := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			time.Sleep(300*time.Millisecond + jitterMs)
			if cached, ok := u.probeCache(ctx, cacheKey); ok {
				return cached, nil
			}
			if u.logger != nil {
				u.logger.Printf("[Search] Lock wait fallback: %s", lockKey)
			}
		}
	}
	defer func() {
		if lockAcquired && u.cache != nil {
			_ = u.cache.Delete(context.WithoutCancel(ctx), lockKey)
		}
	}()

	entries, err := u.loader.Load()
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Search] Registry load failed: %v", err)
		}
		return nil, ErrInternal
	}
	resolution := allowlist.Resolve(q.Companies, entries)
	if u.logger != nil && len(resolution.Missing) > 0 {
		u.logger.Printf("[Search] No registry entries for: %s", strings.Join(resolution.Missing, ", "))
	}

	if len(resolution.Domains) == 0 {
		// Without trusted domains every result would be dropped, so skip the
		// upstream call entirely.
		if u.logger != nil {
			u.logger.Printf("[Search] Empty domain allowlist for selected companies, returning empty results")
		}
		out := &SearchResult{
			Jobs:      []job.Record{},
			Citations: []string{},
			Warning: fmt.Sprintf(
				"No domain allowlist configured for the selected companies: %s. Please contact support to add these companies to the allowlist.",
				strings.Join(resolution.Missing, ", "),
			),
		}
		u.logAudit(ctx, requestID, q, jobfilter.Stats{}, out.Warning)
		u.fillCache(ctx, cacheKey, out)
		return out, nil
	}

	if u.grok == nil {
		return nil, ErrUpstreamUnavailable
	}
	if u.logger != nil {
		u.logger.Printf("[Search] Querying upstream: %s | %s | %s | companies=%s",
			q.Profession, q.Specialization, q.Location, strings.Join(q.Companies, ", "))
	}
	completion, err := u.grok.Complete(ctx, grok.SystemPrompt, grok.BuildPrompt(q))
	if err != nil {
		return nil, mapUpstreamError(err, u.logger)
	}

	jobs := grok.ParseJobs(completion.Content)
	applyDefaults(jobs, q.Location)

	filtered, stats := jobfilter.Filter(jobs, resolution.Domains, urlcheck.DefaultBlockedDomains, jobfilter.Options{
		MaxResults:       u.opts.MaxResults,
		RequireDeepLinks: u.opts.RequireDeepLinks,
	})
	citations := jobfilter.FilterCitations(completion.Citations, resolution.Domains, urlcheck.DefaultBlockedDomains)
	if u.logger != nil {
		u.logger.Printf("[Search] Filtered jobs: %d -> %d (removed %d), citations: %d -> %d",
			stats.Valid, stats.Returned, stats.Valid-stats.Returned, len(completion.Citations), len(citations))
	}

	out := &SearchResult{
		Jobs:      filtered,
		Citations: citations,
		Warning:   filterWarning(stats, u.opts.MaxResults),
	}

	u.logAudit(ctx, requestID, q, stats, out.Warning)
	u.fillCache(ctx, cacheKey, out)
	return out, nil
}

func (u *Search) probeCache(ctx context.Context, key string) (*SearchResult, bool) {
	var cached SearchResult
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil || !hit {
		if u.logger != nil && err == nil {
			u.logger.Printf("[Search] Cache MISS: %s", key)
		}
		return nil, false
	}
	if u.logger != nil {
		u.logger.Printf("[Search] Cache HIT: %s", key)
	}
	return &cached, true
}

func (u *Search) fillCache(ctx context.Context, key string, result *SearchResult) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, result, 0); err == nil && u.logger != nil {
		u.logger.Printf("[Search] Cache SET: %s", key)
	}
}

func (u *Search) logAudit(ctx context.Context, requestID string, q job.Query, stats jobfilter.Stats, warning string) {
	if u.audit == nil {
		return
	}
	entry := repository.SearchLogEntry{
		RequestID:      requestID,
		Profession:     q.Profession,
		Specialization: q.Specialization,
		Location:       q.Location,
		Companies:      q.Companies,
		JobsParsed:     stats.Input,
		JobsValid:      stats.Valid,
		JobsAllowed:    stats.Allowed,
		JobsReturned:   stats.Returned,
		Warning:        warning,
	}
	if err := u.audit.LogSearch(ctx, entry); err != nil && u.logger != nil {
		u.logger.Printf("[Search] Audit log failed: %v", err)
	}
}

// applyDefaults fills optional record fields the model left blank.
func applyDefaults(jobs []job.Record, location string) {
	for i := range jobs {
		if jobs[i].Location == "" {
			jobs[i].Location = location
		}
		if jobs[i].Type == "" {
			jobs[i].Type = "Full-time"
		}
		if jobs[i].Reasoning == "" {
			jobs[i].Reasoning = "Good match for your criteria"
		}
	}
}

// filterWarning explains sparse results to the client. A warning is raised
// when domain filtering removed everything, or when it removed records and
// left fewer than the cap. Dedup collapses are not misreported as untrusted
// sources.
func filterWarning(stats jobfilter.Stats, maxResults int) string {
	if stats.Valid > 0 && stats.Allowed == 0 {
		return fmt.Sprintf(
			"All %d job(s) were filtered out because they were not from official company career sites. Only URLs from company domains are allowed.",
			stats.Valid,
		)
	}
	removed := stats.Valid - stats.Allowed
	if removed > 0 && stats.Returned < maxResults {
		return fmt.Sprintf(
			"%d of %d job(s) were removed because they were not from official company career sites.",
			removed, stats.Valid,
		)
	}
	return ""
}

func mapUpstreamError(err error, logger *log.Logger) error {
	if errors.Is(err, grok.ErrTimeout) {
		return ErrUpstreamTimeout
	}
	var apiErr *grok.APIError
	if errors.As(err, &apiErr) {
		if logger != nil {
			logger.Printf("[Search] Upstream API error status=%d message=%q", apiErr.Status, apiErr.Message)
		}
		if apiErr.Status >= 500 || apiErr.Status == 429 {
			return ErrUpstreamUnavailable
		}
		return ErrUpstream
	}
	if logger != nil {
		logger.Printf("[Search] Upstream call failed: %v", err)
	}
	return ErrUpstream
}

var _ SearchUsecase = (*Search)(nil)
