package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chemjobs/internal/allowlist"
	"chemjobs/internal/domain/job"
	"chemjobs/internal/infrastructure/grok"
	"chemjobs/internal/jobfilter"
	"chemjobs/internal/repository"
)

type mockGrok struct {
	completeFn func(ctx context.Context, systemPrompt, userPrompt string) (*grok.Result, error)
	calls      int
	lastPrompt string
}

func (m *mockGrok) Complete(ctx context.Context, systemPrompt, userPrompt string) (*grok.Result, error) {
	m.calls++
	m.lastPrompt = userPrompt
	return m.completeFn(ctx, systemPrompt, userPrompt)
}

type mockLoader struct {
	entries []allowlist.CompanyEntry
	loadErr error
}

func (m *mockLoader) Load() ([]allowlist.CompanyEntry, error) {
	return m.entries, m.loadErr
}

func (m *mockLoader) CompanyNames(limit int) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	names := make([]string, 0, limit)
	for _, e := range m.entries {
		if len(names) == limit {
			break
		}
		names = append(names, e.Name)
	}
	return names, nil
}

type mockCache struct {
	getFn    func(ctx context.Context, key string, out any) (bool, error)
	setCalls int
}

func (m *mockCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key, out)
	}
	return false, nil
}

func (m *mockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.setCalls++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error { return nil }

func (m *mockCache) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

type mockAudit struct {
	entries []repository.SearchLogEntry
	err     error
}

func (m *mockAudit) LogSearch(ctx context.Context, entry repository.SearchLogEntry) error {
	m.entries = append(m.entries, entry)
	return m.err
}

func testLoader() *mockLoader {
	return &mockLoader{entries: []allowlist.CompanyEntry{
		{Name: "BASF SE", Domains: []string{"basf.com"}},
		{Name: "Covestro AG", Domains: []string{"covestro.com"}},
		{Name: "Evonik Industries", Domains: []string{"evonik.com"}},
		{Name: "Bayer AG", Domains: []string{"bayer.com"}},
	}}
}

func testQuery() job.Query {
	return job.Query{
		Profession:     "Chemist",
		Specialization: "Polymer Chemistry",
		Location:       "Ludwigshafen",
		Companies:      []string{"BASF SE"},
	}
}

const grokJobsResponse = `{"jobs":[
	{"title":"Polymer Chemist","company":"BASF SE","location":"Ludwigshafen","type":"Full-time","matchScore":95,"reasoning":"fit","link":"https://jobs.basf.com/job/12345"},
	{"title":"Lab Chemist","company":"BASF SE","link":"https://www.linkedin.com/jobs/view/999"}
]}`

func TestSearchJobsHappyPath(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		return &grok.Result{
			Content:   grokJobsResponse,
			Citations: []string{"https://jobs.basf.com/job/12345", "https://indeed.com/x"},
		}, nil
	}}
	audit := &mockAudit{}
	cache := &mockCache{}

	u := NewSearchUsecase(g, testLoader(), audit, cache, SearchOptions{}, nil)

	res, err := u.SearchJobs(context.Background(), testQuery(), "req-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Jobs) != 1 {
		t.Fatalf("expected 1 job after filtering, got %d", len(res.Jobs))
	}
	if res.Jobs[0].Title != "Polymer Chemist" {
		t.Fatalf("unexpected job: %+v", res.Jobs[0])
	}
	if len(res.Citations) != 1 || res.Citations[0] != "https://jobs.basf.com/job/12345" {
		t.Fatalf("unexpected citations: %v", res.Citations)
	}
	if res.Warning == "" {
		t.Fatalf("expected warning when filtering removed records below the cap")
	}
	if g.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", g.calls)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	if e := audit.entries[0]; e.RequestID != "req-1" || e.JobsValid != 2 || e.JobsReturned != 1 {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
	if cache.setCalls != 1 {
		t.Fatalf("expected cache fill, got %d sets", cache.setCalls)
	}
}

func TestSearchJobsValidation(t *testing.T) {
	u := NewSearchUsecase(nil, testLoader(), nil, nil, SearchOptions{}, nil)

	cases := []job.Query{
		{Specialization: "x", Location: "y"},
		{Profession: "x", Location: "y"},
		{Profession: "x", Specialization: "y"},
		{Profession: " ", Specialization: "x", Location: "y"},
		{Profession: "x", Specialization: "y", Location: "z", Companies: []string{"a", "b", "c", "d"}},
	}
	for i, q := range cases {
		if _, err := u.SearchJobs(context.Background(), q, "req"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestSearchJobsTooManyCompanies(t *testing.T) {
	u := NewSearchUsecase(nil, testLoader(), nil, nil, SearchOptions{}, nil)

	q := testQuery()
	q.Companies = []string{"BASF SE", "Covestro AG", "Evonik Industries", "Bayer AG"}

	_, err := u.SearchJobs(context.Background(), q, "req")
	if !errors.Is(err, ErrTooManyCompanies) {
		t.Fatalf("expected ErrTooManyCompanies, got %v", err)
	}
	// The specific sentinel still reads as invalid input.
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrTooManyCompanies to wrap ErrInvalidInput")
	}
}

func TestSearchJobsDuplicateCompanies(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		t.Fatal("upstream must not be called for a duplicated selection")
		return nil, nil
	}}
	u := NewSearchUsecase(g, testLoader(), nil, nil, SearchOptions{}, nil)

	for _, companies := range [][]string{
		{"BASF SE", "BASF SE"},
		{"BASF SE", " basf se "},
	} {
		q := testQuery()
		q.Companies = companies
		_, err := u.SearchJobs(context.Background(), q, "req")
		if !errors.Is(err, ErrDuplicateCompanies) {
			t.Fatalf("companies %v: expected ErrDuplicateCompanies, got %v", companies, err)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrDuplicateCompanies to wrap ErrInvalidInput")
		}
	}
	if g.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", g.calls)
	}
}

func TestSearchJobsUnknownCompanySkipsUpstream(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		t.Fatal("upstream must not be called with an empty allowlist")
		return nil, nil
	}}
	audit := &mockAudit{}

	u := NewSearchUsecase(g, testLoader(), audit, nil, SearchOptions{}, nil)

	q := testQuery()
	q.Companies = []string{"UnknownCorp"}

	res, err := u.SearchJobs(context.Background(), q, "req-2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Jobs) != 0 || len(res.Citations) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if res.Warning == "" {
		t.Fatalf("expected allowlist warning")
	}
	if g.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", g.calls)
	}
	if len(audit.entries) != 1 || audit.entries[0].Warning == "" {
		t.Fatalf("expected audited warning, got %+v", audit.entries)
	}
}

func TestSearchJobsDefaultsCompanies(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		return &grok.Result{Content: `{"jobs":[]}`}, nil
	}}

	u := NewSearchUsecase(g, testLoader(), nil, nil, SearchOptions{}, nil)

	q := testQuery()
	q.Companies = nil

	if _, err := u.SearchJobs(context.Background(), q, "req-3"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if g.calls != 1 {
		t.Fatalf("expected upstream call, got %d", g.calls)
	}
	for _, name := range []string{"BASF SE", "Covestro AG", "Evonik Industries"} {
		if !strings.Contains(g.lastPrompt, name) {
			t.Fatalf("expected prompt to name %q", name)
		}
	}
	if strings.Contains(g.lastPrompt, "Bayer AG") {
		t.Fatalf("default selection must stop at three companies")
	}
}

func TestSearchJobsUpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"timeout", grok.ErrTimeout, ErrUpstreamTimeout},
		{"server error", &grok.APIError{Status: 500, Message: "boom"}, ErrUpstreamUnavailable},
		{"rate limit", &grok.APIError{Status: 429, Message: "slow down"}, ErrUpstreamUnavailable},
		{"bad request", &grok.APIError{Status: 400, Message: "nope"}, ErrUpstream},
		{"other", errors.New("conn reset"), ErrUpstream},
	}
	for _, tc := range cases {
		g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
			return nil, tc.err
		}}
		u := NewSearchUsecase(g, testLoader(), nil, nil, SearchOptions{}, nil)
		if _, err := u.SearchJobs(context.Background(), testQuery(), "req"); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSearchJobsNilClient(t *testing.T) {
	u := NewSearchUsecase(nil, testLoader(), nil, nil, SearchOptions{}, nil)
	if _, err := u.SearchJobs(context.Background(), testQuery(), "req"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSearchJobsCacheHit(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		t.Fatal("upstream must not be called on cache hit")
		return nil, nil
	}}
	cache := &mockCache{getFn: func(ctx context.Context, key string, out any) (bool, error) {
		res := out.(*SearchResult)
		res.Jobs = []job.Record{{Title: "Cached", Company: "BASF SE", Link: "https://jobs.basf.com/job/1"}}
		return true, nil
	}}

	u := NewSearchUsecase(g, testLoader(), nil, cache, SearchOptions{}, nil)

	res, err := u.SearchJobs(context.Background(), testQuery(), "req")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].Title != "Cached" {
		t.Fatalf("expected cached result, got %+v", res)
	}
	if g.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", g.calls)
	}
}

func TestSearchJobsGarbledContentYieldsEmpty(t *testing.T) {
	g := &mockGrok{completeFn: func(ctx context.Context, _, _ string) (*grok.Result, error) {
		return &grok.Result{Content: "sorry, I could not find anything"}, nil
	}}

	u := NewSearchUsecase(g, testLoader(), nil, nil, SearchOptions{}, nil)

	res, err := u.SearchJobs(context.Background(), testQuery(), "req")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Jobs) != 0 {
		t.Fatalf("expected empty jobs, got %+v", res.Jobs)
	}
	if res.Warning != "" {
		t.Fatalf("no warning expected when nothing was parsed, got %q", res.Warning)
	}
}

func TestFilterWarning(t *testing.T) {
	cases := []struct {
		name  string
		stats jobfilter.Stats
		want  bool
	}{
		{"all filtered", jobfilter.Stats{Input: 5, Valid: 5}, true},
		{"partial below cap", jobfilter.Stats{Input: 5, Valid: 5, Allowed: 3, Deduped: 3, Returned: 3}, true},
		{"nothing removed", jobfilter.Stats{Input: 5, Valid: 5, Allowed: 5, Deduped: 5, Returned: 5}, false},
		{"dedup collapses only", jobfilter.Stats{Input: 5, Valid: 5, Allowed: 5, Deduped: 3, Returned: 3}, false},
		{"nothing parsed", jobfilter.Stats{}, false},
	}
	for _, tc := range cases {
		w := filterWarning(tc.stats, 10)
		if (w != "") != tc.want {
			t.Fatalf("%s: warning=%q want present=%v", tc.name, w, tc.want)
		}
	}
}
