package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"chemjobs/internal/domain/job"
)

type searchCacheKeyInput struct {
	Profession     string   `json:"profession"`
	Specialization string   `json:"specialization"`
	Location       string   `json:"location"`
	Companies      []string `json:"companies"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// SearchCacheKey derives a stable cache key from the normalized query so that
// requests differing only in whitespace or casing share an entry.
func SearchCacheKey(q job.Query) string {
	companies := make([]string, 0, len(q.Companies))
	for _, c := range q.Companies {
		c = normalizeSearchValue(c)
		if c == "" {
			continue
		}
		companies = append(companies, c)
	}

	in := searchCacheKeyInput{
		Profession:     normalizeSearchValue(q.Profession),
		Specialization: normalizeSearchValue(q.Specialization),
		Location:       normalizeSearchValue(q.Location),
		Companies:      companies,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	h := hex.EncodeToString(sum[:])
	return "search:jobs:" + h
}

func SearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	if strings.HasPrefix(searchKey, "search:jobs:") {
		return "search:lock:" + strings.TrimPrefix(searchKey, "search:jobs:")
	}
	return "search:lock:" + searchKey
}
