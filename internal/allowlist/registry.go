package allowlist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

//go:embed companies.json
var embeddedRegistry []byte

// CompanyEntry maps a canonical company name to the registered domains its
// career sites live on. The registry is the sole source of truth for which
// hosts may appear in results.
type CompanyEntry struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

// Loader reads the company registry once and caches it for the process
// lifetime. With an empty path the embedded registry is used; otherwise the
// file at path. The cache is read-only after the first load; Reset exists for
// tests.
type Loader struct {
	mu      sync.Mutex
	path    string
	logger  *log.Logger
	entries []CompanyEntry
	loaded  bool
}

func NewLoader(path string, logger *log.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

func (l *Loader) Load() ([]CompanyEntry, error) {
	if l == nil {
		return nil, fmt.Errorf("nil loader")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.entries, nil
	}

	data := embeddedRegistry
	if l.path != "" {
		b, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("read company registry %s: %w", l.path, err)
		}
		data = b
	}

	var entries []CompanyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse company registry: %w", err)
	}

	l.entries = entries
	l.loaded = true
	if l.logger != nil {
		l.logger.Printf("[Allowlist] Loaded %d company registry entries", len(entries))
	}
	return l.entries, nil
}

// Reset drops the cached registry so the next Load re-reads it.
func (l *Loader) Reset() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.loaded = false
}

// CompanyNames returns up to limit registry company names, in registry order.
// Used as the fallback selection when a request names no companies.
func (l *Loader) CompanyNames(limit int) ([]string, error) {
	entries, err := l.Load()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	names := make([]string, 0, limit)
	for _, e := range entries[:limit] {
		names = append(names, e.Name)
	}
	return names, nil
}
