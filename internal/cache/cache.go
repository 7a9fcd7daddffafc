// Package cache provides a content-addressed store for per-file analysis
// results. An entry is reusable only while the file content digest, the
// configuration digest and the TTL freshness all hold; any single mismatch
// is a miss. The store is size-bounded with oldest-first eviction and can
// optionally persist to disk between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/soliscan/soliscan/domain"
)

// Default cache settings
const (
	DefaultTTL        = 24 * time.Hour
	DefaultMaxEntries = 1000
)

// Entry is one cached analysis result keyed by normalized file path
type Entry struct {
	Hash       string                     `json:"hash"`
	Result     *domain.FileAnalysisResult `json:"result"`
	CreatedAt  time.Time                  `json:"created_at"`
	ConfigHash string                     `json:"config_hash"`
}

// Stats reports cache effectiveness counters
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
}

// Options configures a Manager
type Options struct {
	// TTL is how long an entry stays fresh. Zero means DefaultTTL.
	TTL time.Duration

	// MaxEntries bounds the store size. Zero means DefaultMaxEntries.
	MaxEntries int

	// Dir is where Save/Load persist the cache. Empty disables persistence.
	Dir string
}

// Manager is the cache store. Safe for use from concurrent file analyses:
// a race between two operations on the same key resolves last-write-wins,
// which is harmless because recomputation is idempotent.
type Manager struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	ttl        time.Duration
	maxEntries int
	dir        string

	hits      int64
	misses    int64
	evictions int64

	// lastCleanup is persisted in the metadata record
	lastCleanup time.Time

	// now is replaceable in tests
	now func() time.Time
}

// NewManager creates a cache manager with the given options
func NewManager(opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Manager{
		entries:    make(map[string]*Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		dir:        opts.Dir,
		now:        time.Now,
	}
}

// HashContent computes the content digest used as a cache validity key.
// This is a cache key, not a security boundary.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashConfig digests a configuration value after deterministic key
// ordering, so semantically identical configs hash identically regardless
// of key insertion order.
func HashConfig(config any) (string, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("config is not serializable: %w", err)
	}
	// Round-trip through any so maps marshal with sorted keys.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("config round-trip failed: %w", err)
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("config canonicalization failed: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// normalizePath produces the map key for a file path
func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Get returns the cached result for the file iff the content digest, the
// config digest and the TTL freshness all hold. A stale entry whose content
// hash no longer matches is evicted before the miss is reported.
func (m *Manager) Get(filePath string, content []byte, configHash string) (*domain.FileAnalysisResult, bool) {
	key := normalizePath(filePath)
	hash := HashContent(content)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if entry.Hash != hash {
		// Content changed since the entry was written; it can never
		// become valid again, so drop it now.
		delete(m.entries, key)
		m.evictions++
		m.misses++
		return nil, false
	}
	if entry.ConfigHash != configHash || m.now().Sub(entry.CreatedAt) >= m.ttl {
		m.misses++
		return nil, false
	}
	m.hits++
	return entry.Result, true
}

// Set inserts or replaces the entry for the file, evicting the oldest
// entries when the store exceeds capacity.
func (m *Manager) Set(filePath string, content []byte, configHash string, result *domain.FileAnalysisResult) {
	key := normalizePath(filePath)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &Entry{
		Hash:       HashContent(content),
		Result:     result,
		CreatedAt:  m.now(),
		ConfigHash: configHash,
	}
	if len(m.entries) > m.maxEntries {
		m.evictOldestLocked()
	}
}

// evictOldestLocked removes the oldest 10% of capacity (rounded up, at
// least one) so the store drops below maxEntries. Caller holds mu.
func (m *Manager) evictOldestLocked() {
	drop := int(math.Ceil(float64(m.maxEntries) * 0.1))
	if drop < 1 {
		drop = 1
	}
	target := m.maxEntries - drop

	type aged struct {
		key       string
		createdAt time.Time
	}
	all := make([]aged, 0, len(m.entries))
	for k, e := range m.entries {
		all = append(all, aged{key: k, createdAt: e.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].createdAt.Before(all[j].createdAt)
	})
	for _, a := range all {
		if len(m.entries) <= target {
			break
		}
		delete(m.entries, a.key)
		m.evictions++
	}
}

// Invalidate removes the entry for a single file
func (m *Manager) Invalidate(filePath string) {
	key := normalizePath(filePath)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear removes all entries
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
}

// Cleanup removes all expired entries and returns how many were removed
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if now.Sub(e.CreatedAt) >= m.ttl {
			delete(m.entries, k)
			removed++
		}
	}
	m.lastCleanup = now
	return removed
}

// Len returns the number of entries currently stored
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns a snapshot of the cache counters
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
		Entries:   len(m.entries),
	}
}

// HitRate returns hits/(hits+misses), 0 when the cache is untouched
func (m *Manager) HitRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.hits + m.misses
	if total == 0 {
		return 0
	}
	return float64(m.hits) / float64(total)
}
