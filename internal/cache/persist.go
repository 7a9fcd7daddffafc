package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Version identifies the on-disk cache format. Any mismatch on load
// discards the whole persisted cache rather than attempting migration.
const Version = "1"

const (
	metadataFileName = "metadata.json"
	entriesFileName  = "cache.json"
)

// metadata is the sidecar record persisted next to the entry map
type metadata struct {
	Version     string    `json:"version"`
	LastCleanup time.Time `json:"last_cleanup"`
	EntryCount  int       `json:"entry_count"`
}

// Save serializes the in-memory map plus a metadata record to disk.
// Disk failures are logged and swallowed: persistence degrades to
// nothing, it never aborts an analysis run.
func (m *Manager) Save() {
	if m.dir == "" {
		return
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		log.Printf("cache: disabling persistence, cannot create %s: %v", m.dir, err)
		return
	}

	m.mu.RLock()
	meta := metadata{
		Version:     Version,
		LastCleanup: m.lastCleanup,
		EntryCount:  len(m.entries),
	}
	entriesJSON, err := json.Marshal(m.entries)
	m.mu.RUnlock()
	if err != nil {
		log.Printf("cache: cannot serialize entries: %v", err)
		return
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		log.Printf("cache: cannot serialize metadata: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(m.dir, entriesFileName), entriesJSON, 0o644); err != nil {
		log.Printf("cache: cannot write %s: %v", entriesFileName, err)
		return
	}
	if err := os.WriteFile(filepath.Join(m.dir, metadataFileName), metaJSON, 0o644); err != nil {
		log.Printf("cache: cannot write %s: %v", metadataFileName, err)
	}
}

// Load restores the persisted cache. A version mismatch discards the
// entire persisted cache; entries that fail the freshness check are
// dropped silently. Disk failures leave the cache empty and are never
// propagated as fatal.
func (m *Manager) Load() {
	if m.dir == "" {
		return
	}

	metaJSON, err := os.ReadFile(filepath.Join(m.dir, metadataFileName))
	if err != nil {
		return
	}
	var meta metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		log.Printf("cache: corrupt metadata, starting cold: %v", err)
		m.DeleteCache()
		return
	}
	if meta.Version != Version {
		m.DeleteCache()
		return
	}

	entriesJSON, err := os.ReadFile(filepath.Join(m.dir, entriesFileName))
	if err != nil {
		return
	}
	var loaded map[string]*Entry
	if err := json.Unmarshal(entriesJSON, &loaded); err != nil {
		log.Printf("cache: corrupt entry file, starting cold: %v", err)
		m.DeleteCache()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.lastCleanup = meta.LastCleanup
	for key, entry := range loaded {
		if entry == nil || entry.Result == nil {
			continue
		}
		if now.Sub(entry.CreatedAt) >= m.ttl {
			continue
		}
		m.entries[key] = entry
	}
}

// DeleteCache removes the persisted files, leaving in-memory state alone
func (m *Manager) DeleteCache() {
	if m.dir == "" {
		return
	}
	for _, name := range []string{entriesFileName, metadataFileName} {
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("cache: cannot remove %s: %v", name, err)
		}
	}
}
