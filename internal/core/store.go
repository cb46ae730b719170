package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tailscale/hujson"
)

// Store is the injected key-value persistence abstraction. Values are JSON
// documents. Get returns ok=false for missing keys; Delete of a missing key
// is a no-op. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
	// Keys returns all stored keys with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
}

// Store key namespaces. One key per app id (or per owner/repo for the feed
// cache).
const (
	keyPrefixVersion  = "version/"
	keyPrefixLocation = "location/"
	keyPrefixChannel  = "channel/"
	keyPrefixFeed     = "feed/"
)

// FileStore persists each key as a JSON file under a directory, written
// atomically (temp file then rename) and read tolerantly: user-edited files
// may carry comments or trailing commas, so reads go through
// hujson.Standardize first.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// keyPath maps a store key to a file path, flattening separators so keys
// stay filesystem-safe.
func (s *FileStore) keyPath(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

// Get reads and decodes the value for key into out.
func (s *FileStore) Get(key string, out any) (bool, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %q: %w", key, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return false, fmt.Errorf("standardizing %q: %w", key, err)
	}
	if err := json.Unmarshal(std, out); err != nil {
		return false, fmt.Errorf("parsing %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value and writes it atomically.
func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	data = append(data, '\n')

	path := s.keyPath(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}

// Delete removes the value for key. Missing keys are a no-op.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys with the given prefix. Because keys are flattened
// to filenames, the prefix is flattened the same way before matching.
func (s *FileStore) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing store: %w", err)
	}

	flat := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(prefix)
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		name = strings.TrimSuffix(name, ".json")
		if strings.HasPrefix(name, flat) {
			// Reverse the single flattening we control: the prefix part.
			keys = append(keys, prefix+name[len(flat):])
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]json.RawMessage)}
}

func (s *MemStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("parsing %q: %w", key, err)
	}
	return true, nil
}

func (s *MemStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
