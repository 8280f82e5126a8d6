package spotlight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// PreferenceStore is the key-value slot the viewer persists the scroll
// direction preference in.
type PreferenceStore interface {
	// Load returns the stored value and whether the key exists.
	Load(key string) (string, bool, error)
	Save(key, value string) error
}

// MemoryStore is an in-process PreferenceStore. LoadErr and SaveErr, when
// set, are returned instead of touching the map.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	LoadErr error
	SaveErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", false, m.LoadErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// FileStore persists preferences as a flat YAML mapping in a single file.
// A missing file reads as empty.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path. The file and its directory
// are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return values, nil
}

func (f *FileStore) Load(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Save(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	b, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// loadScrollPreference reads the natural-scrolling flag. Any failure falls
// back to non-inverted and uncalibrated.
func (v *Viewer) loadScrollPreference() {
	v.invertedScroll = false
	v.calib.needed = true
	if v.store == nil {
		return
	}
	raw, ok, err := v.store.Load(v.cfg.UI.PreferenceKey)
	if err != nil {
		v.reportError("preferences.load", err)
		return
	}
	if !ok {
		return
	}
	v.invertedScroll = raw == "true"
	v.calib.needed = false
}

func (v *Viewer) saveScrollPreference(natural bool) {
	if v.store == nil {
		return
	}
	if err := v.store.Save(v.cfg.UI.PreferenceKey, strconv.FormatBool(natural)); err != nil {
		v.reportError("preferences.save", err)
	}
}
