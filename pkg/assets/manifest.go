// Package assets maps static asset names to fingerprinted public paths.
//
// Fingerprint hashes every file of a file system and records a manifest
// entry per file:
//
//	{
//	  "css/site.css": "css/site.3f2a9c1b.css",
//	  "images/cover.webp": "images/cover.8d04e6a2.webp"
//	}
//
// A Resolver joins a manifest with the URL prefix the files are served
// under, and is what page sections use to link assets:
//
//	manifest, _ := assets.Fingerprint(static.FS)
//	resolver := assets.NewResolver(manifest, "/static/")
//	resolver.Path("css/site.css") // "/static/css/site.3f2a9c1b.css"
//
// The same manifest is written next to an exported site as manifest.json.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// HashLength is the number of hex characters of the content hash kept in
// fingerprinted names.
const HashLength = 8

// Manifest holds the mapping from source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	reverse map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		reverse: make(map[string]string),
	}
}

// Load reads a manifest.json file.
// The file is a JSON object: {"source.js": "source.abc123.js"}
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	m := NewManifest()
	for k, v := range entries {
		m.Set(k, v)
	}
	return m, nil
}

// Fingerprint builds a manifest for every regular file in fsys. Each name
// gets the first HashLength hex characters of its SHA-256 inserted before
// the extension.
func Fingerprint(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		f, err := fsys.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()

		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		m.Set(name, fingerprintName(name, hex.EncodeToString(h.Sum(nil))[:HashLength]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// fingerprintName inserts hash before the extension of name.
func fingerprintName(name, hash string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// Resolve returns the fingerprinted path for the given source path.
// If not found, returns the original path unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source returns the source path of a fingerprinted path.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.reverse[resolved]
	return source, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry in the manifest.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[source]; ok {
		delete(m.reverse, old)
	}
	m.entries[source] = resolved
	m.reverse[resolved] = source
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Sources returns the source paths in sorted order.
func (m *Manifest) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// All returns a copy of all manifest entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}

// MarshalJSON encodes the manifest as a flat JSON object.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.All())
}

// WriteFile writes the manifest as indented JSON.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m.All(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
