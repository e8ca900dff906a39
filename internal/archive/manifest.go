// Package archive bundles whole, already-encoded trace files into
// compressed archives for long-term storage, and sweeps old bundles off
// disk under a retention policy. Its unit of work is an entire trace file,
// treated as an opaque byte blob; the only per-event decoding it does is
// reading each file's leading Start event for the bundle index.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestSchemaVersion tracks the schema version for bundle manifests.
const ManifestSchemaVersion = 1

// Entry describes one trace file stored inside a bundle.
type Entry struct {
	SourceName      string `json:"source_name"`
	StoredName      string `json:"stored_name"`
	OriginalBytes   int64  `json:"original_bytes"`
	CompressedBytes int64  `json:"compressed_bytes"`
}

// Manifest describes a bundle's contents so catalog tooling can locate and
// verify it without decompressing every entry.
type Manifest struct {
	SchemaVersion int     `json:"schema_version"`
	CreatedAt     string  `json:"created_at"`
	Files         []Entry `json:"files"`
}

// Validate ensures the manifest contains enough information for catalog
// tooling to trust the bundle.
func (m Manifest) Validate() error {
	if m.SchemaVersion <= 0 {
		return fmt.Errorf("schema_version must be positive")
	}
	if strings.TrimSpace(m.CreatedAt) == "" {
		return fmt.Errorf("created_at must not be empty")
	}
	return nil
}

// WriteManifest persists manifest as indented JSON at path.
func WriteManifest(path string, manifest Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}

// ReadManifest loads and validates a bundle manifest from disk.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, err
	}
	if err := manifest.Validate(); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}
