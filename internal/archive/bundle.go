package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/klauspost/compress/zstd"
)

var bundleNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Export zstd-compresses each file in sourcePaths into a freshly created
// subdirectory of destDir, writes a manifest describing the bundle, and
// writes a snappy-compressed sidecar index of each file's origin (see
// buildIndexEntry) so catalog tooling can inspect bundle contents without
// decompressing every member. Beyond that one leading-Start peek, Export
// treats every source file as an opaque blob — it never reinterprets the
// rest of the wire format — so it remains safe to run against trace files
// currently being written, so long as the recorder has already rotated
// off of them.
func Export(sourcePaths []string, destDir, label string, clock func() time.Time) (Manifest, string, error) {
	if len(sourcePaths) == 0 {
		return Manifest{}, "", fmt.Errorf("archive: no source files to bundle")
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := bundleNameCleaner.ReplaceAllString(label, "")
	if cleaned == "" {
		cleaned = "bundle"
	}
	created := clock().UTC()
	bundleDir := filepath.Join(destDir, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return Manifest{}, "", err
	}

	manifest := Manifest{SchemaVersion: ManifestSchemaVersion, CreatedAt: created.Format(time.RFC3339Nano)}
	var index []IndexEntry

	for _, src := range sourcePaths {
		entry, err := compressOne(src, bundleDir)
		if err != nil {
			return Manifest{}, "", fmt.Errorf("archive: bundling %s: %w", src, err)
		}
		manifest.Files = append(manifest.Files, entry)

		if idx, ok := buildIndexEntry(src); ok {
			index = append(index, idx)
		}
	}

	manifestPath := filepath.Join(bundleDir, "manifest.json")
	if err := WriteManifest(manifestPath, manifest); err != nil {
		return Manifest{}, "", err
	}
	if len(index) > 0 {
		if err := WriteIndex(filepath.Join(bundleDir, indexName), index); err != nil {
			return Manifest{}, "", fmt.Errorf("archive: writing index: %w", err)
		}
	}
	return manifest, bundleDir, nil
}

func compressOne(src, bundleDir string) (Entry, error) {
	in, err := os.Open(src)
	if err != nil {
		return Entry{}, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return Entry{}, err
	}

	storedName := filepath.Base(src) + ".zst"
	outPath := filepath.Join(bundleDir, storedName)
	out, err := os.Create(outPath)
	if err != nil {
		return Entry{}, err
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out)
	if err != nil {
		return Entry{}, err
	}
	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		return Entry{}, err
	}
	if err := enc.Close(); err != nil {
		return Entry{}, err
	}

	compressedInfo, err := out.Stat()
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		SourceName:      filepath.Base(src),
		StoredName:      storedName,
		OriginalBytes:   info.Size(),
		CompressedBytes: compressedInfo.Size(),
	}, nil
}

// Restore decompresses a bundle entry back to destPath.
func Restore(bundleDir string, entry Entry, destPath string) error {
	in, err := os.Open(filepath.Join(bundleDir, entry.StoredName))
	if err != nil {
		return err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, dec); err != nil {
		return err
	}
	return nil
}
