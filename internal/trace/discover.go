package trace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover expands the CLI's positional path arguments into a flat list of
// candidate trace files. Each argument is either a regular file or a
// directory; directories are walked exactly one level deep (no recursion)
// and each regular entry is tested against the magic header — entries that
// don't match are silently skipped.
func Discover(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				return nil, fmt.Errorf("read dir %s: %w", p, err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				full := filepath.Join(p, entry.Name())
				if ok, err := matchesMagic(full); err == nil && ok {
					files = append(files, full)
				}
			}
			continue
		}
		files = append(files, p)
	}
	return files, nil
}

func matchesMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	header := make([]byte, len(Magic))
	n, err := f.Read(header)
	if err != nil || n != len(header) {
		return false, nil
	}
	return HasMagic(header), nil
}

// OpenTraceFile opens path, validates and strips the magic header, and
// returns a ready-to-decode reader positioned at the first event.
func OpenTraceFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := ReadMagic(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
