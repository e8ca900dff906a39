// Package tracecat implements a catalog/discovery tool over trees of
// trace files: it walks a root directory recursively, verifies the magic
// header, decodes only the leading Start event of each matching file, and
// reports a (host, process_id, start time, path) inventory. It never
// decodes past the first event — it exists to let an operator locate
// traces without replaying them, not to validate a whole file's framing.
package tracecat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

// Entry describes one discovered trace file's origin, resolved from its
// leading Start event, plus enough filesystem metadata to validate a
// cache entry against without re-reading the file.
type Entry struct {
	Path      string    `json:"path"`
	Host      string    `json:"host"`
	ProcessID uint64    `json:"process_id"`
	StartUnix uint64    `json:"start_unix_nanos"`
	ModTime   time.Time `json:"mod_time"`
	Size      int64     `json:"size"`
}

// StartTime returns the Entry's Start.unix_time as a time.Time for
// display purposes.
func (e Entry) StartTime() time.Time {
	return time.Unix(0, int64(e.StartUnix)).UTC()
}

// Scan walks root recursively (unlike the replay CLI's strict one-level
// directory walk), testing every regular file against the magic header
// and, for matches, decoding only the leading Start event.
func Scan(root string) ([]Entry, error) {
	return collect(root, nil)
}

// collect is the shared walk behind Scan and ScanCached. When cached is
// non-nil, a file whose cached ModTime and Size still match the file on
// disk is reused verbatim without being reopened or re-decoded.
func collect(root string, cached map[string]Entry) ([]Entry, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("tracecat: root directory must be provided")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tracecat: %s is not a directory", root)
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if cached != nil {
			if prior, ok := cached[path]; ok {
				if fi, err := d.Info(); err == nil && prior.ModTime.Equal(fi.ModTime()) && prior.Size == fi.Size() {
					entries = append(entries, prior)
					return nil
				}
			}
		}
		entry, ok, err := probe(path)
		if err != nil {
			return fmt.Errorf("tracecat: probing %s: %w", path, err)
		}
		if ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// probe tests path against the magic header and, on a match, decodes its
// leading Start event. It returns ok=false (with a nil error) for files
// that don't carry the magic header or whose leading event isn't a
// Start — those are silently skipped, matching the replay CLI's
// "non-matching files silently skipped" policy.
func probe(path string) (Entry, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false, nil
	}
	defer f.Close()

	header := make([]byte, len(trace.Magic))
	if n, err := f.Read(header); err != nil || n != len(header) {
		return Entry{}, false, nil
	}
	if !trace.HasMagic(header) {
		return Entry{}, false, nil
	}

	ev, ok := wire.Decode(bufio.NewReader(f))
	if !ok || ev.Kind != wire.KindStart {
		return Entry{}, false, nil
	}

	info, err := f.Stat()
	if err != nil {
		return Entry{}, false, err
	}

	return Entry{
		Path:      path,
		Host:      ev.Start.Host,
		ProcessID: ev.Start.ProcessID,
		StartUnix: ev.Start.UnixTime,
		ModTime:   info.ModTime(),
		Size:      info.Size(),
	}, true, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Host != entries[j].Host {
			return entries[i].Host < entries[j].Host
		}
		if entries[i].ProcessID != entries[j].ProcessID {
			return entries[i].ProcessID < entries[j].ProcessID
		}
		return entries[i].Path < entries[j].Path
	})
}

// MarshalEntries produces a stable, indented JSON representation for CLI
// output.
func MarshalEntries(entries []Entry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}
