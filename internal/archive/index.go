package archive

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

// IndexEntry is a quick-access summary of one bundled trace file's origin,
// extracted from its leading Start event. It exists so catalog tooling
// can answer "which processes does this bundle contain" without
// decompressing every zstd-compressed member file.
type IndexEntry struct {
	SourceName string `json:"source_name"`
	Host       string `json:"host"`
	ProcessID  uint64 `json:"process_id"`
	StartUnix  uint64 `json:"start_unix_nanos"`
}

// indexName is the sidecar file Export writes alongside manifest.json.
const indexName = "index.json.sz"

// buildIndexEntry decodes only the leading Start event of a trace file at
// src. Unlike Export's whole-file bundling, this does touch the wire
// format — but only its very first event, which the recorder writes
// synchronously in SetOutput before anything else, so it is safe to read
// even from a trace file still being actively appended to. A file that
// fails to open or doesn't begin with Start yields ok=false rather than
// an error: a bundle should still succeed even if one input isn't a
// recognizable trace.
func buildIndexEntry(src string) (IndexEntry, bool) {
	f, err := trace.OpenTraceFile(src)
	if err != nil {
		return IndexEntry{}, false
	}
	defer f.Close()

	ev, ok := wire.Decode(wire.NewReader(f))
	if !ok || ev.Kind != wire.KindStart {
		return IndexEntry{}, false
	}
	return IndexEntry{
		SourceName: filepath.Base(src),
		Host:       ev.Start.Host,
		ProcessID:  ev.Start.ProcessID,
		StartUnix:  ev.Start.UnixTime,
	}, true
}

// WriteIndex snappy-compresses entries as JSON to path. Snappy favors
// decode speed over ratio — the index is the small, frequently-read side
// of the bundle, while the bulk payload bytes go through zstd in
// compressOne.
func WriteIndex(path string, entries []IndexEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := snappy.NewBufferedWriter(f)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadIndex decompresses and parses an index file written by WriteIndex.
func ReadIndex(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []IndexEntry
	if err := json.NewDecoder(snappy.NewReader(f)).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
