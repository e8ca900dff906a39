package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

func writeTrace(t *testing.T, path, host string, pid uint64) {
	t.Helper()
	var buf bytes.Buffer
	if err := trace.WriteMagic(&buf); err != nil {
		t.Fatalf("WriteMagic: %v", err)
	}
	buf.Write(wire.Encode(wire.NewStart(host, 1_700_000_000_000_000_000, pid), nil))
	buf.Write(wire.Encode(wire.NewEndZone(0, 10), nil))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestExportProducesRestorableBundleAndIndex(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	traceA := filepath.Join(srcDir, "a.trace")
	traceB := filepath.Join(srcDir, "b.trace")
	writeTrace(t, traceA, "host-a", 1)
	writeTrace(t, traceB, "host-b", 2)

	fixedNow := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	manifest, bundleDir, err := Export([]string{traceA, traceB}, destDir, "mytrace", func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(manifest.Files) != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", len(manifest.Files))
	}

	reloaded, err := ReadManifest(filepath.Join(bundleDir, "manifest.json"))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(reloaded.Files) != 2 {
		t.Fatalf("expected reloaded manifest to carry 2 files, got %d", len(reloaded.Files))
	}

	index, err := ReadIndex(filepath.Join(bundleDir, indexName))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("expected 2 index entries, got %d", len(index))
	}
	hosts := map[string]uint64{}
	for _, e := range index {
		hosts[e.Host] = e.ProcessID
	}
	if hosts["host-a"] != 1 || hosts["host-b"] != 2 {
		t.Fatalf("unexpected index contents: %+v", index)
	}

	restored := filepath.Join(destDir, "restored-a.trace")
	if err := Restore(bundleDir, reloaded.Files[0], restored); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	original, err := os.ReadFile(traceA)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	roundTripped, err := os.ReadFile(restored)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(original, roundTripped) {
		t.Fatalf("restored bundle contents do not match original file")
	}
}

func TestExportRejectsEmptySourceList(t *testing.T) {
	if _, _, err := Export(nil, t.TempDir(), "label", nil); err == nil {
		t.Fatalf("expected error exporting with no source files")
	}
}

func TestExportSkipsIndexForUnrecognizedSourceFile(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	notATrace := filepath.Join(srcDir, "notrace.bin")
	if err := os.WriteFile(notATrace, []byte("no magic header here"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	manifest, bundleDir, err := Export([]string{notATrace}, destDir, "label", nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(manifest.Files) != 1 {
		t.Fatalf("expected the file to still be bundled, got %d entries", len(manifest.Files))
	}
	if _, err := os.Stat(filepath.Join(bundleDir, indexName)); !os.IsNotExist(err) {
		t.Fatalf("expected no index file when no source yielded a valid Start event, err=%v", err)
	}
}
