// Package trace implements the file framing and lazy stream-reading layer
// that sits between raw trace files and the wire codec.
package trace

import (
	"bytes"
	"fmt"
	"io"
)

// Magic is the 12-byte literal header every trace file begins with.
var Magic = []byte("TRCYPLAY\x01\x00\x00\x00")

// HasMagic reports whether header holds the 12-byte literal, for callers
// that already read the candidate bytes themselves; ReadMagic consumes
// and validates it from a reader in one step.
func HasMagic(header []byte) bool {
	return bytes.Equal(header, Magic)
}

// WriteMagic writes the literal header to w.
func WriteMagic(w io.Writer) error {
	_, err := w.Write(Magic)
	return err
}

// ReadMagic consumes and validates the 12-byte header from r, returning an
// error if the stream is too short or the header does not match.
func ReadMagic(r io.Reader) error {
	buf := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read magic header: %w", err)
	}
	if !HasMagic(buf) {
		return fmt.Errorf("bad magic header: %x", buf)
	}
	return nil
}
