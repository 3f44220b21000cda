package dictionary

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the supported dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // word frequency lines
	FormatSnapshot            // msgpack snapshot
)

const (
	snapshotMagic   = "WTRI"
	snapshotVersion = 1
)

// ErrBadSnapshot is returned when a snapshot header does not match.
var ErrBadSnapshot = errors.New("not a dictionary snapshot")

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt"},
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "MessagePack Dictionary Snapshot",
		Extensions:  []string{".msgpack", ".mpk"},
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFormat picks a format from the file extension. Files with no
// known extension are read as text.
func DetectFormat(path string) (FileFormat, error) {
	if path == "" {
		return FormatUnknown, fmt.Errorf("empty dictionary path")
	}
	ext := strings.ToLower(filepath.Ext(path))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format, nil
			}
		}
	}
	return FormatText, nil
}

type snapshotHeader struct {
	Magic   string `msgpack:"magic"`
	Version int    `msgpack:"version"`
	Count   int    `msgpack:"count"`
}

// WriteSnapshot encodes entries as a header followed by one msgpack value per entry.
func WriteSnapshot(w io.Writer, entries []suggest.Entry) error {
	enc := msgpack.NewEncoder(w)
	header := snapshotHeader{Magic: snapshotMagic, Version: snapshotVersion, Count: len(entries)}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return fmt.Errorf("failed to write snapshot entry %q: %w", entries[i].Word, err)
		}
	}
	return nil
}

// LoadSnapshot decodes a snapshot written by WriteSnapshot into sink.
// Entries with an empty word or a negative frequency are skipped.
func LoadSnapshot(r io.Reader, sink Sink) (LoadStats, error) {
	var stats LoadStats
	dec := msgpack.NewDecoder(r)

	var header snapshotHeader
	if err := dec.Decode(&header); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if header.Magic != snapshotMagic {
		return stats, fmt.Errorf("%w: magic %q", ErrBadSnapshot, header.Magic)
	}
	if header.Version != snapshotVersion {
		return stats, fmt.Errorf("unsupported snapshot version %d", header.Version)
	}

	for i := 0; i < header.Count; i++ {
		var e suggest.Entry
		if err := dec.Decode(&e); err != nil {
			return stats, fmt.Errorf("failed to read snapshot entry %d of %d: %w", i+1, header.Count, err)
		}
		if e.Word == "" || e.Frequency < 0 {
			stats.Skipped++
			continue
		}
		sink.AddWord(e.Word, e.Frequency)
		stats.Loaded++
	}
	return stats, nil
}
