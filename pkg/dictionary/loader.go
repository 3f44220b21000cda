// Package dictionary reads and writes word/frequency corpora for the suggest index.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Sink receives validated (word, frequency) pairs, one call per pair.
type Sink interface {
	AddWord(word string, frequency int)
}

// LoadStats summarizes a load.
type LoadStats struct {
	Loaded  int
	Skipped int
}

const maxLineSize = 1024 * 1024

// LoadText parses `word frequency` lines from r into sink. Blank lines are
// ignored; lines without a word followed by a non-negative integer are
// skipped and counted. Fields after the frequency are ignored.
func LoadText(r io.Reader, sink Sink) (LoadStats, error) {
	var stats LoadStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, freq, ok := parseLine(line)
		if !ok {
			stats.Skipped++
			log.Debugf("Skipping malformed line %d: %q", lineNo, line)
			continue
		}
		sink.AddWord(word, freq)
		stats.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read dictionary at line %d: %w", lineNo+1, err)
	}
	return stats, nil
}

func parseLine(line string) (string, int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, false
	}
	freq, err := strconv.Atoi(fields[1])
	if err != nil || freq < 0 {
		return "", 0, false
	}
	return fields[0], freq, true
}

// WriteText writes one `word frequency` line per entry in the order given.
func WriteText(w io.Writer, entries []suggest.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s %d\n", e.Word, e.Frequency); err != nil {
			return fmt.Errorf("failed to write entry %q: %w", e.Word, err)
		}
	}
	return bw.Flush()
}

// LoadFile loads a dictionary file into sink, picking the reader from the
// file extension. encoding applies to text files: "latin1" decodes
// ISO-8859-1 sources, anything else reads the bytes as they are.
func LoadFile(path, encoding string, sink Sink) (LoadStats, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return LoadStats{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	var stats LoadStats
	switch format {
	case FormatSnapshot:
		stats, err = LoadSnapshot(file, sink)
	default:
		var r io.Reader = file
		if isLatin1(encoding) {
			r = charmap.ISO8859_1.NewDecoder().Reader(file)
		}
		stats, err = LoadText(r, sink)
	}
	if err != nil {
		return stats, err
	}

	log.Debugf("Loaded %d words from %s (%d lines skipped)", stats.Loaded, path, stats.Skipped)
	return stats, nil
}

// SaveFile writes entries to path, replacing any existing file only once
// the write has fully succeeded. The format follows the file extension and
// encoding is applied to text files the same way LoadFile reads them, so a
// Latin-1 dictionary stays Latin-1. Words that Latin-1 cannot represent fail
// the save.
func SaveFile(path, encoding string, entries []suggest.Entry) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	err = utils.WriteFileAtomic(path, func(w io.Writer) error {
		if format == FormatSnapshot {
			return WriteSnapshot(w, entries)
		}
		if !isLatin1(encoding) {
			return WriteText(w, entries)
		}
		enc := transform.NewWriter(w, charmap.ISO8859_1.NewEncoder())
		if err := WriteText(enc, entries); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to save dictionary %s: %w", path, err)
	}

	log.Debugf("Saved %d words to %s", len(entries), path)
	return nil
}

func isLatin1(encoding string) bool {
	switch strings.ToLower(encoding) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return true
	}
	return false
}
