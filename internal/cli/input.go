// Package cli implements the interactive menu for querying and growing the dictionary
package cli

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const menu = `
========================================
1. Autocomplete
2. Spell Checker
3. Add Word
4. Save Dictionary
5. Stats
6. Exit
========================================`

// MenuHandler runs the numbered menu over a line reader, printing results
// through its own logger so output can be captured.
type MenuHandler struct {
	completer    suggest.ICompleter
	config       *config.Config
	dictPath     string
	reader       *bufio.Reader
	out          *log.Logger
	requestCount int
}

// NewMenuHandler creates a menu reading choices from in and writing to out.
// dictPath is the destination of the save option.
func NewMenuHandler(completer suggest.ICompleter, cfg *config.Config, dictPath string, in io.Reader, out io.Writer) *MenuHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &MenuHandler{
		completer: completer,
		config:    cfg,
		dictPath:  dictPath,
		reader:    bufio.NewReader(in),
		out:       logger.NewWithWriter("", out),
	}
}

// Start runs the menu loop until the user exits or the input ends.
func (h *MenuHandler) Start() error {
	h.out.Print("=== Autocomplete & Spell Checker ===")

	for {
		h.out.Print(menu)
		choice, err := h.readLine("Choice:")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			err = h.handleAutocomplete()
		case "2":
			err = h.handleSpellCheck()
		case "3":
			err = h.handleAddWord()
		case "4":
			h.handleSave()
		case "5":
			h.handleStats()
		case "6":
			h.out.Print("Goodbye!")
			return nil
		default:
			h.out.Print("Invalid choice")
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// readLine prints prompt and returns the next trimmed input line.
// A final line without a newline is still returned.
func (h *MenuHandler) readLine(prompt string) (string, error) {
	h.out.Print(prompt)
	line, err := h.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// validate applies the input filter unless it is disabled in config.
func (h *MenuHandler) validate(input string) bool {
	if input == "" {
		h.out.Print("Input is empty")
		return false
	}
	if h.config.CLI.NoFilter {
		log.Debug("Input filtering disabled")
		return true
	}
	if !utils.IsValidInput(input) {
		h.out.Printf("No results for '%s' (filtered out)", input)
		return false
	}
	return true
}

func (h *MenuHandler) handleAutocomplete() error {
	prefix, err := h.readLine("Enter prefix:")
	if err != nil {
		return err
	}
	if !h.validate(prefix) {
		return nil
	}
	h.requestCount++

	start := time.Now()
	suggestions := h.completer.Complete(prefix, h.config.CLI.DefaultLimit)
	elapsed := time.Since(start)

	h.out.Print("--- Results ---")
	if len(suggestions) == 0 {
		h.out.Print("No suggestions found")
	} else {
		h.out.Printf("Suggestions for '%s':", prefix)
		for i, s := range suggestions {
			h.out.Printf("%2d. %-24s (freq: %s)", i+1, s.Word, utils.FormatWithCommas(s.Frequency))
		}
	}
	h.out.Printf("Time: %v", elapsed)
	return nil
}

func (h *MenuHandler) handleSpellCheck() error {
	word, err := h.readLine("Enter word:")
	if err != nil {
		return err
	}
	if !h.validate(word) {
		return nil
	}
	h.requestCount++

	start := time.Now()
	if found, freq := h.completer.Lookup(word); found {
		elapsed := time.Since(start)
		h.out.Print("✓ Correct spelling!")
		h.out.Printf("Frequency: %s", utils.FormatWithCommas(freq))
		h.out.Printf("Time: %v", elapsed)
		return nil
	}

	suggestions := h.completer.Correct(word, h.config.Suggest.MaxEditDistance)
	elapsed := time.Since(start)

	h.out.Print("✗ Not found")
	if len(suggestions) == 0 {
		h.out.Print("No suggestions")
	} else {
		h.out.Print("Did you mean:")
		count := len(suggestions)
		if limit := h.config.Suggest.MaxSuggestions; limit > 0 && count > limit {
			count = limit
		}
		for i, s := range suggestions[:count] {
			h.out.Printf("%2d. %-24s (edits: %d, freq: %s)", i+1, s.Word, s.Distance, utils.FormatWithCommas(s.Frequency))
		}
	}
	h.out.Printf("Time: %v", elapsed)
	return nil
}

func (h *MenuHandler) handleAddWord() error {
	line, err := h.readLine("Enter word and frequency:")
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		h.out.Print("Expected: <word> <frequency>")
		return nil
	}
	freq, err := strconv.Atoi(fields[1])
	if err != nil || freq < 0 {
		h.out.Printf("Invalid frequency: %s", fields[1])
		return nil
	}

	h.completer.AddWord(fields[0], freq)
	h.out.Printf("Added '%s' (freq: %s)", suggest.FoldCase(fields[0]), utils.FormatWithCommas(freq))
	return nil
}

func (h *MenuHandler) handleSave() {
	if h.dictPath == "" {
		h.out.Print("No dictionary path configured")
		return
	}
	entries := h.completer.Entries()
	if err := dictionary.SaveFile(h.dictPath, h.config.Dict.Encoding, entries); err != nil {
		log.Errorf("Failed to save dictionary: %v", err)
		h.out.Print("Save failed")
		return
	}
	h.out.Printf("Saved %s words to %s", utils.FormatWithCommas(len(entries)), h.dictPath)
}

func (h *MenuHandler) handleStats() {
	stats := h.completer.Stats()
	keys := maps.Keys(stats)
	slices.Sort(keys)
	for _, k := range keys {
		h.out.Printf("%-16s %s", k, utils.FormatWithCommas(stats[k]))
	}
	h.out.Printf("%-16s %d", "menuQueries", h.requestCount)
}
