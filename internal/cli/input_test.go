package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newCompleter() *suggest.Completer {
	c := suggest.NewCompleter()
	c.AddWord("cat", 10)
	c.AddWord("car", 5)
	c.AddWord("cart", 3)
	c.AddWord("dog", 7)
	return c
}

func run(t *testing.T, c suggest.ICompleter, dictPath string, input ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	h := NewMenuHandler(c, config.DefaultConfig(), dictPath, strings.NewReader(strings.Join(input, "\n")), out)
	require.NoError(t, h.Start())
	return out.String()
}

func TestMenuAutocomplete(t *testing.T) {
	out := run(t, newCompleter(), "", "1", "ca", "6")

	assert.Contains(t, out, "Suggestions for 'ca':")
	catAt := strings.Index(out, "cat")
	carAt := strings.Index(out, "car ")
	cartAt := strings.Index(out, "cart")
	require.True(t, catAt > 0 && carAt > 0 && cartAt > 0)
	assert.Less(t, catAt, carAt)
	assert.Less(t, carAt, cartAt)
	assert.Contains(t, out, "Goodbye!")
}

func TestMenuAutocompleteNoResults(t *testing.T) {
	out := run(t, newCompleter(), "", "1", "xyz")
	assert.Contains(t, out, "No suggestions found")
}

func TestMenuSpellCheck(t *testing.T) {
	out := run(t, newCompleter(), "", "2", "Dog", "2", "cqt")

	assert.Contains(t, out, "Correct spelling!")
	assert.Contains(t, out, "Frequency: 7")
	assert.Contains(t, out, "Not found")
	assert.Contains(t, out, "Did you mean:")
	assert.Contains(t, out, "cat")
}

func TestMenuFilter(t *testing.T) {
	out := run(t, newCompleter(), "", "1", "1234")
	assert.Contains(t, out, "filtered out")
}

func TestMenuAddWordAndSave(t *testing.T) {
	c := newCompleter()
	path := filepath.Join(t.TempDir(), "dict.txt")

	out := run(t, c, path, "3", "Cab 20", "3", "bad", "3", "cow -1", "4", "6")

	assert.Contains(t, out, "Added 'cab' (freq: 20)")
	assert.Contains(t, out, "Expected: <word> <frequency>")
	assert.Contains(t, out, "Invalid frequency: -1")
	assert.Contains(t, out, "Saved 5 words")

	found, freq := c.Lookup("cab")
	assert.True(t, found)
	assert.Equal(t, 20, freq)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cab 20\ncar 5\ncart 3\ncat 10\ndog 7\n", string(data))
}

func TestMenuStatsAndInvalidChoice(t *testing.T) {
	out := run(t, newCompleter(), "", "9", "5")

	assert.Contains(t, out, "Invalid choice")
	assert.Contains(t, out, "totalWords")
	assert.Contains(t, out, "maxFrequency")
}
