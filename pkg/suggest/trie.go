package suggest

import (
	"cmp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Entry is a stored word together with its usage frequency.
type Entry struct {
	Word      string `msgpack:"w" json:"word"`
	Frequency int    `msgpack:"f" json:"frequency"`
}

// Match is a fuzzy suggestion candidate and its edit distance from the query.
type Match struct {
	Entry
	Distance int
}

// trieNode owns its children outright; nothing else holds a reference to them.
type trieNode struct {
	children  map[byte]*trieNode
	terminal  bool
	frequency int
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// sortedKeys returns the child labels in ascending byte order so traversals are reproducible.
func (n *trieNode) sortedKeys() []byte {
	keys := maps.Keys(n.children)
	slices.Sort(keys)
	return keys
}

// PrefixIndex is a case-insensitive trie of words with per-word frequencies.
// It is not safe for concurrent mutation; callers serialize access.
type PrefixIndex struct {
	root  *trieNode
	words int
}

// NewPrefixIndex creates an empty index.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{root: newTrieNode()}
}

// Len returns the number of stored words.
func (t *PrefixIndex) Len() int {
	return t.words
}

// Insert stores word with the given frequency. Re-inserting a word replaces
// its frequency. Empty words are ignored and negative frequencies become 0.
func (t *PrefixIndex) Insert(word string, frequency int) {
	if word == "" {
		return
	}
	if frequency < 0 {
		frequency = 0
	}

	current := t.root
	for i := 0; i < len(word); i++ {
		c := foldByte(word[i])
		next, ok := current.children[c]
		if !ok {
			next = newTrieNode()
			current.children[c] = next
		}
		current = next
	}

	if !current.terminal {
		t.words++
	}
	current.terminal = true
	current.frequency = frequency
}

// walk follows word from the root and returns the last node, or nil when the path breaks off.
func (t *PrefixIndex) walk(word string) *trieNode {
	current := t.root
	for i := 0; i < len(word); i++ {
		next, ok := current.children[foldByte(word[i])]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// Search reports whether word itself is stored.
func (t *PrefixIndex) Search(word string) bool {
	if word == "" {
		return false
	}
	node := t.walk(word)
	return node != nil && node.terminal
}

// StartsWith reports whether any path spells prefix. The empty prefix always matches.
func (t *PrefixIndex) StartsWith(prefix string) bool {
	return t.walk(prefix) != nil
}

// Frequency returns the stored frequency of word, or 0 if it is not stored.
func (t *PrefixIndex) Frequency(word string) int {
	if word == "" {
		return 0
	}
	node := t.walk(word)
	if node == nil || !node.terminal {
		return 0
	}
	return node.frequency
}

// IncrementFrequency bumps the frequency of a stored word by one.
// Unknown words are not inserted; the return value reports whether anything changed.
func (t *PrefixIndex) IncrementFrequency(word string) bool {
	if word == "" {
		return false
	}
	node := t.walk(word)
	if node == nil || !node.terminal {
		return false
	}
	node.frequency++
	return true
}

// Autocomplete returns up to k stored words starting with prefix, most frequent first.
func (t *PrefixIndex) Autocomplete(prefix string, k int) []string {
	return words(t.Complete(prefix, k))
}

// Complete is Autocomplete keeping the frequencies. Equal frequencies are
// ordered alphabetically.
func (t *PrefixIndex) Complete(prefix string, k int) []Entry {
	if prefix == "" || k <= 0 {
		return []Entry{}
	}
	node := t.walk(prefix)
	if node == nil {
		return []Entry{}
	}

	results := collect(node, FoldCase(prefix))
	slices.SortFunc(results, byFrequency)
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Suggestions returns stored words within maxDistance edits of word, closest first.
// A stored word short-circuits to itself.
func (t *PrefixIndex) Suggestions(word string, maxDistance int) []string {
	matches := t.Matches(word, maxDistance)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Word
	}
	return out
}

// Matches is Suggestions keeping frequencies and distances. Every stored
// word is compared against the query, so cost grows with the corpus.
func (t *PrefixIndex) Matches(word string, maxDistance int) []Match {
	if word == "" {
		return []Match{}
	}
	query := FoldCase(word)

	if node := t.walk(query); node != nil && node.terminal {
		return []Match{{Entry: Entry{Word: query, Frequency: node.frequency}}}
	}

	var matches []Match
	for _, e := range collect(t.root, "") {
		d := Distance(query, e.Word)
		if d <= maxDistance {
			matches = append(matches, Match{Entry: e, Distance: d})
		}
	}
	if matches == nil {
		return []Match{}
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return byFrequency(a.Entry, b.Entry)
	})
	return matches
}

// Entries returns every stored word with its frequency in alphabetical order.
func (t *PrefixIndex) Entries() []Entry {
	results := collect(t.root, "")
	slices.SortFunc(results, func(a, b Entry) int {
		return cmp.Compare(a.Word, b.Word)
	})
	return results
}

type frame struct {
	node  *trieNode
	depth int
	label byte
}

// collect gathers every terminal node below start. It walks with an explicit
// stack and one shared path buffer so long words cannot exhaust the call stack.
func collect(start *trieNode, prefix string) []Entry {
	results := []Entry{}
	path := []byte(prefix)
	base := len(path)
	stack := []frame{{node: start, depth: base}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// the parent of a popped node is always the last node visited one level up
		if top.depth > base {
			path = append(path[:top.depth-1], top.label)
		}
		if top.node.terminal {
			results = append(results, Entry{Word: string(path[:top.depth]), Frequency: top.node.frequency})
		}

		keys := top.node.sortedKeys()
		// push in reverse so the smallest label is popped first
		for i := len(keys) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:  top.node.children[keys[i]],
				depth: top.depth + 1,
				label: keys[i],
			})
		}
	}
	return results
}

func byFrequency(a, b Entry) int {
	if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
		return c
	}
	return cmp.Compare(a.Word, b.Word)
}

func words(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

// FoldCase lower-cases ASCII letters only. Other bytes pass through unchanged.
func FoldCase(s string) string {
	for i := 0; i < len(s); i++ {
		if isUpper(s[i]) {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				b[j] = foldByte(b[j])
			}
			return string(b)
		}
	}
	return s
}

func foldByte(c byte) byte {
	if isUpper(c) {
		return c + 'a' - 'A'
	}
	return c
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}
