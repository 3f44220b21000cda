package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Suggestion is a single result handed to the frontends.
type Suggestion struct {
	Word         string
	Frequency    int
	Distance     int  `json:",omitempty"`
	WasCorrected bool `json:",omitempty"`
}

// Completer wraps a PrefixIndex with a result cache and bookkeeping.
// Its methods are safe to call from several goroutines; writers take the
// lock exclusively.
type Completer struct {
	index        *PrefixIndex
	hotCache     *HotCache
	maxFrequency int
	mu           sync.RWMutex
}

// NewCompleter creates a completer without a result cache.
func NewCompleter() *Completer {
	return &Completer{index: NewPrefixIndex()}
}

// NewCachedCompleter creates a completer that caches up to cacheSize prefixes,
// keeping the top depth results of each.
func NewCachedCompleter(cacheSize, depth int) *Completer {
	c := NewCompleter()
	if cacheSize > 0 && depth > 0 {
		c.hotCache = NewHotCache(cacheSize, depth)
	}
	return c
}

// Index exposes the underlying trie. Access through it bypasses the lock.
func (c *Completer) Index() *PrefixIndex {
	return c.index
}

// AddWord inserts or replaces word.
func (c *Completer) AddWord(word string, frequency int) {
	if word == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Insert(word, frequency)
	if frequency > c.maxFrequency {
		c.maxFrequency = frequency
	}
	if c.hotCache != nil {
		c.hotCache.Invalidate(FoldCase(word))
	}
}

// Complete returns the limit most frequent words starting with prefix.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	if prefix == "" || limit <= 0 {
		return []Suggestion{}
	}
	lowerPrefix := FoldCase(prefix)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.hotCache != nil {
		if entries, ok := c.hotCache.Get(lowerPrefix, limit); ok {
			log.Debugf("Hot cache hit for prefix '%s'", lowerPrefix)
			return toSuggestions(entries)
		}
	}

	if c.hotCache == nil {
		return toSuggestions(c.index.Complete(lowerPrefix, limit))
	}

	// fetch deep enough to fill the cache, then trim to what was asked
	depth := max(limit, c.hotCache.depth)
	entries := c.index.Complete(lowerPrefix, depth)
	c.hotCache.Put(lowerPrefix, entries, len(entries) < depth)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return toSuggestions(entries)
}

// Correct returns did-you-mean candidates for word.
func (c *Completer) Correct(word string, maxDistance int) []Suggestion {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := c.index.Matches(word, maxDistance)
	out := make([]Suggestion, len(matches))
	for i, m := range matches {
		out[i] = Suggestion{
			Word:         m.Word,
			Frequency:    m.Frequency,
			Distance:     m.Distance,
			WasCorrected: m.Distance > 0,
		}
	}
	log.Debugf("Found %d candidates within %d edits of '%s'", len(out), maxDistance, word)
	return out
}

// Lookup reports whether word is stored along with its frequency.
func (c *Completer) Lookup(word string) (bool, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.index.Search(word) {
		return false, 0
	}
	return true, c.index.Frequency(word)
}

// Increment bumps a stored word's frequency by one.
func (c *Completer) Increment(word string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.index.IncrementFrequency(word) {
		return false
	}
	if freq := c.index.Frequency(word); freq > c.maxFrequency {
		c.maxFrequency = freq
	}
	if c.hotCache != nil {
		c.hotCache.Invalidate(FoldCase(word))
	}
	return true
}

// Entries returns all stored words alphabetically.
func (c *Completer) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.Entries()
}

// Stats returns dictionary and cache counters.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]int{
		"totalWords":   c.index.Len(),
		"maxFrequency": c.maxFrequency,
	}

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

func toSuggestions(entries []Entry) []Suggestion {
	out := make([]Suggestion, len(entries))
	for i, e := range entries {
		out[i] = Suggestion{Word: e.Word, Frequency: e.Frequency}
	}
	return out
}
