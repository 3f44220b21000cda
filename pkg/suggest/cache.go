package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cachedResult is a ranked completion list for one prefix. When complete is
// false the list was cut at the cache depth and can only answer smaller limits.
type cachedResult struct {
	entries  []Entry
	complete bool
}

// HotCache keeps recent autocomplete results keyed by normalized prefix.
// Keys live in a patricia trie so a changed word can drop every cached
// prefix of itself in one walk.
type HotCache struct {
	results     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	maxEntries  int
	depth       int
	hits        int
	misses      int
	mu          sync.Mutex
}

// NewHotCache creates a cache holding at most maxEntries prefixes, each
// truncated to depth results. A non-positive maxEntries disables caching.
func NewHotCache(maxEntries, depth int) *HotCache {
	return &HotCache{
		results:    patricia.NewTrie(),
		accessTime: make(map[string]int64),
		maxEntries: maxEntries,
		depth:      depth,
	}
}

// Get returns up to limit cached results for prefix.
func (hc *HotCache) Get(prefix string, limit int) ([]Entry, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.results.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return nil, false
	}
	res := item.(*cachedResult)
	if !res.complete && limit > len(res.entries) {
		hc.misses++
		return nil, false
	}

	hc.hits++
	hc.markAccessed(prefix)
	n := min(limit, len(res.entries))
	out := make([]Entry, n)
	copy(out, res.entries[:n])
	return out, true
}

// Put stores a ranked result list for prefix. complete tells whether entries
// holds every match for the prefix.
func (hc *HotCache) Put(prefix string, entries []Entry, complete bool) {
	if hc.maxEntries <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if len(entries) > hc.depth {
		entries = entries[:hc.depth]
		complete = false
	}
	stored := make([]Entry, len(entries))
	copy(stored, entries)

	key := patricia.Prefix(prefix)
	if hc.results.Get(key) == nil && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.results.Set(key, &cachedResult{entries: stored, complete: complete})
	hc.markAccessed(prefix)
}

// Invalidate drops every cached prefix of word, which are exactly the
// result lists a change to word can affect.
func (hc *HotCache) Invalidate(word string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []string
	err := hc.results.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting hot cache prefixes: %v", err)
	}

	for _, key := range stale {
		hc.results.Delete(patricia.Prefix(key))
		delete(hc.accessTime, key)
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached prefixes of '%s'", len(stale), word)
	}
}

// Stats returns cache counters.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": len(hc.accessTime),
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    hc.hits,
		"hotCacheMisses":  hc.misses,
	}
}

func (hc *HotCache) markAccessed(prefix string) {
	hc.accessCount++
	hc.accessTime[prefix] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for prefix, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldest = prefix
		}
	}

	if oldestTime != math.MaxInt64 {
		hc.results.Delete(patricia.Prefix(oldest))
		delete(hc.accessTime, oldest)
		log.Debugf("Evicted prefix '%s' from hot cache", oldest)
	}
}
