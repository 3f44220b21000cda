// Package suggest is the core, providing the trie index, its traversals and
// the edit distance matcher used for did-you-mean suggestions.
package suggest

// ICompleter defines the interface the frontends use to query and grow a dictionary
type ICompleter interface {
	// Complete returns up to limit words starting with prefix, most frequent first
	Complete(prefix string, limit int) []Suggestion

	// Correct returns the word itself when stored, else words within maxDistance edits
	Correct(word string, maxDistance int) []Suggestion

	// Lookup reports whether word is stored and its frequency
	Lookup(word string) (bool, int)

	// AddWord adds a word with its frequency, replacing any previous frequency
	AddWord(word string, frequency int)

	// Increment bumps the frequency of a stored word
	Increment(word string) bool

	// Entries lists every stored word alphabetically, ready for export
	Entries() []Entry

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}
