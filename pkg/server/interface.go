/*
Package server implements msgpack IPC for the dictionary index.

The server reads a stream of msgpack encoded requests from stdin and writes one
msgpack response per request to stdout. Requests are processed synchronously in
arrival order, with timing info included in query responses.

# IPC

Every request carries an ID echoed back in its response and an action
selecting the operation. An empty action means completion:

	{"id": "req_001", "p": "ame", "l": 5}

The server responds with suggestions ranked by frequency:

	{"id": "req_001", "s": [{"w": "america", "r": 1, "f": 912}, {"w": "amen", "r": 2, "f": 40}], "c": 2, "t": 145}

Did-you-mean suggestions for a misspelled word, within "d" edits:

	{"id": "req_002", "action": "suggest", "w": "amercia", "d": 2}
	{"id": "req_002", "found": false, "s": [{"w": "america", "f": 912, "d": 2}], "c": 1, "t": 3021}

Other actions: "lookup", "insert" (w, f), "increment" (w), "save", "stats" and "health".

Failures are reported as:

	{"id": "req_003", "e": "Missing 'w' parameter", "c": 400}
*/
package server

const (
	ActionComplete  = "complete"
	ActionSuggest   = "suggest"
	ActionLookup    = "lookup"
	ActionInsert    = "insert"
	ActionIncrement = "increment"
	ActionSave      = "save"
	ActionStats     = "stats"
	ActionHealth    = "health"
)

// Request is the single request shape; fields not used by an action are ignored.
type Request struct {
	ID          string `msgpack:"id"`
	Action      string `msgpack:"action,omitempty"`
	Prefix      string `msgpack:"p,omitempty"`
	Word        string `msgpack:"w,omitempty"`
	Limit       int    `msgpack:"l,omitempty"`
	MaxDistance *int   `msgpack:"d,omitempty"`
	Frequency   int    `msgpack:"f,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word      string `msgpack:"w"`
	Rank      uint16 `msgpack:"r"`
	Frequency int    `msgpack:"f"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// CorrectionSuggestion - did-you-mean candidate
type CorrectionSuggestion struct {
	Word      string `msgpack:"w"`
	Frequency int    `msgpack:"f"`
	Distance  int    `msgpack:"d"`
}

// CorrectionResponse - suggest response; Found is set when the word itself is stored
type CorrectionResponse struct {
	ID          string                 `msgpack:"id"`
	Found       bool                   `msgpack:"found"`
	Suggestions []CorrectionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// LookupResponse - exact lookup response
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Found     bool   `msgpack:"found"`
	Frequency int    `msgpack:"f"`
}

// DictionaryResponse - response to insert, increment and save
type DictionaryResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Words  int    `msgpack:"words"`
}

// StatsResponse - index and cache counters
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse - readiness and health replies
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
