package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for dictionary queries
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	dictPath     string
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC.
// dictPath is where the "save" action writes the dictionary.
func NewServer(completer suggest.ICompleter, cfg *config.Config, dictPath string) *Server {
	return NewServerWithIO(completer, cfg, dictPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w.
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, dictPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	writer := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		dictPath:  dictPath,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    writer,
		encoder:   msgpack.NewEncoder(writer),
	}
}

// Start announces readiness and serves requests until the input ends.
// A request that cannot be decoded ends the session with an error.
func (s *Server) Start() error {
	log.Debug("Starting server")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return fmt.Errorf("failed to decode request: %w", err)
		}
		s.requestCount++
		s.handleRequest(request)
	}
}

// handleRequest dispatches on the request action
func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "", ActionComplete:
		s.handleComplete(request)
	case ActionSuggest:
		s.handleSuggest(request)
	case ActionLookup:
		s.handleLookup(request)
	case ActionInsert:
		s.handleInsert(request)
	case ActionIncrement:
		s.handleIncrement(request)
	case ActionSave:
		s.handleSave(request)
	case ActionStats:
		s.sendResponse(StatsResponse{ID: request.ID, Stats: s.completer.Stats()})
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// handleComplete validates the prefix and limit against the server config
// and returns ranked completions.
func (s *Server) handleComplete(request Request) {
	prefix := request.Prefix
	if prefix == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		return
	}
	if len(prefix) < s.config.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix must be at least %d characters", s.config.Server.MinPrefix), 400)
		return
	}
	if len(prefix) > s.config.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.config.Suggest.AutocompleteLimit
	}
	if limit > s.config.Server.MaxLimit {
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	suggestions := s.completer.Complete(prefix, limit)
	elapsed := time.Since(start)

	ranked := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		ranked[i] = CompletionSuggestion{Word: sg.Word, Rank: uint16(i + 1), Frequency: sg.Frequency}
	}
	log.Debugf("Completed '%s' with %d suggestions in %v", prefix, len(ranked), elapsed)

	s.sendResponse(CompletionResponse{
		ID:          request.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleSuggest(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	maxDistance := s.config.Suggest.MaxEditDistance
	if request.MaxDistance != nil {
		maxDistance = *request.MaxDistance
	}
	if maxDistance < 0 {
		s.sendError(request.ID, "Edit distance must not be negative", 400)
		return
	}

	start := time.Now()
	suggestions := s.completer.Correct(request.Word, maxDistance)
	elapsed := time.Since(start)

	found := len(suggestions) > 0 && suggestions[0].Distance == 0
	if limit := s.config.Suggest.MaxSuggestions; limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	out := make([]CorrectionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CorrectionSuggestion{Word: sg.Word, Frequency: sg.Frequency, Distance: sg.Distance}
	}
	s.sendResponse(CorrectionResponse{
		ID:          request.ID,
		Found:       found,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleLookup(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	found, freq := s.completer.Lookup(request.Word)
	s.sendResponse(LookupResponse{ID: request.ID, Found: found, Frequency: freq})
}

func (s *Server) handleInsert(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	// a word with whitespace could not be saved back to a text dictionary
	if strings.ContainsAny(request.Word, " \t\r\n") {
		s.sendError(request.ID, "Word must not contain whitespace", 400)
		return
	}
	if request.Frequency < 0 {
		s.sendError(request.ID, "Frequency must not be negative", 400)
		return
	}
	s.completer.AddWord(request.Word, request.Frequency)
	s.sendDictionaryStatus(request.ID)
}

func (s *Server) handleIncrement(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	if !s.completer.Increment(request.Word) {
		s.sendError(request.ID, fmt.Sprintf("Word not found: %s", request.Word), 404)
		return
	}
	s.sendDictionaryStatus(request.ID)
}

func (s *Server) handleSave(request Request) {
	if s.dictPath == "" {
		s.sendError(request.ID, "No dictionary path configured", 500)
		return
	}
	if err := dictionary.SaveFile(s.dictPath, s.config.Dict.Encoding, s.completer.Entries()); err != nil {
		log.Errorf("Saving dictionary: %v", err)
		s.sendError(request.ID, "Failed to save dictionary", 500)
		return
	}
	s.sendDictionaryStatus(request.ID)
}

func (s *Server) sendDictionaryStatus(id string) {
	s.sendResponse(DictionaryResponse{
		ID:     id,
		Status: "ok",
		Words:  s.completer.Stats()["totalWords"],
	})
}

// sendResponse encodes the response and flushes it so the client sees it immediately.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	log.Debugf("Request %s failed: %s (%d)", id, message, code)
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
