package server

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.ErrorLevel)
	goleak.VerifyTestMain(m)
}

func newCompleter() *suggest.Completer {
	c := suggest.NewCachedCompleter(16, 8)
	c.AddWord("cat", 10)
	c.AddWord("car", 5)
	c.AddWord("cart", 3)
	c.AddWord("dog", 7)
	return c
}

// session encodes requests, runs the server over them and returns a decoder
// positioned after the ready message.
func session(t *testing.T, srv func(in, out *bytes.Buffer) *Server, requests ...any) (*msgpack.Decoder, error) {
	t.Helper()
	in := &bytes.Buffer{}
	enc := msgpack.NewEncoder(in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	out := &bytes.Buffer{}
	err := srv(in, out).Start()

	dec := msgpack.NewDecoder(out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec, err
}

func defaultServer(c suggest.ICompleter, dictPath string) func(in, out *bytes.Buffer) *Server {
	return func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(c, config.DefaultConfig(), dictPath, in, out)
	}
}

func intPtr(v int) *int { return &v }

func TestServerComplete(t *testing.T) {
	dec, err := session(t, defaultServer(newCompleter(), ""),
		Request{ID: "1", Prefix: "CA", Limit: 5},
		Request{ID: "2", Action: ActionComplete, Prefix: "ca", Limit: 1},
		Request{ID: "3", Prefix: "zz"},
	)
	require.NoError(t, err)

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, []CompletionSuggestion{
		{Word: "cat", Rank: 1, Frequency: 10},
		{Word: "car", Rank: 2, Frequency: 5},
		{Word: "cart", Rank: 3, Frequency: 3},
	}, resp.Suggestions)

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, []CompletionSuggestion{{Word: "cat", Rank: 1, Frequency: 10}}, resp.Suggestions)

	resp = CompletionResponse{}
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "3", resp.ID)
	assert.Equal(t, 0, resp.Count)
}

func TestServerCompleteValidation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinPrefix = 2
	cfg.Server.MaxPrefix = 4
	srv := func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(newCompleter(), cfg, "", in, out)
	}

	dec, err := session(t, srv,
		Request{ID: "empty"},
		Request{ID: "short", Prefix: "c"},
		Request{ID: "long", Prefix: "caterpillar"},
	)
	require.NoError(t, err)

	for _, id := range []string{"empty", "short", "long"} {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, 400, resp.Code)
		assert.NotEmpty(t, resp.Error)
	}
}

func TestServerSuggest(t *testing.T) {
	dec, err := session(t, defaultServer(newCompleter(), ""),
		Request{ID: "1", Action: ActionSuggest, Word: "cqt", MaxDistance: intPtr(1)},
		Request{ID: "2", Action: ActionSuggest, Word: "Dog"},
		Request{ID: "3", Action: ActionSuggest, Word: "cat", MaxDistance: intPtr(-1)},
	)
	require.NoError(t, err)

	var resp CorrectionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.False(t, resp.Found)
	assert.Equal(t, []CorrectionSuggestion{{Word: "cat", Frequency: 10, Distance: 1}}, resp.Suggestions)

	resp = CorrectionResponse{}
	require.NoError(t, dec.Decode(&resp))
	assert.True(t, resp.Found)
	assert.Equal(t, []CorrectionSuggestion{{Word: "dog", Frequency: 7}}, resp.Suggestions)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, 400, errResp.Code)
}

func TestServerMutations(t *testing.T) {
	c := newCompleter()
	dec, err := session(t, defaultServer(c, ""),
		Request{ID: "1", Action: ActionInsert, Word: "Cab", Frequency: 20},
		Request{ID: "2", Action: ActionIncrement, Word: "cab"},
		Request{ID: "3", Action: ActionIncrement, Word: "cow"},
		Request{ID: "4", Action: ActionInsert, Word: "two words", Frequency: 1},
		Request{ID: "5", Action: ActionLookup, Word: "CAB"},
		Request{ID: "6", Action: ActionSave},
	)
	require.NoError(t, err)

	var status DictionaryResponse
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, DictionaryResponse{ID: "1", Status: "ok", Words: 5}, status)
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, "2", status.ID)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, ErrorResponse{ID: "3", Error: "Word not found: cow", Code: 404}, errResp)
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, 400, errResp.Code)

	var lookup LookupResponse
	require.NoError(t, dec.Decode(&lookup))
	assert.Equal(t, LookupResponse{ID: "5", Found: true, Frequency: 21}, lookup)

	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "6", errResp.ID)
	assert.Equal(t, 500, errResp.Code)

	assert.Equal(t, "cab", c.Complete("ca", 1)[0].Word)
}

func TestServerSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	dec, err := session(t, defaultServer(newCompleter(), path),
		Request{ID: "save", Action: ActionSave},
	)
	require.NoError(t, err)

	var status DictionaryResponse
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, "ok", status.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "car 5\ncart 3\ncat 10\ndog 7\n", string(data))

	reloaded := suggest.NewCompleter()
	_, err = dictionary.LoadFile(path, "", reloaded)
	require.NoError(t, err)
	assert.Equal(t, newCompleter().Entries(), reloaded.Entries())
}

func TestServerSaveKeepsEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.txt")
	c := suggest.NewCompleter()
	c.AddWord("café", 4)

	cfg := config.DefaultConfig()
	cfg.Dict.Encoding = "latin1"
	srv := func(in, out *bytes.Buffer) *Server {
		return NewServerWithIO(c, cfg, path, in, out)
	}
	dec, err := session(t, srv, Request{ID: "save", Action: ActionSave})
	require.NoError(t, err)

	var status DictionaryResponse
	require.NoError(t, dec.Decode(&status))
	assert.Equal(t, "ok", status.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "caf\xe9 4\n", string(data))

	reloaded := suggest.NewCompleter()
	_, err = dictionary.LoadFile(path, "latin1", reloaded)
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), reloaded.Entries())
}

func TestServerStatsHealthUnknown(t *testing.T) {
	dec, err := session(t, defaultServer(newCompleter(), ""),
		Request{ID: "s", Action: ActionStats},
		Request{ID: "h", Action: ActionHealth},
		Request{ID: "u", Action: "dance"},
	)
	require.NoError(t, err)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, 4, stats.Stats["totalWords"])

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, StatusResponse{ID: "h", Status: "ok"}, health)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, ErrorResponse{ID: "u", Error: "Unknown action: dance", Code: 400}, errResp)
}

func TestServerInvalidInput(t *testing.T) {
	in := bytes.NewBuffer([]byte{0xc1})
	out := &bytes.Buffer{}

	err := NewServerWithIO(newCompleter(), nil, "", in, out).Start()
	assert.Error(t, err)

	dec := msgpack.NewDecoder(out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, 400, errResp.Code)
}
