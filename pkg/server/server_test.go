package server

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/langfilter/pkg/config"
	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
)

func testSet() *languages.Set {
	return languages.FromPairs(
		"en", "English",
		"fr", "French",
		"fy", "Western Frisian",
		"de", "German",
	)
}

type staticAPI struct {
	res *languagefilter.SearchResult
	err error
}

func (a staticAPI) Search(ctx context.Context, query string) (*languagefilter.SearchResult, error) {
	return a.res, a.err
}

// exchange encodes reqs, runs the server over them and decodes every reply.
func exchange(t *testing.T, opts Options, reqs ...Request) []map[string]any {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	opts.Reader = &in
	opts.Writer = &out
	if opts.Load == nil {
		opts.Load = func() (*languages.Set, error) { return testSet(), nil }
	}

	srv, err := NewServer(opts)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	var replies []map[string]any
	dec := msgpack.NewDecoder(&out)
	for out.Len() > 0 {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		replies = append(replies, m)
	}
	require.NotEmpty(t, replies)
	assert.Equal(t, "ready", replies[0]["status"])
	return replies[1:]
}

func codes(t *testing.T, reply map[string]any) []string {
	t.Helper()
	raw, ok := reply["r"].([]any)
	require.True(t, ok, "results missing: %v", reply)
	var out []string
	for _, r := range raw {
		out = append(out, r.(map[string]any)["c"].(string))
	}
	return out
}

func TestSearchRequest(t *testing.T) {
	replies := exchange(t, Options{}, Request{ID: "1", Query: "F"})
	require.Len(t, replies, 1)

	r := replies[0]
	assert.Equal(t, "1", r["id"])
	assert.Equal(t, []string{"fr", "fy"}, codes(t, r))
	assert.Equal(t, "fr", r["sel"])
	assert.Equal(t, "French", r["s"])
	assert.EqualValues(t, 2, r["c"])
}

func TestEmptyQueryListsEverything(t *testing.T) {
	replies := exchange(t, Options{}, Request{ID: "1", Query: "  "})
	r := replies[0]
	assert.Equal(t, []string{"en", "fr", "fy", "de"}, codes(t, r))
	assert.NotContains(t, r, "sel")
	assert.NotContains(t, r, "s")
}

func TestLimitKeepsCount(t *testing.T) {
	replies := exchange(t, Options{}, Request{ID: "1", Query: "", Limit: 2})
	r := replies[0]
	assert.Equal(t, []string{"en", "fr"}, codes(t, r))
	assert.EqualValues(t, 4, r["c"])
}

func TestNoMatches(t *testing.T) {
	replies := exchange(t, Options{}, Request{ID: "1", Query: "zz"})
	r := replies[0]
	assert.Empty(t, codes(t, r))
	assert.EqualValues(t, 0, r["c"])
}

func TestQueryTooLong(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxQuery = 3
	replies := exchange(t, Options{Config: cfg}, Request{ID: "x", Query: "engl"})
	assert.EqualValues(t, 400, replies[0]["c"])
	assert.Contains(t, replies[0]["e"], "3 characters")
}

func TestRemoteResultsWin(t *testing.T) {
	api := staticAPI{res: &languagefilter.SearchResult{
		Query: "deu",
		Entries: []languagefilter.SearchEntry{
			{Code: "xx", Name: "unknown"},
			{Code: "de", Name: "deutsch"},
		},
	}}
	replies := exchange(t, Options{API: api}, Request{ID: "1", Query: "deu"})
	r := replies[0]
	assert.Equal(t, []string{"de"}, codes(t, r))
	assert.Equal(t, "deutsch", r["s"])
	assert.Equal(t, true, r["rm"])
}

func TestRemoteFailureFallsBack(t *testing.T) {
	var logs bytes.Buffer
	api := staticAPI{err: errors.New("down")}
	replies := exchange(t, Options{
		API:    api,
		Logger: log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel}),
	}, Request{ID: "1", Query: "en"})
	assert.Equal(t, []string{"en"}, codes(t, replies[0]))
	assert.Equal(t, "english", replies[0]["s"])
	assert.Contains(t, logs.String(), "remote search failed")
}

func TestActions(t *testing.T) {
	loads := 0
	load := func() (*languages.Set, error) {
		loads++
		if loads == 1 {
			return testSet(), nil
		}
		return languages.FromPairs("sv", "Swedish"), nil
	}
	replies := exchange(t, Options{Load: load, Source: "test"},
		Request{ID: "a", Action: "info"},
		Request{ID: "b", Action: "reload"},
		Request{ID: "c", Query: "s"},
		Request{ID: "d", Action: "health"},
		Request{ID: "e", Action: "dance"},
	)
	require.Len(t, replies, 5)

	assert.EqualValues(t, 4, replies[0]["languages"])
	assert.Equal(t, "test", replies[0]["source"])
	assert.Equal(t, "reloaded", replies[1]["status"])
	assert.EqualValues(t, 1, replies[1]["languages"])
	assert.Equal(t, []string{"sv"}, codes(t, replies[2]))
	assert.Equal(t, "ok", replies[3]["status"])
	assert.EqualValues(t, 400, replies[4]["c"])
}

func TestReloadFailureKeepsCandidates(t *testing.T) {
	loads := 0
	load := func() (*languages.Set, error) {
		loads++
		if loads == 1 {
			return testSet(), nil
		}
		return nil, errors.New("gone")
	}
	replies := exchange(t, Options{Load: load},
		Request{ID: "a", Action: "reload"},
		Request{ID: "b", Query: "de"},
	)
	assert.EqualValues(t, 500, replies[0]["c"])
	assert.Equal(t, []string{"de"}, codes(t, replies[1]))
}

func TestNewServerErrors(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)

	_, err = NewServer(Options{Load: func() (*languages.Set, error) { return languages.New(), nil }})
	assert.ErrorIs(t, err, languagefilter.ErrNoLanguages)
}

func TestMalformedInput(t *testing.T) {
	var out bytes.Buffer
	srv, err := NewServer(Options{
		Load:   func() (*languages.Set, error) { return testSet(), nil },
		Reader: strings.NewReader("\xc1"),
		Writer: &out,
	})
	require.NoError(t, err)
	assert.Error(t, srv.Start(context.Background()))
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "langs.txt")
	require.NoError(t, os.WriteFile(path, []byte("en\tEnglish\n"), 0o644))

	srv, err := NewServer(Options{
		Load:   func() (*languages.Set, error) { return languages.Load(path) },
		Reader: strings.NewReader(""),
		Writer: &bytes.Buffer{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Watch(ctx, path) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("en\tEnglish\nde\tGerman\n"), 0o644))

	assert.Eventually(t, func() bool {
		return srv.current().Languages().Len() == 2
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
