package searchapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/langfilter/internal/logger"
	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
)

func newTestClient(t *testing.T, srv *httptest.Server, path string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(srv.Client()), WithLogger(logger.Discard())}, opts...)
	c, err := New(srv.URL+path, opts...)
	require.NoError(t, err)
	return c
}

func TestSearchKeepsServerOrder(t *testing.T) {
	var gotQuery, gotAction string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search")
		gotAction = r.URL.Query().Get("action")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"languagesearch":{"zu":"isiZulu","fr":"français","en":"English","de":"Deutsch"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "/w/api.php?action=languagesearch&format=json")
	res, err := c.Search(context.Background(), "fr ench")
	require.NoError(t, err)

	assert.Equal(t, "fr ench", gotQuery)
	assert.Equal(t, "languagesearch", gotAction, "existing parameters are kept")
	assert.Equal(t, "fr ench", res.Query)
	assert.Equal(t, []languagefilter.SearchEntry{
		{Code: "zu", Name: "isiZulu"},
		{Code: "fr", Name: "français"},
		{Code: "en", Name: "English"},
		{Code: "de", Name: "Deutsch"},
	}, res.Entries)
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").Search(context.Background(), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSearchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv, "", WithTimeout(20*time.Millisecond))
	_, err := c.Search(context.Background(), "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestSearchCallerCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"languagesearch":{}}`))
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "en")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentSearchesShareRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"languagesearch":{"en":"English"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")

	var wg sync.WaitGroup
	results := make([]*languagefilter.SearchResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Search(context.Background(), "en")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	assert.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, "en", res.Entries[0].Code)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"object", `{"languagesearch":{"en":"English","fr":"French"}}`, 2, false},
		{"empty object", `{"languagesearch":{}}`, 0, false},
		{"empty array", `{"languagesearch":[]}`, 0, false},
		{"missing field", `{"error":{"code":"badvalue"}}`, 0, true},
		{"wrong type", `{"languagesearch":"en"}`, 0, true},
		{"not json", `<html>`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse("q", []byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Len(t, res.Entries, tt.want)
		})
	}
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://example.org", "http://", "::"} {
		_, err := New(endpoint)
		assert.Error(t, err, endpoint)
	}
}

// The client plugs straight into a widget; a failing endpoint still
// leaves the local results.
func TestWidgetFallsBackWhenEndpointFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	input := languagefilter.NewTextField("")
	list := &languagefilter.ResultList{}
	w, err := languagefilter.New(languagefilter.Config{
		Input:     input,
		Languages: languages.FromPairs("en", "English", "fr", "French"),
		Target:    list,
		SearchAPI: newTestClient(t, srv, ""),
		Logger:    logger.Discard(),
	})
	require.NoError(t, err)
	defer w.Close()

	list.Empty()
	input.SetValue("fr")
	w.Search()
	w.Wait()

	assert.Equal(t, []string{"fr"}, list.Codes())
}
