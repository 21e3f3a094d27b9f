package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/langfilter/internal/logger"
	"github.com/bastiangx/langfilter/pkg/config"
	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
)

// Loader produces a fresh candidate set, e.g. by re-reading a file.
type Loader func() (*languages.Set, error)

// Server handles the IPC for language filtering
type Server struct {
	mu     sync.RWMutex
	filter *languagefilter.Filter

	data   languagefilter.LanguageData
	api    languagefilter.SearchAPI
	load   Loader
	source string
	cfg    *config.Config

	reader io.Reader
	writer io.Writer
	wmu    sync.Mutex
	log    *log.Logger
}

// Options configures a Server. Only Load is required.
type Options struct {
	Load   Loader
	Source string
	Data   languagefilter.LanguageData
	API    languagefilter.SearchAPI
	Config *config.Config
	Reader io.Reader
	Writer io.Writer
	Logger *log.Logger
}

// NewServer creates a server and loads the initial candidates.
// Reader and Writer default to stdin and stdout.
func NewServer(opts Options) (*Server, error) {
	if opts.Load == nil {
		return nil, errors.New("server: no language loader")
	}
	s := &Server{
		data:   opts.Data,
		api:    opts.API,
		load:   opts.Load,
		source: opts.Source,
		cfg:    opts.Config,
		reader: opts.Reader,
		writer: opts.Writer,
		log:    opts.Logger,
	}
	if s.log == nil {
		s.log = logger.Default("server")
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.reader == nil {
		s.reader = os.Stdin
	}
	if s.writer == nil {
		s.writer = os.Stdout
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the filter from the loader. On error the old candidates stay.
func (s *Server) Reload() error {
	set, err := s.load()
	if err != nil {
		return fmt.Errorf("load languages: %w", err)
	}
	if set.Len() == 0 {
		return languagefilter.ErrNoLanguages
	}
	filter := languagefilter.NewFilter(set, s.data)

	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	s.log.Debugf("Serving %d languages from %s", set.Len(), s.source)
	return nil
}

func (s *Server) current() *languagefilter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Start reads requests until the reader is exhausted or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")
	s.send(InfoResponse{Status: "ready"})

	dec := msgpack.NewDecoder(s.reader)
	for {
		if ctx.Err() != nil {
			return nil
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.send(s.handle(ctx, req))
	}
}

func (s *Server) handle(ctx context.Context, req Request) any {
	switch req.Action {
	case "", "search":
		return s.handleSearch(ctx, req)
	case "reload":
		if err := s.Reload(); err != nil {
			s.log.Warnf("Reload failed: %v", err)
			return ErrorResponse{ID: req.ID, Error: err.Error(), Code: 500}
		}
		return s.info(req.ID, "reloaded")
	case "info":
		return s.info(req.ID, "ok")
	case "health":
		return InfoResponse{ID: req.ID, Status: "ok"}
	default:
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 400}
	}
}

func (s *Server) info(id, status string) InfoResponse {
	return InfoResponse{
		ID:        id,
		Status:    status,
		Languages: s.current().Languages().Len(),
		Source:    s.source,
		Remote:    s.api != nil,
	}
}

func (s *Server) handleSearch(ctx context.Context, req Request) any {
	if limit := s.cfg.Server.MaxQuery; utf8.RuneCountInString(req.Query) > limit {
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("query exceeds %d characters", limit), Code: 400}
	}

	start := time.Now()
	filter := s.current()
	out := s.search(ctx, filter, req.Query)

	resp := SearchResponse{
		ID:      req.ID,
		Results: make([]LanguageResult, 0, len(out.Codes)),
		Count:   len(out.Codes),
		Remote:  out.Remote,
	}
	if out.Query != "" && len(out.Codes) > 0 {
		resp.Selected = out.Codes[0]
		resp.Suggestion = filter.Autofill(req.Query, out.Codes[0], out.Label)
	}

	codes := out.Codes
	if req.Limit > 0 && len(codes) > req.Limit {
		codes = codes[:req.Limit]
	}
	for _, code := range codes {
		name, _ := filter.Languages().Name(code)
		resp.Results = append(resp.Results, LanguageResult{Code: code, Name: name})
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// search runs one synchronous search: local matching, then the remote API
// when there is one and the query is not empty.
func (s *Server) search(ctx context.Context, filter *languagefilter.Filter, input string) languagefilter.Outcome {
	query := normalize(input)
	local := filter.Local(query)
	if query == "" || s.api == nil {
		return languagefilter.Outcome{Query: query, Codes: local}
	}
	res, err := s.api.Search(ctx, query)
	if err != nil {
		s.log.Debug("remote search failed, using local results", "query", query, "err", err)
	}
	return filter.Resolve(query, local, res, err)
}

// send marshals the given response into msgpack and writes it to the client.
func (s *Server) send(response any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := msgpack.NewEncoder(s.writer).Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// Watch reloads the candidates whenever path changes, until ctx is done.
// The parent directory is watched so editors that replace the file by
// renaming are noticed too.
func (s *Server) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.log.Debugf("Watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warnf("Reload after change failed: %v", err)
				continue
			}
			s.log.Infof("Reloaded %s", target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warnf("Watcher error: %v", err)
		}
	}
}
