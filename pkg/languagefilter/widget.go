/*
Package languagefilter implements a filter-as-you-type language picker input.

A Widget is attached to one text input. Every printable keystroke clears the
current selection and re-arms a debounce timer; when the input has been quiet
for the delay, the widget searches the candidate languages:

	w, err := languagefilter.New(languagefilter.Config{
		Input:      input,
		Suggestion: ghost,
		Languages:  languages.FromPairs("en", "English", "fr", "Français"),
		Target:     list,
		Listener:   func(e languagefilter.Event) { ... },
		OnSelect:   func(code string) { ... },
	})

A candidate matches when the query is a case-insensitive prefix of its
display name, its autonym, its code or its script code. With a SearchAPI
configured the remote results replace the local ones; if the request fails
the local results are used.

The top result of a non-empty query becomes the selected language, and its
name completes the typed text in the suggestion field. Tab accepts the
suggestion, Enter confirms the selection through OnSelect.

# Goroutines

Widget methods must be called from one goroutine, the host's UI loop.
Debounce timers and remote searches finish on other goroutines and hand
their work back through Config.Dispatch, so a UI loop that can run
functions (bubbletea, GTK idle callbacks) should provide one. Without it
every exported method and every callback takes a widget mutex, so the
widget may then be used from any goroutine, but Listener and OnSelect must
not call back into it.
*/
package languagefilter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/langfilter/internal/logger"
	"github.com/bastiangx/langfilter/pkg/languages"
)

var (
	ErrNoInput     = errors.New("languagefilter: no input element")
	ErrNoLanguages = errors.New("languagefilter: no languages")
)

// Input is the text element the user types into.
type Input interface {
	Value() string
	SetValue(string)
	Focus()
}

// Field holds the rendered autofill suggestion.
type Field interface {
	Value() string
	SetValue(string)
}

// ClearControl is the button that empties the input.
type ClearControl interface {
	Show()
	Hide()
}

// Target renders results, one code at a time.
type Target interface {
	Append(code string)
}

// Emptier is implemented by targets that can drop rendered results.
type Emptier interface {
	Empty()
}

// Config wires a widget to its host. Input and Languages are required;
// everything else is optional and off when zero.
type Config struct {
	Input     Input
	Languages *languages.Set

	Target    Target
	SearchAPI SearchAPI
	OnSelect  func(code string)

	Suggestion Field
	Clear      ClearControl
	Data       LanguageData
	IsMobile   func() bool
	Listener   Listener

	// Delay defaults to DefaultDelay.
	Delay    time.Duration
	Clock    Clock
	Dispatch func(func())
	Logger   *log.Logger
}

// Widget is a language filter bound to one input.
type Widget struct {
	cfg      Config
	filter   *Filter
	debounce *Debouncer
	dispatch func(func())
	log      *log.Logger

	// mu guards all state below when the host gives no Dispatch
	mu       sync.Mutex
	locked   bool
	selected string

	ctx      context.Context
	stop     context.CancelFunc
	gen      atomic.Uint64
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

// New builds a widget and runs the initial, unfiltered search.
func New(cfg Config) (*Widget, error) {
	if cfg.Input == nil {
		return nil, ErrNoInput
	}
	if cfg.Languages == nil || cfg.Languages.Len() == 0 {
		return nil, ErrNoLanguages
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default("languagefilter")
	}

	w := &Widget{
		cfg:      cfg,
		filter:   NewFilter(cfg.Languages, cfg.Data),
		debounce: NewDebouncer(cfg.Clock, cfg.Delay),
		log:      cfg.Logger,
	}
	w.dispatch = cfg.Dispatch
	if w.dispatch == nil {
		w.locked = true
		w.dispatch = w.serialize
	}
	w.ctx, w.stop = context.WithCancel(context.Background())

	unlock := w.guard()
	w.search()
	w.toggleClear()
	unlock()
	return w, nil
}

func (w *Widget) serialize(f func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f()
}

// guard locks mu when the widget serializes itself and returns the unlock.
// Unexported methods assume the caller holds it.
func (w *Widget) guard() func() {
	if !w.locked {
		return func() {}
	}
	w.mu.Lock()
	return w.mu.Unlock
}

// Filter returns the matcher behind the widget.
func (w *Widget) Filter() *Filter {
	return w.filter
}

// SelectedLanguage returns the language Enter would confirm, or "".
func (w *Widget) SelectedLanguage() string {
	defer w.guard()()
	return w.selected
}

// Pending reports whether a debounced search is waiting to run.
func (w *Widget) Pending() bool {
	return w.debounce.Pending()
}

// Suggestion returns the current autofill text.
func (w *Widget) Suggestion() string {
	defer w.guard()()
	return w.suggestion()
}

func (w *Widget) suggestion() string {
	if w.cfg.Suggestion == nil {
		return ""
	}
	return w.cfg.Suggestion.Value()
}

// HandleKey reacts to one key press and reports whether the host should
// suppress the key's default action.
func (w *Widget) HandleKey(k Key) bool {
	defer w.guard()()
	return w.handleKey(k)
}

func (w *Widget) handleKey(k Key) bool {
	switch k {
	case KeyTab:
		suggestion := w.suggestion()
		if suggestion != "" && suggestion != w.cfg.Input.Value() {
			w.cfg.Input.SetValue(suggestion)
			return true
		}
		return false

	case KeyEnter:
		if w.cfg.OnSelect == nil {
			return false
		}
		query := normalizeQuery(w.cfg.Input.Value())
		if w.selected != "" {
			w.cfg.OnSelect(w.selected)
		} else if w.filter.langs.Has(query) {
			// the debounced search has not run yet, but the code is exact
			w.cfg.OnSelect(query)
		}
		return true

	default:
		if k.isControl() {
			return false
		}
		w.selected = ""
		w.debounce.Call(func() { w.dispatch(w.fire) })
		w.toggleClear()
		return false
	}
}

// fire runs when typing has paused. It reads the input as it is now.
func (w *Widget) fire() {
	if w.ctx.Err() != nil {
		return
	}
	if w.cfg.Input.Value() == "" {
		w.clear()
		return
	}
	w.emptyTarget()
	w.search()
}

// Clear empties the input, hides the clear control and shows all languages.
func (w *Widget) Clear() {
	defer w.guard()()
	w.clear()
}

func (w *Widget) clear() {
	w.cfg.Input.SetValue("")
	if w.cfg.IsMobile == nil || !w.cfg.IsMobile() {
		w.cfg.Input.Focus()
	}
	w.toggleClear()
	w.autofill("", "")
	w.emptyTarget()
	w.search()
}

// ToggleClear shows the clear control iff the input has text.
func (w *Widget) ToggleClear() {
	defer w.guard()()
	w.toggleClear()
}

func (w *Widget) toggleClear() {
	if w.cfg.Clear == nil {
		return
	}
	if w.cfg.Input.Value() != "" {
		w.cfg.Clear.Show()
	} else {
		w.cfg.Clear.Hide()
	}
}

// Search computes results for the current input. With a SearchAPI the
// outcome arrives asynchronously; a newer Search cancels an older one.
func (w *Widget) Search() {
	defer w.guard()()
	w.search()
}

func (w *Widget) search() {
	query := normalizeQuery(w.cfg.Input.Value())

	gen := w.gen.Add(1)
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	if query == "" {
		w.handleOutcome(Outcome{Query: query, Codes: w.filter.Codes()})
		return
	}

	local := w.filter.Local(query)
	if w.cfg.SearchAPI == nil {
		w.handleOutcome(Outcome{Query: query, Codes: local})
		return
	}

	ctx, cancel := context.WithCancel(w.ctx)
	w.cancel = cancel
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		defer cancel()

		res, err := w.cfg.SearchAPI.Search(ctx, query)
		if err != nil {
			w.log.Debug("remote search failed, using local results", "query", query, "err", err)
		}
		out := w.filter.Resolve(query, local, res, err)

		w.dispatch(func() {
			if w.ctx.Err() != nil {
				return
			}
			if gen != w.gen.Load() {
				w.log.Debug("dropping superseded search", "query", query)
				return
			}
			w.handleOutcome(out)
		})
	}()
}

func (w *Widget) handleOutcome(out Outcome) {
	if len(out.Codes) == 0 {
		if w.cfg.Suggestion != nil {
			w.cfg.Suggestion.SetValue("")
		}
		w.emit(Event{Type: EventNoResults, Query: out.Query})
		return
	}

	if out.Query != "" {
		w.selected = out.Codes[0]
		w.autofill(out.Codes[0], out.Label)
	}

	if w.cfg.Target != nil {
		for _, code := range out.Codes {
			w.cfg.Target.Append(code)
		}
	}
	w.emit(Event{Type: EventResultsFound, Query: out.Query, Count: len(out.Codes)})
}

// Autofill writes the completion for code into the suggestion field.
func (w *Widget) Autofill(code, label string) {
	defer w.guard()()
	w.autofill(code, label)
}

func (w *Widget) autofill(code, label string) {
	if w.cfg.Suggestion == nil {
		return
	}
	w.cfg.Suggestion.SetValue(w.filter.Autofill(w.cfg.Input.Value(), code, label))
}

func (w *Widget) emptyTarget() {
	if e, ok := w.cfg.Target.(Emptier); ok {
		e.Empty()
	}
}

func (w *Widget) emit(e Event) {
	w.log.Debug("search done", "event", e.Type, "query", e.Query, "count", e.Count)
	if w.cfg.Listener != nil {
		w.cfg.Listener(e)
	}
}

// Wait blocks until every started remote search has delivered its outcome
// to Dispatch.
func (w *Widget) Wait() {
	w.inflight.Wait()
}

// Close stops the debounce timer and cancels remote searches.
func (w *Widget) Close() {
	defer w.guard()()
	w.debounce.Stop()
	w.stop()
}
