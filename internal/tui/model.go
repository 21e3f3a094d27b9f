// Package tui is an interactive terminal language picker built on the
// languagefilter widget.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
)

const maxRows = 12

// dispatchMsg carries widget work back onto the update loop.
type dispatchMsg func()

// Options configures the picker. Languages is required.
type Options struct {
	Languages *languages.Set
	Data      languagefilter.LanguageData
	API       languagefilter.SearchAPI
	Delay     time.Duration
}

// Model is the bubbletea model of the picker.
type Model struct {
	ti      textinput.Model
	ghost   *languagefilter.TextField
	results *languagefilter.ResultList
	clear   *languagefilter.ClearButton
	widget  *languagefilter.Widget

	calls chan func()
	done  chan struct{}

	last   languagefilter.Event
	chosen string
	styles styles
}

// inputBox exposes the text input to the widget. It points into the Model,
// which is only ever used by pointer.
type inputBox struct{ ti *textinput.Model }

func (b inputBox) Value() string { return b.ti.Value() }

func (b inputBox) SetValue(v string) {
	b.ti.SetValue(v)
	b.ti.CursorEnd()
}

func (b inputBox) Focus() { b.ti.Focus() }

// New builds the picker and its widget.
func New(opts Options) (*Model, error) {
	m := &Model{
		ghost:   languagefilter.NewTextField(""),
		results: &languagefilter.ResultList{},
		clear:   &languagefilter.ClearButton{},
		calls:   make(chan func(), 16),
		done:    make(chan struct{}),
		styles:  defaultStyles(),
	}
	m.ti = textinput.New()
	m.ti.Placeholder = "Search languages"
	m.ti.CharLimit = 64
	m.ti.Focus()

	w, err := languagefilter.New(languagefilter.Config{
		Input:      inputBox{&m.ti},
		Languages:  opts.Languages,
		Target:     m.results,
		SearchAPI:  opts.API,
		OnSelect:   func(code string) { m.chosen = code },
		Suggestion: m.ghost,
		Clear:      m.clear,
		Data:       opts.Data,
		Listener:   func(e languagefilter.Event) { m.last = e },
		Delay:      opts.Delay,
		Dispatch:   m.dispatch,
	})
	if err != nil {
		return nil, err
	}
	m.widget = w
	return m, nil
}

// dispatch is called from timer and search goroutines.
func (m *Model) dispatch(f func()) {
	select {
	case m.calls <- f:
	case <-m.done:
	}
}

func (m *Model) waitForCall() tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-m.calls:
			return dispatchMsg(f)
		case <-m.done:
			return nil
		}
	}
}

// Chosen is the language confirmed with Enter, or "".
func (m *Model) Chosen() string {
	return m.chosen
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForCall())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, m.waitForCall()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "ctrl+u":
		m.widget.Clear()
		return m, nil
	case "tab":
		m.widget.HandleKey(languagefilter.KeyTab)
		return m, nil
	case "enter":
		m.widget.HandleKey(languagefilter.KeyEnter)
		if m.chosen != "" {
			return m.quit()
		}
		return m, nil
	}

	before := m.ti.Value()
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)

	switch {
	case msg.Type == tea.KeySpace:
		m.widget.HandleKey(languagefilter.RuneKey(' '))
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.widget.HandleKey(languagefilter.RuneKey(r))
		}
	case msg.Type == tea.KeyBackspace, m.ti.Value() != before:
		// delete, ctrl+w, ctrl+k and friends edit the text too
		m.widget.HandleKey(languagefilter.KeyBackspace)
	}
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.close()
	return m, tea.Quit
}

func (m *Model) close() {
	select {
	case <-m.done:
	default:
		close(m.done)
		m.widget.Close()
	}
}

// Run starts the picker on the terminal and returns the chosen code.
func Run(opts Options) (string, error) {
	m, err := New(opts)
	if err != nil {
		return "", err
	}
	defer m.close()

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	return final.(*Model).Chosen(), nil
}
