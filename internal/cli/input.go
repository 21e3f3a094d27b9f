// Package cli handles cmd line input for debugging the language filter.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/bastiangx/langfilter/pkg/languagefilter"
	"github.com/bastiangx/langfilter/pkg/languages"
)

// InputHandler feeds each line read from its reader into a widget backed by
// in-memory fields and prints what the widget produced.
type InputHandler struct {
	widget  *languagefilter.Widget
	input   *languagefilter.TextField
	results *languagefilter.ResultList
	events  []languagefilter.Event

	limit  int
	in     io.Reader
	out    io.Writer
	prompt bool
}

// NewInputHandler builds the widget the handler drives. api may be nil.
func NewInputHandler(langs *languages.Set, data languagefilter.LanguageData, api languagefilter.SearchAPI, limit int) (*InputHandler, error) {
	h := &InputHandler{
		input:   languagefilter.NewTextField(""),
		results: &languagefilter.ResultList{},
		limit:   limit,
		in:      os.Stdin,
		out:     os.Stdout,
		prompt:  isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
	w, err := languagefilter.New(languagefilter.Config{
		Input:      h.input,
		Languages:  langs,
		Target:     h.results,
		SearchAPI:  api,
		Suggestion: languagefilter.NewTextField(""),
		Data:       data,
		Listener:   func(e languagefilter.Event) { h.events = append(h.events, e) },
	})
	if err != nil {
		return nil, err
	}
	h.widget = w
	return h, nil
}

// SetIO replaces stdin and stdout.
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in = in
	h.out = out
	h.prompt = false
}

// Start reads lines until EOF. A blank line lists every language.
func (h *InputHandler) Start() error {
	defer h.widget.Close()
	if h.prompt {
		log.Print("langfilter CLI")
		log.Print("type part of a language name or code and press Enter (Ctrl+C to exit):")
	}

	scanner := bufio.NewScanner(h.in)
	for {
		if h.prompt {
			fmt.Fprint(h.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		h.handleInput(scanner.Text())
	}
}

func (h *InputHandler) handleInput(line string) {
	h.events = h.events[:0]
	h.results.Empty()
	h.input.SetValue(line)

	start := time.Now()
	h.widget.Search()
	h.widget.Wait()
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), line)

	var last languagefilter.Event
	if n := len(h.events); n > 0 {
		last = h.events[n-1]
	}
	if last.Type == languagefilter.EventNoResults {
		fmt.Fprintf(h.out, "No languages match '%s'\n", last.Query)
		return
	}

	fmt.Fprintln(h.out, h.render(h.results.Codes()))
	if s := h.widget.Suggestion(); s != "" {
		fmt.Fprintf(h.out, "suggestion: %s\n", s)
	}
	if sel := h.widget.SelectedLanguage(); sel != "" && last.Query != "" {
		fmt.Fprintf(h.out, "selected: %s\n", sel)
	}
}

func (h *InputHandler) render(codes []string) string {
	langs := h.widget.Filter().Languages()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Code", "Name"})
	for i, code := range codes {
		if h.limit > 0 && i == h.limit {
			tw.AppendFooter(table.Row{"", "", "+" + strconv.Itoa(len(codes)-h.limit) + " more"})
			break
		}
		name, _ := langs.Name(code)
		tw.AppendRow(table.Row{i + 1, code, name})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	return strings.TrimRight(tw.Render(), "\n")
}
