package languagefilter

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"

	"github.com/bastiangx/langfilter/pkg/languages"
)

// LanguageData looks up metadata that is not part of the candidate set.
// Both methods return "" when nothing is known.
type LanguageData interface {
	Autonym(code string) string
	Script(code string) string
}

type noData struct{}

func (noData) Autonym(string) string { return "" }
func (noData) Script(string) string  { return "" }

// Filter is the pure matching half of the widget: it knows the candidates
// and answers prefix queries over them. A Filter never changes after
// NewFilter; build a new one to change candidates.
type Filter struct {
	langs *languages.Set
	data  LanguageData
	codes []string
	trie  *patricia.Trie
}

// NewFilter indexes every candidate under its display name, autonym, code
// and script, case folded.
func NewFilter(langs *languages.Set, data LanguageData) *Filter {
	if data == nil {
		data = noData{}
	}
	f := &Filter{
		langs: langs,
		data:  data,
		codes: make([]string, 0, langs.Len()),
		trie:  patricia.NewTrie(),
	}

	langs.Each(func(code, name string) bool {
		idx := len(f.codes)
		f.codes = append(f.codes, code)
		for _, key := range []string{name, f.data.Autonym(code), code, f.data.Script(code)} {
			f.insert(key, idx)
		}
		return true
	})
	log.Debugf("Indexed %d languages", len(f.codes))
	return f
}

func (f *Filter) keys(code string) []string {
	name, _ := f.langs.Name(code)
	return []string{name, f.data.Autonym(code), code, f.data.Script(code)}
}

func (f *Filter) insert(key string, idx int) {
	folded := fold(key)
	if folded == "" {
		return
	}
	prefix := patricia.Prefix(folded)
	if item := f.trie.Get(prefix); item != nil {
		positions := item.([]int)
		if positions[len(positions)-1] != idx {
			f.trie.Set(prefix, append(positions, idx))
		}
		return
	}
	f.trie.Insert(prefix, []int{idx})
}

// Languages returns the candidate set.
func (f *Filter) Languages() *languages.Set {
	return f.langs
}

// Codes returns every candidate code in candidate order.
func (f *Filter) Codes() []string {
	out := make([]string, len(f.codes))
	copy(out, f.codes)
	return out
}

// Match reports whether query is a case-insensitive prefix of the display
// name, autonym, code or script of code. The query is literal text.
func (f *Filter) Match(code, query string) bool {
	q := fold(query)
	for _, key := range f.keys(code) {
		if key != "" && strings.HasPrefix(fold(key), q) {
			return true
		}
	}
	return false
}

// Local returns the codes matching query, in candidate order.
// An empty query matches everything.
func (f *Filter) Local(query string) []string {
	q := fold(query)
	if q == "" {
		return f.Codes()
	}

	hits := make([]bool, len(f.codes))
	err := f.trie.VisitSubtree(patricia.Prefix(q), func(_ patricia.Prefix, item patricia.Item) error {
		for _, idx := range item.([]int) {
			hits[idx] = true
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting language index: %v", err)
		return nil
	}

	results := make([]string, 0)
	for i, hit := range hits {
		if hit {
			results = append(results, f.codes[i])
		}
	}
	return results
}

// fold case folds s for comparison. Casers carry state, so each call gets
// its own.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// normalizeQuery turns raw input into a query: trimmed and lower cased.
func normalizeQuery(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
