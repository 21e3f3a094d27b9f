package languagefilter

import "context"

// SearchAPI is a remote language search. It is called with the normalized
// query and may block; the widget calls it off the UI goroutine.
type SearchAPI interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// SearchEntry is one language returned by a remote search.
type SearchEntry struct {
	Code string
	Name string
}

// SearchResult holds remote matches in server order.
type SearchResult struct {
	Query   string
	Entries []SearchEntry
}

// Outcome is what a search settled on, whichever way it went.
type Outcome struct {
	Query string
	Codes []string
	// Label is the remote name of Codes[0], used for autofill.
	Label  string
	Remote bool
}

// Resolve folds a remote search into an outcome. On error (or no result)
// the local codes stand. Remote codes that are not candidates are dropped,
// and the first surviving remote name becomes the autofill label.
func (f *Filter) Resolve(query string, local []string, res *SearchResult, err error) Outcome {
	if err != nil || res == nil {
		return Outcome{Query: query, Codes: local}
	}

	out := Outcome{Query: query, Codes: make([]string, 0, len(res.Entries)), Remote: true}
	for _, e := range res.Entries {
		if !f.langs.Has(e.Code) {
			continue
		}
		if out.Label == "" {
			out.Label = e.Name
		}
		out.Codes = append(out.Codes, e.Code)
	}
	return out
}
