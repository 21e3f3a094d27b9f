/*
Package server implements msgpack IPC for language filtering.

Clients write msgpack maps to stdin and read one response per request from
stdout. Messages are processed one at a time, in order.

# Search

A search request carries the raw text of the input box:

	{"id": "req_001", "q": "Fr", "l": 10}

The response lists matching languages in result order, the language Enter
would select and the autofill text to show behind the cursor:

	{"id": "req_001", "r": [{"c": "fr", "n": "French"}, {"c": "fy", "n": "Western Frisian"}],
	 "sel": "fr", "s": "French", "c": 2, "t": 41}

An empty query lists every language and selects nothing. "c" is the total
number of matches, "r" is cut to "l" when given, and "t" is the time taken
in microseconds. When a remote search endpoint is configured it is asked
first and the local matches are used if it fails.

# Actions

	{"id": "a1", "action": "reload"}   re-read the languages file
	{"id": "a2", "action": "info"}     candidate count and source
	{"id": "a3", "action": "health"}

Failures answer with an error message and an HTTP-like code:

	{"id": "req_002", "e": "query exceeds 60 characters", "c": 400}
*/
package server

// Request is any client message.
type Request struct {
	ID     string `msgpack:"id"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"l,omitempty"`
	Action string `msgpack:"action,omitempty"`
}

// LanguageResult is one matching language.
type LanguageResult struct {
	Code string `msgpack:"c"`
	Name string `msgpack:"n"`
}

// SearchResponse answers a search.
type SearchResponse struct {
	ID         string           `msgpack:"id"`
	Results    []LanguageResult `msgpack:"r"`
	Selected   string           `msgpack:"sel,omitempty"`
	Suggestion string           `msgpack:"s,omitempty"`
	Count      int              `msgpack:"c"`
	Remote     bool             `msgpack:"rm,omitempty"`
	TimeTaken  int64            `msgpack:"t"`
}

// InfoResponse answers info, reload and health.
type InfoResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Languages int    `msgpack:"languages,omitempty"`
	Source    string `msgpack:"source,omitempty"`
	Remote    bool   `msgpack:"remote,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
