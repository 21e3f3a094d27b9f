package languagefilter

// EventType identifies what a search produced.
type EventType int

const (
	// EventNoResults carries the query that matched nothing.
	EventNoResults EventType = iota
	// EventResultsFound carries the query and the number of results.
	EventResultsFound
)

func (t EventType) String() string {
	switch t {
	case EventNoResults:
		return "noresults"
	case EventResultsFound:
		return "resultsfound"
	default:
		return "unknown"
	}
}

// Event is emitted once per completed search.
type Event struct {
	Type  EventType
	Query string
	Count int
}

// Listener receives search events.
type Listener func(Event)
