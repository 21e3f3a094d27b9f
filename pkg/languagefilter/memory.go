package languagefilter

import "sync"

// TextField is an in-memory Input and Field, for hosts without a real
// text element (CLI, IPC, tests).
type TextField struct {
	mu      sync.Mutex
	value   string
	focused int
}

// NewTextField returns a field holding value.
func NewTextField(value string) *TextField {
	return &TextField{value: value}
}

func (t *TextField) Value() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

func (t *TextField) SetValue(v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = v
}

func (t *TextField) Focus() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused++
}

// FocusCount returns how many times Focus was called.
func (t *TextField) FocusCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focused
}

// ClearButton records visibility.
type ClearButton struct {
	mu      sync.Mutex
	visible bool
}

func (c *ClearButton) Show() { c.set(true) }
func (c *ClearButton) Hide() { c.set(false) }

func (c *ClearButton) set(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = v
}

// Visible reports the last Show/Hide.
func (c *ClearButton) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// ResultList collects rendered codes.
type ResultList struct {
	mu    sync.Mutex
	codes []string
}

func (r *ResultList) Append(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func (r *ResultList) Empty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = nil
}

// Codes returns a copy of the rendered codes.
func (r *ResultList) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}
