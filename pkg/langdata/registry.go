/*
Package langdata answers the metadata questions a language filter asks about
a code: its autonym (the name the language uses for itself) and the ISO 15924
code of the script it is usually written in.

Lookups come from CLDR data shipped with golang.org/x/text. Entries can be
overridden per code, either programmatically or from a TOML file:

	[autonyms]
	ml = "മലയാളം"

	[scripts]
	sr = "Cyrl"
*/
package langdata

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/bastiangx/langfilter/pkg/languages"
)

type entry struct {
	autonym string
	script  string
}

// Registry resolves autonyms and scripts, caching CLDR lookups.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	autonyms    map[string]string
	scripts     map[string]string
	cache       map[string]entry
	disableCLDR bool
}

// NewRegistry returns a registry backed by CLDR data.
func NewRegistry() *Registry {
	return &Registry{
		autonyms: make(map[string]string),
		scripts:  make(map[string]string),
		cache:    make(map[string]entry),
	}
}

// NewStaticRegistry returns a registry that only answers from overrides.
func NewStaticRegistry(autonyms, scripts map[string]string) *Registry {
	r := NewRegistry()
	r.disableCLDR = true
	for code, name := range autonyms {
		r.autonyms[code] = name
	}
	for code, script := range scripts {
		r.scripts[code] = script
	}
	return r
}

// SetAutonym overrides the autonym for code.
func (r *Registry) SetAutonym(code, autonym string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autonyms[code] = autonym
}

// SetScript overrides the script for code.
func (r *Registry) SetScript(code, script string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[code] = script
}

// Autonym returns the native name of code, or "" when unknown.
func (r *Registry) Autonym(code string) string {
	r.mu.RLock()
	if name, ok := r.autonyms[code]; ok {
		r.mu.RUnlock()
		return name
	}
	r.mu.RUnlock()
	return r.lookup(code).autonym
}

// Script returns the ISO 15924 script code of code, or "" when unknown.
func (r *Registry) Script(code string) string {
	r.mu.RLock()
	if script, ok := r.scripts[code]; ok {
		r.mu.RUnlock()
		return script
	}
	r.mu.RUnlock()
	return r.lookup(code).script
}

func (r *Registry) lookup(code string) entry {
	if r.disableCLDR || code == "" {
		return entry{}
	}

	r.mu.RLock()
	e, ok := r.cache[code]
	r.mu.RUnlock()
	if ok {
		return e
	}

	tag, err := language.Parse(code)
	if err != nil {
		log.Debugf("langdata: unparseable code %q: %v", code, err)
	} else {
		e.autonym = display.Self.Name(tag)
		if script, conf := tag.Script(); conf != language.No {
			e.script = script.String()
		}
	}

	r.mu.Lock()
	r.cache[code] = e
	r.mu.Unlock()
	return e
}

type overrideFile struct {
	Autonyms map[string]string `toml:"autonyms"`
	Scripts  map[string]string `toml:"scripts"`
}

// LoadOverrides merges [autonyms] and [scripts] tables from a TOML file.
func (r *Registry) LoadOverrides(path string) error {
	var raw overrideFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("decode overrides %s: %w", path, err)
	}

	for code, name := range raw.Autonyms {
		r.SetAutonym(code, name)
	}
	for code, script := range raw.Scripts {
		r.SetScript(code, script)
	}
	log.Debugf("langdata: loaded %d autonyms and %d scripts from %s",
		len(raw.Autonyms), len(raw.Scripts), path)
	return nil
}

// DisplayNames builds a candidate set for codes, naming each language in the
// UI language ui. Codes that CLDR cannot name keep the code as their name.
func DisplayNames(codes []string, ui string) (*languages.Set, error) {
	uiTag, err := language.Parse(ui)
	if err != nil {
		return nil, fmt.Errorf("parse ui language %q: %w", ui, err)
	}
	namer := display.Tags(uiTag)

	set := languages.New()
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		name := code
		if tag, err := language.Parse(code); err == nil {
			if n := namer.Name(tag); n != "" {
				name = n
			}
		}
		set.Add(code, name)
	}
	return set, nil
}
