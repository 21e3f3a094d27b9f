package languages

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Load reads a candidate set from path, picking the decoder by extension.
func Load(path string) (*Set, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	var set *Set
	switch format {
	case FormatJSON:
		set, err = loadJSON(path)
	case FormatText:
		set, err = loadText(path)
	case FormatTOML:
		set, err = loadTOML(path)
	default:
		err = fmt.Errorf("unsupported format %v", format)
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded %d languages from %s (%s)", set.Len(), path, format)
	return set, nil
}

func loadJSON(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	set := New()
	if err := set.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return set, nil
}

func loadText(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadText(file)
}

// ReadText parses "code<TAB>name" lines. Blank lines and lines starting
// with '#' are skipped; a line without a tab is an error.
func ReadText(r io.Reader) (*Set, error) {
	set := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected code<TAB>name", lineNo)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("line %d: empty language code", lineNo)
		}
		set.Add(code, strings.TrimSpace(name))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

type tomlFile struct {
	Languages map[string]string `toml:"languages"`
}

func loadTOML(path string) (*Set, error) {
	var raw tomlFile
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// map order is random; MetaData.Keys keeps document order
	set := New()
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "languages" {
			continue
		}
		code := key[1]
		set.Add(code, raw.Languages[code])
	}
	return set, nil
}
